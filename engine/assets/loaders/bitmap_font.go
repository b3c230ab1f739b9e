package loaders

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

// LoadBitmapFont imports an AngelCode BMFont text descriptor (.fnt). Every
// glyph is cut out of its page sheet into its own coverage bitmap so bitmap
// and rasterized fonts share one upload path.
func LoadBitmapFont(path string) (*metadata.FontFace, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("bitmap font %s: %w", path, err)
	}
	desc := font.Descriptor
	dir := filepath.Dir(path)

	pages := make(map[int]image.Image)
	for _, p := range desc.Pages {
		img, err := decodePage(filepath.Join(dir, p.File))
		if err != nil {
			return nil, fmt.Errorf("bitmap font %s page %d: %w", path, p.ID, err)
		}
		pages[int(p.ID)] = img
	}

	name := desc.Info.Face
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	face := &metadata.FontFace{
		Name:        name,
		PixelHeight: uint32(abs(int(desc.Info.Size))),
		LineHeight:  int32(desc.Common.LineHeight),
	}

	for _, c := range desc.Chars {
		r := rune(c.ID)
		if r < metadata.FirstGlyph || r > metadata.LastGlyph {
			continue
		}
		page, ok := pages[int(c.Page)]
		if !ok {
			core.LogWarn("bitmap font %s: glyph %q references missing page %d", path, r, c.Page)
			continue
		}
		x, y, w, h := int(c.X), int(c.Y), int(c.Width), int(c.Height)
		rect := image.Rect(x, y, x+w, y+h)
		face.Glyphs = append(face.Glyphs, metadata.GlyphBitmap{
			Rune:     r,
			Width:    int32(c.Width),
			Height:   int32(c.Height),
			BearingX: int32(c.XOffset),
			BearingY: int32(desc.Common.Base) - int32(c.YOffset),
			Advance:  int32(c.XAdvance) << 6,
			Pixels:   cutGlyph(page, rect),
		})
	}
	sort.Slice(face.Glyphs, func(i, j int) bool { return face.Glyphs[i].Rune < face.Glyphs[j].Rune })

	core.LogDebug("bitmap font %s imported: %d glyphs on %d pages", name, len(face.Glyphs), len(pages))
	return face, nil
}

func decodePage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// cutGlyph extracts rect as coverage. Sheets with transparency use alpha,
// opaque sheets (white glyphs on black) use luminance.
func cutGlyph(page image.Image, rect image.Rectangle) []byte {
	rect = rect.Intersect(page.Bounds())
	if rect.Empty() {
		return nil
	}
	opaque := true
	if o, ok := page.(interface{ Opaque() bool }); ok {
		opaque = o.Opaque()
	}
	pixels := make([]byte, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := page.At(x, y)
			if opaque {
				pixels = append(pixels, color.GrayModel.Convert(c).(color.Gray).Y)
				continue
			}
			_, _, _, a := c.RGBA()
			pixels = append(pixels, uint8(a>>8))
		}
	}
	return pixels
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
