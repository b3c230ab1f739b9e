package loaders

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

// RasterizeFont reads a TrueType/OpenType file and rasterizes runes 0-127 at
// pixelHeight.
func RasterizeFont(path string, pixelHeight uint32) (*metadata.FontFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return RasterizeFontData(data, name, pixelHeight)
}

// RasterizeFontData rasterizes an in-memory font. Runes the font does not
// define are skipped; runes with an empty outline, such as the space, keep
// their advance with an empty bitmap.
func RasterizeFontData(data []byte, name string, pixelHeight uint32) (*metadata.FontFace, error) {
	if pixelHeight == 0 {
		return nil, fmt.Errorf("font %s at 0px: %w", name, core.ErrInvalidDimensions)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(pixelHeight),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	defer face.Close()

	out := &metadata.FontFace{
		Name:        name,
		PixelHeight: pixelHeight,
		LineHeight:  int32(face.Metrics().Height.Ceil()),
	}

	var buf sfnt.Buffer
	skipped := 0
	for r := metadata.FirstGlyph; r <= metadata.LastGlyph; r++ {
		if idx, err := f.GlyphIndex(&buf, r); err != nil || idx == 0 {
			skipped++
			continue
		}
		dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			skipped++
			continue
		}
		out.Glyphs = append(out.Glyphs, metadata.GlyphBitmap{
			Rune:     r,
			Width:    int32(dr.Dx()),
			Height:   int32(dr.Dy()),
			BearingX: int32(dr.Min.X),
			BearingY: int32(-dr.Min.Y),
			Advance:  int32(advance),
			Pixels:   coverage(mask, maskp, dr.Dx(), dr.Dy()),
		})
	}

	core.LogDebug("font %s rasterized at %dpx: %d glyphs, %d undefined", name, pixelHeight, len(out.Glyphs), skipped)
	return out, nil
}

// coverage copies the alpha of a glyph mask into a packed top-down bitmap.
func coverage(mask image.Image, origin image.Point, w, h int) []byte {
	if w <= 0 || h <= 0 || mask == nil {
		return nil
	}
	pixels := make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(origin.X+x, origin.Y+y).RGBA()
			pixels = append(pixels, uint8(a>>8))
		}
	}
	return pixels
}
