package metadata

import "github.com/go-gl/mathgl/mgl32"

// Glyph codes covered by a Font.
const (
	FirstGlyph rune = 0
	LastGlyph  rune = 127
)

type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

/**
 * @brief A rasterized glyph before upload. Pixels is a tightly packed
 * single channel coverage bitmap of Width x Height, top row first.
 */
type GlyphBitmap struct {
	Rune     rune
	Width    int32
	Height   int32
	BearingX int32
	BearingY int32
	// Horizontal advance in 26.6 fixed point.
	Advance int32
	Pixels  []byte
}

/** @brief The CPU side output of a font rasterizer or bitmap font import. */
type FontFace struct {
	Name        string
	PixelHeight uint32
	LineHeight  int32
	Glyphs      []GlyphBitmap
}

/**
 * @brief A resident glyph. TextureID is zero for glyphs with an empty
 * bitmap, such as the space character; they only advance the pen.
 */
type Glyph struct {
	TextureID uint32
	Width     int32
	Height    int32
	BearingX  int32
	BearingY  int32
	Advance   int32
}

// AdvancePixels converts the 26.6 advance to whole pixels.
func (g Glyph) AdvancePixels() int32 {
	return g.Advance >> 6
}

type Font struct {
	Name       string
	LineHeight int32
	Glyphs     map[rune]Glyph
	VAO        uint32
	VBO        uint32
}

func NewFont(name string) *Font {
	return &Font{Name: name, Glyphs: make(map[rune]Glyph)}
}

func (f *Font) Glyph(r rune) (Glyph, bool) {
	g, ok := f.Glyphs[r]
	return g, ok
}

// StringBounds returns the rendered width (sum of advances) and height
// (tallest glyph) of text, multiplied by scale. Unknown runes are ignored.
func (f *Font) StringBounds(text string, scale float32) mgl32.Vec2 {
	var width, height int32
	for _, r := range text {
		g, ok := f.Glyphs[r]
		if !ok {
			continue
		}
		width += g.AdvancePixels()
		if g.Height > height {
			height = g.Height
		}
	}
	return mgl32.Vec2{float32(width) * scale, float32(height) * scale}
}

// AlignOffset is the horizontal pen offset applied before the first glyph.
func AlignOffset(align TextAlign, bounds mgl32.Vec2) float32 {
	switch align {
	case TextAlignCenter:
		return -bounds.X() / 2
	case TextAlignRight:
		return -bounds.X()
	default:
		return 0
	}
}
