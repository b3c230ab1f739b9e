package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/assets/loaders"
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

// A glyph quad is two triangles of (x, y, u, v) vertices.
const glyphQuadFloats = 6 * 4

// LoadFont rasterizes a TrueType/OpenType font at pixelHeight and uploads it.
func (d *Device) LoadFont(path string, pixelHeight uint32) (*metadata.Font, error) {
	if err := d.ready("LoadFont"); err != nil {
		return nil, err
	}
	face, err := loaders.RasterizeFont(path, pixelHeight)
	if err != nil {
		return nil, d.reject("LoadFont", err)
	}
	return d.UploadFont(face)
}

// LoadBitmapFont imports an AngelCode BMFont descriptor and uploads it.
func (d *Device) LoadBitmapFont(path string) (*metadata.Font, error) {
	if err := d.ready("LoadBitmapFont"); err != nil {
		return nil, err
	}
	face, err := loaders.LoadBitmapFont(path)
	if err != nil {
		return nil, d.reject("LoadBitmapFont", err)
	}
	return d.UploadFont(face)
}

// UploadFont creates one single channel texture per glyph with pixels and the
// shared quad buffer used to draw them. Glyphs outside 0-127 are skipped.
func (d *Device) UploadFont(face *metadata.FontFace) (*metadata.Font, error) {
	const op = "UploadFont"
	if err := d.ready(op); err != nil {
		return nil, err
	}
	if face == nil {
		return nil, d.reject(op, fmt.Errorf("nil font face: %w", core.ErrInvalidData))
	}

	font := metadata.NewFont(face.Name)
	font.LineHeight = face.LineHeight

	d.gl.PixelStorei(opengl.UnpackAlignment, 1)
	for _, g := range face.Glyphs {
		if g.Rune < metadata.FirstGlyph || g.Rune > metadata.LastGlyph {
			d.logger.Debug("glyph outside font range skipped", "font", face.Name, "rune", g.Rune)
			continue
		}
		glyph := metadata.Glyph{
			Width:    g.Width,
			Height:   g.Height,
			BearingX: g.BearingX,
			BearingY: g.BearingY,
			Advance:  g.Advance,
		}
		if g.Width > 0 && g.Height > 0 {
			if len(g.Pixels) != int(g.Width*g.Height) {
				d.logger.Warn("glyph bitmap size mismatch, skipped", "font", face.Name, "rune", g.Rune)
				continue
			}
			glyph.TextureID = d.gl.GenTexture()
			d.gl.BindTexture(opengl.Texture2D, glyph.TextureID)
			d.gl.TexImage2D(opengl.Texture2D, 0, opengl.Red, g.Width, g.Height, opengl.Red, opengl.UnsignedByte, g.Pixels)
			d.gl.TexParameteri(opengl.Texture2D, opengl.TextureWrapS, opengl.ClampToEdge)
			d.gl.TexParameteri(opengl.Texture2D, opengl.TextureWrapT, opengl.ClampToEdge)
			d.gl.TexParameteri(opengl.Texture2D, opengl.TextureMinFilter, opengl.Linear)
			d.gl.TexParameteri(opengl.Texture2D, opengl.TextureMagFilter, opengl.Linear)
		}
		font.Glyphs[g.Rune] = glyph
	}
	d.gl.BindTexture(opengl.Texture2D, 0)
	d.gl.PixelStorei(opengl.UnpackAlignment, 4)

	font.VAO = d.gl.GenVertexArray()
	d.gl.BindVertexArray(font.VAO)
	font.VBO = d.gl.GenBuffer()
	d.gl.BindBuffer(opengl.ArrayBuffer, font.VBO)
	d.gl.BufferDataSize(opengl.ArrayBuffer, glyphQuadFloats*floatSize, opengl.DynamicDraw)
	d.gl.EnableVertexAttribArray(0)
	d.gl.VertexAttribPointer(0, 4, opengl.Float, false, 4*floatSize, 0)
	d.gl.BindBuffer(opengl.ArrayBuffer, 0)
	d.gl.BindVertexArray(0)

	d.logger.Debug("font uploaded", "font", face.Name, "glyphs", len(font.Glyphs),
		"missing", int(metadata.LastGlyph-metadata.FirstGlyph+1)-len(font.Glyphs))
	return font, nil
}

// DrawText2D draws text with its baseline starting at pos. Alignment shifts
// the whole line by its rendered width. The line is rejected before anything
// is drawn when a rune has no glyph.
func (d *Device) DrawText2D(font *metadata.Font, text string, pos mgl32.Vec2, scale float32, color mgl32.Vec4, align metadata.TextAlign) error {
	const op = "DrawText2D"
	if err := d.drawable(op, true); err != nil {
		return err
	}
	if font.VAO == 0 {
		return d.reject(op, &core.StateError{Op: op, Resource: "font " + font.Name, State: "disposed"})
	}
	for _, r := range text {
		if _, ok := font.Glyph(r); !ok {
			return d.reject(op, fmt.Errorf("%q in font %s: %w", r, font.Name, core.ErrGlyphNotFound))
		}
	}

	bounds := font.StringBounds(text, scale)
	x := pos.X() + metadata.AlignOffset(align, bounds)
	y := pos.Y()

	restore := d.withDepthTest(false)
	defer restore()

	d.setMat4(uniformProjection, d.projectionMatrix)
	d.setVec4(uniformColor, color)
	d.gl.ActiveTexture(opengl.Texture0)
	d.setInt(uniformSampler, 0)
	d.gl.BindVertexArray(font.VAO)

	for _, r := range text {
		g, _ := font.Glyph(r)
		if g.TextureID != 0 {
			xpos := x + float32(g.BearingX)*scale
			ypos := y - float32(g.Height-g.BearingY)*scale
			w := float32(g.Width) * scale
			h := float32(g.Height) * scale

			// bitmaps are stored top row first
			vertices := []float32{
				xpos, ypos + h, 0, 0,
				xpos, ypos, 0, 1,
				xpos + w, ypos, 1, 1,

				xpos, ypos + h, 0, 0,
				xpos + w, ypos, 1, 1,
				xpos + w, ypos + h, 1, 0,
			}
			d.gl.BindTexture(opengl.Texture2D, g.TextureID)
			d.gl.BindBuffer(opengl.ArrayBuffer, font.VBO)
			d.gl.BufferSubDataFloat32(opengl.ArrayBuffer, 0, vertices)
			d.gl.BindBuffer(opengl.ArrayBuffer, 0)
			d.gl.DrawArrays(opengl.Triangles, 0, 6)
		}
		x += float32(g.AdvancePixels()) * scale
	}

	d.gl.BindVertexArray(0)
	d.gl.BindTexture(opengl.Texture2D, 0)
	return nil
}

// DisposeFont deletes the glyph textures and the quad buffer.
func (d *Device) DisposeFont(font *metadata.Font) error {
	if err := d.ready("DisposeFont"); err != nil {
		return err
	}
	if font.VAO == 0 {
		d.logger.Warn("dispose skipped", "resource", "font "+font.Name, "state", "disposed")
		return nil
	}
	for r, g := range font.Glyphs {
		if g.TextureID != 0 {
			d.gl.DeleteTexture(g.TextureID)
		}
		delete(font.Glyphs, r)
	}
	d.gl.DeleteBuffer(font.VBO)
	d.gl.DeleteVertexArray(font.VAO)
	font.VAO, font.VBO = 0, 0
	return nil
}
