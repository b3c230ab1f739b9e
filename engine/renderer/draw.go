package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

// withDepthTest sets the depth test and returns a func restoring the
// previous setting.
func (d *Device) withDepthTest(enabled bool) func() {
	previous := d.gl.IsEnabled(opengl.DepthTest)
	d.setDepthTest(enabled)
	return func() {
		d.setDepthTest(previous)
	}
}

func (d *Device) setDepthTest(enabled bool) {
	if enabled {
		d.gl.Enable(opengl.DepthTest)
	} else {
		d.gl.Disable(opengl.DepthTest)
	}
}

func (d *Device) builtinShape(op string, s *shape) (*shape, error) {
	if s == nil {
		return nil, d.reject(op, fmt.Errorf("%s: %w", op, core.ErrShapeNotFound))
	}
	return s, nil
}

func (d *Device) drawShape(s *shape) {
	d.gl.BindVertexArray(s.vao)
	d.gl.DrawElements(opengl.Triangles, s.indexCount, opengl.UnsignedInt, 0)
	d.gl.BindVertexArray(0)
}

// DrawTexture2D draws the whole texture on the unit quad.
func (d *Device) DrawTexture2D(t math.Transform, texture *metadata.ImageTexture, color mgl32.Vec4) error {
	const op = "DrawTexture2D"
	if err := d.drawable(op, true); err != nil {
		return err
	}
	tex, err := d.loadedTexture(op, texture)
	if err != nil {
		return err
	}
	w, h := float32(tex.Width), float32(tex.Height)
	uv := math.GenerateUVCoords(w, h, mgl32.Vec2{0, 0}, mgl32.Vec2{w, h})
	return d.drawTexture2D(op, t, tex.ID, uv, color)
}

// DrawSubTexture2D draws the pixel region of the texture, e.g. one sprite
// sheet tile.
func (d *Device) DrawSubTexture2D(t math.Transform, texture *metadata.ImageTexture, region math.Rect, color mgl32.Vec4) error {
	const op = "DrawSubTexture2D"
	if err := d.drawable(op, true); err != nil {
		return err
	}
	tex, err := d.loadedTexture(op, texture)
	if err != nil {
		return err
	}
	uv := math.GenerateUVCoords(float32(tex.Width), float32(tex.Height), region.Position, region.Size)
	return d.drawTexture2D(op, t, tex.ID, uv, color)
}

// DrawTexture2DI maps a size pixel window onto the quad. Sizes larger than
// the texture repeat it.
func (d *Device) DrawTexture2DI(t math.Transform, texture *metadata.ImageTexture, size mgl32.Vec2, color mgl32.Vec4) error {
	const op = "DrawTexture2DI"
	if err := d.drawable(op, true); err != nil {
		return err
	}
	tex, err := d.loadedTexture(op, texture)
	if err != nil {
		return err
	}
	uv := math.GenerateUVCoords(float32(tex.Width), float32(tex.Height), mgl32.Vec2{0, 0}, size)
	return d.drawTexture2D(op, t, tex.ID, uv, color)
}

// DrawTexture2DRT draws the colour attachment of a render target as a sprite.
func (d *Device) DrawTexture2DRT(t math.Transform, rt *metadata.RenderTarget, color mgl32.Vec4) error {
	const op = "DrawTexture2DRT"
	if err := d.drawable(op, true); err != nil {
		return err
	}
	if !rt.IsResident() {
		return d.reject(op, &core.StateError{Op: op, Resource: "render target " + rt.Name, State: "disposed"})
	}
	w, h := float32(rt.Width), float32(rt.Height)
	uv := math.GenerateUVCoords(w, h, mgl32.Vec2{0, 0}, mgl32.Vec2{w, h})
	return d.drawTexture2D(op, t, rt.TextureID, uv, color)
}

// drawTexture2D is shared by every sprite draw. Sprites are drawn in
// submission order, so the depth test is off for the duration of the call.
func (d *Device) drawTexture2D(op string, t math.Transform, texture uint32, uv math.UVCoords, color mgl32.Vec4) error {
	quad, err := d.builtinShape(op, d.textureShape)
	if err != nil {
		return err
	}
	restore := d.withDepthTest(false)
	defer restore()

	d.setMat4(uniformProjection, d.projectionMatrix)
	d.setMat4(uniformView, d.viewMatrix)
	d.setMat4(uniformModel, t.ModelMatrix())
	d.setVec4(uniformColor, color)
	d.setVec4(uniformUVWindow, uv.Transform())
	d.bindSampler(texture)

	d.drawShape(quad)
	return nil
}

// FillRect draws a solid quad.
func (d *Device) FillRect(t math.Transform, color mgl32.Vec4) error {
	return d.drawRect("FillRect", t, color, true, 0)
}

// DrawRect draws the outline of a quad. borderWidth is a percentage of the
// quad height; the transform aspect ratio keeps the border uniform.
func (d *Device) DrawRect(t math.Transform, color mgl32.Vec4, borderWidth float32) error {
	return d.drawRect("DrawRect", t, color, false, borderWidth)
}

func (d *Device) drawRect(op string, t math.Transform, color mgl32.Vec4, solid bool, borderWidth float32) error {
	if err := d.drawable(op, true); err != nil {
		return err
	}
	quad, err := d.builtinShape(op, d.rectShape)
	if err != nil {
		return err
	}
	restore := d.withDepthTest(false)
	defer restore()

	d.setMat4(uniformProjection, d.projectionMatrix)
	d.setMat4(uniformView, d.viewMatrix)
	d.setMat4(uniformModel, t.ModelMatrix())
	d.setVec4(uniformColor, color)
	d.setBool(uniformSolid, solid)
	if !solid {
		d.setFloat(uniformAspect, t.AspectRatio())
		d.setFloat(uniformBorder, borderWidth)
	}

	d.drawShape(quad)
	return nil
}
