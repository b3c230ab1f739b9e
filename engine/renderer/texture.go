package renderer

import (
	"fmt"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

// LoadTexture uploads a PreLoad texture and drops its pixel data. Any other
// state, or pixel data that does not match the recorded size, leaves the
// texture unchanged.
func (d *Device) LoadTexture(t *metadata.ImageTexture) error {
	const op = "LoadTexture"
	if err := d.ready(op); err != nil {
		return err
	}
	pre, ok := t.State.(metadata.TexturePreLoad)
	if !ok {
		return d.reject(op, &core.StateError{Op: op, Resource: "image texture", State: t.StateName()})
	}
	if err := pre.Validate(); err != nil {
		return d.reject(op, fmt.Errorf("%s %q: %w", op, pre.Path, err))
	}

	id := d.gl.GenTexture()
	d.gl.BindTexture(opengl.Texture2D, id)
	d.gl.TexParameteri(opengl.Texture2D, opengl.TextureWrapS, opengl.Repeat)
	d.gl.TexParameteri(opengl.Texture2D, opengl.TextureWrapT, opengl.Repeat)
	d.gl.TexParameteri(opengl.Texture2D, opengl.TextureMinFilter, opengl.Linear)
	d.gl.TexParameteri(opengl.Texture2D, opengl.TextureMagFilter, opengl.Linear)

	var format uint32 = opengl.RGBA
	if pre.Mode == metadata.ColorModeRGB {
		// rows of 3 byte pixels are not 4 byte aligned
		format = opengl.RGB
		d.gl.PixelStorei(opengl.UnpackAlignment, 1)
	}
	d.gl.TexImage2D(opengl.Texture2D, 0, int32(format), int32(pre.Width), int32(pre.Height), format, opengl.UnsignedByte, pre.Data)
	if pre.Mode == metadata.ColorModeRGB {
		d.gl.PixelStorei(opengl.UnpackAlignment, 4)
	}
	d.gl.BindTexture(opengl.Texture2D, 0)

	t.State = metadata.TextureLoaded{ID: id, Width: pre.Width, Height: pre.Height}
	d.logger.Debug("texture loaded", "path", pre.Path, "id", id, "width", pre.Width, "height", pre.Height, "mode", pre.Mode)
	return nil
}

// DisposeImageTexture deletes a Loaded texture. Other states are a no-op.
func (d *Device) DisposeImageTexture(t *metadata.ImageTexture) error {
	if err := d.ready("DisposeImageTexture"); err != nil {
		return err
	}
	s, ok := t.State.(metadata.TextureLoaded)
	if !ok {
		d.logger.Warn("dispose skipped", "resource", "image texture", "state", t.StateName())
		return nil
	}
	d.gl.DeleteTexture(s.ID)
	t.State = metadata.TextureDisposed{}
	d.logger.Debug("texture disposed", "id", s.ID)
	return nil
}

// loadedTexture returns the handle and size of a texture that can be sampled.
func (d *Device) loadedTexture(op string, t *metadata.ImageTexture) (metadata.TextureLoaded, error) {
	s, ok := t.State.(metadata.TextureLoaded)
	if !ok {
		return s, d.reject(op, &core.StateError{Op: op, Resource: "image texture", State: t.StateName()})
	}
	return s, nil
}

func (d *Device) bindSampler(texture uint32) {
	d.gl.ActiveTexture(opengl.Texture0)
	d.gl.BindTexture(opengl.Texture2D, texture)
	d.setInt(uniformSampler, 0)
}
