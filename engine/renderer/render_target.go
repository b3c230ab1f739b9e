package renderer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

func (d *Device) allocateTargetStorage(rt *metadata.RenderTarget, width, height uint32) {
	d.gl.BindTexture(opengl.Texture2D, rt.TextureID)
	d.gl.TexImage2D(opengl.Texture2D, 0, opengl.RGBA, int32(width), int32(height), opengl.RGBA, opengl.UnsignedByte, nil)
	d.gl.BindTexture(opengl.Texture2D, 0)

	d.gl.BindRenderbuffer(opengl.Renderbuffer, rt.RenderbufferID)
	d.gl.RenderbufferStorage(opengl.Renderbuffer, opengl.Depth24Stencil8, int32(width), int32(height))
	d.gl.BindRenderbuffer(opengl.Renderbuffer, 0)
}

func (d *Device) deleteTarget(rt *metadata.RenderTarget) {
	d.gl.DeleteTexture(rt.TextureID)
	d.gl.DeleteRenderbuffer(rt.RenderbufferID)
	d.gl.DeleteFramebuffer(rt.FramebufferID)
	rt.TextureID, rt.RenderbufferID, rt.FramebufferID = 0, 0, 0
}

// CreateRenderTarget allocates a framebuffer with an RGBA colour texture and
// a depth/stencil renderbuffer. An incomplete framebuffer is released and
// reported.
func (d *Device) CreateRenderTarget(width, height uint32) (*metadata.RenderTarget, error) {
	const op = "CreateRenderTarget"
	if err := d.ready(op); err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, d.reject(op, fmt.Errorf("%dx%d render target: %w", width, height, core.ErrInvalidDimensions))
	}

	rt := &metadata.RenderTarget{
		Name:   "rt-" + uuid.NewString(),
		Width:  width,
		Height: height,
	}
	rt.FramebufferID = d.gl.GenFramebuffer()
	rt.TextureID = d.gl.GenTexture()
	rt.RenderbufferID = d.gl.GenRenderbuffer()

	d.gl.BindTexture(opengl.Texture2D, rt.TextureID)
	d.gl.TexParameteri(opengl.Texture2D, opengl.TextureMinFilter, opengl.Linear)
	d.gl.TexParameteri(opengl.Texture2D, opengl.TextureMagFilter, opengl.Linear)
	d.gl.BindTexture(opengl.Texture2D, 0)
	d.allocateTargetStorage(rt, width, height)

	d.gl.BindFramebuffer(opengl.Framebuffer, rt.FramebufferID)
	d.gl.FramebufferTexture2D(opengl.Framebuffer, opengl.ColorAttachment0, opengl.Texture2D, rt.TextureID, 0)
	d.gl.FramebufferRenderbuffer(opengl.Framebuffer, opengl.DepthStencilAttachment, opengl.Renderbuffer, rt.RenderbufferID)
	status := d.gl.CheckFramebufferStatus(opengl.Framebuffer)
	d.gl.BindFramebuffer(opengl.Framebuffer, 0)

	if status != opengl.FramebufferComplete {
		d.deleteTarget(rt)
		return nil, d.reject(op, &core.IncompleteTargetError{Status: status})
	}
	d.logger.Debug("render target created", "name", rt.Name, "width", width, "height", height)
	return rt, nil
}

// ResizeRenderTarget reallocates the attachments in place; handles are kept.
func (d *Device) ResizeRenderTarget(rt *metadata.RenderTarget, width, height uint32) error {
	const op = "ResizeRenderTarget"
	if err := d.ready(op); err != nil {
		return err
	}
	if !rt.IsResident() {
		return d.reject(op, &core.StateError{Op: op, Resource: "render target " + rt.Name, State: "disposed"})
	}
	if width == 0 || height == 0 {
		return d.reject(op, fmt.Errorf("%dx%d render target: %w", width, height, core.ErrInvalidDimensions))
	}
	d.allocateTargetStorage(rt, width, height)
	rt.Width, rt.Height = width, height
	return nil
}

// BindRenderTarget redirects the following draws into rt.
func (d *Device) BindRenderTarget(rt *metadata.RenderTarget) error {
	const op = "BindRenderTarget"
	if err := d.ready(op); err != nil {
		return err
	}
	if !rt.IsResident() {
		return d.reject(op, &core.StateError{Op: op, Resource: "render target " + rt.Name, State: "disposed"})
	}
	d.gl.BindFramebuffer(opengl.Framebuffer, rt.FramebufferID)
	return nil
}

// UnbindRenderTarget restores the default framebuffer.
func (d *Device) UnbindRenderTarget() error {
	if err := d.ready("UnbindRenderTarget"); err != nil {
		return err
	}
	d.gl.BindFramebuffer(opengl.Framebuffer, 0)
	return nil
}

// DrawRenderTarget presents the colour attachment over the whole viewport.
func (d *Device) DrawRenderTarget(rt *metadata.RenderTarget) error {
	const op = "DrawRenderTarget"
	if err := d.drawable(op, false); err != nil {
		return err
	}
	if !rt.IsResident() {
		return d.reject(op, &core.StateError{Op: op, Resource: "render target " + rt.Name, State: "disposed"})
	}
	quad, err := d.builtinShape(op, d.framebufferShape)
	if err != nil {
		return err
	}
	restore := d.withDepthTest(false)
	defer restore()

	d.bindSampler(rt.TextureID)
	d.drawShape(quad)
	return nil
}

// DisposeRenderTarget deletes the three objects and zeroes the handles.
func (d *Device) DisposeRenderTarget(rt *metadata.RenderTarget) error {
	if err := d.ready("DisposeRenderTarget"); err != nil {
		return err
	}
	if !rt.IsResident() {
		d.logger.Warn("dispose skipped", "resource", "render target "+rt.Name, "state", "disposed")
		return nil
	}
	d.deleteTarget(rt)
	d.logger.Debug("render target disposed", "name", rt.Name)
	return nil
}
