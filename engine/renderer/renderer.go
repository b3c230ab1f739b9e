package renderer

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/components"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

type Option func(*Device)

// WithLogger routes the device diagnostics to l instead of the process logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Device) {
		d.logger = l
	}
}

/**
 * @brief GPU handles of a built-in primitive, uploaded once at Init.
 */
type shape struct {
	name       string
	vao        uint32
	vbo        uint32
	tbo        uint32
	ibo        uint32
	indexCount int32
}

/**
 * @brief The render device owns the graphics context binding, the built-in
 * shapes, the bound program and the per-frame matrices. It is not safe for
 * concurrent use: every call must come from the thread owning the context.
 */
type Device struct {
	gl     opengl.Context
	logger *log.Logger

	viewport         metadata.Viewport
	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
	cameraSet        bool

	framebufferShape *shape
	textureShape     *shape
	batchShape       *shape
	rectShape        *shape

	boundProgram uint32
	// uniform locations per program, filled at build time
	uniformCache map[uint32]map[string]int32
}

func NewDevice(opts ...Option) *Device {
	d := &Device{
		logger:           core.Logger(),
		viewMatrix:       mgl32.Ident4(),
		projectionMatrix: mgl32.Ident4(),
		uniformCache:     make(map[uint32]map[string]int32),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init binds the device to ctx, enables depth testing and alpha blending and
// uploads the built-in shapes.
func (d *Device) Init(ctx opengl.Context) error {
	if d.gl != nil {
		d.logger.Error("render device already initialized")
		return core.ErrAlreadyInitialized
	}
	if ctx == nil {
		return fmt.Errorf("nil graphics context: %w", core.ErrNotInitialized)
	}
	d.gl = ctx

	ctx.Enable(opengl.DepthTest)
	ctx.DepthFunc(opengl.Less)
	ctx.Enable(opengl.Blend)
	ctx.BlendFunc(opengl.SrcAlpha, opengl.OneMinusSrcAlpha)

	d.framebufferShape = d.uploadShape(metadata.FramebufferShape())
	d.textureShape = d.uploadShape(metadata.TextureShape())
	d.batchShape = d.uploadShape(metadata.BatchShape())
	d.rectShape = d.uploadShape(metadata.RectShape())

	d.logger.Info("render device initialized")
	return nil
}

func (d *Device) uploadShape(s metadata.Shape) *shape {
	out := &shape{name: s.Name, indexCount: int32(len(s.Indices))}

	out.vao = d.gl.GenVertexArray()
	d.gl.BindVertexArray(out.vao)

	out.vbo = d.gl.GenBuffer()
	d.gl.BindBuffer(opengl.ArrayBuffer, out.vbo)
	d.gl.BufferDataFloat32(opengl.ArrayBuffer, s.Vertices, opengl.StaticDraw)
	d.gl.EnableVertexAttribArray(0)
	d.gl.VertexAttribPointer(0, 3, opengl.Float, false, 0, 0)

	if len(s.UVs) > 0 {
		out.tbo = d.gl.GenBuffer()
		d.gl.BindBuffer(opengl.ArrayBuffer, out.tbo)
		d.gl.BufferDataFloat32(opengl.ArrayBuffer, s.UVs, opengl.StaticDraw)
		d.gl.EnableVertexAttribArray(1)
		d.gl.VertexAttribPointer(1, 2, opengl.Float, false, 0, 0)
	}

	out.ibo = d.gl.GenBuffer()
	d.gl.BindBuffer(opengl.ElementArrayBuffer, out.ibo)
	d.gl.BufferDataUint32(opengl.ElementArrayBuffer, s.Indices, opengl.StaticDraw)

	d.gl.BindBuffer(opengl.ArrayBuffer, 0)
	d.gl.BindVertexArray(0)

	d.logger.Debug("built-in shape uploaded", "shape", s.Name, "vao", out.vao)
	return out
}

func (d *Device) releaseShape(s *shape) {
	if s == nil {
		return
	}
	for _, b := range []uint32{s.vbo, s.tbo, s.ibo} {
		if b != 0 {
			d.gl.DeleteBuffer(b)
		}
	}
	d.gl.DeleteVertexArray(s.vao)
}

// Dispose releases the built-in shapes and unbinds the context. The device
// can be initialized again afterwards.
func (d *Device) Dispose() error {
	if err := d.ready("Dispose"); err != nil {
		return err
	}
	for _, s := range []*shape{d.framebufferShape, d.textureShape, d.batchShape, d.rectShape} {
		d.releaseShape(s)
	}
	d.framebufferShape, d.textureShape, d.batchShape, d.rectShape = nil, nil, nil, nil
	if d.boundProgram != 0 {
		d.gl.UseProgram(0)
		d.boundProgram = 0
	}
	d.uniformCache = make(map[uint32]map[string]int32)
	d.cameraSet = false
	d.gl = nil
	d.logger.Info("render device disposed")
	return nil
}

func (d *Device) ready(op string) error {
	if d.gl == nil {
		d.logger.Error("render device not initialized", "op", op)
		return fmt.Errorf("%s: %w", op, core.ErrNotInitialized)
	}
	return nil
}

// reject logs a refused operation and hands the error back.
func (d *Device) reject(op string, err error) error {
	d.logger.Error(op+" rejected", "err", err)
	return err
}

func (d *Device) ClearColor(color mgl32.Vec4) error {
	if err := d.ready("ClearColor"); err != nil {
		return err
	}
	d.gl.ClearColor(color.X(), color.Y(), color.Z(), color.W())
	return nil
}

func (d *Device) Clear() error {
	if err := d.ready("Clear"); err != nil {
		return err
	}
	d.gl.Clear(opengl.ColorBufferBit | opengl.DepthBufferBit)
	return nil
}

func (d *Device) SetViewport(viewport metadata.Viewport) error {
	if err := d.ready("SetViewport"); err != nil {
		return err
	}
	d.gl.Viewport(0, 0, int32(viewport.Width), int32(viewport.Height))
	d.viewport = viewport
	return nil
}

func (d *Device) Viewport() metadata.Viewport {
	return d.viewport
}

// SetCamera captures the camera matrices for the draws of the current frame.
// The projection uses the viewport set at the time of the call.
func (d *Device) SetCamera(camera components.Camera) error {
	if err := d.ready("SetCamera"); err != nil {
		return err
	}
	if camera == nil {
		return d.reject("SetCamera", core.ErrCameraNotSet)
	}
	d.viewMatrix = camera.ViewMatrix()
	d.projectionMatrix = camera.ProjectionMatrix(d.viewport)
	d.cameraSet = true
	return nil
}

// BeginFrame invalidates the previous frame's matrices: draws that need them
// fail until SetCamera is called again.
func (d *Device) BeginFrame() {
	d.cameraSet = false
}

func (d *Device) ViewMatrix() mgl32.Mat4 {
	return d.viewMatrix
}

func (d *Device) ProjectionMatrix() mgl32.Mat4 {
	return d.projectionMatrix
}

// GetError returns the oldest pending graphics error, 0 if none.
func (d *Device) GetError() uint32 {
	if d.gl == nil {
		return opengl.NoError
	}
	return d.gl.GetError()
}
