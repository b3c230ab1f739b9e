// Package opengl describes the subset of OpenGL the render device drives.
//
// Implementations wrap real bindings (see gogl) or record calls for tests
// (see fakegl). Every method operates on the context current on the
// calling thread.
package opengl

import "github.com/go-gl/mathgl/mgl32"

const (
	// Clear masks.
	DepthBufferBit = 0x00000100
	ColorBufferBit = 0x00004000

	// Capabilities.
	DepthTest = 0x0B71
	Blend     = 0x0BE2

	// Depth and blend functions.
	Less             = 0x0201
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303

	// Primitive types.
	Triangles = 0x0004

	// Data types.
	UnsignedByte = 0x1401
	UnsignedInt  = 0x1405
	Float        = 0x1406

	// Texture targets, parameters and formats.
	Texture2D          = 0x0DE1
	Texture0           = 0x84C0
	TextureMagFilter   = 0x2800
	TextureMinFilter   = 0x2801
	TextureWrapS       = 0x2802
	TextureWrapT       = 0x2803
	Linear             = 0x2601
	Repeat             = 0x2901
	ClampToEdge        = 0x812F
	UnpackAlignment    = 0x0CF5
	Red                = 0x1903
	RGB                = 0x1907
	RGBA               = 0x1908
	Depth24Stencil8    = 0x88F0
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4
	DynamicDraw        = 0x88E8

	// Shaders.
	FragmentShader = 0x8B30
	VertexShader   = 0x8B31
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82

	// Framebuffers.
	Framebuffer              = 0x8D40
	Renderbuffer             = 0x8D41
	ColorAttachment0         = 0x8CE0
	DepthStencilAttachment   = 0x821A
	FramebufferComplete      = 0x8CD5
	FramebufferIncompleteAtt = 0x8CD6

	NoError = 0
)

// Context is the graphics API surface used by the renderer.
type Context interface {
	// State.
	Enable(cap uint32)
	Disable(cap uint32)
	IsEnabled(cap uint32) bool
	DepthFunc(fn uint32)
	BlendFunc(sfactor, dfactor uint32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	GetError() uint32

	// Textures. A nil pixels slice allocates storage without uploading data.
	GenTexture() uint32
	DeleteTexture(texture uint32)
	BindTexture(target, texture uint32)
	ActiveTexture(unit uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	PixelStorei(pname uint32, param int32)

	// Buffers and vertex arrays. Offsets are in bytes.
	GenVertexArray() uint32
	DeleteVertexArray(array uint32)
	BindVertexArray(array uint32)
	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target, buffer uint32)
	BufferDataFloat32(target uint32, data []float32, usage uint32)
	BufferDataUint32(target uint32, data []uint32, usage uint32)
	BufferDataSize(target uint32, size int, usage uint32)
	BufferSubDataFloat32(target uint32, offset int, data []float32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	VertexAttribDivisor(index, divisor uint32)

	// Shaders and programs.
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniforms. Location -1 is silently ignored, as in GL.
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform4f(location int32, v mgl32.Vec4)
	UniformMatrix4fv(location int32, m mgl32.Mat4)

	// Drawing.
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)
	DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset int, instances int32)

	// Framebuffers and renderbuffers.
	GenFramebuffer() uint32
	DeleteFramebuffer(framebuffer uint32)
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	CheckFramebufferStatus(target uint32) uint32
	GenRenderbuffer() uint32
	DeleteRenderbuffer(renderbuffer uint32)
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)
	FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32)
}
