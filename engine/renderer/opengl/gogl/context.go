// Package gogl implements opengl.Context on top of the go-gl 4.1 core bindings.
package gogl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

// Context forwards every call to the current GL context.
type Context struct{}

var _ opengl.Context = (*Context)(nil)

// New loads the GL function pointers. A context must already be current on
// the calling thread.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	core.LogInfo("OpenGL version %s, renderer %s",
		gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))
	return &Context{}, nil
}

func (c *Context) Enable(cap uint32)                 { gl.Enable(cap) }
func (c *Context) Disable(cap uint32)                { gl.Disable(cap) }
func (c *Context) IsEnabled(cap uint32) bool         { return gl.IsEnabled(cap) }
func (c *Context) DepthFunc(fn uint32)               { gl.DepthFunc(fn) }
func (c *Context) BlendFunc(sfactor, dfactor uint32) { gl.BlendFunc(sfactor, dfactor) }
func (c *Context) ClearColor(r, g, b, a float32)     { gl.ClearColor(r, g, b, a) }
func (c *Context) Clear(mask uint32)                 { gl.Clear(mask) }
func (c *Context) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}
func (c *Context) GetError() uint32 { return gl.GetError() }

func (c *Context) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (c *Context) DeleteTexture(texture uint32)       { gl.DeleteTextures(1, &texture) }
func (c *Context) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }
func (c *Context) ActiveTexture(unit uint32)          { gl.ActiveTexture(unit) }
func (c *Context) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (c *Context) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr)
}

func (c *Context) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }

func (c *Context) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (c *Context) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }
func (c *Context) BindVertexArray(array uint32)   { gl.BindVertexArray(array) }

func (c *Context) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (c *Context) DeleteBuffer(buffer uint32)       { gl.DeleteBuffers(1, &buffer) }
func (c *Context) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (c *Context) BufferDataFloat32(target uint32, data []float32, usage uint32) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(target, len(data)*4, ptr, usage)
}

func (c *Context) BufferDataUint32(target uint32, data []uint32, usage uint32) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(target, len(data)*4, ptr, usage)
}

func (c *Context) BufferDataSize(target uint32, size int, usage uint32) {
	gl.BufferData(target, size, nil, usage)
}

func (c *Context) BufferSubDataFloat32(target uint32, offset int, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(target, offset, len(data)*4, gl.Ptr(data))
}

func (c *Context) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (c *Context) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (c *Context) VertexAttribDivisor(index, divisor uint32) { gl.VertexAttribDivisor(index, divisor) }

func (c *Context) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (c *Context) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (c *Context) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (c *Context) GetShaderiv(shader uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (c *Context) GetShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (c *Context) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (c *Context) CreateProgram() uint32               { return gl.CreateProgram() }
func (c *Context) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (c *Context) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (c *Context) GetProgramiv(program uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (c *Context) GetProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (c *Context) UseProgram(program uint32)    { gl.UseProgram(program) }
func (c *Context) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (c *Context) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }
func (c *Context) Uniform4f(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}
func (c *Context) UniformMatrix4fv(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (c *Context) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (c *Context) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(offset))
}

func (c *Context) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset int, instances int32) {
	gl.DrawElementsInstanced(mode, count, xtype, gl.PtrOffset(offset), instances)
}

func (c *Context) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (c *Context) DeleteFramebuffer(framebuffer uint32) { gl.DeleteFramebuffers(1, &framebuffer) }
func (c *Context) BindFramebuffer(target, framebuffer uint32) {
	gl.BindFramebuffer(target, framebuffer)
}
func (c *Context) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, textarget, texture, level)
}
func (c *Context) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (c *Context) GenRenderbuffer() uint32 {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return id
}

func (c *Context) DeleteRenderbuffer(renderbuffer uint32) { gl.DeleteRenderbuffers(1, &renderbuffer) }
func (c *Context) BindRenderbuffer(target, renderbuffer uint32) {
	gl.BindRenderbuffer(target, renderbuffer)
}
func (c *Context) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	gl.RenderbufferStorage(target, internalFormat, width, height)
}
func (c *Context) FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer)
}
