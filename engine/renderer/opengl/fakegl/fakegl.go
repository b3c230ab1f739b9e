// Package fakegl is an in-memory opengl.Context that tracks object
// lifetimes, bindings, buffer contents, uniforms and draw calls so renderer
// code can be tested without a GPU.
package fakegl

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

type Texture struct {
	Width          int32
	Height         int32
	InternalFormat int32
	Format         uint32
	Pixels         []byte
	Params         map[uint32]int32
}

type Buffer struct {
	Floats []float32
	Uints  []uint32
	Size   int
	Usage  uint32
}

type Attrib struct {
	Enabled bool
	Buffer  uint32
	Size    int32
	Stride  int32
	Offset  int
	Divisor uint32
}

type Shader struct {
	Kind     uint32
	Source   string
	Compiled bool
}

type Program struct {
	Shaders   []uint32
	Linked    bool
	Locations map[string]int32
	Uniforms  map[string]any
	names     map[int32]string
}

type Renderbuffer struct {
	Format uint32
	Width  int32
	Height int32
}

type Framebuffer struct {
	Attachments map[uint32]uint32
}

// DrawCall is a snapshot of the pipeline state at an indexed or array draw.
type DrawCall struct {
	Mode        uint32
	Count       int32
	Instances   int32
	Program     uint32
	VertexArray uint32
	Texture     uint32
	Framebuffer uint32
	DepthTest   bool
	// Contents of the buffer behind attribute 0, captured by DrawArrays.
	Vertices []float32
}

type Context struct {
	// FailCompile makes CompileShader fail for the given shader kind (0 disables).
	FailCompile uint32
	FailLink    bool
	// FramebufferStatus overrides CheckFramebufferStatus when non-zero.
	FramebufferStatus uint32

	nextID uint32

	Textures      map[uint32]*Texture
	Buffers       map[uint32]*Buffer
	VertexArrays  map[uint32]map[uint32]*Attrib
	Shaders       map[uint32]*Shader
	Programs      map[uint32]*Program
	Framebuffers  map[uint32]*Framebuffer
	Renderbuffers map[uint32]*Renderbuffer

	Enabled       map[uint32]bool
	DepthFn       uint32
	BlendSrc      uint32
	BlendDst      uint32
	ClearColorRGB mgl32.Vec4
	Clears        []uint32
	ViewportRect  [4]int32
	PixelStore    map[uint32]int32

	ActiveUnit     uint32
	BoundTextures  map[uint32]uint32
	BoundBuffers   map[uint32]uint32
	BoundVAO       uint32
	BoundProgram   uint32
	BoundFramebuf  uint32
	BoundRenderbuf uint32

	Draws []DrawCall
	// UniformLookups counts GetUniformLocation calls.
	UniformLookups int
	Errors         []uint32
}

var _ opengl.Context = (*Context)(nil)

func New() *Context {
	return &Context{
		Textures:      make(map[uint32]*Texture),
		Buffers:       make(map[uint32]*Buffer),
		VertexArrays:  make(map[uint32]map[uint32]*Attrib),
		Shaders:       make(map[uint32]*Shader),
		Programs:      make(map[uint32]*Program),
		Framebuffers:  make(map[uint32]*Framebuffer),
		Renderbuffers: make(map[uint32]*Renderbuffer),
		Enabled:       make(map[uint32]bool),
		PixelStore:    make(map[uint32]int32),
		BoundTextures: make(map[uint32]uint32),
		BoundBuffers:  make(map[uint32]uint32),
	}
}

func (c *Context) id() uint32 {
	c.nextID++
	return c.nextID
}

// LiveObjects counts every GL object that has been created and not deleted.
func (c *Context) LiveObjects() int {
	return len(c.Textures) + len(c.Buffers) + len(c.VertexArrays) + len(c.Shaders) +
		len(c.Programs) + len(c.Framebuffers) + len(c.Renderbuffers)
}

// Uniform returns the last value set for a uniform of program by name.
func (c *Context) Uniform(program uint32, name string) (any, bool) {
	p, ok := c.Programs[program]
	if !ok {
		return nil, false
	}
	v, ok := p.Uniforms[name]
	return v, ok
}

// LastDraw returns the most recent draw call.
func (c *Context) LastDraw() (DrawCall, bool) {
	if len(c.Draws) == 0 {
		return DrawCall{}, false
	}
	return c.Draws[len(c.Draws)-1], true
}

func (c *Context) recordError(code uint32) {
	c.Errors = append(c.Errors, code)
}

func (c *Context) Enable(cap uint32)         { c.Enabled[cap] = true }
func (c *Context) Disable(cap uint32)        { c.Enabled[cap] = false }
func (c *Context) IsEnabled(cap uint32) bool { return c.Enabled[cap] }
func (c *Context) DepthFunc(fn uint32)       { c.DepthFn = fn }
func (c *Context) BlendFunc(sfactor, dfactor uint32) {
	c.BlendSrc, c.BlendDst = sfactor, dfactor
}
func (c *Context) ClearColor(r, g, b, a float32) { c.ClearColorRGB = mgl32.Vec4{r, g, b, a} }
func (c *Context) Clear(mask uint32)             { c.Clears = append(c.Clears, mask) }
func (c *Context) Viewport(x, y, width, height int32) {
	c.ViewportRect = [4]int32{x, y, width, height}
}

// GetError pops the oldest recorded error, like GL's error queue.
func (c *Context) GetError() uint32 {
	if len(c.Errors) == 0 {
		return opengl.NoError
	}
	e := c.Errors[0]
	c.Errors = c.Errors[1:]
	return e
}

func (c *Context) GenTexture() uint32 {
	id := c.id()
	c.Textures[id] = &Texture{Params: make(map[uint32]int32)}
	return id
}

func (c *Context) DeleteTexture(texture uint32) {
	delete(c.Textures, texture)
	for unit, bound := range c.BoundTextures {
		if bound == texture {
			c.BoundTextures[unit] = 0
		}
	}
}

func (c *Context) BindTexture(target, texture uint32) {
	if texture != 0 {
		if _, ok := c.Textures[texture]; !ok {
			c.recordError(0x0502)
			return
		}
	}
	c.BoundTextures[c.ActiveUnit] = texture
}

func (c *Context) ActiveTexture(unit uint32) { c.ActiveUnit = unit - opengl.Texture0 }

func (c *Context) boundTexture() *Texture {
	return c.Textures[c.BoundTextures[c.ActiveUnit]]
}

func (c *Context) TexParameteri(target, pname uint32, param int32) {
	if t := c.boundTexture(); t != nil {
		t.Params[pname] = param
	}
}

func (c *Context) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	t := c.boundTexture()
	if t == nil {
		c.recordError(0x0502)
		return
	}
	t.Width, t.Height = width, height
	t.InternalFormat, t.Format = internalFormat, format
	t.Pixels = append([]byte(nil), pixels...)
}

func (c *Context) PixelStorei(pname uint32, param int32) { c.PixelStore[pname] = param }

func (c *Context) GenVertexArray() uint32 {
	id := c.id()
	c.VertexArrays[id] = make(map[uint32]*Attrib)
	return id
}

func (c *Context) DeleteVertexArray(array uint32) {
	delete(c.VertexArrays, array)
	if c.BoundVAO == array {
		c.BoundVAO = 0
	}
}

func (c *Context) BindVertexArray(array uint32) { c.BoundVAO = array }

func (c *Context) GenBuffer() uint32 {
	id := c.id()
	c.Buffers[id] = &Buffer{}
	return id
}

func (c *Context) DeleteBuffer(buffer uint32) {
	delete(c.Buffers, buffer)
	for target, bound := range c.BoundBuffers {
		if bound == buffer {
			c.BoundBuffers[target] = 0
		}
	}
}

func (c *Context) BindBuffer(target, buffer uint32) { c.BoundBuffers[target] = buffer }

func (c *Context) boundBuffer(target uint32) *Buffer {
	b := c.Buffers[c.BoundBuffers[target]]
	if b == nil {
		c.recordError(0x0502)
	}
	return b
}

func (c *Context) BufferDataFloat32(target uint32, data []float32, usage uint32) {
	if b := c.boundBuffer(target); b != nil {
		b.Floats = append([]float32(nil), data...)
		b.Uints = nil
		b.Size = len(data) * 4
		b.Usage = usage
	}
}

func (c *Context) BufferDataUint32(target uint32, data []uint32, usage uint32) {
	if b := c.boundBuffer(target); b != nil {
		b.Uints = append([]uint32(nil), data...)
		b.Floats = nil
		b.Size = len(data) * 4
		b.Usage = usage
	}
}

func (c *Context) BufferDataSize(target uint32, size int, usage uint32) {
	if b := c.boundBuffer(target); b != nil {
		b.Floats = make([]float32, size/4)
		b.Uints = nil
		b.Size = size
		b.Usage = usage
	}
}

func (c *Context) BufferSubDataFloat32(target uint32, offset int, data []float32) {
	b := c.boundBuffer(target)
	if b == nil {
		return
	}
	if offset%4 != 0 || offset+len(data)*4 > b.Size {
		c.recordError(0x0501)
		return
	}
	copy(b.Floats[offset/4:], data)
}

func (c *Context) attrib(index uint32) *Attrib {
	vao, ok := c.VertexArrays[c.BoundVAO]
	if !ok {
		c.recordError(0x0502)
		return nil
	}
	a, ok := vao[index]
	if !ok {
		a = &Attrib{}
		vao[index] = a
	}
	return a
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	if a := c.attrib(index); a != nil {
		a.Enabled = true
	}
}

func (c *Context) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	if a := c.attrib(index); a != nil {
		a.Buffer = c.BoundBuffers[opengl.ArrayBuffer]
		a.Size, a.Stride, a.Offset = size, stride, offset
	}
}

func (c *Context) VertexAttribDivisor(index, divisor uint32) {
	if a := c.attrib(index); a != nil {
		a.Divisor = divisor
	}
}

func (c *Context) CreateShader(xtype uint32) uint32 {
	id := c.id()
	c.Shaders[id] = &Shader{Kind: xtype}
	return id
}

func (c *Context) ShaderSource(shader uint32, source string) {
	if s, ok := c.Shaders[shader]; ok {
		s.Source = source
	}
}

func (c *Context) CompileShader(shader uint32) {
	if s, ok := c.Shaders[shader]; ok {
		s.Compiled = s.Source != "" && c.FailCompile != s.Kind
	}
}

func (c *Context) GetShaderiv(shader uint32, pname uint32) int32 {
	s, ok := c.Shaders[shader]
	if ok && pname == opengl.CompileStatus && s.Compiled {
		return 1
	}
	return 0
}

func (c *Context) GetShaderInfoLog(shader uint32) string {
	if s, ok := c.Shaders[shader]; ok && !s.Compiled {
		return fmt.Sprintf("0:1(1): error: shader %d failed to compile", shader)
	}
	return ""
}

func (c *Context) DeleteShader(shader uint32) { delete(c.Shaders, shader) }

func (c *Context) CreateProgram() uint32 {
	id := c.id()
	c.Programs[id] = &Program{
		Locations: make(map[string]int32),
		Uniforms:  make(map[string]any),
		names:     make(map[int32]string),
	}
	return id
}

func (c *Context) AttachShader(program, shader uint32) {
	if p, ok := c.Programs[program]; ok {
		p.Shaders = append(p.Shaders, shader)
	}
}

func (c *Context) LinkProgram(program uint32) {
	p, ok := c.Programs[program]
	if !ok {
		return
	}
	p.Linked = !c.FailLink && len(p.Shaders) == 2
	for _, s := range p.Shaders {
		if sh, ok := c.Shaders[s]; !ok || !sh.Compiled {
			p.Linked = false
		}
	}
}

func (c *Context) GetProgramiv(program uint32, pname uint32) int32 {
	p, ok := c.Programs[program]
	if ok && pname == opengl.LinkStatus && p.Linked {
		return 1
	}
	return 0
}

func (c *Context) GetProgramInfoLog(program uint32) string {
	if p, ok := c.Programs[program]; ok && !p.Linked {
		return "error: linking failed"
	}
	return ""
}

func (c *Context) UseProgram(program uint32) { c.BoundProgram = program }

func (c *Context) DeleteProgram(program uint32) {
	delete(c.Programs, program)
	if c.BoundProgram == program {
		c.BoundProgram = 0
	}
}

// GetUniformLocation hands out a stable location per (program, name).
func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	c.UniformLookups++
	p, ok := c.Programs[program]
	if !ok || !p.Linked {
		return -1
	}
	if loc, ok := p.Locations[name]; ok {
		return loc
	}
	loc := int32(len(p.Locations))
	p.Locations[name] = loc
	p.names[loc] = name
	return loc
}

func (c *Context) setUniform(location int32, v any) {
	if location < 0 {
		return
	}
	p, ok := c.Programs[c.BoundProgram]
	if !ok {
		c.recordError(0x0502)
		return
	}
	name, ok := p.names[location]
	if !ok {
		c.recordError(0x0502)
		return
	}
	p.Uniforms[name] = v
}

func (c *Context) Uniform1i(location int32, v int32)             { c.setUniform(location, v) }
func (c *Context) Uniform1f(location int32, v float32)           { c.setUniform(location, v) }
func (c *Context) Uniform4f(location int32, v mgl32.Vec4)        { c.setUniform(location, v) }
func (c *Context) UniformMatrix4fv(location int32, m mgl32.Mat4) { c.setUniform(location, m) }

func (c *Context) snapshot(mode uint32, count, instances int32) DrawCall {
	return DrawCall{
		Mode:        mode,
		Count:       count,
		Instances:   instances,
		Program:     c.BoundProgram,
		VertexArray: c.BoundVAO,
		Texture:     c.BoundTextures[0],
		Framebuffer: c.BoundFramebuf,
		DepthTest:   c.Enabled[opengl.DepthTest],
	}
}

func (c *Context) DrawArrays(mode uint32, first, count int32) {
	d := c.snapshot(mode, count, 1)
	if a, ok := c.VertexArrays[c.BoundVAO][0]; ok {
		if b, ok := c.Buffers[a.Buffer]; ok {
			d.Vertices = append([]float32(nil), b.Floats...)
		}
	}
	c.Draws = append(c.Draws, d)
}

func (c *Context) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	c.Draws = append(c.Draws, c.snapshot(mode, count, 1))
}

func (c *Context) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset int, instances int32) {
	c.Draws = append(c.Draws, c.snapshot(mode, count, instances))
}

func (c *Context) GenFramebuffer() uint32 {
	id := c.id()
	c.Framebuffers[id] = &Framebuffer{Attachments: make(map[uint32]uint32)}
	return id
}

func (c *Context) DeleteFramebuffer(framebuffer uint32) {
	delete(c.Framebuffers, framebuffer)
	if c.BoundFramebuf == framebuffer {
		c.BoundFramebuf = 0
	}
}

func (c *Context) BindFramebuffer(target, framebuffer uint32) { c.BoundFramebuf = framebuffer }

func (c *Context) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	if f, ok := c.Framebuffers[c.BoundFramebuf]; ok {
		f.Attachments[attachment] = texture
	}
}

func (c *Context) CheckFramebufferStatus(target uint32) uint32 {
	if c.FramebufferStatus != 0 {
		return c.FramebufferStatus
	}
	f, ok := c.Framebuffers[c.BoundFramebuf]
	if !ok || f.Attachments[opengl.ColorAttachment0] == 0 {
		return opengl.FramebufferIncompleteAtt
	}
	return opengl.FramebufferComplete
}

func (c *Context) GenRenderbuffer() uint32 {
	id := c.id()
	c.Renderbuffers[id] = &Renderbuffer{}
	return id
}

func (c *Context) DeleteRenderbuffer(renderbuffer uint32) {
	delete(c.Renderbuffers, renderbuffer)
	if c.BoundRenderbuf == renderbuffer {
		c.BoundRenderbuf = 0
	}
}

func (c *Context) BindRenderbuffer(target, renderbuffer uint32) { c.BoundRenderbuf = renderbuffer }

func (c *Context) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	if r, ok := c.Renderbuffers[c.BoundRenderbuf]; ok {
		r.Format, r.Width, r.Height = internalFormat, width, height
	}
}

func (c *Context) FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32) {
	if f, ok := c.Framebuffers[c.BoundFramebuf]; ok {
		f.Attachments[attachment] = renderbuffer
	}
}

// ProgramUniformNames lists the uniforms set on a program, sorted.
func (c *Context) ProgramUniformNames(program uint32) []string {
	p, ok := c.Programs[program]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(p.Uniforms))
	for n := range p.Uniforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
