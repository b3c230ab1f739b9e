package renderer

import (
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

func (d *Device) compileShader(source string, kind uint32, stage string) (uint32, error) {
	shader := d.gl.CreateShader(kind)
	d.gl.ShaderSource(shader, source)
	d.gl.CompileShader(shader)
	if d.gl.GetShaderiv(shader, opengl.CompileStatus) == 0 {
		info := d.gl.GetShaderInfoLog(shader)
		d.gl.DeleteShader(shader)
		return 0, &core.BuildError{Stage: stage, Log: info}
	}
	return shader, nil
}

// BuildShaderProgram compiles and links a PreBuild program. On failure every
// intermediate object is released and the program stays PreBuild.
func (d *Device) BuildShaderProgram(p *metadata.ShaderProgram) error {
	const op = "BuildShaderProgram"
	if err := d.ready(op); err != nil {
		return err
	}
	src, ok := p.State.(metadata.ShaderPreBuild)
	if !ok {
		return d.reject(op, &core.StateError{Op: op, Resource: "shader program " + p.Name, State: p.StateName()})
	}

	vertex, err := d.compileShader(src.VertexSource, opengl.VertexShader, "vertex shader compile")
	if err != nil {
		return d.reject(op, err)
	}
	fragment, err := d.compileShader(src.FragmentSource, opengl.FragmentShader, "fragment shader compile")
	if err != nil {
		d.gl.DeleteShader(vertex)
		return d.reject(op, err)
	}

	program := d.gl.CreateProgram()
	d.gl.AttachShader(program, vertex)
	d.gl.AttachShader(program, fragment)
	d.gl.LinkProgram(program)
	d.gl.DeleteShader(vertex)
	d.gl.DeleteShader(fragment)

	if d.gl.GetProgramiv(program, opengl.LinkStatus) == 0 {
		info := d.gl.GetProgramInfoLog(program)
		d.gl.DeleteProgram(program)
		return d.reject(op, &core.BuildError{Stage: "link", Log: info})
	}

	d.cacheUniforms(program)
	p.State = metadata.ShaderBuilt{ID: program}
	d.logger.Debug("shader program built", "name", p.Name, "id", program)
	return nil
}

// RebuildShaderProgram replaces a Built program with new sources. The old
// program is only released once the new one links, so a broken edit keeps
// the previous program running.
func (d *Device) RebuildShaderProgram(p *metadata.ShaderProgram, vertexSource, fragmentSource string) error {
	const op = "RebuildShaderProgram"
	if err := d.ready(op); err != nil {
		return err
	}
	old, ok := p.State.(metadata.ShaderBuilt)
	if !ok {
		return d.reject(op, &core.StateError{Op: op, Resource: "shader program " + p.Name, State: p.StateName()})
	}
	next := metadata.NewShaderProgram(p.Name, vertexSource, fragmentSource)
	if err := d.BuildShaderProgram(next); err != nil {
		return err
	}
	wasBound := d.boundProgram == old.ID
	if err := d.DisposeShaderProgram(p); err != nil {
		return err
	}
	p.State = next.State
	if wasBound {
		return d.BindShaderProgram(p)
	}
	return nil
}

// BindShaderProgram makes a Built program current for the following draws.
func (d *Device) BindShaderProgram(p *metadata.ShaderProgram) error {
	const op = "BindShaderProgram"
	if err := d.ready(op); err != nil {
		return err
	}
	id, ok := p.ID()
	if !ok {
		return d.reject(op, &core.StateError{Op: op, Resource: "shader program " + p.Name, State: p.StateName()})
	}
	d.gl.UseProgram(id)
	d.boundProgram = id
	return nil
}

func (d *Device) UnbindShaderProgram() error {
	if err := d.ready("UnbindShaderProgram"); err != nil {
		return err
	}
	d.gl.UseProgram(0)
	d.boundProgram = 0
	return nil
}

// DisposeShaderProgram deletes a Built program. A PreBuild program is
// abandoned without touching the context; an already Disposed one is a no-op.
func (d *Device) DisposeShaderProgram(p *metadata.ShaderProgram) error {
	if err := d.ready("DisposeShaderProgram"); err != nil {
		return err
	}
	switch s := p.State.(type) {
	case metadata.ShaderBuilt:
		if d.boundProgram == s.ID {
			d.gl.UseProgram(0)
			d.boundProgram = 0
		}
		d.gl.DeleteProgram(s.ID)
		delete(d.uniformCache, s.ID)
		p.State = metadata.ShaderDisposed{}
		d.logger.Debug("shader program disposed", "name", p.Name, "id", s.ID)
	case metadata.ShaderPreBuild:
		p.State = metadata.ShaderDisposed{}
		d.logger.Debug("shader program abandoned before build", "name", p.Name)
	default:
		d.logger.Warn("dispose skipped", "resource", "shader program "+p.Name, "state", p.StateName())
	}
	return nil
}
