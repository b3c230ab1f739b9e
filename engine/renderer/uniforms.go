package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/core"
)

// Uniforms used by the built-in shaders. Their locations are resolved when a
// program is built.
const (
	uniformProjection = "p_mat"
	uniformView       = "v_mat"
	uniformModel      = "m_mat"
	uniformColor      = "vertexColor"
	uniformSampler    = "textureSampler"
	uniformUVWindow   = "uvTransform"
	uniformAspect     = "aspect"
	uniformBorder     = "borderWidth"
	uniformSolid      = "isSolid"
)

var knownUniforms = []string{
	uniformProjection, uniformView, uniformModel, uniformColor, uniformSampler,
	uniformUVWindow, uniformAspect, uniformBorder, uniformSolid,
}

func (d *Device) cacheUniforms(program uint32) {
	locations := make(map[string]int32, len(knownUniforms))
	for _, name := range knownUniforms {
		locations[name] = d.gl.GetUniformLocation(program, name)
	}
	d.uniformCache[program] = locations
}

// uniformLocation looks a name up against the bound program, memoising misses.
func (d *Device) uniformLocation(name string) int32 {
	locations, ok := d.uniformCache[d.boundProgram]
	if !ok {
		locations = make(map[string]int32)
		d.uniformCache[d.boundProgram] = locations
	}
	if loc, ok := locations[name]; ok {
		return loc
	}
	loc := d.gl.GetUniformLocation(d.boundProgram, name)
	locations[name] = loc
	return loc
}

func (d *Device) setMat4(name string, m mgl32.Mat4) {
	d.gl.UniformMatrix4fv(d.uniformLocation(name), m)
}

func (d *Device) setVec4(name string, v mgl32.Vec4) {
	d.gl.Uniform4f(d.uniformLocation(name), v)
}

func (d *Device) setFloat(name string, v float32) {
	d.gl.Uniform1f(d.uniformLocation(name), v)
}

func (d *Device) setInt(name string, v int32) {
	d.gl.Uniform1i(d.uniformLocation(name), v)
}

func (d *Device) setBool(name string, v bool) {
	if v {
		d.setInt(name, 1)
		return
	}
	d.setInt(name, 0)
}

func (d *Device) programBound(op string) error {
	if err := d.ready(op); err != nil {
		return err
	}
	if d.boundProgram == 0 {
		return d.reject(op, fmt.Errorf("%s: %w", op, core.ErrNoProgramBound))
	}
	return nil
}

// drawable checks what every draw call needs: an initialized device, a bound
// program and, when withMatrices is set, a camera for the current frame.
func (d *Device) drawable(op string, withMatrices bool) error {
	if err := d.programBound(op); err != nil {
		return err
	}
	if withMatrices && !d.cameraSet {
		return d.reject(op, fmt.Errorf("%s: %w", op, core.ErrCameraNotSet))
	}
	return nil
}

// SetUniformMat4 sets a uniform of the bound program, for custom shaders.
func (d *Device) SetUniformMat4(name string, m mgl32.Mat4) error {
	if err := d.programBound("SetUniformMat4"); err != nil {
		return err
	}
	d.setMat4(name, m)
	return nil
}

func (d *Device) SetUniformVec4(name string, v mgl32.Vec4) error {
	if err := d.programBound("SetUniformVec4"); err != nil {
		return err
	}
	d.setVec4(name, v)
	return nil
}

func (d *Device) SetUniformFloat(name string, v float32) error {
	if err := d.programBound("SetUniformFloat"); err != nil {
		return err
	}
	d.setFloat(name, v)
	return nil
}

func (d *Device) SetUniformInt(name string, v int32) error {
	if err := d.programBound("SetUniformInt"); err != nil {
		return err
	}
	d.setInt(name, v)
	return nil
}
