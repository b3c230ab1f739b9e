package renderer

import (
	"fmt"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

func (d *Device) arrayBuffer(data []float32, location uint32, size int32) uint32 {
	buffer := d.gl.GenBuffer()
	d.gl.BindBuffer(opengl.ArrayBuffer, buffer)
	d.gl.BufferDataFloat32(opengl.ArrayBuffer, data, opengl.DynamicDraw)
	d.gl.EnableVertexAttribArray(location)
	d.gl.VertexAttribPointer(location, size, opengl.Float, false, 0, 0)
	return buffer
}

// InitMesh uploads the mesh geometry: positions at location 0, uvs at 1 and,
// when present, normals at 2.
func (d *Device) InitMesh(m *metadata.Mesh) error {
	const op = "InitMesh"
	if err := d.ready(op); err != nil {
		return err
	}
	if m.RenderData.IsResident() {
		return d.reject(op, &core.StateError{Op: op, Resource: "mesh " + m.Name, State: "initialized"})
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return d.reject(op, fmt.Errorf("mesh %s has no geometry: %w", m.Name, core.ErrInvalidData))
	}

	rd := metadata.RenderData{IndexCount: int32(len(m.Indices))}
	rd.VAO = d.gl.GenVertexArray()
	d.gl.BindVertexArray(rd.VAO)

	rd.VBO = d.arrayBuffer(m.Vertices, 0, 3)

	rd.IBO = d.gl.GenBuffer()
	d.gl.BindBuffer(opengl.ElementArrayBuffer, rd.IBO)
	d.gl.BufferDataUint32(opengl.ElementArrayBuffer, m.Indices, opengl.DynamicDraw)

	rd.TBO = d.arrayBuffer(m.UVs, 1, 2)
	if len(m.Normals) > 0 {
		rd.NBO = d.arrayBuffer(m.Normals, 2, 3)
	}

	d.gl.BindBuffer(opengl.ArrayBuffer, 0)
	d.gl.BindVertexArray(0)

	m.RenderData = rd
	d.logger.Debug("mesh initialized", "name", m.Name, "vao", rd.VAO, "indices", rd.IndexCount)
	return nil
}

// DisposeRenderData deletes every non-zero handle and zeroes the struct.
func (d *Device) DisposeRenderData(rd *metadata.RenderData) error {
	if err := d.ready("DisposeRenderData"); err != nil {
		return err
	}
	if *rd == (metadata.RenderData{}) {
		d.logger.Warn("dispose skipped", "resource", "render data", "state", "uninitialized")
		return nil
	}
	for _, buffer := range []uint32{rd.VBO, rd.TBO, rd.IBO, rd.NBO} {
		if buffer != 0 {
			d.gl.DeleteBuffer(buffer)
		}
	}
	if rd.VAO != 0 {
		d.gl.DeleteVertexArray(rd.VAO)
	}
	*rd = metadata.RenderData{}
	return nil
}

// DisposeMesh releases the mesh buffers and, with disposeMaterial, the
// material textures.
func (d *Device) DisposeMesh(m *metadata.Mesh, disposeMaterial bool) error {
	if err := d.DisposeRenderData(&m.RenderData); err != nil {
		return err
	}
	if !disposeMaterial || m.Material == nil {
		return nil
	}
	for _, t := range m.Material.Textures() {
		if err := d.DisposeImageTexture(t); err != nil {
			return err
		}
	}
	return nil
}

// DrawMesh draws with depth testing, tinted by the material base colour.
func (d *Device) DrawMesh(t math.Transform, m *metadata.Mesh) error {
	const op = "DrawMesh"
	if err := d.drawable(op, true); err != nil {
		return err
	}
	if !m.RenderData.IsResident() {
		return d.reject(op, &core.StateError{Op: op, Resource: "mesh " + m.Name, State: "uninitialized"})
	}
	if m.Material == nil || m.Material.BaseColorTexture == nil {
		return d.reject(op, &core.StateError{Op: op, Resource: "mesh " + m.Name, State: "without base colour texture"})
	}
	tex, err := d.loadedTexture(op, m.Material.BaseColorTexture)
	if err != nil {
		return err
	}

	restore := d.withDepthTest(true)
	defer restore()

	d.setMat4(uniformProjection, d.projectionMatrix)
	d.setMat4(uniformView, d.viewMatrix)
	d.setMat4(uniformModel, t.ModelMatrix().Mul4(m.LocalMatrix()))
	d.setVec4(uniformColor, m.Material.BaseColor)
	d.bindSampler(tex.ID)

	d.gl.BindVertexArray(m.RenderData.VAO)
	d.gl.DrawElements(opengl.Triangles, m.RenderData.IndexCount, opengl.UnsignedInt, 0)
	d.gl.BindVertexArray(0)
	return nil
}

// LoadModel uploads every mesh of a model and the PreLoad textures of their
// materials. Textures shared between meshes are uploaded once.
func (d *Device) LoadModel(model *metadata.Model) error {
	for _, m := range model.Meshes {
		if m.Material != nil {
			for _, t := range m.Material.Textures() {
				if _, ok := t.State.(metadata.TexturePreLoad); !ok {
					continue
				}
				if err := d.LoadTexture(t); err != nil {
					return fmt.Errorf("model %s: %w", model.Name, err)
				}
			}
		}
		if err := d.InitMesh(m); err != nil {
			return fmt.Errorf("model %s: %w", model.Name, err)
		}
	}
	return nil
}

func (d *Device) DrawModel(t math.Transform, model *metadata.Model) error {
	for _, m := range model.Meshes {
		if err := d.DrawMesh(t, m); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) DisposeModel(model *metadata.Model) error {
	for _, m := range model.Meshes {
		if err := d.DisposeMesh(m, true); err != nil {
			return err
		}
	}
	return nil
}
