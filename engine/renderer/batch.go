package renderer

import (
	"fmt"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
)

// Vertex attribute locations of the per-instance streams. The transform
// takes four consecutive locations, one per column.
const (
	batchColorLocation     = 2
	batchTransformLocation = 3
	batchUVLocation        = 7
)

const floatSize = 4

func (d *Device) streamBuffer(data []float32) uint32 {
	buffer := d.gl.GenBuffer()
	d.gl.BindBuffer(opengl.ArrayBuffer, buffer)
	d.gl.BufferDataFloat32(opengl.ArrayBuffer, data, opengl.DynamicDraw)
	return buffer
}

// LoadTexture2DBatch uploads the instances of a PreLoad batch into three
// parallel buffers and keeps the list for partial updates.
func (d *Device) LoadTexture2DBatch(b *metadata.Texture2DBatch) error {
	const op = "LoadTexture2DBatch"
	if err := d.ready(op); err != nil {
		return err
	}
	pre, ok := b.State.(metadata.BatchPreLoad)
	if !ok {
		return d.reject(op, &core.StateError{Op: op, Resource: "texture2d batch", State: b.StateName()})
	}

	transforms, colors, uvs := metadata.SerializeInstances(pre.Instances)
	loaded := metadata.BatchLoaded{
		Instances:       append([]metadata.Texture2DInstance(nil), pre.Instances...),
		TransformBuffer: d.streamBuffer(transforms),
		ColorBuffer:     d.streamBuffer(colors),
		UVBuffer:        d.streamBuffer(uvs),
	}
	d.gl.BindBuffer(opengl.ArrayBuffer, 0)

	b.State = loaded
	d.logger.Debug("texture2d batch loaded", "instances", len(loaded.Instances))
	return nil
}

// UpdateTexture2DBatchInstance replaces one instance and rewrites only its
// ranges of the three buffers.
func (d *Device) UpdateTexture2DBatchInstance(b *metadata.Texture2DBatch, index int, instance metadata.Texture2DInstance) error {
	const op = "UpdateTexture2DBatchInstance"
	if err := d.ready(op); err != nil {
		return err
	}
	s, ok := b.State.(metadata.BatchLoaded)
	if !ok {
		return d.reject(op, &core.StateError{Op: op, Resource: "texture2d batch", State: b.StateName()})
	}
	if index < 0 || index >= len(s.Instances) {
		return d.reject(op, fmt.Errorf("instance %d of %d: %w", index, len(s.Instances), core.ErrIndexOutOfRange))
	}

	s.Instances[index] = instance

	transform := instance.UploadTransform()
	d.gl.BindBuffer(opengl.ArrayBuffer, s.TransformBuffer)
	d.gl.BufferSubDataFloat32(opengl.ArrayBuffer, index*metadata.InstanceTransformFloats*floatSize, transform[:])
	d.gl.BindBuffer(opengl.ArrayBuffer, s.ColorBuffer)
	d.gl.BufferSubDataFloat32(opengl.ArrayBuffer, index*metadata.InstanceColorFloats*floatSize, instance.Color[:])
	d.gl.BindBuffer(opengl.ArrayBuffer, s.UVBuffer)
	d.gl.BufferSubDataFloat32(opengl.ArrayBuffer, index*metadata.InstanceUVFloats*floatSize, instance.UVTransform[:])
	d.gl.BindBuffer(opengl.ArrayBuffer, 0)
	return nil
}

func (d *Device) instanceAttribute(location uint32, size int32, stride int32, offset int) {
	d.gl.EnableVertexAttribArray(location)
	d.gl.VertexAttribPointer(location, size, opengl.Float, false, stride, offset)
	d.gl.VertexAttribDivisor(location, 1)
}

// DrawTexture2DBatch draws every instance of a Loaded batch with one
// instanced call on the batch quad.
func (d *Device) DrawTexture2DBatch(b *metadata.Texture2DBatch, texture *metadata.ImageTexture) error {
	const op = "DrawTexture2DBatch"
	if err := d.drawable(op, true); err != nil {
		return err
	}
	s, ok := b.State.(metadata.BatchLoaded)
	if !ok {
		return d.reject(op, &core.StateError{Op: op, Resource: "texture2d batch", State: b.StateName()})
	}
	tex, err := d.loadedTexture(op, texture)
	if err != nil {
		return err
	}
	if len(s.Instances) == 0 {
		return nil
	}
	quad, err := d.builtinShape(op, d.batchShape)
	if err != nil {
		return err
	}

	restore := d.withDepthTest(false)
	defer restore()

	d.setMat4(uniformProjection, d.projectionMatrix)
	d.setMat4(uniformView, d.viewMatrix)
	d.bindSampler(tex.ID)

	d.gl.BindVertexArray(quad.vao)

	d.gl.BindBuffer(opengl.ArrayBuffer, s.ColorBuffer)
	d.instanceAttribute(batchColorLocation, 4, 0, 0)

	d.gl.BindBuffer(opengl.ArrayBuffer, s.TransformBuffer)
	stride := int32(metadata.InstanceTransformFloats * floatSize)
	for column := 0; column < 4; column++ {
		d.instanceAttribute(uint32(batchTransformLocation+column), 4, stride, column*4*floatSize)
	}

	d.gl.BindBuffer(opengl.ArrayBuffer, s.UVBuffer)
	d.instanceAttribute(batchUVLocation, 4, 0, 0)

	d.gl.DrawElementsInstanced(opengl.Triangles, quad.indexCount, opengl.UnsignedInt, 0, int32(len(s.Instances)))

	d.gl.BindBuffer(opengl.ArrayBuffer, 0)
	d.gl.BindVertexArray(0)
	return nil
}

// DisposeTexture2DBatch deletes the buffers of a Loaded batch and keeps the
// instances for inspection. Other states are a no-op.
func (d *Device) DisposeTexture2DBatch(b *metadata.Texture2DBatch) error {
	if err := d.ready("DisposeTexture2DBatch"); err != nil {
		return err
	}
	s, ok := b.State.(metadata.BatchLoaded)
	if !ok {
		d.logger.Warn("dispose skipped", "resource", "texture2d batch", "state", b.StateName())
		return nil
	}
	for _, buffer := range []uint32{s.TransformBuffer, s.ColorBuffer, s.UVBuffer} {
		d.gl.DeleteBuffer(buffer)
	}
	b.State = metadata.BatchDisposed{Instances: s.Instances}
	d.logger.Debug("texture2d batch disposed", "instances", len(s.Instances))
	return nil
}
