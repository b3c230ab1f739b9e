package metadata

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
)

// Per-instance stream sizes in floats.
const (
	InstanceTransformFloats = 16
	InstanceColorFloats     = 4
	InstanceUVFloats        = 4
)

// Texture2DInstance is one sprite of an instanced batch.
type Texture2DInstance struct {
	Transform   mgl32.Mat4
	Color       mgl32.Vec4
	UVTransform mgl32.Vec4
	Visible     bool
}

func NewTexture2DInstance(t math.Transform, color mgl32.Vec4, uvTransform mgl32.Vec4) Texture2DInstance {
	return Texture2DInstance{
		Transform:   t.ModelMatrix(),
		Color:       color,
		UVTransform: uvTransform,
		Visible:     true,
	}
}

// UploadTransform is the matrix sent to the GPU. Hidden instances collapse
// to a zero matrix so every vertex lands on the same point.
func (i Texture2DInstance) UploadTransform() mgl32.Mat4 {
	if !i.Visible {
		return mgl32.Mat4{}
	}
	return i.Transform
}

// BatchState is one of BatchPreLoad, BatchLoaded or BatchDisposed.
type BatchState interface {
	isBatchState()
}

type BatchPreLoad struct {
	Instances []Texture2DInstance
}

type BatchLoaded struct {
	Instances       []Texture2DInstance
	TransformBuffer uint32
	ColorBuffer     uint32
	UVBuffer        uint32
}

// BatchDisposed keeps the instances for inspection.
type BatchDisposed struct {
	Instances []Texture2DInstance
}

func (BatchPreLoad) isBatchState()  {}
func (BatchLoaded) isBatchState()   {}
func (BatchDisposed) isBatchState() {}

type Texture2DBatch struct {
	State BatchState
}

// NewTexture2DBatch copies instances, so the batch never shares records with
// the caller or another batch.
func NewTexture2DBatch(instances ...Texture2DInstance) *Texture2DBatch {
	return &Texture2DBatch{State: BatchPreLoad{Instances: append([]Texture2DInstance(nil), instances...)}}
}

// AddInstance appends to a batch that has not been uploaded yet.
func (b *Texture2DBatch) AddInstance(instance Texture2DInstance) error {
	s, ok := b.State.(BatchPreLoad)
	if !ok {
		return &core.StateError{Op: "AddInstance", Resource: "texture2d batch", State: b.StateName()}
	}
	s.Instances = append(s.Instances, instance)
	b.State = s
	return nil
}

func (b *Texture2DBatch) Instances() []Texture2DInstance {
	switch s := b.State.(type) {
	case BatchPreLoad:
		return s.Instances
	case BatchLoaded:
		return s.Instances
	case BatchDisposed:
		return s.Instances
	default:
		return nil
	}
}

func (b *Texture2DBatch) Len() int {
	return len(b.Instances())
}

func (b *Texture2DBatch) StateName() string {
	switch b.State.(type) {
	case BatchPreLoad:
		return "PreLoad"
	case BatchLoaded:
		return "Loaded"
	case BatchDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// SerializeInstances flattens the instances into the three parallel
// streams uploaded to the GPU.
func SerializeInstances(instances []Texture2DInstance) (transforms, colors, uvs []float32) {
	transforms = make([]float32, 0, len(instances)*InstanceTransformFloats)
	colors = make([]float32, 0, len(instances)*InstanceColorFloats)
	uvs = make([]float32, 0, len(instances)*InstanceUVFloats)
	for _, inst := range instances {
		m := inst.UploadTransform()
		transforms = append(transforms, m[:]...)
		colors = append(colors, inst.Color[:]...)
		uvs = append(uvs, inst.UVTransform[:]...)
	}
	return transforms, colors, uvs
}

func (i Texture2DInstance) String() string {
	return fmt.Sprintf("instance{visible=%t color=%v uv=%v}", i.Visible, i.Color, i.UVTransform)
}
