package metadata

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief Surface description passed through to the mesh shader. PBR
 * factors are carried as imported; only the base colour texture and tint
 * are consumed by the built-in shaders.
 */
type Material struct {
	Name                     string
	BaseColorTexture         *ImageTexture
	NormalMap                *ImageTexture
	MetallicRoughnessTexture *ImageTexture
	BaseColor                mgl32.Vec4
	Metallic                 float32
	Roughness                float32
}

func NewMaterial(name string, baseColor *ImageTexture) *Material {
	return &Material{
		Name:             name,
		BaseColorTexture: baseColor,
		BaseColor:        mgl32.Vec4{1, 1, 1, 1},
		Metallic:         1.0,
		Roughness:        0.0,
	}
}

// Textures lists the non-nil textures of the material.
func (m *Material) Textures() []*ImageTexture {
	out := make([]*ImageTexture, 0, 3)
	for _, t := range []*ImageTexture{m.BaseColorTexture, m.NormalMap, m.MetallicRoughnessTexture} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
