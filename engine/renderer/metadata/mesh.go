package metadata

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief GPU handles of a piece of drawable geometry. All zero until
 * the geometry is initialized on a device.
 */
type RenderData struct {
	VAO        uint32
	VBO        uint32
	IBO        uint32
	TBO        uint32
	NBO        uint32
	IndexCount int32
}

func (rd *RenderData) IsResident() bool {
	return rd.VAO != 0
}

/**
 * @brief CPU side geometry: packed xyz positions, uv pairs, triangle
 * indices and optional xyz normals, plus a local transform inherited from
 * the imported scene node.
 */
type Mesh struct {
	Name          string
	Vertices      []float32
	UVs           []float32
	Indices       []uint32
	Normals       []float32
	Material      *Material
	RenderData    RenderData
	LocalPosition mgl32.Vec3
	LocalRotation mgl32.Quat
	LocalScale    mgl32.Vec3
}

func NewMesh(name string, vertices, uvs []float32, indices []uint32, material *Material) *Mesh {
	return &Mesh{
		Name:          name,
		Vertices:      vertices,
		UVs:           uvs,
		Indices:       indices,
		Material:      material,
		LocalRotation: mgl32.QuatIdent(),
		LocalScale:    mgl32.Vec3{1, 1, 1},
	}
}

// LocalMatrix is T * R * S of the mesh's local transform.
func (m *Mesh) LocalMatrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(m.LocalPosition.X(), m.LocalPosition.Y(), m.LocalPosition.Z())
	rotation := m.LocalRotation.Normalize().Mat4()
	scale := mgl32.Scale3D(m.LocalScale.X(), m.LocalScale.Y(), m.LocalScale.Z())
	return translation.Mul4(rotation).Mul4(scale)
}

/** @brief A set of meshes imported from one file. */
type Model struct {
	Name   string
	Meshes []*Mesh
}
