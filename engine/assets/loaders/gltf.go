package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

// nodeTransform is the accumulated TRS of a scene node. Composition is exact
// for uniform scales, which is what exporters emit for rigid props.
type nodeTransform struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

func identityTransform() nodeTransform {
	return nodeTransform{rotation: mgl32.QuatIdent(), scale: mgl32.Vec3{1, 1, 1}}
}

func (p nodeTransform) child(n *gltf.Node) nodeTransform {
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	local := nodeTransform{
		position: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		rotation: mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize(),
		scale:    mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
	scaled := mgl32.Vec3{
		local.position.X() * p.scale.X(),
		local.position.Y() * p.scale.Y(),
		local.position.Z() * p.scale.Z(),
	}
	return nodeTransform{
		position: p.position.Add(p.rotation.Rotate(scaled)),
		rotation: p.rotation.Mul(local.rotation),
		scale: mgl32.Vec3{
			p.scale.X() * local.scale.X(),
			p.scale.Y() * local.scale.Y(),
			p.scale.Z() * local.scale.Z(),
		},
	}
}

type gltfImporter struct {
	doc      *gltf.Document
	dir      string
	name     string
	textures map[int]*metadata.ImageTexture
	model    *metadata.Model
}

// LoadModel imports the default scene of a glTF 2.0 file (.gltf or .glb).
// Each triangle primitive becomes a mesh carrying its node transform and
// material. Only images referenced by URI are loaded; embedded images,
// sparse accessors and non-triangle primitives are skipped with a warning.
func LoadModel(path string) (*metadata.Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	imp := &gltfImporter{
		doc:      doc,
		dir:      filepath.Dir(path),
		name:     name,
		textures: make(map[int]*metadata.ImageTexture),
		model:    &metadata.Model{Name: name},
	}

	roots := imp.sceneRoots()
	for _, idx := range roots {
		if err := imp.visit(idx, identityTransform()); err != nil {
			return nil, err
		}
	}
	if len(imp.model.Meshes) == 0 {
		return nil, fmt.Errorf("gltf %s has no triangle meshes: %w", path, core.ErrInvalidData)
	}
	core.LogDebug("model %s imported: %d meshes, %d textures", name, len(imp.model.Meshes), len(imp.textures))
	return imp.model, nil
}

func (imp *gltfImporter) sceneRoots() []int {
	if len(imp.doc.Scenes) == 0 {
		// no scene: treat every node as a root
		roots := make([]int, len(imp.doc.Nodes))
		for i := range roots {
			roots[i] = i
		}
		return roots
	}
	scene := 0
	if imp.doc.Scene != nil {
		scene = *imp.doc.Scene
	}
	return imp.doc.Scenes[scene].Nodes
}

func (imp *gltfImporter) visit(index int, parent nodeTransform) error {
	if index < 0 || index >= len(imp.doc.Nodes) {
		return fmt.Errorf("gltf %s: node %d: %w", imp.name, index, core.ErrIndexOutOfRange)
	}
	node := imp.doc.Nodes[index]
	world := parent.child(node)

	if node.Mesh != nil {
		mesh := imp.doc.Meshes[*node.Mesh]
		for i, prim := range mesh.Primitives {
			m, err := imp.primitive(mesh.Name, i, prim)
			if err != nil {
				return err
			}
			if m == nil {
				continue
			}
			m.LocalPosition = world.position
			m.LocalRotation = world.rotation
			m.LocalScale = world.scale
			imp.model.Meshes = append(imp.model.Meshes, m)
		}
	}
	for _, child := range node.Children {
		if err := imp.visit(child, world); err != nil {
			return err
		}
	}
	return nil
}

func (imp *gltfImporter) primitive(meshName string, index int, prim *gltf.Primitive) (*metadata.Mesh, error) {
	name := fmt.Sprintf("%s#%d", meshName, index)
	if prim.Mode != gltf.PrimitiveTriangles {
		core.LogWarn("gltf %s: primitive %s skipped, mode %v is not triangles", imp.name, name, prim.Mode)
		return nil, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		core.LogWarn("gltf %s: primitive %s skipped, no positions", imp.name, name)
		return nil, nil
	}
	positions, err := modeler.ReadPosition(imp.doc, imp.doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("gltf %s: %s positions: %w", imp.name, name, err)
	}
	vertices := flatten3(positions)

	var indices []uint32
	if prim.Indices != nil {
		acc := imp.doc.Accessors[*prim.Indices]
		if acc.Sparse != nil || (acc.ComponentType != gltf.ComponentUshort && acc.ComponentType != gltf.ComponentUint) {
			core.LogWarn("gltf %s: primitive %s skipped, unsupported index encoding", imp.name, name)
			return nil, nil
		}
		if indices, err = modeler.ReadIndices(imp.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("gltf %s: %s indices: %w", imp.name, name, err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var uvs []float32
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc := imp.doc.Accessors[uvIdx]
		if acc.ComponentType != gltf.ComponentFloat {
			core.LogWarn("gltf %s: %s texture coordinates are not float, dropped", imp.name, name)
		} else {
			coords, err := modeler.ReadTextureCoord(imp.doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("gltf %s: %s uvs: %w", imp.name, name, err)
			}
			uvs = make([]float32, 0, len(coords)*2)
			for _, c := range coords {
				uvs = append(uvs, c[0], c[1])
			}
		}
	}

	var normals []float32
	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		n, err := modeler.ReadNormal(imp.doc, imp.doc.Accessors[nIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("gltf %s: %s normals: %w", imp.name, name, err)
		}
		normals = flatten3(n)
	} else {
		normals = math.GenerateNormals(vertices, indices)
	}

	m := metadata.NewMesh(name, vertices, uvs, indices, imp.material(prim.Material))
	m.Normals = normals
	return m, nil
}

func (imp *gltfImporter) material(index *int) *metadata.Material {
	if index == nil || *index >= len(imp.doc.Materials) {
		return metadata.NewMaterial("default", metadata.NewSolidTexture(2, [4]uint8{255, 255, 255, 255}))
	}
	src := imp.doc.Materials[*index]
	mat := metadata.NewMaterial(src.Name, nil)

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			mat.BaseColor = mgl32.Vec4{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
		}
		if pbr.MetallicFactor != nil {
			mat.Metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			mat.Roughness = float32(*pbr.RoughnessFactor)
		}
		if pbr.BaseColorTexture != nil {
			mat.BaseColorTexture = imp.texture(pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicRoughnessTexture != nil {
			mat.MetallicRoughnessTexture = imp.texture(pbr.MetallicRoughnessTexture.Index)
		}
	}
	if src.NormalTexture != nil && src.NormalTexture.Index != nil {
		mat.NormalMap = imp.texture(*src.NormalTexture.Index)
	}
	if mat.BaseColorTexture == nil {
		mat.BaseColorTexture = metadata.NewSolidTexture(2, [4]uint8{255, 255, 255, 255})
	}
	return mat
}

// texture resolves a glTF texture to an image file next to the model. The
// same texture index always yields the same *ImageTexture.
func (imp *gltfImporter) texture(index int) *metadata.ImageTexture {
	if t, ok := imp.textures[index]; ok {
		return t
	}
	if index < 0 || index >= len(imp.doc.Textures) || imp.doc.Textures[index].Source == nil {
		return nil
	}
	img := imp.doc.Images[*imp.doc.Textures[index].Source]
	if img.URI == "" || img.IsEmbeddedResource() {
		core.LogWarn("gltf %s: embedded image %q skipped", imp.name, img.Name)
		return nil
	}
	t := LoadImageTexture(filepath.Join(imp.dir, filepath.FromSlash(img.URI)), false)
	if _, bad := t.State.(metadata.TextureCorrupted); bad {
		core.LogWarn("gltf %s: image %s unusable", imp.name, img.URI)
		t = nil
	}
	imp.textures[index] = t
	return t
}

func flatten3(v [][3]float32) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}
