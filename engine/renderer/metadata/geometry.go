package metadata

/**
 * @brief Static geometry of a built-in primitive: packed xyz positions,
 * optional uv pairs and triangle indices.
 */
type Shape struct {
	Name     string
	Vertices []float32
	UVs      []float32
	Indices  []uint32
}

var quadIndices = []uint32{
	0, 1, 3,
	3, 1, 2,
}

var quadUVs = []float32{
	0.0, 0.0,
	0.0, 1.0,
	1.0, 1.0,
	1.0, 0.0,
}

func unitQuad() []float32 {
	return []float32{
		-0.5, -0.5, 0.0,
		-0.5, 0.5, 0.0,
		0.5, 0.5, 0.0,
		0.5, -0.5, 0.0,
	}
}

// FramebufferShape covers the whole clip space; used to present render targets.
func FramebufferShape() Shape {
	return Shape{
		Name: "framebuffer",
		Vertices: []float32{
			-1.0, -1.0, 0.0,
			-1.0, 1.0, 0.0,
			1.0, 1.0, 0.0,
			1.0, -1.0, 0.0,
		},
		UVs:     append([]float32(nil), quadUVs...),
		Indices: append([]uint32(nil), quadIndices...),
	}
}

// TextureShape is the unit quad used by single sprite draws.
func TextureShape() Shape {
	return Shape{
		Name:     "texture",
		Vertices: unitQuad(),
		UVs:      append([]float32(nil), quadUVs...),
		Indices:  append([]uint32(nil), quadIndices...),
	}
}

// BatchShape is a separate unit quad whose vertex array also carries the
// per-instance attributes.
func BatchShape() Shape {
	s := TextureShape()
	s.Name = "batch"
	return s
}

// RectShape is the unit quad without texture coordinates.
func RectShape() Shape {
	return Shape{
		Name:     "rect",
		Vertices: unitQuad(),
		Indices:  append([]uint32(nil), quadIndices...),
	}
}
