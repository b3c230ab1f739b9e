package math

// GenerateNormals computes flat per-face normals for an indexed triangle list
// whose positions are packed as x,y,z triplets.
func GenerateNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	vertex := func(i uint32) Vec3 {
		return Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertex(i1).Sub(vertex(i0))
		edge2 := vertex(i2).Sub(vertex(i0))

		c := edge1.Cross(edge2)
		if c.Len() == 0 {
			continue
		}
		normal := c.Normalize()

		// NOTE: This just generates a face normal. Shared vertices keep the last face written.
		for _, idx := range []uint32{i0, i1, i2} {
			copy(normals[idx*3:idx*3+3], normal[:])
		}
	}
	return normals
}
