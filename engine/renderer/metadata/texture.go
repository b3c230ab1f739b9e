package metadata

/** @brief The default texture size, in pixels. */
const DefaultTextureDimension uint32 = 256

// NewCheckerboardTexture creates a dimension x dimension RGBA checkerboard,
// alternating between the two colours every cell pixels. This is done in
// code to eliminate asset dependencies.
func NewCheckerboardTexture(dimension, cell uint32, a, b [4]uint8) *ImageTexture {
	if cell == 0 {
		cell = 1
	}
	channels := uint32(4)
	pixels := make([]uint8, dimension*dimension*channels)

	for row := uint32(0); row < dimension; row++ {
		for col := uint32(0); col < dimension; col++ {
			indexBPP := ((row * dimension) + col) * channels
			c := a
			if (row/cell)%2 != (col/cell)%2 {
				c = b
			}
			copy(pixels[indexBPP:indexBPP+channels], c[:])
		}
	}
	return NewImageTexture(pixels, dimension, dimension)
}

// NewDefaultTexture is a blue and white checkerboard used when an asset is missing.
func NewDefaultTexture() *ImageTexture {
	return NewCheckerboardTexture(DefaultTextureDimension, 16, [4]uint8{255, 255, 255, 255}, [4]uint8{0, 0, 255, 255})
}

// NewSolidTexture is a single colour texture, e.g. a white diffuse map.
func NewSolidTexture(dimension uint32, c [4]uint8) *ImageTexture {
	return NewCheckerboardTexture(dimension, dimension, c, c)
}
