package math

// GenerateUVCoords maps a pixel window (point, size) of a width x height
// texture to normalized texture coordinates. Windows larger than the texture
// produce coordinates above 1, which tile under a repeat wrap mode.
func GenerateUVCoords(width, height float32, point, size Vec2) UVCoords {
	x0 := point.X() / width
	y0 := point.Y() / height
	x1 := (point.X() + size.X()) / width
	y1 := (point.Y() + size.Y()) / height

	return UVCoords{
		BottomLeft:  Vec2{x0, y0},
		TopLeft:     Vec2{x0, y1},
		TopRight:    Vec2{x1, y1},
		BottomRight: Vec2{x1, y0},
	}
}

// Transform packs the window as (scale.x, scale.y, offset.x, offset.y) so the
// shaders can compute uv * xy + zw from the unit quad coordinates.
func (c UVCoords) Transform() Vec4 {
	return Vec4{
		c.TopRight.X() - c.TopLeft.X(),
		c.TopLeft.Y() - c.BottomLeft.Y(),
		c.BottomLeft.X(),
		c.BottomLeft.Y(),
	}
}

// FullUVTransform selects the whole texture.
func FullUVTransform() Vec4 {
	return Vec4{1, 1, 0, 0}
}

// GetSubimage returns the pixel rectangle of cell (column, row) of a texture
// split into columns x rows equal cells. A grid without cells yields an
// empty rectangle.
func GetSubimage(textureWidth, textureHeight, columns, rows, column, row uint32) Rect {
	if columns == 0 || rows == 0 {
		return Rect{}
	}
	cellWidth := float32(textureWidth) / float32(columns)
	cellHeight := float32(textureHeight) / float32(rows)
	return Rect{
		Position: Vec2{float32(column) * cellWidth, float32(row) * cellHeight},
		Size:     Vec2{cellWidth, cellHeight},
	}
}

// TileFromIndex converts a row-major tile index to (column, row). With
// reversedRow the first row is the top one. A grid without cells yields (0, 0).
func TileFromIndex(index, columns, rows uint32, reversedRow bool) (uint32, uint32) {
	if columns == 0 || rows == 0 {
		return 0, 0
	}
	column := index % columns
	row := index / columns
	if reversedRow {
		row = rows - 1 - row
	}
	return column, row
}
