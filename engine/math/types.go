package math

import "github.com/go-gl/mathgl/mgl32"

// Vector and matrix types are mgl32's; matrices are column-major and can be
// handed to the graphics context as-is.
type (
	Vec2       = mgl32.Vec2
	Vec3       = mgl32.Vec3
	Vec4       = mgl32.Vec4
	Mat4       = mgl32.Mat4
	Quaternion = mgl32.Quat
)

/**
 * @brief An axis aligned rectangle in pixel space. Position is the
 * bottom left corner.
 */
type Rect struct {
	Position Vec2
	Size     Vec2
}

func NewRect(x, y, w, h float32) Rect {
	return Rect{Position: Vec2{x, y}, Size: Vec2{w, h}}
}

/**
 * @brief The four texture coordinates of a quad, in the same winding
 * as the built-in quad vertices.
 */
type UVCoords struct {
	BottomLeft  Vec2
	TopLeft     Vec2
	TopRight    Vec2
	BottomRight Vec2
}
