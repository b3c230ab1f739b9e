package math

import "github.com/go-gl/mathgl/mgl32"

// Transform is anything the renderer can place in the world.
type Transform interface {
	ModelMatrix() Mat4
	// AspectRatio is scale.x / scale.y.
	AspectRatio() float32
}

/**
 * @brief A 2D transform. Rotation is in degrees around the z axis.
 * The model matrix is rebuilt lazily after any setter marks it dirty.
 */
type Transform2D struct {
	position Vec2
	rotation float32
	scale    Vec2

	isDirty bool
	local   Mat4
}

func NewTransform2D(position Vec2, rotation float32, scale Vec2) *Transform2D {
	return &Transform2D{
		position: position,
		rotation: rotation,
		scale:    scale,
		isDirty:  true,
	}
}

func (t *Transform2D) Position() Vec2    { return t.position }
func (t *Transform2D) Rotation() float32 { return t.rotation }
func (t *Transform2D) Scale() Vec2       { return t.scale }

func (t *Transform2D) Translate(v Vec2) {
	t.position = t.position.Add(v)
	t.isDirty = true
}

func (t *Transform2D) TranslateXY(x, y float32) {
	t.Translate(Vec2{x, y})
}

func (t *Transform2D) SetPosition(position Vec2) {
	t.position = position
	t.isDirty = true
}

func (t *Transform2D) SetPositionXY(x, y float32) {
	t.SetPosition(Vec2{x, y})
}

// Turn adds degrees to the current rotation.
func (t *Transform2D) Turn(degrees float32) {
	t.rotation += degrees
	t.isDirty = true
}

func (t *Transform2D) SetRotation(degrees float32) {
	t.rotation = degrees
	t.isDirty = true
}

func (t *Transform2D) SetScale(scale Vec2) {
	t.scale = scale
	t.isDirty = true
}

func (t *Transform2D) SetScaleXY(x, y float32) {
	t.SetScale(Vec2{x, y})
}

func (t *Transform2D) SetScaleX(x float32) {
	t.scale[0] = x
	t.isDirty = true
}

func (t *Transform2D) SetScaleY(y float32) {
	t.scale[1] = y
	t.isDirty = true
}

func (t *Transform2D) ModelMatrix() Mat4 {
	if t.isDirty {
		translation := mgl32.Translate3D(t.position.X(), t.position.Y(), 0)
		rotation := mgl32.HomogRotate3DZ(mgl32.DegToRad(t.rotation))
		scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), 1)
		t.local = translation.Mul4(rotation).Mul4(scale)
		t.isDirty = false
	}
	return t.local
}

func (t *Transform2D) AspectRatio() float32 {
	return t.scale.X() / t.scale.Y()
}

/**
 * @brief A 3D transform. Rotation holds Euler angles in degrees; the
 * matrix is Rz * Ry * Rx.
 */
type Transform3D struct {
	position Vec3
	rotation Vec3
	scale    Vec3

	isDirty bool
	local   Mat4
}

func NewTransform3D(position, rotation, scale Vec3) *Transform3D {
	return &Transform3D{
		position: position,
		rotation: rotation,
		scale:    scale,
		isDirty:  true,
	}
}

// TransformFromPosition returns a unit scale, unrotated transform at position.
func TransformFromPosition(position Vec3) *Transform3D {
	return NewTransform3D(position, Vec3{}, Vec3{1, 1, 1})
}

func (t *Transform3D) Position() Vec3 { return t.position }
func (t *Transform3D) Rotation() Vec3 { return t.rotation }
func (t *Transform3D) Scale() Vec3    { return t.scale }

func (t *Transform3D) Translate(v Vec3) {
	t.position = t.position.Add(v)
	t.isDirty = true
}

func (t *Transform3D) TranslateXYZ(x, y, z float32) {
	t.Translate(Vec3{x, y, z})
}

func (t *Transform3D) SetPosition(position Vec3) {
	t.position = position
	t.isDirty = true
}

// Turn adds Euler degrees to the current rotation.
func (t *Transform3D) Turn(degrees Vec3) {
	t.rotation = t.rotation.Add(degrees)
	t.isDirty = true
}

func (t *Transform3D) TurnX(x float32) { t.Turn(Vec3{x, 0, 0}) }
func (t *Transform3D) TurnY(y float32) { t.Turn(Vec3{0, y, 0}) }
func (t *Transform3D) TurnZ(z float32) { t.Turn(Vec3{0, 0, z}) }

func (t *Transform3D) SetRotation(degrees Vec3) {
	t.rotation = degrees
	t.isDirty = true
}

func (t *Transform3D) SetScale(scale Vec3) {
	t.scale = scale
	t.isDirty = true
}

func (t *Transform3D) ModelMatrix() Mat4 {
	if t.isDirty {
		translation := mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
		rotation := mgl32.AnglesToQuat(
			mgl32.DegToRad(t.rotation.Z()),
			mgl32.DegToRad(t.rotation.Y()),
			mgl32.DegToRad(t.rotation.X()),
			mgl32.ZYX,
		).Mat4()
		scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
		t.local = translation.Mul4(rotation).Mul4(scale)
		t.isDirty = false
	}
	return t.local
}

func (t *Transform3D) AspectRatio() float32 {
	return t.scale.X() / t.scale.Y()
}
