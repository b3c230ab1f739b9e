package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/math"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

/**
 * @brief Produces the view and projection matrices a device uses for the
 * current frame.
 */
type Camera interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix(viewport metadata.Viewport) math.Mat4
}

/**
 * @brief A 2D camera: one world unit per pixel divided by ScreenCorrection,
 * with the visible box centred on Position.
 */
type OrthographicCamera struct {
	Position math.Vec3
	Near     float32
	Far      float32
	// ScreenCorrection zooms the view; values <= 0 are treated as 1.
	ScreenCorrection float32
}

func NewOrthographicCamera() *OrthographicCamera {
	return &OrthographicCamera{
		Near:             -1000.0,
		Far:              1000.0,
		ScreenCorrection: 1.0,
	}
}

func (c *OrthographicCamera) SetPosition(position math.Vec3) {
	c.Position = position
}

func (c *OrthographicCamera) ViewMatrix() math.Mat4 {
	return mgl32.LookAtV(math.Vec3{0, 0, 1}, math.Vec3{0, 0, 0}, math.Vec3{0, 1, 0})
}

func (c *OrthographicCamera) ProjectionMatrix(viewport metadata.Viewport) math.Mat4 {
	correction := c.ScreenCorrection
	if correction <= 0 {
		correction = 1.0
	}
	halfWidth := float32(viewport.Width) / 2.0 / correction
	halfHeight := float32(viewport.Height) / 2.0 / correction
	return mgl32.Ortho(
		c.Position.X()-halfWidth, c.Position.X()+halfWidth,
		c.Position.Y()-halfHeight, c.Position.Y()+halfHeight,
		c.Near, c.Far,
	)
}

// The pitch limit, 89 degrees, keeps the view away from gimbal lock.
var pitchLimit = mgl32.DegToRad(89.0)

/**
 * @brief A free-look 3D camera. Rotation is stored as Euler angles in
 * radians (pitch, yaw, roll); the view matrix is rebuilt lazily.
 */
type PerspectiveCamera struct {
	/** @brief Vertical field of view in degrees. */
	FOV  float32
	Near float32
	Far  float32

	position      math.Vec3
	eulerRotation math.Vec3
	isDirty       bool
	viewMatrix    math.Mat4
}

func NewPerspectiveCamera(fov, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{FOV: fov, Near: near, Far: far}
	c.Reset()
	return c
}

func (c *PerspectiveCamera) Reset() {
	c.position = math.Vec3{}
	c.eulerRotation = math.Vec3{}
	c.isDirty = false
	c.viewMatrix = mgl32.Ident4()
}

func (c *PerspectiveCamera) Position() math.Vec3 {
	return c.position
}

func (c *PerspectiveCamera) SetPosition(position math.Vec3) {
	c.position = position
	c.isDirty = true
}

func (c *PerspectiveCamera) EulerRotation() math.Vec3 {
	return c.eulerRotation
}

func (c *PerspectiveCamera) SetEulerRotation(rotation math.Vec3) {
	c.eulerRotation = rotation
	c.eulerRotation[0] = math.Clamp(c.eulerRotation[0], -pitchLimit, pitchLimit)
	c.isDirty = true
}

func (c *PerspectiveCamera) ViewMatrix() math.Mat4 {
	if c.isDirty {
		rotation := mgl32.HomogRotate3DX(c.eulerRotation.X()).
			Mul4(mgl32.HomogRotate3DY(c.eulerRotation.Y())).
			Mul4(mgl32.HomogRotate3DZ(c.eulerRotation.Z()))
		translation := mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z())

		c.viewMatrix = translation.Mul4(rotation).Inv()
		c.isDirty = false
	}
	return c.viewMatrix
}

func (c *PerspectiveCamera) ProjectionMatrix(viewport metadata.Viewport) math.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), viewport.AspectRatio(), c.Near, c.Far)
}

// The camera basis is read from the rows of the view matrix.
func (c *PerspectiveCamera) Forward() math.Vec3 {
	return c.ViewMatrix().Row(2).Vec3().Mul(-1).Normalize()
}

func (c *PerspectiveCamera) Backward() math.Vec3 {
	return c.ViewMatrix().Row(2).Vec3().Normalize()
}

func (c *PerspectiveCamera) Left() math.Vec3 {
	return c.ViewMatrix().Row(0).Vec3().Mul(-1).Normalize()
}

func (c *PerspectiveCamera) Right() math.Vec3 {
	return c.ViewMatrix().Row(0).Vec3().Normalize()
}

func (c *PerspectiveCamera) move(direction math.Vec3, amount float32) {
	c.position = c.position.Add(direction.Mul(amount))
	c.isDirty = true
}

func (c *PerspectiveCamera) MoveForward(amount float32)  { c.move(c.Forward(), amount) }
func (c *PerspectiveCamera) MoveBackward(amount float32) { c.move(c.Backward(), amount) }
func (c *PerspectiveCamera) MoveLeft(amount float32)     { c.move(c.Left(), amount) }
func (c *PerspectiveCamera) MoveRight(amount float32)    { c.move(c.Right(), amount) }
func (c *PerspectiveCamera) MoveUp(amount float32)       { c.move(math.Vec3{0, 1, 0}, amount) }
func (c *PerspectiveCamera) MoveDown(amount float32)     { c.move(math.Vec3{0, -1, 0}, amount) }

func (c *PerspectiveCamera) Yaw(amount float32) {
	c.eulerRotation[1] += amount
	c.isDirty = true
}

func (c *PerspectiveCamera) Pitch(amount float32) {
	c.eulerRotation[0] = math.Clamp(c.eulerRotation[0]+amount, -pitchLimit, pitchLimit)
	c.isDirty = true
}
