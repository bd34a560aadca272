package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/types"
)

type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

const (
	defaultGrabDistance float32 = 30
	defaultHoldDistance float32 = 8
)

// Stores the ray directions at the four corners of the camera frustrum. It is
// used as a shortcut for generating per pixel rays via interpolation of the
// corner rays. Corners are ordered TL, TR, BL, BR.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Pending rotation deltas (in radians) that are applied by Update.
	Pitch float32
	Yaw   float32

	// Vertical field of view in degrees.
	FOV float32

	// Adjust the frustrum so that Y is inverted
	InvertY bool

	// Max distance for grabbing shapes and the distance in front of the
	// camera where grabbed shapes are held.
	GrabDistance float32
	HoldDistance float32

	Frustrum Frustrum

	aspect float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		Position:     types.Vec3{0, 0, 0},
		LookAt:       types.Vec3{0, 0, -1},
		Up:           types.Vec3{0, 1, 0},
		FOV:          fov,
		GrabDistance: defaultGrabDistance,
		HoldDistance: defaultHoldDistance,
		aspect:       1,
	}
}

// Setup the frustrum for the given frame aspect ratio (width / height).
func (c *Camera) SetupProjection(aspect float32) {
	c.aspect = aspect
	c.Update()
}

// Get the normalized view direction.
func (c *Camera) Forward() types.Vec3 {
	return c.LookAt.Sub(c.Position).Normalize()
}

// Get a ray from the camera position along the view direction.
func (c *Camera) ForwardRay() bvh.Ray {
	return bvh.NewRay(c.Position, c.Forward())
}

// Apply pending pitch/yaw deltas and recalculate the frustrum.
func (c *Camera) Update() {
	dir := c.Forward()
	if c.Pitch != 0 || c.Yaw != 0 {
		pitchAxis := dir.Cross(c.Up)
		pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
		yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

		orientQuat := pitchQuat.Mul(yawQuat).Normalize()
		dir = orientQuat.Rotate(dir)
		c.LookAt = c.Position.Add(dir)
		c.Pitch, c.Yaw = 0, 0
	}

	c.updateFrustrum(dir)
}

// Move the camera and its look-at point.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	var offset types.Vec3
	switch dir {
	case Forward:
		offset = c.Forward().Mul(amount)
	case Backward:
		offset = c.Forward().Mul(-amount)
	case Left:
		offset = c.Forward().Cross(c.Up).Normalize().Mul(-amount)
	case Right:
		offset = c.Forward().Cross(c.Up).Normalize().Mul(amount)
	}

	c.Position = c.Position.Add(offset)
	c.LookAt = c.LookAt.Add(offset)
	c.Update()
}

// Get the primary ray through the center of pixel (x, y) of a frameW x frameH
// frame by interpolating the frustrum corner rays.
func (c *Camera) PixelRay(x, y, frameW, frameH uint32) bvh.Ray {
	u := (float32(x) + 0.5) / float32(frameW)
	v := (float32(y) + 0.5) / float32(frameH)

	top := lerp(c.Frustrum[0], c.Frustrum[1], u)
	bottom := lerp(c.Frustrum[2], c.Frustrum[3], u)
	return bvh.NewRay(c.Position, lerp(top, bottom, v))
}

func (c *Camera) updateFrustrum(forward types.Vec3) {
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	halfH := float32(math.Tan(float64(c.FOV) * math.Pi / 360))
	halfW := halfH * c.aspect
	if c.InvertY {
		up = up.Neg()
	}

	up = up.Mul(halfH)
	right = right.Mul(halfW)
	c.Frustrum[0] = forward.Sub(right).Add(up)
	c.Frustrum[1] = forward.Add(right).Add(up)
	c.Frustrum[2] = forward.Sub(right).Sub(up)
	c.Frustrum[3] = forward.Add(right).Sub(up)
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
