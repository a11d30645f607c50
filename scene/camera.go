package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxPitch    = 1.5
	minDistance = 0.5
	maxDistance = 100
)

// OrbitCamera looks at Target from a point on a sphere described by Yaw,
// Pitch and Distance.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32

	home orbit
}

type orbit struct {
	target     mgl32.Vec3
	distance   float32
	yaw, pitch float32
}

func NewOrbitCamera(target mgl32.Vec3, distance, fov, aspect float32) *OrbitCamera {
	c := &OrbitCamera{
		Target:   target,
		Distance: distance,
		Pitch:    0.3,
		FOV:      fov,
		Aspect:   aspect,
		Near:     0.1,
		Far:      1000,
	}
	c.clamp()
	c.home = orbit{target: c.Target, distance: c.Distance, yaw: c.Yaw, pitch: c.Pitch}
	return c
}

func (c *OrbitCamera) clamp() {
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
	c.Distance = mgl32.Clamp(c.Distance, minDistance, maxDistance)
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cosPitch := float32(math.Cos(float64(c.Pitch)))
	sinPitch := float32(math.Sin(float64(c.Pitch)))
	cosYaw := float32(math.Cos(float64(c.Yaw)))
	sinYaw := float32(math.Sin(float64(c.Yaw)))

	offset := mgl32.Vec3{
		c.Distance * cosPitch * sinYaw,
		c.Distance * sinPitch,
		c.Distance * cosPitch * cosYaw,
	}
	return c.Target.Add(offset)
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.clamp()
}

// Zoom moves the eye towards the target for negative delta.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	c.clamp()
}

// Reset restores the orbit the camera was created with.
func (c *OrbitCamera) Reset() {
	c.Target = c.home.target
	c.Distance = c.home.distance
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
}

// SetAspect updates the aspect ratio from a framebuffer size. A zero height,
// as reported for a minimized window, is ignored.
func (c *OrbitCamera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}
