package scene

import "render-sandbox/input"

// Controller drives an OrbitCamera from per-frame input: dragging with the
// left button orbits, scrolling zooms and R resets the view.
type Controller struct {
	Camera *OrbitCamera

	OrbitSpeed float32 // radians per pixel
	ZoomSpeed  float32 // distance per scroll step
}

func NewController(cam *OrbitCamera) *Controller {
	return &Controller{Camera: cam, OrbitSpeed: 0.01, ZoomSpeed: 0.5}
}

// Update applies one frame of input.
func (c *Controller) Update(in input.Snapshot) {
	if in.Pressed(input.KeyR) {
		c.Camera.Reset()
		return
	}
	if in.ScrollY != 0 {
		c.Camera.Zoom(-float32(in.ScrollY) * c.ZoomSpeed)
	}
	if in.ButtonDown(input.ButtonLeft) && (in.DeltaX != 0 || in.DeltaY != 0) {
		c.Camera.Orbit(-float32(in.DeltaX)*c.OrbitSpeed, float32(in.DeltaY)*c.OrbitSpeed)
	}
}
