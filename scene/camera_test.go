package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"render-sandbox/input"
	"render-sandbox/scene"
)

func newCamera() *scene.OrbitCamera {
	return scene.NewOrbitCamera(mgl32.Vec3{}, 5, mgl32.DegToRad(60), 16.0/9.0)
}

func TestOrbitCameraPosition(t *testing.T) {
	cam := newCamera()
	cam.Pitch = 0
	pos := cam.Position()
	assert.InDelta(t, 5, pos.Len(), 1e-5)
	assert.InDelta(t, 5, pos.Z(), 1e-5, "yaw 0 looks down -Z from +Z")

	// the target projects to the view-space origin on the -Z axis
	v := cam.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, v.X(), 1e-5)
	assert.InDelta(t, 0, v.Y(), 1e-5)
	assert.InDelta(t, -5, v.Z(), 1e-5)
}

func TestOrbitCameraClamps(t *testing.T) {
	cam := newCamera()
	cam.Orbit(0, 10)
	assert.Equal(t, float32(1.5), cam.Pitch)
	cam.Orbit(0, -10)
	assert.Equal(t, float32(-1.5), cam.Pitch)

	cam.Zoom(-100)
	assert.Equal(t, float32(0.5), cam.Distance)
	cam.Zoom(1000)
	assert.Equal(t, float32(100), cam.Distance)
}

func TestOrbitCameraAspect(t *testing.T) {
	cam := newCamera()
	cam.SetAspect(800, 400)
	assert.Equal(t, float32(2), cam.Aspect)
	cam.SetAspect(800, 0)
	assert.Equal(t, float32(2), cam.Aspect, "minimized window keeps the last aspect")

	want := mgl32.Perspective(cam.FOV, 2, cam.Near, cam.Far)
	assert.Equal(t, want, cam.Projection())
}

func TestControllerOrbitZoomReset(t *testing.T) {
	cam := newCamera()
	ctl := scene.NewController(cam)
	startYaw, startPitch, startDist := cam.Yaw, cam.Pitch, cam.Distance

	tr := input.NewTracker()
	tr.CursorPos(100, 100)
	ctl.Update(tr.Snapshot())

	// moving without a button pressed does nothing
	tr.CursorPos(150, 100)
	ctl.Update(tr.Snapshot())
	assert.Equal(t, startYaw, cam.Yaw)

	tr.Button(input.ButtonLeft, true)
	tr.CursorPos(200, 110)
	ctl.Update(tr.Snapshot())
	assert.InDelta(t, startYaw-0.5, cam.Yaw, 1e-5)
	assert.InDelta(t, startPitch+0.1, cam.Pitch, 1e-5)

	tr.Scroll(0, 2)
	ctl.Update(tr.Snapshot())
	assert.InDelta(t, startDist-1, cam.Distance, 1e-5)

	tr.Key(input.KeyR, true)
	ctl.Update(tr.Snapshot())
	assert.Equal(t, startYaw, cam.Yaw)
	assert.Equal(t, startPitch, cam.Pitch)
	assert.Equal(t, startDist, cam.Distance)
}
