package opengl

import gl "github.com/go-gl/gl/v4.1-core/gl"

// BeginFrame sets the viewport to the framebuffer size and clears color and
// depth.
func BeginFrame(width, height int, clear [4]float32) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}
