package opengl

import (
	"errors"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-sandbox/scene"
)

// Attribute locations used by every shader drawn through GPUMesh.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribUV       = 2
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// UploadMesh copies m into a new vertex array with an index buffer.
func UploadMesh(m *scene.Mesh) (*GPUMesh, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, errors.New("mesh has no indexed geometry")
	}

	stride := int32(unsafe.Sizeof(scene.Vertex{}))
	g := &GPUMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.GenBuffers(1, &g.ebo)
	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	var v scene.Vertex
	gl.EnableVertexAttribArray(AttribPosition)
	gl.VertexAttribPointer(AttribPosition, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(AttribNormal)
	gl.VertexAttribPointer(AttribNormal, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))
	gl.EnableVertexAttribArray(AttribUV)
	gl.VertexAttribPointer(AttribUV, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g, nil
}

// Draw issues one indexed triangle draw with the currently bound program.
func (g *GPUMesh) Draw() {
	if g == nil || g.vao == 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Triangles returns the number of triangles Draw submits.
func (g *GPUMesh) Triangles() int { return int(g.indexCount / 3) }

// Release deletes the buffers. Calling it again is a no-op.
func (g *GPUMesh) Release() {
	if g == nil || g.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	g.vao, g.vbo, g.ebo = 0, 0, 0
}
