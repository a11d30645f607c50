package scene_test

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-sandbox/scene"
)

func TestCube(t *testing.T) {
	m := scene.Cube(2)
	require.Len(t, m.Vertices, 24)
	require.Len(t, m.Indices, 36)

	min, max := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, max)

	// every triangle winds counter-clockwise around its face normal
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalize()
		assert.True(t, n.ApproxEqual(a.Normal), "triangle %d: winding %v, normal %v", i/3, n, a.Normal)
	}
}

func TestTriangle(t *testing.T) {
	m := scene.Triangle()
	assert.Len(t, m.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
}

func writeModel(t *testing.T, name string, withIndices bool) string {
	t.Helper()
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})

	attrs := make(map[string]int)
	attrs["POSITION"] = positions
	attrs["TEXCOORD_0"] = uvs
	prim := &gltf.Primitive{Attributes: attrs}
	if withIndices {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{2, 1, 0}))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim, prim}}}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadModel(t *testing.T) {
	m, err := scene.LoadModel(writeModel(t, "tri.glb", true))
	require.NoError(t, err)

	// the primitive is listed twice, so its vertices are merged twice
	require.Len(t, m.Vertices, 6)
	assert.Equal(t, []uint32{2, 1, 0, 5, 4, 3}, m.Indices)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Vertices[1].Position)
	assert.Equal(t, mgl32.Vec2{0, 1}, m.Vertices[2].UV)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, m.Vertices[0].Normal, "missing normals default to +Y")
}

func TestLoadModelWithoutIndices(t *testing.T) {
	m, err := scene.LoadModel(writeModel(t, "tri.glb", false))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, m.Indices)
}

func TestLoadModelErrors(t *testing.T) {
	_, err := scene.LoadModel(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.glb")
	require.NoError(t, gltf.SaveBinary(gltf.NewDocument(), empty))
	_, err = scene.LoadModel(empty)
	assert.ErrorIs(t, err, scene.ErrNoGeometry)
}
