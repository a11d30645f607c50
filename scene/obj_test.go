package scene_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-sandbox/scene"
)

func writeOBJ(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.OBJ")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadOBJQuad(t *testing.T) {
	m, err := scene.LoadModel(writeOBJ(t, `# quad
o plane
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl ignored
f 1/1/1 2/2/1 3/3/1 4/4/1
`))
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 4, "shared corners are deduplicated")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, mgl32.Vec2{1, 1}, m.Vertices[2].UV)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, m.Vertices[0].Normal)
}

func TestLoadOBJComputesNormals(t *testing.T) {
	m, err := scene.LoadModel(writeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 0 -1\nf -3 -2 -1\n"))
	require.NoError(t, err)
	for _, v := range m.Vertices {
		assert.True(t, v.Normal.ApproxEqual(mgl32.Vec3{0, 1, 0}), "normal %v", v.Normal)
	}
}

func TestLoadOBJErrors(t *testing.T) {
	cases := map[string]string{
		"out of range": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"bad number":   "v 0 zero 0\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"no faces":     "v 0 0 0\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scene.LoadModel(writeOBJ(t, src))
			assert.Error(t, err)
		})
	}
}
