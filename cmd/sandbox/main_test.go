package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-sandbox/config"
	"render-sandbox/gpu/gputest"
	"render-sandbox/shader"
)

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	c := config.Default()
	c.Scene.Mesh = "triangle"
	c.Texture.Path = "from-file.png"
	c.Texture.SRGB = true
	require.NoError(t, c.Save(path))

	opt, err := parseCLIOpts([]string{"-config", path, "-srgb=false", "-mesh", "cube"}, io.Discard)
	require.NoError(t, err)
	cfg, err := loadConfig(opt)
	require.NoError(t, err)

	assert.Equal(t, "cube", cfg.Scene.Mesh)
	assert.False(t, cfg.Texture.SRGB)
	assert.Equal(t, "from-file.png", cfg.Texture.Path, "unset flags keep file values")
}

func TestFlagsRejectBadValues(t *testing.T) {
	_, err := parseCLIOpts([]string{"-profile", "trace"}, io.Discard)
	assert.Error(t, err)

	_, err = parseCLIOpts([]string{"extra"}, io.Discard)
	assert.Error(t, err)

	opt, err := parseCLIOpts([]string{"-log-level", "loud"}, io.Discard)
	require.NoError(t, err)
	_, err = loadConfig(opt)
	assert.ErrorContains(t, err, "invalid settings")
}

func TestMissingConfigFile(t *testing.T) {
	opt, err := parseCLIOpts([]string{"-config", filepath.Join(t.TempDir(), "none.toml")}, io.Discard)
	require.NoError(t, err)
	_, err = loadConfig(opt)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildMeshNames(t *testing.T) {
	m, err := buildMesh("Cube")
	require.NoError(t, err)
	assert.Len(t, m.Indices, 36)

	m, err = buildMesh("triangle")
	require.NoError(t, err)
	assert.Len(t, m.Indices, 3)

	_, err = buildMesh(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}

func TestFPSCounter(t *testing.T) {
	start := time.Unix(0, 0)
	c := newFPSCounter(start)
	for i := 1; i < 30; i++ {
		assert.False(t, c.Frame(start.Add(time.Duration(i)*16*time.Millisecond)))
	}
	assert.True(t, c.Frame(start.Add(2*time.Second)))
	assert.InDelta(t, 15, c.FPS(), 0.01)
}

func TestDebugOverlay(t *testing.T) {
	var o DebugOverlay
	o.AddField("FPS: %d", 60)
	o.AddField("wire")
	assert.Equal(t, "FPS: 60 | wire", o.Text())
	o.Clear()
	assert.Empty(t, o.Text())
}

func TestLightDir(t *testing.T) {
	assert.InDelta(t, 1, lightDir([3]float32{3, 4, 0}).Len(), 1e-6)
	assert.Equal(t, float32(-1), lightDir([3]float32{}).Y())
}

func TestBundledShadersUseEveryUniform(t *testing.T) {
	ctx := gputest.New()
	d := config.Default()
	prog, err := shader.Load(ctx, filepath.Join("..", "..", d.Shader.Vertex), filepath.Join("..", "..", d.Shader.Fragment))
	require.NoError(t, err)
	defer prog.Release()

	for _, name := range []string{"u_Model", "u_View", "u_Proj", "u_Texture0", "u_Tint", "u_LightDir", "u_Ambient"} {
		assert.NotEqual(t, int32(-1), ctx.GetUniformLocation(prog.ID(), name), name)
	}
}
