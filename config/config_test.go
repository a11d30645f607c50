package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-sandbox/config"
	"render-sandbox/internal/logging"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
width = 640
title = "test"

[texture]
path = "assets/brick.png"
srgb = false

[scene]
mesh = "triangle"
tint = [1.0, 0.5, 0.25, 1.0]
`), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height, "unset keys keep their default")
	assert.Equal(t, "test", c.Window.Title)
	assert.Equal(t, "assets/brick.png", c.Texture.Path)
	assert.False(t, c.Texture.SRGB)
	assert.True(t, c.Texture.FlipY)
	assert.Equal(t, "triangle", c.Scene.Mesh)
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 1}, c.Scene.Tint)
}

func TestLoadWarnsOnUnknownKeys(t *testing.T) {
	orig := logging.Logger()
	t.Cleanup(func() { logging.SetLogger(orig) })
	var logs bytes.Buffer
	logging.SetLogger(logging.New(&logs, slog.LevelDebug))

	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidht = 10\n"), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1280, c.Window.Width)
	assert.Contains(t, logs.String(), "unknown config keys")
	assert.Contains(t, logs.String(), "window.widht")
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[window\nwidth = "), 0o644))
	_, err = config.Load(bad)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	c := config.Default()
	c.Scene.Mesh = "models/duck.glb"
	c.Shader.Watch = true
	path := filepath.Join(t.TempDir(), "nested", "sandbox.toml")
	require.NoError(t, c.Save(path))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestValidateCollectsErrors(t *testing.T) {
	c := config.Default()
	c.Window.Width = 0
	c.Texture.CacheSize = 0
	c.Log.Level = "loud"

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window")
	assert.Contains(t, err.Error(), "cache_size")
	assert.Contains(t, err.Error(), "loud")
}
