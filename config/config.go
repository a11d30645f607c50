// Package config holds the sandbox settings, read from and written to TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"render-sandbox/internal/logging"
)

type Config struct {
	Window  Window  `toml:"window"`
	Shader  Shader  `toml:"shader"`
	Texture Texture `toml:"texture"`
	Scene   Scene   `toml:"scene"`
	Log     Log     `toml:"log"`
}

type Window struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	VSync     bool   `toml:"vsync"`
	Resizable bool   `toml:"resizable"`
}

type Shader struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
	// Watch reloads the program when either source file changes.
	Watch bool `toml:"watch"`
}

type Texture struct {
	Path      string `toml:"path"`
	SRGB      bool   `toml:"srgb"`
	FlipY     bool   `toml:"flip_y"`
	CacheSize int    `toml:"cache_size"`
}

type Scene struct {
	// Mesh is "cube", "triangle" or a path to a .gltf or .glb file.
	Mesh       string     `toml:"mesh"`
	SpinSpeed  float32    `toml:"spin_speed"` // radians per second
	ClearColor [4]float32 `toml:"clear_color"`
	Tint       [4]float32 `toml:"tint"`
	LightDir   [3]float32 `toml:"light_dir"`
	Ambient    float32    `toml:"ambient"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() *Config {
	return &Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "Render Sandbox",
			VSync:     true,
			Resizable: true,
		},
		Shader: Shader{
			Vertex:   "assets/shaders/cube.vert",
			Fragment: "assets/shaders/cube.frag",
		},
		Texture: Texture{
			FlipY:     true,
			SRGB:      true,
			CacheSize: 16,
		},
		Scene: Scene{
			Mesh:       "cube",
			SpinSpeed:  0.5,
			ClearColor: [4]float32{0.1, 0.1, 0.12, 1},
			Tint:       [4]float32{1, 1, 1, 1},
			LightDir:   [3]float32{-0.4, -1, -0.3},
			Ambient:    0.15,
		},
		Log: Log{Level: "info"},
	}
}

// Load decodes the file at path over the defaults. Keys that match no
// setting are logged and otherwise ignored.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logging.Logger().Warn("unknown config keys", "path", path, "keys", strings.Join(keys, ", "))
	}
	return c, nil
}

// Save writes c to path as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Shader.Vertex == "" {
		errs = append(errs, errors.New("shader: vertex path is empty"))
	}
	if c.Shader.Fragment == "" {
		errs = append(errs, errors.New("shader: fragment path is empty"))
	}
	if c.Texture.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("texture: cache_size must be positive, got %d", c.Texture.CacheSize))
	}
	if c.Scene.Mesh == "" {
		errs = append(errs, errors.New("scene: mesh is empty"))
	}
	if c.Scene.Ambient < 0 || c.Scene.Ambient > 1 {
		errs = append(errs, fmt.Errorf("scene: ambient %.2f outside [0, 1]", c.Scene.Ambient))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}
