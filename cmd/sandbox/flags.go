package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"render-sandbox/config"
)

type cliOpts struct {
	configPath string
	vertex     string
	fragment   string
	texture    string
	srgb       bool
	mesh       string
	watch      bool
	profile    string
	logLevel   string

	// set holds the names of flags given on the command line.
	set map[string]bool
}

func parseCLIOpts(args []string, output io.Writer) (cliOpts, error) {
	var opt cliOpts
	fs := flag.NewFlagSet("sandbox", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opt.configPath, "config", "", "TOML settings file; flags override its values")
	fs.StringVar(&opt.vertex, "vert", "", "Vertex shader source")
	fs.StringVar(&opt.fragment, "frag", "", "Fragment shader source")
	fs.StringVar(&opt.texture, "texture", "", "Image bound to texture unit 0 (a checkerboard if empty)")
	fs.BoolVar(&opt.srgb, "srgb", true, "Store the texture in an sRGB format")
	fs.StringVar(&opt.mesh, "mesh", "", "cube, triangle, or a .gltf/.glb file")
	fs.BoolVar(&opt.watch, "watch", false, "Reload shaders when their files change")
	fs.StringVar(&opt.profile, "profile", "", "Write a cpu or mem profile to the working directory")
	fs.StringVar(&opt.logLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return opt, err
	}
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	switch opt.profile {
	case "", "cpu", "mem":
	default:
		return opt, fmt.Errorf("-profile must be cpu or mem, got %q", opt.profile)
	}

	opt.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opt.set[f.Name] = true })
	return opt, nil
}

// loadConfig reads the settings file, if any, and applies explicit flags.
func loadConfig(opt cliOpts) (*config.Config, error) {
	cfg := config.Default()
	if opt.configPath != "" {
		var err error
		if cfg, err = config.Load(opt.configPath); err != nil {
			return nil, err
		}
	}

	if opt.set["vert"] {
		cfg.Shader.Vertex = opt.vertex
	}
	if opt.set["frag"] {
		cfg.Shader.Fragment = opt.fragment
	}
	if opt.set["texture"] {
		cfg.Texture.Path = opt.texture
	}
	if opt.set["srgb"] {
		cfg.Texture.SRGB = opt.srgb
	}
	if opt.set["mesh"] {
		cfg.Scene.Mesh = opt.mesh
	}
	if opt.set["watch"] {
		cfg.Shader.Watch = opt.watch
	}
	if opt.set["log-level"] {
		cfg.Log.Level = opt.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(errors.New("invalid settings"), err)
	}
	return cfg, nil
}
