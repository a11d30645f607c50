// Command sandbox draws a textured, lit mesh with an orbit camera.
//
// Controls: left-drag orbits, scroll zooms, R resets the camera, Space
// pauses the spin, F toggles wireframe and Esc quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"

	"render-sandbox/config"
	"render-sandbox/core"
	"render-sandbox/input"
	"render-sandbox/internal/logging"
	"render-sandbox/internal/opengl"
	"render-sandbox/scene"
	"render-sandbox/shader"
	"render-sandbox/texture"
)

func main() {
	opt, err := parseCLIOpts(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(opt); err != nil {
		logging.Logger().Error("sandbox failed", "err", err)
		os.Exit(1)
	}
}

func run(opt cliOpts) error {
	cfg, err := loadConfig(opt)
	if err != nil {
		return err
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.SetLogger(logging.New(os.Stderr, level))

	switch opt.profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	window, err := core.NewWindow(core.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: cfg.Window.Resizable,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	ctx, err := opengl.NewContext()
	if err != nil {
		return err
	}

	app, err := newApp(ctx, cfg, window)
	if err != nil {
		return err
	}
	// GPU objects go before the window and its context.
	defer app.Release()

	app.Loop()
	return nil
}

type app struct {
	cfg    *config.Config
	window *core.Window

	program  *shader.Program
	watcher  *shader.Watcher
	textures *texture.Cache
	texture  *texture.Texture2D
	mesh     *opengl.GPUMesh

	camera     *scene.OrbitCamera
	controller *scene.Controller

	angle     float32
	paused    bool
	wireframe bool
}

func newApp(ctx *opengl.Context, cfg *config.Config, window *core.Window) (*app, error) {
	a := &app{cfg: cfg, window: window}

	// A program that fails to build is kept as an invalid handle, so the
	// loop keeps running and a fixed file can be picked up by the watcher.
	a.program, _ = shader.Load(ctx, cfg.Shader.Vertex, cfg.Shader.Fragment)
	if cfg.Shader.Watch {
		w, err := shader.Watch(cfg.Shader.Vertex, cfg.Shader.Fragment)
		if err != nil {
			logging.Logger().Warn("shader watch disabled", "err", err)
		} else {
			a.watcher = w
		}
	}

	var err error
	if a.textures, err = texture.NewCache(ctx, cfg.Texture.CacheSize); err != nil {
		a.Release()
		return nil, err
	}
	a.texture = a.textures.GetOrDefault(cfg.Texture.Path, texture.Options{
		SRGB:  cfg.Texture.SRGB,
		FlipY: cfg.Texture.FlipY,
	})

	mesh, err := buildMesh(cfg.Scene.Mesh)
	if err != nil {
		a.Release()
		return nil, err
	}
	if a.mesh, err = opengl.UploadMesh(mesh); err != nil {
		a.Release()
		return nil, fmt.Errorf("upload %s: %w", mesh.Name, err)
	}

	w, h := window.FramebufferSize()
	a.camera = scene.NewOrbitCamera(mgl32.Vec3{}, 3, mgl32.DegToRad(60), 1)
	a.camera.SetAspect(w, h)
	a.controller = scene.NewController(a.camera)

	logging.Logger().Info("scene ready", "mesh", mesh.Name, "vertices", len(mesh.Vertices),
		"triangles", a.mesh.Triangles(), "texture", a.texture.ID())
	return a, nil
}

func buildMesh(name string) (*scene.Mesh, error) {
	switch strings.ToLower(name) {
	case "cube":
		return scene.Cube(1), nil
	case "triangle":
		return scene.Triangle(), nil
	}
	return scene.LoadModel(name)
}

func (a *app) Loop() {
	overlay := &DebugOverlay{}
	fps := newFPSCounter(time.Now())
	last := time.Now()

	for !a.window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		in := a.window.Frame()
		a.update(in, dt)
		a.draw()
		a.window.SwapBuffers()

		if fps.Frame(now) {
			overlay.Clear()
			overlay.AddField("%s", a.cfg.Window.Title)
			overlay.AddField("FPS: %.0f", fps.FPS())
			overlay.AddField("yaw %.2f pitch %.2f dist %.1f", a.camera.Yaw, a.camera.Pitch, a.camera.Distance)
			if a.paused {
				overlay.AddField("paused")
			}
			if a.wireframe {
				overlay.AddField("wire")
			}
			a.window.SetTitle(overlay.Text())
		}
	}
}

func (a *app) update(in input.Snapshot, dt float32) {
	if in.Pressed(input.KeyEscape) {
		a.window.Close()
		return
	}
	if in.Pressed(input.KeySpace) {
		a.paused = !a.paused
	}
	if in.Pressed(input.KeyF) {
		a.wireframe = !a.wireframe
		opengl.SetWireframe(a.wireframe)
	}
	a.controller.Update(in)

	if a.watcher != nil {
		select {
		case <-a.watcher.Changed():
			// a failed reload keeps the previous program and is already logged
			_ = a.program.Reload()
		default:
		}
	}

	if !a.paused {
		a.angle += a.cfg.Scene.SpinSpeed * dt
	}
}

func (a *app) draw() {
	w, h := a.window.FramebufferSize()
	a.camera.SetAspect(w, h)
	opengl.BeginFrame(w, h, a.cfg.Scene.ClearColor)

	sc := a.cfg.Scene
	a.program.Use(func() {
		a.program.SetMatrices(mgl32.HomogRotate3DY(a.angle), a.camera.View(), a.camera.Projection())
		a.program.SetInt("u_Texture0", 0)
		a.program.SetVec4("u_Tint", mgl32.Vec4(sc.Tint))
		a.program.SetVec3("u_LightDir", lightDir(sc.LightDir))
		a.program.SetFloat("u_Ambient", sc.Ambient)

		a.texture.Bind(0)
		a.mesh.Draw()
		a.texture.Unbind()
	})
}

func lightDir(v [3]float32) mgl32.Vec3 {
	d := mgl32.Vec3(v)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// Release frees GPU resources. Textures belong to the cache.
func (a *app) Release() {
	if a.mesh != nil {
		a.mesh.Release()
	}
	if a.program != nil {
		a.program.Release()
	}
	if a.textures != nil {
		a.textures.Purge()
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logging.Logger().Warn("close shader watcher", "err", err)
		}
	}
}
