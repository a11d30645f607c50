// Package shader builds and owns linked GPU shader programs.
//
// A Program is created from a vertex and a fragment stage. Failures never
// abort: they are logged, the returned Program is invalid (ID 0) and the
// error says why. Binding an invalid Program selects program 0, so draws
// issued with it are silent no-ops.
//
// A Program owns its GPU handle exclusively. Release deletes it exactly once;
// Move and Replace transfer ownership. Programs must not be copied, and every
// method must be called on the thread that owns the graphics context.
package shader

import (
	"errors"
	"fmt"
	"os"

	"render-sandbox/gpu"
	"render-sandbox/internal/logging"
)

// noCopy makes go vet's copylocks check flag copies of a Program.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Program is a linked shader program.
type Program struct {
	noCopy noCopy

	ctx gpu.Context
	id  uint32

	vertexPath   string
	fragmentPath string

	// uniforms already reported missing, so a frame loop warns once per name
	warned map[string]bool
}

// Load reads both stage sources from disk and builds a program from them.
// The returned Program is never nil; on error it is invalid and may still be
// bound, reloaded or released.
func Load(ctx gpu.Context, vertexPath, fragmentPath string) (*Program, error) {
	p := &Program{ctx: ctx, vertexPath: vertexPath, fragmentPath: fragmentPath}
	id, err := buildFiles(ctx, vertexPath, fragmentPath)
	if err != nil {
		logging.Logger().Error("failed to create shader program",
			"vertex", vertexPath, "fragment", fragmentPath, "err", err)
		return p, err
	}
	p.id = id
	return p, nil
}

// FromSource builds a program from in-memory stage sources. The returned
// Program is never nil. It cannot be reloaded.
func FromSource(ctx gpu.Context, vertexSrc, fragmentSrc string) (*Program, error) {
	p := &Program{ctx: ctx}
	if vertexSrc == "" || fragmentSrc == "" {
		logging.Logger().Warn("empty shader source",
			"vertex_len", len(vertexSrc), "fragment_len", len(fragmentSrc))
		return p, ErrEmptySource
	}
	id, err := build(ctx, vertexSrc, fragmentSrc)
	if err != nil {
		logging.Logger().Error("failed to create shader program", "err", err)
		return p, err
	}
	p.id = id
	return p, nil
}

func buildFiles(ctx gpu.Context, vertexPath, fragmentPath string) (uint32, error) {
	vertexSrc, verr := readSource(vertexPath)
	fragmentSrc, ferr := readSource(fragmentPath)
	if err := errors.Join(verr, ferr); err != nil {
		return 0, err
	}
	return build(ctx, vertexSrc, fragmentSrc)
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		logging.Logger().Warn("failed to open shader file", "path", path, "err", err)
		return "", fmt.Errorf("read %s: %w: %w", path, ErrEmptySource, err)
	}
	if len(b) == 0 {
		logging.Logger().Warn("empty shader source", "path", path)
		return "", fmt.Errorf("read %s: %w", path, ErrEmptySource)
	}
	return string(b), nil
}

// build compiles both stages and links them. On any failure every handle it
// created is released and 0 is returned.
func build(ctx gpu.Context, vertexSrc, fragmentSrc string) (uint32, error) {
	vs, verr := compile(ctx, gpu.VertexShader, vertexSrc)
	fs, ferr := compile(ctx, gpu.FragmentShader, fragmentSrc)
	if err := errors.Join(verr, ferr); err != nil {
		if vs != 0 {
			ctx.DeleteShader(vs)
		}
		if fs != 0 {
			ctx.DeleteShader(fs)
		}
		return 0, err
	}

	prog := ctx.CreateProgram()
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	ctx.LinkProgram(prog)

	if ctx.GetProgrami(prog, gpu.LinkStatus) == gpu.False {
		log := ctx.GetProgramInfoLog(prog)
		logging.Logger().Error("program link failed", "log", log)
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		ctx.DeleteProgram(prog)
		return 0, &LinkError{Log: log}
	}

	ctx.DetachShader(prog, vs)
	ctx.DetachShader(prog, fs)
	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)
	return prog, nil
}

func compile(ctx gpu.Context, stage gpu.Enum, src string) (uint32, error) {
	id := ctx.CreateShader(stage)
	ctx.ShaderSource(id, src)
	ctx.CompileShader(id)

	if ctx.GetShaderi(id, gpu.CompileStatus) == gpu.False {
		log := ctx.GetShaderInfoLog(id)
		logging.Logger().Error("shader compilation failed", "stage", gpu.StageName(stage), "log", log)
		ctx.DeleteShader(id)
		return 0, &CompileError{Stage: gpu.StageName(stage), Log: log}
	}
	return id, nil
}

// ID returns the GPU program handle, or 0 if the program is invalid.
func (p *Program) ID() uint32 { return p.id }

// Valid reports whether the program holds a linked GPU program.
func (p *Program) Valid() bool { return p.id != 0 }

// Bind selects the program for subsequent draw calls and uniform updates.
func (p *Program) Bind() { p.ctx.UseProgram(p.id) }

// Unbind selects program 0.
func (p *Program) Unbind() { p.ctx.UseProgram(0) }

// Use binds the program for the duration of fn.
func (p *Program) Use(fn func()) {
	p.Bind()
	defer p.Unbind()
	fn()
}

// Reload rebuilds the program from the files it was loaded from. On success
// the old GPU program is released and replaced; on failure the current
// program is kept untouched.
func (p *Program) Reload() error {
	if p.vertexPath == "" || p.fragmentPath == "" {
		return errors.New("program was not loaded from files")
	}
	id, err := buildFiles(p.ctx, p.vertexPath, p.fragmentPath)
	if err != nil {
		logging.Logger().Warn("shader reload failed, keeping previous program",
			"program", p.id, "vertex", p.vertexPath, "fragment", p.fragmentPath, "err", err)
		return err
	}
	p.Release()
	p.id = id
	logging.Logger().Info("shader program reloaded", "program", id)
	return nil
}

// Release deletes the GPU program. Calling it again is a no-op.
func (p *Program) Release() {
	if p.id == 0 {
		return
	}
	p.ctx.DeleteProgram(p.id)
	p.id = 0
	p.warned = nil
}

// Move transfers ownership of the GPU program to a new Program and leaves p
// invalid.
func (p *Program) Move() *Program {
	q := &Program{
		ctx:          p.ctx,
		id:           p.id,
		vertexPath:   p.vertexPath,
		fragmentPath: p.fragmentPath,
		warned:       p.warned,
	}
	p.id = 0
	p.warned = nil
	return q
}

// Replace releases p's program and takes ownership of other's, leaving other
// invalid.
func (p *Program) Replace(other *Program) {
	if other == p {
		return
	}
	p.Release()
	p.ctx = other.ctx
	p.id = other.id
	p.vertexPath = other.vertexPath
	p.fragmentPath = other.fragmentPath
	p.warned = other.warned
	other.id = 0
	other.warned = nil
}
