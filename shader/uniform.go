package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-sandbox/internal/logging"
)

// The setters write to the program currently in use, so Bind must be called
// first. A uniform that does not exist or was optimized out is skipped after
// a warning; this is a common, harmless state while editing shaders.

// location resolves a uniform by name on every call.
func (p *Program) location(name string) int32 {
	loc := int32(-1)
	if p.id != 0 {
		loc = p.ctx.GetUniformLocation(p.id, name)
	}
	if loc == -1 && !p.warned[name] {
		if p.warned == nil {
			p.warned = make(map[string]bool)
		}
		p.warned[name] = true
		logging.Logger().Warn("uniform doesn't exist or is not used", "uniform", name, "program", p.id)
	}
	return loc
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.location(name); loc != -1 {
		p.ctx.UniformMatrix4fv(loc, [16]float32(m))
	}
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.location(name); loc != -1 {
		p.ctx.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.location(name); loc != -1 {
		p.ctx.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc != -1 {
		p.ctx.Uniform1f(loc, v)
	}
}

// SetInt sets an int uniform. For a sampler the value is the texture unit
// index it samples from.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc != -1 {
		p.ctx.Uniform1i(loc, v)
	}
}

// SetMatrices sets u_Model, u_View and u_Proj.
func (p *Program) SetMatrices(model, view, proj mgl32.Mat4) {
	p.SetMat4("u_Model", model)
	p.SetMat4("u_View", view)
	p.SetMat4("u_Proj", proj)
}

// Int reads back an int or sampler uniform. ok is false if the uniform is
// not active in the program.
func (p *Program) Int(name string) (v int32, ok bool) {
	loc := p.location(name)
	if loc == -1 {
		return 0, false
	}
	return p.ctx.GetUniformi(p.id, loc), true
}
