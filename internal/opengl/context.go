// Package opengl implements gpu.Context and mesh drawing on go-gl.
//
// Everything here must run on the thread that owns the current GL context.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"render-sandbox/gpu"
	"render-sandbox/internal/logging"
)

// Context forwards gpu.Context calls to the current OpenGL context.
type Context struct {
	Version  string
	Renderer string
}

var _ gpu.Context = (*Context)(nil)

// NewContext loads the GL entry points and enables depth testing.
// Must be called after the window's context is made current.
func NewContext() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	c := &Context{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	logging.Logger().Info("OpenGL context ready", "version", c.Version, "renderer", c.Renderer,
		"glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return c, nil
}

// cstr returns a NUL-terminated copy of s for gl.Str.
func cstr(s string) *uint8 {
	return gl.Str(s + "\x00")
}

func infoLog(length int32, read func(int32, *uint8)) string {
	if length <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	read(length, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Context) CreateShader(stage gpu.Enum) uint32 { return gl.CreateShader(uint32(stage)) }

func (*Context) ShaderSource(shader uint32, src string) {
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
}

func (*Context) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*Context) GetShaderi(shader uint32, pname gpu.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, uint32(pname), &v)
	return v
}

func (c *Context) GetShaderInfoLog(shader uint32) string {
	return infoLog(c.GetShaderi(shader, gpu.InfoLogLength), func(n int32, buf *uint8) {
		gl.GetShaderInfoLog(shader, n, nil, buf)
	})
}

func (*Context) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (*Context) CreateProgram() uint32               { return gl.CreateProgram() }
func (*Context) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (*Context) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }
func (*Context) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (*Context) GetProgrami(program uint32, pname gpu.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, uint32(pname), &v)
	return v
}

func (c *Context) GetProgramInfoLog(program uint32) string {
	return infoLog(c.GetProgrami(program, gpu.InfoLogLength), func(n int32, buf *uint8) {
		gl.GetProgramInfoLog(program, n, nil, buf)
	})
}

func (*Context) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (*Context) UseProgram(program uint32)    { gl.UseProgram(program) }

func (*Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, cstr(name))
}

func (*Context) GetUniformi(program uint32, location int32) int32 {
	var v int32
	gl.GetUniformiv(program, location, &v)
	return v
}

// UniformMatrix4fv uploads m as stored: mgl32 matrices are column-major,
// which is what GL expects without transposition.
func (*Context) UniformMatrix4fv(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (*Context) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

func (*Context) Uniform3f(location int32, v0, v1, v2 float32) { gl.Uniform3f(location, v0, v1, v2) }
func (*Context) Uniform1f(location int32, v float32)          { gl.Uniform1f(location, v) }
func (*Context) Uniform1i(location int32, v int32)            { gl.Uniform1i(location, v) }

func (*Context) CreateTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (*Context) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }
func (*Context) ActiveTexture(unit gpu.Enum)  { gl.ActiveTexture(uint32(unit)) }

func (*Context) BindTexture(target gpu.Enum, texture uint32) {
	gl.BindTexture(uint32(target), texture)
}

func (*Context) TexParameteri(target, pname gpu.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (*Context) PixelStorei(pname gpu.Enum, param int32) { gl.PixelStorei(uint32(pname), param) }

func (*Context) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, xtype gpu.Enum, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0,
		uint32(format), uint32(xtype), ptr)
}

func (*Context) GenerateMipmap(target gpu.Enum) { gl.GenerateMipmap(uint32(target)) }
