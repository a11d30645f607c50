// Package gpu describes the slice of the OpenGL API used by the shader and
// texture wrappers. The production implementation lives in internal/opengl;
// gpu/gputest provides an in-memory implementation for tests.
//
// A Context is bound to one graphics context and one OS thread. None of its
// methods are safe for concurrent use.
package gpu

// Enum is an OpenGL enumerant. Values match the OpenGL headers so backends
// can forward them unchanged.
type Enum uint32

const (
	False = 0
	True  = 1

	VertexShader   Enum = 0x8b31
	FragmentShader Enum = 0x8b30
	CompileStatus  Enum = 0x8b81
	LinkStatus     Enum = 0x8b82
	InfoLogLength  Enum = 0x8b84

	Texture2D Enum = 0x0de1
	Texture0  Enum = 0x84c0

	Red       Enum = 0x1903
	RGB       Enum = 0x1907
	RGBA      Enum = 0x1908
	SRGB      Enum = 0x8c40
	SRGBAlpha Enum = 0x8c42

	UnsignedByte Enum = 0x1401

	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803

	Linear             Enum = 0x2601
	LinearMipmapLinear Enum = 0x2703
	Repeat             Enum = 0x2901

	UnpackAlignment Enum = 0x0cf5
)

// Context is the set of GL entry points the wrappers call. Handles are
// plain GL object names; 0 is never a valid object.
type Context interface {
	CreateShader(stage Enum) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	GetShaderi(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// GetUniformLocation returns -1 for names the linked program does not
	// expose. Uniform setters act on the program selected by UseProgram and
	// ignore location -1.
	GetUniformLocation(program uint32, name string) int32
	GetUniformi(program uint32, location int32) int32
	UniformMatrix4fv(location int32, m [16]float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)

	CreateTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexParameteri(target, pname Enum, param int32)
	PixelStorei(pname Enum, param int32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, xtype Enum, pixels []byte)
	GenerateMipmap(target Enum)
}

// StageName returns a human-readable name for a shader stage.
func StageName(stage Enum) string {
	switch stage {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

// BytesPerPixel reports the size of one 8-bit pixel in the given source
// format, or 0 for formats the wrappers never upload.
func BytesPerPixel(format Enum) int {
	switch format {
	case Red:
		return 1
	case RGB:
		return 3
	case RGBA:
		return 4
	default:
		return 0
	}
}
