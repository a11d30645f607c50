// Package gputest provides an in-memory gpu.Context for tests.
//
// The fake context tracks every object it hands out, so tests can assert
// that no shader, program or texture leaks and that nothing is deleted
// twice. Shader compilation and linking are simulated with a handful of
// source checks that are close enough to a real GLSL front end to exercise
// the failure paths:
//
//   - a stage without a main function, or with unbalanced braces or
//     parentheses, fails to compile;
//   - a program fails to link when it lacks a vertex or fragment stage, or
//     when a fragment input has no matching vertex output;
//   - a declared uniform that the stage never references is optimized out
//     and resolves to location -1.
package gputest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"render-sandbox/gpu"
)

const maxTextureUnits = 32

var (
	mainRe     = regexp.MustCompile(`\bvoid\s+main\s*\(`)
	uniformRe  = regexp.MustCompile(`\buniform\s+\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)
	outRe      = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:flat\s+|smooth\s+)?out\s+\w+\s+(\w+)\s*;`)
	inRe       = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:flat\s+|smooth\s+)?in\s+\w+\s+(\w+)\s*;`)
	identRefRe = func(name string) *regexp.Regexp { return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`) }
)

type shaderObject struct {
	stage    gpu.Enum
	src      string
	compiled bool
	log      string
	uniforms []string
	ins      []string
	outs     []string
}

type programObject struct {
	attached  map[uint32]bool
	linked    bool
	log       string
	locations map[string]int32
	values    map[int32]any
}

// Image is the level-0 image uploaded to a texture.
type Image struct {
	InternalFormat gpu.Enum
	Format         gpu.Enum
	Type           gpu.Enum
	Width, Height  int32
	Pixels         []byte
}

// TextureState is a snapshot of a texture object.
type TextureState struct {
	Params    map[gpu.Enum]int32
	Level0    *Image
	Mipmapped bool
}

// Context is a fake gpu.Context. The zero value is not usable; call New.
type Context struct {
	nextID uint32

	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject
	textures map[uint32]*TextureState

	current    uint32
	activeUnit uint32
	units      [maxTextureUnits]uint32
	pixelStore map[gpu.Enum]int32

	misuse []string
}

var _ gpu.Context = (*Context)(nil)

// New returns an empty fake context.
func New() *Context {
	return &Context{
		shaders:    make(map[uint32]*shaderObject),
		programs:   make(map[uint32]*programObject),
		textures:   make(map[uint32]*TextureState),
		pixelStore: map[gpu.Enum]int32{gpu.UnpackAlignment: 4},
	}
}

func (c *Context) id() uint32 {
	c.nextID++
	return c.nextID
}

func (c *Context) misused(format string, args ...any) {
	c.misuse = append(c.misuse, fmt.Sprintf(format, args...))
}

func (c *Context) CreateShader(stage gpu.Enum) uint32 {
	if stage != gpu.VertexShader && stage != gpu.FragmentShader {
		c.misused("CreateShader: invalid stage 0x%x", uint32(stage))
		return 0
	}
	id := c.id()
	c.shaders[id] = &shaderObject{stage: stage}
	return id
}

func (c *Context) ShaderSource(shader uint32, src string) {
	s, ok := c.shaders[shader]
	if !ok {
		c.misused("ShaderSource: unknown shader %d", shader)
		return
	}
	s.src = src
}

func (c *Context) CompileShader(shader uint32) {
	s, ok := c.shaders[shader]
	if !ok {
		c.misused("CompileShader: unknown shader %d", shader)
		return
	}
	s.compiled, s.log = compile(s.src)
	if !s.compiled {
		return
	}
	s.uniforms = activeUniforms(s.src)
	s.ins = submatches(inRe, s.src)
	s.outs = submatches(outRe, s.src)
}

func compile(src string) (bool, string) {
	if strings.Count(src, "{") != strings.Count(src, "}") ||
		strings.Count(src, "(") != strings.Count(src, ")") {
		line := strings.Count(src, "\n") + 1
		return false, fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file\n", line)
	}
	if !mainRe.MatchString(src) {
		return false, "0:1(1): error: main function not found\n"
	}
	return true, ""
}

func activeUniforms(src string) []string {
	var names []string
	for _, name := range submatches(uniformRe, src) {
		if len(identRefRe(name).FindAllStringIndex(src, -1)) > 1 {
			names = append(names, name)
		}
	}
	return names
}

func submatches(re *regexp.Regexp, src string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		out = append(out, m[1])
	}
	return out
}

func (c *Context) GetShaderi(shader uint32, pname gpu.Enum) int32 {
	s, ok := c.shaders[shader]
	if !ok {
		c.misused("GetShaderi: unknown shader %d", shader)
		return 0
	}
	switch pname {
	case gpu.CompileStatus:
		if s.compiled {
			return gpu.True
		}
		return gpu.False
	case gpu.InfoLogLength:
		if s.log == "" {
			return 0
		}
		return int32(len(s.log) + 1)
	}
	c.misused("GetShaderi: unsupported pname 0x%x", uint32(pname))
	return 0
}

func (c *Context) GetShaderInfoLog(shader uint32) string {
	s, ok := c.shaders[shader]
	if !ok {
		c.misused("GetShaderInfoLog: unknown shader %d", shader)
		return ""
	}
	return s.log
}

func (c *Context) DeleteShader(shader uint32) {
	if shader == 0 {
		return
	}
	if _, ok := c.shaders[shader]; !ok {
		c.misused("DeleteShader: unknown shader %d", shader)
		return
	}
	delete(c.shaders, shader)
}

func (c *Context) CreateProgram() uint32 {
	id := c.id()
	c.programs[id] = &programObject{
		attached: make(map[uint32]bool),
		values:   make(map[int32]any),
	}
	return id
}

func (c *Context) AttachShader(program, shader uint32) {
	p, ok := c.programs[program]
	if !ok {
		c.misused("AttachShader: unknown program %d", program)
		return
	}
	if _, ok := c.shaders[shader]; !ok {
		c.misused("AttachShader: unknown shader %d", shader)
		return
	}
	p.attached[shader] = true
}

func (c *Context) DetachShader(program, shader uint32) {
	p, ok := c.programs[program]
	if !ok {
		c.misused("DetachShader: unknown program %d", program)
		return
	}
	if !p.attached[shader] {
		c.misused("DetachShader: shader %d not attached to program %d", shader, program)
		return
	}
	delete(p.attached, shader)
}

func (c *Context) LinkProgram(program uint32) {
	p, ok := c.programs[program]
	if !ok {
		c.misused("LinkProgram: unknown program %d", program)
		return
	}
	p.linked, p.log, p.locations = false, "", nil

	var vert, frag *shaderObject
	for id := range p.attached {
		s, ok := c.shaders[id]
		if !ok {
			continue
		}
		if !s.compiled {
			p.log = "error: linking with uncompiled shader\n"
			return
		}
		switch s.stage {
		case gpu.VertexShader:
			vert = s
		case gpu.FragmentShader:
			frag = s
		}
	}
	switch {
	case vert == nil:
		p.log = "error: program lacks a vertex shader\n"
		return
	case frag == nil:
		p.log = "error: program lacks a fragment shader\n"
		return
	}

	outs := make(map[string]bool, len(vert.outs))
	for _, o := range vert.outs {
		outs[o] = true
	}
	for _, in := range frag.ins {
		if !outs[in] {
			p.log = fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage\n", in)
			return
		}
	}

	seen := make(map[string]bool)
	var names []string
	for _, n := range append(append([]string(nil), vert.uniforms...), frag.uniforms...) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	p.locations = make(map[string]int32, len(names))
	for i, n := range names {
		p.locations[n] = int32(i)
	}
	p.values = make(map[int32]any)
	p.linked = true
}

func (c *Context) GetProgrami(program uint32, pname gpu.Enum) int32 {
	p, ok := c.programs[program]
	if !ok {
		c.misused("GetProgrami: unknown program %d", program)
		return 0
	}
	switch pname {
	case gpu.LinkStatus:
		if p.linked {
			return gpu.True
		}
		return gpu.False
	case gpu.InfoLogLength:
		if p.log == "" {
			return 0
		}
		return int32(len(p.log) + 1)
	}
	c.misused("GetProgrami: unsupported pname 0x%x", uint32(pname))
	return 0
}

func (c *Context) GetProgramInfoLog(program uint32) string {
	p, ok := c.programs[program]
	if !ok {
		c.misused("GetProgramInfoLog: unknown program %d", program)
		return ""
	}
	return p.log
}

func (c *Context) DeleteProgram(program uint32) {
	if program == 0 {
		return
	}
	if _, ok := c.programs[program]; !ok {
		c.misused("DeleteProgram: unknown program %d", program)
		return
	}
	delete(c.programs, program)
	if c.current == program {
		c.current = 0
	}
}

func (c *Context) UseProgram(program uint32) {
	if program != 0 {
		p, ok := c.programs[program]
		if !ok {
			c.misused("UseProgram: unknown program %d", program)
			return
		}
		if !p.linked {
			c.misused("UseProgram: program %d is not linked", program)
			return
		}
	}
	c.current = program
}

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	p, ok := c.programs[program]
	if !ok || !p.linked {
		if program != 0 {
			c.misused("GetUniformLocation: program %d is not a linked program", program)
		}
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (c *Context) GetUniformi(program uint32, location int32) int32 {
	p, ok := c.programs[program]
	if !ok || !p.linked {
		c.misused("GetUniformi: program %d is not a linked program", program)
		return 0
	}
	v, _ := p.values[location].(int32)
	return v
}

func (c *Context) setUniform(location int32, v any) {
	if location == -1 {
		return
	}
	p, ok := c.programs[c.current]
	if !ok {
		c.misused("Uniform: no program in use")
		return
	}
	if location < 0 || int(location) >= len(p.locations) {
		c.misused("Uniform: invalid location %d for program %d", location, c.current)
		return
	}
	p.values[location] = v
}

func (c *Context) UniformMatrix4fv(location int32, m [16]float32) { c.setUniform(location, m) }

func (c *Context) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	c.setUniform(location, [4]float32{v0, v1, v2, v3})
}

func (c *Context) Uniform3f(location int32, v0, v1, v2 float32) {
	c.setUniform(location, [3]float32{v0, v1, v2})
}

func (c *Context) Uniform1f(location int32, v float32) { c.setUniform(location, v) }
func (c *Context) Uniform1i(location int32, v int32)   { c.setUniform(location, v) }

func (c *Context) CreateTexture() uint32 {
	id := c.id()
	c.textures[id] = &TextureState{Params: make(map[gpu.Enum]int32)}
	return id
}

func (c *Context) DeleteTexture(texture uint32) {
	if texture == 0 {
		return
	}
	if _, ok := c.textures[texture]; !ok {
		c.misused("DeleteTexture: unknown texture %d", texture)
		return
	}
	delete(c.textures, texture)
	for i, bound := range c.units {
		if bound == texture {
			c.units[i] = 0
		}
	}
}

func (c *Context) ActiveTexture(unit gpu.Enum) {
	if unit < gpu.Texture0 || unit >= gpu.Texture0+maxTextureUnits {
		c.misused("ActiveTexture: invalid unit 0x%x", uint32(unit))
		return
	}
	c.activeUnit = uint32(unit - gpu.Texture0)
}

func (c *Context) BindTexture(target gpu.Enum, texture uint32) {
	if target != gpu.Texture2D {
		c.misused("BindTexture: unsupported target 0x%x", uint32(target))
		return
	}
	if texture != 0 {
		if _, ok := c.textures[texture]; !ok {
			c.misused("BindTexture: unknown texture %d", texture)
			return
		}
	}
	c.units[c.activeUnit] = texture
}

func (c *Context) bound(call string) *TextureState {
	t, ok := c.textures[c.units[c.activeUnit]]
	if !ok {
		c.misused("%s: no texture bound to unit %d", call, c.activeUnit)
		return nil
	}
	return t
}

func (c *Context) TexParameteri(target, pname gpu.Enum, param int32) {
	if t := c.bound("TexParameteri"); t != nil {
		t.Params[pname] = param
	}
}

func (c *Context) PixelStorei(pname gpu.Enum, param int32) {
	switch param {
	case 1, 2, 4, 8:
		c.pixelStore[pname] = param
	default:
		c.misused("PixelStorei: invalid alignment %d", param)
	}
}

func (c *Context) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, xtype gpu.Enum, pixels []byte) {
	t := c.bound("TexImage2D")
	if t == nil {
		return
	}
	bpp := gpu.BytesPerPixel(format)
	if bpp == 0 || xtype != gpu.UnsignedByte {
		c.misused("TexImage2D: unsupported format 0x%x/0x%x", uint32(format), uint32(xtype))
		return
	}
	if width <= 0 || height <= 0 {
		c.misused("TexImage2D: invalid size %dx%d", width, height)
		return
	}
	align := int(c.pixelStore[gpu.UnpackAlignment])
	row := int(width) * bpp
	stride := (row + align - 1) / align * align
	need := stride*(int(height)-1) + row
	if len(pixels) < need {
		c.misused("TexImage2D: pixel buffer has %d bytes, need %d", len(pixels), need)
		return
	}
	if level != 0 {
		return
	}
	t.Level0 = &Image{
		InternalFormat: internalFormat,
		Format:         format,
		Type:           xtype,
		Width:          width,
		Height:         height,
		Pixels:         append([]byte(nil), pixels...),
	}
	t.Mipmapped = false
}

func (c *Context) GenerateMipmap(target gpu.Enum) {
	t := c.bound("GenerateMipmap")
	if t == nil {
		return
	}
	if t.Level0 == nil {
		c.misused("GenerateMipmap: texture has no level 0 image")
		return
	}
	t.Mipmapped = true
}

// LiveShaders returns the number of shader objects not yet deleted.
func (c *Context) LiveShaders() int { return len(c.shaders) }

// LivePrograms returns the number of program objects not yet deleted.
func (c *Context) LivePrograms() int { return len(c.programs) }

// LiveTextures returns the number of texture objects not yet deleted.
func (c *Context) LiveTextures() int { return len(c.textures) }

// CurrentProgram returns the program selected by UseProgram.
func (c *Context) CurrentProgram() uint32 { return c.current }

// ActiveUnit returns the index of the active texture unit.
func (c *Context) ActiveUnit() uint32 { return c.activeUnit }

// BoundTexture returns the texture bound to the given unit index.
func (c *Context) BoundTexture(unit uint32) uint32 {
	if unit >= maxTextureUnits {
		return 0
	}
	return c.units[unit]
}

// PixelStore returns the current value of a pixel store parameter.
func (c *Context) PixelStore(pname gpu.Enum) int32 { return c.pixelStore[pname] }

// Linked reports whether program is a live, linked program.
func (c *Context) Linked(program uint32) bool {
	p, ok := c.programs[program]
	return ok && p.linked
}

// Texture returns the state of a live texture.
func (c *Context) Texture(id uint32) (TextureState, bool) {
	t, ok := c.textures[id]
	if !ok {
		return TextureState{}, false
	}
	return *t, true
}

// Uniform returns the last value written to a named uniform of program.
func (c *Context) Uniform(program uint32, name string) (any, bool) {
	p, ok := c.programs[program]
	if !ok {
		return nil, false
	}
	loc, ok := p.locations[name]
	if !ok {
		return nil, false
	}
	v, ok := p.values[loc]
	return v, ok
}

// Misuse returns every invalid call recorded so far, in call order.
func (c *Context) Misuse() []string { return c.misuse }
