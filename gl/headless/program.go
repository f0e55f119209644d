package headless

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/gltrace/gl"
)

type shaderState struct {
	kind     gl.Enum
	source   string
	compiled bool
	log      string
}

type programState struct {
	shaders   []*gl.Shader
	linked    bool
	log       string
	uniforms  []gl.ActiveInfo
	inputs    map[string]int
	locations map[string]*gl.UniformLocation
	values    map[string][]float32
}

var (
	entryPoint  = regexp.MustCompile(`\bvoid\s+main\s*\(`)
	uniformDecl = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	inputDecl   = regexp.MustCompile(`(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?\bin\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*;`)
)

var uniformTypes = map[string]gl.Enum{
	"float":     gl.FLOAT,
	"int":       gl.INT,
	"bool":      gl.BOOL,
	"vec2":      gl.FLOAT_VEC2,
	"vec3":      gl.FLOAT_VEC3,
	"vec4":      gl.FLOAT_VEC4,
	"ivec2":     gl.INT_VEC2,
	"mat3":      gl.FLOAT_MAT3,
	"mat4":      gl.FLOAT_MAT4,
	"sampler2D": gl.SAMPLER_2D,
}

// CreateShader implements gl.Context. An unknown type yields nil and
// INVALID_ENUM.
func (c *Context) CreateShader(shaderType gl.Enum) *gl.Shader {
	if shaderType != gl.VERTEX_SHADER && shaderType != gl.FRAGMENT_SHADER {
		c.setError(gl.INVALID_ENUM)
		return nil
	}
	s := &gl.Shader{Object: gl.Object{ID: c.newID()}}
	c.shaders[s] = &shaderState{kind: shaderType}
	return s
}

// DeleteShader implements gl.Context.
func (c *Context) DeleteShader(shader *gl.Shader) {
	delete(c.shaders, shader)
}

func (c *Context) shader(s *gl.Shader) *shaderState {
	ss, ok := c.shaders[s]
	if !ok {
		c.setError(gl.INVALID_OPERATION)
		return nil
	}
	return ss
}

// ShaderSource implements gl.Context.
func (c *Context) ShaderSource(shader *gl.Shader, source string) {
	if ss := c.shader(shader); ss != nil {
		ss.source = source
	}
}

// CompileShader implements gl.Context.
func (c *Context) CompileShader(shader *gl.Shader) {
	ss := c.shader(shader)
	if ss == nil {
		return
	}
	ss.compiled = entryPoint.MatchString(ss.source)
	if ss.compiled {
		ss.log = ""
	} else {
		ss.log = "ERROR: 0:1: 'main' : missing entry point"
	}
}

// GetShaderParameter implements gl.Context.
func (c *Context) GetShaderParameter(shader *gl.Shader, pname gl.Enum) any {
	ss := c.shader(shader)
	if ss == nil {
		return nil
	}
	switch pname {
	case gl.COMPILE_STATUS:
		return ss.compiled
	case gl.SHADER_TYPE:
		return ss.kind
	case gl.DELETE_STATUS:
		return false
	}
	c.setError(gl.INVALID_ENUM)
	return nil
}

// GetShaderInfoLog implements gl.Context.
func (c *Context) GetShaderInfoLog(shader *gl.Shader) string {
	if ss := c.shader(shader); ss != nil {
		return ss.log
	}
	return ""
}

// CreateProgram implements gl.Context.
func (c *Context) CreateProgram() *gl.Program {
	p := &gl.Program{Object: gl.Object{ID: c.newID()}}
	c.programs[p] = &programState{}
	return p
}

// DeleteProgram implements gl.Context.
func (c *Context) DeleteProgram(program *gl.Program) {
	delete(c.programs, program)
	if c.program == program {
		c.program = nil
	}
}

func (c *Context) prog(p *gl.Program) *programState {
	ps, ok := c.programs[p]
	if !ok {
		c.setError(gl.INVALID_OPERATION)
		return nil
	}
	return ps
}

// AttachShader implements gl.Context.
func (c *Context) AttachShader(program *gl.Program, shader *gl.Shader) {
	ps := c.prog(program)
	ss := c.shader(shader)
	if ps == nil || ss == nil {
		return
	}
	for _, s := range ps.shaders {
		if s == shader || c.shaders[s].kind == ss.kind {
			c.setError(gl.INVALID_OPERATION)
			return
		}
	}
	ps.shaders = append(ps.shaders, shader)
}

// LinkProgram implements gl.Context. Linking succeeds when one compiled
// vertex shader and one compiled fragment shader are attached.
func (c *Context) LinkProgram(program *gl.Program) {
	ps := c.prog(program)
	if ps == nil {
		return
	}
	ps.linked = false
	ps.uniforms = nil
	ps.inputs = make(map[string]int)
	ps.locations = make(map[string]*gl.UniformLocation)
	ps.values = make(map[string][]float32)

	var vertex, fragment *shaderState
	for _, s := range ps.shaders {
		ss := c.shaders[s]
		if ss == nil {
			continue
		}
		switch ss.kind {
		case gl.VERTEX_SHADER:
			vertex = ss
		case gl.FRAGMENT_SHADER:
			fragment = ss
		}
	}
	switch {
	case vertex == nil || fragment == nil:
		ps.log = "error: program needs a vertex and a fragment shader"
		return
	case !vertex.compiled || !fragment.compiled:
		ps.log = "error: attached shader did not compile"
		return
	}

	seen := make(map[string]bool)
	for _, ss := range []*shaderState{vertex, fragment} {
		for _, m := range uniformDecl.FindAllStringSubmatch(ss.source, -1) {
			if seen[m[2]] {
				continue
			}
			seen[m[2]] = true
			size := 1
			if m[3] != "" {
				size, _ = strconv.Atoi(m[3])
			}
			ps.uniforms = append(ps.uniforms, gl.ActiveInfo{Name: m[2], Size: size, Type: uniformTypes[m[1]]})
		}
	}
	next := 0
	for _, m := range inputDecl.FindAllStringSubmatch(vertex.source, -1) {
		loc := next
		if m[1] != "" {
			loc, _ = strconv.Atoi(m[1])
		}
		ps.inputs[m[2]] = loc
		next = loc + 1
	}
	ps.linked = true
	ps.log = ""
}

// GetProgramParameter implements gl.Context.
func (c *Context) GetProgramParameter(program *gl.Program, pname gl.Enum) any {
	ps := c.prog(program)
	if ps == nil {
		return nil
	}
	switch pname {
	case gl.LINK_STATUS:
		return ps.linked
	case gl.ACTIVE_UNIFORMS:
		return len(ps.uniforms)
	case gl.ACTIVE_ATTRIBUTES:
		return len(ps.inputs)
	case gl.DELETE_STATUS:
		return false
	}
	c.setError(gl.INVALID_ENUM)
	return nil
}

// GetProgramInfoLog implements gl.Context.
func (c *Context) GetProgramInfoLog(program *gl.Program) string {
	if ps := c.prog(program); ps != nil {
		return ps.log
	}
	return ""
}

// GetActiveUniform implements gl.Context.
func (c *Context) GetActiveUniform(program *gl.Program, index int) *gl.ActiveInfo {
	ps := c.prog(program)
	if ps == nil {
		return nil
	}
	if index < 0 || index >= len(ps.uniforms) {
		c.setError(gl.INVALID_VALUE)
		return nil
	}
	info := ps.uniforms[index]
	return &info
}

// GetAttribLocation implements gl.Context.
func (c *Context) GetAttribLocation(program *gl.Program, name string) int {
	ps := c.prog(program)
	if ps == nil || !ps.linked {
		if ps != nil {
			c.setError(gl.INVALID_OPERATION)
		}
		return -1
	}
	if loc, ok := ps.inputs[name]; ok {
		return loc
	}
	return -1
}

// GetUniformLocation implements gl.Context. Unknown or inactive names
// return nil, as in WebGL. Repeated lookups return the same location.
func (c *Context) GetUniformLocation(program *gl.Program, name string) *gl.UniformLocation {
	ps := c.prog(program)
	if ps == nil {
		return nil
	}
	if !ps.linked {
		c.setError(gl.INVALID_OPERATION)
		return nil
	}
	if loc, ok := ps.locations[name]; ok {
		return loc
	}
	base, _, _ := strings.Cut(name, "[")
	for _, u := range ps.uniforms {
		if u.Name == base {
			loc := &gl.UniformLocation{Object: gl.Object{ID: c.newID(), Data: uniformRef{program: program, name: base}}}
			ps.locations[name] = loc
			return loc
		}
	}
	return nil
}

// UseProgram implements gl.Context.
func (c *Context) UseProgram(program *gl.Program) {
	if program == nil {
		c.program = nil
		return
	}
	ps := c.prog(program)
	if ps == nil {
		return
	}
	if !ps.linked {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	c.program = program
}
