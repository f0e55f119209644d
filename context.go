package gltrace

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gltrace/gl"
)

// Context is a gl.Context that records every call in its Session before
// forwarding it to the wrapped context. Results, panics and side effects of
// the wrapped context pass through unchanged.
type Context struct {
	real    gl.Context
	session *Session
}

var _ gl.Context = (*Context)(nil)

// Wrap returns a tracing stand-in for real with a fresh Session.
//
// Example:
//
//	ctx := gltrace.Wrap(headless.New(800, 600))
//	app.Run(ctx)
//	for _, frame := range ctx.Session().Traces() {
//	    fmt.Println(strings.Join(frame, "\n"))
//	}
func Wrap(real gl.Context, opts ...Option) *Context {
	if real == nil {
		panic("gltrace: Wrap called with nil context")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Context{real: real, session: newSession(o)}
	c.session.logger.Info("wrapping context", slog.String("type", fmt.Sprintf("%T", real)))
	for _, name := range o.constants {
		c.Get(name)
	}
	return c
}

// Session returns the tracing session of c.
func (c *Context) Session() *Session { return c.session }

// Unwrap returns the wrapped context.
func (c *Context) Unwrap() gl.Context { return c.real }

// call intercepts a call that returns a value.
func call[T any](s *Session, name string, args []any, fn func() T) T {
	var out T
	s.intercept(name, args, func() (any, bool) {
		out = fn()
		return out, true
	})
	return out
}

// do intercepts a call without a result.
func do(s *Session, name string, args []any, fn func()) {
	s.intercept(name, args, func() (any, bool) {
		fn()
		return nil, false
	})
}

// Get reads a property of the wrapped context and names its value.
func (c *Context) Get(name string) any {
	v := c.real.Get(name)
	c.session.observe(name, v)
	return v
}

func (c *Context) ActiveTexture(texture gl.Enum) {
	do(c.session, "ActiveTexture", []any{texture}, func() { c.real.ActiveTexture(texture) })
}

func (c *Context) AttachShader(program *gl.Program, shader *gl.Shader) {
	do(c.session, "AttachShader", []any{program, shader}, func() { c.real.AttachShader(program, shader) })
}

func (c *Context) BindBuffer(target gl.Enum, buffer *gl.Buffer) {
	do(c.session, "BindBuffer", []any{target, buffer}, func() { c.real.BindBuffer(target, buffer) })
}

func (c *Context) BindTexture(target gl.Enum, texture *gl.Texture) {
	do(c.session, "BindTexture", []any{target, texture}, func() { c.real.BindTexture(target, texture) })
}

func (c *Context) BindVertexArray(array *gl.VertexArray) {
	do(c.session, "BindVertexArray", []any{array}, func() { c.real.BindVertexArray(array) })
}

func (c *Context) BlendFunc(sfactor, dfactor gl.Enum) {
	do(c.session, "BlendFunc", []any{sfactor, dfactor}, func() { c.real.BlendFunc(sfactor, dfactor) })
}

func (c *Context) BufferData(target gl.Enum, data any, usage gl.Enum) {
	do(c.session, "BufferData", []any{target, data, usage}, func() { c.real.BufferData(target, data, usage) })
}

func (c *Context) Clear(mask gl.Enum) {
	do(c.session, "Clear", []any{mask}, func() { c.real.Clear(mask) })
}

func (c *Context) ClearColor(r, g, b, a float32) {
	do(c.session, "ClearColor", []any{r, g, b, a}, func() { c.real.ClearColor(r, g, b, a) })
}

func (c *Context) CompileShader(shader *gl.Shader) {
	do(c.session, "CompileShader", []any{shader}, func() { c.real.CompileShader(shader) })
}

func (c *Context) CreateBuffer() *gl.Buffer {
	return call(c.session, "CreateBuffer", nil, c.real.CreateBuffer)
}

func (c *Context) CreateProgram() *gl.Program {
	return call(c.session, "CreateProgram", nil, c.real.CreateProgram)
}

func (c *Context) CreateShader(shaderType gl.Enum) *gl.Shader {
	return call(c.session, "CreateShader", []any{shaderType}, func() *gl.Shader { return c.real.CreateShader(shaderType) })
}

func (c *Context) CreateTexture() *gl.Texture {
	return call(c.session, "CreateTexture", nil, c.real.CreateTexture)
}

func (c *Context) CreateVertexArray() *gl.VertexArray {
	return call(c.session, "CreateVertexArray", nil, c.real.CreateVertexArray)
}

func (c *Context) DeleteBuffer(buffer *gl.Buffer) {
	do(c.session, "DeleteBuffer", []any{buffer}, func() { c.real.DeleteBuffer(buffer) })
}

func (c *Context) DeleteProgram(program *gl.Program) {
	do(c.session, "DeleteProgram", []any{program}, func() { c.real.DeleteProgram(program) })
}

func (c *Context) DeleteShader(shader *gl.Shader) {
	do(c.session, "DeleteShader", []any{shader}, func() { c.real.DeleteShader(shader) })
}

func (c *Context) DeleteTexture(texture *gl.Texture) {
	do(c.session, "DeleteTexture", []any{texture}, func() { c.real.DeleteTexture(texture) })
}

func (c *Context) DeleteVertexArray(array *gl.VertexArray) {
	do(c.session, "DeleteVertexArray", []any{array}, func() { c.real.DeleteVertexArray(array) })
}

func (c *Context) Disable(capability gl.Enum) {
	do(c.session, "Disable", []any{capability}, func() { c.real.Disable(capability) })
}

func (c *Context) DrawArrays(mode gl.Enum, first, count int) {
	do(c.session, "DrawArrays", []any{mode, first, count}, func() { c.real.DrawArrays(mode, first, count) })
}

func (c *Context) DrawElements(mode gl.Enum, count int, indexType gl.Enum, offset int) {
	do(c.session, "DrawElements", []any{mode, count, indexType, offset}, func() {
		c.real.DrawElements(mode, count, indexType, offset)
	})
}

func (c *Context) Enable(capability gl.Enum) {
	do(c.session, "Enable", []any{capability}, func() { c.real.Enable(capability) })
}

func (c *Context) EnableVertexAttribArray(index int) {
	do(c.session, "EnableVertexAttribArray", []any{index}, func() { c.real.EnableVertexAttribArray(index) })
}

func (c *Context) GenerateMipmap(target gl.Enum) {
	do(c.session, "GenerateMipmap", []any{target}, func() { c.real.GenerateMipmap(target) })
}

func (c *Context) GetActiveUniform(program *gl.Program, index int) *gl.ActiveInfo {
	return call(c.session, "GetActiveUniform", []any{program, index}, func() *gl.ActiveInfo {
		return c.real.GetActiveUniform(program, index)
	})
}

func (c *Context) GetAttribLocation(program *gl.Program, name string) int {
	return call(c.session, "GetAttribLocation", []any{program, name}, func() int {
		return c.real.GetAttribLocation(program, name)
	})
}

func (c *Context) GetError() gl.Enum {
	return call(c.session, "GetError", nil, c.real.GetError)
}

func (c *Context) GetProgramInfoLog(program *gl.Program) string {
	return call(c.session, "GetProgramInfoLog", []any{program}, func() string { return c.real.GetProgramInfoLog(program) })
}

func (c *Context) GetProgramParameter(program *gl.Program, pname gl.Enum) any {
	return call(c.session, "GetProgramParameter", []any{program, pname}, func() any {
		return c.real.GetProgramParameter(program, pname)
	})
}

func (c *Context) GetShaderInfoLog(shader *gl.Shader) string {
	return call(c.session, "GetShaderInfoLog", []any{shader}, func() string { return c.real.GetShaderInfoLog(shader) })
}

func (c *Context) GetShaderParameter(shader *gl.Shader, pname gl.Enum) any {
	return call(c.session, "GetShaderParameter", []any{shader, pname}, func() any {
		return c.real.GetShaderParameter(shader, pname)
	})
}

func (c *Context) GetUniformLocation(program *gl.Program, name string) *gl.UniformLocation {
	return call(c.session, "GetUniformLocation", []any{program, name}, func() *gl.UniformLocation {
		return c.real.GetUniformLocation(program, name)
	})
}

func (c *Context) LinkProgram(program *gl.Program) {
	do(c.session, "LinkProgram", []any{program}, func() { c.real.LinkProgram(program) })
}

func (c *Context) ShaderSource(shader *gl.Shader, source string) {
	do(c.session, "ShaderSource", []any{shader, source}, func() { c.real.ShaderSource(shader, source) })
}

func (c *Context) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height, border int, format, pixelType gl.Enum, pixels []byte) {
	args := []any{target, level, internalFormat, width, height, border, format, pixelType, pixels}
	do(c.session, "TexImage2D", args, func() {
		c.real.TexImage2D(target, level, internalFormat, width, height, border, format, pixelType, pixels)
	})
}

func (c *Context) TexParameteri(target, pname gl.Enum, param int) {
	do(c.session, "TexParameteri", []any{target, pname, param}, func() { c.real.TexParameteri(target, pname, param) })
}

func (c *Context) Uniform1f(location *gl.UniformLocation, x float32) {
	do(c.session, "Uniform1f", []any{location, x}, func() { c.real.Uniform1f(location, x) })
}

func (c *Context) Uniform1i(location *gl.UniformLocation, x int) {
	do(c.session, "Uniform1i", []any{location, x}, func() { c.real.Uniform1i(location, x) })
}

func (c *Context) Uniform3fv(location *gl.UniformLocation, v []float32) {
	do(c.session, "Uniform3fv", []any{location, v}, func() { c.real.Uniform3fv(location, v) })
}

func (c *Context) Uniform4fv(location *gl.UniformLocation, v []float32) {
	do(c.session, "Uniform4fv", []any{location, v}, func() { c.real.Uniform4fv(location, v) })
}

func (c *Context) UniformMatrix4fv(location *gl.UniformLocation, transpose bool, v []float32) {
	do(c.session, "UniformMatrix4fv", []any{location, transpose, v}, func() {
		c.real.UniformMatrix4fv(location, transpose, v)
	})
}

func (c *Context) UseProgram(program *gl.Program) {
	do(c.session, "UseProgram", []any{program}, func() { c.real.UseProgram(program) })
}

func (c *Context) VertexAttribPointer(index, size int, attribType gl.Enum, normalized bool, stride, offset int) {
	do(c.session, "VertexAttribPointer", []any{index, size, attribType, normalized, stride, offset}, func() {
		c.real.VertexAttribPointer(index, size, attribType, normalized, stride, offset)
	})
}

func (c *Context) Viewport(x, y, width, height int) {
	do(c.session, "Viewport", []any{x, y, width, height}, func() { c.real.Viewport(x, y, width, height) })
}
