//go:build js && wasm

// Package webgl implements gl.Context over a browser WebGL2RenderingContext.
//
// Handles created through the context carry the underlying JavaScript object
// in their Data field.
package webgl

import (
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"syscall/js"

	"github.com/gogpu/gltrace/gl"
)

// Context forwards gl.Context calls to a WebGL2 context.
type Context struct {
	gl     js.Value
	canvas *gl.Canvas
	nextID uint32
}

var _ gl.Context = (*Context)(nil)

// New wraps a WebGL2RenderingContext value.
func New(ctx js.Value) (*Context, error) {
	if ctx.IsUndefined() || ctx.IsNull() {
		return nil, errors.New("webgl: a WebGL2 context is required")
	}
	c := &Context{gl: ctx}
	el := ctx.Get("canvas")
	c.canvas = &gl.Canvas{
		Object: gl.Object{ID: c.id(), Data: el},
		Width:  el.Get("width").Int(),
		Height: el.Get("height").Int(),
	}
	return c, nil
}

// FromCanvas looks up the canvas element with the given id and requests its
// "webgl2" context.
func FromCanvas(id string) (*Context, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, errors.New("webgl: no canvas with id " + id)
	}
	return New(el.Call("getContext", "webgl2"))
}

func (c *Context) id() uint32 {
	c.nextID++
	return c.nextID
}

func (c *Context) object(v js.Value) (gl.Object, bool) {
	if v.IsNull() || v.IsUndefined() {
		return gl.Object{}, false
	}
	return gl.Object{ID: c.id(), Data: v}, true
}

// value returns the JavaScript object behind h, or null.
func value(h gl.Handle) js.Value {
	if h == nil || reflect.ValueOf(h).IsNil() {
		return js.Null()
	}
	if v, ok := h.Base().Data.(js.Value); ok {
		return v
	}
	return js.Null()
}

func enum(e gl.Enum) int { return int(e) }

// Get reads a property of the WebGL context. Numbers come back as gl.Enum
// when they name a known constant, otherwise as float64.
func (c *Context) Get(name string) any {
	switch name {
	case "canvas":
		return c.canvas
	}
	v := c.gl.Get(name)
	switch v.Type() {
	case js.TypeNumber:
		if e, ok := gl.LookupConstant(name); ok {
			return e
		}
		return v.Float()
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeString:
		return v.String()
	case js.TypeNull, js.TypeUndefined:
		return nil
	}
	return v
}

func (c *Context) ActiveTexture(texture gl.Enum) { c.gl.Call("activeTexture", enum(texture)) }

func (c *Context) AttachShader(program *gl.Program, shader *gl.Shader) {
	c.gl.Call("attachShader", value(program), value(shader))
}

func (c *Context) BindBuffer(target gl.Enum, buffer *gl.Buffer) {
	c.gl.Call("bindBuffer", enum(target), value(buffer))
}

func (c *Context) BindTexture(target gl.Enum, texture *gl.Texture) {
	c.gl.Call("bindTexture", enum(target), value(texture))
}

func (c *Context) BindVertexArray(array *gl.VertexArray) {
	c.gl.Call("bindVertexArray", value(array))
}

func (c *Context) BlendFunc(sfactor, dfactor gl.Enum) {
	c.gl.Call("blendFunc", enum(sfactor), enum(dfactor))
}

// BufferData accepts []float32, []uint16, []uint32, []byte or a byte size.
func (c *Context) BufferData(target gl.Enum, data any, usage gl.Enum) {
	var arg any
	switch d := data.(type) {
	case int:
		arg = d
	case []float32:
		arg = float32Array(d)
	case []uint16:
		arg = uint16Array(d)
	case []uint32:
		arg = uint32Array(d)
	case []byte:
		arg = byteArray(d)
	default:
		arg = js.Null()
	}
	c.gl.Call("bufferData", enum(target), arg, enum(usage))
}

func (c *Context) Clear(mask gl.Enum) { c.gl.Call("clear", enum(mask)) }

func (c *Context) ClearColor(r, g, b, a float32) { c.gl.Call("clearColor", r, g, b, a) }

func (c *Context) CompileShader(shader *gl.Shader) { c.gl.Call("compileShader", value(shader)) }

func (c *Context) CreateBuffer() *gl.Buffer {
	if obj, ok := c.object(c.gl.Call("createBuffer")); ok {
		return &gl.Buffer{Object: obj}
	}
	return nil
}

func (c *Context) CreateProgram() *gl.Program {
	if obj, ok := c.object(c.gl.Call("createProgram")); ok {
		return &gl.Program{Object: obj}
	}
	return nil
}

func (c *Context) CreateShader(shaderType gl.Enum) *gl.Shader {
	if obj, ok := c.object(c.gl.Call("createShader", enum(shaderType))); ok {
		return &gl.Shader{Object: obj}
	}
	return nil
}

func (c *Context) CreateTexture() *gl.Texture {
	if obj, ok := c.object(c.gl.Call("createTexture")); ok {
		return &gl.Texture{Object: obj}
	}
	return nil
}

func (c *Context) CreateVertexArray() *gl.VertexArray {
	if obj, ok := c.object(c.gl.Call("createVertexArray")); ok {
		return &gl.VertexArray{Object: obj}
	}
	return nil
}

func (c *Context) DeleteBuffer(buffer *gl.Buffer) { c.gl.Call("deleteBuffer", value(buffer)) }

func (c *Context) DeleteProgram(program *gl.Program) { c.gl.Call("deleteProgram", value(program)) }

func (c *Context) DeleteShader(shader *gl.Shader) { c.gl.Call("deleteShader", value(shader)) }

func (c *Context) DeleteTexture(texture *gl.Texture) { c.gl.Call("deleteTexture", value(texture)) }

func (c *Context) DeleteVertexArray(array *gl.VertexArray) {
	c.gl.Call("deleteVertexArray", value(array))
}

func (c *Context) Disable(capability gl.Enum) { c.gl.Call("disable", enum(capability)) }

func (c *Context) DrawArrays(mode gl.Enum, first, count int) {
	c.gl.Call("drawArrays", enum(mode), first, count)
}

func (c *Context) DrawElements(mode gl.Enum, count int, indexType gl.Enum, offset int) {
	c.gl.Call("drawElements", enum(mode), count, enum(indexType), offset)
}

func (c *Context) Enable(capability gl.Enum) { c.gl.Call("enable", enum(capability)) }

func (c *Context) EnableVertexAttribArray(index int) { c.gl.Call("enableVertexAttribArray", index) }

func (c *Context) GenerateMipmap(target gl.Enum) { c.gl.Call("generateMipmap", enum(target)) }

func (c *Context) GetActiveUniform(program *gl.Program, index int) *gl.ActiveInfo {
	v := c.gl.Call("getActiveUniform", value(program), index)
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &gl.ActiveInfo{
		Name: v.Get("name").String(),
		Size: v.Get("size").Int(),
		Type: gl.Enum(v.Get("type").Int()),
	}
}

func (c *Context) GetAttribLocation(program *gl.Program, name string) int {
	return c.gl.Call("getAttribLocation", value(program), name).Int()
}

func (c *Context) GetError() gl.Enum { return gl.Enum(c.gl.Call("getError").Int()) }

func (c *Context) GetProgramInfoLog(program *gl.Program) string {
	return str(c.gl.Call("getProgramInfoLog", value(program)))
}

func (c *Context) GetProgramParameter(program *gl.Program, pname gl.Enum) any {
	return scalar(c.gl.Call("getProgramParameter", value(program), enum(pname)))
}

func (c *Context) GetShaderInfoLog(shader *gl.Shader) string {
	return str(c.gl.Call("getShaderInfoLog", value(shader)))
}

func (c *Context) GetShaderParameter(shader *gl.Shader, pname gl.Enum) any {
	return scalar(c.gl.Call("getShaderParameter", value(shader), enum(pname)))
}

func (c *Context) GetUniformLocation(program *gl.Program, name string) *gl.UniformLocation {
	if obj, ok := c.object(c.gl.Call("getUniformLocation", value(program), name)); ok {
		return &gl.UniformLocation{Object: obj}
	}
	return nil
}

func (c *Context) LinkProgram(program *gl.Program) { c.gl.Call("linkProgram", value(program)) }

func (c *Context) ShaderSource(shader *gl.Shader, source string) {
	c.gl.Call("shaderSource", value(shader), source)
}

func (c *Context) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height, border int, format, pixelType gl.Enum, pixels []byte) {
	var data js.Value
	if pixels == nil {
		data = js.Null()
	} else {
		data = byteArray(pixels)
	}
	c.gl.Call("texImage2D", enum(target), level, enum(internalFormat), width, height, border,
		enum(format), enum(pixelType), data)
}

func (c *Context) TexParameteri(target, pname gl.Enum, param int) {
	c.gl.Call("texParameteri", enum(target), enum(pname), param)
}

func (c *Context) Uniform1f(location *gl.UniformLocation, x float32) {
	c.gl.Call("uniform1f", value(location), x)
}

func (c *Context) Uniform1i(location *gl.UniformLocation, x int) {
	c.gl.Call("uniform1i", value(location), x)
}

func (c *Context) Uniform3fv(location *gl.UniformLocation, v []float32) {
	c.gl.Call("uniform3fv", value(location), float32Array(v))
}

func (c *Context) Uniform4fv(location *gl.UniformLocation, v []float32) {
	c.gl.Call("uniform4fv", value(location), float32Array(v))
}

func (c *Context) UniformMatrix4fv(location *gl.UniformLocation, transpose bool, v []float32) {
	c.gl.Call("uniformMatrix4fv", value(location), transpose, float32Array(v))
}

func (c *Context) UseProgram(program *gl.Program) { c.gl.Call("useProgram", value(program)) }

func (c *Context) VertexAttribPointer(index, size int, attribType gl.Enum, normalized bool, stride, offset int) {
	c.gl.Call("vertexAttribPointer", index, size, enum(attribType), normalized, stride, offset)
}

func (c *Context) Viewport(x, y, width, height int) { c.gl.Call("viewport", x, y, width, height) }

func str(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func scalar(v js.Value) any {
	switch v.Type() {
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNumber:
		return v.Int()
	case js.TypeString:
		return v.String()
	}
	return nil
}

func byteArray(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// view reinterprets the little-endian bytes of b as a typed array.
func view(ctor string, b []byte) js.Value {
	u8 := byteArray(b)
	return js.Global().Get(ctor).New(u8.Get("buffer"))
}

func float32Array(v []float32) js.Value {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return view("Float32Array", b)
}

func uint16Array(v []uint16) js.Value {
	b := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(b[2*i:], x)
	}
	return view("Uint16Array", b)
}

func uint32Array(v []uint32) js.Value {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[4*i:], x)
	}
	return view("Uint32Array", b)
}
