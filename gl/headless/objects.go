package headless

import (
	"reflect"

	"github.com/gogpu/gltrace/gl"
)

type bufferState struct {
	target gl.Enum
	size   int
	usage  gl.Enum
}

type arrayState struct {
	elements *gl.Buffer
	enabled  map[int]bool
	pointers map[int]*gl.Buffer
}

func newArrayState() *arrayState {
	return &arrayState{
		enabled:  make(map[int]bool),
		pointers: make(map[int]*gl.Buffer),
	}
}

type textureState struct {
	target   gl.Enum
	width    int
	height   int
	params   map[gl.Enum]int
	mipmaps  bool
	hasImage bool
}

// CreateBuffer implements gl.Context.
func (c *Context) CreateBuffer() *gl.Buffer {
	b := &gl.Buffer{Object: gl.Object{ID: c.newID()}}
	c.buffers[b] = &bufferState{}
	return b
}

// DeleteBuffer implements gl.Context.
func (c *Context) DeleteBuffer(buffer *gl.Buffer) {
	if buffer == nil {
		return
	}
	delete(c.buffers, buffer)
	if c.arrayBuffer == buffer {
		c.arrayBuffer = nil
	}
	if c.array.elements == buffer {
		c.array.elements = nil
	}
}

// BindBuffer implements gl.Context.
func (c *Context) BindBuffer(target gl.Enum, buffer *gl.Buffer) {
	if buffer != nil {
		bs, ok := c.buffers[buffer]
		if !ok {
			c.setError(gl.INVALID_OPERATION)
			return
		}
		if bs.target != 0 && bs.target != target {
			c.setError(gl.INVALID_OPERATION)
			return
		}
		bs.target = target
	}
	switch target {
	case gl.ARRAY_BUFFER:
		c.arrayBuffer = buffer
	case gl.ELEMENT_ARRAY_BUFFER:
		c.array.elements = buffer
	default:
		c.setError(gl.INVALID_ENUM)
	}
}

// BufferData implements gl.Context.
func (c *Context) BufferData(target gl.Enum, data any, usage gl.Enum) {
	var bound *gl.Buffer
	switch target {
	case gl.ARRAY_BUFFER:
		bound = c.arrayBuffer
	case gl.ELEMENT_ARRAY_BUFFER:
		bound = c.array.elements
	default:
		c.setError(gl.INVALID_ENUM)
		return
	}
	if bound == nil {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	switch usage {
	case gl.STATIC_DRAW, gl.DYNAMIC_DRAW, gl.STREAM_DRAW:
	default:
		c.setError(gl.INVALID_ENUM)
		return
	}
	bs := c.buffers[bound]
	bs.size = byteSize(data)
	bs.usage = usage
}

// byteSize returns the size in bytes of a numeric slice, or 0.
func byteSize(data any) int {
	if data == nil {
		return 0
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice {
		return 0
	}
	return rv.Len() * int(rv.Type().Elem().Size())
}

// CreateVertexArray implements gl.Context.
func (c *Context) CreateVertexArray() *gl.VertexArray {
	v := &gl.VertexArray{Object: gl.Object{ID: c.newID()}}
	c.arrays[v] = newArrayState()
	return v
}

// DeleteVertexArray implements gl.Context.
func (c *Context) DeleteVertexArray(array *gl.VertexArray) {
	as, ok := c.arrays[array]
	if !ok {
		return
	}
	if c.array == as {
		c.array = c.defaultArray
	}
	delete(c.arrays, array)
}

// BindVertexArray implements gl.Context.
func (c *Context) BindVertexArray(array *gl.VertexArray) {
	if array == nil {
		c.array = c.defaultArray
		return
	}
	as, ok := c.arrays[array]
	if !ok {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	c.array = as
}

// EnableVertexAttribArray implements gl.Context.
func (c *Context) EnableVertexAttribArray(index int) {
	if index < 0 || index >= maxVertexAttribs {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.array.enabled[index] = true
}

// VertexAttribPointer implements gl.Context.
func (c *Context) VertexAttribPointer(index, size int, attribType gl.Enum, normalized bool, stride, offset int) {
	if index < 0 || index >= maxVertexAttribs || size < 1 || size > 4 || stride < 0 || offset < 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	if c.arrayBuffer == nil && offset != 0 {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	c.array.pointers[index] = c.arrayBuffer
}

const maxVertexAttribs = 16

// CreateTexture implements gl.Context.
func (c *Context) CreateTexture() *gl.Texture {
	t := &gl.Texture{Object: gl.Object{ID: c.newID()}}
	c.textures[t] = &textureState{params: make(map[gl.Enum]int)}
	return t
}

// DeleteTexture implements gl.Context.
func (c *Context) DeleteTexture(texture *gl.Texture) {
	delete(c.textures, texture)
	for unit, bound := range c.boundTextures {
		if bound == texture {
			delete(c.boundTextures, unit)
		}
	}
}

// ActiveTexture implements gl.Context.
func (c *Context) ActiveTexture(texture gl.Enum) {
	if texture < gl.TEXTURE0 || texture >= gl.TEXTURE0+32 {
		c.setError(gl.INVALID_ENUM)
		return
	}
	c.activeTexture = texture
}

// BindTexture implements gl.Context.
func (c *Context) BindTexture(target gl.Enum, texture *gl.Texture) {
	if target != gl.TEXTURE_2D {
		c.setError(gl.INVALID_ENUM)
		return
	}
	if texture == nil {
		delete(c.boundTextures, c.activeTexture)
		return
	}
	ts, ok := c.textures[texture]
	if !ok {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	ts.target = target
	c.boundTextures[c.activeTexture] = texture
}

func (c *Context) boundTexture(target gl.Enum) *textureState {
	if target != gl.TEXTURE_2D {
		c.setError(gl.INVALID_ENUM)
		return nil
	}
	t := c.boundTextures[c.activeTexture]
	if t == nil {
		c.setError(gl.INVALID_OPERATION)
		return nil
	}
	return c.textures[t]
}

// TexImage2D implements gl.Context.
func (c *Context) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height, border int, format, pixelType gl.Enum, pixels []byte) {
	ts := c.boundTexture(target)
	if ts == nil {
		return
	}
	if level < 0 || width < 0 || height < 0 || border != 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	if pixels != nil && pixelType == gl.UNSIGNED_BYTE && format == gl.RGBA && len(pixels) < width*height*4 {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	if level == 0 {
		ts.width, ts.height = width, height
	}
	ts.hasImage = true
}

// TexParameteri implements gl.Context.
func (c *Context) TexParameteri(target, pname gl.Enum, param int) {
	ts := c.boundTexture(target)
	if ts == nil {
		return
	}
	switch pname {
	case gl.TEXTURE_MAG_FILTER, gl.TEXTURE_MIN_FILTER, gl.TEXTURE_WRAP_S, gl.TEXTURE_WRAP_T:
		ts.params[pname] = param
	default:
		c.setError(gl.INVALID_ENUM)
	}
}

// GenerateMipmap implements gl.Context.
func (c *Context) GenerateMipmap(target gl.Enum) {
	ts := c.boundTexture(target)
	if ts == nil {
		return
	}
	if !ts.hasImage {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	ts.mipmaps = true
}
