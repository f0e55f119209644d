package gl

// Object is the identity shared by every handle a Context creates.
// Backends embed it as the first field of each handle type; tracing code
// keys side tables by the address of the embedded Object, so a handle must
// always be used through the pointer the backend returned.
type Object struct {
	// ID is the backend's name for the object (the GL "name").
	ID uint32

	// Data is an opaque backend payload, such as a js.Value.
	Data any
}

// Base returns the embedded object. It implements Handle.
func (o *Object) Base() *Object { return o }

// Handle is implemented by every object a Context hands out.
type Handle interface {
	Base() *Object
}

// Shader is a shader object returned by CreateShader.
type Shader struct{ Object }

// Program is a program object returned by CreateProgram.
type Program struct{ Object }

// Buffer is a buffer object returned by CreateBuffer.
type Buffer struct{ Object }

// VertexArray is a vertex array object returned by CreateVertexArray.
type VertexArray struct{ Object }

// Texture is a texture object returned by CreateTexture.
type Texture struct{ Object }

// UniformLocation identifies a uniform of a linked program.
type UniformLocation struct{ Object }

// Canvas is the drawing surface a context renders into. Contexts expose it
// through the "canvas" property.
type Canvas struct {
	Object
	Width  int
	Height int
}

// ActiveInfo describes an active uniform or attribute.
type ActiveInfo struct {
	Name string
	Size int
	Type Enum
}
