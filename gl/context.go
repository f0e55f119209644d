// Package gl defines the WebGL2-shaped graphics API that gltrace intercepts.
//
// Context mirrors the subset of WebGL2RenderingContext used by introductory
// graphics courses. Method names follow Go conventions (CreateBuffer for
// createBuffer) and handles are typed pointers embedding Object. A nil handle
// plays the role of WebGL's null.
//
// Implementations live in sub-packages:
//   - headless: in-memory bookkeeping context for tests and demos
//   - webgl: browser context over syscall/js (js && wasm only)
package gl

// Context is a stateful, object-creating graphics context.
//
// Contexts are not safe for concurrent use.
type Context interface {
	// Get reads a non-function property of the context, such as a constant
	// ("COLOR_BUFFER_BIT"), the canvas, or "drawingBufferWidth".
	// It returns nil for unknown properties.
	Get(name string) any

	ActiveTexture(texture Enum)
	AttachShader(program *Program, shader *Shader)
	BindBuffer(target Enum, buffer *Buffer)
	BindTexture(target Enum, texture *Texture)
	BindVertexArray(array *VertexArray)
	BlendFunc(sfactor, dfactor Enum)

	// BufferData uploads data, which is a numeric slice ([]float32,
	// []uint16, []uint8, ...) or nil.
	BufferData(target Enum, data any, usage Enum)

	Clear(mask Enum)
	ClearColor(r, g, b, a float32)
	CompileShader(shader *Shader)

	CreateBuffer() *Buffer
	CreateProgram() *Program
	CreateShader(shaderType Enum) *Shader
	CreateTexture() *Texture
	CreateVertexArray() *VertexArray

	DeleteBuffer(buffer *Buffer)
	DeleteProgram(program *Program)
	DeleteShader(shader *Shader)
	DeleteTexture(texture *Texture)
	DeleteVertexArray(array *VertexArray)

	Disable(capability Enum)
	DrawArrays(mode Enum, first, count int)
	DrawElements(mode Enum, count int, indexType Enum, offset int)
	Enable(capability Enum)
	EnableVertexAttribArray(index int)
	GenerateMipmap(target Enum)

	GetActiveUniform(program *Program, index int) *ActiveInfo
	GetAttribLocation(program *Program, name string) int
	GetError() Enum
	GetProgramInfoLog(program *Program) string
	GetProgramParameter(program *Program, pname Enum) any
	GetShaderInfoLog(shader *Shader) string
	GetShaderParameter(shader *Shader, pname Enum) any
	GetUniformLocation(program *Program, name string) *UniformLocation

	LinkProgram(program *Program)
	ShaderSource(shader *Shader, source string)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height, border int, format, pixelType Enum, pixels []byte)
	TexParameteri(target, pname Enum, param int)

	Uniform1f(location *UniformLocation, x float32)
	Uniform1i(location *UniformLocation, x int)
	Uniform3fv(location *UniformLocation, v []float32)
	Uniform4fv(location *UniformLocation, v []float32)
	UniformMatrix4fv(location *UniformLocation, transpose bool, v []float32)
	UseProgram(program *Program)

	VertexAttribPointer(index, size int, attribType Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}
