// Package headless provides an in-memory gl.Context.
//
// The context rasterizes nothing. It allocates handles, tracks bindings,
// shader sources, link results and uniform values, and reports misuse
// through GetError the way a WebGL2 implementation would. It is the real
// delegate for tests and for the gltrace demo command.
//
// Shader "compilation" only checks for an entry point; linking collects the
// uniform and input declarations of the attached shaders.
package headless

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/gogpu/gltrace/gl"
)

// Stats counts work submitted to a Context.
type Stats struct {
	Clears   int
	Draws    int
	Vertices int
}

// Context is an in-memory gl.Context. It is not safe for concurrent use.
type Context struct {
	canvas  *gl.Canvas
	nextID  int
	err     gl.Enum
	stats   Stats
	enabled map[gl.Enum]bool

	shaders  map[*gl.Shader]*shaderState
	programs map[*gl.Program]*programState
	buffers  map[*gl.Buffer]*bufferState
	arrays   map[*gl.VertexArray]*arrayState
	textures map[*gl.Texture]*textureState

	defaultArray  *arrayState
	array         *arrayState
	arrayBuffer   *gl.Buffer
	program       *gl.Program
	activeTexture gl.Enum
	boundTextures map[gl.Enum]*gl.Texture

	clearColor [4]float32
	viewport   [4]int
	blend      [2]gl.Enum
}

var _ gl.Context = (*Context)(nil)

// New creates a context drawing into a width×height canvas.
func New(width, height int) *Context {
	c := &Context{
		enabled:       make(map[gl.Enum]bool),
		shaders:       make(map[*gl.Shader]*shaderState),
		programs:      make(map[*gl.Program]*programState),
		buffers:       make(map[*gl.Buffer]*bufferState),
		arrays:        make(map[*gl.VertexArray]*arrayState),
		textures:      make(map[*gl.Texture]*textureState),
		defaultArray:  newArrayState(),
		activeTexture: gl.TEXTURE0,
		boundTextures: make(map[gl.Enum]*gl.Texture),
		viewport:      [4]int{0, 0, width, height},
		blend:         [2]gl.Enum{gl.ONE, gl.ZERO},
	}
	c.array = c.defaultArray
	c.canvas = &gl.Canvas{Object: gl.Object{ID: c.newID()}, Width: width, Height: height}
	return c
}

// newID allocates the next object name. Names start at 1.
func (c *Context) newID() uint32 {
	c.nextID++
	id, err := safecast.Conv[uint32](c.nextID)
	if err != nil {
		panic(fmt.Sprintf("headless: object name space exhausted: %v", err))
	}
	return id
}

// setError records err unless an earlier error is still pending, matching
// GL's sticky error flag.
func (c *Context) setError(err gl.Enum) {
	if c.err == gl.NO_ERROR {
		c.err = err
	}
}

// Stats returns counters of submitted work.
func (c *Context) Stats() Stats { return c.stats }

// Objects returns the number of live (created, not deleted) objects.
func (c *Context) Objects() int {
	return len(c.shaders) + len(c.programs) + len(c.buffers) + len(c.arrays) + len(c.textures)
}

// CurrentProgram returns the program installed by UseProgram.
func (c *Context) CurrentProgram() *gl.Program { return c.program }

// IsEnabled reports whether a capability was enabled.
func (c *Context) IsEnabled(capability gl.Enum) bool { return c.enabled[capability] }

// UniformValue returns the last value uploaded to the named uniform of p.
func (c *Context) UniformValue(p *gl.Program, name string) ([]float32, bool) {
	ps, ok := c.programs[p]
	if !ok {
		return nil, false
	}
	v, ok := ps.values[name]
	return v, ok
}

// Get implements gl.Context.
func (c *Context) Get(name string) any {
	switch name {
	case "canvas":
		return c.canvas
	case "drawingBufferWidth":
		return c.canvas.Width
	case "drawingBufferHeight":
		return c.canvas.Height
	}
	if v, ok := gl.LookupConstant(name); ok {
		return v
	}
	return nil
}

// GetError returns and clears the pending error.
func (c *Context) GetError() gl.Enum {
	err := c.err
	c.err = gl.NO_ERROR
	return err
}

func (c *Context) Enable(capability gl.Enum) { c.enabled[capability] = true }

func (c *Context) Disable(capability gl.Enum) { delete(c.enabled, capability) }

func (c *Context) BlendFunc(sfactor, dfactor gl.Enum) { c.blend = [2]gl.Enum{sfactor, dfactor} }

func (c *Context) ClearColor(r, g, b, a float32) { c.clearColor = [4]float32{r, g, b, a} }

func (c *Context) Viewport(x, y, width, height int) {
	if width < 0 || height < 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.viewport = [4]int{x, y, width, height}
}

// Clear implements gl.Context.
func (c *Context) Clear(mask gl.Enum) {
	if mask&^(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT) != 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.stats.Clears++
}

// DrawArrays implements gl.Context.
func (c *Context) DrawArrays(mode gl.Enum, first, count int) {
	if first < 0 || count < 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	if !c.canDraw(mode) {
		return
	}
	c.stats.Draws++
	c.stats.Vertices += count
}

// DrawElements implements gl.Context.
func (c *Context) DrawElements(mode gl.Enum, count int, indexType gl.Enum, offset int) {
	if count < 0 || offset < 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	switch indexType {
	case gl.UNSIGNED_BYTE, gl.UNSIGNED_SHORT, gl.UNSIGNED_INT:
	default:
		c.setError(gl.INVALID_ENUM)
		return
	}
	if c.array.elements == nil {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	if !c.canDraw(mode) {
		return
	}
	c.stats.Draws++
	c.stats.Vertices += count
}

func (c *Context) canDraw(mode gl.Enum) bool {
	if mode > gl.TRIANGLE_FAN {
		c.setError(gl.INVALID_ENUM)
		return false
	}
	if c.program == nil || !c.programs[c.program].linked {
		c.setError(gl.INVALID_OPERATION)
		return false
	}
	return true
}
