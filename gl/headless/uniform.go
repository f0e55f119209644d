package headless

import "github.com/gogpu/gltrace/gl"

// uniformRef is the payload of a headless UniformLocation.
type uniformRef struct {
	program *gl.Program
	name    string
}

// setUniform stores v for location in the current program. A nil location
// is silently ignored, as in WebGL.
func (c *Context) setUniform(location *gl.UniformLocation, v []float32) {
	if location == nil {
		return
	}
	ref, ok := location.Data.(uniformRef)
	if !ok || c.program == nil || ref.program != c.program {
		c.setError(gl.INVALID_OPERATION)
		return
	}
	ps := c.programs[c.program]
	ps.values[ref.name] = append([]float32(nil), v...)
}

func (c *Context) Uniform1f(location *gl.UniformLocation, x float32) {
	c.setUniform(location, []float32{x})
}

func (c *Context) Uniform1i(location *gl.UniformLocation, x int) {
	c.setUniform(location, []float32{float32(x)})
}

func (c *Context) Uniform3fv(location *gl.UniformLocation, v []float32) {
	if len(v) == 0 || len(v)%3 != 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.setUniform(location, v)
}

func (c *Context) Uniform4fv(location *gl.UniformLocation, v []float32) {
	if len(v) == 0 || len(v)%4 != 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.setUniform(location, v)
}

func (c *Context) UniformMatrix4fv(location *gl.UniformLocation, transpose bool, v []float32) {
	if transpose || len(v) == 0 || len(v)%16 != 0 {
		c.setError(gl.INVALID_VALUE)
		return
	}
	c.setUniform(location, v)
}
