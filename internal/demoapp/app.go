// Package demoapp is a small WebGL2-style application used to exercise a
// tracing session: a lit octahedron with a moon orbiting it, textured with
// a checkerboard. It only talks to gl.Context, so it runs unchanged on the
// headless and the browser backends.
package demoapp

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gltrace/gl"
	"github.com/gogpu/gltrace/schedule"
)

var (
	// ErrCompile is returned when a shader fails to compile.
	ErrCompile = errors.New("demoapp: shader compilation failed")
	// ErrLink is returned when the program fails to link.
	ErrLink = errors.New("demoapp: program link failed")
)

// Scheduler requests animation frames. *schedule.Guard implements it.
type Scheduler interface {
	RequestAnimationFrame(cb schedule.FrameCallback) int
}

// Program is a linked program with its uniform locations by name.
type Program struct {
	*gl.Program
	Uniforms map[string]*gl.UniformLocation
}

// CompileProgram compiles vs and fs, links them and looks up every active
// uniform.
func CompileProgram(ctx gl.Context, vs, fs string) (*Program, error) {
	v, err := compileShader(ctx, gl.VERTEX_SHADER, vs)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}
	f, err := compileShader(ctx, gl.FRAGMENT_SHADER, fs)
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}

	p := ctx.CreateProgram()
	ctx.AttachShader(p, v)
	ctx.AttachShader(p, f)
	ctx.LinkProgram(p)
	if ok, _ := ctx.GetProgramParameter(p, gl.LINK_STATUS).(bool); !ok {
		return nil, fmt.Errorf("%w: %s", ErrLink, ctx.GetProgramInfoLog(p))
	}

	prog := &Program{Program: p, Uniforms: make(map[string]*gl.UniformLocation)}
	n := toInt(ctx.GetProgramParameter(p, gl.ACTIVE_UNIFORMS))
	for i := 0; i < n; i++ {
		info := ctx.GetActiveUniform(p, i)
		if info == nil {
			continue
		}
		prog.Uniforms[info.Name] = ctx.GetUniformLocation(p, info.Name)
	}
	return prog, nil
}

func compileShader(ctx gl.Context, kind gl.Enum, src string) (*gl.Shader, error) {
	s := ctx.CreateShader(kind)
	ctx.ShaderSource(s, src)
	ctx.CompileShader(s)
	if ok, _ := ctx.GetShaderParameter(s, gl.COMPILE_STATUS).(bool); !ok {
		return nil, fmt.Errorf("%w: %s", ErrCompile, ctx.GetShaderInfoLog(s))
	}
	return s, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case gl.Enum:
		return int(n)
	}
	return 0
}

// Mesh is an indexed triangle mesh uploaded to a vertex array.
type Mesh struct {
	Mode  gl.Enum
	Count int
	Type  gl.Enum
	VAO   *gl.VertexArray
}

// Geometry is CPU-side mesh data: one slice per attribute, each holding
// per-vertex tuples, and the triangle index list.
type Geometry struct {
	Attributes [][][]float32
	Triangles  [][3]uint16
}

// SetupGeometry uploads g into a new vertex array. Attribute i is bound to
// location locations[i]; a nil locations binds attribute i to location i.
func SetupGeometry(ctx gl.Context, g Geometry, locations []int) Mesh {
	vao := ctx.CreateVertexArray()
	ctx.BindVertexArray(vao)

	for i, attr := range g.Attributes {
		loc := i
		if locations != nil {
			loc = locations[i]
		}
		flat := make([]float32, 0, len(attr)*len(attr[0]))
		for _, v := range attr {
			flat = append(flat, v...)
		}
		buf := ctx.CreateBuffer()
		ctx.BindBuffer(gl.ARRAY_BUFFER, buf)
		ctx.BufferData(gl.ARRAY_BUFFER, flat, gl.STATIC_DRAW)
		ctx.VertexAttribPointer(loc, len(attr[0]), gl.FLOAT, false, 0, 0)
		ctx.EnableVertexAttribArray(loc)
	}

	indices := make([]uint16, 0, 3*len(g.Triangles))
	for _, t := range g.Triangles {
		indices = append(indices, t[0], t[1], t[2])
	}
	ebo := ctx.CreateBuffer()
	ctx.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	ctx.BufferData(gl.ELEMENT_ARRAY_BUFFER, indices, gl.STATIC_DRAW)

	return Mesh{Mode: gl.TRIANGLES, Count: len(indices), Type: gl.UNSIGNED_SHORT, VAO: vao}
}

// Octahedron returns a unit octahedron with flat per-vertex normals.
func Octahedron() Geometry {
	tips := [6][3]float32{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	faces := [8][3]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	var g Geometry
	g.Attributes = make([][][]float32, 2)
	for fi, f := range faces {
		a, b, c := tips[f[0]], tips[f[1]], tips[f[2]]
		n := [3]float32{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
		for _, p := range [][3]float32{a, b, c} {
			g.Attributes[0] = append(g.Attributes[0], []float32{p[0], p[1], p[2], 1})
			g.Attributes[1] = append(g.Attributes[1], []float32{n[0], n[1], n[2]})
		}
		base := uint16(3 * fi)
		g.Triangles = append(g.Triangles, [3]uint16{base, base + 1, base + 2})
	}
	return g
}

// Options configures an App.
type Options struct {
	Faults Faults
}

// App draws one frame per animation callback.
type App struct {
	ctx     gl.Context
	program *Program
	mesh    Mesh
	texture *gl.Texture
	width   int
	height  int
	sched   Scheduler
	frames  int
	limit   int
	stopped bool
}

// New compiles the shaders, uploads the mesh and texture, and sets the
// viewport from the context's canvas.
func New(ctx gl.Context, opts Options) (*App, error) {
	a := &App{ctx: ctx, width: 1, height: 1}
	if canvas, ok := ctx.Get("canvas").(*gl.Canvas); ok && canvas != nil {
		a.width, a.height = canvas.Width, canvas.Height
	}

	ctx.Enable(gl.DEPTH_TEST)
	ctx.Enable(gl.BLEND)
	ctx.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	ctx.Viewport(0, 0, a.width, a.height)

	prog, err := CompileProgram(ctx, VertexSource(opts.Faults), FragmentSource(opts.Faults))
	if err != nil {
		return nil, err
	}
	a.program = prog

	var locations []int
	if opts.Faults.AttribLookup {
		locations = []int{
			ctx.GetAttribLocation(prog.Program, "position"),
			ctx.GetAttribLocation(prog.Program, "normal"),
		}
	}
	a.mesh = SetupGeometry(ctx, Octahedron(), locations)
	a.texture = checkerboard(ctx, 0)

	ctx.UseProgram(prog.Program)
	ctx.Uniform1i(prog.Uniforms["image"], 0)
	return a, nil
}

// checkerboard creates a 2x2 black and white texture on the given unit.
func checkerboard(ctx gl.Context, unit int) *gl.Texture {
	tex := ctx.CreateTexture()
	ctx.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
	ctx.BindTexture(gl.TEXTURE_2D, tex)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int(gl.REPEAT))
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, int(gl.REPEAT))
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int(gl.NEAREST))
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int(gl.LINEAR))
	pixels := []byte{
		255, 255, 255, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 255, 255, 255, 255,
	}
	ctx.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 2, 2, 0, gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	ctx.GenerateMipmap(gl.TEXTURE_2D)
	return tex
}

// Program returns the compiled program.
func (a *App) Program() *Program { return a.program }

// Frames returns the number of frames drawn.
func (a *App) Frames() int { return a.frames }

// Draw renders the scene at the given time in milliseconds.
func (a *App) Draw(milliseconds float64) {
	ctx := a.ctx
	t := milliseconds / 1000

	ctx.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	ctx.UseProgram(a.program.Program)
	ctx.BindVertexArray(a.mesh.VAO)
	ctx.Uniform3fv(a.program.Uniforms["lightdir"], []float32{0.48, 0.64, 0.6})

	aspect := scale(float32(a.height)/float32(max(a.width, 1)), 1, 1)
	sun := aspect.mul(rotateZ(0.5 * t)).mul(scale(0.4, 0.4, 0.4))
	ctx.UniformMatrix4fv(a.program.Uniforms["uniMat"], false, sun[:])
	ctx.Uniform4fv(a.program.Uniforms["color"], []float32{1, 0.8, 0.2, 1})
	ctx.DrawElements(a.mesh.Mode, a.mesh.Count, a.mesh.Type, 0)

	orbit := float32(0.7)
	moon := aspect.
		mul(translate(orbit*float32(math.Cos(1.2*t)), orbit*float32(math.Sin(1.2*t)), 0)).
		mul(rotateZ(2 * t)).
		mul(scale(0.12, 0.12, 0.12))
	ctx.UniformMatrix4fv(a.program.Uniforms["uniMat"], false, moon[:])
	ctx.Uniform4fv(a.program.Uniforms["color"], []float32{0.6, 0.7, 1, 1})
	ctx.DrawElements(a.mesh.Mode, a.mesh.Count, a.mesh.Type, 0)

	a.frames++
}

// Start begins the animation loop on s. A limit above zero stops the loop
// after that many frames.
func (a *App) Start(s Scheduler, limit int) {
	a.sched = s
	a.limit = limit
	a.stopped = false
	s.RequestAnimationFrame(a.tick)
}

// Stop ends the animation loop after the current frame.
func (a *App) Stop() { a.stopped = true }

func (a *App) tick(milliseconds float64) {
	if a.stopped {
		return
	}
	a.Draw(milliseconds)
	if a.limit > 0 && a.frames >= a.limit {
		a.stopped = true
		return
	}
	a.sched.RequestAnimationFrame(a.tick)
}
