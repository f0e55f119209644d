package callfmt

import (
	"strings"
	"testing"

	"github.com/gogpu/gltrace/gl"
	"github.com/gogpu/gltrace/internal/symbols"
)

func newFormatter() *Formatter {
	return &Formatter{
		Symbols: symbols.NewRegistry(),
		Prefix:  "gl.",
		ShowNumbers: func(name string, _ int) bool {
			return name == "VertexAttribPointer" || strings.Contains(name, "Draw")
		},
	}
}

type point struct{ X, Y float64 }

func TestFormatArguments(t *testing.T) {
	f := newFormatter()
	buf := &gl.Buffer{Object: gl.Object{ID: 1}}
	f.Symbols.Bind(buf, "Buffer#1")
	f.Symbols.SetConstant(gl.ARRAY_BUFFER, "gl.ARRAY_BUFFER")
	f.Symbols.SeedConstant(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT, "gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT")

	unnamed := &gl.Buffer{Object: gl.Object{ID: 2}}
	var nilProgram *gl.Program

	tests := []struct {
		name string
		fn   string
		args []any
		want string
	}{
		{"no args", "CreateBuffer", nil, "gl.CreateBuffer()"},
		{"handle and constant", "BindBuffer", []any{gl.ARRAY_BUFFER, buf}, "gl.BindBuffer(gl.ARRAY_BUFFER, Buffer#1)"},
		{"seeded combination", "Clear", []any{gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT}, "gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)"},
		{"unknown enum is num", "Enable", []any{gl.DEPTH_TEST}, "gl.Enable(num)"},
		{"floats are num", "ClearColor", []any{float32(0), float32(0.5), float32(1), float32(1)}, "gl.ClearColor(num, num, num, num)"},
		{"draw shows numbers", "DrawArrays", []any{gl.TRIANGLES, 0, 3}, "gl.DrawArrays(4, 0, 3)"},
		{"slice", "BufferData", []any{gl.ARRAY_BUFFER, []float32{1, 2, 3}, gl.STATIC_DRAW}, "gl.BufferData(gl.ARRAY_BUFFER, float32[3], num)"},
		{"bytes", "TexImage2D", []any{make([]byte, 16)}, "gl.TexImage2D(uint8[16])"},
		{"string", "ShaderSource", []any{"a\nb"}, `gl.ShaderSource("a\nb")`},
		{"bool", "UniformMatrix4fv", []any{false}, "gl.UniformMatrix4fv(false)"},
		{"unregistered handle", "BindBuffer", []any{unnamed}, "gl.BindBuffer(Buffer)"},
		{"nil handle", "UseProgram", []any{nilProgram}, "gl.UseProgram(null)"},
		{"untyped nil", "BufferData", []any{nil}, "gl.BufferData(null)"},
		{"struct", "Custom", []any{point{1, 2}}, "gl.Custom(point)"},
		{"array", "Custom", []any{[4]float32{}}, "gl.Custom(float32[4])"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Format(tt.fn, tt.args); got != tt.want {
				t.Errorf("Format() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	f := newFormatter()
	args := []any{gl.ELEMENT_ARRAY_BUFFER, []uint16{0, 1, 2}, gl.STATIC_DRAW}
	a := f.Format("BufferData", args)
	b := f.Format("BufferData", args)
	if a != b {
		t.Errorf("Format() not deterministic: %s vs %s", a, b)
	}
}

func TestFormatHandleBeforeConstant(t *testing.T) {
	f := newFormatter()
	s := &gl.Shader{Object: gl.Object{ID: 4}}
	f.Symbols.Bind(s, "Shader#1")
	if got := f.Arg("CompileShader", 0, s); got != "Shader#1" {
		t.Errorf("Arg() = %q, want Shader#1", got)
	}
}

func TestIsNull(t *testing.T) {
	var p *gl.Program
	var s []float32
	tests := []struct {
		x    any
		want bool
	}{
		{nil, true},
		{p, true},
		{s, true},
		{[]float32{}, false},
		{0, false},
		{"", false},
		{&gl.Program{}, false},
	}
	for _, tt := range tests {
		if got := IsNull(tt.x); got != tt.want {
			t.Errorf("IsNull(%#v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
