package demoapp

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gltrace/gl"
	"github.com/gogpu/gltrace/gl/headless"
	"github.com/gogpu/gltrace/glsl"
	"github.com/gogpu/gltrace/schedule"
)

func TestNewAndDraw(t *testing.T) {
	ctx := headless.New(320, 240)
	app, err := New(ctx, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := ctx.GetError(); err != gl.NO_ERROR {
		t.Fatalf("setup left GL error %#x", err)
	}
	for _, name := range []string{"uniMat", "color", "lightdir", "image"} {
		if app.Program().Uniforms[name] == nil {
			t.Errorf("uniform %q has no location", name)
		}
	}

	app.Draw(0)
	app.Draw(16)
	if err := ctx.GetError(); err != gl.NO_ERROR {
		t.Fatalf("Draw left GL error %#x", err)
	}
	stats := ctx.Stats()
	if stats.Clears != 2 || stats.Draws != 4 {
		t.Errorf("Stats() = %+v, want 2 clears and 4 draws", stats)
	}
	if stats.Vertices != 4*24 {
		t.Errorf("Vertices = %d, want %d", stats.Vertices, 4*24)
	}
	if v, ok := ctx.UniformValue(app.Program().Program, "color"); !ok || v[2] != 1 {
		t.Errorf("last color = %v, want the moon color", v)
	}
	if !ctx.IsEnabled(gl.DEPTH_TEST) {
		t.Error("depth test not enabled")
	}
	if app.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", app.Frames())
	}
}

func TestFaultyAppStillRuns(t *testing.T) {
	ctx := headless.New(64, 64)
	app, err := New(ctx, Options{Faults: AllFaults()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	app.Draw(0)
	if err := ctx.GetError(); err != gl.NO_ERROR {
		t.Errorf("GL error %#x", err)
	}
}

func TestShaderFaults(t *testing.T) {
	if f := glsl.Analyze(VertexSource(Faults{}), glsl.StageVertex); len(f) != 0 {
		t.Errorf("clean vertex shader findings = %+v", f)
	}
	if f := glsl.Analyze(FragmentSource(Faults{}), glsl.StageFragment); len(f) != 0 {
		t.Errorf("clean fragment shader findings = %+v", f)
	}

	tests := []struct {
		name   string
		faults Faults
		src    func(Faults) string
		stage  glsl.Stage
		want   glsl.Kind
	}{
		{"version", Faults{MissingVersion: true}, VertexSource, glsl.StageVertex, glsl.KindMissingVersion},
		{"macro", Faults{Macro: true}, VertexSource, glsl.StageVertex, glsl.KindMacroUsage},
		{"location", Faults{ImplicitLocation: true}, VertexSource, glsl.StageVertex, glsl.KindImplicitLocation},
		{"divergence", Faults{Divergence: true}, FragmentSource, glsl.StageFragment, glsl.KindDivergence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := glsl.Analyze(tt.src(tt.faults), tt.stage)
			if len(findings) != 1 || findings[0].Kind != tt.want {
				t.Errorf("findings = %+v, want one %v", findings, tt.want)
			}
		})
	}
}

func TestFaultsAny(t *testing.T) {
	if (Faults{}).Any() {
		t.Error("zero Faults reports Any")
	}
	if !AllFaults().Any() {
		t.Error("AllFaults does not report Any")
	}
}

func TestCompileError(t *testing.T) {
	ctx := headless.New(1, 1)
	_, err := CompileProgram(ctx, "#version 300 es\n", FragmentSource(Faults{}))
	if !errors.Is(err, ErrCompile) {
		t.Errorf("error = %v, want ErrCompile", err)
	}
}

func TestStartWithGuard(t *testing.T) {
	ctx := headless.New(64, 64)
	app, err := New(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	host := &schedule.ManualHost{}
	guard := schedule.NewGuard(host.RequestAnimationFrame)

	app.Start(guard, 3)
	for i := 0; i < 10 && host.Len() > 0; i++ {
		host.Step(float64(i) * 16)
	}
	if app.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", app.Frames())
	}
	if guard.Pending() != 0 {
		t.Errorf("Pending() = %d after the loop ended", guard.Pending())
	}
}

func TestStop(t *testing.T) {
	ctx := headless.New(64, 64)
	app, err := New(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	host := &schedule.ManualHost{}
	app.Start(host, 0)
	host.Step(0)
	app.Stop()
	host.Step(16)
	if app.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", app.Frames())
	}
}

func TestOctahedron(t *testing.T) {
	g := Octahedron()
	if len(g.Triangles) != 8 {
		t.Fatalf("triangles = %d, want 8", len(g.Triangles))
	}
	if len(g.Attributes[0]) != 24 || len(g.Attributes[1]) != 24 {
		t.Errorf("attribute lengths = %d, %d", len(g.Attributes[0]), len(g.Attributes[1]))
	}
}

func TestMat4(t *testing.T) {
	m := translate(1, 2, 3).mul(scale(2, 2, 2))
	got := m.apply(1, 1, 1)
	want := [3]float32{3, 4, 5}
	if got != want {
		t.Errorf("apply = %v, want %v", got, want)
	}

	r := rotateZ(math.Pi / 2).apply(1, 0, 0)
	if math.Abs(float64(r[0])) > 1e-6 || math.Abs(float64(r[1]-1)) > 1e-6 {
		t.Errorf("rotateZ(pi/2) (1,0,0) = %v, want (0,1,0)", r)
	}
	if identity().mul(m) != m {
		t.Error("identity is not neutral")
	}
}
