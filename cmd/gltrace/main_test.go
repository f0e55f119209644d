package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gltrace"
	"github.com/gogpu/gltrace/glsl"
	"github.com/gogpu/gltrace/internal/cache"
	"github.com/gogpu/gltrace/internal/demoapp"
	"github.com/gogpu/gltrace/trace"
)

const (
	cleanVertex   = "#version 300 es\nlayout(location = 0) in vec4 p;\nvoid main() { gl_Position = p; }\n"
	macroFragment = "#version 300 es\n#define PI 3.14\nprecision highp float;\nout vec4 c;\nvoid main() { c = vec4(PI); }\n"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStageFor(t *testing.T) {
	tests := []struct {
		path string
		flag string
		want glsl.Stage
	}{
		{"a.vert", "auto", glsl.StageVertex},
		{"a.VS", "auto", glsl.StageVertex},
		{"a.frag", "auto", glsl.StageFragment},
		{"a.fs", "", glsl.StageFragment},
		{"mp-terrain-vertex.glsl", "auto", glsl.StageVertex},
		{"mp-terrain-fragment.glsl", "auto", glsl.StageFragment},
		{"common.glsl", "auto", glsl.StageOther},
		{"a.frag", "vertex", glsl.StageVertex},
	}
	for _, tt := range tests {
		if got := stageFor(tt.path, tt.flag); got != tt.want {
			t.Errorf("stageFor(%q, %q) = %v, want %v", tt.path, tt.flag, got, tt.want)
		}
	}
}

func TestDiscoverHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "generated/\n*.tmp.frag\n")
	writeFile(t, filepath.Join(root, "a.vert"), cleanVertex)
	writeFile(t, filepath.Join(root, "sub", "b.frag"), macroFragment)
	writeFile(t, filepath.Join(root, "generated", "c.frag"), macroFragment)
	writeFile(t, filepath.Join(root, "x.tmp.frag"), macroFragment)
	writeFile(t, filepath.Join(root, ".hidden", "d.frag"), macroFragment)
	writeFile(t, filepath.Join(root, "notes.txt"), "")

	files, err := discover([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "a.vert"), filepath.Join(root, "sub", "b.frag")}
	if len(files) != len(want) {
		t.Fatalf("discover = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestDiscoverExplicitFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "shader.txt")
	writeFile(t, path, cleanVertex)
	files, err := discover([]string{path, path})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("discover = %v", files)
	}
	if _, err := discover([]string{filepath.Join(root, "missing")}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing path error = %v", err)
	}
}

func TestAnalyzeFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.vert")
	b := filepath.Join(root, "b.frag")
	writeFile(t, a, cleanVertex)
	writeFile(t, b, macroFragment)

	opts := analyzeOptions{stage: "auto", jobs: 2}
	reports, err := analyzeFiles(context.Background(), []string{a, b}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %+v", reports)
	}
	if len(reports[0].Findings) != 0 {
		t.Errorf("clean shader findings = %+v", reports[0].Findings)
	}
	if len(reports[1].Findings) != 1 || reports[1].Findings[0].Kind != glsl.KindMacroUsage {
		t.Errorf("macro shader findings = %+v", reports[1].Findings)
	}

	var buf bytes.Buffer
	n := printReports(&buf, reports, newPalette(false))
	if n != 1 {
		t.Errorf("printReports = %d, want 1", n)
	}
	want := b + ": [fragment] macro-usage: C-style macros are not allowed in GLSL\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestAnalyzeReadError(t *testing.T) {
	reports, err := analyzeFiles(context.Background(), []string{filepath.Join(t.TempDir(), "gone.vert")}, analyzeOptions{stage: "auto"})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].Err == nil {
		t.Fatalf("reports = %+v", reports)
	}
	var buf bytes.Buffer
	if n := printReports(&buf, reports, newPalette(false)); n != 1 || !strings.Contains(buf.String(), "error:") {
		t.Errorf("printReports = %d, %q", n, buf.String())
	}
}

func TestWGSLWithoutEntryPoint(t *testing.T) {
	reports := analyzeSource("x.wgsl", "fn helper() -> f32 { return 1.0; }", analyzeOptions{stage: "auto"})
	if len(reports) != 1 || reports[0].Err == nil {
		t.Errorf("reports = %+v, want one error", reports)
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	for mode, want := range map[string]bool{"on": true, "always": true, "off": false, "never": false} {
		got, err := colorEnabled(mode, &buf)
		if err != nil || got != want {
			t.Errorf("colorEnabled(%q) = %v, %v, want %v", mode, got, err, want)
		}
	}
	if got, _ := colorEnabled("auto", &buf); got {
		t.Error("auto enabled color for a buffer")
	}
	if _, err := colorEnabled("rainbow", &buf); err == nil {
		t.Error("invalid mode accepted")
	}
}

func TestPaletteColors(t *testing.T) {
	if got := newPalette(false).kind.Sprint("x"); got != "x" {
		t.Errorf("disabled palette = %q", got)
	}
	if got := newPalette(true).kind.Sprint("x"); got == "x" || !strings.Contains(got, "\x1b[") {
		t.Errorf("enabled palette = %q, want escape codes", got)
	}
}

func TestAnalyzeCommandStrict(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.frag"), macroFragment)
	writeFile(t, filepath.Join(root, "empty.toml"), "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"analyze", "--strict", "--color", "off", "--config", filepath.Join(root, "empty.toml"), root})
	err := cmd.Execute()
	if !errors.Is(err, errFindings) {
		t.Fatalf("Execute() error = %v, want errFindings", err)
	}
	if !strings.Contains(out.String(), "1 files, 1 findings") {
		t.Errorf("output = %q", out.String())
	}
}

func TestAnalyzeCommandBadStage(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"analyze", "--stage", "geometry", t.TempDir()})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "--stage") {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestRunDemo(t *testing.T) {
	orig := gltrace.Logger()
	t.Cleanup(func() { gltrace.SetLogger(orig) })
	gltrace.SetLogger(nil)

	export := filepath.Join(t.TempDir(), "traces.json")
	var out bytes.Buffer
	err := runDemo(context.Background(), &out, demoOptions{
		frames: 5,
		width:  64,
		height: 64,
		policy: gltrace.DefaultPolicy(),
		export: export,
		format: trace.FormatJSON,
	}, newPalette(false))
	if err != nil {
		t.Fatalf("runDemo error = %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "5 frames, 2 distinct traces") {
		t.Errorf("summary missing:\n%s", text)
	}
	if !strings.Contains(text, "Program#1.uniforms.uniMat") {
		t.Errorf("uniform names missing:\n%s", text)
	}
	if !strings.Contains(text, "0 warnings") {
		t.Errorf("clean demo produced warnings:\n%s", text)
	}

	data, err := os.ReadFile(export)
	if err != nil {
		t.Fatal(err)
	}
	var snap trace.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Frames) != 2 || !snap.Last.Equal(snap.Frames[1]) {
		t.Errorf("snapshot = %d frames", len(snap.Frames))
	}
}

func TestRunDemoFaulty(t *testing.T) {
	orig := gltrace.Logger()
	t.Cleanup(func() { gltrace.SetLogger(orig) })
	gltrace.SetLogger(nil)

	var out bytes.Buffer
	err := runDemo(context.Background(), &out, demoOptions{
		frames: 2, width: 8, height: 8,
		faults: demoapp.AllFaults(),
		policy: gltrace.DefaultPolicy(),
	}, newPalette(false))
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []string{"banned-call:", "missing-version:", "macro-usage:", "implicit-location:", "divergence:"} {
		if !strings.Contains(out.String(), kind) {
			t.Errorf("output lacks %s\n%s", kind, out.String())
		}
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchShaders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.vert"), cleanVertex)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- watchShaders(ctx, out, root, analyzeOptions{stage: "auto"}, newPalette(false), ready)
	}()

	select {
	case <-ready:
	case err := <-done:
		t.Skipf("watcher unavailable: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not become ready")
	}

	writeFile(t, filepath.Join(root, "b.frag"), macroFragment)
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "macro-usage") {
		if time.Now().After(deadline) {
			t.Fatalf("no report for new shader; output:\n%s", out.String())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchShaders error = %v", err)
	}
}

func TestAnalyzeSourceCache(t *testing.T) {
	opts := analyzeOptions{stage: "auto", cache: cache.New[sourceKey, []report](8)}
	first := analyzeSource("a/shader.frag", macroFragment, opts)
	second := analyzeSource("b/shader.frag", macroFragment, opts)

	if first[0].Path != "a/shader.frag" || second[0].Path != "b/shader.frag" {
		t.Errorf("paths = %q, %q", first[0].Path, second[0].Path)
	}
	if len(second[0].Findings) != 1 {
		t.Errorf("cached findings = %+v", second[0].Findings)
	}
	if s := opts.cache.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("cache stats = %+v", s)
	}

	// The same text under a vertex name is a different analysis.
	analyzeSource("c/shader.vert", macroFragment, opts)
	if n := opts.cache.Len(); n != 2 {
		t.Errorf("cache entries = %d, want 2", n)
	}
}

func TestRunDemoMetricsAddrInUse(t *testing.T) {
	orig := gltrace.Logger()
	t.Cleanup(func() { gltrace.SetLogger(orig) })
	gltrace.SetLogger(nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	defer ln.Close()

	var out bytes.Buffer
	err = runDemo(context.Background(), &out, demoOptions{
		frames: 1, width: 8, height: 8,
		policy:      gltrace.DefaultPolicy(),
		metricsAddr: ln.Addr().String(),
	}, newPalette(false))
	if err == nil {
		t.Fatal("runDemo succeeded on an address already in use")
	}
	if strings.Contains(out.String(), "serving metrics") {
		t.Errorf("output claims a server is running:\n%s", out.String())
	}
}

func TestRunDemoServesMetricsUntilDone(t *testing.T) {
	orig := gltrace.Logger()
	t.Cleanup(func() { gltrace.SetLogger(orig) })
	gltrace.SetLogger(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := runDemo(ctx, &out, demoOptions{
		frames: 1, width: 8, height: 8,
		policy:      gltrace.DefaultPolicy(),
		metricsAddr: "127.0.0.1:0",
	}, newPalette(false))
	if err != nil {
		t.Fatalf("runDemo error = %v", err)
	}
	if !strings.Contains(out.String(), "serving metrics") {
		t.Errorf("output = %q", out.String())
	}
}

// startWatch runs watchShaders on root until the test ends.
func startWatch(t *testing.T, root string) *syncBuffer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- watchShaders(ctx, out, root, analyzeOptions{stage: "auto"}, newPalette(false), ready)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-ready:
	case err := <-done:
		t.Skipf("watcher unavailable: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not become ready")
	}
	return out
}

func waitFor(t *testing.T, out *syncBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), substr) {
		if time.Now().After(deadline) {
			t.Fatalf("output never contained %q:\n%s", substr, out.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatchShadersNewDirectory(t *testing.T) {
	root := t.TempDir()
	out := startWatch(t, root)

	if err := os.Mkdir(filepath.Join(root, "late"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "late", "c.frag"), macroFragment)
	waitFor(t, out, filepath.Join(root, "late", "c.frag")+": [fragment] macro-usage")
}

func TestWatchShadersSkipsIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "generated/\n*.tmp.frag\n")
	writeFile(t, filepath.Join(root, "generated", "old.frag"), macroFragment)
	out := startWatch(t, root)

	writeFile(t, filepath.Join(root, "generated", "c.frag"), macroFragment)
	writeFile(t, filepath.Join(root, "x.tmp.frag"), macroFragment)
	writeFile(t, filepath.Join(root, "b.frag"), macroFragment)
	waitFor(t, out, "b.frag")

	for _, name := range []string{"old.frag", "c.frag", "x.tmp.frag"} {
		if strings.Contains(out.String(), name) {
			t.Errorf("ignored %s was analyzed:\n%s", name, out.String())
		}
	}
}
