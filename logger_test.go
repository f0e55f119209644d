package gltrace

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gltrace/gl"
	"github.com/gogpu/gltrace/gl/headless"
)

func TestNopHandler_Enabled(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
}

func TestNopHandler_Handle(t *testing.T) {
	h := nopHandler{}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
}

func TestNopHandler_WithAttrsAndGroup(t *testing.T) {
	h := nopHandler{}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("key", "val")}).(nopHandler); !ok {
		t.Error("nopHandler.WithAttrs() did not return nopHandler")
	}
	if _, ok := h.WithGroup("group").(nopHandler); !ok {
		t.Error("nopHandler.WithGroup() did not return nopHandler")
	}
}

func TestLoggerDefaultsToSlogDefault(t *testing.T) {
	orig := loggerPtr.Load()
	t.Cleanup(func() { loggerPtr.Store(orig) })
	loggerPtr.Store(nil)

	if got := Logger(); got != slog.Default() {
		t.Error("Logger() is not slog.Default() when unset")
	}
}

func TestSetLogger(t *testing.T) {
	orig := loggerPtr.Load()
	t.Cleanup(func() { loggerPtr.Store(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)

	if Logger() != custom {
		t.Fatal("Logger() did not return the custom logger set via SetLogger")
	}
	Logger().Info("test message", "key", "value")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected log output to contain 'test message', got: %s", buf.String())
	}
}

func TestSetLoggerNilSilences(t *testing.T) {
	orig := loggerPtr.Load()
	t.Cleanup(func() { loggerPtr.Store(orig) })

	SetLogger(nil)
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil after SetLogger(nil)")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("logger enabled for %v after SetLogger(nil)", level)
		}
	}
}

func TestSessionLoggerCarriesSessionID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := Wrap(headless.New(1, 1), WithLogger(l))

	ctx.Clear(gl.COLOR_BUFFER_BIT)
	ctx.GetAttribLocation(nil, "pos")

	out := buf.String()
	if !strings.Contains(out, "session="+ctx.Session().ID()) {
		t.Errorf("log output lacks session id:\n%s", out)
	}
	for _, want := range []string{"wrapping context", "new frame trace", "level=WARN", "kind=banned-call"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output lacks %q:\n%s", want, out)
		}
	}
}

func TestSetLoggerConcurrent(t *testing.T) {
	orig := loggerPtr.Load()
	t.Cleanup(func() { loggerPtr.Store(orig) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		}()
		go func() {
			defer wg.Done()
			if Logger() == nil {
				t.Error("Logger() returned nil during concurrent access")
			}
		}()
	}
	wg.Wait()
}
