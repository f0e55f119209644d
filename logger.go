package gltrace

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. A nil value means slog.Default(),
// resolved at call time so that slog.SetDefault keeps working.
var loggerPtr atomic.Pointer[slog.Logger]

// SetLogger configures the logger new sessions use when they are not given
// one with WithLogger.
//
// Unlike most libraries gltrace logs by default: policy warnings are its
// output. Out of the box they go to slog.Default(). Pass nil to silence
// gltrace entirely.
//
// Log levels used by gltrace:
//   - [slog.LevelDebug]: frame boundaries and newly recorded traces
//   - [slog.LevelInfo]: session lifecycle (context wrapped)
//   - [slog.LevelWarn]: policy warnings
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger new sessions inherit.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return slog.Default()
}
