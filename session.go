package gltrace

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/gltrace/gl"
	"github.com/gogpu/gltrace/glsl"
	"github.com/gogpu/gltrace/internal/callfmt"
	"github.com/gogpu/gltrace/internal/symbols"
	"github.com/gogpu/gltrace/trace"
)

// Session is the tracing state of one wrapped context: symbol and constant
// tables, the frame recorder, and the set of signatures that already
// produced a warning.
//
// A Session is not safe for concurrent use; it expects the single thread
// that issues API calls.
type Session struct {
	id       string
	policy   Policy
	logger   *slog.Logger
	symbols  *symbols.Registry
	format   *callfmt.Formatter
	recorder *trace.Recorder
	warned   map[string]struct{}
	warnings []Warning
	metrics  *metrics
}

func newSession(o options) *Session {
	id := uuid.NewString()
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	s := &Session{
		id:       id,
		policy:   o.policy,
		logger:   logger.With(slog.String("session", id)),
		symbols:  symbols.NewRegistry(),
		recorder: trace.NewRecorder(),
		warned:   make(map[string]struct{}),
		metrics:  newMetrics(o.registry, id),
	}
	s.format = &callfmt.Formatter{
		Symbols:     s.symbols,
		Prefix:      s.policy.Prefix,
		ShowNumbers: s.policy.showNumbers,
	}
	p := s.policy.Prefix
	s.symbols.SeedConstant(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT, p+"COLOR_BUFFER_BIT | "+p+"DEPTH_BUFFER_BIT")
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Policy returns a copy of the session policy.
func (s *Session) Policy() Policy { return s.policy.Clone() }

// Traces returns the distinct frame traces in first-seen order.
func (s *Session) Traces() []trace.Frame { return s.recorder.Registry().Frames() }

// Last returns the registry entry equal to the most recently closed frame.
func (s *Session) Last() trace.Frame { return s.recorder.Registry().Last() }

// Live returns a copy of the frame being recorded.
func (s *Session) Live() trace.Frame { return s.recorder.Live() }

// Snapshot captures the trace registry for export.
func (s *Session) Snapshot() trace.Snapshot { return s.recorder.Snapshot() }

// Warnings returns every warning fired so far, in order.
func (s *Session) Warnings() []Warning { return slices.Clone(s.warnings) }

// Name returns the symbolic name bound to h, if any.
func (s *Session) Name(h gl.Handle) (string, bool) { return s.symbols.Name(h) }

// observe handles a non-function property read: handles get a symbolic
// name, primitives become named constants.
func (s *Session) observe(name string, v any) {
	if h, ok := v.(gl.Handle); ok {
		s.symbols.Bind(h, s.policy.Prefix+name)
		return
	}
	if symbols.IsPrimitive(v) {
		s.symbols.SetConstant(v, s.policy.Prefix+name)
	}
}

// intercept records one call and runs it. call performs the real API call
// and returns its result; hasResult is false for calls without one.
// A panic from call propagates unchanged, after the signature has been
// recorded.
func (s *Session) intercept(name string, args []any, call func() (result any, hasResult bool)) {
	sig := s.format.Format(name, args)
	s.recorder.Append(sig)
	s.metrics.call()
	if name == s.policy.FrameBoundary {
		s.closeFrame()
	}

	result, hasResult := call()

	if _, done := s.warned[sig]; !done && s.check(name, sig, args, result, hasResult) {
		s.warned[sig] = struct{}{}
	}

	if kind, ok := s.policy.creator(name); ok {
		sym := s.symbols.Mint(kind)
		if h, ok := result.(gl.Handle); ok {
			s.symbols.Bind(h, sym)
			if name == s.policy.ShaderCreate && len(args) > 0 {
				if stage, ok := args[0].(gl.Enum); ok {
					s.symbols.Tag(h, stage)
				}
			}
		}
		s.recorder.PrefixLast(sym + " = ")
	}

	if name == s.policy.UniformLookup && hasResult && !callfmt.IsNull(result) && len(args) >= 2 {
		if h, ok := result.(gl.Handle); ok {
			s.symbols.Bind(h, s.ownerName(name, args[0])+".uniforms."+s.keyName(args[1]))
		}
	}
}

func (s *Session) closeFrame() {
	isNew, frame := s.recorder.Close()
	distinct := s.recorder.Registry().Len()
	s.metrics.frame(distinct)
	if isNew {
		s.logger.Debug("new frame trace", slog.Int("index", distinct-1), slog.Int("calls", len(frame)))
	}
}

func (s *Session) ownerName(fn string, owner any) string {
	if h, ok := owner.(gl.Handle); ok {
		if name, ok := s.symbols.Name(h); ok {
			return name
		}
	}
	return s.format.Arg(fn, 0, owner)
}

func (s *Session) keyName(key any) string {
	if str, ok := key.(string); ok {
		return str
	}
	return s.format.Arg("", 1, key)
}

// check runs every policy check for one call and reports whether any
// warning fired.
func (s *Session) check(name, sig string, args []any, result any, hasResult bool) bool {
	fired := false
	warn := func(kind WarningKind, msg string) {
		s.warn(Warning{Kind: kind, Signature: sig, Message: msg})
		fired = true
	}

	if guidance, ok := s.policy.Banned[name]; ok {
		warn(WarnBanned, s.policy.Prefix+name+" is prohibited: "+guidance)
	}
	if name == s.policy.ShaderSource && len(args) >= 2 {
		if src, ok := args[1].(string); ok {
			opts := glsl.Options{RequiredVersion: s.policy.RequiredVersion}
			for _, f := range glsl.AnalyzeWithOptions(src, s.stageOf(args[0]), opts) {
				warn(findingKind(f.Kind), f.Message)
			}
		}
	}
	if hasResult && callfmt.IsNull(result) {
		warn(WarnNullReturn, "prohibited null return")
	}
	if slices.ContainsFunc(args, callfmt.IsNull) {
		warn(WarnNullArgument, "prohibited null argument")
	}
	return fired
}

func (s *Session) warn(w Warning) {
	s.warnings = append(s.warnings, w)
	s.metrics.warning(w.Kind)
	s.logger.Warn(w.Message, slog.String("kind", string(w.Kind)), slog.String("call", w.Signature))
}

// stageOf returns the stage recorded when shader was created.
func (s *Session) stageOf(shader any) glsl.Stage {
	h, ok := shader.(gl.Handle)
	if !ok {
		return glsl.StageOther
	}
	e, ok := s.symbols.TagOf(h)
	if !ok {
		return glsl.StageOther
	}
	return StageOf(e)
}

// StageOf maps a shader type enum to an analyzer stage.
func StageOf(shaderType gl.Enum) glsl.Stage {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return glsl.StageVertex
	case gl.FRAGMENT_SHADER:
		return glsl.StageFragment
	default:
		return glsl.StageOther
	}
}

func findingKind(k glsl.Kind) WarningKind {
	switch k {
	case glsl.KindMissingVersion:
		return WarnMissingVersion
	case glsl.KindMacroUsage:
		return WarnMacroUsage
	case glsl.KindImplicitLocation:
		return WarnImplicitLocation
	default:
		return WarnDivergence
	}
}
