package gltrace

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Session during Wrap.
//
// Example:
//
//	ctx := gltrace.Wrap(real,
//	    gltrace.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
//	    gltrace.WithConstants("ARRAY_BUFFER", "STATIC_DRAW", "TRIANGLES"),
//	)
type Option func(*options)

// options holds optional configuration for a Session.
type options struct {
	logger    *slog.Logger
	policy    Policy
	registry  prometheus.Registerer
	constants []string
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		logger: nil, // Logger() at Wrap time
		policy: DefaultPolicy(),
	}
}

// WithLogger sets the session logger. Pass nil to keep the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPolicy replaces the default policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p.Clone()
	}
}

// WithMetrics registers the session's Prometheus collectors with reg.
// Collectors carry a "session" const label so sessions can share reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithConstants reads the named constant properties through the wrapped
// context as soon as it is created, so that Go code passing typed constants
// directly gets readable traces. Reading goes through Context.Get and
// follows the same first-write-wins rules.
func WithConstants(names ...string) Option {
	return func(o *options) {
		o.constants = append(o.constants, names...)
	}
}
