package gltrace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the per-session Prometheus collectors. A nil *metrics is
// valid and records nothing.
type metrics struct {
	calls    prometheus.Counter
	frames   prometheus.Counter
	distinct prometheus.Gauge
	warnings *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, session string) *metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)
	labels := prometheus.Labels{"session": session}
	return &metrics{
		calls: f.NewCounter(prometheus.CounterOpts{
			Name:        "gltrace_calls_total",
			Help:        "Intercepted API calls",
			ConstLabels: labels,
		}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Name:        "gltrace_frames_total",
			Help:        "Frame traces closed at a frame boundary",
			ConstLabels: labels,
		}),
		distinct: f.NewGauge(prometheus.GaugeOpts{
			Name:        "gltrace_distinct_traces",
			Help:        "Distinct frame traces recorded",
			ConstLabels: labels,
		}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "gltrace_warnings_total",
			Help:        "Policy warnings by kind",
			ConstLabels: labels,
		}, []string{"kind"}),
	}
}

func (m *metrics) call() {
	if m != nil {
		m.calls.Inc()
	}
}

func (m *metrics) frame(distinct int) {
	if m != nil {
		m.frames.Inc()
		m.distinct.Set(float64(distinct))
	}
}

func (m *metrics) warning(kind WarningKind) {
	if m != nil {
		m.warnings.WithLabelValues(string(kind)).Inc()
	}
}
