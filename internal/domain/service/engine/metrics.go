package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"creditdesk/internal/domain/entity"
)

// Metrics counts decisions by band and outcome and tracks pipeline latency.
type Metrics struct {
	decisions *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditdesk",
			Subsystem: "engine",
			Name:      "decisions_total",
			Help:      "Scoring decisions by band and decision.",
		}, []string{"band", "decision"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "creditdesk",
			Subsystem: "engine",
			Name:      "evaluate_duration_seconds",
			Help:      "Full pipeline latency per scoring request.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.decisions, m.duration)

	return m
}

func (m *Metrics) observe(band entity.Band, decision entity.Decision, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.decisions.WithLabelValues(band.String(), decision.String()).Inc()
	m.duration.Observe(elapsed.Seconds())
}
