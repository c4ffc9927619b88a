package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecalcMetrics records cart totals recalculation behavior: durations,
// stale-write discards, and collaborator fail-open events.
type RecalcMetrics struct {
	duration     *prometheus.HistogramVec
	staleDiscard prometheus.Counter
	failOpen     *prometheus.CounterVec
}

// NewRecalcMetrics registers the recalculation metrics on the provided registerer.
func NewRecalcMetrics(reg prometheus.Registerer) *RecalcMetrics {
	if reg == nil {
		return &RecalcMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_recalc_duration_seconds",
		Help:    "Duration of cart totals recalculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	staleDiscard := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_recalc_stale_discard_total",
		Help: "Recalculation write-backs discarded because a newer one superseded them.",
	})
	failOpen := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_collaborator_failopen_total",
		Help: "Tax/shipping lookups that failed and were zeroed out.",
	}, []string{"collaborator"})
	reg.MustRegister(duration, staleDiscard, failOpen)
	return &RecalcMetrics{
		duration:     duration,
		staleDiscard: staleDiscard,
		failOpen:     failOpen,
	}
}

// ObserveDuration records one recalculation with its outcome label
// ("applied" or "discarded").
func (m *RecalcMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncStaleDiscard counts one discarded stale write-back.
func (m *RecalcMetrics) IncStaleDiscard() {
	if m == nil || m.staleDiscard == nil {
		return
	}
	m.staleDiscard.Inc()
}

// IncFailOpen counts one fail-open against the named collaborator.
func (m *RecalcMetrics) IncFailOpen(collaborator string) {
	if m == nil || m.failOpen == nil {
		return
	}
	m.failOpen.WithLabelValues(normalizeLabel(collaborator)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
