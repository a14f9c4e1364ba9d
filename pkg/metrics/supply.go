package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SupplyCycleMetrics records metadata for reconciliation cycles.
type SupplyCycleMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	attempts *prometheus.CounterVec
}

// NewSupplyCycleMetrics registers the supply cycle metrics on the provided registerer.
func NewSupplyCycleMetrics(reg prometheus.Registerer) *SupplyCycleMetrics {
	if reg == nil {
		return &SupplyCycleMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "supply_cycle_duration_seconds",
		Help:    "Duration of supply reconciliation cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"retailer"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "supply_cycle_success",
		Help: "Supply cycles whose remote import succeeded.",
	}, []string{"retailer"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "supply_cycle_failure",
		Help: "Supply cycles that ended in remote rejection or transport failure.",
	}, []string{"retailer"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "supply_attempts_recorded",
		Help: "SupplyAttempt history rows written, labeled by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, success, failure, attempts)
	return &SupplyCycleMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		attempts: attempts,
	}
}

// ObserveDuration records the duration of one cycle for the retailer.
func (m *SupplyCycleMetrics) ObserveDuration(retailer string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(retailer)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the retailer.
func (m *SupplyCycleMetrics) IncSuccess(retailer string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(retailer)).Inc()
}

// IncFailure increments the failure counter for the retailer.
func (m *SupplyCycleMetrics) IncFailure(retailer string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(retailer)).Inc()
}

// AddAttempts counts history rows written with the given outcome label.
func (m *SupplyCycleMetrics) AddAttempts(outcome string, n int) {
	if m == nil || m.attempts == nil || n <= 0 {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
