package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records client-side request outcomes. A nil *RequestMetrics
// is valid and records nothing.
type RequestMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	results  *prometheus.CounterVec
}

// NewRequestMetrics registers the request metrics on the provided registerer
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return nil
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodapp_client_attempts_total",
		Help: "HTTP attempts sent by the client, by method and status code.",
	}, []string{"method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foodapp_client_attempt_duration_seconds",
		Help:    "Duration of single HTTP attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodapp_client_cold_start_retries_total",
		Help: "POST attempts re-sent after a 503 cold start.",
	}, []string{"method"})
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodapp_client_results_total",
		Help: "Normalized results returned to callers, by status.",
	}, []string{"status"})
	reg.MustRegister(attempts, duration, retries, results)
	return &RequestMetrics{
		attempts: attempts,
		duration: duration,
		retries:  retries,
		results:  results,
	}
}

// ObserveAttempt records one HTTP attempt. code is 0 when no response arrived.
func (m *RequestMetrics) ObserveAttempt(method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	label := "none"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.attempts.WithLabelValues(method, label).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

// IncRetry counts one cold-start retry
func (m *RequestMetrics) IncRetry(method string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(method).Inc()
}

// IncResult counts one normalized result. status is "success" for successes.
func (m *RequestMetrics) IncResult(status string) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.results.WithLabelValues(status).Inc()
}
