// Package metrics exposes Prometheus collectors for itinerary generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeMissing   = "missing"
	OutcomeFailure   = "failure"
)

// Metrics groups the collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	inFlight    prometheus.Gauge
	sessions    prometheus.Gauge
}

// New registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wanderplan",
			Name:      "generations_total",
			Help:      "Itinerary generation calls by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wanderplan",
			Name:      "generation_duration_seconds",
			Help:      "Time spent waiting on the generative-language endpoint.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wanderplan",
			Name:      "generations_in_flight",
			Help:      "Generation calls currently outstanding.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wanderplan",
			Name:      "sessions",
			Help:      "Sessions held in memory.",
		}),
	}
	reg.MustRegister(m.generations, m.duration, m.inFlight, m.sessions)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GenerationStarted increments the in-flight gauge.
func (m *Metrics) GenerationStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// GenerationFinished records the outcome and latency of one call.
func (m *Metrics) GenerationFinished(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.generations.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// SetSessions reports the session count.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
