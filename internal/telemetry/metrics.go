package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers:
//
//	subdesigner_requests_total{route,code}
//	subdesigner_request_duration_seconds{route}
//	subdesigner_classifications_total{organization,outcome}
//	go_* and process_* system metrics
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	classifications *prometheus.CounterVec
}

// NewMetrics builds collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subdesigner_requests_total",
				Help: "Number of API requests by route and status code",
			},
			[]string{"route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "subdesigner_request_duration_seconds",
				Help:    "API request latency",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"route"},
		),
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subdesigner_classifications_total",
				Help: "Classification outcomes by organization",
			},
			[]string{"organization", "outcome"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.classifications,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveClassification records whether a classification found any class.
func (m *Metrics) ObserveClassification(organization string, matched bool) {
	outcome := "no_match"
	if matched {
		outcome = "matched"
	}
	m.classifications.WithLabelValues(organization, outcome).Inc()
}
