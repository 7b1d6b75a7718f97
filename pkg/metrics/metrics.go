// Package metrics holds the Prometheus collectors shared by the relay and
// the API server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "planora"

// Relay request outcomes.
const (
	OutcomeStreamed        = "streamed"
	OutcomeBadRequest      = "bad_request"
	OutcomeConfiguration   = "configuration_error"
	OutcomeGroundingFailed = "grounding_failed"
	OutcomeRateLimited     = "rate_limited"
	OutcomeQuotaExceeded   = "quota_exceeded"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeThrottled       = "throttled"
)

// Metrics is a set of collectors registered on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	relayRequests     *prometheus.CounterVec
	groundingDuration prometheus.Histogram
	streamedBytes     prometheus.Counter
	publishFailures   prometheus.Counter
	catalogRequests   *prometheus.CounterVec
}

// New creates and registers the collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		relayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Chat relay requests by outcome.",
		}, []string{"outcome"}),
		groundingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "grounding_fetch_seconds",
			Help:      "Time spent fetching the event catalog for a request.",
			Buckets:   prometheus.DefBuckets,
		}),
		streamedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "streamed_bytes_total",
			Help:      "Bytes forwarded from the upstream model to clients.",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "event_publish_failures_total",
			Help:      "Chat events that could not be published or queued.",
		}),
		catalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by route and status class.",
		}, []string{"route", "code"}),
	}

	m.Registry.MustRegister(
		m.relayRequests,
		m.groundingDuration,
		m.streamedBytes,
		m.publishFailures,
		m.catalogRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// The recording methods below are safe on a nil *Metrics so components can
// run without instrumentation.

func (m *Metrics) RelayRequest(outcome string) {
	if m == nil {
		return
	}
	m.relayRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) GroundingFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.groundingDuration.Observe(d.Seconds())
}

func (m *Metrics) Streamed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.streamedBytes.Add(float64(n))
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

func (m *Metrics) APIRequest(route, code string) {
	if m == nil {
		return
	}
	m.catalogRequests.WithLabelValues(route, code).Inc()
}
