package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	domainEvents    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "litreview_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "litreview_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errorCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "litreview_http_errors_total",
			Help: "Errors returned to clients by route, method and error code.",
		}, []string{"route", "method", "code"}),
		domainEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "litreview_domain_events_total",
			Help: "Domain events published by type.",
		}, []string{"type"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(route, method, code).Inc()
}

// RecordEvent counts a published domain event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.domainEvents.WithLabelValues(eventType).Inc()
}

