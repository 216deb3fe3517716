package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes prometheus instruments for the HTTP surface and the
// grievance lifecycle.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	created         *prometheus.CounterVec
	transitions     *prometheus.CounterVec
}

// NewMetrics registers the instruments on the given registerer; pass nil to
// use the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by path, method and status code.",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Failed requests by path, method and error code.",
		}, []string{"path", "method", "code"}),
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grievances_created_total",
			Help: "Grievances raised, by category priority tier.",
		}, []string{"priority"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_transitions_total",
			Help: "Applied lifecycle transitions, by resulting status.",
		}, []string{"action"}),
	}
}

// RecordRequest counts a served request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError counts a request that returned a domain error.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordCreated counts a raised grievance.
func (m *Metrics) RecordCreated(priority string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(priority).Inc()
}

// RecordTransition counts an applied transition.
func (m *Metrics) RecordTransition(action string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action).Inc()
}
