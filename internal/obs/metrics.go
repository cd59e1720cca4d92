package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one service instance. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	mutations  *prometheus.CounterVec
	operations *prometheus.HistogramVec
	requests   *prometheus.CounterVec
}

// NewMetrics builds a private registry with process and Go runtime collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplysight",
			Name:      "mutations_total",
			Help:      "Inventory mutations by operation and result code.",
		}, []string{"operation", "result"}),
		operations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supplysight",
			Name:      "operation_duration_seconds",
			Help:      "Duration of inventory operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplysight",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.mutations,
		m.operations,
		m.requests,
	)
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveMutation counts one mutation outcome; result is "ok" or an error code.
func (m *Metrics) ObserveMutation(operation, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, result).Inc()
}

// ObserveOperation records how long an operation took.
func (m *Metrics) ObserveOperation(operation string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	m.operations.WithLabelValues(operation, status).Observe(d.Seconds())
}

// ObserveRequest counts one HTTP response.
func (m *Metrics) ObserveRequest(path, code string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, code).Inc()
}

// TrackStore exports the record count and snapshot revision as gauges read on scrape.
func (m *Metrics) TrackStore(records func() float64, revision func() float64) {
	if m == nil {
		return
	}
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "supplysight",
			Name:      "store_records",
			Help:      "Product records in the current snapshot.",
		}, records),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "supplysight",
			Name:      "store_revision",
			Help:      "Revision of the current snapshot.",
		}, revision),
	)
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
