package dochost

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scanlog"

// Metrics holds the document host's prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	responseSeconds *prometheus.HistogramVec
	documents       prometheus.Gauge
	storedBytes     prometheus.Counter
}

// NewMetrics creates collectors on a dedicated registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dochost",
			Name:      "requests_total",
			Help:      "The number of HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		responseSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dochost",
			Name:      "response_seconds",
			Help:      "Response time of the document API.",
		}, []string{"route"}),
		documents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dochost",
			Name:      "documents",
			Help:      "The number of stored documents.",
		}),
		storedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dochost",
			Name:      "written_bytes_total",
			Help:      "The number of file content bytes written by create and update.",
		}),
	}
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished request
func (m *Metrics) ObserveRequest(method, route, code string, seconds float64) {
	m.requests.WithLabelValues(method, route, code).Inc()
	m.responseSeconds.WithLabelValues(route).Observe(seconds)
}

// IncDocuments counts a newly created document
func (m *Metrics) IncDocuments() {
	m.documents.Inc()
}

// AddWrittenBytes counts file content accepted by a write
func (m *Metrics) AddWrittenBytes(n int) {
	m.storedBytes.Add(float64(n))
}
