package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ExtractionsTotal    *prometheus.CounterVec
	ExtractionDuration  *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the metrics with reg. Pass prometheus.DefaultRegisterer in main.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ExtractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_extractions_total",
			Help: "The total number of ingredient extractions",
		}, []string{"outcome", "strategy"}), // e.g. found/jsonld, empty/none, http_error/
		ExtractionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipe_extraction_duration_seconds",
			Help:    "Duration of ingredient extractions including the page fetch",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"outcome"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) ObserveExtraction(outcome, strategy string, seconds float64) {
	m.ExtractionsTotal.WithLabelValues(outcome, strategy).Inc()
	m.ExtractionDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
