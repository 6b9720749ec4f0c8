package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// reporting service.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec   // labels: endpoint, outcome={ok,client_error,error}
	RequestDuration *prometheus.HistogramVec // labels: endpoint

	StoreQueryDuration *prometheus.HistogramVec // labels: operation
	StoreErrors        prometheus.Counter

	CacheLookups   *prometheus.CounterVec // labels: operation, result={hit,miss}
	MarkersSkipped prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.HTTPRequests,
		m.RequestDuration,
		m.StoreQueryDuration,
		m.StoreErrors,
		m.CacheLookups,
		m.MarkersSkipped,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// construct as many instances as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "http_requests_total",
			Help:      "API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dam_levels",
			Name:      "http_request_duration_seconds",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		StoreQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dam_levels",
			Name:      "store_query_duration_seconds",
			Help:      "Report store query duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "store_errors_total",
			Help:      "Total report store query failures.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "cache_lookups_total",
			Help:      "Read-through cache lookups by operation and result.",
		}, []string{"operation", "result"}),
		MarkersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "markers_skipped_total",
			Help:      "Table rows excluded from the map for missing or zero coordinates.",
		}),
	}
}
