package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the status service.
type Metrics struct {
	FetchesTotal *prometheus.CounterVec // labels: outcome={success,error}
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	StaleServed  prometheus.Counter

	PipelineDuration prometheus.Histogram

	AlertsPublished    prometheus.Counter
	AlertPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school_status",
			Name:      "fetches_total",
			Help:      "Upstream status-page fetches by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school_status",
			Name:      "cache_lookups_total",
			Help:      "Report cache lookups by result.",
		}, []string{"result"}),
		StaleServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "school_status",
			Name:      "stale_served_total",
			Help:      "Requests answered with the last good report after a refresh failure.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "school_status",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-classify-compose cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "school_status",
			Name:      "alerts_published_total",
			Help:      "Alert transitions relayed to the alert bus.",
		}),
		AlertPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "school_status",
			Name:      "alert_publish_errors_total",
			Help:      "Failed alert bus publishes.",
		}),
	}

	prometheus.MustRegister(
		m.FetchesTotal,
		m.CacheLookups,
		m.StaleServed,
		m.PipelineDuration,
		m.AlertsPublished,
		m.AlertPublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchesTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "school_status", Name: "fetches_total"}, []string{"outcome"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "school_status", Name: "cache_lookups_total"}, []string{"result"}),
		StaleServed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "school_status", Name: "stale_served_total"}),
		PipelineDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "school_status", Name: "pipeline_duration_seconds"}),
		AlertsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "school_status", Name: "alerts_published_total"}),
		AlertPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "school_status", Name: "alert_publish_errors_total"}),
	}
}
