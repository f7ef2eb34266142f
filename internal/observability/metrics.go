package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// chart and geocoding pipeline.
type Metrics struct {
	ChartRequests  *prometheus.CounterVec // labels: type={birth_chart,moon_phase,current_planets,transits}, outcome={success,error}
	ChartWarnings  prometheus.Counter
	ChartsComputed prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec   // labels: provider, outcome={success,error,not_found}
	GeocodeCache    *prometheus.CounterVec   // labels: result={hit_positive,hit_negative,miss}
	GeocodeDuration *prometheus.HistogramVec // labels: provider
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ChartRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "natal_chart",
			Name:      "requests_total",
			Help:      "Requests handled by type and outcome.",
		}, []string{"type", "outcome"}),
		ChartWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "natal_chart",
			Name:      "chart_warnings_total",
			Help:      "Degradation warnings attached to birth chart results.",
		}),
		ChartsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "natal_chart",
			Name:      "charts_computed_total",
			Help:      "Birth charts with a complete astronomy stage.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "natal_chart",
			Name:      "geocode_requests_total",
			Help:      "Geocoding provider attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "natal_chart",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "natal_chart",
			Name:      "geocode_request_duration_seconds",
			Help:      "Geocoding provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}

	prometheus.MustRegister(
		m.ChartRequests,
		m.ChartWarnings,
		m.ChartsComputed,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ChartRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "natal_chart", Name: "requests_total"}, []string{"type", "outcome"}),
		ChartWarnings:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "natal_chart", Name: "chart_warnings_total"}),
		ChartsComputed:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "natal_chart", Name: "charts_computed_total"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "natal_chart", Name: "geocode_requests_total"}, []string{"provider", "outcome"}),
		GeocodeCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "natal_chart", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "natal_chart", Name: "geocode_request_duration_seconds"}, []string{"provider"}),
	}
}
