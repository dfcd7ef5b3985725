package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the refresh pipeline.
type Metrics struct {
	Refreshes        prometheus.Counter
	RefreshErrors    *prometheus.CounterVec // labels: stage={fetch,build,publish}
	RegionsDerived   prometheus.Gauge
	DatasetDays      prometheus.Gauge
	MessagesProduced prometheus.Counter
	PipelineRunning  prometheus.Gauge

	BuildDuration prometheus.Histogram

	// Layout cache metrics.
	LayoutCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Refreshes,
		m.RefreshErrors,
		m.RegionsDerived,
		m.DatasetDays,
		m.MessagesProduced,
		m.PipelineRunning,
		m.BuildDuration,
		m.LayoutCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cartogram",
			Name:      "refreshes_total",
			Help:      "Total successful dataset refreshes.",
		}),
		RefreshErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cartogram",
			Name:      "refresh_errors_total",
			Help:      "Refresh failures by pipeline stage.",
		}, []string{"stage"}),
		RegionsDerived: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cartogram",
			Name:      "regions_derived",
			Help:      "Regions in the most recent derived layout.",
		}),
		DatasetDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cartogram",
			Name:      "dataset_days",
			Help:      "Length of the shared date axis in the current dataset.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cartogram",
			Name:      "messages_produced_total",
			Help:      "Total region messages written to the sink topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cartogram",
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cartogram",
			Name:      "build_duration_seconds",
			Help:      "Duration of deriving and laying out one dataset.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		LayoutCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cartogram",
			Name:      "layout_cache_total",
			Help:      "Layout cache lookups by result.",
		}, []string{"result"}),
	}
}
