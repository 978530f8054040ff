package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the glacier catalog.
type Metrics struct {
	GlaciersLoaded     prometheus.Gauge
	MeasurementsMerged prometheus.Counter
	UnmatchedRows      prometheus.Counter
	LoadErrors         prometheus.Counter
	LoadDuration       prometheus.Histogram
	SnapshotsPublished prometheus.Counter
	CatalogReady       prometheus.Gauge
	LastLoadTimestamp  prometheus.Gauge
	QueriesServed      *prometheus.CounterVec // labels: query={names,filter,ranking}
}

// NewMetrics creates and registers all catalog metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GlaciersLoaded,
		m.MeasurementsMerged,
		m.UnmatchedRows,
		m.LoadErrors,
		m.LoadDuration,
		m.SnapshotsPublished,
		m.CatalogReady,
		m.LastLoadTimestamp,
		m.QueriesServed,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GlaciersLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "glacier_etl",
			Name:      "glaciers_loaded",
			Help:      "Number of glaciers in the currently served collection.",
		}),
		MeasurementsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "glacier_etl",
			Name:      "measurements_merged_total",
			Help:      "Total mass-balance values appended to glaciers.",
		}),
		UnmatchedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "glacier_etl",
			Name:      "unmatched_mass_balance_rows_total",
			Help:      "Total mass-balance rows skipped because no glacier has their id.",
		}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "glacier_etl",
			Name:      "load_errors_total",
			Help:      "Total failed catalog loads.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "glacier_etl",
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete read-merge-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "glacier_etl",
			Name:      "snapshots_published_total",
			Help:      "Total glacier snapshots written to the sink.",
		}),
		CatalogReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "glacier_etl",
			Name:      "catalog_ready",
			Help:      "1 once a collection has been loaded, 0 before.",
		}),
		LastLoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "glacier_etl",
			Name:      "last_load_timestamp_seconds",
			Help:      "Unix time of the last successful load.",
		}),
		QueriesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glacier_etl",
			Name:      "queries_total",
			Help:      "Catalog queries served, labelled names, filter or ranking.",
		}, []string{"query"}),
	}
}
