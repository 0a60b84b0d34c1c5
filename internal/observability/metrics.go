package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// directory loader.
type Metrics struct {
	RowsDecoded prometheus.Counter
	RowsSkipped prometheus.Counter

	// Refresh metrics. Refreshes is labelled by outcome:
	// changed, unchanged, error.
	Refreshes        *prometheus.CounterVec
	DirectoryEntries prometheus.Gauge
	RefresherRunning prometheus.Gauge

	BuildDuration prometheus.Histogram
	FetchDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wwff",
			Name:      "rows_decoded_total",
			Help:      "Total CSV rows decoded into directory entries.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wwff",
			Name:      "rows_skipped_total",
			Help:      "Total CSV rows skipped because of tokenizer or decode failures.",
		}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wwff",
			Name:      "refreshes_total",
			Help:      "Directory refresh attempts by outcome.",
		}, []string{"outcome"}),
		DirectoryEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wwff",
			Name:      "directory_entries",
			Help:      "Entries in the currently served directory snapshot.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wwff",
			Name:      "refresher_running",
			Help:      "1 when the periodic refresher is active, 0 when shut down.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wwff",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete directory build from CSV.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wwff",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the HTTP exchange with the upstream directory.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	prometheus.MustRegister(
		m.RowsDecoded,
		m.RowsSkipped,
		m.Refreshes,
		m.DirectoryEntries,
		m.RefresherRunning,
		m.BuildDuration,
		m.FetchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with no registry attached to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsDecoded:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wwff", Name: "rows_decoded_total"}),
		RowsSkipped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wwff", Name: "rows_skipped_total"}),
		Refreshes:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wwff", Name: "refreshes_total"}, []string{"outcome"}),
		DirectoryEntries: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wwff", Name: "directory_entries"}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wwff", Name: "refresher_running"}),
		BuildDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wwff", Name: "build_duration_seconds"}),
		FetchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wwff", Name: "fetch_duration_seconds"}),
	}
}
