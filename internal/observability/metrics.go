package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for one batch run.
type Metrics struct {
	RowsLoaded         prometheus.Counter
	RowsDroppedNull    prometheus.Counter
	CherryMatched      prometheus.Counter
	FalsePositiveDrops prometheus.Counter
	CultivarRenames    prometheus.Counter
	RecordsEmitted     prometheus.Counter
	PipelineRunning    prometheus.Gauge

	SinkDuration *prometheus.HistogramVec // label: sink={chart,map,report,kafka}
	SinkErrors   *prometheus.CounterVec   // label: sink
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDroppedNull,
		m.CherryMatched,
		m.FalsePositiveDrops,
		m.CultivarRenames,
		m.RecordsEmitted,
		m.PipelineRunning,
		m.SinkDuration,
		m.SinkErrors,
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
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cherrymap",
			Name:      "rows_loaded_total",
			Help:      "Raw rows read from the tree inventory.",
		}),
		RowsDroppedNull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cherrymap",
			Name:      "rows_dropped_null_total",
			Help:      "Rows dropped for a missing coordinate or name.",
		}),
		CherryMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cherrymap",
			Name:      "cherry_matched_total",
			Help:      "Rows matching the cherry-name filter.",
		}),
		FalsePositiveDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cherrymap",
			Name:      "false_positive_drops_total",
			Help:      "Matched rows dropped by a correction drop rule.",
		}),
		CultivarRenames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cherrymap",
			Name:      "cultivar_renames_total",
			Help:      "Rows relabeled by a correction rename rule.",
		}),
		RecordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cherrymap",
			Name:      "records_emitted_total",
			Help:      "Cherry records handed to the output sinks.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cherrymap",
			Name:      "pipeline_running",
			Help:      "1 while the batch run is active, 0 after it finishes.",
		}),
		SinkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cherrymap",
			Name:      "sink_duration_seconds",
			Help:      "Time each output sink took to render or publish.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"sink"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cherrymap",
			Name:      "sink_errors_total",
			Help:      "Sink failures by sink name.",
		}, []string{"sink"}),
	}
}
