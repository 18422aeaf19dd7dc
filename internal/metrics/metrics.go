package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring processing volume and outcomes
var (
	RunsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspection_runs_processed_total",
			Help: "Total number of inspection files processed, by extraction strategy",
		},
		[]string{"strategy"},
	)

	RunsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inspection_runs_failed_total",
			Help: "Total number of runs that produced no result",
		},
	)

	RowsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inspection_rows_skipped_total",
			Help: "Total number of source rows skipped during extraction",
		},
	)

	FailuresDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspection_failures_detected_total",
			Help: "Total number of mechanical failures detected, by severity",
		},
		[]string{"severity"},
	)

	ProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inspection_processing_duration_seconds",
			Help:    "Duration of one processing run",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(RunsProcessedTotal)
	prometheus.MustRegister(RunsFailedTotal)
	prometheus.MustRegister(RowsSkippedTotal)
	prometheus.MustRegister(FailuresDetectedTotal)
	prometheus.MustRegister(ProcessingDuration)
}
