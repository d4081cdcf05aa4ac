// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AssignmentLinesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_lines_scored_total",
			Help: "Total number of input lines scored, by solver strategy and outcome",
		},
		[]string{"strategy", "status"},
	)

	AssignmentSolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assignment_solve_duration_seconds",
			Help:    "Time spent inside the assignment solver",
			Buckets: []float64{.00001, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"strategy"},
	)

	ScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_score_cache_lookups_total",
			Help: "Score cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
