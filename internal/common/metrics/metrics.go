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

	QuestionsAnswered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_questions_answered_total",
			Help: "Total questions answered, by primary intent category",
		},
		[]string{"category"},
	)

	GapAnalysesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_gap_analyses_total",
			Help: "Total gap analyses completed, by overall score category",
		},
		[]string{"score"},
	)

	BenchmarkFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchmark_default_fallbacks_total",
			Help: "Benchmark fetches that degraded to built-in defaults",
		},
		[]string{"benchmark_type"},
	)
)
