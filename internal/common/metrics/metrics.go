// internal/common/metrics/metrics.go
package metrics

import (
	"time"

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

	BriefsCompiled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefs_compiled_total",
			Help: "Career briefs compiled, by strategy",
		},
		[]string{"strategy", "cached"},
	)

	BriefCompileFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_compile_failures_total",
			Help: "Career brief compilations that failed, by error code",
		},
		[]string{"code"},
	)

	ClusterMatchScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "career_cluster_match_score",
			Help:    "Match scores of proposed career clusters, by fit tier",
			Buckets: prometheus.LinearBuckets(60, 5, 9),
		},
		[]string{"tier"},
	)

	ReportContractViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_report_contract_violations_total",
			Help: "Generated reports rejected by their output contract",
		},
		[]string{"strategy"},
	)
)

// JobTimer tracks one job from activation to completion.
type JobTimer struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active and returns a timer to finish it.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Done records the outcome. An empty errorCode counts as completed.
func (t *JobTimer) Done(errorCode string) {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}
