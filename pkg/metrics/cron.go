package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics tracks retention sweeps: how long they take, how they end
// and how many rows they remove.
type CronJobMetrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	deleted     *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron metrics on reg. A nil registerer
// yields a no-op recorder.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	m := &CronJobMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vtps_cron_job_runs_total",
			Help: "Cron job runs by outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vtps_cron_job_duration_seconds",
			Help:    "Cron job duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vtps_cron_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}, []string{"job"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vtps_retention_rows_deleted_total",
			Help: "Rows removed by retention sweeps.",
		}, []string{"job"}),
	}
	reg.MustRegister(m.runs, m.duration, m.lastSuccess, m.deleted)
	return m
}

// ObserveRun records one finished run. A nil err counts as success.
func (c *CronJobMetrics) ObserveRun(job string, took time.Duration, err error) {
	if c == nil || c.runs == nil {
		return
	}
	job = jobLabel(job)
	c.duration.WithLabelValues(job).Observe(took.Seconds())
	if err != nil {
		c.runs.WithLabelValues(job, "failure").Inc()
		return
	}
	c.runs.WithLabelValues(job, "success").Inc()
	c.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

// AddDeleted counts rows removed by a sweep.
func (c *CronJobMetrics) AddDeleted(job string, rows int64) {
	if c == nil || c.deleted == nil || rows <= 0 {
		return
	}
	c.deleted.WithLabelValues(jobLabel(job)).Add(float64(rows))
}

func jobLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
