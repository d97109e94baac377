package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsRecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveRun("location-retention", 250*time.Millisecond, nil)
	m.ObserveRun("location-retention", time.Second, errors.New("boom"))
	m.AddDeleted("location-retention", 42)
	m.AddDeleted("location-retention", 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	success := findMetric(t, mfs, "vtps_cron_job_runs_total", map[string]string{"job": "location-retention", "outcome": "success"})
	require.EqualValues(t, 1, success.GetCounter().GetValue())
	failure := findMetric(t, mfs, "vtps_cron_job_runs_total", map[string]string{"job": "location-retention", "outcome": "failure"})
	require.EqualValues(t, 1, failure.GetCounter().GetValue())

	duration := findMetric(t, mfs, "vtps_cron_job_duration_seconds", map[string]string{"job": "location-retention"})
	require.EqualValues(t, 2, duration.GetHistogram().GetSampleCount())
	require.InDelta(t, 1.25, duration.GetHistogram().GetSampleSum(), 0.001)

	last := findMetric(t, mfs, "vtps_cron_job_last_success_timestamp_seconds", map[string]string{"job": "location-retention"})
	require.Greater(t, last.GetGauge().GetValue(), float64(0))

	deleted := findMetric(t, mfs, "vtps_retention_rows_deleted_total", map[string]string{"job": "location-retention"})
	require.EqualValues(t, 42, deleted.GetCounter().GetValue())
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.ObserveRun("x", time.Second, nil)
	m.AddDeleted("x", 1)

	NewCronJobMetrics(nil).ObserveRun("", time.Second, errors.New("boom"))
}

func findMetric(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelsMatch(metric.GetLabel(), labels) {
				return metric
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return nil
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, p := range pairs {
		if v, ok := want[p.GetName()]; ok {
			if v != p.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(want)
}
