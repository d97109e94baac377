package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	done := m.Start()
	m.Observe("GET", "/api/people/{id}", 200, 15*time.Millisecond)
	done()
	m.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	unmatched := findMetric(t, mfs, "vtps_api_requests_total", map[string]string{"route": "unmatched", "status": "404"})
	require.EqualValues(t, 1, unmatched.GetCounter().GetValue())
	ok := findMetric(t, mfs, "vtps_api_requests_total", map[string]string{"route": "/api/people/{id}", "status": "200"})
	require.EqualValues(t, 1, ok.GetCounter().GetValue())

	latency := findMetric(t, mfs, "vtps_api_request_duration_seconds", map[string]string{"route": "/api/people/{id}"})
	require.Greater(t, latency.GetHistogram().GetSampleSum(), 0.0)

	active := findMetric(t, mfs, "vtps_api_active_requests", nil)
	require.Zero(t, active.GetGauge().GetValue())
}

func TestHTTPMetricsNilRegistererIsNoop(t *testing.T) {
	m := NewHTTPMetrics(nil)
	m.Start()()
	m.Observe("POST", "/api/login/", 200, time.Millisecond)

	var nilMetrics *HTTPMetrics
	nilMetrics.Observe("POST", "/api/login/", 200, time.Millisecond)
}
