package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks API request counts, latencies and concurrency.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics registers the API metrics on reg. A nil registerer yields a
// no-op recorder.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vtps_api_requests_total",
		Help: "API requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vtps_api_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vtps_api_active_requests",
		Help: "API requests currently being served.",
	})
	reg.MustRegister(requests, duration, inflight)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		inflight: inflight,
	}
}

// Start marks a request as in flight. The returned func must be called once
// the request completes.
func (m *HTTPMetrics) Start() func() {
	if m == nil || m.inflight == nil {
		return func() {}
	}
	m.inflight.Inc()
	return m.inflight.Dec
}

// Observe records one completed request. route should be the matched route
// pattern so path parameters do not explode label cardinality.
func (m *HTTPMetrics) Observe(method, route string, status int, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = routeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// routeLabel groups requests that matched no route under one label.
func routeLabel(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}
