package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/vtps-backend/pkg/metrics"
)

// Metrics records request counts and latency labelled by the matched chi
// route pattern.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := m.Start()
			defer done()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			// the pattern is only complete once routing has finished
			m.Observe(r.Method, matchedPattern(r), rec.Status(), time.Since(start))
		})
	}
}

// matchedPattern returns the chi route pattern once routing has completed.
func matchedPattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		return ctx.RoutePattern()
	}
	return ""
}
