package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRecovererReturnsInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestRequestIDEchoesOrMints(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(requestIDHeader)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Header().Get(requestIDHeader) != "req-123" || seen != "req-123" {
		t.Fatalf("expected request id to be echoed, got %q", resp.Header().Get(requestIDHeader))
	}

	for _, inbound := range []string{"", "bad id\nforged=1", string(make([]byte, maxRequestIDLength+1))} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if inbound != "" {
			req.Header.Set(requestIDHeader, inbound)
		}
		resp = httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if _, err := uuid.Parse(resp.Header().Get(requestIDHeader)); err != nil {
			t.Fatalf("inbound %q: expected minted uuid, got %q", inbound, resp.Header().Get(requestIDHeader))
		}
	}
}

func TestRateLimitKeysByPrincipal(t *testing.T) {
	limiter := RateLimit(1, time.Minute, nil)
	handler := limiter(okHandler())

	first := access.Principal{UserID: uuid.New()}
	second := access.Principal{UserID: uuid.New()}

	call := func(p access.Principal) int {
		req := httptest.NewRequest(http.MethodGet, "/api/people/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(WithPrincipal(req.Context(), p))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := call(first); code != http.StatusOK {
		t.Fatalf("expected first call allowed, got %d", code)
	}
	if code := call(first); code != http.StatusTooManyRequests {
		t.Fatalf("expected second call limited, got %d", code)
	}
	if code := call(second); code != http.StatusOK {
		t.Fatalf("expected other user allowed from same ip, got %d", code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, time.Minute, nil)(okHandler())
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(Metrics(metrics.NewHTTPMetrics(reg)))
	r.Get("/api/people/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	id := uuid.NewString()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/people/"+id+"/", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "vtps_api_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" && l.GetValue() == "/api/people/{id}" {
					found = true
				}
				if l.GetValue() == id {
					t.Fatalf("raw id leaked into labels")
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected route pattern label")
	}
}
