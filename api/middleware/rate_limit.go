package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/vtps-backend/api/responses"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/go-chi/httprate"
)

// RateLimit caps authenticated API traffic per user, falling back to the
// client IP when no principal is present. Non-positive settings disable it.
func RateLimit(requests int, window time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(principalKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
		}),
	)
}

func principalKey(r *http.Request) (string, error) {
	if id := UserIDFromContext(r.Context()); id != "" {
		return "user:" + id, nil
	}
	ip, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + ip, nil
}
