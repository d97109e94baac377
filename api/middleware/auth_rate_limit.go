package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/angelmondragon/vtps-backend/api/responses"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

// RateLimiterStore is the counter surface backing the auth throttles.
type RateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy caps attempts per client IP and per username within a
// fixed window. A zero limit disables that dimension.
type AuthRateLimitPolicy struct {
	name        string
	window      time.Duration
	perIP       int
	perUsername int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, usernameLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, perIP: ipLimit, perUsername: usernameLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.perIP > 0 || p.perUsername > 0)
}

func (p AuthRateLimitPolicy) key(scope, identity string) string {
	return "rl:" + p.name + ":" + scope + ":" + identity
}

// throttle is one counter checked for a request.
type throttle struct {
	scope    string
	identity string
	limit    int
}

// throttles lists the counters that apply to r. Reading the username
// consumes the body, so it is restored for the handler.
func (p AuthRateLimitPolicy) throttles(r *http.Request) ([]throttle, error) {
	var out []throttle
	if p.perIP > 0 {
		if ip, err := httprate.KeyByRealIP(r); err == nil && ip != "" {
			out = append(out, throttle{scope: "ip", identity: ip, limit: p.perIP})
		}
	}
	if p.perUsername > 0 && r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		if username := usernameOf(body); username != "" {
			// usernames never reach redis in the clear
			out = append(out, throttle{scope: "username", identity: sha256Hex(username), limit: p.perUsername})
		}
	}
	return out, nil
}

// AuthRateLimit guards login and register against credential stuffing.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			checks, err := policy.throttles(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			for _, t := range checks {
				count, err := store.IncrWithTTL(ctx, policy.key(t.scope, t.identity), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > int64(t.limit) {
					rejectAttempt(ctx, logg, w, policy, t, count)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rejectAttempt(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, t throttle, count int64) {
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":   policy.name,
			"scope":    t.scope,
			"identity": t.identity,
			"attempts": count,
			"limit":    t.limit,
		}), "auth.rate_limited")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

func usernameOf(payload []byte) string {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Username))
}

func sha256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
