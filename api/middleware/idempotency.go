package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/vtps-backend/api/responses"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/vtps-backend/pkg/redis"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotentReplayHeader  = "Idempotent-Replayed"
	createIdempotencyTTL    = 24 * time.Hour
	bulkIdempotencyTTL      = 7 * 24 * time.Hour
	pendingIdempotencyTTL   = time.Minute
	maxIdempotencyKeyLength = 255
)

// idempotentCollections are the create endpoints a device or dashboard may
// retry after a dropped connection.
var idempotentCollections = map[string]time.Duration{
	"/api/auth/register/":      createIdempotencyTTL,
	"/api/users/":              createIdempotencyTTL,
	"/api/people/":             createIdempotencyTTL,
	"/api/emergency-contacts/": createIdempotencyTTL,
	"/api/locations/":          createIdempotencyTTL,
	"/api/alerts/":             createIdempotencyTTL,
	"/api/safe-zones/":         createIdempotencyTTL,
	"/api/checkin-schedules/":  createIdempotencyTTL,
	"/api/checkin-logs/":       createIdempotencyTTL,
	"/api/notifications/":      createIdempotencyTTL,
	"/api/bulk-alert-update/":  bulkIdempotencyTTL,
	"/api/bulk-person-update/": bulkIdempotencyTTL,
}

// storedResponse is what a retry receives. A record without a status is a
// claim held by a request that has not finished yet.
type storedResponse struct {
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	RequestHash string `json:"request_hash"`
}

func (s storedResponse) pending() bool { return s.Status == 0 }

// Idempotency replays the first successful response for a repeated
// Idempotency-Key on the create and bulk endpoints. The key is claimed before
// the handler runs so concurrent retries get a conflict instead of a second
// insert. Failed responses release the claim.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			ttl, ok := routeTTL(r.Method, r.URL.Path)
			if !ok || header == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(header) > maxIdempotencyKeyLength {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is too long").
					WithDetails(map[string]string{IdempotencyKeyHeader: "must be at most 255 characters"}))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := requestHash(body)
			key := store.IdempotencyKey(UserIDFromContext(ctx)+"|"+r.Method+"|"+r.URL.Path, header)

			claim, _ := json.Marshal(storedResponse{RequestHash: hash})
			claimed, err := store.SetNX(ctx, key, string(claim), pendingIdempotencyTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key"))
				return
			}
			if !claimed {
				replay(ctx, logg, w, store, key, hash)
				return
			}

			rec := &responseCapture{statusRecorder: statusRecorder{ResponseWriter: w}}
			next.ServeHTTP(rec, r)

			status := rec.Status()
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				if err := store.Del(ctx, key); err != nil {
					logError(ctx, logg, "release idempotency claim", err)
				}
				return
			}

			payload, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
				RequestHash: hash,
			})
			if err != nil {
				logError(ctx, logg, "marshal idempotency record", err)
				return
			}
			// the claim is overwritten in place so the key is never free for a retry
			stored, err := store.SetXX(ctx, key, string(payload), ttl)
			if err != nil {
				logError(ctx, logg, "persist idempotency record", err)
				return
			}
			if !stored && logg != nil {
				logg.Warn(ctx, "idempotency claim expired before the response was stored")
			}
		})
	}
}

func replay(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store pkgredis.IdempotencyStore, key, hash string) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// the claim expired or was released between SETNX and GET
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read idempotency record"))
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case stored.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case stored.pending():
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress"))
	default:
		if stored.ContentType != "" {
			w.Header().Set("Content-Type", stored.ContentType)
		}
		w.Header().Set(IdempotentReplayHeader, "true")
		w.WriteHeader(stored.Status)
		_, _ = w.Write(stored.Body)
	}
}

func requestHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func routeTTL(method, path string) (time.Duration, bool) {
	if method != http.MethodPost {
		return 0, false
	}
	ttl, ok := idempotentCollections[path]
	return ttl, ok
}

// responseCapture tees the response so it can be stored for replay.
type responseCapture struct {
	statusRecorder
	body bytes.Buffer
}

func (r *responseCapture) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.statusRecorder.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
