package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/internal/access"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

// Authenticator resolves an opaque bearer token to its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Principal, error)
}

// Auth validates the request token and seeds the context with the principal.
// Both "Bearer <key>" and "Token <key>" schemes are accepted.
func Auth(authn Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromHeader(r.Header.Get("Authorization"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication credentials were not provided"))
				return
			}
			if authn == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
				return
			}

			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithActor(ctx, principal.UserID.String(), string(principal.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromHeader(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	scheme, rest, found := strings.Cut(raw, " ")
	if !found {
		return raw
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(rest)
	}
	return ""
}
