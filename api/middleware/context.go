package middleware

import (
	"context"

	"github.com/angelmondragon/vtps-backend/internal/access"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// WithPrincipal stores the authenticated caller on the context.
func WithPrincipal(ctx context.Context, p access.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFromContext returns the caller seeded by Auth.
func PrincipalFromContext(ctx context.Context) (access.Principal, bool) {
	if ctx == nil {
		return access.Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(access.Principal)
	return p, ok
}

func UserIDFromContext(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return ""
	}
	return p.UserID.String()
}

func RoleFromContext(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return ""
	}
	return string(p.Role)
}
