package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthenticator struct {
	tokens map[string]access.Principal
	seen   string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (access.Principal, error) {
	s.seen = token
	p, ok := s.tokens[token]
	if !ok {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}
	return p, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(&stubAuthenticator{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	handler := Auth(&stubAuthenticator{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsUnsupportedScheme(t *testing.T) {
	authn := &stubAuthenticator{tokens: map[string]access.Principal{"abc": {UserID: uuid.New()}}}
	handler := Auth(authn, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if authn.seen != "" {
		t.Fatalf("authenticator should not be consulted, saw %q", authn.seen)
	}
}

func TestAuthSeedsPrincipal(t *testing.T) {
	userID := uuid.New()
	authn := &stubAuthenticator{tokens: map[string]access.Principal{
		"k3y": {UserID: userID, Role: enums.UserRoleCaregiver},
	}}

	for _, header := range []string{"Bearer k3y", "Token k3y", "token   k3y"} {
		var captured access.Principal
		handler := Auth(authn, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%q: expected 200 got %d", header, resp.Code)
		}
		if captured.UserID != userID || captured.Role != enums.UserRoleCaregiver {
			t.Fatalf("%q: unexpected principal %+v", header, captured)
		}
	}
}

func TestRequireSupervisorOrAdmin(t *testing.T) {
	cases := []struct {
		name      string
		principal *access.Principal
		want      int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"operator", &access.Principal{UserID: uuid.New(), Role: enums.UserRoleOperator}, http.StatusForbidden},
		{"caregiver superuser", &access.Principal{UserID: uuid.New(), Role: enums.UserRoleCaregiver, IsSuperuser: true}, http.StatusOK},
		{"supervisor", &access.Principal{UserID: uuid.New(), Role: enums.UserRoleSupervisor}, http.StatusOK},
		{"admin", &access.Principal{UserID: uuid.New(), Role: enums.UserRoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		handler := RequireSupervisorOrAdmin(nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
		if tc.principal != nil {
			req = req.WithContext(WithPrincipal(req.Context(), *tc.principal))
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}
