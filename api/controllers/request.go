package controllers

import (
	"net/http"

	"github.com/angelmondragon/vtps-backend/api/middleware"
	"github.com/angelmondragon/vtps-backend/api/validators"
	"github.com/angelmondragon/vtps-backend/internal/access"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// currentPrincipal returns the caller seeded by the auth middleware.
func currentPrincipal(r *http.Request) (access.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication credentials were not provided")
	}
	return p, nil
}

// idParam reads the {id} route segment. A malformed id cannot name an
// existing row, so it is reported as not found.
func idParam(r *http.Request, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, pkgerrors.NotFound(resource)
	}
	return id, nil
}

// decodeUpdate decodes a PUT or PATCH body. PUT additionally requires the
// resource's mandatory fields.
func decodeUpdate(r *http.Request, dest any, required []string) error {
	if err := validators.DecodeUpdateBody(r, dest); err != nil {
		return err
	}
	if r.Method == http.MethodPut && len(required) > 0 {
		return validators.RequireFields(dest, required...)
	}
	return nil
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
