package controllers

import (
	"net/http"

	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/api/validators"
	"github.com/angelmondragon/vtps-backend/internal/bulk"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

// BulkAlertUpdate applies one status change to many alerts and reports the
// outcome for each id.
func BulkAlertUpdate(svc bulk.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("bulk"))
			return
		}
		var body bulk.AlertUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UpdateAlerts(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func BulkPersonUpdate(svc bulk.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("bulk"))
			return
		}
		var body bulk.PersonUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UpdatePeople(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
