package controllers

import (
	"net/http"

	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/api/validators"
	"github.com/angelmondragon/vtps-backend/internal/alerts"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

func AlertList(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("alerts"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := alertFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func alertFilter(r *http.Request) (alerts.ListFilter, error) {
	var (
		filter alerts.ListFilter
		err    error
	)
	if filter.Person, err = validators.ParseQueryUUID(r, "person"); err != nil {
		return filter, err
	}
	if filter.Status, err = validators.ParseQueryEnum(r, "status", enums.ParseAlertStatus); err != nil {
		return filter, err
	}
	if filter.Priority, err = validators.ParseQueryEnum(r, "priority", enums.ParseAlertPriority); err != nil {
		return filter, err
	}
	if filter.AlertType, err = validators.ParseQueryEnum(r, "alert_type", enums.ParseAlertType); err != nil {
		return filter, err
	}
	if filter.AssignedTo, err = validators.ParseQueryUUID(r, "assigned_to"); err != nil {
		return filter, err
	}
	filter.Search = validators.SearchTerm(r)
	return filter, nil
}

func AlertDetail(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("alerts"))
			return
		}
		id, err := idParam(r, "alert")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		alert, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alert)
	}
}

// AlertCreate raises an alert assigned to the caller.
func AlertCreate(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("alerts"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body alerts.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		alert, err := svc.Create(r.Context(), actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, alert)
	}
}

// AlertUpdate serves both PUT and PATCH: only status, assigned_to and
// resolution_notes are writable, each optional.
func AlertUpdate(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("alerts"))
			return
		}
		id, err := idParam(r, "alert")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body alerts.UpdateRequest
		if err := validators.DecodeUpdateBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		alert, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alert)
	}
}

func AlertDelete(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("alerts"))
			return
		}
		id, err := idParam(r, "alert")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
