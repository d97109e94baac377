package controllers

import (
	"net/http"

	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/api/validators"
	"github.com/angelmondragon/vtps-backend/internal/people"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

// PersonList returns the paginated list representation with contact, alert
// and last-location summaries.
func PersonList(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("people"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := personFilter(r)
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

func personFilter(r *http.Request) (people.ListFilter, error) {
	var (
		filter people.ListFilter
		err    error
	)
	if filter.RiskLevel, err = validators.ParseQueryEnum(r, "risk_level", enums.ParseRiskLevel); err != nil {
		return filter, err
	}
	if filter.CurrentStatus, err = validators.ParseQueryEnum(r, "current_status", enums.ParsePersonStatus); err != nil {
		return filter, err
	}
	if filter.IsBeingMonitored, err = validators.ParseQueryBool(r, "is_being_monitored"); err != nil {
		return filter, err
	}
	if filter.AssignedSupervisor, err = validators.ParseQueryUUID(r, "assigned_supervisor"); err != nil {
		return filter, err
	}
	filter.Search = validators.SearchTerm(r)
	return filter, nil
}

func PersonDetail(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("people"))
			return
		}
		id, err := idParam(r, "person")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// PersonCreate stores a person and any nested emergency contacts in one
// transaction.
func PersonCreate(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("people"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body people.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

func PersonUpdate(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("people"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "person")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body people.UpdateRequest
		if err := decodeUpdate(r, &body, people.PutFields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Update(r.Context(), actor, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func PersonDelete(svc people.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("people"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "person")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
