package controllers

import (
	"net/http"

	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/api/validators"
	"github.com/angelmondragon/vtps-backend/internal/contacts"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

func ContactList(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("contacts"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		person, err := validators.ParseQueryUUID(r, "person")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		primary, err := validators.ParseQueryBool(r, "is_primary")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := contacts.ListFilter{Person: person, IsPrimary: primary, Search: validators.SearchTerm(r)}
		page, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ContactDetail(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("contacts"))
			return
		}
		id, err := idParam(r, "emergency contact")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contact, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contact)
	}
}

func ContactCreate(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("contacts"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body contacts.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contact, err := svc.Create(r.Context(), actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, contact)
	}
}

func ContactUpdate(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("contacts"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "emergency contact")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body contacts.UpdateRequest
		if err := decodeUpdate(r, &body, contacts.PutFields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contact, err := svc.Update(r.Context(), actor, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contact)
	}
}

func ContactDelete(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("contacts"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "emergency contact")
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
