package controllers

import (
	"net/http"

	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/api/validators"
	"github.com/angelmondragon/vtps-backend/internal/notifications"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

func NotificationList(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("notifications"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := notificationFilter(r)
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

func notificationFilter(r *http.Request) (notifications.ListFilter, error) {
	var (
		filter notifications.ListFilter
		err    error
	)
	if filter.Person, err = validators.ParseQueryUUID(r, "person"); err != nil {
		return filter, err
	}
	if filter.Alert, err = validators.ParseQueryUUID(r, "alert"); err != nil {
		return filter, err
	}
	if filter.NotificationType, err = validators.ParseQueryEnum(r, "notification_type", enums.ParseNotificationType); err != nil {
		return filter, err
	}
	if filter.Status, err = validators.ParseQueryEnum(r, "status", enums.ParseNotificationStatus); err != nil {
		return filter, err
	}
	filter.Search = validators.SearchTerm(r)
	return filter, nil
}

func NotificationDetail(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("notifications"))
			return
		}
		id, err := idParam(r, "notification")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

func NotificationCreate(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("notifications"))
			return
		}
		var body notifications.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func NotificationUpdate(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("notifications"))
			return
		}
		id, err := idParam(r, "notification")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body notifications.UpdateRequest
		if err := decodeUpdate(r, &body, notifications.PutFields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

func NotificationDelete(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("notifications"))
			return
		}
		id, err := idParam(r, "notification")
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
