package controllers

import (
	"net/http"

	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/api/validators"
	"github.com/angelmondragon/vtps-backend/internal/checkins"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

func ScheduleList(svc checkins.ScheduleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in schedules"))
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
		active, err := validators.ParseQueryBool(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := checkins.ScheduleFilter{Person: person, IsActive: active, Search: validators.SearchTerm(r)}
		page, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ScheduleDetail(svc checkins.ScheduleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in schedules"))
			return
		}
		id, err := idParam(r, "check-in schedule")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		schedule, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, schedule)
	}
}

func ScheduleCreate(svc checkins.ScheduleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in schedules"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body checkins.ScheduleCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		schedule, err := svc.Create(r.Context(), actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, schedule)
	}
}

func ScheduleUpdate(svc checkins.ScheduleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in schedules"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "check-in schedule")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body checkins.ScheduleUpdateRequest
		if err := decodeUpdate(r, &body, checkins.SchedulePutFields); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		schedule, err := svc.Update(r.Context(), actor, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, schedule)
	}
}

func ScheduleDelete(svc checkins.ScheduleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in schedules"))
			return
		}
		actor, err := currentPrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r, "check-in schedule")
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

func CheckInLogList(svc checkins.LogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in logs"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := checkInLogFilter(r)
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

func checkInLogFilter(r *http.Request) (checkins.LogFilter, error) {
	var (
		filter checkins.LogFilter
		err    error
	)
	if filter.Person, err = validators.ParseQueryUUID(r, "person"); err != nil {
		return filter, err
	}
	if filter.Status, err = validators.ParseQueryEnum(r, "status", enums.ParseCheckInStatus); err != nil {
		return filter, err
	}
	if filter.Schedule, err = validators.ParseQueryUUID(r, "schedule"); err != nil {
		return filter, err
	}
	filter.Search = validators.SearchTerm(r)
	return filter, nil
}

func CheckInLogDetail(svc checkins.LogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in logs"))
			return
		}
		id, err := idParam(r, "check-in log")
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

// CheckInLogCreate completes a check-in against a schedule.
func CheckInLogCreate(svc checkins.LogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in logs"))
			return
		}
		var body checkins.LogCreateRequest
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

func CheckInLogUpdate(svc checkins.LogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in logs"))
			return
		}
		id, err := idParam(r, "check-in log")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body checkins.LogUpdateRequest
		if err := decodeUpdate(r, &body, checkins.LogPutFields); err != nil {
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

func CheckInLogDelete(svc checkins.LogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("check-in logs"))
			return
		}
		id, err := idParam(r, "check-in log")
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
