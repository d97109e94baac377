package checkins

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func principal(u *models.User) access.Principal {
	return access.Principal{UserID: u.ID, Role: u.Role}
}

func TestScheduleDefaultsAndOwnership(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.SeedUser(t, db, enums.UserRoleCaregiver)
	stranger := dbtest.SeedUser(t, db, enums.UserRoleOperator)
	person := dbtest.SeedPerson(t, db, owner, nil)
	svc, err := NewScheduleService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	req := ScheduleCreateRequest{Person: person.ID, Name: "Morning call", ScheduledTime: "08:30"}
	_, err = svc.Create(ctx, principal(stranger), req)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	created, err := svc.Create(ctx, principal(owner), req)
	require.NoError(t, err)
	require.Equal(t, enums.CheckInFrequencyDaily, created.Frequency)
	require.Equal(t, "1234567", created.DaysOfWeek)
	require.Equal(t, 30, created.ReminderMinutesBefore)
	require.True(t, created.IsActive)
	require.Equal(t, "Ada Lovelace", created.PersonName)

	inactive := false
	_, err = svc.Update(ctx, principal(stranger), created.ID, ScheduleUpdateRequest{IsActive: &inactive})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	updated, err := svc.Update(ctx, principal(owner), created.ID, ScheduleUpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
	require.Equal(t, "Morning call", updated.Name)

	page, err := svc.List(ctx, ScheduleFilter{IsActive: &inactive}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)

	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, principal(stranger), created.ID), pkgerrors.CodeForbidden))
	require.NoError(t, svc.Delete(ctx, principal(owner), created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLogCreateCopiesPersonFromSchedule(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.SeedUser(t, db, enums.UserRoleCaregiver)
	person := dbtest.SeedPerson(t, db, owner, nil)
	repo := NewRepository(db)
	schedules, err := NewScheduleService(repo)
	require.NoError(t, err)
	logs, err := NewLogService(repo)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	logs.(*logService).now = func() time.Time { return fixed }
	ctx := context.Background()

	schedule, err := schedules.Create(ctx, principal(owner), ScheduleCreateRequest{Person: person.ID, Name: "Evening", ScheduledTime: "19:00:00"})
	require.NoError(t, err)

	entry, err := logs.Create(ctx, LogCreateRequest{Schedule: schedule.ID, Notes: "all good", Location: "home"})
	require.NoError(t, err)
	require.Equal(t, person.ID, entry.Person)
	require.Equal(t, "Ada Lovelace", entry.PersonName)
	require.Equal(t, "Evening", entry.ScheduleName)
	require.Equal(t, enums.CheckInStatusCompleted, entry.Status)
	require.NotNil(t, entry.ActualTime)
	require.True(t, fixed.Equal(*entry.ActualTime))
	require.True(t, fixed.Equal(entry.ScheduledTime))

	_, err = logs.Create(ctx, LogCreateRequest{Schedule: uuid.New()})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	late := enums.CheckInStatusLate
	updated, err := logs.Update(ctx, entry.ID, LogUpdateRequest{Status: &late})
	require.NoError(t, err)
	require.Equal(t, enums.CheckInStatusLate, updated.Status)
	require.Equal(t, "all good", updated.Notes)

	page, err := logs.List(ctx, LogFilter{Search: "lovelace"}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)

	page, err = logs.List(ctx, LogFilter{Status: &late, Schedule: &schedule.ID}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)

	// deleting the schedule takes its log entries with it
	require.NoError(t, schedules.Delete(ctx, principal(owner), schedule.ID))
	_, err = logs.Get(ctx, entry.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
