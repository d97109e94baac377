package settings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateAppliesDefaultsAndHidesKey(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db), 0)
	require.NoError(t, err)

	key := "pk.secret"
	sms := false
	created, err := svc.Create(context.Background(), Request{MapboxAPIKey: &key, EnableSMSAlerts: &sms})
	require.NoError(t, err)
	require.False(t, created.EnableSMSAlerts)
	require.True(t, created.EnableEmailAlerts)
	require.Equal(t, 5, created.LocationUpdateIntervalMinutes)
	require.Equal(t, 365, created.DataRetentionDays)

	raw, err := json.Marshal(created)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "mapbox")
	require.NotContains(t, string(raw), key)

	var stored models.SystemSettings
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, key, stored.MapboxAPIKey)
}

func TestRetentionDaysUsesOldestRow(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, 90)
	require.NoError(t, err)
	ctx := context.Background()

	days, err := svc.RetentionDays(ctx)
	require.NoError(t, err)
	require.Equal(t, 90, days)

	first := Defaults()
	first.DataRetentionDays = 30
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, first))
	second := Defaults()
	second.DataRetentionDays = 7
	require.NoError(t, repo.Create(ctx, second))

	days, err = svc.RetentionDays(ctx)
	require.NoError(t, err)
	require.Equal(t, 30, days)

	page, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Count)
	require.Equal(t, first.ID, page.Results[0].ID)
}

func TestUpdateAndDelete(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db), 0)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, Request{})
	require.NoError(t, err)

	limit := 250
	updated, err := svc.Update(ctx, created.ID, Request{MaxActiveAlerts: &limit})
	require.NoError(t, err)
	require.Equal(t, 250, updated.MaxActiveAlerts)
	require.Equal(t, 60, updated.SessionTimeoutMinutes)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Update(ctx, uuid.New(), Request{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
