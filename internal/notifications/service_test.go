package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/angelmondragon/vtps-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedAlert(t *testing.T, r *Repository, personID uuid.UUID) *models.Alert {
	t.Helper()
	alert := &models.Alert{
		PersonID:  personID,
		AlertType: enums.AlertTypeEmergencyButton,
		Priority:  enums.AlertPriorityCritical,
		Status:    enums.AlertStatusActive,
		Title:     "Panic button",
	}
	require.NoError(t, r.DB(context.Background()).Create(alert).Error)
	return alert
}

func TestCreateDefaultsAndNames(t *testing.T) {
	db := dbtest.Open(t)
	person := dbtest.SeedPerson(t, db, nil, nil)
	repo := NewRepository(db)
	alert := seedAlert(t, repo, person.ID)
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateRequest{
		Alert:            &alert.ID,
		Person:           person.ID,
		Recipient:        "+15551234567",
		NotificationType: enums.NotificationTypeSMS,
		Message:          "Ada pressed the panic button",
	})
	require.NoError(t, err)
	require.Equal(t, enums.NotificationStatusPending, created.Status)
	require.Equal(t, "Ada Lovelace", created.PersonName)
	require.NotNil(t, created.AlertTitle)
	require.Equal(t, "Panic button", *created.AlertTitle)

	_, err = svc.Create(context.Background(), CreateRequest{
		Alert:            ptr(uuid.New()),
		Person:           person.ID,
		Recipient:        "ops@example.com",
		NotificationType: enums.NotificationTypeEmail,
		Message:          "x",
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), CreateRequest{
		Person:           uuid.New(),
		Recipient:        "ops@example.com",
		NotificationType: enums.NotificationTypeEmail,
		Message:          "x",
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateDeliveryAndClearAlert(t *testing.T) {
	db := dbtest.Open(t)
	person := dbtest.SeedPerson(t, db, nil, nil)
	repo := NewRepository(db)
	alert := seedAlert(t, repo, person.ID)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Alert:            &alert.ID,
		Person:           person.ID,
		Recipient:        "device-token",
		NotificationType: enums.NotificationTypePush,
		Message:          "Check on Ada",
	})
	require.NoError(t, err)

	delivered := enums.NotificationStatusDelivered
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, created.ID, UpdateRequest{
		Status:      &delivered,
		DeliveredAt: types.Of(at),
		Alert:       types.Null[uuid.UUID](),
	})
	require.NoError(t, err)
	require.Equal(t, enums.NotificationStatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)
	require.True(t, at.Equal(*updated.DeliveredAt))
	require.Nil(t, updated.Alert)
	require.Nil(t, updated.AlertTitle)
	require.Equal(t, "Check on Ada", updated.Message)

	page, err := svc.List(ctx, ListFilter{Status: &delivered}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)

	page, err = svc.List(ctx, ListFilter{Search: "PUSH"}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
}

func TestDeleteOlderThan(t *testing.T) {
	db := dbtest.Open(t)
	person := dbtest.SeedPerson(t, db, nil, nil)
	repo := NewRepository(db)
	ctx := context.Background()

	old := &models.NotificationLog{
		PersonID: person.ID, Recipient: "a", NotificationType: enums.NotificationTypeSMS,
		Status: enums.NotificationStatusSent, Message: "old", CreatedAt: time.Now().UTC().AddDate(0, 0, -400),
	}
	fresh := &models.NotificationLog{
		PersonID: person.ID, Recipient: "b", NotificationType: enums.NotificationTypeSMS,
		Status: enums.NotificationStatusSent, Message: "fresh",
	}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))

	removed, err := repo.DeleteOlderThan(ctx, time.Now().UTC().AddDate(0, 0, -365))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, err = repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }
