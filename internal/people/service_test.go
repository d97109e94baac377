package people

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/internal/alerts"
	"github.com/angelmondragon/vtps-backend/internal/contacts"
	"github.com/angelmondragon/vtps-backend/internal/locations"
	"github.com/angelmondragon/vtps-backend/internal/safezones"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/angelmondragon/vtps-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:           pkgdb.NewFromConn(db),
		Repo:         NewRepository(db),
		ContactRepo:  contacts.NewRepository(db),
		ZoneRepo:     safezones.NewRepository(db),
		LocationRepo: locations.NewRepository(db),
		AlertRepo:    alerts.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func intPtr(v int) *int { return &v }

func principal(u *models.User) access.Principal {
	return access.Principal{UserID: u.ID, Role: u.Role}
}

func TestCreateWithNestedContacts(t *testing.T) {
	db := dbtest.Open(t)
	caller := dbtest.SeedUser(t, db, enums.UserRoleCaregiver)
	svc := newTestService(t, db)

	device := "GPS-001"
	detail, err := svc.Create(context.Background(), principal(caller), CreateRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Age:         intPtr(81),
		GPSDeviceID: &device,
		EmergencyContacts: []contacts.Input{
			{Name: "Byron", Relationship: enums.RelationshipParent, Phone: "+15550000001"},
			{Name: "Anne", Relationship: enums.RelationshipParent, Phone: "+15550000002", IsPrimary: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, enums.RiskLevelLow, detail.RiskLevel)
	require.Equal(t, enums.PersonStatusSafe, detail.CurrentStatus)
	require.Equal(t, "Ada Lovelace", detail.FullName)
	require.NotNil(t, detail.CreatedBy)
	require.Equal(t, caller.ID, *detail.CreatedBy)
	require.Len(t, detail.EmergencyContacts, 2)
	require.Equal(t, "Anne", detail.EmergencyContacts[0].Name)
	require.Empty(t, detail.RecentLocations)
	require.Empty(t, detail.ActiveAlerts)
}

func TestCreateRollsBackOnDuplicateDevice(t *testing.T) {
	db := dbtest.Open(t)
	caller := dbtest.SeedUser(t, db, enums.UserRoleCaregiver)
	device := "GPS-dup"
	dbtest.SeedPerson(t, db, caller, func(p *models.VulnerablePerson) { p.GPSDeviceID = &device })
	svc := newTestService(t, db)

	_, err := svc.Create(context.Background(), principal(caller), CreateRequest{
		FirstName:         "Grace",
		LastName:          "Hopper",
		Age:               intPtr(85),
		GPSDeviceID:       &device,
		EmergencyContacts: []contacts.Input{{Name: "Vincent", Relationship: enums.RelationshipSpouse, Phone: "+15550000003"}},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	var count int64
	require.NoError(t, db.Model(&models.EmergencyContact{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateRejectsUnknownSupervisor(t *testing.T) {
	db := dbtest.Open(t)
	caller := dbtest.SeedUser(t, db, enums.UserRoleCaregiver)
	svc := newTestService(t, db)

	missing := uuid.New()
	_, err := svc.Create(context.Background(), principal(caller), CreateRequest{
		FirstName:          "Ada",
		LastName:           "Lovelace",
		Age:                intPtr(81),
		AssignedSupervisor: &missing,
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListSummarizesRelatedRecords(t *testing.T) {
	db := dbtest.Open(t)
	caller := dbtest.SeedUser(t, db, enums.UserRoleOperator)
	older := dbtest.SeedPerson(t, db, caller, func(p *models.VulnerablePerson) {
		p.CreatedAt = time.Now().UTC().Add(-time.Hour)
	})
	newer := dbtest.SeedPerson(t, db, caller, func(p *models.VulnerablePerson) {
		p.FirstName = "Grace"
		p.RiskLevel = enums.RiskLevelHigh
	})

	ctx := context.Background()
	require.NoError(t, contacts.NewRepository(db).Create(ctx, &models.EmergencyContact{
		PersonID: older.ID, Name: "Anne", Relationship: enums.RelationshipParent, Phone: "+15550000001",
	}))
	battery := 42
	base := time.Now().UTC().Add(-10 * time.Minute)
	locRepo := locations.NewRepository(db)
	for i, lat := range []string{"51.50000000", "51.51000000"} {
		require.NoError(t, locRepo.Create(ctx, &models.LocationLog{
			PersonID:     older.ID,
			Latitude:     decimal.RequireFromString(lat),
			Longitude:    decimal.RequireFromString("-0.12000000"),
			BatteryLevel: &battery,
			IsSafeZone:   true,
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}))
	}
	alertRepo := alerts.NewRepository(db)
	for _, status := range []enums.AlertStatus{enums.AlertStatusActive, enums.AlertStatusResolved} {
		require.NoError(t, alertRepo.Create(ctx, &models.Alert{
			PersonID:  older.ID,
			AlertType: enums.AlertTypeBatteryLow,
			Priority:  enums.AlertPriorityLow,
			Status:    status,
			Title:     "Battery",
		}))
	}

	svc := newTestService(t, db)
	page, err := svc.List(ctx, ListFilter{}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Count)
	require.Equal(t, newer.ID, page.Results[0].ID)
	require.Nil(t, page.Results[0].LastLocation)

	item := page.Results[1]
	require.Equal(t, older.ID, item.ID)
	require.EqualValues(t, 1, item.EmergencyContactsCount)
	require.EqualValues(t, 1, item.ActiveAlertsCount)
	require.NotNil(t, item.LastLocation)
	require.True(t, item.LastLocation.Latitude.Equal(decimal.RequireFromString("51.51")))
	require.Equal(t, 42, *item.LastLocation.BatteryLevel)

	high := enums.RiskLevelHigh
	page, err = svc.List(ctx, ListFilter{RiskLevel: &high}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	require.Equal(t, "Grace", page.Results[0].FirstName)

	page, err = svc.List(ctx, ListFilter{Search: "grace"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
}

func TestUpdateRequiresOwnerOrSupervisor(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.SeedUser(t, db, enums.UserRoleCaregiver)
	stranger := dbtest.SeedUser(t, db, enums.UserRoleOperator)
	supervisor := dbtest.SeedUser(t, db, enums.UserRoleSupervisor)
	person := dbtest.SeedPerson(t, db, owner, nil)
	svc := newTestService(t, db)
	ctx := context.Background()

	status := enums.PersonStatusWarning
	_, err := svc.Update(ctx, principal(stranger), person.ID, UpdateRequest{CurrentStatus: &status})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	detail, err := svc.Update(ctx, principal(owner), person.ID, UpdateRequest{
		CurrentStatus:      &status,
		AssignedSupervisor: types.Of(supervisor.ID),
	})
	require.NoError(t, err)
	require.Equal(t, enums.PersonStatusWarning, detail.CurrentStatus)
	require.Equal(t, "Ada", detail.FirstName)
	require.NotNil(t, detail.AssignedSupervisorName)
	require.Equal(t, supervisor.FullName(), *detail.AssignedSupervisorName)

	_, err = svc.Update(ctx, principal(owner), person.ID, UpdateRequest{AssignedSupervisor: types.Of(stranger.ID)})
	require.NoError(t, err)

	// an assigned operator gains write access
	detail, err = svc.Update(ctx, principal(stranger), person.ID, UpdateRequest{AssignedSupervisor: types.Null[uuid.UUID]()})
	require.NoError(t, err)
	require.Nil(t, detail.AssignedSupervisor)
	require.Nil(t, detail.AssignedSupervisorName)
}

func TestDeleteCascadesToRelatedRecords(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.SeedUser(t, db, enums.UserRoleCaregiver)
	person := dbtest.SeedPerson(t, db, owner, nil)
	ctx := context.Background()

	require.NoError(t, contacts.NewRepository(db).Create(ctx, &models.EmergencyContact{
		PersonID: person.ID, Name: "Anne", Relationship: enums.RelationshipParent, Phone: "+15550000001",
	}))
	require.NoError(t, alerts.NewRepository(db).Create(ctx, &models.Alert{
		PersonID: person.ID, AlertType: enums.AlertTypeFallDetection, Priority: enums.AlertPriorityHigh,
		Status: enums.AlertStatusActive, Title: "Fall",
	}))

	svc := newTestService(t, db)
	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, principal(dbtest.SeedUser(t, db, enums.UserRoleOperator)), person.ID), pkgerrors.CodeForbidden))
	require.NoError(t, svc.Delete(ctx, principal(owner), person.ID))

	var contactsLeft, alertsLeft int64
	require.NoError(t, db.Model(&models.EmergencyContact{}).Count(&contactsLeft).Error)
	require.NoError(t, db.Model(&models.Alert{}).Count(&alertsLeft).Error)
	require.Zero(t, contactsLeft)
	require.Zero(t, alertsLeft)

	_, err := svc.Get(ctx, person.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
