package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/alerts"
	"github.com/angelmondragon/vtps-backend/internal/contacts"
	"github.com/angelmondragon/vtps-backend/internal/locations"
	"github.com/angelmondragon/vtps-backend/internal/people"
	"github.com/angelmondragon/vtps-backend/internal/safezones"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	peopleRepo := people.NewRepository(db)
	alertRepo := alerts.NewRepository(db)
	peopleSvc, err := people.NewService(people.ServiceParams{
		DB:           pkgdb.NewFromConn(db),
		Repo:         peopleRepo,
		ContactRepo:  contacts.NewRepository(db),
		ZoneRepo:     safezones.NewRepository(db),
		LocationRepo: locations.NewRepository(db),
		AlertRepo:    alertRepo,
	})
	require.NoError(t, err)
	svc, err := NewService(peopleRepo, alertRepo, peopleSvc)
	require.NoError(t, err)
	return svc
}

func TestStatsOnEmptyDatabase(t *testing.T) {
	svc := newTestService(t, dbtest.Open(t))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.TotalPeople)
	require.Zero(t, stats.ActiveAlerts)
	require.Empty(t, stats.RecentAlerts)
	require.Empty(t, stats.PeopleStatus)
}

func TestStatsCountsAndPreviews(t *testing.T) {
	db := dbtest.Open(t)
	base := time.Now().UTC().Add(-time.Hour)
	statuses := []enums.PersonStatus{enums.PersonStatusSafe, enums.PersonStatusWarning, enums.PersonStatusEmergency}

	var persons []*models.VulnerablePerson
	for i := 0; i < 12; i++ {
		i := i
		persons = append(persons, dbtest.SeedPerson(t, db, nil, func(p *models.VulnerablePerson) {
			p.FirstName = fmt.Sprintf("P%02d", i)
			p.CurrentStatus = statuses[i%3]
			p.IsBeingMonitored = i%2 == 0
			p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		}))
	}

	alertRepo := alerts.NewRepository(db)
	ctx := context.Background()
	for i := 0; i < 11; i++ {
		status := enums.AlertStatusActive
		if i%4 == 0 {
			status = enums.AlertStatusResolved
		}
		require.NoError(t, alertRepo.Create(ctx, &models.Alert{
			PersonID:  persons[0].ID,
			AlertType: enums.AlertTypeBatteryLow,
			Priority:  enums.AlertPriorityLow,
			Status:    status,
			Title:     fmt.Sprintf("A%02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	stats, err := newTestService(t, db).Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 12, stats.TotalPeople)
	require.EqualValues(t, 4, stats.SafeCount)
	require.EqualValues(t, 4, stats.WarningCount)
	require.EqualValues(t, 4, stats.EmergencyCount)
	require.EqualValues(t, 6, stats.TotalTracked)
	require.EqualValues(t, 8, stats.ActiveAlerts)

	require.Len(t, stats.RecentAlerts, 10)
	require.Equal(t, "A10", stats.RecentAlerts[0].Title)
	require.Len(t, stats.PeopleStatus, 10)
	require.Equal(t, "P11", stats.PeopleStatus[0].FirstName)
	require.EqualValues(t, 0, stats.PeopleStatus[0].ActiveAlertsCount)
}
