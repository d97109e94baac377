package locations

import (
	"context"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderNewestFirst is the location log ordering everywhere.
const OrderNewestFirst = "location_logs.timestamp DESC"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.LocationLog, int64, error) {
	q := r.DB(ctx).Model(&models.LocationLog{})
	if filter.Person != nil {
		q = q.Where("location_logs.person_id = ?", *filter.Person)
	}
	if filter.IsSafeZone != nil {
		q = q.Where("location_logs.is_safe_zone = ?", *filter.IsSafeZone)
	}
	if filter.Search != "" {
		q = q.Joins("JOIN vulnerable_people ON vulnerable_people.id = location_logs.person_id")
		q = repo.Search(q, filter.Search, "vulnerable_people.first_name", "vulnerable_people.last_name")
	}
	return repo.Page[models.LocationLog](q, params, OrderNewestFirst, "Person")
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LocationLog, error) {
	return repo.First[models.LocationLog](r.DB(ctx).Preload("Person"), id)
}

// FindPersonByDevice resolves the person carrying the GPS device.
func (r *Repository) FindPersonByDevice(ctx context.Context, deviceID string) (*models.VulnerablePerson, error) {
	var person models.VulnerablePerson
	if err := r.DB(ctx).Where("gps_device_id = ?", deviceID).First(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *Repository) Create(ctx context.Context, entry *models.LocationLog) error {
	return r.DB(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.LocationLog](r.DB(ctx), id)
}

// Recent returns the newest limit entries of a person.
func (r *Repository) Recent(ctx context.Context, personID uuid.UUID, limit int) ([]models.LocationLog, error) {
	var rows []models.LocationLog
	err := r.DB(ctx).
		Preload("Person").
		Where("person_id = ?", personID).
		Order(OrderNewestFirst).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Latest returns the newest entry of each listed person.
func (r *Repository) Latest(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]models.LocationLog, error) {
	out := make(map[uuid.UUID]models.LocationLog, len(personIDs))
	if len(personIDs) == 0 {
		return out, nil
	}
	var rows []models.LocationLog
	err := r.DB(ctx).
		Where("person_id IN ?", personIDs).
		Where("timestamp = (SELECT MAX(l2.timestamp) FROM location_logs l2 WHERE l2.person_id = location_logs.person_id)").
		Order(OrderNewestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, seen := out[row.PersonID]; !seen {
			out[row.PersonID] = row
		}
	}
	return out, nil
}

// DeleteOlderThan removes entries recorded before cutoff and returns how many
// were removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Where("timestamp < ?", cutoff).Delete(&models.LocationLog{})
	return res.RowsAffected, res.Error
}
