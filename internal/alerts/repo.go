package alerts

import (
	"context"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderNewestFirst is the default alert ordering.
const OrderNewestFirst = "created_at DESC"

var namePreloads = []string{"Person", "AssignedTo", "ResolvedBy"}

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Alert, int64, error) {
	q := r.DB(ctx).Model(&models.Alert{})
	if filter.Person != nil {
		q = q.Where("person_id = ?", *filter.Person)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	if filter.AlertType != nil {
		q = q.Where("alert_type = ?", *filter.AlertType)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedTo)
	}
	q = repo.Search(q, filter.Search, "title", "description", "alert_type", "priority", "status")
	return repo.Page[models.Alert](q, params, OrderNewestFirst, namePreloads...)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	return repo.First[models.Alert](r.withNames(ctx), id)
}

// FindByIDs loads the listed alerts; missing ids are simply absent.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Alert, error) {
	var rows []models.Alert
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// ActiveForPerson returns the person's alerts still in the active status.
func (r *Repository) ActiveForPerson(ctx context.Context, personID uuid.UUID) ([]models.Alert, error) {
	var rows []models.Alert
	err := r.withNames(ctx).
		Where("person_id = ? AND status = ?", personID, enums.AlertStatusActive).
		Order(OrderNewestFirst).
		Find(&rows).Error
	return rows, err
}

// ActiveCounts counts active alerts per listed person.
func (r *Repository) ActiveCounts(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(personIDs))
	if len(personIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PersonID uuid.UUID
		Total    int64
	}
	err := r.DB(ctx).Model(&models.Alert{}).
		Select("person_id, COUNT(*) AS total").
		Where("person_id IN ? AND status = ?", personIDs, enums.AlertStatusActive).
		Group("person_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PersonID] = row.Total
	}
	return out, nil
}

// Recent returns the newest limit alerts across all people.
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.Alert, error) {
	var rows []models.Alert
	err := r.withNames(ctx).Order(OrderNewestFirst).Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, alert *models.Alert) error {
	return r.DB(ctx).Omit(clause.Associations).Create(alert).Error
}

func (r *Repository) Save(ctx context.Context, alert *models.Alert) error {
	return r.DB(ctx).Omit(clause.Associations).Save(alert).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.Alert](r.DB(ctx), id)
}

func (r *Repository) withNames(ctx context.Context) *gorm.DB {
	q := r.DB(ctx)
	for _, name := range namePreloads {
		q = q.Preload(name)
	}
	return q
}

// CountByStatus counts alerts currently in status.
func (r *Repository) CountByStatus(ctx context.Context, status enums.AlertStatus) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Alert{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
