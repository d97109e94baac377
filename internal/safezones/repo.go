package safezones

import (
	"context"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderByName is the default safe zone ordering.
const OrderByName = "name ASC"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.SafeZone, int64, error) {
	q := r.DB(ctx).Model(&models.SafeZone{})
	if filter.Person != nil {
		q = q.Where("person_id = ?", *filter.Person)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	q = repo.Search(q, filter.Search, "name", "description")
	return repo.Page[models.SafeZone](q, params, OrderByName)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SafeZone, error) {
	return repo.First[models.SafeZone](r.DB(ctx), id)
}

func (r *Repository) Create(ctx context.Context, zone *models.SafeZone) error {
	return r.DB(ctx).Omit(clause.Associations).Create(zone).Error
}

func (r *Repository) Save(ctx context.Context, zone *models.SafeZone) error {
	return r.DB(ctx).Omit(clause.Associations).Save(zone).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.SafeZone](r.DB(ctx), id)
}

// ForPerson returns every zone of a person ordered by name.
func (r *Repository) ForPerson(ctx context.Context, personID uuid.UUID) ([]models.SafeZone, error) {
	var rows []models.SafeZone
	err := r.DB(ctx).Where("person_id = ?", personID).Order(OrderByName).Find(&rows).Error
	return rows, err
}
