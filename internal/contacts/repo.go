package contacts

import (
	"context"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderPrimaryFirst sorts primary contacts first, then by name.
const OrderPrimaryFirst = "is_primary DESC, name ASC"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.EmergencyContact, int64, error) {
	q := r.DB(ctx).Model(&models.EmergencyContact{})
	if filter.Person != nil {
		q = q.Where("person_id = ?", *filter.Person)
	}
	if filter.IsPrimary != nil {
		q = q.Where("is_primary = ?", *filter.IsPrimary)
	}
	q = repo.Search(q, filter.Search, "name", "relationship", "phone", "email")
	return repo.Page[models.EmergencyContact](q, params, OrderPrimaryFirst)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.EmergencyContact, error) {
	return repo.First[models.EmergencyContact](r.DB(ctx), id)
}

// CreateMany inserts contacts in the order given.
func (r *Repository) CreateMany(ctx context.Context, rows []*models.EmergencyContact) error {
	for _, c := range rows {
		if err := r.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, contact *models.EmergencyContact) error {
	return r.DB(ctx).Omit(clause.Associations).Create(contact).Error
}

func (r *Repository) Save(ctx context.Context, contact *models.EmergencyContact) error {
	return r.DB(ctx).Omit(clause.Associations).Save(contact).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.EmergencyContact](r.DB(ctx), id)
}

// ForPerson returns all contacts of a person in display order.
func (r *Repository) ForPerson(ctx context.Context, personID uuid.UUID) ([]models.EmergencyContact, error) {
	var rows []models.EmergencyContact
	err := r.DB(ctx).Where("person_id = ?", personID).Order(OrderPrimaryFirst).Find(&rows).Error
	return rows, err
}

// CountByPerson counts contacts per listed person.
func (r *Repository) CountByPerson(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(personIDs))
	if len(personIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PersonID uuid.UUID
		Total    int64
	}
	err := r.DB(ctx).Model(&models.EmergencyContact{}).
		Select("person_id, COUNT(*) AS total").
		Where("person_id IN ?", personIDs).
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
