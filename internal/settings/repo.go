package settings

import (
	"context"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderOldestFirst puts the effective row first.
const OrderOldestFirst = "created_at ASC"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.SystemSettings, int64, error) {
	return repo.Page[models.SystemSettings](r.DB(ctx).Model(&models.SystemSettings{}), params, OrderOldestFirst)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SystemSettings, error) {
	return repo.First[models.SystemSettings](r.DB(ctx), id)
}

// Effective returns the oldest settings row.
func (r *Repository) Effective(ctx context.Context) (*models.SystemSettings, error) {
	var row models.SystemSettings
	if err := r.DB(ctx).Order(OrderOldestFirst).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, row *models.SystemSettings) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) Save(ctx context.Context, row *models.SystemSettings) error {
	return r.DB(ctx).Save(row).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.SystemSettings](r.DB(ctx), id)
}
