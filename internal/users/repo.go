package users

import (
	"context"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one page of users ordered by username.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.User, int64, error) {
	q := r.DB(ctx).Model(&models.User{})
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.IsActiveSession != nil {
		q = q.Where("is_active_session = ?", *filter.IsActiveSession)
	}
	q = repo.Search(q, filter.Search, "username", "email", "first_name", "last_name", "role")
	return repo.Page[models.User](q, params, "username ASC")
}

// Save writes every column of user.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Save(user).Error
}

// Delete removes the user; gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetActiveSession flips is_active_session; the save hook refreshes last_activity.
func (r *Repository) SetActiveSession(ctx context.Context, id uuid.UUID, active bool) error {
	return r.DB(ctx).
		Model(&models.User{ID: id}).
		Updates(map[string]any{"is_active_session": active}).Error
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdatePasswordHash replaces the stored hash without touching other columns.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}
