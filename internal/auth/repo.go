package auth

import (
	"context"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository persists the single live bearer token of each user.
type TokenRepository struct {
	repo.Base
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{Base: repo.NewBase(db)}
}

// GetOrCreate stores candidate unless the user already holds a token, then
// returns whichever token is live.
func (r *TokenRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, candidate string) (*models.AuthToken, error) {
	token := models.AuthToken{Key: candidate, UserID: userID}
	err := r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&token).Error
	if err != nil {
		return nil, err
	}
	var live models.AuthToken
	if err := r.DB(ctx).Where("user_id = ?", userID).First(&live).Error; err != nil {
		return nil, err
	}
	return &live, nil
}

// FindByKey loads a token together with its user.
func (r *TokenRepository) FindByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.DB(ctx).Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByUser revokes the user's token if one exists.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.DB(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
