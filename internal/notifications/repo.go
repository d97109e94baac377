package notifications

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

// OrderNewestFirst is the default notification ordering.
const OrderNewestFirst = "created_at DESC"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.NotificationLog, int64, error) {
	q := r.DB(ctx).Model(&models.NotificationLog{})
	if filter.Person != nil {
		q = q.Where("person_id = ?", *filter.Person)
	}
	if filter.Alert != nil {
		q = q.Where("alert_id = ?", *filter.Alert)
	}
	if filter.NotificationType != nil {
		q = q.Where("notification_type = ?", *filter.NotificationType)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	q = repo.Search(q, filter.Search, "recipient", "notification_type", "status")
	return repo.Page[models.NotificationLog](q, params, OrderNewestFirst, "Person", "Alert")
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.NotificationLog, error) {
	return repo.First[models.NotificationLog](r.DB(ctx).Preload("Person").Preload("Alert"), id)
}

// AlertPerson returns the person an alert was raised for.
func (r *Repository) AlertPerson(ctx context.Context, alertID uuid.UUID) (uuid.UUID, error) {
	var alert models.Alert
	if err := r.DB(ctx).Select("id", "person_id").First(&alert, "id = ?", alertID).Error; err != nil {
		return uuid.Nil, err
	}
	return alert.PersonID, nil
}

func (r *Repository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return r.DB(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *Repository) Save(ctx context.Context, entry *models.NotificationLog) error {
	return r.DB(ctx).Omit(clause.Associations).Save(entry).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.NotificationLog](r.DB(ctx), id)
}

// DeleteOlderThan removes entries created before cutoff and returns how many
// were removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Where("created_at < ?", cutoff).Delete(&models.NotificationLog{})
	return res.RowsAffected, res.Error
}
