package people

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

// OrderNewestFirst is the default person ordering.
const OrderNewestFirst = "created_at DESC"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.VulnerablePerson, int64, error) {
	q := r.DB(ctx).Model(&models.VulnerablePerson{})
	if filter.RiskLevel != nil {
		q = q.Where("risk_level = ?", *filter.RiskLevel)
	}
	if filter.CurrentStatus != nil {
		q = q.Where("current_status = ?", *filter.CurrentStatus)
	}
	if filter.IsBeingMonitored != nil {
		q = q.Where("is_being_monitored = ?", *filter.IsBeingMonitored)
	}
	if filter.AssignedSupervisor != nil {
		q = q.Where("assigned_supervisor_id = ?", *filter.AssignedSupervisor)
	}
	q = repo.Search(q, filter.Search, "first_name", "last_name", "phone", "email")
	return repo.Page[models.VulnerablePerson](q, params, OrderNewestFirst)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VulnerablePerson, error) {
	return repo.First[models.VulnerablePerson](r.DB(ctx).Preload("AssignedSupervisor"), id)
}

// FindByIDs loads the listed people; missing ids are simply absent.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.VulnerablePerson, error) {
	var rows []models.VulnerablePerson
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, person *models.VulnerablePerson) error {
	return r.DB(ctx).Omit(clause.Associations).Create(person).Error
}

func (r *Repository) Save(ctx context.Context, person *models.VulnerablePerson) error {
	return r.DB(ctx).Omit(clause.Associations).Save(person).Error
}

// Delete removes the person; related rows go with it through cascading keys.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.VulnerablePerson](r.DB(ctx), id)
}

// Stats holds the person counters shown on the dashboard.
type Stats struct {
	Total     int64
	Safe      int64
	Warning   int64
	Emergency int64
	Tracked   int64
}

// Stats counts people by status and monitoring flag in one pass.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := r.DB(ctx).Model(&models.VulnerablePerson{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN current_status = ? THEN 1 ELSE 0 END), 0) AS safe, "+
				"COALESCE(SUM(CASE WHEN current_status = ? THEN 1 ELSE 0 END), 0) AS warning, "+
				"COALESCE(SUM(CASE WHEN current_status = ? THEN 1 ELSE 0 END), 0) AS emergency, "+
				"COALESCE(SUM(CASE WHEN is_being_monitored THEN 1 ELSE 0 END), 0) AS tracked",
			enums.PersonStatusSafe, enums.PersonStatusWarning, enums.PersonStatusEmergency,
		).
		Scan(&out).Error
	return out, err
}
