package checkins

import (
	"context"

	"github.com/angelmondragon/vtps-backend/internal/repo"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// OrderSchedulesByName lists schedules alphabetically.
	OrderSchedulesByName = "check_in_schedules.name ASC"
	// OrderLogsNewestFirst lists log entries by scheduled time, newest first.
	OrderLogsNewestFirst = "check_in_logs.scheduled_time DESC"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) ListSchedules(ctx context.Context, filter ScheduleFilter, params pagination.Params) ([]models.CheckInSchedule, int64, error) {
	q := r.DB(ctx).Model(&models.CheckInSchedule{})
	if filter.Person != nil {
		q = q.Where("person_id = ?", *filter.Person)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	q = repo.Search(q, filter.Search, "name", "frequency")
	return repo.Page[models.CheckInSchedule](q, params, OrderSchedulesByName, "Person")
}

func (r *Repository) FindSchedule(ctx context.Context, id uuid.UUID) (*models.CheckInSchedule, error) {
	return repo.First[models.CheckInSchedule](r.DB(ctx).Preload("Person"), id)
}

func (r *Repository) CreateSchedule(ctx context.Context, schedule *models.CheckInSchedule) error {
	return r.DB(ctx).Omit(clause.Associations).Create(schedule).Error
}

func (r *Repository) SaveSchedule(ctx context.Context, schedule *models.CheckInSchedule) error {
	return r.DB(ctx).Omit(clause.Associations).Save(schedule).Error
}

// DeleteSchedule removes the schedule together with its log entries.
func (r *Repository) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.CheckInSchedule](r.DB(ctx), id)
}

func (r *Repository) ListLogs(ctx context.Context, filter LogFilter, params pagination.Params) ([]models.CheckInLog, int64, error) {
	q := r.DB(ctx).Model(&models.CheckInLog{})
	if filter.Person != nil {
		q = q.Where("check_in_logs.person_id = ?", *filter.Person)
	}
	if filter.Status != nil {
		q = q.Where("check_in_logs.status = ?", *filter.Status)
	}
	if filter.Schedule != nil {
		q = q.Where("check_in_logs.schedule_id = ?", *filter.Schedule)
	}
	if filter.Search != "" {
		q = q.Joins("JOIN vulnerable_people ON vulnerable_people.id = check_in_logs.person_id")
		q = repo.Search(q, filter.Search, "vulnerable_people.first_name", "vulnerable_people.last_name", "check_in_logs.status")
	}
	return repo.Page[models.CheckInLog](q, params, OrderLogsNewestFirst, "Person", "Schedule")
}

func (r *Repository) FindLog(ctx context.Context, id uuid.UUID) (*models.CheckInLog, error) {
	return repo.First[models.CheckInLog](r.DB(ctx).Preload("Person").Preload("Schedule"), id)
}

func (r *Repository) CreateLog(ctx context.Context, entry *models.CheckInLog) error {
	return r.DB(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *Repository) SaveLog(ctx context.Context, entry *models.CheckInLog) error {
	return r.DB(ctx).Omit(clause.Associations).Save(entry).Error
}

func (r *Repository) DeleteLog(ctx context.Context, id uuid.UUID) error {
	return repo.DeleteByID[models.CheckInLog](r.DB(ctx), id)
}
