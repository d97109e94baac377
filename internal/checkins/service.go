package checkins

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/access"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ScheduleService manages check-in schedules. Writes are limited to the
// person's owner or supervisor.
type ScheduleService interface {
	List(ctx context.Context, filter ScheduleFilter, params pagination.Params) (pagination.Page[ScheduleDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*ScheduleDTO, error)
	Create(ctx context.Context, actor access.Principal, req ScheduleCreateRequest) (*ScheduleDTO, error)
	Update(ctx context.Context, actor access.Principal, id uuid.UUID, req ScheduleUpdateRequest) (*ScheduleDTO, error)
	Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error
}

// LogService records and edits check-in occurrences.
type LogService interface {
	List(ctx context.Context, filter LogFilter, params pagination.Params) (pagination.Page[LogDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*LogDTO, error)
	Create(ctx context.Context, req LogCreateRequest) (*LogDTO, error)
	Update(ctx context.Context, id uuid.UUID, req LogUpdateRequest) (*LogDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type scheduleRepository interface {
	access.PersonLoader
	ListSchedules(ctx context.Context, filter ScheduleFilter, params pagination.Params) ([]models.CheckInSchedule, int64, error)
	FindSchedule(ctx context.Context, id uuid.UUID) (*models.CheckInSchedule, error)
	CreateSchedule(ctx context.Context, schedule *models.CheckInSchedule) error
	SaveSchedule(ctx context.Context, schedule *models.CheckInSchedule) error
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

type logRepository interface {
	FindSchedule(ctx context.Context, id uuid.UUID) (*models.CheckInSchedule, error)
	ListLogs(ctx context.Context, filter LogFilter, params pagination.Params) ([]models.CheckInLog, int64, error)
	FindLog(ctx context.Context, id uuid.UUID) (*models.CheckInLog, error)
	CreateLog(ctx context.Context, entry *models.CheckInLog) error
	SaveLog(ctx context.Context, entry *models.CheckInLog) error
	DeleteLog(ctx context.Context, id uuid.UUID) error
}

type scheduleService struct {
	repo scheduleRepository
}

func NewScheduleService(repo scheduleRepository) (ScheduleService, error) {
	if repo == nil {
		return nil, fmt.Errorf("check-in repository is required")
	}
	return &scheduleService{repo: repo}, nil
}

func (s *scheduleService) List(ctx context.Context, filter ScheduleFilter, params pagination.Params) (pagination.Page[ScheduleDTO], error) {
	rows, total, err := s.repo.ListSchedules(ctx, filter, params)
	if err != nil {
		return pagination.Page[ScheduleDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list check-in schedules")
	}
	return pagination.NewPage(ScheduleFromModels(rows), total, params), nil
}

func (s *scheduleService) Get(ctx context.Context, id uuid.UUID) (*ScheduleDTO, error) {
	schedule, err := loadSchedule(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := ScheduleFromModel(schedule)
	return &dto, nil
}

func (s *scheduleService) Create(ctx context.Context, actor access.Principal, req ScheduleCreateRequest) (*ScheduleDTO, error) {
	if err := access.AuthorizePersonWrite(ctx, s.repo, actor, req.Person); err != nil {
		return nil, err
	}
	schedule := req.toModel()
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create check-in schedule")
	}
	return s.Get(ctx, schedule.ID)
}

func (s *scheduleService) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req ScheduleUpdateRequest) (*ScheduleDTO, error) {
	schedule, err := loadSchedule(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizePersonWrite(ctx, s.repo, actor, schedule.PersonID); err != nil {
		return nil, err
	}
	if req.Person != nil && *req.Person != schedule.PersonID {
		if err := access.AuthorizePersonWrite(ctx, s.repo, actor, *req.Person); err != nil {
			return nil, err
		}
	}
	req.apply(schedule)
	if err := s.repo.SaveSchedule(ctx, schedule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update check-in schedule")
	}
	return s.Get(ctx, schedule.ID)
}

func (s *scheduleService) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	schedule, err := loadSchedule(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := access.AuthorizePersonWrite(ctx, s.repo, actor, schedule.PersonID); err != nil {
		return err
	}
	if err := s.repo.DeleteSchedule(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("check-in schedule")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete check-in schedule")
	}
	return nil
}

type logService struct {
	repo logRepository
	now  func() time.Time
}

func NewLogService(repo logRepository) (LogService, error) {
	if repo == nil {
		return nil, fmt.Errorf("check-in repository is required")
	}
	return &logService{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *logService) List(ctx context.Context, filter LogFilter, params pagination.Params) (pagination.Page[LogDTO], error) {
	rows, total, err := s.repo.ListLogs(ctx, filter, params)
	if err != nil {
		return pagination.Page[LogDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list check-in logs")
	}
	return pagination.NewPage(LogFromModels(rows), total, params), nil
}

func (s *logService) Get(ctx context.Context, id uuid.UUID) (*LogDTO, error) {
	entry, err := s.repo.FindLog(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("check-in log")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load check-in log")
	}
	dto := LogFromModel(entry)
	return &dto, nil
}

// Create completes a check-in now for the schedule's person.
func (s *logService) Create(ctx context.Context, req LogCreateRequest) (*LogDTO, error) {
	schedule, err := s.resolveSchedule(ctx, req.Schedule)
	if err != nil {
		return nil, err
	}
	entry := req.toModel(schedule, s.now())
	if err := s.repo.CreateLog(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create check-in log")
	}
	return s.Get(ctx, entry.ID)
}

func (s *logService) Update(ctx context.Context, id uuid.UUID, req LogUpdateRequest) (*LogDTO, error) {
	entry, err := s.repo.FindLog(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("check-in log")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load check-in log")
	}
	if req.Schedule != nil && *req.Schedule != entry.ScheduleID {
		schedule, err := s.resolveSchedule(ctx, *req.Schedule)
		if err != nil {
			return nil, err
		}
		entry.ScheduleID = schedule.ID
		entry.PersonID = schedule.PersonID
	}
	req.apply(entry)
	if err := s.repo.SaveLog(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update check-in log")
	}
	return s.Get(ctx, entry.ID)
}

func (s *logService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteLog(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("check-in log")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete check-in log")
	}
	return nil
}

func (s *logService) resolveSchedule(ctx context.Context, id uuid.UUID) (*models.CheckInSchedule, error) {
	schedule, err := s.repo.FindSchedule(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.Field("schedule", "object does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load check-in schedule")
	}
	return schedule, nil
}

func loadSchedule(ctx context.Context, repo scheduleRepository, id uuid.UUID) (*models.CheckInSchedule, error) {
	schedule, err := repo.FindSchedule(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("check-in schedule")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load check-in schedule")
	}
	return schedule, nil
}
