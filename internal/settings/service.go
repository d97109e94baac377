package settings

import (
	"context"
	"fmt"

	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service manages system settings rows. Callers gate it to supervisors and
// admins.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[SettingsDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*SettingsDTO, error)
	Create(ctx context.Context, req Request) (*SettingsDTO, error)
	Update(ctx context.Context, id uuid.UUID, req Request) (*SettingsDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RetentionDays(ctx context.Context) (int, error)
}

type settingsRepository interface {
	List(ctx context.Context, params pagination.Params) ([]models.SystemSettings, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SystemSettings, error)
	Effective(ctx context.Context) (*models.SystemSettings, error)
	Create(ctx context.Context, row *models.SystemSettings) error
	Save(ctx context.Context, row *models.SystemSettings) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo             settingsRepository
	defaultRetention int
}

// NewService builds a settings service. defaultRetention is reported by
// RetentionDays while no settings row exists; non-positive values fall back
// to DefaultDataRetentionDays.
func NewService(repo settingsRepository, defaultRetention int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if defaultRetention <= 0 {
		defaultRetention = DefaultDataRetentionDays
	}
	return &service{repo: repo, defaultRetention: defaultRetention}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[SettingsDTO], error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[SettingsDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list settings")
	}
	return pagination.NewPage(FromModels(rows), total, params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SettingsDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req Request) (*SettingsDTO, error) {
	row := Defaults()
	req.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create settings")
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req Request) (*SettingsDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(row)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update settings")
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("settings")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete settings")
	}
	return nil
}

// RetentionDays reads data_retention_days from the effective row.
func (s *service) RetentionDays(ctx context.Context) (int, error) {
	row, err := s.repo.Effective(ctx)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return s.defaultRetention, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load effective settings")
	}
	if row.DataRetentionDays <= 0 {
		return s.defaultRetention, nil
	}
	return row.DataRetentionDays, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.SystemSettings, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("settings")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	return row, nil
}
