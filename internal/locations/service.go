package locations

import (
	"context"
	"fmt"
	"strings"

	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service reads and appends location history. Entries are never updated.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[LocationDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*LocationDTO, error)
	Create(ctx context.Context, req CreateRequest) (*LocationDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type locationRepository interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.LocationLog, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.LocationLog, error)
	FindPersonByDevice(ctx context.Context, deviceID string) (*models.VulnerablePerson, error)
	Create(ctx context.Context, entry *models.LocationLog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo locationRepository
}

func NewService(repo locationRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[LocationDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[LocationDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list locations")
	}
	return pagination.NewPage(FromModels(rows), total, params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("location")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load location")
	}
	dto := FromModel(entry)
	return &dto, nil
}

// Create resolves the device to its person before writing; an unknown device
// writes nothing.
func (s *service) Create(ctx context.Context, req CreateRequest) (*LocationDTO, error) {
	person, err := s.repo.FindPersonByDevice(ctx, strings.TrimSpace(req.DeviceID))
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no person found with that device id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve device")
	}
	entry := req.toModel(person)
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create location")
	}
	dto := FromModel(entry)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("location")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete location")
	}
	return nil
}
