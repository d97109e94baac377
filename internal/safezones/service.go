package safezones

import (
	"context"
	"fmt"

	"github.com/angelmondragon/vtps-backend/internal/access"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service manages safe zones. Writes require owner-or-supervisor
// rights on the zone's person.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[SafeZoneDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*SafeZoneDTO, error)
	Create(ctx context.Context, actor access.Principal, req CreateRequest) (*SafeZoneDTO, error)
	Update(ctx context.Context, actor access.Principal, id uuid.UUID, req UpdateRequest) (*SafeZoneDTO, error)
	Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error
}

type zoneRepository interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.SafeZone, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SafeZone, error)
	PersonRef(ctx context.Context, id uuid.UUID) (*models.VulnerablePerson, error)
	Create(ctx context.Context, zone *models.SafeZone) error
	Save(ctx context.Context, zone *models.SafeZone) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo zoneRepository
}

func NewService(repo zoneRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("safe zone repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[SafeZoneDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[SafeZoneDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list safe zones")
	}
	return pagination.NewPage(FromModels(rows), total, params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SafeZoneDTO, error) {
	zone, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(zone)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, actor access.Principal, req CreateRequest) (*SafeZoneDTO, error) {
	if err := s.authorize(ctx, actor, req.Person); err != nil {
		return nil, err
	}
	zone := req.toModel()
	if err := s.repo.Create(ctx, zone); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create safe zone")
	}
	dto := FromModel(zone)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req UpdateRequest) (*SafeZoneDTO, error) {
	zone, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, zone.PersonID); err != nil {
		return nil, err
	}
	if req.Person != nil && *req.Person != zone.PersonID {
		if err := s.authorize(ctx, actor, *req.Person); err != nil {
			return nil, err
		}
	}
	req.apply(zone)
	if err := s.repo.Save(ctx, zone); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update safe zone")
	}
	dto := FromModel(zone)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	zone, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, zone.PersonID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("safe zone")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete safe zone")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.SafeZone, error) {
	zone, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("safe zone")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load safe zone")
	}
	return zone, nil
}

func (s *service) authorize(ctx context.Context, actor access.Principal, personID uuid.UUID) error {
	return access.AuthorizePersonWrite(ctx, s.repo, actor, personID)
}
