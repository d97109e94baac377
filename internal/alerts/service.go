package alerts

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

// Service manages alerts. Status writes are unconstrained: any status may
// follow any other.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[AlertDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*AlertDTO, error)
	Create(ctx context.Context, actor access.Principal, req CreateRequest) (*AlertDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*AlertDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type alertRepository interface {
	access.PersonLoader
	access.UserLoader
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Alert, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	Create(ctx context.Context, alert *models.Alert) error
	Save(ctx context.Context, alert *models.Alert) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo alertRepository
}

func NewService(repo alertRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("alert repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[AlertDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[AlertDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list alerts")
	}
	return pagination.NewPage(FromModels(rows), total, params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AlertDTO, error) {
	alert, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(alert)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, actor access.Principal, req CreateRequest) (*AlertDTO, error) {
	if _, err := access.ResolvePerson(ctx, s.repo, "person", req.Person); err != nil {
		return nil, err
	}
	alert := req.toModel(actor.UserID)
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create alert")
	}
	return s.Get(ctx, alert.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*AlertDTO, error) {
	alert, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.AssignedTo.Set && req.AssignedTo.Value != nil {
		if err := access.ResolveUser(ctx, s.repo, "assigned_to", *req.AssignedTo.Value); err != nil {
			return nil, err
		}
	}
	req.Apply(alert)
	if err := s.repo.Save(ctx, alert); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update alert")
	}
	return s.Get(ctx, alert.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("alert")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete alert")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("alert")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load alert")
	}
	return alert, nil
}
