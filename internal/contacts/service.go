package contacts

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

// Service manages emergency contacts. Writes require owner-or-supervisor
// rights on the contact's person.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[ContactDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*ContactDTO, error)
	Create(ctx context.Context, actor access.Principal, req CreateRequest) (*ContactDTO, error)
	Update(ctx context.Context, actor access.Principal, id uuid.UUID, req UpdateRequest) (*ContactDTO, error)
	Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error
}

type contactRepository interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.EmergencyContact, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.EmergencyContact, error)
	PersonRef(ctx context.Context, id uuid.UUID) (*models.VulnerablePerson, error)
	Create(ctx context.Context, contact *models.EmergencyContact) error
	Save(ctx context.Context, contact *models.EmergencyContact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo contactRepository
}

func NewService(repo contactRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[ContactDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[ContactDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contacts")
	}
	return pagination.NewPage(FromModels(rows), total, params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ContactDTO, error) {
	contact, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(contact)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, actor access.Principal, req CreateRequest) (*ContactDTO, error) {
	if err := s.authorize(ctx, actor, req.Person); err != nil {
		return nil, err
	}
	contact := req.toModel()
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create contact")
	}
	dto := FromModel(contact)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req UpdateRequest) (*ContactDTO, error) {
	contact, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, contact.PersonID); err != nil {
		return nil, err
	}
	if req.Person != nil && *req.Person != contact.PersonID {
		if err := s.authorize(ctx, actor, *req.Person); err != nil {
			return nil, err
		}
	}
	req.apply(contact)
	if err := s.repo.Save(ctx, contact); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update contact")
	}
	dto := FromModel(contact)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	contact, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, contact.PersonID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("emergency contact")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete contact")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.EmergencyContact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("emergency contact")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contact")
	}
	return contact, nil
}

func (s *service) authorize(ctx context.Context, actor access.Principal, personID uuid.UUID) error {
	return access.AuthorizePersonWrite(ctx, s.repo, actor, personID)
}
