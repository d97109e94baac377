package notifications

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

// Service manages the notification delivery log.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[NotificationDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*NotificationDTO, error)
	Create(ctx context.Context, req CreateRequest) (*NotificationDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*NotificationDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationRepository interface {
	access.PersonLoader
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.NotificationLog, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.NotificationLog, error)
	AlertPerson(ctx context.Context, alertID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, entry *models.NotificationLog) error
	Save(ctx context.Context, entry *models.NotificationLog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo notificationRepository
}

func NewService(repo notificationRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[NotificationDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[NotificationDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list notifications")
	}
	return pagination.NewPage(FromModels(rows), total, params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*NotificationDTO, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(entry)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*NotificationDTO, error) {
	if _, err := access.ResolvePerson(ctx, s.repo, "person", req.Person); err != nil {
		return nil, err
	}
	if req.Alert != nil {
		if err := s.resolveAlert(ctx, *req.Alert); err != nil {
			return nil, err
		}
	}
	entry := req.toModel()
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create notification")
	}
	return s.Get(ctx, entry.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*NotificationDTO, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Person != nil && *req.Person != entry.PersonID {
		if _, err := access.ResolvePerson(ctx, s.repo, "person", *req.Person); err != nil {
			return nil, err
		}
	}
	if req.Alert.Set && req.Alert.Value != nil {
		if err := s.resolveAlert(ctx, *req.Alert.Value); err != nil {
			return nil, err
		}
	}
	req.apply(entry)
	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update notification")
	}
	return s.Get(ctx, entry.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("notification")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete notification")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.NotificationLog, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("notification")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load notification")
	}
	return entry, nil
}

func (s *service) resolveAlert(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.AlertPerson(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.Field("alert", "object does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load alert")
	}
	return nil
}
