package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/vtps-backend/pkg/config"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/angelmondragon/vtps-backend/pkg/security"
	"github.com/google/uuid"
)

// Service manages platform users.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[UserDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.User, int64, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo              userRepository
	passwordCfg       config.PasswordConfig
	minPasswordLength int
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo              userRepository
	PasswordConfig    config.PasswordConfig
	MinPasswordLength int
}

// NewService builds a users service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	minLen := params.MinPasswordLength
	if minLen <= 0 {
		minLen = 8
	}
	return &service{
		repo:              params.Repo,
		passwordCfg:       params.PasswordConfig,
		minPasswordLength: minLen,
	}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[UserDTO], error) {
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return pagination.NewPage(out, total, params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	if req.Password != req.PasswordConfirm {
		return nil, pkgerrors.Field("password_confirm", "passwords don't match")
	}
	if len(req.Password) < s.minPasswordLength {
		return nil, pkgerrors.Field("password", fmt.Sprintf("must be at least %d characters", s.minPasswordLength))
	}
	username := strings.TrimSpace(req.Username)
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.Field("username", "a user with that username already exists")
	} else if !pkgdb.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup username")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user := req.toModel(hash)
	if err := s.repo.Create(ctx, user); err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a user with that username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(user)
	if user.Username == "" {
		return nil, pkgerrors.Field("username", "may not be blank")
	}
	if err := s.repo.Save(ctx, user); err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a user with that username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("user")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
