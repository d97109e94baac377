package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/internal/users"
	"github.com/angelmondragon/vtps-backend/pkg/config"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	invalidTokenMessage       = "invalid token"
)

// Service issues, resolves and revokes opaque bearer tokens.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Authenticate(ctx context.Context, token string) (access.Principal, error)
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type tokenRepository interface {
	FindByKey(ctx context.Context, key string) (*models.AuthToken, error)
}

type service struct {
	db          txRunner
	users       userRepository
	tokens      tokenRepository
	tokenBytes  int
	dummyHash   string
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	DB             txRunner
	UserRepo       userRepository
	TokenRepo      tokenRepository
	AuthConfig     config.AuthConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.TokenRepo == nil {
		return nil, fmt.Errorf("token repository is required")
	}
	dummy, err := security.HashPassword(uuid.NewString(), params.PasswordConfig)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &service{
		db:          params.DB,
		users:       params.UserRepo,
		tokens:      params.TokenRepo,
		tokenBytes:  params.AuthConfig.TokenBytes,
		dummyHash:   dummy,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	candidate, err := security.GenerateToken(s.tokenBytes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate token")
	}

	// upgrade legacy or outdated hashes while the plaintext is at hand
	var rehashed string
	if security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		if rehashed, err = security.HashPassword(req.Password, s.passwordCfg); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rehash password")
		}
	}

	var (
		token *models.AuthToken
		fresh *models.User
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		tokenRepo := NewTokenRepository(tx)
		userRepo := users.NewRepository(tx)

		token, err = tokenRepo.GetOrCreate(ctx, user.ID, candidate)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue token")
		}
		if err := userRepo.SetActiveSession(ctx, user.ID, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session")
		}
		if err := userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
		}
		if rehashed != "" {
			if err := userRepo.UpdatePasswordHash(ctx, user.ID, rehashed); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store rehashed password")
			}
		}
		fresh, err = userRepo.FindByID(ctx, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token.Key, User: users.FromModel(fresh)}, nil
}

func (s *service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := users.NewRepository(tx).SetActiveSession(ctx, userID, false); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close session")
		}
		if err := NewTokenRepository(tx).DeleteByUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke token")
		}
		return nil
	})
}

func (s *service) Authenticate(ctx context.Context, key string) (access.Principal, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	token, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
		}
		return access.Principal{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup token")
	}
	if token.User == nil || !token.User.IsActive {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	return access.Principal{
		UserID:      token.User.ID,
		Role:        token.User.Role,
		IsSuperuser: token.User.IsSuperuser,
	}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

// authenticate hides whether the username exists: unknown users still pay for
// a password verification and every failure returns the same error.
func (s *service) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	input := strings.TrimSpace(username)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByUsername(ctx, input)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			_, _ = security.VerifyPassword(password, s.dummyHash)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
