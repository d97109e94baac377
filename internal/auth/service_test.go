package auth

import (
	"context"
	"testing"

	"github.com/angelmondragon/vtps-backend/internal/users"
	"github.com/angelmondragon/vtps-backend/pkg/config"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/security"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc   Service
	db    *gorm.DB
	users *users.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	userRepo := users.NewRepository(conn)
	svc, err := NewService(ServiceParams{
		DB:         pkgdb.NewFromConn(conn),
		UserRepo:   userRepo,
		TokenRepo:  NewTokenRepository(conn),
		AuthConfig: config.AuthConfig{TokenBytes: 20},
	})
	require.NoError(t, err)
	return fixture{svc: svc, db: conn, users: userRepo}
}

func (f fixture) seedUser(t *testing.T, username, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         enums.UserRoleOperator,
		IsActive:     active,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "active", "right-password", true)
	f.seedUser(t, "disabled", "right-password", false)

	cases := []LoginRequest{
		{Username: "active", Password: "wrong-password"},
		{Username: "nobody", Password: "right-password"},
		{Username: "disabled", Password: "right-password"},
	}
	var messages []string
	for _, req := range cases {
		_, err := f.svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "login %q should fail", req.Username)
		require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		require.Nil(t, typed.Details())
		messages = append(messages, typed.Message())
	}
	require.Equal(t, messages[0], messages[1])
	require.Equal(t, messages[1], messages[2])
}

func TestLoginReusesTokenAndOpensSession(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "nurse", "right-password", true)
	ctx := context.Background()

	first, err := f.svc.Login(ctx, LoginRequest{Username: "nurse", Password: "right-password"})
	require.NoError(t, err)
	require.Len(t, first.Token, 40)
	require.True(t, first.User.IsActiveSession)

	second, err := f.svc.Login(ctx, LoginRequest{Username: "nurse", Password: "right-password"})
	require.NoError(t, err)
	require.Equal(t, first.Token, second.Token)

	var count int64
	require.NoError(t, f.db.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	principal, err := f.svc.Authenticate(ctx, first.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, principal.UserID)
	require.Equal(t, enums.UserRoleOperator, principal.Role)
}

func TestLogoutClosesSessionAndRevokesToken(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "nurse", "right-password", true)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Username: "nurse", Password: "right-password"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, user.ID))

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActiveSession)

	_, err = f.svc.Authenticate(ctx, resp.Token)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	require.NoError(t, f.svc.Logout(ctx, user.ID))

	again, err := f.svc.Login(ctx, LoginRequest{Username: "nurse", Password: "right-password"})
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, again.Token)
}

func TestAuthenticateRejectsUnknownAndEmptyTokens(t *testing.T) {
	f := newFixture(t)
	for _, token := range []string{"", "   ", "deadbeef"} {
		_, err := f.svc.Authenticate(context.Background(), token)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), "token %q", token)
	}
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "nurse", "right-password", true)
	ctx := context.Background()
	resp, err := f.svc.Login(ctx, LoginRequest{Username: "nurse", Password: "right-password"})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumn("is_active", false).Error)

	_, err = f.svc.Authenticate(ctx, resp.Token)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	// a deactivated owner is indistinguishable from an unknown token
	_, unknownErr := f.svc.Authenticate(ctx, "deadbeef")
	require.Equal(t, pkgerrors.As(unknownErr).Message(), pkgerrors.As(err).Message())
}

func TestMeReturnsCaller(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "nurse", "right-password", true)

	dto, err := f.svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "nurse", dto.Username)
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	f := newFixture(t)
	user := &models.User{
		Username:     "imported",
		PasswordHash: "pbkdf2_sha256$1000$Xy7mSaltValue1$/6juFa8xbMQ2mZnFTs9pnxyUanHQycPMaRwqcO91Y5c=",
		Role:         enums.UserRoleCaregiver,
		IsActive:     true,
	}
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, user))

	_, err := f.svc.Login(ctx, LoginRequest{Username: "imported", Password: "correct-horse"})
	require.NoError(t, err)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, security.NeedsRehash(stored.PasswordHash, config.PasswordConfig{}))

	ok, err := security.VerifyPassword("correct-horse", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}
