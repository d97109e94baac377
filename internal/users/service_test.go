package users

import (
	"context"
	"testing"

	"github.com/angelmondragon/vtps-backend/pkg/config"
	"github.com/angelmondragon/vtps-backend/pkg/db/dbtest"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/angelmondragon/vtps-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(ServiceParams{Repo: repo, PasswordConfig: config.PasswordConfig{}})
	require.NoError(t, err)
	return svc, repo
}

func registerReq(username string) RegisterRequest {
	return RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		FirstName:       "Test",
		LastName:        "User",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	}
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, registerReq("nurse"))
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleOperator, dto.Role)
	require.False(t, dto.LastActivity.IsZero())

	stored, err := repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive)
	ok, err := security.VerifyPassword("correct-horse", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	req := registerReq("nurse")
	req.PasswordConfirm = "something-else"

	_, err := svc.Register(context.Background(), req)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, map[string]string{"password_confirm": "passwords don't match"}, pkgerrors.As(err).Details())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)
	req := registerReq("nurse")
	req.Password, req.PasswordConfirm = "short", "short"

	_, err := svc.Register(context.Background(), req)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("nurse"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("nurse"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListFiltersAndSearches(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"alice", "bob", "carol"} {
		req := registerReq(name)
		if name == "bob" {
			req.Role = enums.UserRoleSupervisor
		}
		_, err := svc.Register(ctx, req)
		require.NoError(t, err)
	}

	role := enums.UserRoleSupervisor
	page, err := svc.List(ctx, ListFilter{Role: &role}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)
	require.Equal(t, "bob", page.Results[0].Username)

	page, err = svc.List(ctx, ListFilter{Search: "CAR"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	require.Equal(t, "carol", page.Results[0].Username)

	page, err = svc.List(ctx, ListFilter{}, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Count)
	require.True(t, page.HasNext)
	require.Equal(t, []string{"alice", "bob"}, []string{page.Results[0].Username, page.Results[1].Username})
}

func TestUpdateRoundTripKeepsState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.Register(ctx, registerReq("nurse"))
	require.NoError(t, err)

	phone := "+15551234567"
	updated, err := svc.Update(ctx, created.ID, UpdateRequest{Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, phone, updated.Phone)
	require.Equal(t, created.Username, updated.Username)

	again, err := svc.Update(ctx, created.ID, UpdateRequest{
		Username:        &updated.Username,
		Email:           &updated.Email,
		FirstName:       &updated.FirstName,
		LastName:        &updated.LastName,
		Role:            &updated.Role,
		Phone:           &updated.Phone,
		IsActiveSession: &updated.IsActiveSession,
	})
	require.NoError(t, err)
	require.Equal(t, updated.Username, again.Username)
	require.Equal(t, updated.Email, again.Email)
	require.Equal(t, updated.Role, again.Role)
	require.Equal(t, updated.Phone, again.Phone)
}

func TestGetAndDeleteMissingUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, uuid.New()), pkgerrors.CodeNotFound))

	created, err := svc.Register(ctx, registerReq("nurse"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}
