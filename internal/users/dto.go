package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID              uuid.UUID      `json:"id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Role            enums.UserRole `json:"role"`
	Phone           string         `json:"phone"`
	IsActiveSession bool           `json:"is_active_session"`
	LastActivity    time.Time      `json:"last_activity"`
}

// RegisterRequest creates a user with a confirmed password.
type RegisterRequest struct {
	Username        string         `json:"username" validate:"required,max=150"`
	Email           string         `json:"email" validate:"omitempty,email,max=254"`
	FirstName       string         `json:"first_name" validate:"max=150"`
	LastName        string         `json:"last_name" validate:"max=150"`
	Role            enums.UserRole `json:"role" validate:"omitempty,oneof=admin supervisor operator caregiver"`
	Phone           string         `json:"phone" validate:"max=20"`
	Password        string         `json:"password" validate:"required"`
	PasswordConfirm string         `json:"password_confirm" validate:"required"`
}

// UpdateRequest carries a partial user update; nil fields are left untouched.
type UpdateRequest struct {
	Username        *string         `json:"username" validate:"omitempty,min=1,max=150"`
	Email           *string         `json:"email" validate:"omitempty,email,max=254"`
	FirstName       *string         `json:"first_name" validate:"omitempty,max=150"`
	LastName        *string         `json:"last_name" validate:"omitempty,max=150"`
	Role            *enums.UserRole `json:"role" validate:"omitempty,oneof=admin supervisor operator caregiver"`
	Phone           *string         `json:"phone" validate:"omitempty,max=20"`
	IsActiveSession *bool           `json:"is_active_session"`
}

// PutFields lists the fields a full replacement must carry.
var PutFields = []string{"username"}

// ListFilter narrows the user list.
type ListFilter struct {
	Role            *enums.UserRole
	IsActiveSession *bool
	Search          string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		Phone:           u.Phone,
		IsActiveSession: u.IsActiveSession,
		LastActivity:    u.LastActivity,
	}
}

func (r RegisterRequest) toModel(passwordHash string) *models.User {
	role := r.Role
	if role == "" {
		role = enums.UserRoleOperator
	}
	return &models.User{
		Username:     strings.TrimSpace(r.Username),
		Email:        strings.ToLower(strings.TrimSpace(r.Email)),
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         role,
		Phone:        r.Phone,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
}

func (r UpdateRequest) apply(u *models.User) {
	if r.Username != nil {
		u.Username = strings.TrimSpace(*r.Username)
	}
	if r.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
	if r.Phone != nil {
		u.Phone = *r.Phone
	}
	if r.IsActiveSession != nil {
		u.IsActiveSession = *r.IsActiveSession
	}
}
