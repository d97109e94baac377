package auth

import "github.com/angelmondragon/vtps-backend/internal/users"

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	Detail string `json:"detail"`
}
