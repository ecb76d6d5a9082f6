package handler

import (
	"time"

	"github.com/google/uuid"

	appidentity "github.com/acadtrack/backend/internal/application/identity"
)

// SignupRequest represents the request body for password signup
type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Ada Lovelace"`
	Email    string `json:"email" binding:"required,email,max=254" example:"ada@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"analytical"`
	// Username is optional; one is generated from the name when omitted.
	Username string `json:"username,omitempty" binding:"omitempty,username" example:"ada"`
}

// LoginRequest represents the request body for password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@example.com"`
	Password string `json:"password" binding:"required,max=72" example:"analytical"`
}

// UserResponse is the public profile of an account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name" example:"Ada Lovelace"`
	Email       string     `json:"email" example:"ada@example.com"`
	Username    string     `json:"username" example:"adalovelace42"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	HasPassword bool       `json:"has_password"`
	HasGoogle   bool       `json:"has_google"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u appidentity.UserInfo) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		HasPassword: u.HasPassword,
		HasGoogle:   u.HasGoogle,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func toAuthResponse(r *appidentity.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
		User:      toUserResponse(r.User),
	}
}
