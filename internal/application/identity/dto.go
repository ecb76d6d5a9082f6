package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/acadtrack/backend/internal/domain/identity"
)

// SignupInput contains the input for password signup. Username is optional;
// when empty one is generated from Name.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Username string
}

// LoginInput contains the input for password login
type LoginInput struct {
	Email    string
	Password string
}

// LogoutInput identifies the token to revoke.
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration
}

// AuthResult is returned by every successful sign in.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
	// Created is true when the sign in registered a new identity.
	Created bool
}

// UserInfo is the public view of an identity.
type UserInfo struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Username    string
	AvatarURL   string
	HasPassword bool
	HasGoogle   bool
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		HasPassword: u.HasPassword(),
		HasGoogle:   u.HasGoogle(),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
