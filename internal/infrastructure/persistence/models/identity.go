package models

import (
	"time"

	"github.com/acadtrack/backend/internal/domain/identity"
)

// Unique index names on users.
const (
	UsersEmailIndex    = "uq_users_email"
	UsersUsernameIndex = "uq_users_username"
	UsersGoogleIDIndex = "uq_users_google_id"
)

// UserModel is the persistence model for identity.User. Optional
// credentials are stored as NULL so the unique indexes ignore them.
type UserModel struct {
	AggregateModel
	Name         string  `gorm:"type:varchar(100);not null"`
	Email        string  `gorm:"type:varchar(254);not null;uniqueIndex:uq_users_email"`
	Username     string  `gorm:"type:varchar(50);not null;uniqueIndex:uq_users_username"`
	PasswordHash *string `gorm:"type:varchar(255)"`
	GoogleID     *string `gorm:"type:varchar(255);uniqueIndex:uq_users_google_id"`
	AvatarURL    string  `gorm:"type:varchar(500)"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.toDomain(),
		Name:              m.Name,
		Email:             m.Email,
		Username:          m.Username,
		PasswordHash:      deref(m.PasswordHash),
		GoogleID:          deref(m.GoogleID),
		AvatarURL:         m.AvatarURL,
		LastLoginAt:       m.LastLoginAt,
	}
}

// UserModelFromDomain builds the persistence model for u.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Name:         u.Name,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: nullable(u.PasswordHash),
		GoogleID:     nullable(u.GoogleID),
		AvatarURL:    u.AvatarURL,
		LastLoginAt:  u.LastLoginAt,
	}
	m.fromDomain(u.BaseAggregateRoot)
	return m
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
