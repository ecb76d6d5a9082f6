package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence.
//
// Create and Update rely on the store's unique indexes and return
// ErrEmailTaken, ErrUsernameTaken or ErrGoogleAccountTaken when one of them
// rejects the write. Update is version checked and returns
// shared.ErrConcurrencyConflict when the row moved on. Lookups return
// shared.ErrNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
