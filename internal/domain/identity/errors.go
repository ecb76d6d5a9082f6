package identity

import "github.com/acadtrack/backend/internal/domain/shared"

// Identity faults. Uniqueness faults come back from the user store when an
// insert hits one of its unique indexes.
var (
	ErrEmailTaken            = shared.NewDomainError("EMAIL_TAKEN", "Email already in use")
	ErrUsernameTaken         = shared.NewDomainError("USERNAME_TAKEN", "Username already taken")
	ErrGoogleAccountTaken    = shared.NewDomainError("GOOGLE_ACCOUNT_TAKEN", "Google account is already linked to another user")
	ErrGoogleAccountMismatch = shared.NewDomainError("GOOGLE_ACCOUNT_MISMATCH", "A different Google account is linked to this user")
	ErrUsernameUnavailable   = shared.NewDomainError("USERNAME_UNAVAILABLE", "Could not allocate a unique username")
	ErrInvalidCredentials    = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
)

// Faults raised by sign-in flows.
var (
	ErrUserNotFound        = shared.NewDomainError("NOT_FOUND", "User not found")
	ErrGoogleLoginFailed   = shared.NewDomainError("GOOGLE_LOGIN_FAILED", "Google sign in failed")
	ErrGoogleLoginDisabled = shared.NewDomainError("GOOGLE_LOGIN_DISABLED", "Google sign in is not enabled")
)
