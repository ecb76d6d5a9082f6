package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/acadtrack/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

const (
	maxNameLength     = 100
	maxEmailLength    = 254
	minPasswordLength = 6
	// bcrypt ignores input beyond 72 bytes
	maxPasswordLength = 72
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthMethod records how an identity signed in.
type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodGoogle   AuthMethod = "google"
)

// User is a registered identity, backed by a password, a Google account,
// or both.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	Username     string
	PasswordHash string
	GoogleID     string
	AvatarURL    string
	LastLoginAt  *time.Time
}

// NewUser creates a password-backed identity. The username is assigned
// separately once a unique one has been settled.
func NewUser(name, email, password string) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             NormalizeEmail(email),
		PasswordHash:      hash,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user, AuthMethodPassword))
	return user, nil
}

// NewGoogleUser creates an identity for a first-time Google sign in.
func NewGoogleUser(name, email, googleID, avatarURL string) (*User, error) {
	if strings.TrimSpace(googleID) == "" {
		return nil, shared.NewDomainError("INVALID_GOOGLE_ID", "Google account id is required")
	}
	if strings.TrimSpace(name) == "" {
		name = strings.Split(email, "@")[0]
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             NormalizeEmail(email),
		GoogleID:          googleID,
		AvatarURL:         avatarURL,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user, AuthMethodGoogle))
	return user, nil
}

// AssignUsername sets the username. It is called again with a fresh
// candidate whenever the store reports the previous one as taken.
func (u *User) AssignUsername(username string) error {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return err
	}
	u.Username = username
	u.Touch()
	return nil
}

// VerifyPassword checks password against the stored hash. Google-only
// identities have no hash and never match.
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// LinkGoogle attaches a Google account to an identity found by email.
func (u *User) LinkGoogle(googleID, avatarURL string) error {
	if u.GoogleID != "" && u.GoogleID != googleID {
		return ErrGoogleAccountMismatch
	}
	if u.GoogleID == googleID {
		return nil
	}
	u.GoogleID = googleID
	if u.AvatarURL == "" {
		u.AvatarURL = avatarURL
	}
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewGoogleAccountLinkedEvent(u))
	return nil
}

// RecordLogin stamps a successful sign in.
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

func (u *User) HasPassword() bool { return u.PasswordHash != "" }
func (u *User) HasGoogle() bool   { return u.GoogleID != "" }

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername checks a caller-chosen or generated username: 2 to 50
// characters, lower-case, printable and without whitespace. Letters from any
// script are allowed.
func ValidateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	n := utf8.RuneCountInString(username)
	if n < 2 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 2 characters")
	}
	if n > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 50 characters")
	}
	for _, r := range username {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return shared.NewDomainError("INVALID_USERNAME", "Username cannot contain spaces or control characters")
		}
	}
	if lower(username) != username {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be lower-case")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	if len(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(email) > maxEmailLength {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password is required")
	}
	if len(password) < minPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > maxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
