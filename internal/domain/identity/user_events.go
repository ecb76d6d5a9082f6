package identity

import "github.com/acadtrack/backend/internal/domain/shared"

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered      = "UserRegistered"
	EventTypeGoogleAccountLinked = "GoogleAccountLinked"
)

// UserRegisteredEvent is published when an identity is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email  string     `json:"email"`
	Method AuthMethod `json:"method"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User, method AuthMethod) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID, user.ID),
		Email:           user.Email,
		Method:          method,
	}
}

// GoogleAccountLinkedEvent is published when an existing identity first
// signs in with Google
type GoogleAccountLinkedEvent struct {
	shared.BaseDomainEvent
	GoogleID string `json:"google_id"`
}

// NewGoogleAccountLinkedEvent creates a new GoogleAccountLinkedEvent
func NewGoogleAccountLinkedEvent(user *User) *GoogleAccountLinkedEvent {
	return &GoogleAccountLinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoogleAccountLinked, AggregateTypeUser, user.ID, user.ID),
		GoogleID:        user.GoogleID,
	}
}
