package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadtrack/backend/internal/domain/identity"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/acadtrack/backend/internal/infrastructure/auth"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
	"github.com/acadtrack/backend/internal/infrastructure/telemetry"
)

const serviceName = "AuthService"

// AuthService handles signup, password and Google sign in, profile lookup
// and logout.
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	google     auth.GoogleProvider
	usernames  *identity.UsernameGenerator
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// AuthServiceOption configures optional collaborators.
type AuthServiceOption func(*AuthService)

// WithGoogleProvider enables Google sign in.
func WithGoogleProvider(p auth.GoogleProvider) AuthServiceOption {
	return func(s *AuthService) { s.google = p }
}

// WithEventPublisher publishes identity events after successful writes.
func WithEventPublisher(p shared.EventPublisher) AuthServiceOption {
	return func(s *AuthService) { s.publisher = p }
}

// WithUsernameGenerator replaces the default generator.
func WithUsernameGenerator(g *identity.UsernameGenerator) AuthServiceOption {
	return func(s *AuthService) { s.usernames = g }
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
	opts ...AuthServiceOption,
) *AuthService {
	s := &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		usernames:  identity.NewUsernameGenerator(),
		logger:     logger.With(zap.String("service", serviceName)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a password identity and signs it in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (result *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "Signup",
		telemetry.WithAttribute(telemetry.SpanAttrAuthMethod, string(identity.AuthMethodPassword)))
	defer func() { telemetry.EndSpan(span, err) }()

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		if err := user.AssignUsername(input.Username); err != nil {
			return nil, err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err := s.createWithGeneratedUsername(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user)
	s.log(ctx).Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.issue(user, true)
}

// createWithGeneratedUsername inserts user, drawing a fresh username
// candidate each time the store reports the previous one as taken. Other
// uniqueness faults (email, Google id) end the loop.
func (s *AuthService) createWithGeneratedUsername(ctx context.Context, user *identity.User) error {
	base := identity.NormalizeUsernameBase(user.Name)
	for attempt := 0; ; attempt++ {
		candidate, ok := s.usernames.Candidate(base, attempt)
		if !ok {
			s.log(ctx).Warn("Username candidates exhausted",
				zap.String("base", base),
				zap.Int("attempts", attempt))
			return identity.ErrUsernameUnavailable
		}
		if err := user.AssignUsername(candidate); err != nil {
			return err
		}

		err := s.userRepo.Create(ctx, user)
		if err == nil {
			return nil
		}
		if !errors.Is(err, identity.ErrUsernameTaken) {
			return err
		}
		s.log(ctx).Debug("Generated username taken, retrying",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt))
	}
}

// Login authenticates with email and password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "Login",
		telemetry.WithAttribute(telemetry.SpanAttrAuthMethod, string(identity.AuthMethodPassword)))
	defer func() { telemetry.EndSpan(span, err) }()

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if shared.IsNotFound(err) {
			s.log(ctx).Warn("Login for unknown email")
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.log(ctx).Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	s.recordLogin(ctx, user)
	return s.issue(user, false)
}

// GoogleAuthURL returns the consent page URL carrying state.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", identity.ErrGoogleLoginDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

// CompleteGoogleLogin exchanges an authorization code and signs the Google
// account in. An account already linked wins; otherwise an identity with the
// same verified email is linked; otherwise a new identity is created.
func (s *AuthService) CompleteGoogleLogin(ctx context.Context, code string) (result *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "CompleteGoogleLogin",
		telemetry.WithAttribute(telemetry.SpanAttrAuthMethod, string(identity.AuthMethodGoogle)))
	defer func() { telemetry.EndSpan(span, err) }()

	if s.google == nil {
		return nil, identity.ErrGoogleLoginDisabled
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.log(ctx).Warn("Google code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", identity.ErrGoogleLoginFailed, err)
	}

	user, err := s.userRepo.FindByGoogleID(ctx, profile.ID)
	switch {
	case err == nil:
		s.recordLogin(ctx, user)
		return s.issue(user, false)
	case !shared.IsNotFound(err):
		return nil, err
	}

	user, err = s.userRepo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		return s.linkGoogle(ctx, user, profile)
	case !shared.IsNotFound(err):
		return nil, err
	}

	user, err = identity.NewGoogleUser(profile.Name, profile.Email, profile.ID, profile.Picture)
	if err != nil {
		return nil, err
	}
	if err := s.createWithGeneratedUsername(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user)
	s.log(ctx).Info("User signed up with Google",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	return s.issue(user, true)
}

func (s *AuthService) linkGoogle(ctx context.Context, user *identity.User, profile *auth.GoogleProfile) (*AuthResult, error) {
	if err := user.LinkGoogle(profile.ID, profile.Picture); err != nil {
		return nil, err
	}
	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user)
	s.log(ctx).Info("Google account linked", zap.String("user_id", user.ID.String()))
	return s.issue(user, false)
}

// Profile returns the identity behind an authenticated token.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return shared.ErrInvalidInput
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TTL); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log(ctx).Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// recordLogin stamps the sign in. A failure is logged and does not block it.
func (s *AuthService) recordLogin(ctx context.Context, user *identity.User) {
	user.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, *user.LastLoginAt); err != nil {
		s.log(ctx).Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

func (s *AuthService) issue(user *identity.User, created bool) (*AuthResult, error) {
	token, err := s.jwtService.Issue(auth.Subject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      toUserInfo(user),
		Created:   created,
	}, nil
}

func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.log(ctx).Error("Failed to publish identity events", zap.Error(err))
	}
}

func (s *AuthService) log(ctx context.Context) *zap.Logger {
	return logger.Ctx(ctx, s.logger)
}
