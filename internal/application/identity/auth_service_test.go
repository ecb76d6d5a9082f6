package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadtrack/backend/internal/domain/identity"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/acadtrack/backend/internal/infrastructure/auth"
	"github.com/acadtrack/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*identity.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockGoogleProvider is a mock implementation of auth.GoogleProvider
type MockGoogleProvider struct {
	mock.Mock
}

func (m *MockGoogleProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockGoogleProvider) Exchange(ctx context.Context, code string) (*auth.GoogleProfile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.GoogleProfile), args.Error(1)
}

// MockPublisher records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type authFixture struct {
	repo      *MockUserRepository
	google    *MockGoogleProvider
	publisher *MockPublisher
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	service   *AuthService
}

func newAuthFixture(t *testing.T, opts ...AuthServiceOption) *authFixture {
	t.Helper()
	f := &authFixture{
		repo:      new(MockUserRepository),
		google:    new(MockGoogleProvider),
		publisher: new(MockPublisher),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-characters",
			AccessTokenExpiration: time.Hour,
			Issuer:                "acadtrack-test",
		}),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	opts = append([]AuthServiceOption{
		WithGoogleProvider(f.google),
		WithEventPublisher(f.publisher),
	}, opts...)
	f.service = NewAuthService(f.repo, f.jwt, f.blacklist, zap.NewNop(), opts...)
	return f
}

func fixedSuffix(n int) func(int) int {
	return func(int) int { return n }
}

func mustUser(t *testing.T, name, email, password string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, password)
	require.NoError(t, err)
	require.NoError(t, u.AssignUsername(identity.NormalizeUsernameBase(name)+"1"))
	u.ClearDomainEvents()
	return u
}

func publishedTypes(p *MockPublisher) []string {
	var types []string
	for _, call := range p.Calls {
		for _, e := range call.Arguments.Get(1).([]shared.DomainEvent) {
			types = append(types, e.EventType())
		}
	}
	return types
}

func TestSignup_RetriesGeneratedUsernameUntilInsertSucceeds(t *testing.T) {
	gen := identity.NewUsernameGenerator(identity.WithRandomSource(fixedSuffix(42)))
	f := newAuthFixture(t, WithUsernameGenerator(gen))
	ctx := context.Background()

	f.repo.On("ExistsByEmail", ctx, "ada@example.com").Return(false, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(identity.ErrUsernameTaken).Twice()
	f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()

	result, err := f.service.Signup(ctx, SignupInput{Name: "Ada Lovelace", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, "adalovelace42", result.User.Username)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.True(t, result.Created)
	assert.True(t, result.User.HasPassword)
	f.repo.AssertNumberOfCalls(t, "Create", 3)

	claims, err := f.jwt.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), claims.Subject)
	assert.Equal(t, []string{identity.EventTypeUserRegistered}, publishedTypes(f.publisher))
}

func TestSignup_FallsBackToCounterThenGivesUp(t *testing.T) {
	gen := identity.NewUsernameGenerator(
		identity.WithRandomSource(fixedSuffix(7)),
		identity.WithAttemptLimits(2, 2),
	)
	f := newAuthFixture(t, WithUsernameGenerator(gen))
	ctx := context.Background()

	var tried []string
	f.repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
	f.repo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		tried = append(tried, args.Get(1).(*identity.User).Username)
	}).Return(identity.ErrUsernameTaken)

	_, err := f.service.Signup(ctx, SignupInput{Name: "Bob", Email: "bob@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, identity.ErrUsernameUnavailable)
	assert.Equal(t, []string{"bob7", "bob7", "bob10000", "bob10001"}, tried)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSignup_SuppliedUsernameClashIsNotRetried(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(identity.ErrUsernameTaken)

	_, err := f.service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123", Username: "ada"})

	assert.ErrorIs(t, err, identity.ErrUsernameTaken)
	f.repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.repo.On("ExistsByEmail", ctx, "ada@example.com").Return(true, nil)

	_, err := f.service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, identity.ErrEmailTaken)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_EmailRaceStopsRetryLoop(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(identity.ErrEmailTaken)

	_, err := f.service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, identity.ErrEmailTaken)
	f.repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestSignup_InvalidInput(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)

	_, err := f.service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "123"})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PASSWORD", de.Code)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := mustUser(t, "Ada", "ada@example.com", "secret123")

	t.Run("success records the login", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
		f.repo.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil)

		result, err := f.service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret123"})
		require.NoError(t, err)

		assert.False(t, result.Created)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, result.User.LastLoginAt)
		f.repo.AssertExpectations(t)
	})

	t.Run("failed last-login write does not block", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByEmail", ctx, mock.Anything).Return(user, nil)
		f.repo.On("UpdateLastLogin", ctx, mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := f.service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret123"})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByEmail", ctx, mock.Anything).Return(user, nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		f.repo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.repo.On("FindByEmail", ctx, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := f.service.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("store failure is not masked", func(t *testing.T) {
		f := newAuthFixture(t)
		boom := errors.New("connection refused")
		f.repo.On("FindByEmail", ctx, mock.Anything).Return(nil, boom)

		_, err := f.service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("google-only identity cannot use a password", func(t *testing.T) {
		f := newAuthFixture(t)
		g, err := identity.NewGoogleUser("Gina", "gina@example.com", "g-1", "")
		require.NoError(t, err)
		f.repo.On("FindByEmail", ctx, mock.Anything).Return(g, nil)

		_, err = f.service.Login(ctx, LoginInput{Email: "gina@example.com", Password: "anything"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}

func googleProfile() *auth.GoogleProfile {
	return &auth.GoogleProfile{
		ID:            "google-123",
		Email:         "ada@example.com",
		EmailVerified: true,
		Name:          "Ada Lovelace",
		Picture:       "https://example.com/ada.png",
	}
}

func TestCompleteGoogleLogin_ExistingLinkedAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user, err := identity.NewGoogleUser("Ada", "ada@example.com", "google-123", "")
	require.NoError(t, err)

	f.google.On("Exchange", ctx, "code-1").Return(googleProfile(), nil)
	f.repo.On("FindByGoogleID", ctx, "google-123").Return(user, nil)
	f.repo.On("UpdateLastLogin", ctx, user.ID, mock.Anything).Return(nil)

	result, err := f.service.CompleteGoogleLogin(ctx, "code-1")
	require.NoError(t, err)

	assert.Equal(t, user.ID, result.User.ID)
	assert.False(t, result.Created)
	f.repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestCompleteGoogleLogin_LinksByEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := mustUser(t, "Ada", "ada@example.com", "secret123")

	f.google.On("Exchange", ctx, "code-1").Return(googleProfile(), nil)
	f.repo.On("FindByGoogleID", ctx, "google-123").Return(nil, shared.ErrNotFound)
	f.repo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
	f.repo.On("Update", ctx, user).Return(nil)

	result, err := f.service.CompleteGoogleLogin(ctx, "code-1")
	require.NoError(t, err)

	assert.True(t, result.User.HasGoogle)
	assert.True(t, result.User.HasPassword)
	assert.Equal(t, "https://example.com/ada.png", result.User.AvatarURL)
	assert.Equal(t, []string{identity.EventTypeGoogleAccountLinked}, publishedTypes(f.publisher))
}

func TestCompleteGoogleLogin_CreatesNewIdentity(t *testing.T) {
	gen := identity.NewUsernameGenerator(identity.WithRandomSource(fixedSuffix(5)))
	f := newAuthFixture(t, WithUsernameGenerator(gen))
	ctx := context.Background()

	f.google.On("Exchange", ctx, "code-1").Return(googleProfile(), nil)
	f.repo.On("FindByGoogleID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	f.repo.On("FindByEmail", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	f.repo.On("Create", ctx, mock.Anything).Return(identity.ErrUsernameTaken).Once()
	f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()

	result, err := f.service.CompleteGoogleLogin(ctx, "code-1")
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.True(t, strings.HasPrefix(result.User.Username, "adalovelace"))
	assert.False(t, result.User.HasPassword)
	assert.Equal(t, []string{identity.EventTypeUserRegistered}, publishedTypes(f.publisher))
}

func TestCompleteGoogleLogin_ExchangeFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.google.On("Exchange", ctx, "bad").Return(nil, auth.ErrOAuthExchange)

	_, err := f.service.CompleteGoogleLogin(ctx, "bad")

	assert.ErrorIs(t, err, identity.ErrGoogleLoginFailed)
	assert.ErrorIs(t, err, auth.ErrOAuthExchange)
}

func TestGoogleLogin_Disabled(t *testing.T) {
	service := NewAuthService(new(MockUserRepository), nil, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

	_, err := service.GoogleAuthURL("state")
	assert.ErrorIs(t, err, identity.ErrGoogleLoginDisabled)
	_, err = service.CompleteGoogleLogin(context.Background(), "code")
	assert.ErrorIs(t, err, identity.ErrGoogleLoginDisabled)
}

func TestGoogleAuthURL(t *testing.T) {
	f := newAuthFixture(t)
	f.google.On("AuthCodeURL", "state-1").Return("https://accounts.google.com/o/oauth2/auth?state=state-1")

	url, err := f.service.GoogleAuthURL("state-1")
	require.NoError(t, err)
	assert.Contains(t, url, "state=state-1")
}

func TestProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := mustUser(t, "Ada", "ada@example.com", "secret123")
	missing := uuid.New()

	f.repo.On("FindByID", ctx, user.ID).Return(user, nil)
	f.repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	info, err := f.service.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada1", info.Username)

	_, err = f.service.Profile(ctx, missing)
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.Logout(ctx, LogoutInput{UserID: uuid.New(), TokenJTI: "jti-1", TTL: time.Minute}))

	revoked, err := f.blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.service.Logout(ctx, LogoutInput{}), shared.ErrInvalidInput)
}
