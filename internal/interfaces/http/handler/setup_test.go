package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appacademic "github.com/acadtrack/backend/internal/application/academic"
	appidentity "github.com/acadtrack/backend/internal/application/identity"
	"github.com/acadtrack/backend/internal/infrastructure/auth"
	"github.com/acadtrack/backend/internal/infrastructure/config"
	"github.com/acadtrack/backend/internal/infrastructure/persistence"
	"github.com/acadtrack/backend/internal/infrastructure/persistence/models"
	"github.com/acadtrack/backend/internal/interfaces/http/dto"
	"github.com/acadtrack/backend/internal/interfaces/http/handler"
	"github.com/acadtrack/backend/internal/interfaces/http/middleware"
	"github.com/acadtrack/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const testFrontend = "http://app.test"

type fakeGoogle struct {
	profiles map[string]*auth.GoogleProfile
}

func (g *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/o/oauth2/auth?state=" + state
}

func (g *fakeGoogle) Exchange(_ context.Context, code string) (*auth.GoogleProfile, error) {
	if p, ok := g.profiles[code]; ok {
		return p, nil
	}
	return nil, errors.New("invalid_grant")
}

type testServer struct {
	router *gin.Engine
	google *fakeGoogle
	db     *gorm.DB
}

type serverOption func(*serverOptions)

type serverOptions struct {
	googleDisabled bool
}

func withoutGoogle() serverOption {
	return func(o *serverOptions) { o.googleDisabled = true }
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newTestServer wires real services over an in-memory sqlite database and
// serves them through the production engine.
func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	db := newTestDB(t)
	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "acadtrack-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	google := &fakeGoogle{profiles: map[string]*auth.GoogleProfile{}}

	var authOpts []appidentity.AuthServiceOption
	if !o.googleDisabled {
		authOpts = append(authOpts, appidentity.WithGoogleProvider(google))
	}
	authService := appidentity.NewAuthService(persistence.NewGormUserRepository(db), jwtService, blacklist, log, authOpts...)
	school := appacademic.NewSchoolService(persistence.NewGormSchoolExamRepository(db), nil, log)
	college := appacademic.NewCollegeService(persistence.NewGormCollegeSemesterRepository(db), nil, log)

	cfg := &config.Config{
		App:      config.AppConfig{Name: "acadtrack", Env: "test"},
		HTTP:     config.HTTPConfig{MaxBodySize: 1 << 20},
		Frontend: config.FrontendConfig{URL: testFrontend, CallbackPath: "/dashboard"},
		Cookie:   config.CookieConfig{SameSite: "lax"},
	}
	engine := router.NewEngine(router.Deps{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cfg.Frontend, cfg.Cookie),
		School:  handler.NewSchoolHandler(school),
		College: handler.NewCollegeHandler(college),
		Health:  handler.NewHealthHandler(nil),
	})
	t.Cleanup(engine.Close)

	return &testServer{router: engine.Engine, google: google, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns the issued token.
func (s *testServer) signup(t *testing.T, name, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var auth handler.AuthResponse
	decodeData(t, rec, &auth)
	return auth.Token
}

// decodeData unmarshals the data field of a success envelope into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	require.True(t, envelope.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorInfo(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}
