package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/backend/internal/infrastructure/auth"
	"github.com/acadtrack/backend/internal/infrastructure/config"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
	"github.com/acadtrack/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(ttl time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: ttl,
		Issuer:                "acadtrack-test",
	})
}

type failingBlacklist struct{}

func (failingBlacklist) Revoke(context.Context, string, time.Duration) error { return nil }
func (failingBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func protectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddleware(cfg))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     GetJWTUserID(c),
			"log_user_id": logger.GetUserID(c.Request.Context()),
			"gin_user_id": c.GetString(logger.GinUserIDKey),
		})
	})
	return router
}

func doGet(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	userID := uuid.New()
	issued, err := jwtService.Issue(auth.Subject{UserID: userID, Username: "ada42"})
	require.NoError(t, err)

	rec := doGet(protectedRouter(JWTMiddlewareConfig{JWTService: jwtService}), "Bearer "+issued.Token)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, userID.String(), body["log_user_id"])
	assert.Equal(t, userID.String(), body["gin_user_id"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	router := protectedRouter(JWTMiddlewareConfig{JWTService: jwtService})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := newTestJWTService(-time.Minute)
	issued, err := jwtService.Issue(auth.Subject{UserID: uuid.New()})
	require.NoError(t, err)

	rec := doGet(protectedRouter(JWTMiddlewareConfig{JWTService: jwtService}), "Bearer "+issued.Token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, rec))
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	blacklist := auth.NewInMemoryTokenBlacklist()
	issued, err := jwtService.Issue(auth.Subject{UserID: uuid.New()})
	require.NoError(t, err)
	router := protectedRouter(JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist})

	require.Equal(t, http.StatusOK, doGet(router, "Bearer "+issued.Token).Code)

	require.NoError(t, blacklist.Revoke(context.Background(), issued.JTI, time.Hour))
	rec := doGet(router, "Bearer "+issued.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
}

func TestJWTAuthMiddleware_BlacklistErrorFailsOpen(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	issued, err := jwtService.Issue(auth.Subject{UserID: uuid.New()})
	require.NoError(t, err)

	rec := doGet(protectedRouter(JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: failingBlacklist{}}), "Bearer "+issued.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
}
