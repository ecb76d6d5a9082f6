package middleware

import (
	"net"
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
)

func swaggerRouter(cfg config.SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func getSwagger(router http.Handler, remoteAddr, authHeader string) int {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		remoteAddr string
		want       int
	}{
		{"disabled", config.SwaggerConfig{Enabled: false}, "127.0.0.1:1", http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, "203.0.113.9:1", http.StatusOK},
		{"ip allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, "127.0.0.1:1", http.StatusOK},
		{"ip denied", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, "203.0.113.9:1", http.StatusForbidden},
		{"cidr allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "10.1.2.3:1", http.StatusOK},
		{"bad entries ignored", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"nonsense", "10.0.0.0/99"}}, "10.1.2.3:1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getSwagger(swaggerRouter(tt.cfg, nil), tt.remoteAddr, ""))
		})
	}
}

func TestSwaggerProtection_RequireAuth(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	jwt := JWTAuthMiddleware(JWTMiddlewareConfig{JWTService: jwtService})
	router := swaggerRouter(config.SwaggerConfig{Enabled: true, RequireAuth: true}, jwt)

	assert.Equal(t, http.StatusUnauthorized, getSwagger(router, "127.0.0.1:1", ""))

	issued, err := jwtService.Issue(auth.Subject{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getSwagger(router, "127.0.0.1:1", "Bearer "+issued.Token))
}

func TestIsIPAllowed(t *testing.T) {
	_, network, err := net.ParseCIDR("192.168.0.0/16")
	require.NoError(t, err)

	assert.True(t, isIPAllowed(net.ParseIP("192.168.4.2"), nil, []*net.IPNet{network}))
	assert.True(t, isIPAllowed(net.ParseIP("::1"), []net.IP{net.ParseIP("::1")}, nil))
	assert.False(t, isIPAllowed(nil, []net.IP{net.ParseIP("::1")}, nil))
}
