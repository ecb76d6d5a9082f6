package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("school", "/school")
	group.GET("", func(c *gin.Context) { c.String(http.StatusOK, "exams") })
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/school")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "exams", w.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v2/school").Code)
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})
	g := NewDomainGroup("college", "/college")
	g.GET("/summary", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(g).Setup()
	engine.GET("/outside", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "yes", serve(engine, http.MethodGet, "/api/v1/college/summary").Header().Get("X-Api"))
	assert.Empty(t, serve(engine, http.MethodGet, "/outside").Header().Get("X-Api"))
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("college", "/college")
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	g.GET("/:id", ok).
		POST("", ok).
		PUT("/:id", ok).
		DELETE("/label/:semester", ok)
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/college/123"},
		{http.MethodPost, "/api/v1/college"},
		{http.MethodPut, "/api/v1/college/123"},
		{http.MethodDelete, "/api/v1/college/label/Sem%201"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
	assert.Equal(t, "college", g.Name())
	assert.Equal(t, "/college", g.Prefix())
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("auth", "/auth").Use(func(c *gin.Context) {
		c.Header("X-Group", "auth")
		c.Next()
	})
	google := g.Group("google", "/google")
	google.GET("/callback", func(c *gin.Context) { c.String(http.StatusOK, "callback") })
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/auth/google/callback")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "callback", w.Body.String())
	assert.Equal(t, "auth", w.Header().Get("X-Group"))
}
