package router

import (
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/acadtrack/backend/internal/interfaces/http/handler"
)

// authRoutes are public except /me and /logout. Credential endpoints get
// the stricter limiter when one is configured.
func authRoutes(h *handler.AuthHandler, jwtMW gin.HandlerFunc, credentialLimit []gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/signup", withPrefix(credentialLimit, h.Signup)...)
	g.POST("/login", withPrefix(credentialLimit, h.Login)...)
	g.GET("/google", h.GoogleLogin)
	g.GET("/google/callback", h.GoogleCallback)
	g.GET("/me", jwtMW, h.Me)
	g.POST("/logout", jwtMW, h.Logout)
	return g
}

func schoolRoutes(h *handler.SchoolHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("school", "/school").Use(jwtMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/summary", h.Summary)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return g
}

func collegeRoutes(h *handler.CollegeHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("college", "/college").Use(jwtMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/summary", h.Summary)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.Group("college-label", "/label").DELETE("/:semester", h.DeleteByLabel)
	return g
}

func withPrefix(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(slices.Clip(mw), h)
}
