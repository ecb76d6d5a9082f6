package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/acadtrack/backend/internal/infrastructure/auth"
	"github.com/acadtrack/backend/internal/infrastructure/config"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
	"github.com/acadtrack/backend/internal/infrastructure/telemetry"
	"github.com/acadtrack/backend/internal/interfaces/http/handler"
	"github.com/acadtrack/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted by the engine
type Handlers struct {
	Auth    *handler.AuthHandler
	School  *handler.SchoolHandler
	College *handler.CollegeHandler
	Health  *handler.HealthHandler
}

// Deps holds everything the engine needs besides handlers
type Deps struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	// MeterProvider may be nil when metrics are off.
	MeterProvider *telemetry.MeterProvider
}

// Engine is the configured gin engine plus the background limiters it owns.
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter janitors.
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

// NewEngine builds the gin engine with the global middleware chain, the
// health and swagger endpoints and the versioned API.
func NewEngine(deps Deps, h Handlers) *Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	e := &Engine{Engine: engine}

	// Order matters: the request id and recovery must wrap everything else.
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(middleware.DefaultSecurityConfig(cfg.IsProduction())),
		middleware.CORS(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.TracingAttributeInjector(),
		middleware.HTTPMetrics(deps.MeterProvider, log),
		middleware.Profiling(cfg.Profiling.Enabled),
	)

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", h.Health.Check)

	jwtMW := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     deps.JWTService,
		TokenBlacklist: deps.TokenBlacklist,
		Logger:         log,
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, jwtMW),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var credentialLimit []gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		credentialLimit = append(credentialLimit, middleware.RateLimit(limiter))
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(authRoutes(h.Auth, jwtMW, credentialLimit)).
		Register(schoolRoutes(h.School, jwtMW)).
		Register(collegeRoutes(h.College, jwtMW))
	r.Setup()

	return e
}
