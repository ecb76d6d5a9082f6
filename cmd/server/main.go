package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	academicapp "github.com/acadtrack/backend/internal/application/academic"
	identityapp "github.com/acadtrack/backend/internal/application/identity"
	"github.com/acadtrack/backend/internal/domain/identity"
	"github.com/acadtrack/backend/internal/infrastructure/auth"
	"github.com/acadtrack/backend/internal/infrastructure/config"
	"github.com/acadtrack/backend/internal/infrastructure/event"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
	"github.com/acadtrack/backend/internal/infrastructure/persistence"
	"github.com/acadtrack/backend/internal/infrastructure/telemetry"
	"github.com/acadtrack/backend/internal/interfaces/http/handler"
	"github.com/acadtrack/backend/internal/interfaces/http/middleware"
	"github.com/acadtrack/backend/internal/interfaces/http/router"

	_ "github.com/acadtrack/backend/docs"
)

//	@title			AcadTrack API
//	@version		1.0
//	@description	Student academic tracking: school exams, college semesters, GPA and CGPA.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// The bootstrap logger only reports telemetry setup; the real logger tees
	// into the OTel log bridge once it exists.
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log provider", zap.Error(err))
	}

	var logOpts []logger.Option
	if logProvider.IsEnabled() {
		logOpts = append(logOpts, logger.WithCore(logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))))
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, logOpts...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting AcadTrack backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.ParseGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracing(cfg.Telemetry, db.Driver(), log).Register(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisBlacklist.Close() }()
		blacklist = redisBlacklist
	} else {
		log.Warn("Redis disabled, revoked tokens are kept in memory only")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	bus := event.NewInMemoryEventBus(log)
	academicMetrics, err := telemetry.NewAcademicMetrics(meterProvider.Meter(telemetry.MeterName))
	if err != nil {
		log.Warn("Record metrics disabled", zap.Error(err))
	} else {
		bus.Subscribe(academicMetrics)
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authOpts := []identityapp.AuthServiceOption{
		identityapp.WithEventPublisher(bus),
		identityapp.WithUsernameGenerator(identity.NewUsernameGenerator(
			identity.WithAttemptLimits(cfg.Identity.UsernameRandomAttempts, cfg.Identity.UsernameFallbackAttempts),
		)),
	}
	if cfg.Google.Enabled {
		authOpts = append(authOpts, identityapp.WithGoogleProvider(auth.NewGoogleOAuth(cfg.Google)))
	}

	authService := identityapp.NewAuthService(persistence.NewGormUserRepository(db.DB), jwtService, blacklist, log, authOpts...)
	schoolService := academicapp.NewSchoolService(persistence.NewGormSchoolExamRepository(db.DB), bus, log)
	collegeService := academicapp.NewCollegeService(persistence.NewGormCollegeSemesterRepository(db.DB), bus, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.NewEngine(router.Deps{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		MeterProvider:  meterProvider,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cfg.Frontend, cfg.Cookie),
		School:  handler.NewSchoolHandler(schoolService),
		College: handler.NewCollegeHandler(collegeService),
		Health:  handler.NewHealthHandler(db),
	})
	defer engine.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Failed to stop event bus", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	flush(shutdownCtx, log, "meter provider", meterProvider.Shutdown)
	flush(shutdownCtx, log, "tracer provider", tracerProvider.Shutdown)
	flush(shutdownCtx, log, "log provider", logProvider.Shutdown)

	log.Info("Server exited gracefully")
}

func flush(ctx context.Context, log *zap.Logger, name string, shutdown func(context.Context) error) {
	if err := shutdown(ctx); err != nil {
		log.Warn("Failed to shut down "+name, zap.Error(err))
	}
}
