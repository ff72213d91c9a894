package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/performance-portal-api/api/swagger"
	"github.com/noah-isme/performance-portal-api/internal/handler"
	"github.com/noah-isme/performance-portal-api/internal/middleware"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	"github.com/noah-isme/performance-portal-api/internal/router"
	"github.com/noah-isme/performance-portal-api/internal/service"
	"github.com/noah-isme/performance-portal-api/pkg/cache"
	"github.com/noah-isme/performance-portal-api/pkg/config"
	"github.com/noah-isme/performance-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/performance-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/performance-portal-api/pkg/middleware/requestid"
)

// @title Student Performance Portal API
// @version 1.0.0
// @description Student access-code login, generated session history, grading summaries and report downloads
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWT.Secret == "" {
		logr.Fatal("JWT_SECRET is required")
	}

	ctx := context.Background()
	metrics := service.NewMetricsService()

	store, ready, closeStore := newSessionStore(ctx, cfg, logr)
	defer closeStore()

	adminHash, err := service.AdminPasswordHash(cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		logr.Fatal("invalid admin credential", zap.Error(err))
	}
	if adminHash == "" {
		logr.Warn("no admin password configured; administrator login is disabled")
	}

	students := service.NewStudentService(repository.NewStudentRepository(repository.SeedStudents()...), nil, logr)
	sessions := service.NewSessionService(store, service.NewSeededSessionGenerator(cfg.Sessions.Seed), nil, logr, metrics, service.SessionConfig{
		BatchTTL: cfg.Sessions.BatchTTL,
	})
	auth := service.NewAuthService(students, sessions, nil, logr, metrics, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		AdminPasswordHash: adminHash,
	})
	dashboard := service.NewDashboardService(students, metrics, logr, service.DashboardServiceConfig{})
	reports := service.NewReportService(nil, nil, logr, metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics", "/health", "/ready"))

	router.Register(r, cfg, router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(auth),
		StudentHandler:   handler.NewStudentHandler(students),
		SessionHandler:   handler.NewSessionHandler(sessions, students),
		ReportHandler:    handler.NewReportHandler(sessions, students, reports),
		DashboardHandler: handler.NewDashboardHandler(dashboard),
		MetricsHandler:   handler.NewMetricsHandler(metrics, ready),
		JWTMiddleware:    middleware.JWT(auth),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "session_store", cfg.Sessions.Store)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newSessionStore picks the batch store named by SESSION_STORE and returns its readiness probe and closer.
func newSessionStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.SessionStore, func(context.Context) error, func()) {
	if cfg.Sessions.Store != config.SessionStoreRedis {
		return repository.NewSessionRepository(), nil, func() {}
	}

	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	repo := repository.NewSessionCacheRepository(client, logr)
	ready := func(ctx context.Context) error { return cache.Ping(ctx, client) }
	closer := func() {
		if err := repo.Close(); err != nil {
			logr.Warn("failed to close redis", zap.Error(err))
		}
	}
	return repo, ready, closer
}
