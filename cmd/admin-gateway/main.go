package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/topic-distribution-admin/api/swagger"
	"github.com/noah-isme/topic-distribution-admin/internal/handler"
	"github.com/noah-isme/topic-distribution-admin/internal/middleware"
	"github.com/noah-isme/topic-distribution-admin/internal/repository"
	"github.com/noah-isme/topic-distribution-admin/internal/screen"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
	"github.com/noah-isme/topic-distribution-admin/pkg/cache"
	"github.com/noah-isme/topic-distribution-admin/pkg/config"
	"github.com/noah-isme/topic-distribution-admin/pkg/export"
	"github.com/noah-isme/topic-distribution-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/topic-distribution-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/topic-distribution-admin/pkg/middleware/requestid"
)

// @title Topic Distribution Admin
// @version 1.0.0
// @description Admin console gateway for the topic distribution API
// @BasePath /
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	api := apiclient.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, metrics, logr)

	var (
		cacheRepo service.CacheRepository
		ready     interface{ Ping(context.Context) error }
	)
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	if redisClient != nil {
		redisRepo := repository.NewCacheRepository(redisClient, logr)
		defer redisRepo.Close() //nolint:errcheck
		cacheRepo, ready = redisRepo, redisRepo
	} else {
		cacheRepo = repository.NewMemoryCacheRepository()
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	// Collections cached by a previous process may predate remote writes.
	_ = cacheSvc.Invalidate(ctx, cache.CollectionPattern())

	validate := service.NewValidator()
	teachers := service.NewTeacherService(repository.NewTeacherRepository(api), cacheSvc, validate, logr)
	students := service.NewStudentService(repository.NewStudentRepository(api), cacheSvc, validate, logr)
	topics := service.NewTopicService(repository.NewTopicRepository(api), cacheSvc, validate, logr)
	distributions := service.NewDistributionService(repository.NewDistributionRepository(api), teachers, topics, validate, metrics, logr)
	auth := service.NewAuthService(repository.NewAuthRepository(api), validate, logr, service.AuthConfig{
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
	})
	exports := service.NewExportService(distributions, export.NewCSVExporter(), export.NewPDFExporter(cfg.Exports.FontPath), cfg.Exports.Enabled, logr)

	registry := screen.NewRegistry(ctx, screen.Deps{
		Distributions: distributions,
		Students:      students,
		Teachers:      teachers,
		Topics:        topics,
		Dashboard:     service.NewDashboardService(topics, students, teachers, logr),
		Metrics:       metrics,
		BannerTTL:     cfg.Screens.BannerDuration,
		IdleTTL:       cfg.Screens.IdleTTL,
		Logger:        logr,
	})
	go registry.Run(ctx, time.Minute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	workspace := handler.NewWorkspaceHandler(registry, exports)
	handler.RegisterRoutes(r, handler.Router{
		APIPrefix:  cfg.APIPrefix,
		CookieName: cfg.Session.CookieName,
		Sessions:   auth,
		Auth:       handler.NewAuthHandler(auth, registry, handler.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}),
		Workspace:  workspace,
		Pages:      handler.NewPageHandler(workspace, cfg.APIPrefix),
		Metrics:    handler.NewMetricsHandler(metrics, ready),
		Exports:    cfg.Exports.Enabled,
		Audit:      logr.Named("audit"),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	registry.Shutdown()
}
