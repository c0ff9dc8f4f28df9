package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/visitation-api/api/swagger"
	"github.com/noah-isme/visitation-api/internal/handler"
	"github.com/noah-isme/visitation-api/internal/middleware"
	"github.com/noah-isme/visitation-api/internal/repository"
	"github.com/noah-isme/visitation-api/internal/service"
	"github.com/noah-isme/visitation-api/pkg/cache"
	"github.com/noah-isme/visitation-api/pkg/config"
	"github.com/noah-isme/visitation-api/pkg/export"
	"github.com/noah-isme/visitation-api/pkg/jobs"
	"github.com/noah-isme/visitation-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/visitation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/visitation-api/pkg/middleware/requestid"
	"github.com/noah-isme/visitation-api/pkg/storage"
)

// @title Visitation Timetable API
// @version 1.0.0
// @description Schedule expander for school visitation plans: weekly patterns in, dated session timelines out
// @BasePath /api/v1
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Timeline.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, timeline caching disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Timeline.CacheTTL, logr, cfg.Timeline.CacheEnabled && cacheRepo != nil)

	planSvc := service.NewPlanService(validate, logr)
	timelineSvc := service.NewTimelineService(planSvc, cacheSvc, metrics, logr, cfg.Timeline.CacheTTL)
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		TokenSecret:       cfg.Auth.TokenSecret,
		TokenExpiry:       cfg.Auth.TokenExpiry,
		Issuer:            cfg.Auth.Issuer,
	})

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	pdfExporter := export.NewPDFExporter()
	if cfg.Exports.PDFFontPath != "" {
		pdfExporter = export.NewPDFExporterWithFont(cfg.Exports.PDFFontName, cfg.Exports.PDFFontPath)
	}
	exportSvc := service.NewExportService(planSvc, timelineSvc, fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, pdfExporter)

	jobRepo := repository.NewExportJobRepository()
	worker := service.NewExportWorker(jobRepo, exportSvc, metrics, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	exportJobSvc := service.NewExportJobService(jobRepo, planSvc, queue, exportSvc, metrics, logr, service.ExportJobConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})
	exportJobSvc.StartCleanup(ctx)

	authHandler := handler.NewAuthHandler(authSvc)
	planHandler := handler.NewPlanHandler(planSvc)
	timelineHandler := handler.NewTimelineHandler(timelineSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/export/:token", exportHandler.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/status", metricsHandler.Status)

		protected.POST("/plans", planHandler.Create)
		protected.GET("/plans/:id", planHandler.Get)
		protected.PUT("/plans/:id/school", planHandler.UpdateSchool)
		protected.PUT("/plans/:id/periods", planHandler.SetPeriods)
		protected.PUT("/plans/:id/pattern", planHandler.SetPatternCell)
		protected.PUT("/plans/:id/holidays", planHandler.SetHolidays)
		protected.POST("/plans/:id/classes", planHandler.AddClass)
		protected.POST("/plans/:id/classes/batch", planHandler.BatchAddClasses)
		protected.DELETE("/plans/:id/classes/:classId", planHandler.RemoveClass)
		protected.PUT("/plans/:id/classes/:classId/setting", planHandler.SetClassSetting)

		protected.GET("/plans/:id/timeline", timelineHandler.Preview)

		protected.POST("/plans/:id/exports", exportHandler.CreateExport)
		protected.GET("/exports/jobs/:jobId", exportHandler.ExportStatus)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
