package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/lernfeld/semesterplan-api/api/swagger"
	"github.com/lernfeld/semesterplan-api/internal/handler"
	"github.com/lernfeld/semesterplan-api/internal/middleware"
	"github.com/lernfeld/semesterplan-api/internal/models"
	"github.com/lernfeld/semesterplan-api/internal/repository"
	"github.com/lernfeld/semesterplan-api/internal/service"
	"github.com/lernfeld/semesterplan-api/pkg/cache"
	"github.com/lernfeld/semesterplan-api/pkg/config"
	"github.com/lernfeld/semesterplan-api/pkg/database"
	"github.com/lernfeld/semesterplan-api/pkg/logger"
	corsmiddleware "github.com/lernfeld/semesterplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/lernfeld/semesterplan-api/pkg/middleware/requestid"
)

// @title Semesterplan API
// @version 1.0.0
// @description Semester plan management: appointment generation and topic segmentation.
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Topics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Topics.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	topicRepo := repository.NewTopicRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	planRepo := repository.NewPlanRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	tokenSvc := service.NewTokenService(service.TokenServiceConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	topicSvc := service.NewTopicService(topicRepo, appointmentRepo, db, cacheSvc, metrics, nil, logr, cfg.Topics.CacheTTL)
	generatorSvc := service.NewGeneratorService(planRepo, templateRepo, appointmentRepo, catalogRepo, db, cacheSvc, metrics, nil, logr, service.GeneratorConfig{
		EarlyDismissalMinute: cfg.Generator.EarlyDismissalMinute,
		StartOfDayOffset:     cfg.Generator.StartOfDayOffset,
	})
	appointmentSvc := service.NewAppointmentService(appointmentRepo, planRepo, topicRepo, db, cacheSvc, nil, logr)
	planSvc := service.NewPlanService(planRepo, catalogRepo, catalogRepo, db, nil, logr)
	templateSvc := service.NewTemplateService(templateRepo, planRepo, logr)
	catalogSvc := service.NewCatalogService(catalogRepo)

	planHandler := handler.NewPlanHandler(planSvc, generatorSvc)
	topicHandler := handler.NewTopicHandler(topicSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))
	canEdit := middleware.RequireRole(models.RoleTeacher, models.RoleAdmin)
	{
		api.GET("/plans", planHandler.List)
		api.POST("/plans", canEdit, planHandler.Create)
		api.GET("/plans/draft", planHandler.Draft)
		api.GET("/plans/:id", planHandler.Get)
		api.PUT("/plans/:id", canEdit, planHandler.Update)
		api.DELETE("/plans/:id", canEdit, planHandler.Delete)
		api.POST("/plans/:id/finish", canEdit, planHandler.Finish)
		api.GET("/plans/:id/appointments", appointmentHandler.ByPlan)
		api.POST("/plans/:id/appointments/generate", canEdit, planHandler.Generate)
		api.GET("/plans/:id/topics", topicHandler.ByPlan)
		api.GET("/plans/:id/topics/count", topicHandler.CountByPlan)
		api.GET("/plans/:id/templates", templateHandler.ForPlan)

		api.GET("/appointments", appointmentHandler.List)
		api.POST("/appointments", canEdit, appointmentHandler.Create)

		api.GET("/topics", topicHandler.List)
		api.GET("/topics/overview", topicHandler.Overview)
		api.POST("/topics/rename", canEdit, topicHandler.Rename)
		api.POST("/topics/shorten", canEdit, topicHandler.Shorten)
		api.POST("/topics/move", canEdit, topicHandler.Move)
		api.POST("/topics/append", canEdit, topicHandler.Append)

		api.GET("/templates/:id/exceptions", templateHandler.Exceptions)

		api.GET("/areas", catalogHandler.Areas)
		api.GET("/areas/:slug", catalogHandler.Area)
		api.GET("/areas/:slug/classes", catalogHandler.Classes)
		api.GET("/subjects", catalogHandler.Subjects)
		api.GET("/timespans", catalogHandler.TimeSpans)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
