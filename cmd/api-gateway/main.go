package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/planwise/planwise-api/api/swagger"
	"github.com/planwise/planwise-api/internal/handler"
	internalmiddleware "github.com/planwise/planwise-api/internal/middleware"
	"github.com/planwise/planwise-api/internal/repository"
	"github.com/planwise/planwise-api/internal/service"
	"github.com/planwise/planwise-api/pkg/cache"
	"github.com/planwise/planwise-api/pkg/config"
	"github.com/planwise/planwise-api/pkg/database"
	"github.com/planwise/planwise-api/pkg/logger"
	corsmiddleware "github.com/planwise/planwise-api/pkg/middleware/cors"
	reqidmiddleware "github.com/planwise/planwise-api/pkg/middleware/requestid"
)

// @title PlanWise API
// @version 1.0.0
// @description Personal activity planning with conflict detection and schedule optimization
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "planwise-api",
	})
	conflictSvc := service.NewConflictService(activityRepo, constraintRepo, logr)
	optimizerSvc := service.NewOptimizerService(activityRepo, constraintRepo, logr,
		service.WithDefaultDuration(cfg.Planner.DefaultActivityDuration),
		service.WithReplanPadding(cfg.Planner.ReplanWindowPadding),
		service.WithOptimizerMetrics(metricsSvc),
	)
	activitySvc := service.NewActivityService(activityRepo, conflictSvc, optimizerSvc, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, validate, logr)
	fatigueSvc := service.NewFatigueService(activityRepo, cacheSvc, cfg.Stats.CacheTTL, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	activityHandler := handler.NewActivityHandler(activitySvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc)
	optimizerHandler := handler.NewOptimizerHandler(optimizerSvc)
	statsHandler := handler.NewStatsHandler(fatigueSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(internalmiddleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/activities", activityHandler.List)
		authed.POST("/activities", activityHandler.Create)
		authed.GET("/activities/:id", activityHandler.Get)
		authed.PUT("/activities/:id", activityHandler.Update)
		authed.DELETE("/activities/:id", activityHandler.Delete)

		authed.GET("/constraints", constraintHandler.List)
		authed.POST("/constraints/weekly", constraintHandler.CreateWeekly)
		authed.DELETE("/constraints/weekly/:id", constraintHandler.DeleteWeekly)
		authed.POST("/constraints/blocked", constraintHandler.CreateBlocked)
		authed.DELETE("/constraints/blocked/:id", constraintHandler.DeleteBlocked)

		authed.GET("/conflicts", conflictHandler.List)
		authed.POST("/conflicts/validate", conflictHandler.Validate)

		authed.POST("/plan/generate", optimizerHandler.Generate)
		authed.POST("/plan/apply", optimizerHandler.Apply)
		authed.POST("/plan/export", optimizerHandler.Export)

		if cfg.Stats.Enabled {
			authed.GET("/stats", statsHandler.Summary)
			authed.GET("/stats/fatigue", statsHandler.Daily)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
