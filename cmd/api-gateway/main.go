package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kasadra/learning-api/api/swagger"
	"github.com/kasadra/learning-api/internal/handler"
	"github.com/kasadra/learning-api/internal/middleware"
	"github.com/kasadra/learning-api/internal/repository"
	"github.com/kasadra/learning-api/internal/service"
	"github.com/kasadra/learning-api/pkg/cache"
	"github.com/kasadra/learning-api/pkg/config"
	"github.com/kasadra/learning-api/pkg/database"
	"github.com/kasadra/learning-api/pkg/export"
	"github.com/kasadra/learning-api/pkg/logger"
	corsmiddleware "github.com/kasadra/learning-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kasadra/learning-api/pkg/middleware/requestid"
)

// @title Learning API
// @version 1.0.0
// @description Course sales and batch management backend
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The API stays up without Redis; catalog reads fall through to the
		// database.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	activationRepo := repository.NewActivationRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	catalogSvc := service.NewCatalogService(courseRepo, purchaseRepo, cacheSvc, logr)
	cartSvc := service.NewCartService(purchaseRepo, courseRepo, catalogSvc, logr)
	batchSvc := service.NewBatchService(batchRepo, courseRepo, userRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(
		batchRepo,
		userRepo,
		courseRepo,
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		cfg.Assignments,
		cfg.Exports,
		validate,
		logr,
	)
	activationSvc := service.NewActivationService(activationRepo, batchRepo, courseRepo, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, batchRepo, courseRepo, userRepo, cfg.Assignments, validate, logr)

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Cart:     handler.NewCartHandler(cartSvc),
		Batch:    handler.NewBatchHandler(batchSvc, assignmentSvc),
		Lesson:   handler.NewLessonHandler(activationSvc),
		Schedule: handler.NewScheduleHandler(scheduleSvc),
		Metrics:  handler.NewMetricsHandler(metricsSvc),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
