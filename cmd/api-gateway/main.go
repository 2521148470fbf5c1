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

	_ "github.com/noah-isme/sma-meet-api/api/swagger"
	"github.com/noah-isme/sma-meet-api/internal/handler"
	"github.com/noah-isme/sma-meet-api/internal/middleware"
	"github.com/noah-isme/sma-meet-api/internal/models"
	"github.com/noah-isme/sma-meet-api/internal/repository"
	"github.com/noah-isme/sma-meet-api/internal/service"
	"github.com/noah-isme/sma-meet-api/pkg/cache"
	"github.com/noah-isme/sma-meet-api/pkg/config"
	"github.com/noah-isme/sma-meet-api/pkg/database"
	"github.com/noah-isme/sma-meet-api/pkg/jobs"
	"github.com/noah-isme/sma-meet-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-meet-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-meet-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-meet-api/pkg/storage"
)

// @title SMA Meet API
// @version 0.1.0
// @description Meeting availability and booking engine
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	defer redisClient.Close()

	artifactStore, err := storage.NewLocalStorage(cfg.Artifacts.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init artifact storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Artifacts.SignedURLSecret, cfg.Artifacts.SignedURLTTL)

	validate := validator.New()

	adminRepo := repository.NewAdminRepository(db)
	userRepo := repository.NewUserRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	timeOffRepo := repository.NewTimeOffRepository(db)
	vacationRepo := repository.NewVacationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	resolver := service.NewRepositoryAdminResolver(adminRepo)

	availabilitySvc := service.NewAvailabilityService(
		resolver, slotRepo, meetingRepo, vacationRepo, timeOffRepo,
		cacheRepo, metricsSvc, cfg.Booking, cfg.Availability, logr,
	)

	artifactSvc := service.NewArtifactService(artifactStore, signer, logr)

	notificationSvc := service.NewNotificationService(nil, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	}, logr)
	notificationSvc.Start(context.Background())
	defer notificationSvc.Stop()

	bookingSvc := service.NewBookingService(
		resolver, slotRepo, meetingRepo, vacationRepo, timeOffRepo,
		artifactSvc, notificationSvc, availabilitySvc, metricsSvc,
		cfg.Booking, validate, logr,
	)

	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.JWT)
	slotSvc := service.NewSlotService(slotRepo, availabilitySvc, validate, logr)
	timeOffSvc := service.NewTimeOffService(timeOffRepo, availabilitySvc, validate, logr)
	vacationSvc := service.NewVacationService(vacationRepo, availabilitySvc, validate, logr)
	exportSvc := service.NewExportService(resolver, meetingRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	slotHandler := handler.NewSlotHandler(slotSvc)
	timeOffHandler := handler.NewTimeOffHandler(timeOffSvc)
	vacationHandler := handler.NewVacationHandler(vacationSvc)
	artifactHandler := handler.NewArtifactHandler(artifactSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/availability", availabilityHandler.List)
		api.GET("/vacations", vacationHandler.List)
		api.GET("/artifacts/:token", artifactHandler.Download)

		authed := api.Group("", middleware.JWT(authSvc))
		{
			authed.POST("/meetings",
				middleware.RequireRoles(models.RoleGuardian, models.RoleTeacher, models.RoleAdmin, models.RoleSuperAdmin),
				bookingHandler.Create)

			adminOnly := authed.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
			{
				adminOnly.GET("/slots", slotHandler.List)
				adminOnly.POST("/slots", slotHandler.Create)
				adminOnly.PUT("/slots/:id", slotHandler.Update)
				adminOnly.DELETE("/slots/:id", slotHandler.Delete)

				adminOnly.GET("/time-off", timeOffHandler.List)
				adminOnly.POST("/time-off", timeOffHandler.Create)
				adminOnly.DELETE("/time-off/:id", timeOffHandler.Delete)

				adminOnly.GET("/meetings/export", exportHandler.Agenda)
			}

			superOnly := authed.Group("", middleware.RequireRoles(models.RoleSuperAdmin))
			{
				superOnly.POST("/vacations", vacationHandler.Create)
				superOnly.DELETE("/vacations/:id", vacationHandler.Delete)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
