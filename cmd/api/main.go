package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vireo-labs/vireo-hr-api/internal/config"
	"github.com/vireo-labs/vireo-hr-api/internal/database"
	"github.com/vireo-labs/vireo-hr-api/internal/handler"
	"github.com/vireo-labs/vireo-hr-api/internal/middleware"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/repository"
	"github.com/vireo-labs/vireo-hr-api/internal/router"
	"github.com/vireo-labs/vireo-hr-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Activity{},
		&models.Participation{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional; without them caching and cross-instance
	// fanout degrade to single-node behaviour.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, caching and pub/sub fanout disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, broker fanout disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	activityRepo := repository.NewActivityRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	appCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	auditRecorder := service.NewAuditRecorder(auditRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, "vireo", natsConn, validate, logger)
	notificationService.Start(appCtx)

	activityService := service.NewActivityService(activityRepo, departmentRepo, userRepo, notificationService, auditRecorder, validate, logger)
	participationService := service.NewParticipationService(participationRepo, activityRepo, userRepo, notificationService, auditRecorder, validate, logger)
	departmentService := service.NewDepartmentService(departmentRepo, validate, logger)
	dashboardService := service.NewManagerDashboardService(activityService, participationService, notificationService, redisClient, cfg.DashboardCacheTTL, logger)

	refresher := service.NewDashboardRefresher(dashboardService, activityRepo, cfg.DashboardRefreshInterval, logger)
	go refresher.Start(appCtx)

	activityHandler := handler.NewActivityHandler(activityService, logger)
	participationHandler := handler.NewParticipationHandler(participationService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.StreamKeepAlive)
	departmentHandler := handler.NewDepartmentHandler(departmentService, logger)
	dashboardHandler := handler.NewManagerDashboardHandler(dashboardService, logger)
	auditHandler := handler.NewAuditHandler(auditRecorder, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:         activityHandler,
		ParticipationHandler:    participationHandler,
		NotificationHandler:     notificationHandler,
		DepartmentHandler:       departmentHandler,
		ManagerDashboardHandler: dashboardHandler,
		AuditHandler:            auditHandler,
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopBackground)
}

func waitForShutdown(app *fiber.App, stopBackground context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
