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
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/catalog"
	"github.com/noah-isme/studypath-api/internal/config"
	"github.com/noah-isme/studypath-api/internal/database"
	"github.com/noah-isme/studypath-api/internal/events"
	"github.com/noah-isme/studypath-api/internal/handler"
	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/middleware"
	"github.com/noah-isme/studypath-api/internal/observability"
	"github.com/noah-isme/studypath-api/internal/repository"
	"github.com/noah-isme/studypath-api/internal/router"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, dashboard caching disabled")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	var publisher events.Publisher = events.Nop{}
	if natsConn != nil {
		defer natsConn.Drain()
		publisher = events.NewNATSPublisher(natsConn, cfg.NATSSubjectPrefix, middleware.CorrelationIDFromContext, logger)
	}

	observability.RegisterMetrics()

	validate := validator.New(validator.WithRequiredStructEnabled())
	sanitizer := importer.NewValidator(bluemonday.StrictPolicy())
	roadmaps, err := catalog.Load(sanitizer)
	if err != nil {
		log.Fatalf("failed to load roadmap catalog: %v", err)
	}
	sessions := session.NewBroker()

	goalRepo := repository.NewWeeklyGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	progressRepo := repository.NewUserProgressRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	dashboardService := service.NewDashboardService(goalRepo, taskRepo, redisClient, cfg.DashboardCacheTTL, logger)
	importService := service.NewImportService(goalRepo, taskRepo, sanitizer, dashboardService, publisher, logger)
	roadmapService := service.NewRoadmapService(goalRepo, taskRepo, roadmaps, dashboardService, publisher, logger)
	goalService := service.NewGoalService(goalRepo, taskRepo, sanitizer, validate, dashboardService, logger)
	taskService := service.NewTaskService(goalRepo, taskRepo, progressRepo, dashboardService, publisher, logger)
	accountService := service.NewAccountService(accountRepo, validate, sessions, publisher, cfg.AccountCooldown, logger)

	unsubscribe := sessions.Subscribe(func(event session.Event) {
		if event.Kind == session.SignedIn {
			return
		}
		dashboardService.Invalidate(context.Background(), event.Session.UserID)
	})
	defer unsubscribe()

	importLimiter := middleware.RateLimit("roadmap_import", cfg.ImportRateLimitMax, cfg.RateLimitWindow)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    2 * service.MaxImportFileSize,
	})

	middleware.Register(app, middleware.Config{
		Logger:        &logger,
		AllowOrigins:  cfg.CORSAllowOrigins,
		AccessLogging: !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		RoadmapHandler:   handler.NewRoadmapHandler(roadmapService, cfg.Location(), logger),
		ImportHandler:    handler.NewImportHandler(importService, importLimiter, logger),
		GoalHandler:      handler.NewGoalHandler(goalService, logger),
		TaskHandler:      handler.NewTaskHandler(taskService, validate, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, cfg.Location(), logger),
		AccountHandler:   handler.NewAccountHandler(accountService, logger),
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
		HealthChecks: map[string]handler.DependencyCheck{
			"postgres": database.PingPostgres(db),
			"redis":    database.PingRedis(redisClient),
			"nats":     database.PingNATS(natsConn),
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
