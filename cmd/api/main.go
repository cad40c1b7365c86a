package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/interference-service/internal/api/http"
	"github.com/spec-kit/interference-service/internal/api/http/handlers"
	"github.com/spec-kit/interference-service/internal/auth"
	"github.com/spec-kit/interference-service/internal/config"
	"github.com/spec-kit/interference-service/internal/domain"
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/observability"
	"github.com/spec-kit/interference-service/internal/persistence"
	"github.com/spec-kit/interference-service/internal/repository"
	"github.com/spec-kit/interference-service/internal/service"
	"github.com/spec-kit/interference-service/internal/store"
	"github.com/spec-kit/interference-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	storeOpts := []store.Option{}
	var users repository.UserRepository
	var initial store.State
	if pg.Enabled() {
		pool := pg.PoolHandle()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, persistence.DefaultMigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		initial, err = repository.LoadState(ctx, pool, logger)
		if err != nil {
			logger.Fatal("failed to load state", zap.Error(err))
		}
		storeOpts = append(storeOpts,
			store.WithJournal(repository.NewJournal(pool)),
			store.WithJournalTimeout(cfg.Postgres.JournalTimeout()),
		)
		users = repository.NewUserRepository(pool)
	} else {
		users = repository.NewMemoryUserRepository()
	}

	reportStore := store.New(storeOpts...)
	reportStore.Load(initial)
	metrics.ObserveBusyTechnicians(reportStore.BusyCount)
	logger.Info("store ready",
		zap.Int("reports", len(initial.Reports)),
		zap.Int("technicians", len(initial.Technicians)),
	)

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notificationService, redis.Publisher())

	validator := service.NewValidator()
	deps := service.Dependencies{
		Store:      reportStore,
		Validator:  validator,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	}

	authService := service.NewAuthService(cfg.Auth, users, validator, logger)
	if err := authService.EnsureSeedUser(ctx, cfg.Auth.SeedUsername, cfg.Auth.SeedPassword, domain.UserRole(cfg.Auth.SeedRole)); err != nil {
		logger.Fatal("failed to seed user", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), users)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:   handlers.NewAuthHandler(authService),
		Reports: handlers.NewReportsHandler(
			service.NewReportService(deps),
			service.NewLifecycleService(deps),
			service.NewAssignmentService(deps),
		),
		Technicians:    handlers.NewTechniciansHandler(service.NewTechnicianService(deps)),
		Dashboard:      handlers.NewDashboardHandler(service.NewDashboardService(reportStore, cfg.Dashboard.RecentActivityLimit)),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
