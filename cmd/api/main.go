package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/joke-moderation-service/internal/api/http"
	"github.com/spec-kit/joke-moderation-service/internal/api/http/handlers"
	"github.com/spec-kit/joke-moderation-service/internal/auth"
	"github.com/spec-kit/joke-moderation-service/internal/config"
	"github.com/spec-kit/joke-moderation-service/internal/events"
	"github.com/spec-kit/joke-moderation-service/internal/jokestore"
	"github.com/spec-kit/joke-moderation-service/internal/observability"
	"github.com/spec-kit/joke-moderation-service/internal/persistence"
	"github.com/spec-kit/joke-moderation-service/internal/repository"
	"github.com/spec-kit/joke-moderation-service/internal/service"
	"github.com/spec-kit/joke-moderation-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var reviewerRepo repository.ReviewerRepository
	if pool := pg.PoolHandle(); pool != nil {
		reviewerRepo = repository.NewReviewerRepository(pool)
	}
	attemptRepo := repository.NewLoginAttemptRepository(redis.Client)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		ReviewerRepo:     reviewerRepo,
		LoginAttemptRepo: attemptRepo,
	})
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	storeClient := jokestore.New(cfg.JokeStore.BaseURL, cfg.JokeStore.Timeout())
	dispatcher := events.NewInMemoryDispatcher()
	moderationService := service.NewModerationService(service.ModerationDependencies{
		Store:      storeClient,
		Dispatcher: dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Jokes:          handlers.NewJokesHandler(moderationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
