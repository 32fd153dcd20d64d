package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civitas-dev/remote-visit-service/internal/api/http"
	"github.com/civitas-dev/remote-visit-service/internal/api/http/handlers"
	"github.com/civitas-dev/remote-visit-service/internal/auth"
	"github.com/civitas-dev/remote-visit-service/internal/config"
	"github.com/civitas-dev/remote-visit-service/internal/events"
	"github.com/civitas-dev/remote-visit-service/internal/observability"
	"github.com/civitas-dev/remote-visit-service/internal/persistence"
	"github.com/civitas-dev/remote-visit-service/internal/repository"
	"github.com/civitas-dev/remote-visit-service/internal/service"
	"github.com/civitas-dev/remote-visit-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	queueRepo := repository.NewQueueRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	queueService := service.NewQueueService(service.QueueDependencies{
		QueueRepo:  queueRepo,
		Cache:      redis.Client,
		Dispatcher: dispatcher,
	})
	messageService := service.NewMessageService(messageRepo)
	guideService := service.NewGuideService(cfg.Assistant)
	roomService := service.NewRoomService(cfg.Video, queueRepo)
	verifyService := service.NewVerifyService(cfg.Verify)
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Queue:          handlers.NewQueueHandler(queueService),
		Departments:    handlers.NewDepartmentsHandler(),
		Messages:       handlers.NewMessagesHandler(messageService),
		Guide:          handlers.NewGuideHandler(guideService),
		Rooms:          handlers.NewRoomsHandler(roomService),
		Verify:         handlers.NewVerifyHandler(verifyService),
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
