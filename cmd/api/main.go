package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-dashboard/internal/api/http"
	"github.com/spec-kit/blog-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/blog-dashboard/internal/auth"
	"github.com/spec-kit/blog-dashboard/internal/config"
	"github.com/spec-kit/blog-dashboard/internal/events"
	"github.com/spec-kit/blog-dashboard/internal/observability"
	"github.com/spec-kit/blog-dashboard/internal/persistence"
	"github.com/spec-kit/blog-dashboard/internal/service"
	"github.com/spec-kit/blog-dashboard/internal/store"
	"github.com/spec-kit/blog-dashboard/internal/worker"
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

	recordStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}
	defer recordStore.Close() //nolint:errcheck

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	throttle := service.NewLoginThrottle(redis, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow(), logger)

	accountService := service.NewAccountService(service.AccountDependencies{
		Store:      recordStore,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Throttle:   throttle,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	postService := service.NewPostService(recordStore, dispatcher)

	validate := validator.New()
	authMiddleware := auth.NewAuthMiddleware(tokens)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, recordStore, redis),
		Users:          handlers.NewUsersHandler(accountService, validate),
		Posts:          handlers.NewPostsHandler(postService, validate),
		Dashboard:      handlers.NewDashboardHandler(),
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

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		logger.Info("using postgres record store")
		return store.OpenPostgres(ctx, cfg.PostgresDSN)
	case config.StoreDriverMemory:
		logger.Warn("using in-memory record store; state is lost on exit")
		return store.OpenMemory(), nil
	default:
		logger.Info("using file record store", zap.String("path", cfg.Path))
		return store.OpenFile(cfg.Path)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
