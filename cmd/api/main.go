package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hr-intake/internal/api/http"
	"github.com/spec-kit/hr-intake/internal/api/http/handlers"
	"github.com/spec-kit/hr-intake/internal/auth"
	"github.com/spec-kit/hr-intake/internal/config"
	"github.com/spec-kit/hr-intake/internal/directory"
	"github.com/spec-kit/hr-intake/internal/engine"
	"github.com/spec-kit/hr-intake/internal/events"
	"github.com/spec-kit/hr-intake/internal/fallback"
	"github.com/spec-kit/hr-intake/internal/observability"
	"github.com/spec-kit/hr-intake/internal/persistence"
	"github.com/spec-kit/hr-intake/internal/repository"
	"github.com/spec-kit/hr-intake/internal/service"
	"github.com/spec-kit/hr-intake/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	// Directory and ticket storage degrade to in-memory when Postgres is
	// not configured; the decision semantics are identical.
	var (
		dir        directory.Directory
		ticketRepo repository.TicketRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		dir = repository.NewEmployeeRepository(pool)
		ticketRepo = repository.NewTicketRepository(pool)
	} else {
		dir = directory.NewMemoryDirectory(directory.SeedEmployees())
		ticketRepo = repository.NewMemoryTicketRepository()
	}

	var responseCache engine.ResponseCache
	if cfg.Fallback.CacheBackend == "redis" {
		responseCache = engine.NewRedisCache(redis.Client, cfg.Fallback.CacheTTL(), logger)
	} else {
		responseCache = engine.NewMemoryCache(cfg.Fallback.CacheTTL(), nil)
	}

	var fallbackClient engine.Fallback
	if cfg.Fallback.APIKey != "" {
		client, err := fallback.New(cfg.Fallback, logger)
		if err != nil {
			logger.Fatal("failed to init fallback client", zap.Error(err))
		}
		fallbackClient = client
	} else {
		logger.Warn("FALLBACK_API_KEY not set; unresolved turns will escalate")
	}

	decisionEngine := engine.New(engine.Dependencies{
		Directory: dir,
		Cache:     responseCache,
		Fallback:  fallbackClient,
		Metrics:   metrics,
		Logger:    logger,
	})

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Directory:  dir,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	conversationService := service.NewConversationService(service.ConversationDependencies{
		Engine:     decisionEngine,
		Tickets:    ticketService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	credentials, err := directory.SeedCredentials()
	if err != nil {
		logger.Fatal("failed to seed credentials", zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(credentials, tokens, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Conversations:  handlers.NewConversationsHandler(conversationService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Metrics:        handlers.NewMetricsHandler(metrics),
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
