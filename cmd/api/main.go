package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/litreview/internal/api/http"
	"github.com/spec-kit/litreview/internal/api/http/handlers"
	"github.com/spec-kit/litreview/internal/auth"
	"github.com/spec-kit/litreview/internal/config"
	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/observability"
	"github.com/spec-kit/litreview/internal/persistence"
	"github.com/spec-kit/litreview/internal/repository"
	"github.com/spec-kit/litreview/internal/service"
	"github.com/spec-kit/litreview/internal/storage"
	"github.com/spec-kit/litreview/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("invalid redis settings", zap.Error(err))
	}
	defer redis.Close()

	images, err := storage.NewImageStore(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes())
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher()
	var (
		forwarder events.Forwarder
		closers   []worker.Closer
	)
	if cfg.Broker.URL != "" {
		publisher := events.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Exchange, logger)
		forwarder = publisher
		closers = append(closers, publisher)
	} else {
		logger.Info("AMQP_URL empty; domain events stay in process")
	}
	workerDone := worker.StartNotificationWorker(ctx, service.NewNotificationService(dispatcher, forwarder, metrics, logger), logger, closers...)

	store := repository.NewStore(pg.PoolHandle())
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	sessions := auth.NewSessionStore(redis.Client)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Users:    store.Repos().Users,
		Tokens:   tokens,
		Sessions: sessions,
		Logger:   logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Images:     images,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		Store:      store,
		Images:     images,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	followService := service.NewFollowService(store, dispatcher, logger)
	feedService := service.NewFeedService(store)

	authMiddleware := auth.NewAuthMiddleware(authService.Authenticator(), cfg.Session.CookieName)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Upload.MaxSizeBytes()) + 1024*1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var redisProbe handlers.Pinger
	if redis.Enabled() {
		redisProbe = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisProbe),
		Auth:               handlers.NewAuthHandler(authService, cfg.Session),
		Feed:               handlers.NewFeedHandler(feedService),
		Tickets:            handlers.NewTicketsHandler(ticketService, reviewService),
		Reviews:            handlers.NewReviewsHandler(reviewService),
		Follows:            handlers.NewFollowsHandler(followService),
		Media:              handlers.NewMediaHandler(images),
		AuthMiddleware:     authMiddleware,
		Gatherer:           registry,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
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
	cancel()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
