// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/auth"
	"github.com/spec-kit/litreview/internal/config"
	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/observability"
	"github.com/spec-kit/litreview/internal/persistence"
	"github.com/spec-kit/litreview/internal/repository"
	"github.com/spec-kit/litreview/internal/seed"
	"github.com/spec-kit/litreview/internal/service"
)

func main() {
	opts := seed.DefaultOptions()
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.IntVarP(&opts.Users, "users", "u", opts.Users, "number of users to create")
	flags.IntVar(&opts.TicketsPerUser, "tickets", opts.TicketsPerUser, "tickets per user")
	flags.IntVar(&opts.StandalonePerUser, "reviews", opts.StandalonePerUser, "standalone reviews per user")
	flags.IntVar(&opts.FollowsPerUser, "follows", opts.FollowsPerUser, "users each user follows")
	flags.IntVar(&opts.ResponsePercent, "response-percent", opts.ResponsePercent, "chance (0-100) that a ticket gets a response")
	flags.StringVar(&opts.Password, "password", opts.Password, "password for every seeded user")
	flags.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed; the same seed yields the same data")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
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

	store := repository.NewStore(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	svc := seed.Services{
		Auth: service.NewAuthService(cfg.Auth, service.AuthDependencies{
			Users:    store.Repos().Users,
			Tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
			Sessions: auth.NewSessionStore(nil),
			Logger:   logger,
		}),
		Tickets: service.NewTicketService(service.TicketDependencies{Store: store, Dispatcher: dispatcher, Logger: logger}),
		Reviews: service.NewReviewService(service.ReviewDependencies{Store: store, Dispatcher: dispatcher, Logger: logger}),
		Follows: service.NewFollowService(store, dispatcher, logger),
	}

	if _, err := seed.NewSeeder(svc, opts, logger).Run(ctx); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}
