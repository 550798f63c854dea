package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles the repositories bound to one connection or transaction.
type Repositories struct {
	Users   UserRepository
	Tickets TicketRepository
	Reviews ReviewRepository
	Follows FollowRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:   NewUserRepository(db),
		Tickets: NewTicketRepository(db),
		Reviews: NewReviewRepository(db),
		Follows: NewFollowRepository(db),
	}
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repos() Repositories
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}

type pgStore struct {
	pool  *pgxpool.Pool
	repos Repositories
}

// NewStore returns a Postgres-backed store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool, repos: NewRepositories(pool)}
}

func (s *pgStore) Repos() Repositories {
	return s.repos
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (s *pgStore) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(NewRepositories(tx))
	})
}
