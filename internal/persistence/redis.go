package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/config"
)

// Redis holds the session-revocation client. A nil Client means Redis is disabled and
// logouts only clear the cookie.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client from REDIS_ADDR, which may be host:port or a redis:// URL.
// An unreachable server is logged but not fatal.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR empty; session revocation disabled")
		return &Redis{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", opts.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	}
	return &Redis{Client: client}, nil
}

func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		return redis.ParseURL(cfg.Addr)
	}
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// Enabled reports whether a client is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Close closes the client.
func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
