package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/adapter"
)

const pingTimeout = 3 * time.Second

// Connect opens a Redis client for the configured URL and verifies it responds.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

// NewFeed returns a Redis-backed feed when Redis is reachable and a log-only
// feed otherwise. The returned client is nil in the fallback case.
func NewFeed(ctx context.Context, redisCfg config.RedisConfig, cfg config.NotificationsConfig) (adapter.NotificationFeed, *redis.Client) {
	client, err := Connect(ctx, redisCfg)
	if err != nil {
		slog.Warn("Redis unavailable, notifications will only be logged", "error", err)
		return NewLogFeed(), nil
	}
	slog.Info("Notification feed connected to Redis")
	return NewRedisFeed(client, cfg.MaxPending, cfg.TTL), client
}
