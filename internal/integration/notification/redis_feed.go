// Package notification implements the user notification feed.
package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

const keyPrefix = "notifications:"

// RedisFeed keeps each user's pending notifications in a capped Redis list,
// newest first.
type RedisFeed struct {
	client     *redis.Client
	maxPending int
	ttl        time.Duration
}

var _ adapter.NotificationFeed = (*RedisFeed)(nil)

// NewRedisFeed creates a feed backed by the given client.
func NewRedisFeed(client *redis.Client, maxPending int, ttl time.Duration) *RedisFeed {
	if maxPending <= 0 {
		maxPending = 50
	}
	return &RedisFeed{
		client:     client,
		maxPending: maxPending,
		ttl:        ttl,
	}
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

// Notify pushes a notification onto the user's list. Failures are logged.
func (f *RedisFeed) Notify(ctx context.Context, userID uuid.UUID, notification entity.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		slog.Error("Failed to encode notification", "user_id", userID, "error", err)
		return
	}

	k := key(userID)
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, k, payload)
	pipe.LTrim(ctx, k, 0, int64(f.maxPending-1))
	if f.ttl > 0 {
		pipe.Expire(ctx, k, f.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("Failed to publish notification",
			"user_id", userID,
			"title", notification.Title,
			"error", err,
		)
	}
}

// Drain returns every pending notification, newest first, and clears the list.
func (f *RedisFeed) Drain(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error) {
	k := key(userID)
	pipe := f.client.TxPipeline()
	pending := pipe.LRange(ctx, k, 0, -1)
	pipe.Del(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw := pending.Val()
	notifications := make([]entity.Notification, 0, len(raw))
	for _, item := range raw {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			slog.Warn("Skipping unreadable notification", "user_id", userID, "error", err)
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
