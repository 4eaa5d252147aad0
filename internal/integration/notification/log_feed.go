package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// LogFeed writes notifications to the structured log only. Nothing is ever
// pending, so Drain always returns an empty list.
type LogFeed struct{}

// NewLogFeed creates a log-only feed.
func NewLogFeed() *LogFeed {
	return &LogFeed{}
}

// Notify logs the notification at a level matching its severity.
func (LogFeed) Notify(ctx context.Context, userID uuid.UUID, notification entity.Notification) {
	level := slog.LevelInfo
	switch notification.Severity {
	case entity.SeverityWarning:
		level = slog.LevelWarn
	case entity.SeverityError:
		level = slog.LevelError
	}
	slog.Log(ctx, level, "Notification",
		"user_id", userID,
		"title", notification.Title,
		"message", notification.Message,
	)
}

// Drain returns no notifications.
func (LogFeed) Drain(context.Context, uuid.UUID) ([]entity.Notification, error) {
	return []entity.Notification{}, nil
}
