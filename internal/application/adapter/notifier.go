// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// Notifier delivers transient messages to a user. Delivery is best effort:
// implementations log their own failures and never block the caller's flow.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notification entity.Notification)
}

// NotificationFeed is a Notifier whose pending messages can be collected.
type NotificationFeed interface {
	Notifier

	// Drain returns the pending notifications, newest first, and removes them.
	Drain(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error)
}
