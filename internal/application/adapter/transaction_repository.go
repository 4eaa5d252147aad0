// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionQuery is the read predicate for a user's transactions.
// Nil fields impose no constraint; UserID is always applied.
// Results are ordered by date descending, then by creation time descending.
type TransactionQuery struct {
	UserID     uuid.UUID
	DateFrom   *time.Time // inclusive
	DateTo     *time.Time // inclusive
	CategoryID *uuid.UUID
	Type       *entity.TransactionType
}

// Matches reports whether a transaction satisfies the predicate.
func (q TransactionQuery) Matches(t *entity.Transaction) bool {
	if t.UserID != q.UserID {
		return false
	}
	date := entity.TruncateToDate(t.Date)
	if q.DateFrom != nil && date.Before(entity.TruncateToDate(*q.DateFrom)) {
		return false
	}
	if q.DateTo != nil && date.After(entity.TruncateToDate(*q.DateTo)) {
		return false
	}
	if q.CategoryID != nil && t.CategoryID != *q.CategoryID {
		return false
	}
	if q.Type != nil && t.Type != *q.Type {
		return false
	}
	return true
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByQuery retrieves the ordered transactions matching the query,
	// each joined with its category.
	FindByQuery(ctx context.Context, query TransactionQuery) ([]*entity.TransactionWithCategory, error)

	// Update replaces the mutable fields of an existing transaction.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes a transaction from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
