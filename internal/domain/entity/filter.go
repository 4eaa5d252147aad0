// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// FilterState is the active query predicate over a user's transactions.
// A nil field imposes no constraint. Values are never mutated in place;
// editing a filter produces a new FilterState.
type FilterState struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	CategoryID *uuid.UUID
	Type       *TransactionType
}

// IsActive reports whether any constraint is set.
func (f FilterState) IsActive() bool {
	return f.DateFrom != nil || f.DateTo != nil || f.CategoryID != nil || f.Type != nil
}

// Cleared returns the unconstrained filter.
func (f FilterState) Cleared() FilterState {
	return FilterState{}
}

// HasInvertedRange reports whether both bounds are set and DateFrom is after DateTo.
func (f FilterState) HasInvertedRange() bool {
	return f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo)
}

// Equal reports whether two filters constrain the same fields to the same values.
func (f FilterState) Equal(other FilterState) bool {
	return equalTime(f.DateFrom, other.DateFrom) &&
		equalTime(f.DateTo, other.DateTo) &&
		equalPtr(f.CategoryID, other.CategoryID) &&
		equalPtr(f.Type, other.Type)
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
