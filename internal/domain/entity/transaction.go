// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// Transaction represents a financial transaction in the Finance Tracker system.
// Amount is always stored unsigned; the sign is derived from Type.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time // Calendar date, midnight UTC
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	CategoryID  uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	date time.Time,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	categoryID uuid.UUID,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        TruncateToDate(date),
		Description: description,
		Amount:      amount,
		Type:        transactionType,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransactionWithCategory represents a transaction joined at read time with its category.
type TransactionWithCategory struct {
	Transaction *Transaction
	Category    *Category // nil when the referenced category no longer exists

	// RawAmount is the amount exactly as read from storage. Transaction.Amount
	// is zero when RawAmount could not be interpreted as a number.
	RawAmount string
}

// DisplayName returns the description, falling back to the category name.
func (t *TransactionWithCategory) DisplayName() string {
	if t.Transaction.Description != "" {
		return t.Transaction.Description
	}
	if t.Category != nil {
		return t.Category.Name
	}
	return ""
}

// TruncateToDate drops the time-of-day component, keeping the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
