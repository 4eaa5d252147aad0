// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
const MaxDescriptionLength = 255

// Draft is a transaction as entered by the user, before validation.
type Draft struct {
	Amount      string // "12.50" or "12,50"
	Description string
	Date        string // YYYY-MM-DD; empty means today
	Type        entity.TransactionType
	CategoryID  string
}

// validDraft holds the values of a Draft that passed validation.
type validDraft struct {
	amount      decimal.Decimal
	description string
	date        time.Time
	txnType     entity.TransactionType
	category    *entity.Category
}

// draftValidator checks a Draft against the user's categories.
type draftValidator struct {
	categoryRepo adapter.CategoryRepository
	clock        adapter.Clock
}

// validate returns a validation TransactionError for the first problem found.
// The category lookup is the only collaborator call it makes.
func (v draftValidator) validate(ctx context.Context, userID uuid.UUID, draft Draft) (*validDraft, error) {
	amount, err := valueobject.ParseAmount(draft.Amount)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			amountMessage(err),
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if !draft.Type.IsValid() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	description := strings.TrimSpace(draft.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	date := v.clock.Now()
	if s := strings.TrimSpace(draft.Date); s != "" {
		date, err = time.Parse(DateLayout, s)
		if err != nil {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionDate,
				"date must be in YYYY-MM-DD format",
				domainerror.ErrInvalidTransactionDate,
			)
		}
	}

	categoryText := strings.TrimSpace(draft.CategoryID)
	if categoryText == "" {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingCategory,
			"category is required",
			domainerror.ErrMissingCategory,
		)
	}
	categoryID, err := uuid.Parse(categoryText)
	if err != nil {
		return nil, categoryNotFound()
	}

	category, err := v.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, categoryNotFound()
		}
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeFetchFailed,
			"failed to load category",
			err,
		)
	}

	if category.OwnerID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotOwned,
			"category does not belong to user",
			domainerror.ErrCategoryNotOwnedByUser,
		)
	}

	if !category.Type.Accepts(draft.Type) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeCategoryTypeMismatch,
			fmt.Sprintf("category %q cannot be used for %s transactions", category.Name, draft.Type),
			domainerror.ErrCategoryTypeMismatch,
		)
	}

	return &validDraft{
		amount:      amount,
		description: description,
		date:        entity.TruncateToDate(date),
		txnType:     draft.Type,
		category:    category,
	}, nil
}

func categoryNotFound() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTxnCategoryNotFound,
		"category not found",
		domainerror.ErrCategoryNotFoundForTransaction,
	)
}

func amountMessage(err error) string {
	switch {
	case errors.Is(err, valueobject.ErrAmountEmpty):
		return "amount is required"
	case errors.Is(err, valueobject.ErrAmountNegative):
		return "amount must not be negative"
	default:
		return "amount must be a number"
	}
}
