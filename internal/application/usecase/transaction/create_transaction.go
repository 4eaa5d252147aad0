// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID uuid.UUID
	Draft  Draft
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.TransactionWithCategory
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	validator       draftValidator
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	clock adapter.Clock,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		validator:       draftValidator{categoryRepo: categoryRepo, clock: clock},
	}
}

// Execute validates the draft and stores it as a new transaction.
// Nothing is written when validation fails.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	valid, err := uc.validator.validate(ctx, input.UserID, input.Draft)
	if err != nil {
		return nil, err
	}

	transaction := entity.NewTransaction(
		input.UserID,
		valid.date,
		valid.description,
		valid.amount,
		valid.txnType,
		valid.category.ID,
	)

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodePersistFailed,
			"failed to create transaction",
			err,
		)
	}

	slog.Info("Transaction created",
		"transaction_id", transaction.ID,
		"user_id", transaction.UserID,
		"type", transaction.Type,
	)

	return &CreateTransactionOutput{
		Transaction: &entity.TransactionWithCategory{
			Transaction: transaction,
			Category:    valid.category,
			RawAmount:   transaction.Amount.StringFixed(2),
		},
	}, nil
}
