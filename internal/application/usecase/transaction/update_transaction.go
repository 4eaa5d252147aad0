// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// UpdateTransactionInput represents the input for transaction update.
// Every mutable field is replaced by the draft's value.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Draft         Draft
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction *entity.TransactionWithCategory
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	validator       draftValidator
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	clock adapter.Clock,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		validator:       draftValidator{categoryRepo: categoryRepo, clock: clock},
	}
}

// Execute performs the transaction update.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	valid, err := uc.validator.validate(ctx, input.UserID, input.Draft)
	if err != nil {
		return nil, err
	}

	transaction, err := findOwned(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	transaction.Date = valid.date
	transaction.Description = valid.description
	transaction.Amount = valid.amount
	transaction.Type = valid.txnType
	transaction.CategoryID = valid.category.ID
	transaction.UpdatedAt = time.Now().UTC()

	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodePersistFailed,
			"failed to update transaction",
			err,
		)
	}

	slog.Info("Transaction updated",
		"transaction_id", transaction.ID,
		"user_id", transaction.UserID,
	)

	return &UpdateTransactionOutput{
		Transaction: &entity.TransactionWithCategory{
			Transaction: transaction,
			Category:    valid.category,
			RawAmount:   transaction.Amount.StringFixed(2),
		},
	}, nil
}

// findOwned loads a transaction and checks that it belongs to userID.
func findOwned(ctx context.Context, repo adapter.TransactionRepository, id, userID uuid.UUID) (*entity.Transaction, error) {
	transaction, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeFetchFailed,
			"failed to find transaction",
			err,
		)
	}

	if transaction.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	return transaction, nil
}
