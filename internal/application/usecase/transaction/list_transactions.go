// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/summary"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID uuid.UUID
	Filter entity.FilterState
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.TransactionWithCategory
	Summary      entity.Summary
}

// ListTransactionsUseCase fetches the transactions matching a filter and
// aggregates them.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the transaction listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if err := ValidateFilterState(input.Filter); err != nil {
		return nil, err
	}

	rows, err := uc.transactionRepo.FindByQuery(ctx, BuildQuery(input.UserID, input.Filter))
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeFetchFailed,
			"failed to load transactions",
			err,
		)
	}

	if rows == nil {
		rows = []*entity.TransactionWithCategory{}
	}

	return &ListTransactionsOutput{
		Transactions: rows,
		Summary:      summary.Aggregate(rows),
	}, nil
}
