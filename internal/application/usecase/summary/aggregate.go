// Package summary computes the aggregate figures shown on the dashboard.
package summary

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// Aggregate computes income, expense and balance totals for a transaction set.
// It never fails: a row whose stored amount is not a number contributes zero
// and is counted in Summary.Malformed.
func Aggregate(rows []*entity.TransactionWithCategory) entity.Summary {
	s := entity.Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, row := range rows {
		if row == nil || row.Transaction == nil {
			continue
		}

		amount, err := StoredAmount(row)
		if err != nil {
			s.Malformed++
			slog.Warn("Ignoring malformed transaction amount",
				"transaction_id", row.Transaction.ID,
				"raw_amount", row.RawAmount,
				"code", domainerror.ErrCodeMalformedAmount,
				"error", err,
			)
		}

		switch row.Transaction.Type {
		case entity.TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(amount)
			s.IncomeCount++
		case entity.TransactionTypeExpense:
			s.TotalExpense = s.TotalExpense.Add(amount)
			s.ExpenseCount++
		default:
			slog.Warn("Ignoring transaction with unknown type",
				"transaction_id", row.Transaction.ID,
				"type", row.Transaction.Type,
			)
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// StoredAmount reads the stored textual amount when present and falls back to
// the parsed amount for rows that were never round-tripped through storage.
// A stored amount that is not a number yields zero and a TXN-03 error
// wrapping ErrMalformedAmount.
func StoredAmount(row *entity.TransactionWithCategory) (decimal.Decimal, error) {
	if row.RawAmount == "" {
		return row.Transaction.Amount, nil
	}
	amount, ok := valueobject.CoerceAmount(row.RawAmount)
	if !ok {
		return decimal.Zero, domainerror.NewTransactionError(
			domainerror.ErrCodeMalformedAmount,
			fmt.Sprintf("stored amount %q is not a number", row.RawAmount),
			domainerror.ErrMalformedAmount,
		)
	}
	return amount, nil
}
