// Package entity defines the core business entities for the domain layer.
package entity

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Summary holds the aggregate figures derived from a transaction set.
// It is recomputed from scratch whenever the set changes and never persisted.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal

	IncomeCount  int
	ExpenseCount int

	// Malformed counts records whose amount could not be read as a number.
	// Those records contribute zero to the totals.
	Malformed int
}

// SavingsRate returns the balance as a percentage of total income,
// or zero when there is no income.
func (s Summary) SavingsRate() decimal.Decimal {
	if !s.TotalIncome.IsPositive() {
		return decimal.Zero
	}
	return s.Balance.Div(s.TotalIncome).Mul(hundred)
}

// IncomeShare returns the balance as a percentage of total income, dividing
// by one instead of zero when there is no income. Unlike SavingsRate it is
// non-zero for a negative balance without income.
func (s Summary) IncomeShare() decimal.Decimal {
	denominator := s.TotalIncome
	if denominator.IsZero() {
		denominator = decimal.NewFromInt(1)
	}
	return s.Balance.Div(denominator).Mul(hundred)
}

// FormatPercent renders a percentage rounded to one decimal place, e.g. "60.0".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1)
}
