// Package render turns dashboard state into text for people: locale-aware
// money and percentages, and a colored terminal layout.
package render

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// Formatter formats amounts, percentages and dates for one locale.
type Formatter struct {
	printer    *message.Printer
	symbol     string
	dateLayout string
}

// NewFormatter creates a Formatter from the display settings. An unknown
// locale falls back to Brazilian Portuguese.
func NewFormatter(cfg config.DisplayConfig) *Formatter {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}

	symbol := cfg.CurrencySymbol
	if symbol == "" {
		symbol = "R$"
	}
	layout := cfg.DateLayout
	if layout == "" {
		layout = "02/01/2006"
	}

	return &Formatter{
		printer:    message.NewPrinter(tag),
		symbol:     symbol,
		dateLayout: layout,
	}
}

// Money formats an amount with the currency symbol and two decimals,
// e.g. "R$ 1.234,56". Negative amounts keep a leading minus.
func (f *Formatter) Money(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + f.money(amount.Neg())
	}
	return f.money(amount)
}

// SignedMoney formats a transaction amount with an explicit sign derived
// from its type: "+R$ 10,00" for income and "-R$ 10,00" for expense.
func (f *Formatter) SignedMoney(amount decimal.Decimal, txnType entity.TransactionType) string {
	if txnType == entity.TransactionTypeExpense {
		return "-" + f.money(amount.Abs())
	}
	return "+" + f.money(amount.Abs())
}

// Percent formats a percentage rounded to one decimal place, e.g. "60,0%".
func (f *Formatter) Percent(p decimal.Decimal) string {
	return f.printer.Sprintf("%.1f", p.Round(1).InexactFloat64()) + "%"
}

// Date formats a calendar date with the configured layout.
func (f *Formatter) Date(t time.Time) string {
	return t.Format(f.dateLayout)
}

func (f *Formatter) money(amount decimal.Decimal) string {
	return f.symbol + " " + f.printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}
