package valueobject

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parsing errors.
var (
	ErrAmountEmpty      = errors.New("amount is required")
	ErrAmountNotNumeric = errors.New("amount must be a number")
	ErrAmountNegative   = errors.New("amount must not be negative")
)

// AmountScale is the number of decimal places money is kept at.
const AmountScale = 2

// ParseAmount reads an amount typed by a user. Either "." or "," is accepted as
// the decimal separator; when both appear, the last one is the decimal separator
// and the other is treated as a thousands separator ("1.234,56" and "1,234.56").
// The result is rounded half-up to cents.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, ErrAmountEmpty
	}

	s = normalizeSeparators(s)
	if !isPlainNumber(s) {
		return decimal.Zero, ErrAmountNotNumeric
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrAmountNotNumeric
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrAmountNegative
	}

	return amount.Round(AmountScale), nil
}

// CoerceAmount interprets an amount read back from storage. It reports false
// when raw is not a number, in which case the returned amount is zero.
func CoerceAmount(raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastComma < 0:
		return s
	case lastDot < 0:
		return strings.Replace(s, ",", ".", 1)
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}

// isPlainNumber accepts an optional sign, digits and at most one dot.
// Exponents and other forms decimal.NewFromString tolerates are rejected.
func isPlainNumber(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
