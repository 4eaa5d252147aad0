package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/finance-tracker/ledger/internal/application/usecase/dashboard"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

var (
	titleColor   = color.New(color.Bold, color.Underline)
	labelColor   = color.New(color.Faint)
	incomeColor  = color.New(color.FgGreen, color.Bold)
	expenseColor = color.New(color.FgHiRed, color.Bold)
	badgeColor   = color.New(color.FgBlack, color.BgYellow)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgWhite, color.BgRed)
)

// Terminal writes the dashboard as summary cards followed by the
// transaction list.
type Terminal struct {
	out    io.Writer
	format *Formatter
}

// NewTerminal creates a Terminal renderer writing to out.
func NewTerminal(out io.Writer, format *Formatter) *Terminal {
	return &Terminal{out: out, format: format}
}

// Render writes the full dashboard for state. who is shown in the header.
func (t *Terminal) Render(who string, state dashboard.State) {
	t.header(who, state)
	t.cards(state.Summary)
	t.list(state.Transactions)

	if state.Summary.Malformed > 0 {
		warnColor.Fprintf(t.out, "\n%d transaction(s) with an unreadable amount were counted as zero\n", state.Summary.Malformed)
	}
	if state.LastError != nil {
		fmt.Fprintln(t.out)
		errorColor.Fprintf(t.out, " %s ", state.LastError.Error())
		fmt.Fprintln(t.out)
	}
}

func (t *Terminal) header(who string, state dashboard.State) {
	titleColor.Fprintf(t.out, "Dashboard · %s", who)
	fmt.Fprintln(t.out)

	description := t.describeFilters(state.Filters, state.Categories)
	if state.Filters.IsActive() {
		badgeColor.Fprint(t.out, " filters active ")
		fmt.Fprintf(t.out, " %s\n", description)
	} else {
		labelColor.Fprintln(t.out, description)
	}
	fmt.Fprintln(t.out)
}

func (t *Terminal) cards(summary entity.Summary) {
	balance := incomeColor
	if summary.Balance.IsNegative() {
		balance = expenseColor
	}

	t.card("Balance", balance.Sprint(t.format.Money(summary.Balance)),
		t.format.Percent(summary.IncomeShare())+" of income")
	t.card("Income", incomeColor.Sprint(t.format.Money(summary.TotalIncome)),
		fmt.Sprintf("%d transaction(s)", summary.IncomeCount))
	t.card("Expenses", expenseColor.Sprint(t.format.Money(summary.TotalExpense)),
		fmt.Sprintf("%d transaction(s)", summary.ExpenseCount))
	t.card("Savings rate", t.format.Percent(summary.SavingsRate()), "of income kept")
	fmt.Fprintln(t.out)
}

func (t *Terminal) card(label, value, detail string) {
	fmt.Fprintf(t.out, "  %-14s %s  ", labelColor.Sprint(label), value)
	labelColor.Fprintln(t.out, detail)
}

func (t *Terminal) list(rows []*entity.TransactionWithCategory) {
	titleColor.Fprintln(t.out, "Transactions")
	if len(rows) == 0 {
		labelColor.Fprintln(t.out, "  No transactions found")
		return
	}

	for _, row := range rows {
		icon := valueobject.IconCircle
		categoryName := "Uncategorized"
		if row.Category != nil {
			icon = valueobject.ResolveIcon(row.Category.Icon)
			categoryName = row.Category.Name
		}

		amountColor := incomeColor
		if row.Transaction.Type == entity.TransactionTypeExpense {
			amountColor = expenseColor
		}

		fmt.Fprintf(t.out, "  %s %s  %-30s %-16s %s\n",
			icon.Glyph(),
			t.format.Date(row.Transaction.Date),
			truncate(row.DisplayName(), 30),
			labelColor.Sprint(truncate(categoryName, 16)),
			amountColor.Sprint(t.format.SignedMoney(row.Transaction.Amount, row.Transaction.Type)),
		)
	}
}

func (t *Terminal) describeFilters(filters entity.FilterState, categories []*entity.Category) string {
	if !filters.IsActive() {
		return "Showing all transactions"
	}

	var parts []string
	switch {
	case filters.DateFrom != nil && filters.DateTo != nil:
		parts = append(parts, t.format.Date(*filters.DateFrom)+" to "+t.format.Date(*filters.DateTo))
	case filters.DateFrom != nil:
		parts = append(parts, "from "+t.format.Date(*filters.DateFrom))
	case filters.DateTo != nil:
		parts = append(parts, "until "+t.format.Date(*filters.DateTo))
	}
	if filters.Type != nil {
		parts = append(parts, string(*filters.Type)+" only")
	}
	if filters.CategoryID != nil {
		name := filters.CategoryID.String()
		for _, c := range categories {
			if c.ID == *filters.CategoryID {
				name = c.Name
				break
			}
		}
		parts = append(parts, "category "+name)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
