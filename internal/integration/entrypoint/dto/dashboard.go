package dto

import (
	"errors"

	"github.com/finance-tracker/ledger/internal/application/usecase/dashboard"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
	"github.com/finance-tracker/ledger/internal/integration/render"
)

// BalanceCard shows the balance and its share of income.
type BalanceCard struct {
	Amount             string `json:"amount"`
	Display            string `json:"display"`
	Negative           bool   `json:"negative"`
	IncomeShare        string `json:"income_share"`
	IncomeShareDisplay string `json:"income_share_display"`
}

// TotalCard shows a per-type total and how many transactions make it up.
type TotalCard struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
	Count   int    `json:"count"`
}

// RateCard shows a percentage.
type RateCard struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// SummaryCards is the summary of a transaction set as four cards.
type SummaryCards struct {
	Balance     BalanceCard `json:"balance"`
	Income      TotalCard   `json:"income"`
	Expense     TotalCard   `json:"expense"`
	SavingsRate RateCard    `json:"savings_rate"`
	Malformed   int         `json:"malformed,omitempty"`
}

// DashboardResponse is the full state of a user's dashboard.
type DashboardResponse struct {
	Filters      FiltersResponse       `json:"filters"`
	Summary      SummaryCards          `json:"summary"`
	Transactions []TransactionResponse `json:"transactions"`
	Categories   []CategoryResponse    `json:"categories"`
	Loading      bool                  `json:"loading"`
	Sequence     uint64                `json:"sequence"`
	Error        string                `json:"error,omitempty"`
}

// Presenter converts domain values into response DTOs using a locale-aware
// formatter for the display fields.
type Presenter struct {
	format *render.Formatter
}

// NewPresenter creates a Presenter.
func NewPresenter(format *render.Formatter) *Presenter {
	return &Presenter{format: format}
}

// Summary converts a Summary to its cards.
func (p *Presenter) Summary(s entity.Summary) SummaryCards {
	share := s.IncomeShare()
	rate := s.SavingsRate()
	return SummaryCards{
		Balance: BalanceCard{
			Amount:             s.Balance.StringFixed(2),
			Display:            p.format.Money(s.Balance),
			Negative:           s.Balance.IsNegative(),
			IncomeShare:        entity.FormatPercent(share),
			IncomeShareDisplay: p.format.Percent(share),
		},
		Income: TotalCard{
			Amount:  s.TotalIncome.StringFixed(2),
			Display: p.format.Money(s.TotalIncome),
			Count:   s.IncomeCount,
		},
		Expense: TotalCard{
			Amount:  s.TotalExpense.StringFixed(2),
			Display: p.format.Money(s.TotalExpense),
			Count:   s.ExpenseCount,
		},
		SavingsRate: RateCard{
			Value:   entity.FormatPercent(rate),
			Display: p.format.Percent(rate),
		},
		Malformed: s.Malformed,
	}
}

// Transaction converts one row.
func (p *Presenter) Transaction(row *entity.TransactionWithCategory) TransactionResponse {
	txn := row.Transaction

	amount := txn.Amount.StringFixed(2)
	_, ok := valueobject.CoerceAmount(row.RawAmount)
	malformed := row.RawAmount != "" && !ok
	if malformed {
		amount = row.RawAmount
	}

	resp := TransactionResponse{
		ID:            txn.ID.String(),
		Date:          txn.Date.Format(transaction.DateLayout),
		DisplayDate:   p.format.Date(txn.Date),
		Description:   txn.Description,
		DisplayName:   row.DisplayName(),
		Amount:        amount,
		DisplayAmount: p.format.SignedMoney(txn.Amount, txn.Type),
		Type:          string(txn.Type),
		CategoryID:    txn.CategoryID.String(),
		Malformed:     malformed,
	}

	if row.Category != nil {
		icon := valueobject.ResolveIcon(row.Category.Icon)
		resp.Category = &TransactionCategoryResponse{
			ID:    row.Category.ID.String(),
			Name:  row.Category.Name,
			Color: row.Category.Color,
			Icon:  icon.Name(),
			Glyph: icon.Glyph(),
		}
	}
	return resp
}

// Transactions converts a list of rows.
func (p *Presenter) Transactions(rows []*entity.TransactionWithCategory) []TransactionResponse {
	items := make([]TransactionResponse, len(rows))
	for i, row := range rows {
		items[i] = p.Transaction(row)
	}
	return items
}

// TransactionList converts the stateless list output.
func (p *Presenter) TransactionList(filters entity.FilterState, out *transaction.ListTransactionsOutput) TransactionListResponse {
	return TransactionListResponse{
		Filters:      ToFiltersResponse(filters),
		Transactions: p.Transactions(out.Transactions),
		Summary:      p.Summary(out.Summary),
	}
}

// Dashboard converts a dashboard snapshot.
func (p *Presenter) Dashboard(state dashboard.State) DashboardResponse {
	resp := DashboardResponse{
		Filters:      ToFiltersResponse(state.Filters),
		Summary:      p.Summary(state.Summary),
		Transactions: p.Transactions(state.Transactions),
		Categories:   ToCategoryListResponse(state.Categories).Categories,
		Loading:      state.Loading,
		Sequence:     state.Sequence,
	}
	if state.LastError != nil {
		resp.Error = publicMessage(state.LastError)
	}
	return resp
}

// publicMessage hides the wrapped cause of domain errors.
func publicMessage(err error) string {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		return txnErr.Message
	}
	return "An internal error occurred"
}
