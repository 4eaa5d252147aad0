package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// AmountText is an amount as typed by the user. It accepts a JSON string
// ("12,50") or a JSON number (12.5) and keeps the text for validation.
type AmountText string

// UnmarshalJSON implements json.Unmarshaler.
func (a *AmountText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number")
	}
	*a = AmountText(n.String())
	return nil
}

// TransactionRequest is the body of both create and update requests.
// An update replaces every field.
type TransactionRequest struct {
	Amount      AmountText `json:"amount"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Type        string     `json:"type"`
	CategoryID  string     `json:"category_id"`
}

// ToDraft converts the request to a transaction draft.
func (r TransactionRequest) ToDraft() transaction.Draft {
	return transaction.Draft{
		Amount:      string(r.Amount),
		Description: r.Description,
		Date:        r.Date,
		Type:        entity.TransactionType(r.Type),
		CategoryID:  r.CategoryID,
	}
}

// TransactionCategoryResponse represents category information in transaction response.
type TransactionCategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Glyph string `json:"glyph"`
}

// TransactionResponse represents a single transaction row. Amount is the
// stored value; DisplayAmount carries the sign and currency.
type TransactionResponse struct {
	ID            string                       `json:"id"`
	Date          string                       `json:"date"`
	DisplayDate   string                       `json:"display_date"`
	Description   string                       `json:"description"`
	DisplayName   string                       `json:"display_name"`
	Amount        string                       `json:"amount"`
	DisplayAmount string                       `json:"display_amount"`
	Type          string                       `json:"type"`
	CategoryID    string                       `json:"category_id"`
	Category      *TransactionCategoryResponse `json:"category,omitempty"`
	Malformed     bool                         `json:"malformed,omitempty"`
}

// TransactionListResponse is the stateless list with its summary.
type TransactionListResponse struct {
	Filters      FiltersResponse       `json:"filters"`
	Transactions []TransactionResponse `json:"transactions"`
	Summary      SummaryCards          `json:"summary"`
}

// FiltersRequest is the wire form of a filter state. Empty means unset.
type FiltersRequest struct {
	DateFrom   string `json:"date_from" form:"dateFrom"`
	DateTo     string `json:"date_to" form:"dateTo"`
	CategoryID string `json:"category_id" form:"categoryId"`
	Type       string `json:"type" form:"type"`
}

// ToFilterState parses the request into a filter state.
func (r FiltersRequest) ToFilterState() (entity.FilterState, error) {
	return transaction.ParseFilterState(r.DateFrom, r.DateTo, r.CategoryID, r.Type)
}

// FiltersResponse echoes the active filters.
type FiltersResponse struct {
	DateFrom   string `json:"date_from,omitempty"`
	DateTo     string `json:"date_to,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Active     bool   `json:"active"`
}

// ToFiltersResponse converts a filter state to its wire form.
func ToFiltersResponse(f entity.FilterState) FiltersResponse {
	resp := FiltersResponse{Active: f.IsActive()}
	if f.DateFrom != nil {
		resp.DateFrom = f.DateFrom.Format(transaction.DateLayout)
	}
	if f.DateTo != nil {
		resp.DateTo = f.DateTo.Format(transaction.DateLayout)
	}
	if f.CategoryID != nil {
		resp.CategoryID = f.CategoryID.String()
	}
	if f.Type != nil {
		resp.Type = string(*f.Type)
	}
	return resp
}
