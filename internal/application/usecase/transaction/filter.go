// Package transaction contains transaction-related use cases.
package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseFilterState builds a FilterState from its wire form. Empty strings
// leave the corresponding field unset.
func ParseFilterState(dateFrom, dateTo, categoryID, txnType string) (entity.FilterState, error) {
	var filter entity.FilterState

	if s := strings.TrimSpace(dateFrom); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return entity.FilterState{}, invalidFilter("dateFrom must be in YYYY-MM-DD format", err)
		}
		filter.DateFrom = &d
	}

	if s := strings.TrimSpace(dateTo); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return entity.FilterState{}, invalidFilter("dateTo must be in YYYY-MM-DD format", err)
		}
		filter.DateTo = &d
	}

	if s := strings.TrimSpace(categoryID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return entity.FilterState{}, invalidFilter("categoryId must be a valid UUID", err)
		}
		filter.CategoryID = &id
	}

	if s := strings.TrimSpace(txnType); s != "" {
		t := entity.TransactionType(s)
		if !t.IsValid() {
			return entity.FilterState{}, invalidFilter("type must be 'expense' or 'income'", domainerror.ErrInvalidTransactionType)
		}
		filter.Type = &t
	}

	if err := ValidateFilterState(filter); err != nil {
		return entity.FilterState{}, err
	}

	return filter, nil
}

// ValidateFilterState rejects filters whose date range is inverted.
func ValidateFilterState(filter entity.FilterState) error {
	if filter.HasInvertedRange() {
		return invalidFilter("dateFrom must not be after dateTo", nil)
	}
	return nil
}

func invalidFilter(message string, err error) error {
	if err == nil {
		err = domainerror.ErrInvalidFilter
	}
	return domainerror.NewTransactionError(domainerror.ErrCodeInvalidFilter, message, err)
}
