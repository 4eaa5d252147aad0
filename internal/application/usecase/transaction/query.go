// Package transaction contains transaction-related use cases.
package transaction

import (
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BuildQuery maps the active filter for a user onto a read predicate.
// Only the fields set on the filter constrain the result.
func BuildQuery(userID uuid.UUID, filter entity.FilterState) adapter.TransactionQuery {
	query := adapter.TransactionQuery{UserID: userID}

	if filter.DateFrom != nil {
		from := entity.TruncateToDate(*filter.DateFrom)
		query.DateFrom = &from
	}
	if filter.DateTo != nil {
		to := entity.TruncateToDate(*filter.DateTo)
		query.DateTo = &to
	}
	if filter.CategoryID != nil {
		id := *filter.CategoryID
		query.CategoryID = &id
	}
	if filter.Type != nil {
		t := *filter.Type
		query.Type = &t
	}

	return query
}
