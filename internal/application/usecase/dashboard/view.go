// Package dashboard holds the per-user dashboard state: the active filters,
// the transactions they select, the derived summary and the category directory.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Dependencies are the collaborators a View drives.
type Dependencies struct {
	ListTransactions  *transaction.ListTransactionsUseCase
	CreateTransaction *transaction.CreateTransactionUseCase
	UpdateTransaction *transaction.UpdateTransactionUseCase
	DeleteTransaction *transaction.DeleteTransactionUseCase
	ListCategories    *category.ListCategoriesUseCase
	Notifier          adapter.Notifier
	// Clock stamps view access in a Registry; nil means the system clock.
	Clock adapter.Clock
}

// State is a point-in-time copy of a View.
type State struct {
	Filters      entity.FilterState
	Transactions []*entity.TransactionWithCategory
	Summary      entity.Summary
	Categories   []*entity.Category
	Loading      bool
	Loaded       bool
	LastError    error
	// Sequence is the number of the fetch whose result is on display.
	Sequence uint64
}

// View is the dashboard of one signed-in user. Every fetch is numbered and
// only the result of the most recently issued fetch is applied.
type View struct {
	identity *entity.Identity
	deps     Dependencies

	mu     sync.Mutex
	state  State
	issued uint64
}

// NewView creates a View for identity. A nil identity yields a View on which
// every operation is a no-op.
func NewView(identity *entity.Identity, deps Dependencies) *View {
	return &View{
		identity: identity,
		deps:     deps,
	}
}

// Identity returns the user the view belongs to, or nil when signed out.
func (v *View) Identity() *entity.Identity {
	return v.identity
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.Transactions = append([]*entity.TransactionWithCategory(nil), v.state.Transactions...)
	s.Categories = append([]*entity.Category(nil), v.state.Categories...)
	return s
}

// EnsureLoaded fetches the dashboard unless a result is already held or a
// fetch is in flight. A view whose every fetch failed is fetched again.
func (v *View) EnsureLoaded(ctx context.Context) error {
	v.mu.Lock()
	settled := v.state.Loaded || v.state.Loading
	v.mu.Unlock()

	if settled {
		return nil
	}
	return v.Refresh(ctx)
}

// ApplyFilters replaces the active filters and fetches the matching set.
// If a newer fetch is issued before this one resolves, this result is dropped.
func (v *View) ApplyFilters(ctx context.Context, filters entity.FilterState) error {
	if v.identity == nil {
		return nil
	}
	if err := transaction.ValidateFilterState(filters); err != nil {
		return err
	}

	v.mu.Lock()
	v.state.Filters = filters
	seq := v.issueLocked()
	v.mu.Unlock()

	return v.load(ctx, seq, filters)
}

// ClearFilters removes every filter and fetches the full set.
func (v *View) ClearFilters(ctx context.Context) error {
	return v.ApplyFilters(ctx, entity.FilterState{}.Cleared())
}

// Refresh re-fetches the set for the active filters.
func (v *View) Refresh(ctx context.Context) error {
	if v.identity == nil {
		return nil
	}

	v.mu.Lock()
	filters := v.state.Filters
	seq := v.issueLocked()
	v.mu.Unlock()

	return v.load(ctx, seq, filters)
}

// Create stores a new transaction and refreshes the view.
func (v *View) Create(ctx context.Context, draft transaction.Draft) (*entity.TransactionWithCategory, error) {
	if v.identity == nil {
		return nil, nil
	}

	out, err := v.deps.CreateTransaction.Execute(ctx, transaction.CreateTransactionInput{
		UserID: v.identity.UserID,
		Draft:  draft,
	})
	if err != nil {
		v.notifyFailure(ctx, "Could not create transaction", err)
		return nil, err
	}

	v.afterCommand(ctx, "Transaction created")
	return out.Transaction, nil
}

// Update replaces a transaction and refreshes the view.
func (v *View) Update(ctx context.Context, id uuid.UUID, draft transaction.Draft) (*entity.TransactionWithCategory, error) {
	if v.identity == nil {
		return nil, nil
	}

	out, err := v.deps.UpdateTransaction.Execute(ctx, transaction.UpdateTransactionInput{
		TransactionID: id,
		UserID:        v.identity.UserID,
		Draft:         draft,
	})
	if err != nil {
		v.notifyFailure(ctx, "Could not update transaction", err)
		return nil, err
	}

	v.afterCommand(ctx, "Transaction updated")
	return out.Transaction, nil
}

// Delete removes a transaction and refreshes the view.
func (v *View) Delete(ctx context.Context, id uuid.UUID) error {
	if v.identity == nil {
		return nil
	}

	_, err := v.deps.DeleteTransaction.Execute(ctx, transaction.DeleteTransactionInput{
		TransactionID: id,
		UserID:        v.identity.UserID,
	})
	if err != nil {
		v.notifyFailure(ctx, "Could not delete transaction", err)
		return err
	}

	v.afterCommand(ctx, "Transaction deleted")
	return nil
}

// afterCommand re-fetches the whole set. A failed refresh is reported
// through the notifier and recorded in LastError; the command itself stands.
func (v *View) afterCommand(ctx context.Context, message string) {
	v.notify(ctx, entity.NewNotification("Success", message, entity.SeverityInfo))

	if err := v.Refresh(ctx); err != nil {
		slog.Warn("Failed to refresh dashboard after command",
			"user_id", v.identity.UserID,
			"error", err,
		)
	}
}

func (v *View) issueLocked() uint64 {
	v.issued++
	v.state.Loading = true
	return v.issued
}

// load runs the fetch for seq outside the lock and applies it if seq is
// still the latest issued fetch.
func (v *View) load(ctx context.Context, seq uint64, filters entity.FilterState) error {
	var (
		list       *transaction.ListTransactionsOutput
		categories []*entity.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := v.deps.ListTransactions.Execute(gctx, transaction.ListTransactionsInput{
			UserID: v.identity.UserID,
			Filter: filters,
		})
		if err != nil {
			return err
		}
		list = out
		return nil
	})
	g.Go(func() error {
		out, err := v.deps.ListCategories.Execute(gctx, category.ListCategoriesInput{
			OwnerID: v.identity.UserID,
		})
		if err != nil {
			return domainerror.NewTransactionError(domainerror.ErrCodeFetchFailed, "failed to load categories", err)
		}
		categories = out.Categories
		return nil
	})
	err := g.Wait()

	v.mu.Lock()
	if latest := v.issued; seq != latest {
		v.mu.Unlock()
		slog.Debug("Discarding stale dashboard fetch",
			"user_id", v.identity.UserID,
			"sequence", seq,
			"latest", latest,
		)
		return nil
	}

	v.state.Loading = false
	if err != nil {
		v.state.LastError = err
		v.mu.Unlock()

		slog.Warn("Dashboard fetch failed",
			"user_id", v.identity.UserID,
			"sequence", seq,
			"error", err,
		)
		v.notify(ctx, entity.NewNotification("Could not load transactions", userMessage(err), entity.SeverityWarning))
		return err
	}

	v.state.Transactions = list.Transactions
	v.state.Summary = list.Summary
	v.state.Categories = categories
	v.state.LastError = nil
	v.state.Loaded = true
	v.state.Sequence = seq
	v.mu.Unlock()

	return nil
}

func (v *View) notifyFailure(ctx context.Context, title string, err error) {
	slog.Warn(title,
		"user_id", v.identity.UserID,
		"error", err,
	)
	v.notify(ctx, entity.NewNotification(title, userMessage(err), entity.SeverityError))
}

func (v *View) notify(ctx context.Context, n entity.Notification) {
	if v.deps.Notifier == nil {
		return
	}
	v.deps.Notifier.Notify(ctx, v.identity.UserID, n)
}

// userMessage returns the domain message of err without its wrapped cause.
func userMessage(err error) string {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		return txnErr.Message
	}
	return err.Error()
}
