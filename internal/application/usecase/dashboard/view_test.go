package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

type harness struct {
	identity      *entity.Identity
	salary        *entity.Category
	food          *entity.Category
	categories    *adaptertest.Categories
	transactions  *adaptertest.Transactions
	notifications *adaptertest.Notifications
	deps          Dependencies
}

func newHarness() *harness {
	user := entity.NewUser("ana@example.com", "Ana", "hash", time.Now())
	h := &harness{identity: entity.IdentityOf(user)}
	h.salary = entity.NewCategory("Salary", "#22C55E", "briefcase", user.ID, entity.CategoryTypeIncome)
	h.food = entity.NewCategory("Food", "#EF4444", "utensils", user.ID, entity.CategoryTypeExpense)
	h.categories = adaptertest.NewCategories(h.salary, h.food)
	h.transactions = adaptertest.NewTransactions(h.categories)
	h.notifications = adaptertest.NewNotifications()

	clock := adaptertest.FixedClock{At: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	h.deps = Dependencies{
		ListTransactions:  transaction.NewListTransactionsUseCase(h.transactions),
		CreateTransaction: transaction.NewCreateTransactionUseCase(h.transactions, h.categories, clock),
		UpdateTransaction: transaction.NewUpdateTransactionUseCase(h.transactions, h.categories, clock),
		DeleteTransaction: transaction.NewDeleteTransactionUseCase(h.transactions),
		ListCategories:    category.NewListCategoriesUseCase(h.categories),
		Notifier:          h.notifications,
		Clock:             clock,
	}
	return h
}

func (h *harness) seed(amount string, txnType entity.TransactionType, cat *entity.Category) *entity.Transaction {
	t := entity.NewTransaction(h.identity.UserID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "", decimal.RequireFromString(amount), txnType, cat.ID)
	h.transactions.Seed(t)
	return t
}

func (h *harness) view() *View {
	return NewView(h.identity, h.deps)
}

func typePtr(t entity.TransactionType) *entity.TransactionType {
	return &t
}

func TestView_RefreshLoadsTransactionsSummaryAndCategories(t *testing.T) {
	h := newHarness()
	h.seed("100", entity.TransactionTypeIncome, h.salary)
	h.seed("40", entity.TransactionTypeExpense, h.food)
	view := h.view()

	if err := view.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := view.Snapshot()
	if !s.Loaded || s.Loading {
		t.Errorf("expected loaded and idle, got loaded=%v loading=%v", s.Loaded, s.Loading)
	}
	if len(s.Transactions) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(s.Transactions))
	}
	if s.Summary.Balance.String() != "60" || entity.FormatPercent(s.Summary.SavingsRate()) != "60.0" {
		t.Errorf("unexpected summary %+v", s.Summary)
	}
	if len(s.Categories) != 2 || s.Categories[0].Name != "Food" {
		t.Errorf("expected categories ordered by name, got %v", s.Categories)
	}

	finds := h.transactions.Finds
	if err := view.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.transactions.Finds != finds {
		t.Error("expected EnsureLoaded to fetch only once")
	}
}

func TestView_StaleFetchIsDiscarded(t *testing.T) {
	h := newHarness()
	h.seed("100", entity.TransactionTypeIncome, h.salary)
	h.seed("40", entity.TransactionTypeExpense, h.food)
	view := h.view()

	startedA := make(chan struct{})
	releaseA := make(chan struct{})
	h.transactions.OnFind = func(_ context.Context, q adapter.TransactionQuery) {
		if q.Type != nil && *q.Type == entity.TransactionTypeIncome {
			close(startedA)
			<-releaseA
		}
	}

	doneA := make(chan error, 1)
	go func() {
		doneA <- view.ApplyFilters(context.Background(), entity.FilterState{Type: typePtr(entity.TransactionTypeIncome)})
	}()
	<-startedA

	if err := view.ApplyFilters(context.Background(), entity.FilterState{Type: typePtr(entity.TransactionTypeExpense)}); err != nil {
		t.Fatalf("unexpected error applying B: %v", err)
	}
	close(releaseA)
	if err := <-doneA; err != nil {
		t.Fatalf("unexpected error applying A: %v", err)
	}

	s := view.Snapshot()
	if s.Filters.Type == nil || *s.Filters.Type != entity.TransactionTypeExpense {
		t.Fatalf("expected filters of B, got %+v", s.Filters)
	}
	if len(s.Transactions) != 1 || s.Transactions[0].Transaction.Type != entity.TransactionTypeExpense {
		t.Errorf("expected only B's expense row, got %d rows", len(s.Transactions))
	}
	if s.Sequence != 2 {
		t.Errorf("expected sequence 2 on display, got %d", s.Sequence)
	}
	if s.Loading {
		t.Error("expected view to be idle")
	}
}

func TestView_ApplyFiltersIsIdempotent(t *testing.T) {
	h := newHarness()
	h.seed("100", entity.TransactionTypeIncome, h.salary)
	h.seed("40", entity.TransactionTypeExpense, h.food)
	view := h.view()
	filters := entity.FilterState{CategoryID: &h.food.ID}

	if err := view.ApplyFilters(context.Background(), filters); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := view.Snapshot()
	if err := view.ApplyFilters(context.Background(), filters); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := view.Snapshot()

	if len(first.Transactions) != 1 || len(second.Transactions) != 1 {
		t.Fatalf("expected one row each time, got %d and %d", len(first.Transactions), len(second.Transactions))
	}
	if first.Transactions[0].Transaction.ID != second.Transactions[0].Transaction.ID {
		t.Error("expected the same row")
	}
	if !first.Summary.Balance.Equal(second.Summary.Balance) {
		t.Error("expected the same summary")
	}
}

func TestView_ClearFiltersEqualsFullSet(t *testing.T) {
	h := newHarness()
	h.seed("100", entity.TransactionTypeIncome, h.salary)
	h.seed("40", entity.TransactionTypeExpense, h.food)
	view := h.view()

	if err := view.ApplyFilters(context.Background(), entity.FilterState{Type: typePtr(entity.TransactionTypeIncome)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := view.ClearFilters(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := view.Snapshot()
	if s.Filters.IsActive() {
		t.Error("expected no active filters")
	}
	if len(s.Transactions) != 2 {
		t.Errorf("expected full set of 2, got %d", len(s.Transactions))
	}
}

func TestView_InvertedRangeRejected(t *testing.T) {
	h := newHarness()
	view := h.view()
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := view.ApplyFilters(context.Background(), entity.FilterState{DateFrom: &from, DateTo: &to}); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if h.transactions.Finds != 0 {
		t.Error("expected no fetch for an invalid filter")
	}
	if view.Snapshot().Filters.IsActive() {
		t.Error("expected filters to stay unchanged")
	}
}

func TestView_CommandsRefetch(t *testing.T) {
	h := newHarness()
	h.seed("100", entity.TransactionTypeIncome, h.salary)
	view := h.view()
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := view.Create(ctx, transaction.Draft{Amount: "40", Type: entity.TransactionTypeExpense, CategoryID: h.food.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := view.Snapshot()
	if len(s.Transactions) != 2 || s.Summary.Balance.String() != "60" {
		t.Fatalf("expected refreshed set after create, got %d rows balance %s", len(s.Transactions), s.Summary.Balance)
	}

	_, err = view.Update(ctx, created.Transaction.ID, transaction.Draft{Amount: "70", Type: entity.TransactionTypeExpense, CategoryID: h.food.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := view.Snapshot().Summary.Balance.String(); got != "30" {
		t.Errorf("expected balance 30 after update, got %s", got)
	}

	if err := view.Delete(ctx, created.Transaction.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s = view.Snapshot()
	if len(s.Transactions) != 1 || s.Summary.Balance.String() != "100" {
		t.Errorf("expected refreshed set after delete, got %d rows balance %s", len(s.Transactions), s.Summary.Balance)
	}

	pending := h.notifications.Pending(h.identity.UserID)
	if len(pending) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(pending))
	}
	if pending[0].Message != "Transaction deleted" || pending[0].Severity != entity.SeverityInfo {
		t.Errorf("unexpected newest notification %+v", pending[0])
	}
}

func TestView_CommandFailureKeepsState(t *testing.T) {
	h := newHarness()
	h.seed("100", entity.TransactionTypeIncome, h.salary)
	view := h.view()
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := view.Snapshot()
	finds := h.transactions.Finds

	_, err := view.Create(ctx, transaction.Draft{Amount: "abc", Type: entity.TransactionTypeExpense, CategoryID: h.food.ID.String()})
	if err == nil {
		t.Fatal("expected validation error")
	}

	if h.transactions.Creates != 0 {
		t.Error("expected no persistence call")
	}
	if h.transactions.Finds != finds {
		t.Error("expected no re-fetch after a failed command")
	}
	after := view.Snapshot()
	if len(after.Transactions) != len(before.Transactions) || after.Sequence != before.Sequence {
		t.Error("expected state to be unchanged")
	}
	pending := h.notifications.Pending(h.identity.UserID)
	if len(pending) != 1 || pending[0].Severity != entity.SeverityError {
		t.Errorf("expected one error notification, got %+v", pending)
	}
	if pending[0].Message != "amount must be a number" {
		t.Errorf("unexpected message %q", pending[0].Message)
	}
}

func TestView_FetchFailureKeepsPreviousResult(t *testing.T) {
	h := newHarness()
	h.seed("100", entity.TransactionTypeIncome, h.salary)
	view := h.view()
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.transactions.FindErr = errors.New("connection refused")
	if err := view.ApplyFilters(ctx, entity.FilterState{Type: typePtr(entity.TransactionTypeExpense)}); err == nil {
		t.Fatal("expected fetch error")
	}

	s := view.Snapshot()
	if len(s.Transactions) != 1 || s.Summary.TotalIncome.String() != "100" {
		t.Errorf("expected previous result to be kept, got %d rows", len(s.Transactions))
	}
	if s.LastError == nil {
		t.Error("expected LastError to be recorded")
	}
	if s.Loading {
		t.Error("expected view to be idle after failure")
	}
	pending := h.notifications.Pending(h.identity.UserID)
	if len(pending) != 1 || pending[0].Severity != entity.SeverityWarning {
		t.Errorf("expected one warning, got %+v", pending)
	}

	h.transactions.FindErr = nil
	if err := view.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Snapshot().LastError != nil {
		t.Error("expected LastError to be cleared by a successful fetch")
	}
}

func TestView_EnsureLoadedRetriesAfterFailedFirstFetch(t *testing.T) {
	h := newHarness()
	h.seed("40", entity.TransactionTypeIncome, h.salary)
	view := h.view()
	ctx := context.Background()

	h.transactions.FindErr = errors.New("connection refused")
	if err := view.EnsureLoaded(ctx); err == nil {
		t.Fatal("expected the first fetch to fail")
	}
	if s := view.Snapshot(); s.Loaded || s.Loading {
		t.Fatalf("expected an idle, unloaded view, got loaded=%v loading=%v", s.Loaded, s.Loading)
	}

	h.transactions.FindErr = nil
	before := h.transactions.Finds
	if err := view.EnsureLoaded(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.transactions.Finds != before+1 {
		t.Errorf("expected a second fetch, got %d new", h.transactions.Finds-before)
	}
	s := view.Snapshot()
	if !s.Loaded || s.LastError != nil {
		t.Errorf("expected a loaded view without error, got loaded=%v err=%v", s.Loaded, s.LastError)
	}
	if s.Summary.TotalIncome.String() != "40" {
		t.Errorf("expected income 40, got %s", s.Summary.TotalIncome)
	}

	if err := view.EnsureLoaded(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.transactions.Finds != before+1 {
		t.Error("expected a loaded view not to fetch again")
	}
}

func TestView_SignedOutIsNoOp(t *testing.T) {
	h := newHarness()
	view := NewView(nil, h.deps)
	ctx := context.Background()

	if err := view.Refresh(ctx); err != nil {
		t.Errorf("Refresh: %v", err)
	}
	if err := view.ApplyFilters(ctx, entity.FilterState{Type: typePtr(entity.TransactionTypeIncome)}); err != nil {
		t.Errorf("ApplyFilters: %v", err)
	}
	if row, err := view.Create(ctx, transaction.Draft{Amount: "1", Type: entity.TransactionTypeIncome, CategoryID: h.salary.ID.String()}); row != nil || err != nil {
		t.Errorf("Create: %v %v", row, err)
	}
	if err := view.Delete(ctx, uuid.New()); err != nil {
		t.Errorf("Delete: %v", err)
	}

	if h.transactions.Finds != 0 || h.transactions.Creates != 0 || h.transactions.Deletes != 0 {
		t.Error("expected no collaborator calls")
	}
	if view.Snapshot().Filters.IsActive() {
		t.Error("expected filters untouched")
	}
}

func TestRegistry(t *testing.T) {
	h := newHarness()
	registry := NewRegistry(h.deps, 0)

	a := registry.ViewFor(h.identity)
	b := registry.ViewFor(h.identity)
	if a != b {
		t.Error("expected the same view for the same user")
	}

	other := registry.ViewFor(&entity.Identity{UserID: uuid.New()})
	if other == a {
		t.Error("expected a different view for another user")
	}

	if registry.ViewFor(nil).Identity() != nil {
		t.Error("expected a signed-out view for a nil identity")
	}
	if registry.Len() != 2 {
		t.Errorf("expected 2 retained views, got %d", registry.Len())
	}

	registry.Forget(h.identity.UserID)
	if registry.ViewFor(h.identity) == a {
		t.Error("expected a new view after Forget")
	}
}

func TestRegistry_EvictsIdleViews(t *testing.T) {
	h := newHarness()
	clock := &adaptertest.FixedClock{At: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	h.deps.Clock = clock
	registry := NewRegistry(h.deps, time.Hour)

	other := &entity.Identity{UserID: uuid.New()}
	a := registry.ViewFor(h.identity)
	registry.ViewFor(other)

	clock.At = clock.At.Add(40 * time.Minute)
	if registry.ViewFor(h.identity) != a {
		t.Fatal("expected a recently used view to be kept")
	}

	clock.At = clock.At.Add(30 * time.Minute)
	if registry.ViewFor(h.identity) != a {
		t.Error("expected access to extend the view's lifetime")
	}
	if registry.Len() != 1 {
		t.Errorf("expected the idle view of the other user to be evicted, got %d views", registry.Len())
	}

	clock.At = clock.At.Add(2 * time.Hour)
	if registry.ViewFor(h.identity) == a {
		t.Error("expected a fresh view after the idle timeout")
	}
	if registry.Len() != 1 {
		t.Errorf("expected 1 retained view, got %d", registry.Len())
	}
}

func TestRegistry_ZeroTimeoutNeverEvicts(t *testing.T) {
	h := newHarness()
	clock := &adaptertest.FixedClock{At: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	h.deps.Clock = clock
	registry := NewRegistry(h.deps, 0)

	a := registry.ViewFor(h.identity)
	clock.At = clock.At.AddDate(1, 0, 0)
	if registry.ViewFor(h.identity) != a {
		t.Error("expected the view to be kept without an idle timeout")
	}
}
