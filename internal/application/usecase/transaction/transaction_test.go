package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

var today = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	owner      uuid.UUID
	salary     *entity.Category
	food       *entity.Category
	foreign    *entity.Category
	categories *adaptertest.Categories
	repo       *adaptertest.Transactions
	clock      adaptertest.FixedClock
}

func newFixture() *fixture {
	owner := uuid.New()
	f := &fixture{
		owner:   owner,
		salary:  entity.NewCategory("Salary", "#22C55E", "briefcase", owner, entity.CategoryTypeIncome),
		food:    entity.NewCategory("Food", "#EF4444", "utensils", owner, entity.CategoryTypeExpense),
		foreign: entity.NewCategory("Food", "#EF4444", "utensils", uuid.New(), entity.CategoryTypeExpense),
		clock:   adaptertest.FixedClock{At: today},
	}
	f.categories = adaptertest.NewCategories(f.salary, f.food, f.foreign)
	f.repo = adaptertest.NewTransactions(f.categories)
	return f
}

func (f *fixture) seed(date string, amount string, txnType entity.TransactionType, category *entity.Category) *entity.Transaction {
	d, _ := time.Parse(DateLayout, date)
	t := entity.NewTransaction(f.owner, d, "", decimal.RequireFromString(amount), txnType, category.ID)
	f.repo.Seed(t)
	return t
}

func assertCode(t *testing.T, err error, want domainerror.TransactionErrorCode) {
	t.Helper()
	var txnErr *domainerror.TransactionError
	if !errors.As(err, &txnErr) {
		t.Fatalf("expected TransactionError with code %s, got %v", want, err)
	}
	if txnErr.Code != want {
		t.Errorf("expected code %s, got %s", want, txnErr.Code)
	}
}

func TestCreateTransactionUseCase_Validation(t *testing.T) {
	tests := []struct {
		name     string
		draft    func(f *fixture) Draft
		wantCode domainerror.TransactionErrorCode
	}{
		{
			name:     "non-numeric amount",
			draft:    func(f *fixture) Draft { return Draft{Amount: "abc", Type: entity.TransactionTypeExpense, CategoryID: f.food.ID.String()} },
			wantCode: domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name:     "empty amount",
			draft:    func(f *fixture) Draft { return Draft{Type: entity.TransactionTypeExpense, CategoryID: f.food.ID.String()} },
			wantCode: domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name:     "negative amount",
			draft:    func(f *fixture) Draft { return Draft{Amount: "-3", Type: entity.TransactionTypeExpense, CategoryID: f.food.ID.String()} },
			wantCode: domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name:     "invalid type",
			draft:    func(f *fixture) Draft { return Draft{Amount: "3", Type: "transfer", CategoryID: f.food.ID.String()} },
			wantCode: domainerror.ErrCodeInvalidTransactionType,
		},
		{
			name:     "invalid date",
			draft:    func(f *fixture) Draft { return Draft{Amount: "3", Date: "15/03/2024", Type: entity.TransactionTypeExpense, CategoryID: f.food.ID.String()} },
			wantCode: domainerror.ErrCodeInvalidTransactionDate,
		},
		{
			name:     "missing category",
			draft:    func(f *fixture) Draft { return Draft{Amount: "3", Type: entity.TransactionTypeExpense} },
			wantCode: domainerror.ErrCodeMissingCategory,
		},
		{
			name:     "unknown category",
			draft:    func(f *fixture) Draft { return Draft{Amount: "3", Type: entity.TransactionTypeExpense, CategoryID: uuid.NewString()} },
			wantCode: domainerror.ErrCodeTxnCategoryNotFound,
		},
		{
			name:     "category of another user",
			draft:    func(f *fixture) Draft { return Draft{Amount: "3", Type: entity.TransactionTypeExpense, CategoryID: f.foreign.ID.String()} },
			wantCode: domainerror.ErrCodeTxnCategoryNotOwned,
		},
		{
			name:     "category type differs from transaction type",
			draft:    func(f *fixture) Draft { return Draft{Amount: "3", Type: entity.TransactionTypeExpense, CategoryID: f.salary.ID.String()} },
			wantCode: domainerror.ErrCodeCategoryTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			uc := NewCreateTransactionUseCase(f.repo, f.categories, f.clock)

			_, err := uc.Execute(context.Background(), CreateTransactionInput{UserID: f.owner, Draft: tt.draft(f)})

			assertCode(t, err, tt.wantCode)
			if !domainerror.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
			if f.repo.Creates != 0 {
				t.Errorf("expected no persistence call, got %d", f.repo.Creates)
			}
		})
	}
}

func TestCreateTransactionUseCase_Success(t *testing.T) {
	f := newFixture()
	uc := NewCreateTransactionUseCase(f.repo, f.categories, f.clock)

	out, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID: f.owner,
		Draft: Draft{
			Amount:      "12,345",
			Description: "  Groceries ",
			Type:        entity.TransactionTypeExpense,
			CategoryID:  f.food.ID.String(),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txn := out.Transaction.Transaction
	if txn.Amount.String() != "12.35" {
		t.Errorf("expected amount rounded to 12.35, got %s", txn.Amount)
	}
	if txn.Description != "Groceries" {
		t.Errorf("expected trimmed description, got %q", txn.Description)
	}
	if !txn.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected date to default to today, got %s", txn.Date)
	}
	if out.Transaction.Category == nil || out.Transaction.Category.ID != f.food.ID {
		t.Error("expected the category to be joined")
	}
	if f.repo.Len() != 1 {
		t.Errorf("expected one stored transaction, got %d", f.repo.Len())
	}
}

func TestCreateTransactionUseCase_PersistFailure(t *testing.T) {
	f := newFixture()
	f.repo.WriteErr = errors.New("connection reset")
	uc := NewCreateTransactionUseCase(f.repo, f.categories, f.clock)

	_, err := uc.Execute(context.Background(), CreateTransactionInput{
		UserID: f.owner,
		Draft:  Draft{Amount: "1", Type: entity.TransactionTypeIncome, CategoryID: f.salary.ID.String()},
	})

	assertCode(t, err, domainerror.ErrCodePersistFailed)
	if !domainerror.IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestUpdateTransactionUseCase(t *testing.T) {
	t.Run("replaces all mutable fields", func(t *testing.T) {
		f := newFixture()
		existing := f.seed("2024-01-01", "10", entity.TransactionTypeExpense, f.food)
		uc := NewUpdateTransactionUseCase(f.repo, f.categories, f.clock)

		out, err := uc.Execute(context.Background(), UpdateTransactionInput{
			TransactionID: existing.ID,
			UserID:        f.owner,
			Draft: Draft{
				Amount:      "2500",
				Description: "March salary",
				Date:        "2024-03-05",
				Type:        entity.TransactionTypeIncome,
				CategoryID:  f.salary.ID.String(),
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored, _ := f.repo.FindByID(context.Background(), existing.ID)
		if stored.Type != entity.TransactionTypeIncome || stored.CategoryID != f.salary.ID {
			t.Errorf("expected type and category to be replaced, got %s/%s", stored.Type, stored.CategoryID)
		}
		if stored.Amount.String() != "2500" || stored.Description != "March salary" {
			t.Errorf("unexpected stored values %s/%q", stored.Amount, stored.Description)
		}
		if out.Transaction.Transaction.Date.Format(DateLayout) != "2024-03-05" {
			t.Errorf("unexpected date %s", out.Transaction.Transaction.Date)
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		uc := NewUpdateTransactionUseCase(f.repo, f.categories, f.clock)

		_, err := uc.Execute(context.Background(), UpdateTransactionInput{
			TransactionID: uuid.New(),
			UserID:        f.owner,
			Draft:         Draft{Amount: "1", Type: entity.TransactionTypeExpense, CategoryID: f.food.ID.String()},
		})
		assertCode(t, err, domainerror.ErrCodeTransactionNotFound)
	})

	t.Run("belongs to another user", func(t *testing.T) {
		f := newFixture()
		existing := f.seed("2024-01-01", "10", entity.TransactionTypeExpense, f.food)
		uc := NewUpdateTransactionUseCase(f.repo, f.categories, f.clock)

		_, err := uc.Execute(context.Background(), UpdateTransactionInput{
			TransactionID: existing.ID,
			UserID:        f.foreign.OwnerID,
			Draft:         Draft{Amount: "1", Type: entity.TransactionTypeExpense, CategoryID: f.foreign.ID.String()},
		})
		assertCode(t, err, domainerror.ErrCodeNotAuthorizedTransaction)
		if f.repo.Updates != 0 {
			t.Errorf("expected no update, got %d", f.repo.Updates)
		}
	})

	t.Run("invalid amount never reaches the store", func(t *testing.T) {
		f := newFixture()
		existing := f.seed("2024-01-01", "10", entity.TransactionTypeExpense, f.food)
		uc := NewUpdateTransactionUseCase(f.repo, f.categories, f.clock)

		_, err := uc.Execute(context.Background(), UpdateTransactionInput{
			TransactionID: existing.ID,
			UserID:        f.owner,
			Draft:         Draft{Amount: "abc", Type: entity.TransactionTypeExpense, CategoryID: f.food.ID.String()},
		})
		assertCode(t, err, domainerror.ErrCodeInvalidTransactionAmount)
		if f.repo.Updates != 0 {
			t.Errorf("expected no update, got %d", f.repo.Updates)
		}
	})
}

func TestDeleteTransactionUseCase(t *testing.T) {
	f := newFixture()
	existing := f.seed("2024-01-01", "10", entity.TransactionTypeExpense, f.food)
	uc := NewDeleteTransactionUseCase(f.repo)

	_, err := uc.Execute(context.Background(), DeleteTransactionInput{TransactionID: existing.ID, UserID: uuid.New()})
	assertCode(t, err, domainerror.ErrCodeNotAuthorizedTransaction)

	out, err := uc.Execute(context.Background(), DeleteTransactionInput{TransactionID: existing.ID, UserID: f.owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Success || f.repo.Len() != 0 {
		t.Errorf("expected transaction to be deleted, %d left", f.repo.Len())
	}

	_, err = uc.Execute(context.Background(), DeleteTransactionInput{TransactionID: existing.ID, UserID: f.owner})
	assertCode(t, err, domainerror.ErrCodeTransactionNotFound)
}

func TestListTransactionsUseCase(t *testing.T) {
	f := newFixture()
	f.seed("2024-01-10", "100", entity.TransactionTypeIncome, f.salary)
	f.seed("2024-02-10", "40", entity.TransactionTypeExpense, f.food)
	f.seed("2024-03-10", "15", entity.TransactionTypeExpense, f.food)
	other := entity.NewTransaction(uuid.New(), today, "", decimal.NewFromInt(999), entity.TransactionTypeIncome, f.foreign.ID)
	f.repo.Seed(other)

	uc := NewListTransactionsUseCase(f.repo)
	expense := entity.TransactionTypeExpense
	feb, _ := time.Parse(DateLayout, "2024-02-10")
	mar, _ := time.Parse(DateLayout, "2024-03-31")

	tests := []struct {
		name        string
		filter      entity.FilterState
		wantDates   []string
		wantBalance string
	}{
		{
			name:        "empty filter returns the owner's full set newest first",
			filter:      entity.FilterState{},
			wantDates:   []string{"2024-03-10", "2024-02-10", "2024-01-10"},
			wantBalance: "45",
		},
		{
			name:        "type filter",
			filter:      entity.FilterState{Type: &expense},
			wantDates:   []string{"2024-03-10", "2024-02-10"},
			wantBalance: "-55",
		},
		{
			name:        "inclusive date range",
			filter:      entity.FilterState{DateFrom: &feb, DateTo: &mar},
			wantDates:   []string{"2024-03-10", "2024-02-10"},
			wantBalance: "-55",
		},
		{
			name:        "category filter",
			filter:      entity.FilterState{CategoryID: &f.salary.ID},
			wantDates:   []string{"2024-01-10"},
			wantBalance: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), ListTransactionsInput{UserID: f.owner, Filter: tt.filter})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out.Transactions) != len(tt.wantDates) {
				t.Fatalf("expected %d transactions, got %d", len(tt.wantDates), len(out.Transactions))
			}
			for i, want := range tt.wantDates {
				if got := out.Transactions[i].Transaction.Date.Format(DateLayout); got != want {
					t.Errorf("position %d: expected %s, got %s", i, want, got)
				}
			}
			if out.Summary.Balance.String() != tt.wantBalance {
				t.Errorf("expected balance %s, got %s", tt.wantBalance, out.Summary.Balance)
			}

			again, err := uc.Execute(context.Background(), ListTransactionsInput{UserID: f.owner, Filter: tt.filter})
			if err != nil {
				t.Fatalf("unexpected error on second run: %v", err)
			}
			if len(again.Transactions) != len(out.Transactions) || !again.Summary.Balance.Equal(out.Summary.Balance) {
				t.Error("expected applying the same filter twice to give the same result")
			}
		})
	}
}

func TestListTransactionsUseCase_FetchFailure(t *testing.T) {
	f := newFixture()
	f.repo.FindErr = errors.New("timeout")

	_, err := NewListTransactionsUseCase(f.repo).Execute(context.Background(), ListTransactionsInput{UserID: f.owner})
	assertCode(t, err, domainerror.ErrCodeFetchFailed)
}

func TestListTransactionsUseCase_MalformedAmountStillListed(t *testing.T) {
	f := newFixture()
	f.seed("2024-01-10", "100", entity.TransactionTypeIncome, f.salary)
	bad := f.seed("2024-01-11", "0", entity.TransactionTypeExpense, f.food)
	f.repo.Corrupt(bad.ID, "twelve")

	out, err := NewListTransactionsUseCase(f.repo).Execute(context.Background(), ListTransactionsInput{UserID: f.owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Transactions) != 2 {
		t.Errorf("expected malformed row to be listed, got %d rows", len(out.Transactions))
	}
	if out.Summary.Malformed != 1 || out.Summary.Balance.String() != "100" {
		t.Errorf("unexpected summary %+v", out.Summary)
	}
}

func TestBuildQuery(t *testing.T) {
	owner := uuid.New()
	from := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	income := entity.TransactionTypeIncome

	q := BuildQuery(owner, entity.FilterState{})
	if q.UserID != owner || q.DateFrom != nil || q.DateTo != nil || q.CategoryID != nil || q.Type != nil {
		t.Errorf("expected empty filter to constrain only the owner, got %+v", q)
	}

	filter := entity.FilterState{DateFrom: &from, Type: &income}
	q = BuildQuery(owner, filter)
	if q.DateFrom == nil || q.DateFrom.Hour() != 0 {
		t.Errorf("expected truncated date, got %v", q.DateFrom)
	}
	if q.Type == nil || *q.Type != income {
		t.Errorf("expected type constraint, got %v", q.Type)
	}
	if q.DateFrom == filter.DateFrom {
		t.Error("query must not alias the filter's fields")
	}
}

func TestParseFilterState(t *testing.T) {
	tests := []struct {
		name       string
		args       [4]string
		wantActive bool
		wantErr    bool
	}{
		{name: "all empty", args: [4]string{"", "", "", ""}},
		{name: "date range", args: [4]string{"2024-01-01", "2024-01-31", "", ""}, wantActive: true},
		{name: "same day range", args: [4]string{"2024-01-01", "2024-01-01", "", ""}, wantActive: true},
		{name: "type only", args: [4]string{"", "", "", "income"}, wantActive: true},
		{name: "category only", args: [4]string{"", "", uuid.NewString(), ""}, wantActive: true},
		{name: "inverted range", args: [4]string{"2024-02-01", "2024-01-01", "", ""}, wantErr: true},
		{name: "bad date", args: [4]string{"01/02/2024", "", "", ""}, wantErr: true},
		{name: "bad category", args: [4]string{"", "", "food", ""}, wantErr: true},
		{name: "bad type", args: [4]string{"", "", "", "transfer"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilterState(tt.args[0], tt.args[1], tt.args[2], tt.args[3])
			if tt.wantErr {
				assertCode(t, err, domainerror.ErrCodeInvalidFilter)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.IsActive() != tt.wantActive {
				t.Errorf("IsActive() = %v, want %v", f.IsActive(), tt.wantActive)
			}
		})
	}
}
