package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

func TestCreateCategoryUseCase(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		input    CreateCategoryInput
		seed     []*entity.Category
		wantCode domainerror.CategoryErrorCode
		check    func(t *testing.T, c *entity.Category)
	}{
		{
			name:  "applies default color and icon",
			input: CreateCategoryInput{Name: "Salary", OwnerID: owner, Type: entity.CategoryTypeIncome},
			check: func(t *testing.T, c *entity.Category) {
				if c.Color != entity.DefaultCategoryColor {
					t.Errorf("expected default color, got %s", c.Color)
				}
				if c.Icon != entity.DefaultCategoryIcon {
					t.Errorf("expected default icon, got %s", c.Icon)
				}
			},
		},
		{
			name:  "trims the name",
			input: CreateCategoryInput{Name: "  Food ", Color: "#FF0000", Icon: "utensils", OwnerID: owner, Type: entity.CategoryTypeExpense},
			check: func(t *testing.T, c *entity.Category) {
				if c.Name != "Food" {
					t.Errorf("expected trimmed name, got %q", c.Name)
				}
			},
		},
		{
			name:     "empty name",
			input:    CreateCategoryInput{Name: "   ", OwnerID: owner, Type: entity.CategoryTypeExpense},
			wantCode: domainerror.ErrCodeMissingCategoryFields,
		},
		{
			name:     "name too long",
			input:    CreateCategoryInput{Name: strings.Repeat("a", MaxCategoryNameLength+1), OwnerID: owner, Type: entity.CategoryTypeExpense},
			wantCode: domainerror.ErrCodeCategoryNameTooLong,
		},
		{
			name:     "invalid color",
			input:    CreateCategoryInput{Name: "Food", Color: "red", OwnerID: owner, Type: entity.CategoryTypeExpense},
			wantCode: domainerror.ErrCodeInvalidColorFormat,
		},
		{
			name:     "invalid type",
			input:    CreateCategoryInput{Name: "Food", OwnerID: owner, Type: "transfer"},
			wantCode: domainerror.ErrCodeInvalidCategoryType,
		},
		{
			name:     "duplicate name for owner",
			input:    CreateCategoryInput{Name: "food", OwnerID: owner, Type: entity.CategoryTypeExpense},
			seed:     []*entity.Category{entity.NewCategory("Food", "#000000", "tag", owner, entity.CategoryTypeExpense)},
			wantCode: domainerror.ErrCodeCategoryNameExists,
		},
		{
			name:  "same name for another owner",
			input: CreateCategoryInput{Name: "Food", OwnerID: owner, Type: entity.CategoryTypeExpense},
			seed:  []*entity.Category{entity.NewCategory("Food", "#000000", "tag", uuid.New(), entity.CategoryTypeExpense)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := adaptertest.NewCategories(tt.seed...)
			uc := NewCreateCategoryUseCase(repo)

			out, err := uc.Execute(context.Background(), tt.input)

			if tt.wantCode != "" {
				var catErr *domainerror.CategoryError
				if !errors.As(err, &catErr) {
					t.Fatalf("expected CategoryError, got %v", err)
				}
				if catErr.Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, catErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Category.OwnerID != owner {
				t.Errorf("expected owner %s, got %s", owner, out.Category.OwnerID)
			}
			if tt.check != nil {
				tt.check(t, out.Category)
			}
		})
	}
}

func TestListCategoriesUseCase(t *testing.T) {
	owner := uuid.New()
	repo := adaptertest.NewCategories(
		entity.NewCategory("Transport", "#000000", "car", owner, entity.CategoryTypeExpense),
		entity.NewCategory("Salary", "#000000", "briefcase", owner, entity.CategoryTypeIncome),
		entity.NewCategory("Food", "#000000", "utensils", owner, entity.CategoryTypeExpense),
		entity.NewCategory("Other", "#000000", "tag", uuid.New(), entity.CategoryTypeExpense),
	)
	uc := NewListCategoriesUseCase(repo)
	expense := entity.CategoryTypeExpense

	tests := []struct {
		name  string
		input ListCategoriesInput
		want  []string
	}{
		{name: "all, ordered by name", input: ListCategoriesInput{OwnerID: owner}, want: []string{"Food", "Salary", "Transport"}},
		{name: "only expense", input: ListCategoriesInput{OwnerID: owner, CategoryType: &expense}, want: []string{"Food", "Transport"}},
		{name: "unknown owner", input: ListCategoriesInput{OwnerID: uuid.New()}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out.Categories) != len(tt.want) {
				t.Fatalf("expected %d categories, got %d", len(tt.want), len(out.Categories))
			}
			for i, name := range tt.want {
				if out.Categories[i].Name != name {
					t.Errorf("position %d: expected %s, got %s", i, name, out.Categories[i].Name)
				}
			}
		})
	}
}

func TestListCategoriesUseCase_RepositoryError(t *testing.T) {
	repo := adaptertest.NewCategories()
	repo.Err = errors.New("connection refused")

	_, err := NewListCategoriesUseCase(repo).Execute(context.Background(), ListCategoriesInput{OwnerID: uuid.New()})
	if err == nil {
		t.Fatal("expected error")
	}
}
