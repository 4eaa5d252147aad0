// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByOwner retrieves all categories for a given owner, ordered by name.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error)

	// FindByOwnerAndType retrieves categories for a given owner filtered by type, ordered by name.
	FindByOwnerAndType(ctx context.Context, ownerID uuid.UUID, categoryType entity.CategoryType) ([]*entity.Category, error)

	// ExistsByNameAndOwner checks if a category with the given name exists for the owner.
	ExistsByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (bool, error)
}
