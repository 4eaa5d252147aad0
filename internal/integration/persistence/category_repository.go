// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(model.CategoryFromEntity(category)).Error
}

// FindByID retrieves a category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindByOwner retrieves all categories for a given owner.
func (r *categoryRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

// FindByOwnerAndType retrieves categories for a given owner filtered by type.
func (r *categoryRepository) FindByOwnerAndType(ctx context.Context, ownerID uuid.UUID, categoryType entity.CategoryType) ([]*entity.Category, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("owner_id = ? AND type = ?", ownerID, string(categoryType)))
}

// ExistsByNameAndOwner checks if a category with the given name exists for the owner.
// The comparison ignores case.
func (r *categoryRepository) ExistsByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("LOWER(name) = LOWER(?) AND owner_id = ?", name, ownerID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (r *categoryRepository) find(_ context.Context, query *gorm.DB) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	if err := query.Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToEntity()
	}
	return categories, nil
}
