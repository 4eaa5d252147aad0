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

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(model.TransactionFromEntity(transaction)).Error
}

// FindByID retrieves a transaction by its ID. A stored amount that is not a
// number reads back as zero.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var readModel model.TransactionReadModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&readModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return readModel.ToEntityWithCategory().Transaction, nil
}

// FindByQuery retrieves the transactions matching the query, newest first,
// with their categories preloaded.
func (r *transactionRepository) FindByQuery(ctx context.Context, query adapter.TransactionQuery) ([]*entity.TransactionWithCategory, error) {
	db := r.db.WithContext(ctx).Model(&model.TransactionReadModel{})

	db = db.Where("user_id = ?", query.UserID)

	if query.DateFrom != nil {
		db = db.Where("date >= ?", *query.DateFrom)
	}
	if query.DateTo != nil {
		db = db.Where("date <= ?", *query.DateTo)
	}
	if query.CategoryID != nil {
		db = db.Where("category_id = ?", *query.CategoryID)
	}
	if query.Type != nil {
		db = db.Where("type = ?", string(*query.Type))
	}

	var readModels []model.TransactionReadModel
	result := db.
		Preload("Category").
		Order("date DESC, created_at DESC").
		Find(&readModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.TransactionWithCategory, len(readModels))
	for i := range readModels {
		transactions[i] = readModels[i].ToEntityWithCategory()
	}
	return transactions, nil
}

// Update replaces the mutable fields of an existing transaction.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"date":        transaction.Date,
			"description": transaction.Description,
			"amount":      transaction.Amount,
			"type":        string(transaction.Type),
			"category_id": transaction.CategoryID,
			"updated_at":  transaction.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// Delete soft-deletes a transaction from the database.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}
