package dto

import (
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Type  string `json:"type" binding:"required,oneof=expense income"`
}

// CategoryResponse represents a single category in API responses.
// Icon is the resolved icon name; unknown identifiers come back as "circle".
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	Glyph     string    `json:"glyph"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	icon := valueobject.ResolveIcon(cat.Icon)
	return CategoryResponse{
		ID:        cat.ID.String(),
		Name:      cat.Name,
		Color:     cat.Color,
		Icon:      icon.Name(),
		Glyph:     icon.Glyph(),
		Type:      string(cat.Type),
		CreatedAt: cat.CreatedAt,
	}
}

// ToCategoryListResponse converts categories to a CategoryListResponse.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	items := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		items[i] = ToCategoryResponse(cat)
	}
	return CategoryListResponse{
		Categories: items,
	}
}
