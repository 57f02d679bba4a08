package contracts

import (
	"time"

	"github.com/1Zamuken1/GastuApp/internal/domain/category"
)

type CategoryCreateRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=EXPENSE INCOME SAVINGS"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
	Icon        string `json:"icon" binding:"omitempty,max=50"`
}

type CategoryResponse struct {
	Id          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewCategoryResponse(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		Id:          c.Id.String(),
		Kind:        string(c.Kind),
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		CreatedAt:   c.CreatedAt,
	}
}

func NewCategoryListResponse(categories []*category.Category) []*CategoryResponse {
	out := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}
