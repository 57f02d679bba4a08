package routes

import (
	"net/http"

	"github.com/1Zamuken1/GastuApp/internal/contracts"
	"github.com/1Zamuken1/GastuApp/internal/domain/category"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateCategory(c *gin.Context) {
	var body contracts.CategoryCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	cat := &category.Category{
		Kind:        category.Kind(body.Kind),
		Name:        body.Name,
		Description: body.Description,
		Icon:        body.Icon,
	}
	if err := h.CategoryService.Create(c.Request.Context(), cat); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.NewCategoryResponse(cat))
}

func (h *Handler) ListCategories(c *gin.Context) {
	var kind *category.Kind
	if raw := c.Query("kind"); raw != "" {
		k := category.Kind(raw)
		kind = &k
	}

	categories, err := h.CategoryService.List(c.Request.Context(), kind)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewCategoryListResponse(categories))
}
