package routes

import (
	"context"

	"github.com/1Zamuken1/GastuApp/internal/domain/category"
	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/logger"
	"github.com/1Zamuken1/GastuApp/internal/middleware"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

type SavingsService interface {
	CreateGoal(ctx context.Context, req *savings.CreateGoalRequest) (*savings.GoalDetails, error)
	UpdateGoal(ctx context.Context, req *savings.UpdateGoalRequest) (*savings.GoalDetails, error)
	DeleteGoal(ctx context.Context, goalID, ownerID ulid.ULID) error
	GetGoal(ctx context.Context, goalID, ownerID ulid.ULID) (*savings.GoalDetails, error)
	ListGoals(ctx context.Context, ownerID ulid.ULID, status *savings.GoalStatus, pagination *pkg.PaginationParams) ([]*savings.GoalView, int64, error)
	SearchGoals(ctx context.Context, ownerID ulid.ULID, text string) ([]*savings.GoalView, error)
	GetGoalProgress(ctx context.Context, goalID, ownerID ulid.ULID) (*savings.GoalProgress, error)
	ListInstallments(ctx context.Context, goalID, ownerID ulid.ULID) ([]*savings.Installment, error)
	GetInstallment(ctx context.Context, goalID, installmentID, ownerID ulid.ULID) (*savings.Installment, error)
	NextPayable(ctx context.Context, goalID, ownerID ulid.ULID) (*savings.Installment, error)
	RegisterContribution(ctx context.Context, req *savings.ContributionRequest) (*savings.Installment, error)
}

type CategoryService interface {
	Create(ctx context.Context, c *category.Category) error
	List(ctx context.Context, kind *category.Kind) ([]*category.Category, error)
}

var (
	_ SavingsService  = (*savings.Service)(nil)
	_ CategoryService = (*category.Service)(nil)
)

type Handler struct {
	SavingsService  SavingsService
	CategoryService CategoryService
}

func (h *Handler) GetUserIDFromContext(c *gin.Context) (ulid.ULID, error) {
	userIDStr := c.GetString(middleware.UserIDContext)
	if userIDStr == "" {
		return ulid.ULID{}, appErrors.ErrUnauthorized
	}

	userID, err := pkg.ParseULID(userIDStr)
	if err != nil {
		return ulid.ULID{}, appErrors.ErrUnauthorized.WithError(err)
	}
	return userID, nil
}

// parsePagination devolve nil quando a requisição não pede paginação.
func (h *Handler) parsePagination(c *gin.Context) *pkg.PaginationParams {
	page, hasPage := c.GetQuery("page")
	limit, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return nil
	}
	return pkg.ParsePagination(page, limit)
}

func (h *Handler) parseIDParam(c *gin.Context, name string) (ulid.ULID, error) {
	raw := c.Param(name)
	if raw == "" {
		return ulid.ULID{}, appErrors.NewValidationError(name, "é obrigatório")
	}
	id, err := pkg.ParseULID(raw)
	if err != nil {
		return ulid.ULID{}, appErrors.NewValidationError(name, "formato inválido")
	}
	return id, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	event := logger.Error()
	if appErr.StatusCode < 500 {
		event = logger.Warn()
	}
	event = event.Str("code", appErr.Code).Str("path", c.FullPath())
	if appErr.Err != nil {
		event = event.Err(appErr.Err)
	}
	event.Msg("request_error")

	payload := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.JSON(appErr.StatusCode, payload)
}
