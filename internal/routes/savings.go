package routes

import (
	"net/http"

	"github.com/1Zamuken1/GastuApp/internal/contracts"
	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

func (h *Handler) CreateSavingsGoal(c *gin.Context) {
	var body contracts.SavingsGoalCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	categoryID, err := pkg.ParseULID(body.CategoryId)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("categoryId", "formato inválido"))
		return
	}

	req := savings.CreateGoalRequest{
		OwnerId:          userID,
		CategoryId:       categoryID,
		Description:      body.Description,
		TargetAmount:     *body.TargetAmount,
		Frequency:        savings.Frequency(body.Frequency),
		TargetDate:       body.TargetDate.ToTimePtr(),
		InstallmentCount: body.InstallmentCount,
	}

	details, err := h.SavingsService.CreateGoal(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.NewSavingsGoalDetailsResponse(details))
}

func (h *Handler) UpdateSavingsGoal(c *gin.Context) {
	var body contracts.SavingsGoalUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	goalID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := savings.UpdateGoalRequest{
		Id:               goalID,
		OwnerId:          userID,
		Description:      body.Description,
		TargetAmount:     body.TargetAmount,
		Frequency:        savings.Frequency(body.Frequency),
		TargetDate:       body.TargetDate.ToTimePtr(),
		InstallmentCount: body.InstallmentCount,
	}

	details, err := h.SavingsService.UpdateGoal(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewSavingsGoalDetailsResponse(details))
}

func (h *Handler) ListSavingsGoals(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var status *savings.GoalStatus
	if raw := c.Query("status"); raw != "" {
		s := savings.GoalStatus(raw)
		status = &s
	}
	pagination := h.parsePagination(c)

	views, total, err := h.SavingsService.ListGoals(c.Request.Context(), userID, status, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	goals := contracts.NewSavingsGoalListResponse(views)
	if pagination == nil {
		c.JSON(http.StatusOK, &pkg.PaginatedResponse[*contracts.SavingsGoalResponse]{
			Data:       goals,
			Page:       1,
			Limit:      len(goals),
			Total:      total,
			TotalPages: 1,
		})
		return
	}
	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(goals, pagination, total))
}

func (h *Handler) SearchSavingsGoals(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views, err := h.SavingsService.SearchGoals(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewSavingsGoalListResponse(views))
}

func (h *Handler) GetSavingsGoal(c *gin.Context) {
	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	details, err := h.SavingsService.GetGoal(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewSavingsGoalDetailsResponse(details))
}

func (h *Handler) GetSavingsGoalProgress(c *gin.Context) {
	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	progress, err := h.SavingsService.GetGoalProgress(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewSavingsProgressResponse(progress))
}

func (h *Handler) DeleteSavingsGoal(c *gin.Context) {
	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	if err := h.SavingsService.DeleteGoal(c.Request.Context(), goalID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListSavingsInstallments(c *gin.Context) {
	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	installments, err := h.SavingsService.ListInstallments(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewInstallmentListResponse(installments))
}

func (h *Handler) GetSavingsInstallment(c *gin.Context) {
	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	installmentID, err := h.parseIDParam(c, "installmentId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	inst, err := h.SavingsService.GetInstallment(c.Request.Context(), goalID, installmentID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewInstallmentResponse(inst))
}

func (h *Handler) GetNextPayableInstallment(c *gin.Context) {
	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	inst, err := h.SavingsService.NextPayable(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewInstallmentResponse(inst))
}

// ContributeToSavingsGoal aceita installmentId no corpo; sem ele, o aporte vai
// para a próxima parcela disponível.
func (h *Handler) ContributeToSavingsGoal(c *gin.Context) {
	var body contracts.ContributionCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	installmentID, err := pkg.ParseOptionalULID(body.InstallmentId)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("installmentId", "formato inválido"))
		return
	}

	h.registerContribution(c, goalID, userID, installmentID, body)
}

func (h *Handler) ContributeToSavingsInstallment(c *gin.Context) {
	var body contracts.ContributionCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	userID, goalID, ok := h.ownerAndGoal(c)
	if !ok {
		return
	}

	installmentID, err := h.parseIDParam(c, "installmentId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.registerContribution(c, goalID, userID, &installmentID, body)
}

func (h *Handler) registerContribution(c *gin.Context, goalID, userID ulid.ULID, installmentID *ulid.ULID, body contracts.ContributionCreateRequest) {
	req := savings.ContributionRequest{
		GoalId:        goalID,
		OwnerId:       userID,
		InstallmentId: installmentID,
		Amount:        *body.Amount,
	}

	inst, err := h.SavingsService.RegisterContribution(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewInstallmentResponse(inst))
}

func (h *Handler) ownerAndGoal(c *gin.Context) (ulid.ULID, ulid.ULID, bool) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return ulid.ULID{}, ulid.ULID{}, false
	}

	goalID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return ulid.ULID{}, ulid.ULID{}, false
	}
	return userID, goalID, true
}
