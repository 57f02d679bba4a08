package contracts

import (
	"time"

	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/shopspring/decimal"
)

type SavingsGoalCreateRequest struct {
	CategoryId       string           `json:"categoryId" binding:"required"`
	Description      string           `json:"description" binding:"omitempty,max=100"`
	TargetAmount     *decimal.Decimal `json:"targetAmount" binding:"required"`
	Frequency        string           `json:"frequency" binding:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	TargetDate       *pkg.Date        `json:"targetDate"`
	InstallmentCount *int             `json:"installmentCount" binding:"omitempty,gte=1"`
}

type SavingsGoalUpdateRequest struct {
	Description      *string          `json:"description" binding:"omitempty,max=100"`
	TargetAmount     *decimal.Decimal `json:"targetAmount"`
	Frequency        string           `json:"frequency" binding:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	TargetDate       *pkg.Date        `json:"targetDate"`
	InstallmentCount *int             `json:"installmentCount" binding:"omitempty,gte=1"`
}

type ContributionCreateRequest struct {
	InstallmentId *string          `json:"installmentId"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
}

type InstallmentResponse struct {
	Id                string          `json:"id"`
	GoalId            string          `json:"goalId"`
	AssignedAmount    decimal.Decimal `json:"assignedAmount"`
	ContributedAmount decimal.Decimal `json:"contributedAmount"`
	DueDate           pkg.Date        `json:"dueDate"`
	Status            string          `json:"status"`
	RegisteredOn      pkg.Date        `json:"registeredOn"`
}

type SavingsGoalResponse struct {
	Id                string                 `json:"id"`
	OwnerId           string                 `json:"ownerId"`
	CategoryId        string                 `json:"categoryId"`
	CategoryName      string                 `json:"categoryName"`
	Description       string                 `json:"description"`
	TargetAmount      decimal.Decimal        `json:"targetAmount"`
	AccumulatedAmount decimal.Decimal        `json:"accumulatedAmount"`
	Frequency         string                 `json:"frequency"`
	CreatedOn         pkg.Date               `json:"createdOn"`
	TargetDate        pkg.Date               `json:"targetDate"`
	InstallmentCount  int                    `json:"installmentCount"`
	InstallmentTotal  int64                  `json:"installmentTotal"`
	Status            string                 `json:"status"`
	Version           int64                  `json:"version"`
	UpdatedAt         time.Time              `json:"updatedAt"`
	Installments      []*InstallmentResponse `json:"installments,omitempty"`
}

type SavingsProgressResponse struct {
	GoalId            string          `json:"goalId"`
	Description       string          `json:"description"`
	TargetAmount      decimal.Decimal `json:"targetAmount"`
	AccumulatedAmount decimal.Decimal `json:"accumulatedAmount"`
	Remaining         decimal.Decimal `json:"remaining"`
	Percentage        decimal.Decimal `json:"percentage"`
	Status            string          `json:"status"`
	Pending           int             `json:"pending"`
	Contributed       int             `json:"contributed"`
	Lost              int             `json:"lost"`
}

func NewInstallmentResponse(inst *savings.Installment) *InstallmentResponse {
	return &InstallmentResponse{
		Id:                inst.Id.String(),
		GoalId:            inst.GoalId.String(),
		AssignedAmount:    inst.AssignedAmount,
		ContributedAmount: inst.ContributedAmount,
		DueDate:           pkg.NewDate(inst.DueDate),
		Status:            string(inst.Status),
		RegisteredOn:      pkg.NewDate(inst.RegisteredOn),
	}
}

func NewInstallmentListResponse(installments []*savings.Installment) []*InstallmentResponse {
	out := make([]*InstallmentResponse, 0, len(installments))
	for _, inst := range installments {
		out = append(out, NewInstallmentResponse(inst))
	}
	return out
}

func NewSavingsGoalResponse(view *savings.GoalView) *SavingsGoalResponse {
	g := view.Goal
	return &SavingsGoalResponse{
		Id:                g.Id.String(),
		OwnerId:           g.OwnerId.String(),
		CategoryId:        g.CategoryId.String(),
		CategoryName:      view.CategoryName,
		Description:       g.Description,
		TargetAmount:      g.TargetAmount,
		AccumulatedAmount: g.AccumulatedAmount,
		Frequency:         string(g.Frequency),
		CreatedOn:         pkg.NewDate(g.CreatedOn),
		TargetDate:        pkg.NewDate(g.TargetDate),
		InstallmentCount:  g.InstallmentCount,
		InstallmentTotal:  view.InstallmentTotal,
		Status:            string(g.Status),
		Version:           g.Version,
		UpdatedAt:         g.UpdatedAt,
	}
}

func NewSavingsGoalDetailsResponse(details *savings.GoalDetails) *SavingsGoalResponse {
	resp := NewSavingsGoalResponse(&details.GoalView)
	resp.Installments = NewInstallmentListResponse(details.Installments)
	return resp
}

func NewSavingsGoalListResponse(views []*savings.GoalView) []*SavingsGoalResponse {
	out := make([]*SavingsGoalResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewSavingsGoalResponse(v))
	}
	return out
}

func NewSavingsProgressResponse(p *savings.GoalProgress) *SavingsProgressResponse {
	return &SavingsProgressResponse{
		GoalId:            p.GoalId.String(),
		Description:       p.Description,
		TargetAmount:      p.TargetAmount,
		AccumulatedAmount: p.AccumulatedAmount,
		Remaining:         p.Remaining,
		Percentage:        p.Percentage,
		Status:            string(p.Status),
		Pending:           p.Pending,
		Contributed:       p.Contributed,
		Lost:              p.Lost,
	}
}
