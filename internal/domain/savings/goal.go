package savings

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "NOT_STARTED"
	GoalActive     GoalStatus = "ACTIVE"
	GoalCompleted  GoalStatus = "COMPLETED"
	GoalAbandoned  GoalStatus = "ABANDONED"
)

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalNotStarted, GoalActive, GoalCompleted, GoalAbandoned:
		return true
	}
	return false
}

const MaxDescriptionLength = 100

// Goal is a savings target funded by periodic installments.
// TargetDate and InstallmentCount may be zero on input; both are resolved
// before the goal is persisted.
type Goal struct {
	Id                ulid.ULID       `json:"id"`
	OwnerId           ulid.ULID       `json:"ownerId"`
	CategoryId        ulid.ULID       `json:"categoryId"`
	Description       string          `json:"description"`
	TargetAmount      decimal.Decimal `json:"targetAmount"`
	AccumulatedAmount decimal.Decimal `json:"accumulatedAmount"`
	Frequency         Frequency       `json:"frequency"`
	CreatedOn         time.Time       `json:"createdOn"`
	TargetDate        time.Time       `json:"targetDate"`
	InstallmentCount  int             `json:"installmentCount"`
	Status            GoalStatus      `json:"status"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type GoalFilters struct {
	Status *GoalStatus
}

// GoalView is a goal as shown to its owner, with the category display name.
type GoalView struct {
	*Goal
	CategoryName     string `json:"categoryName"`
	InstallmentTotal int64  `json:"installmentTotal"`
}

type GoalDetails struct {
	GoalView
	Installments []*Installment `json:"installments"`
}

type GoalProgress struct {
	GoalId            ulid.ULID       `json:"goalId"`
	Description       string          `json:"description"`
	TargetAmount      decimal.Decimal `json:"targetAmount"`
	AccumulatedAmount decimal.Decimal `json:"accumulatedAmount"`
	Remaining         decimal.Decimal `json:"remaining"`
	Percentage        decimal.Decimal `json:"percentage"`
	Status            GoalStatus      `json:"status"`
	Pending           int             `json:"pending"`
	Contributed       int             `json:"contributed"`
	Lost              int             `json:"lost"`
}

func buildProgress(g *Goal, installments []*Installment) *GoalProgress {
	progress := &GoalProgress{
		GoalId:            g.Id,
		Description:       g.Description,
		TargetAmount:      g.TargetAmount,
		AccumulatedAmount: g.AccumulatedAmount,
		Remaining:         decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.AccumulatedAmount)),
		Percentage:        decimal.Zero,
		Status:            g.Status,
	}
	if g.TargetAmount.IsPositive() {
		progress.Percentage = g.AccumulatedAmount.Mul(decimal.NewFromInt(100)).DivRound(g.TargetAmount, moneyPlaces)
	}
	for _, inst := range installments {
		switch inst.Status {
		case InstallmentPending:
			progress.Pending++
		case InstallmentContributed:
			progress.Contributed++
		case InstallmentLost:
			progress.Lost++
		}
	}
	return progress
}
