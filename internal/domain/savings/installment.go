package savings

import (
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentPending     InstallmentStatus = "PENDING"
	InstallmentContributed InstallmentStatus = "CONTRIBUTED"
	InstallmentLost        InstallmentStatus = "LOST"
)

// Installment is one scheduled slice of a goal's target amount.
// Contributed and Lost are terminal.
type Installment struct {
	Id                ulid.ULID         `json:"id"`
	GoalId            ulid.ULID         `json:"goalId"`
	AssignedAmount    decimal.Decimal   `json:"assignedAmount"`
	ContributedAmount decimal.Decimal   `json:"contributedAmount"`
	DueDate           time.Time         `json:"dueDate"`
	Status            InstallmentStatus `json:"status"`
	RegisteredOn      time.Time         `json:"registeredOn"`
}

func (i *Installment) IsPending() bool {
	return i.Status == InstallmentPending
}

// sortedByDueDate returns a copy ordered by due date; ties keep their input order.
func sortedByDueDate(installments []*Installment) []*Installment {
	out := make([]*Installment, len(installments))
	copy(out, installments)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].DueDate.Before(out[b].DueDate)
	})
	return out
}

func partitionByStatus(installments []*Installment) (contributed, pending []*Installment) {
	for _, inst := range installments {
		switch inst.Status {
		case InstallmentContributed:
			contributed = append(contributed, inst)
		case InstallmentPending:
			pending = append(pending, inst)
		}
	}
	return contributed, pending
}
