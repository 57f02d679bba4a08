package savings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reschedule re-dates and re-amounts the Pending installments after the goal was
// edited. Contributed and Lost installments are left untouched. The goal's
// InstallmentCount is the new schedule length; zero keeps the current length.
// It returns the installments it modified.
func (s *Scheduler) Reschedule(g *Goal, installments []*Installment) []*Installment {
	ordered := sortedByDueDate(installments)
	contributed, pending := partitionByStatus(ordered)

	n := g.InstallmentCount
	if n <= 0 {
		n = len(contributed) + len(pending)
	}

	taken := make(map[string]struct{}, len(contributed))
	for _, inst := range contributed {
		taken[dateKey(inst.DueDate)] = struct{}{}
	}

	free := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		due := s.Calendar.AddPeriods(g.CreatedOn, g.Frequency, i)
		if _, ok := taken[dateKey(due)]; ok {
			continue
		}
		free = append(free, due)
	}

	for i, inst := range pending {
		if i >= len(free) {
			break
		}
		inst.DueDate = free[i]
	}

	s.redistribute(g, contributed, pending)
	return pending
}

// RedistributeAmounts spreads what is left of the target over the Pending
// installments without changing any due date. It returns the Pending installments.
func (s *Scheduler) RedistributeAmounts(g *Goal, installments []*Installment) []*Installment {
	contributed, pending := partitionByStatus(sortedByDueDate(installments))
	s.redistribute(g, contributed, pending)
	return pending
}

func (s *Scheduler) redistribute(g *Goal, contributed, pending []*Installment) {
	paid := decimal.Zero
	for _, inst := range contributed {
		paid = paid.Add(inst.ContributedAmount)
	}

	remaining := g.TargetAmount.Sub(paid)
	if !remaining.IsPositive() {
		for _, inst := range pending {
			inst.AssignedAmount = decimal.Zero
		}
		return
	}

	shares := Allocate(remaining, len(pending))
	for i, inst := range pending {
		inst.AssignedAmount = shares[i]
	}
}
