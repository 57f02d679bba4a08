package savings

import (
	"time"

	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const (
	// EarlyPaymentWindowDays is how many days ahead of its due date an installment can be paid.
	EarlyPaymentWindowDays = 7
	abandonmentStreak      = 3
)

const (
	ReasonInstallmentNotPending = "installment_not_pending"
	ReasonInstallmentNotPayable = "installment_not_payable"
	ReasonGoalWithoutSchedule   = "goal_without_schedule"
)

// Ledger drives the goal and installment state machines.
type Ledger struct {
	Clock     Clock
	Scheduler *Scheduler
}

func NewLedger(clock Clock, scheduler *Scheduler) *Ledger {
	return &Ledger{Clock: clock, Scheduler: scheduler}
}

// ContributionOutcome carries the contributed installment and every
// installment the registration modified, the contributed one included.
type ContributionOutcome struct {
	Installment *Installment
	Changed     []*Installment
}

// ExpireOverdue marks as Lost every Pending installment due before today and
// returns the ones it changed.
func (l *Ledger) ExpireOverdue(installments []*Installment) []*Installment {
	today := Today(l.Clock)
	var expired []*Installment
	for _, inst := range installments {
		if inst.IsPending() && DateOf(inst.DueDate).Before(today) {
			inst.Status = InstallmentLost
			expired = append(expired, inst)
		}
	}
	return expired
}

func (l *Ledger) IsPayable(inst *Installment) bool {
	if inst == nil {
		return false
	}
	return !DateOf(inst.DueDate).After(l.windowEnd())
}

// NextPayable returns the earliest Pending installment inside the early-payment
// window, or nil. Callers run ExpireOverdue first.
func (l *Ledger) NextPayable(installments []*Installment) *Installment {
	for _, inst := range sortedByDueDate(installments) {
		if inst.IsPending() && l.IsPayable(inst) {
			return inst
		}
	}
	return nil
}

// DetectAbandonment marks the goal Abandoned when its three latest installments
// by due date are all Lost. Completed goals are never abandoned.
func (l *Ledger) DetectAbandonment(g *Goal, installments []*Installment) bool {
	if len(installments) < abandonmentStreak || g.Status == GoalCompleted {
		return false
	}
	ordered := sortedByDueDate(installments)
	for _, inst := range ordered[len(ordered)-abandonmentStreak:] {
		if inst.Status != InstallmentLost {
			return false
		}
	}
	g.Status = GoalAbandoned
	return true
}

// Refresh expires overdue installments and re-evaluates abandonment.
func (l *Ledger) Refresh(g *Goal, installments []*Installment) []*Installment {
	expired := l.ExpireOverdue(installments)
	l.DetectAbandonment(g, installments)
	return expired
}

// RegisterContribution pays amount into the installment identified by
// installmentID, or into the next payable one when installmentID is nil.
// The goal and the installments are mutated in place; nothing is persisted.
func (l *Ledger) RegisterContribution(g *Goal, installments []*Installment, installmentID *ulid.ULID, amount decimal.Decimal) (*ContributionOutcome, error) {
	if !amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "O valor do aporte deve ser maior que zero")
	}
	if !hasCentPrecision(amount) {
		return nil, appErrors.NewValidationError("amount", "O valor do aporte deve ter no máximo duas casas decimais")
	}
	if len(installments) == 0 && g.TargetAmount.IsPositive() {
		return nil, appErrors.NewConfigurationError("meta sem parcelas geradas").
			WithDetails(map[string]interface{}{"reason": ReasonGoalWithoutSchedule})
	}

	changed := newChangeSet()
	changed.add(l.ExpireOverdue(installments)...)

	target, err := l.resolveTarget(installments, installmentID)
	if err != nil {
		return nil, err
	}

	if !target.IsPending() {
		return nil, appErrors.NewStateConflictError(ReasonInstallmentNotPending,
			"A parcela selecionada não está disponível para aporte (estado="+string(target.Status)+")")
	}
	if !l.IsPayable(target) {
		return nil, appErrors.NewStateConflictError(ReasonInstallmentNotPayable,
			"A parcela ainda não está disponível para pagamento (somente 7 dias antes do vencimento)")
	}

	previouslyAssigned := target.AssignedAmount
	target.ContributedAmount = amount
	target.Status = InstallmentContributed
	changed.add(target)

	g.AccumulatedAmount = g.AccumulatedAmount.Add(amount)

	if g.Status == GoalNotStarted || g.Status == GoalAbandoned {
		g.Status = GoalActive
	}
	if g.TargetAmount.IsPositive() && g.AccumulatedAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = GoalCompleted
	}

	if !amount.Equal(previouslyAssigned) {
		changed.add(l.Scheduler.RedistributeAmounts(g, installments)...)
	}

	// Checked after reactivation: a goal whose latest three installments are
	// still Lost goes straight back to Abandoned.
	l.DetectAbandonment(g, installments)

	return &ContributionOutcome{Installment: target, Changed: changed.items}, nil
}

func (l *Ledger) resolveTarget(installments []*Installment, installmentID *ulid.ULID) (*Installment, error) {
	if installmentID == nil {
		if next := l.NextPayable(installments); next != nil {
			return next, nil
		}
		return nil, appErrors.ErrNoPayableInstallment
	}
	for _, inst := range installments {
		if inst.Id == *installmentID {
			return inst, nil
		}
	}
	return nil, appErrors.ErrInstallmentNotFound
}

func (l *Ledger) windowEnd() time.Time {
	return Today(l.Clock).AddDate(0, 0, EarlyPaymentWindowDays)
}

type changeSet struct {
	seen  map[ulid.ULID]struct{}
	items []*Installment
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[ulid.ULID]struct{})}
}

func (c *changeSet) add(installments ...*Installment) {
	for _, inst := range installments {
		if _, ok := c.seen[inst.Id]; ok {
			continue
		}
		c.seen[inst.Id] = struct{}{}
		c.items = append(c.items, inst)
	}
}
