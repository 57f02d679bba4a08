package savings

import (
	"math"

	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/shopspring/decimal"
)

// Scheduler resolves a goal's temporal parameters and builds its first schedule.
type Scheduler struct {
	Clock    Clock
	Calendar Calendar
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{Clock: clock, Calendar: Calendar{Clock: clock}}
}

// ResolveMissingField fills whichever of TargetDate and InstallmentCount is zero.
func (s *Scheduler) ResolveMissingField(g *Goal) error {
	if g.CreatedOn.IsZero() {
		g.CreatedOn = Today(s.Clock)
	}
	g.CreatedOn = DateOf(g.CreatedOn)

	hasDate := !g.TargetDate.IsZero()
	hasCount := g.InstallmentCount > 0
	hasAmount := g.TargetAmount.IsPositive()

	switch {
	case hasDate && hasCount:
		return nil
	case hasDate && hasAmount:
		days := DaysBetween(g.CreatedOn, g.TargetDate)
		if days < 0 {
			days = 0
		}
		period := g.Frequency.PeriodLengthDays()
		count := int(math.Ceil(float64(days+1) / float64(period)))
		if count < 1 {
			count = 1
		}
		g.InstallmentCount = count
		return nil
	case hasCount:
		if g.InstallmentCount <= 1 {
			g.TargetDate = g.CreatedOn
		} else {
			g.TargetDate = s.Calendar.AddPeriods(g.CreatedOn, g.Frequency, g.InstallmentCount-1)
		}
		return nil
	}

	return appErrors.NewConfigurationError("não foi possível calcular a data meta nem a quantidade de parcelas")
}

// GenerateInstallments builds one Pending installment per period starting at the
// creation date. Assigned amounts sum to the target.
func (s *Scheduler) GenerateInstallments(g *Goal) []*Installment {
	n := g.InstallmentCount
	if n <= 0 {
		return []*Installment{}
	}

	shares := Allocate(g.TargetAmount, n)
	registeredOn := Today(s.Clock)
	out := make([]*Installment, 0, n)
	for i := 0; i < n; i++ {
		amount := shares[i]
		if !g.TargetAmount.IsPositive() {
			amount = decimal.Zero
		}
		out = append(out, &Installment{
			Id:                pkg.GenerateULIDObject(),
			GoalId:            g.Id,
			AssignedAmount:    amount,
			ContributedAmount: decimal.Zero,
			DueDate:           s.Calendar.AddPeriods(g.CreatedOn, g.Frequency, i),
			Status:            InstallmentPending,
			RegisteredOn:      registeredOn,
		})
	}
	return out
}
