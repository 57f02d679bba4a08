package savings

import "time"

type Frequency string

const (
	FrequencyDaily      Frequency = "DAILY"
	FrequencyWeekly     Frequency = "WEEKLY"
	FrequencyBiweekly   Frequency = "BIWEEKLY"
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyQuarterly  Frequency = "QUARTERLY"
	FrequencySemiannual Frequency = "SEMIANNUAL"
	FrequencyAnnual     Frequency = "ANNUAL"
)

// defaultPeriodDays is used when the frequency is unknown or empty.
const defaultPeriodDays = 30

type frequencyRule struct {
	periodDays int
	advance    func(base time.Time, n int) time.Time
}

// Adding a frequency means adding one row here.
var frequencyRules = map[Frequency]frequencyRule{
	FrequencyDaily:      {periodDays: 1, advance: stepDays(1)},
	FrequencyWeekly:     {periodDays: 7, advance: stepDays(7)},
	FrequencyBiweekly:   {periodDays: 15, advance: stepDays(15)},
	FrequencyMonthly:    {periodDays: 30, advance: stepMonths(1)},
	FrequencyQuarterly:  {periodDays: 90, advance: stepMonths(3)},
	FrequencySemiannual: {periodDays: 182, advance: stepMonths(6)},
	FrequencyAnnual:     {periodDays: 365, advance: stepMonths(12)},
}

func Frequencies() []Frequency {
	return []Frequency{
		FrequencyDaily,
		FrequencyWeekly,
		FrequencyBiweekly,
		FrequencyMonthly,
		FrequencyQuarterly,
		FrequencySemiannual,
		FrequencyAnnual,
	}
}

func (f Frequency) IsValid() bool {
	_, ok := frequencyRules[f]
	return ok
}

// PeriodLengthDays is the approximate period length, only used to estimate
// an installment count from a date range.
func (f Frequency) PeriodLengthDays() int {
	if rule, ok := frequencyRules[f]; ok {
		return rule.periodDays
	}
	return defaultPeriodDays
}

// Calendar performs calendar-correct date arithmetic over civil dates.
type Calendar struct {
	Clock Clock
}

// AddPeriods returns base advanced by n periods of f. A zero base means today;
// n <= 0 returns the base unchanged.
func (c Calendar) AddPeriods(base time.Time, f Frequency, n int) time.Time {
	if base.IsZero() {
		base = Today(c.Clock)
	}
	base = DateOf(base)
	if n <= 0 {
		return base
	}
	if rule, ok := frequencyRules[f]; ok {
		return rule.advance(base, n)
	}
	return base.AddDate(0, 0, defaultPeriodDays*n)
}

func stepDays(days int) func(time.Time, int) time.Time {
	return func(base time.Time, n int) time.Time {
		return base.AddDate(0, 0, days*n)
	}
}

func stepMonths(months int) func(time.Time, int) time.Time {
	return func(base time.Time, n int) time.Time {
		return addMonths(base, months*n)
	}
}

// addMonths clamps to the last day of the target month (Jan 31 + 1 month = Feb 28/29),
// unlike time.AddDate which overflows into the next month.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
