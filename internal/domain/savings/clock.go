package savings

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time in the configured location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// Today returns the civil date of the clock's current instant.
func Today(c Clock) time.Time {
	if c == nil {
		return DateOf(time.Now())
	}
	return DateOf(c.Now())
}

// DateOf drops the time of day, keeping the calendar date as seen in t's location.
// Civil dates are represented at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)) / (24 * time.Hour))
}

func dateKey(t time.Time) string {
	return DateOf(t).Format("2006-01-02")
}
