package clock

import "time"

// Clock allows injecting time into availability and pricing decisions.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now. All scheduling decisions run
// in UTC; delivery dates are interpreted as UTC calendar days.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always reports the same instant (useful for
// lead-time and cutoff tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Today formats the clock's current day as a delivery date.
func Today(c Clock) string {
	return c.Now().Format("2006-01-02")
}

// Tomorrow formats the day after the clock's current day.
func Tomorrow(c Clock) string {
	return c.Now().AddDate(0, 0, 1).Format("2006-01-02")
}
