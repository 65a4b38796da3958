// Package calendar turns timeframes into lookback windows and formats
// calendar days as YYYY-MM-DD.
package calendar

import (
	"time"

	"WatchBoard/internal/model"
)

// DefaultDays is the lookback used for unknown or absent timeframes.
const DefaultDays = 30

var lookback = map[model.Timeframe]int{
	model.OneMonth:    30,
	model.ThreeMonths: 90,
	model.SixMonths:   180,
	model.OneYear:     365,
	model.ThreeYears:  1095,
	model.FiveYears:   1825,
}

// DaysFor returns the fixed day count of tf, or DefaultDays.
func DaysFor(tf model.Timeframe) int {
	if d, ok := lookback[tf]; ok {
		return d
	}
	return DefaultDays
}

// Calendar formats dates relative to an injectable clock.
type Calendar struct {
	now func() time.Time
	loc *time.Location
}

// New returns a Calendar on the wall clock in loc. A nil loc means time.Local.
func New(loc *time.Location) *Calendar {
	return NewWithClock(time.Now, loc)
}

// NewWithClock returns a Calendar reading the current time from now.
func NewWithClock(now func() time.Time, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{now: now, loc: loc}
}

// Today is the current calendar day.
func (c *Calendar) Today() string {
	return c.DateDaysAgo(0)
}

// DateDaysAgo is the calendar day that lies days before today.
func (c *Calendar) DateDaysAgo(days int) string {
	return c.now().In(c.loc).AddDate(0, 0, -days).Format(time.DateOnly)
}

// Window returns the inclusive [start, end] day range for tf.
func (c *Calendar) Window(tf model.Timeframe) (start, end string) {
	return c.DateDaysAgo(DaysFor(tf)), c.Today()
}
