package domain

import (
	"fmt"
	"time"
)

// Named report periods. "custom" is resolved by the caller from explicit
// dates before the pipeline runs.
const (
	PeriodDaily     = "daily"
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
	PeriodCustom    = "custom"
)

// ResolveWindow turns a named period into an activity window ending on
// now's date: daily is today only, weekly the trailing seven days, and
// monthly/quarterly/yearly run from the first day of the current month,
// quarter, or year.
func ResolveWindow(period string, now time.Time) (ActivityWindow, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodDaily:
		return ActivityWindow{Start: today, End: today}, nil
	case PeriodWeekly:
		return ActivityWindow{Start: today.AddDate(0, 0, -6), End: today}, nil
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return ActivityWindow{Start: start, End: today}, nil
	case PeriodQuarterly:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
		return ActivityWindow{Start: start, End: today}, nil
	case PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return ActivityWindow{Start: start, End: today}, nil
	default:
		return ActivityWindow{}, fmt.Errorf("%w: unknown period %q", ErrInvalidWindow, period)
	}
}
