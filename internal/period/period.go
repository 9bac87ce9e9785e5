// Package period resolves calendar dates into budget period boundaries.
package period

import (
	"errors"
	"fmt"
	"time"

	"gitlab.com/spendwatch/spendwatch/internal/models"
)

// ErrUnsupportedPeriod is returned for period types the resolver cannot
// derive boundaries for. Custom budgets carry explicit start/end dates and
// must never reach the resolver.
var ErrUnsupportedPeriod = errors.New("unsupported period type")

// Resolve maps a period type and a reference date to the inclusive
// [start, end] boundaries of the period containing that date. The end
// boundary carries end-of-day precision (23:59:59.999) in the reference
// date's location. Resolve is pure: the same inputs always produce the
// same boundaries.
func Resolve(periodType string, ref time.Time) (start, end time.Time, err error) {
	year, month, day := ref.Date()
	loc := ref.Location()

	switch periodType {
	case models.PeriodMonthly:
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		end = endOfDayBefore(time.Date(year, month+1, 1, 0, 0, 0, 0, loc))
	case models.PeriodYearly:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		end = endOfDayBefore(time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc))
	case models.PeriodQuarterly:
		quarter := (int(month) - 1) / 3
		firstMonth := time.Month(quarter*3 + 1)
		start = time.Date(year, firstMonth, 1, 0, 0, 0, 0, loc)
		end = endOfDayBefore(time.Date(year, firstMonth+3, 1, 0, 0, 0, 0, loc))
	case models.PeriodWeekly:
		// Weeks run Monday through Sunday; a Sunday belongs to the week
		// that ends on it, not the one that starts the next day.
		offset := int(ref.Weekday()) - 1
		if offset < 0 {
			offset = 6
		}
		start = time.Date(year, month, day-offset, 0, 0, 0, 0, loc)
		end = endOfDayBefore(time.Date(start.Year(), start.Month(), start.Day()+7, 0, 0, 0, 0, loc))
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, periodType)
	}

	return start, end, nil
}

// endOfDayBefore returns the last representable millisecond before the given
// midnight, i.e. 23:59:59.999 on the previous day.
func endOfDayBefore(nextMidnight time.Time) time.Time {
	return nextMidnight.Add(-time.Millisecond)
}
