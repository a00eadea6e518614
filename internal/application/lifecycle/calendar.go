package lifecycle

import (
	"time"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// AddInterval advances t by count billing periods of interval. Month and
// year additions clamp to the last day of the resulting month when the
// naive day-of-month doesn't exist there (e.g. Jan 31 + 1 month → Feb 28/29,
// not Mar 3).
func AddInterval(t time.Time, interval entities.BillingInterval, count int) time.Time {
	switch interval {
	case entities.IntervalDay:
		return t.AddDate(0, 0, count)
	case entities.IntervalWeek:
		return t.AddDate(0, 0, count*7)
	case entities.IntervalMonth:
		return addMonthsClamped(t, count)
	case entities.IntervalYear:
		return addMonthsClamped(t, count*12)
	default:
		return t
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	day := t.Day()
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	firstOfTarget = firstOfTarget.AddDate(0, months, 0)
	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	lastOfThis := firstOfNext.AddDate(0, 0, -1)
	return lastOfThis.Day()
}
