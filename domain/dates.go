package domain

import "time"

// NormalizeDate truncates a timestamp to UTC midnight. Bookings are kept at day
// granularity; a time-of-day component on the incoming payload must not change
// the day-difference computation.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TotalDays computes the chargeable day count between two normalized dates,
// rounding any partial day up. The caller guarantees pickup < ret.
func TotalDays(pickup, ret time.Time) int {
	hours := ret.Sub(pickup).Hours()
	days := int(hours / 24)
	if hours > float64(days)*24 {
		days++
	}
	return days
}
