// services/month.go
package services

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// ParseMonth parses a "YYYY-MM" month key into the first instant of that
// calendar month in UTC.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// FormatMonth renders a time as its "YYYY-MM" month key.
func FormatMonth(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// MonthBounds returns the first and last instants of the month containing
// start. The end bound is inclusive.
func MonthBounds(start time.Time) (time.Time, time.Time) {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}

// PreviousMonth returns the month key of the calendar month before now.
// It is the default target for a distribution run.
func PreviousMonth(now time.Time) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return FormatMonth(first.AddDate(0, -1, 0))
}
