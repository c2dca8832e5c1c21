package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used everywhere dates cross a boundary.
const DateLayout = "2006-01-02"

// NormalizeDate discards the time of day, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeDatePtr applies NormalizeDate to an optional date.
func NormalizeDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := NormalizeDate(*t)
	return &n
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the
// calendar date. Backends commonly send "2024-01-05T00:00:00.000Z".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(DateLayout) {
		if t, err := time.Parse(DateLayout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NormalizeDate(t), nil
	}
	return time.Time{}, fmt.Errorf("date %q (expected YYYY-MM-DD): %w", s, ErrValidation)
}

// FormatDate renders an optional date, or "" when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
