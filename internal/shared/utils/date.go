package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthStart parses YYYY-MM or YYYY-MM-DD and returns the first day of
// that month.
func MonthStart(s string) (time.Time, error) {
	t, err := parseMonth(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthEnd parses YYYY-MM or YYYY-MM-DD and returns the last day of that
// month.
func MonthEnd(s string) (time.Time, error) {
	t, err := parseMonth(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC), nil
}

func parseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM or YYYY-MM-DD", s)
}
