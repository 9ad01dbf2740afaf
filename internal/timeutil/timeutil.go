// Package timeutil keys scoreboard snapshots by UTC calendar day.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical day format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD day as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return t, nil
}

// FormatDate returns the UTC calendar day of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// RecentDates returns the UTC days from t back through n-1 days earlier, newest first.
func RecentDates(t time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	day := StartOfDay(t)
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, day.AddDate(0, 0, -i).Format(DateLayout))
	}
	return dates
}
