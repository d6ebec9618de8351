package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical textual form of a calendar date
const DateLayout = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// DateOnly drops the time of day and location, returning midnight UTC of the same calendar date.
// All date comparisons in the engine go through this.
func DateOnly(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey returns the YYYY-MM-DD key for the calendar date of t
func DateKey(date time.Time) string {
	return DateOnly(date).Format(DateLayout)
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// Before reports whether the calendar date of a is strictly before that of b
func Before(a, b time.Time) bool {
	return DateOnly(a).Before(DateOnly(b))
}

// After reports whether the calendar date of a is strictly after that of b
func After(a, b time.Time) bool {
	return DateOnly(a).After(DateOnly(b))
}

// Within reports whether date lies in [from, to], comparing calendar dates only
func Within(date, from, to time.Time) bool {
	return !Before(date, from) && !After(date, to)
}

// EachDay returns every calendar date in [from, to] in ascending order.
// An inverted range yields nil.
func EachDay(from, to time.Time) []time.Time {
	start := DateOnly(from)
	end := DateOnly(to)
	if start.After(end) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthRange returns the first and last day of the given month
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// ParseDate parses date string in various formats.
// Day-first forms (DD/MM/YYYY, DD.MM.YYYY) are accepted alongside ISO.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)

	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"2/1/2006",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05-0700",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return DateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return DateOnly(time.Now())
}
