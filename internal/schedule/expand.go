package schedule

import (
	"time"

	"github.com/username/attendance-engine/internal/calendar"
	"github.com/username/attendance-engine/pkg/dateutil"
)

// ExpectedOccurrences returns the dates in [from, to] on which the class should take place:
// its weekday is in the recurrence, the date is open for attendance, and no meeting
// overlaps the class start. Dates are ascending and unique.
func ExpectedOccurrences(class Class, from, to time.Time, settings calendar.Settings, events []calendar.Event) []time.Time {
	return Expand(class, from, to, calendar.NewRules(settings, events))
}

// Expand is ExpectedOccurrences over a prepared Rules value
func Expand(class Class, from, to time.Time, rules calendar.Rules) []time.Time {
	if len(class.Recurrence) == 0 {
		return []time.Time{}
	}

	dates := []time.Time{}
	for _, d := range dateutil.EachDay(from, to) {
		if !class.Recurrence.Contains(d.Weekday()) {
			continue
		}
		if !rules.IsClassDay(d, class.StartTime) {
			continue
		}
		dates = append(dates, d)
	}

	return dates
}

// OccurrenceSet indexes expected occurrences by calendar date
type OccurrenceSet map[string]time.Time

// NewOccurrenceSet builds a set from a date sequence
func NewOccurrenceSet(dates []time.Time) OccurrenceSet {
	set := make(OccurrenceSet, len(dates))
	for _, d := range dates {
		set[dateutil.DateKey(d)] = dateutil.DateOnly(d)
	}
	return set
}

// Has reports whether date is one of the occurrences
func (s OccurrenceSet) Has(date time.Time) bool {
	_, ok := s[dateutil.DateKey(date)]
	return ok
}
