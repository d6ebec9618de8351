package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/username/attendance-engine/pkg/normalize"
)

// Class represents a recurring class
type Class struct {
	Code       string     `json:"code" validate:"required"`
	Label      string     `json:"label"`
	Recurrence WeekdaySet `json:"recurrence"`
	StartTime  string     `json:"start_time"`
	Teacher    string     `json:"teacher"`
	Level      string     `json:"level"`
	Capacity   int        `json:"capacity" validate:"gte=0"`
}

// DisplayName returns the label, or the code when no label is set
func (c Class) DisplayName() string {
	if strings.TrimSpace(c.Label) != "" {
		return c.Label
	}
	return c.Code
}

// WeekdaySet is the set of weekdays a class recurs on.
// Each weekday maps to its canonical time.Weekday value (Sunday = 0).
type WeekdaySet map[time.Weekday]bool

// NewWeekdaySet builds a set from weekdays
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	set := make(WeekdaySet, len(days))
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			set[d] = true
		}
	}
	return set
}

// Contains reports whether the weekday is part of the recurrence
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s[d]
}

// Days returns the weekdays in ascending order
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, len(s))
	for d, ok := range s {
		if ok {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// String returns a short human form, e.g. "Tue/Thu"
func (s WeekdaySet) String() string {
	days := s.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, "/")
}

// UnmarshalJSON accepts an array of integers (0-6) or weekday names,
// or a single "/" or "," separated string such as "Tue/Thu".
func (s *WeekdaySet) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		var joined string
		if err := json.Unmarshal(b, &joined); err != nil {
			return fmt.Errorf("WeekdaySet: cannot unmarshal %s", string(b))
		}
		parts := strings.FieldsFunc(joined, func(r rune) bool { return r == '/' || r == ',' || r == ' ' })
		raw = nil
		for _, p := range parts {
			q, _ := json.Marshal(p)
			raw = append(raw, q)
		}
	}

	set := make(WeekdaySet, len(raw))
	for _, item := range raw {
		var n int
		if err := json.Unmarshal(item, &n); err == nil {
			if n < 0 || n > 6 {
				return fmt.Errorf("WeekdaySet: weekday %d out of range", n)
			}
			set[time.Weekday(n)] = true
			continue
		}

		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return fmt.Errorf("WeekdaySet: cannot unmarshal %s", string(item))
		}
		d, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		set[d] = true
	}

	*s = set
	return nil
}

// MarshalJSON writes the weekdays as ascending integers
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	days := s.Days()
	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	return json.Marshal(ints)
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "domingo": time.Sunday, "dom": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "segunda": time.Monday, "segunda-feira": time.Monday, "seg": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "terca": time.Tuesday, "terca-feira": time.Tuesday, "ter": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "quarta": time.Wednesday, "quarta-feira": time.Wednesday, "qua": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "quinta": time.Thursday, "quinta-feira": time.Thursday, "qui": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "sexta": time.Friday, "sexta-feira": time.Friday, "sex": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "sabado": time.Saturday, "sab": time.Saturday,
}

// ParseWeekday parses a weekday given as a digit (0-6) or an English/Portuguese name
func ParseWeekday(s string) (time.Weekday, error) {
	key := normalize.Text(s)
	if n, err := strconv.Atoi(key); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range", n)
		}
		return time.Weekday(n), nil
	}
	if d, ok := weekdayNames[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
