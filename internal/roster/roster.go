package roster

import (
	"strings"
	"time"

	"github.com/username/attendance-engine/internal/schedule"
	"github.com/username/attendance-engine/pkg/normalize"
)

// Enrollment is an active student described only by class fields
type Enrollment struct {
	Name       string `json:"name" validate:"required"`
	ClassLabel string `json:"class_label"`
	ClassCode  string `json:"class_code"`
	Time       string `json:"time"`
	Level      string `json:"level"`
	Teacher    string `json:"teacher"`
}

// Exclusion is a student removed from the roster. Blank class fields act as wildcards.
type Exclusion struct {
	Enrollment
	ExcludedOn time.Time `json:"excluded_on"`
}

// GroupKey identifies a class group by its normalized descriptive fields
type GroupKey struct {
	Label   string
	Time    string
	Level   string
	Teacher string
}

// NewGroupKey normalizes the raw fields into a key
func NewGroupKey(label, clock, level, teacher string) GroupKey {
	return GroupKey{
		Label:   normalize.Text(label),
		Time:    normalize.Time(clock),
		Level:   normalize.Text(level),
		Teacher: normalize.Text(teacher),
	}
}

func (k GroupKey) String() string {
	return strings.Join([]string{k.Label, k.Time, k.Level, k.Teacher}, "|")
}

// KeyFor returns the class group of an enrollment. The code stands in for a blank label.
func KeyFor(e Enrollment) GroupKey {
	return NewGroupKey(firstNonBlank(e.ClassLabel, e.ClassCode), e.Time, e.Level, e.Teacher)
}

// KeyForClass returns the class group of a schedule
func KeyForClass(c schedule.Class) GroupKey {
	return NewGroupKey(firstNonBlank(c.Label, c.Code), c.StartTime, c.Level, c.Teacher)
}

// IsExcluded reports whether the exclusion record refers to this enrollment.
// The name must match; class, time and teacher match permissively, a blank
// field on either side of time/teacher (or a blank class on the exclusion) matching anything.
func IsExcluded(e Enrollment, x Exclusion) bool {
	name := normalize.Text(e.Name)
	if name == "" || name != normalize.Text(x.Name) {
		return false
	}

	if !classMatches(e, x) {
		return false
	}

	return fieldMatches(e.Time, x.Time, timeKey) && fieldMatches(e.Teacher, x.Teacher, normalize.Text)
}

// BelongsTo reports whether an enrollment refers to the class. The enrollment's label or
// code must equal the class label or code; time, level and teacher use the same
// blank-side wildcard rule as IsExcluded.
func BelongsTo(e Enrollment, c schedule.Class) bool {
	names := classNames(e.ClassLabel, e.ClassCode)
	if len(names) == 0 || !anyEqual(names, classNames(c.Label, c.Code)) {
		return false
	}

	return fieldMatches(e.Time, c.StartTime, timeKey) &&
		fieldMatches(e.Level, c.Level, normalize.Text) &&
		fieldMatches(e.Teacher, c.Teacher, normalize.Text)
}

// ActiveRoster drops every enrollment matched by at least one exclusion
func ActiveRoster(enrollments []Enrollment, exclusions []Exclusion) []Enrollment {
	active := make([]Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		excluded := false
		for _, x := range exclusions {
			if IsExcluded(e, x) {
				excluded = true
				break
			}
		}
		if !excluded {
			active = append(active, e)
		}
	}
	return active
}

// Occupancy counts active enrollments whose own group key equals key
func Occupancy(active []Enrollment, key GroupKey) int {
	n := 0
	for _, e := range active {
		if KeyFor(e) == key {
			n++
		}
	}
	return n
}

// Vacancies returns max(0, capacity - occupancy)
func Vacancies(capacity, occupancy int) int {
	if capacity-occupancy < 0 {
		return 0
	}
	return capacity - occupancy
}

// Overflow returns max(0, occupancy - capacity)
func Overflow(capacity, occupancy int) int {
	if occupancy-capacity < 0 {
		return 0
	}
	return occupancy - capacity
}

// classMatches compares the exclusion's label or code against the enrollment's label or code.
// An exclusion with neither matches any class.
func classMatches(e Enrollment, x Exclusion) bool {
	want := classNames(x.ClassLabel, x.ClassCode)
	if len(want) == 0 {
		return true
	}
	return anyEqual(want, classNames(e.ClassLabel, e.ClassCode))
}

// classNames returns the normalized, non-blank label and code
func classNames(label, code string) []string {
	var names []string
	for _, v := range []string{label, code} {
		if n := normalize.Text(v); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func anyEqual(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// fieldMatches compares two optional values. A blank side matches anything.
func fieldMatches(a, b string, key func(string) string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return true
	}
	return key(a) == key(b)
}

// timeKey is the HHMM form of a time. Text that is not a time keeps its normalized
// spelling, so "manhã" only ever equals another "manhã".
func timeKey(s string) string {
	if t := normalize.Time(s); t != "" {
		return t
	}
	return "~" + normalize.Text(s)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
