package attendance

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/username/attendance-engine/internal/schedule"
	"github.com/username/attendance-engine/pkg/normalize"
)

// Status is the value of a single attendance mark
type Status int

const (
	StatusUnset Status = iota
	StatusPresent
	StatusAbsent
	StatusExcused
)

// Next returns the status that follows s when a mark is toggled:
// unset → present → absent → excused → unset.
func (s Status) Next() Status {
	switch s {
	case StatusUnset:
		return StatusPresent
	case StatusPresent:
		return StatusAbsent
	case StatusAbsent:
		return StatusExcused
	default:
		return StatusUnset
	}
}

// Counted reports whether the status contributes to statistics
func (s Status) Counted() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusExcused
}

func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusAbsent:
		return "absent"
	case StatusExcused:
		return "excused"
	default:
		return "unset"
	}
}

// ParseStatus maps a status label to a Status. Unknown labels are unset.
func ParseStatus(s string) Status {
	switch normalize.Text(s) {
	case "present", "presente", "p":
		return StatusPresent
	case "absent", "ausente", "falta", "a", "f":
		return StatusAbsent
	case "excused", "justificada", "justificado", "falta justificada", "j", "e":
		return StatusExcused
	default:
		return StatusUnset
	}
}

// UnmarshalJSON accepts the status label
func (s *Status) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return fmt.Errorf("Status: cannot unmarshal %s", string(b))
	}
	*s = ParseStatus(label)
	return nil
}

// MarshalJSON writes the status label
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Mark is one recorded status for a student on a date
type Mark struct {
	ClassCode string
	Student   string
	Date      time.Time
	Status    Status
}

// StudentStats holds a student's counts within one class
type StudentStats struct {
	Student   string  `json:"student"`
	Present   int     `json:"present"`
	Absent    int     `json:"absent"`
	Excused   int     `json:"excused"`
	Total     int     `json:"total"`
	Frequency float64 `json:"frequency"`
}

// ClassStats is the reconciliation of one class over a date range
type ClassStats struct {
	Class           schedule.Class `json:"class"`
	Students        []StudentStats `json:"students"`
	Present         int            `json:"present"`
	Absent          int            `json:"absent"`
	Excused         int            `json:"excused"`
	Total           int            `json:"total"`
	Frequency       float64        `json:"frequency"` // mean of student frequencies
	ClassesHeld     int            `json:"classes_held"`
	ClassesExpected int            `json:"classes_expected"`
	Expected        []time.Time    `json:"expected"`
	Dropped         int            `json:"dropped"` // marks outside the expected occurrences
}

// HeldLabel renders the "X of Y classes given" indicator
func (cs ClassStats) HeldLabel() string {
	return fmt.Sprintf("%d/%d", cs.ClassesHeld, cs.ClassesExpected)
}
