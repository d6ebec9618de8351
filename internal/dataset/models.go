package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/username/attendance-engine/internal/attendance"
	"github.com/username/attendance-engine/internal/calendar"
	"github.com/username/attendance-engine/internal/roster"
	"github.com/username/attendance-engine/internal/schedule"
	"github.com/username/attendance-engine/pkg/dateutil"
)

// Date is a calendar date that accepts both ISO (2024-04-11) and day-first (11/04/2024) text.
// Text that cannot be read as a date leaves the value zero and keeps the raw input,
// so the record simply matches no occurrence instead of failing the whole load.
type Date struct {
	time.Time
	Raw string
}

// UnmarshalJSON implements json.Unmarshaler for Date
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("Date: cannot unmarshal %s", string(b))
	}

	d.Raw = s
	d.Time = time.Time{}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if parsed, err := dateutil.ParseDate(s); err == nil {
		d.Time = parsed
	}
	return nil
}

// MarshalJSON writes the ISO date, or the raw text if it never parsed
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal(d.Raw)
	}
	return json.Marshal(d.Format(dateutil.DateLayout))
}

// Invalid reports whether text was supplied but could not be parsed
func (d Date) Invalid() bool {
	return d.IsZero() && strings.TrimSpace(d.Raw) != ""
}

// SettingsRecord is the school calendar window
type SettingsRecord struct {
	Start            Date `json:"start"`
	End              Date `json:"end"`
	WinterBreakStart Date `json:"winter_break_start"`
	WinterBreakEnd   Date `json:"winter_break_end"`
}

// EventRecord is a calendar exception as supplied by the data provider
type EventRecord struct {
	Date      Date   `json:"date"`
	Type      string `json:"type"`
	AllDay    bool   `json:"all_day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Teacher   string `json:"teacher"`
	Note      string `json:"note"`
}

// MarkRecord is one attendance mark
type MarkRecord struct {
	ClassCode string            `json:"class_code" validate:"required"`
	Student   string            `json:"student" validate:"required"`
	Date      Date              `json:"date"`
	Status    attendance.Status `json:"status"`
}

// ExclusionRecord is a removed student with partially known class fields
type ExclusionRecord struct {
	roster.Enrollment
	ExcludedOn Date `json:"excluded_on"`
}

// Dataset is everything the engine needs for one recompute
type Dataset struct {
	Settings     SettingsRecord      `json:"settings"`
	Classes      []schedule.Class    `json:"classes" validate:"dive"`
	EventRecords []EventRecord       `json:"events"`
	Marks        []MarkRecord        `json:"marks" validate:"dive"`
	Enrollments  []roster.Enrollment `json:"enrollments" validate:"dive"`
	Exclusions   []ExclusionRecord   `json:"exclusions" validate:"dive"`
}

// CalendarSettings converts the settings record
func (ds *Dataset) CalendarSettings() calendar.Settings {
	return calendar.Settings{
		Start:            ds.Settings.Start.Time,
		End:              ds.Settings.End.Time,
		WinterBreakStart: ds.Settings.WinterBreakStart.Time,
		WinterBreakEnd:   ds.Settings.WinterBreakEnd.Time,
	}
}

// CalendarEvents converts the event records
func (ds *Dataset) CalendarEvents() []calendar.Event {
	events := make([]calendar.Event, 0, len(ds.EventRecords))
	for _, r := range ds.EventRecords {
		events = append(events, calendar.Event{
			Date:      r.Date.Time,
			Type:      calendar.ParseEventType(r.Type),
			AllDay:    r.AllDay,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Teacher:   r.Teacher,
			Note:      r.Note,
		})
	}
	return events
}

// Events implements calendar.Source over the dataset's own events
func (ds *Dataset) Events(from, to time.Time) ([]calendar.Event, error) {
	return calendar.StaticSource(ds.CalendarEvents()).Events(from, to)
}

// AttendanceMarks converts the mark records
func (ds *Dataset) AttendanceMarks() []attendance.Mark {
	marks := make([]attendance.Mark, 0, len(ds.Marks))
	for _, r := range ds.Marks {
		marks = append(marks, attendance.Mark{
			ClassCode: r.ClassCode,
			Student:   r.Student,
			Date:      r.Date.Time,
			Status:    r.Status,
		})
	}
	return marks
}

// RosterExclusions converts the exclusion records
func (ds *Dataset) RosterExclusions() []roster.Exclusion {
	out := make([]roster.Exclusion, 0, len(ds.Exclusions))
	for _, r := range ds.Exclusions {
		out = append(out, roster.Exclusion{Enrollment: r.Enrollment, ExcludedOn: r.ExcludedOn.Time})
	}
	return out
}
