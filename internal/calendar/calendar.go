package calendar

import (
	"strings"
	"time"

	"github.com/username/attendance-engine/pkg/normalize"
)

// EventType represents the kind of calendar exception
type EventType int

const (
	EventTypeGeneric EventType = iota + 1
	EventTypeHoliday
	EventTypeBridgeDay
	EventTypeMeeting
)

// String returns the canonical name of the event type
func (t EventType) String() string {
	switch t {
	case EventTypeHoliday:
		return "holiday"
	case EventTypeBridgeDay:
		return "bridge-day"
	case EventTypeMeeting:
		return "meeting"
	default:
		return "event"
	}
}

// ParseEventType maps a free-form type label to an EventType.
// Unknown labels become EventTypeGeneric, which never closes a date.
func ParseEventType(s string) EventType {
	switch normalize.Text(s) {
	case "holiday", "feriado":
		return EventTypeHoliday
	case "bridge", "bridge-day", "bridge day", "ponte", "recesso":
		return EventTypeBridgeDay
	case "meeting", "reuniao":
		return EventTypeMeeting
	default:
		return EventTypeGeneric
	}
}

// Settings is the school-year window plus a single winter recess.
// A zero bound is treated as not configured.
type Settings struct {
	Start            time.Time
	End              time.Time
	WinterBreakStart time.Time
	WinterBreakEnd   time.Time
}

// Event represents a date-stamped calendar exception
type Event struct {
	Date      time.Time
	Type      EventType
	AllDay    bool
	StartTime string // HH:MM or bare digits, ignored when AllDay
	EndTime   string
	Teacher   string
	Note      string
}

// Source supplies calendar events for a date range
type Source interface {
	// Events returns every event dated within [from, to]
	Events(from, to time.Time) ([]Event, error)
}

func (e Event) key() string {
	return strings.Join([]string{
		e.Date.Format("2006-01-02"),
		e.Type.String(),
		boolKey(e.AllDay),
		normalize.Time(e.StartTime),
		normalize.Time(e.EndTime),
		normalize.Text(e.Teacher),
		normalize.Text(e.Note),
	}, "|")
}

func boolKey(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
