package calendar

import (
	"time"

	"github.com/username/attendance-engine/pkg/dateutil"
	"github.com/username/attendance-engine/pkg/normalize"
)

// IsRecess reports whether date falls outside the school year or inside the winter break
func IsRecess(date time.Time, settings Settings) bool {
	if !settings.Start.IsZero() && dateutil.Before(date, settings.Start) {
		return true
	}
	if !settings.End.IsZero() && dateutil.After(date, settings.End) {
		return true
	}
	if settings.WinterBreakStart.IsZero() || settings.WinterBreakEnd.IsZero() {
		return false
	}
	return dateutil.Within(date, settings.WinterBreakStart, settings.WinterBreakEnd)
}

// IsClosedForAttendance reports whether no class at all can happen on date:
// recess, a holiday or bridge day, or an all-day meeting.
func IsClosedForAttendance(date time.Time, settings Settings, events []Event) bool {
	if IsRecess(date, settings) {
		return true
	}

	for _, ev := range events {
		if !dateutil.IsSameDay(ev.Date, date) {
			continue
		}
		switch ev.Type {
		case EventTypeHoliday, EventTypeBridgeDay:
			return true
		case EventTypeMeeting:
			if ev.AllDay {
				return true
			}
		}
	}

	return false
}

// IsClassBlockedByMeeting reports whether a class starting at classStartTime on date
// collides with a meeting. The start must fall in [meeting start, meeting end).
// Unparseable times never block.
func IsClassBlockedByMeeting(date time.Time, classStartTime string, events []Event) bool {
	classMinutes, classOK := normalize.Minutes(classStartTime)

	for _, ev := range events {
		if ev.Type != EventTypeMeeting || !dateutil.IsSameDay(ev.Date, date) {
			continue
		}
		if ev.AllDay {
			return true
		}
		if !classOK {
			continue
		}

		start, ok := normalize.Minutes(ev.StartTime)
		if !ok {
			continue
		}
		end, ok := normalize.Minutes(ev.EndTime)
		if !ok {
			continue
		}
		if classMinutes >= start && classMinutes < end {
			return true
		}
	}

	return false
}

// Rules bundles the settings and events that decide whether a class happens
type Rules struct {
	Settings Settings
	Events   []Event
}

// NewRules creates a Rules value
func NewRules(settings Settings, events []Event) Rules {
	return Rules{Settings: settings, Events: events}
}

// IsRecess checks the school-year and winter-break windows
func (r Rules) IsRecess(date time.Time) bool {
	return IsRecess(date, r.Settings)
}

// IsClosedForAttendance checks recess and whole-day events
func (r Rules) IsClosedForAttendance(date time.Time) bool {
	return IsClosedForAttendance(date, r.Settings, r.Events)
}

// IsClassBlockedByMeeting checks meetings overlapping the class start
func (r Rules) IsClassBlockedByMeeting(date time.Time, classStartTime string) bool {
	return IsClassBlockedByMeeting(date, classStartTime, r.Events)
}

// IsClassDay reports whether a class starting at classStartTime may take place on date
func (r Rules) IsClassDay(date time.Time, classStartTime string) bool {
	return !r.IsClosedForAttendance(date) && !r.IsClassBlockedByMeeting(date, classStartTime)
}

// EventsOn returns the events dated on the given day
func (r Rules) EventsOn(date time.Time) []Event {
	var out []Event
	for _, ev := range r.Events {
		if dateutil.IsSameDay(ev.Date, date) {
			out = append(out, ev)
		}
	}
	return out
}
