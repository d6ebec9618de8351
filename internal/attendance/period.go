package attendance

import "github.com/username/attendance-engine/pkg/normalize"

// Period buckets a class by the hour it starts
type Period int

const (
	PeriodMorning Period = iota + 1
	PeriodAfternoon
	PeriodEvening
	PeriodNotInformed
)

func (p Period) String() string {
	switch p {
	case PeriodMorning:
		return "morning"
	case PeriodAfternoon:
		return "afternoon"
	case PeriodEvening:
		return "evening"
	default:
		return "not informed"
	}
}

// PeriodOf buckets a start time: before 12 is morning, before 18 afternoon, else evening.
// Unparseable times are not informed.
func PeriodOf(startTime string) Period {
	hour, ok := normalize.Hour(startTime)
	if !ok {
		return PeriodNotInformed
	}
	switch {
	case hour < 12:
		return PeriodMorning
	case hour < 18:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}
