package roster

import (
	"github.com/username/attendance-engine/internal/schedule"
	"github.com/username/attendance-engine/pkg/normalize"
)

// GroupStatus is the occupancy of one class group against its capacity
type GroupStatus struct {
	Class     schedule.Class `json:"class"`
	Key       string         `json:"key"`
	Capacity  int            `json:"capacity"`
	Occupancy int            `json:"occupancy"`
	Vacancies int            `json:"vacancies"`
	Overflow  int            `json:"overflow"`
}

// Totals sums a set of group statuses. Vacancies and overflow are summed
// independently, so an overfull class never offsets one with free seats.
type Totals struct {
	Groups    int `json:"groups"`
	Capacity  int `json:"capacity"`
	Occupancy int `json:"occupancy"`
	Vacancies int `json:"vacancies"`
	Overflow  int `json:"overflow"`
}

// Groups computes the status of every class against the active roster.
// Each enrollment is counted once: in the class with the same group key if there is
// one, otherwise in the first class it BelongsTo. Enrollments matching no class are not counted.
func Groups(classes []schedule.Class, active []Enrollment) []GroupStatus {
	keys := make([]GroupKey, len(classes))
	for i, c := range classes {
		keys[i] = KeyForClass(c)
	}

	counts := make([]int, len(classes))
	for _, e := range active {
		if i := assign(e, classes, keys); i >= 0 {
			counts[i]++
		}
	}

	out := make([]GroupStatus, 0, len(classes))
	for i, c := range classes {
		occ := counts[i]
		out = append(out, GroupStatus{
			Class:     c,
			Key:       keys[i].String(),
			Capacity:  c.Capacity,
			Occupancy: occ,
			Vacancies: Vacancies(c.Capacity, occ),
			Overflow:  Overflow(c.Capacity, occ),
		})
	}
	return out
}

// assign returns the index of the class an enrollment is counted in, or -1
func assign(e Enrollment, classes []schedule.Class, keys []GroupKey) int {
	own := KeyFor(e)
	for i, k := range keys {
		if k == own {
			return i
		}
	}
	for i, c := range classes {
		if BelongsTo(e, c) {
			return i
		}
	}
	return -1
}

// Summarize totals the given groups
func Summarize(groups []GroupStatus) Totals {
	var t Totals
	for _, g := range groups {
		t.Groups++
		t.Capacity += g.Capacity
		t.Occupancy += g.Occupancy
		t.Vacancies += g.Vacancies
		t.Overflow += g.Overflow
	}
	return t
}

// Filter selects class groups. Blank fields match everything.
type Filter struct {
	Level   string
	Teacher string
	Time    string
}

// Apply returns the groups matching the filter
func (f Filter) Apply(groups []GroupStatus) []GroupStatus {
	level := normalize.Text(f.Level)
	teacher := normalize.Text(f.Teacher)
	clock := normalize.Time(f.Time)

	var out []GroupStatus
	for _, g := range groups {
		if level != "" && normalize.Text(g.Class.Level) != level {
			continue
		}
		if teacher != "" && normalize.Text(g.Class.Teacher) != teacher {
			continue
		}
		if clock != "" && normalize.Time(g.Class.StartTime) != clock {
			continue
		}
		out = append(out, g)
	}
	return out
}
