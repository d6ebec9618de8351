package attendance

import (
	"math"
	"time"

	"github.com/username/attendance-engine/internal/calendar"
	"github.com/username/attendance-engine/internal/schedule"
	"github.com/username/attendance-engine/pkg/dateutil"
	"github.com/username/attendance-engine/pkg/normalize"
)

// Reconcile counts the marks of one class against its expected occurrences in [from, to].
// Marks dated off the expected set are dropped and only reported in ClassStats.Dropped.
// When a student has several marks on one date the last one wins.
func Reconcile(class schedule.Class, marks []Mark, from, to time.Time, settings calendar.Settings, events []calendar.Event) ClassStats {
	expected := schedule.ExpectedOccurrences(class, from, to, settings, events)
	return reconcile(class, marks, expected)
}

func reconcile(class schedule.Class, marks []Mark, expected []time.Time) ClassStats {
	occurrences := schedule.NewOccurrenceSet(expected)

	type markKey struct {
		student string
		date    string
	}

	// students are keyed by normalized name; the first spelling seen is displayed
	var order []string
	display := make(map[string]string)
	latest := make(map[markKey]Status)
	var keys []markKey
	dropped := 0

	for _, m := range marks {
		student := normalize.Text(m.Student)
		if _, ok := display[student]; !ok {
			display[student] = m.Student
			order = append(order, student)
		}
		if !occurrences.Has(m.Date) {
			if m.Status.Counted() {
				dropped++
			}
			continue
		}

		k := markKey{student: student, date: dateutil.DateKey(m.Date)}
		if _, ok := latest[k]; !ok {
			keys = append(keys, k)
		}
		latest[k] = m.Status
	}

	perStudent := make(map[string]*StudentStats, len(order))
	for _, student := range order {
		perStudent[student] = &StudentStats{Student: display[student]}
	}

	held := make(map[string]bool)
	for _, k := range keys {
		status := latest[k]
		st := perStudent[k.student]
		switch status {
		case StatusPresent:
			st.Present++
		case StatusAbsent:
			st.Absent++
		case StatusExcused:
			st.Excused++
		default:
			continue
		}
		held[k.date] = true
	}

	stats := ClassStats{
		Class:           class,
		Students:        make([]StudentStats, 0, len(order)),
		ClassesHeld:     len(held),
		ClassesExpected: len(expected),
		Expected:        expected,
		Dropped:         dropped,
	}

	sum := 0.0
	for _, name := range order {
		st := perStudent[name]
		st.Total = st.Present + st.Absent + st.Excused
		st.Frequency = Frequency(st.Present, st.Absent, st.Excused)

		stats.Present += st.Present
		stats.Absent += st.Absent
		stats.Excused += st.Excused
		sum += st.Frequency

		stats.Students = append(stats.Students, *st)
	}
	stats.Total = stats.Present + stats.Absent + stats.Excused
	if len(stats.Students) > 0 {
		stats.Frequency = Round1(sum / float64(len(stats.Students)))
	}

	return stats
}

// Frequency returns (present + excused) / (present + absent + excused) * 100,
// rounded to one decimal. No counted marks gives 0.
func Frequency(present, absent, excused int) float64 {
	total := present + absent + excused
	if total == 0 {
		return 0
	}
	return Round1(float64(present+excused) / float64(total) * 100)
}

// Weighted is one contribution to a weighted frequency
type Weighted struct {
	Frequency float64
	Total     int
}

// Weight is the contribution weight of a total, never less than 1
func Weight(total int) int {
	if total < 1 {
		return 1
	}
	return total
}

// WeightedFrequency averages frequencies weighted by max(1, total), rounded to one decimal.
// A class with no marks still weighs 1 at its frequency, which biases the composite downwards.
func WeightedFrequency(items []Weighted) float64 {
	if len(items) == 0 {
		return 0
	}

	num, den := 0.0, 0
	for _, it := range items {
		w := Weight(it.Total)
		num += it.Frequency * float64(w)
		den += w
	}
	return Round1(num / float64(den))
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
