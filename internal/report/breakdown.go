package report

import (
	"sort"
	"strings"

	"github.com/username/attendance-engine/internal/attendance"
	"github.com/username/attendance-engine/pkg/normalize"
)

const notInformed = "not informed"

// Bucket is the weighted frequency of a group of classes
type Bucket struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Frequency float64 `json:"frequency"`
	Weight    int     `json:"weight"`
	Classes   int     `json:"classes"`
}

type bucketAcc struct {
	label string
	items []attendance.Weighted
}

// group buckets classes by keyFn, keeping the first label seen for each key
func group(stats []attendance.ClassStats, keyFn func(attendance.ClassStats) (string, string)) []Bucket {
	accs := make(map[string]*bucketAcc)
	for _, cs := range stats {
		key, label := keyFn(cs)
		acc, ok := accs[key]
		if !ok {
			acc = &bucketAcc{label: label}
			accs[key] = acc
		}
		acc.items = append(acc.items, attendance.Weighted{Frequency: cs.Frequency, Total: cs.Total})
	}

	out := make([]Bucket, 0, len(accs))
	for key, acc := range accs {
		weight := 0
		for _, it := range acc.items {
			weight += attendance.Weight(it.Total)
		}
		out = append(out, Bucket{
			Key:       key,
			Label:     acc.label,
			Frequency: attendance.WeightedFrequency(acc.items),
			Weight:    weight,
			Classes:   len(acc.items),
		})
	}
	return out
}

func textKey(raw string) (string, string) {
	key := normalize.Text(raw)
	if key == "" {
		return "", notInformed
	}
	return key, strings.TrimSpace(raw)
}

// sortByKey orders buckets by normalized key with the blank key last
func sortByKey(buckets []Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i].Key, buckets[j].Key
		if (a == "") != (b == "") {
			return b == ""
		}
		return a < b
	})
}

// ByLevel groups classes by level
func ByLevel(stats []attendance.ClassStats) []Bucket {
	buckets := group(stats, func(cs attendance.ClassStats) (string, string) {
		return textKey(cs.Class.Level)
	})
	sortByKey(buckets)
	return buckets
}

// ByTeacher groups classes by teacher
func ByTeacher(stats []attendance.ClassStats) []Bucket {
	buckets := group(stats, func(cs attendance.ClassStats) (string, string) {
		return textKey(cs.Class.Teacher)
	})
	sortByKey(buckets)
	return buckets
}

// ByTimeSlot groups classes by start time, ordered by the numeric time value.
// Times without digits sort last.
func ByTimeSlot(stats []attendance.ClassStats) []Bucket {
	buckets := group(stats, func(cs attendance.ClassStats) (string, string) {
		if clock := normalize.Clock(cs.Class.StartTime); clock != "" {
			return normalize.Time(clock), clock
		}
		raw := strings.TrimSpace(cs.Class.StartTime)
		if raw == "" {
			return "", notInformed
		}
		return normalize.Text(raw), raw
	})

	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := normalize.SortValue(buckets[i].Key), normalize.SortValue(buckets[j].Key)
		if a != b {
			return a < b
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// ByPeriod groups classes into morning, afternoon, evening and not informed
func ByPeriod(stats []attendance.ClassStats) []Bucket {
	periodOf := make(map[string]attendance.Period)
	buckets := group(stats, func(cs attendance.ClassStats) (string, string) {
		p := attendance.PeriodOf(cs.Class.StartTime)
		periodOf[p.String()] = p
		return p.String(), p.String()
	})

	sort.SliceStable(buckets, func(i, j int) bool {
		return periodOf[buckets[i].Key] < periodOf[buckets[j].Key]
	})
	return buckets
}
