package report

import (
	"sort"

	"github.com/username/attendance-engine/internal/attendance"
)

// StudentSummary is one student's statistics within one class
type StudentSummary struct {
	Student   string  `json:"student"`
	ClassCode string  `json:"class_code"`
	Class     string  `json:"class"`
	Level     string  `json:"level"`
	Teacher   string  `json:"teacher"`
	Present   int     `json:"present"`
	Absent    int     `json:"absent"`
	Excused   int     `json:"excused"`
	Total     int     `json:"total"`
	Frequency float64 `json:"frequency"`
}

// Students flattens class statistics into per-student rows, in class then student order
func Students(stats []attendance.ClassStats) []StudentSummary {
	var out []StudentSummary
	for _, cs := range stats {
		for _, st := range cs.Students {
			out = append(out, StudentSummary{
				Student:   st.Student,
				ClassCode: cs.Class.Code,
				Class:     cs.Class.DisplayName(),
				Level:     cs.Class.Level,
				Teacher:   cs.Class.Teacher,
				Present:   st.Present,
				Absent:    st.Absent,
				Excused:   st.Excused,
				Total:     st.Total,
				Frequency: st.Frequency,
			})
		}
	}
	return out
}

// TopByFrequency ranks students by frequency, highest first.
// Students without counted marks are left out; ties keep input order.
func TopByFrequency(students []StudentSummary, n int) []StudentSummary {
	if n <= 0 {
		return []StudentSummary{}
	}

	ranked := make([]StudentSummary, 0, len(students))
	for _, s := range students {
		if s.Total > 0 {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})

	return head(ranked, n)
}

// TopByAbsences ranks students by absence count, highest first.
// Students without marks stay in the ranking; ties keep input order.
func TopByAbsences(students []StudentSummary, n int) []StudentSummary {
	if n <= 0 {
		return []StudentSummary{}
	}

	ranked := make([]StudentSummary, len(students))
	copy(ranked, students)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Absent > ranked[j].Absent
	})

	return head(ranked, n)
}

func head(s []StudentSummary, n int) []StudentSummary {
	if len(s) > n {
		return s[:n]
	}
	return s
}
