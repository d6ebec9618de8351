package engine

import (
	"fmt"
	"time"

	"github.com/username/attendance-engine/internal/attendance"
	"github.com/username/attendance-engine/internal/calendar"
	"github.com/username/attendance-engine/internal/report"
	"github.com/username/attendance-engine/internal/roster"
	"github.com/username/attendance-engine/internal/schedule"
	"github.com/username/attendance-engine/pkg/normalize"
	"go.uber.org/zap"
)

// DefaultTopN is the ranking length used when Inputs.TopN is not set
const DefaultTopN = 10

// Inputs are the materialized collections supplied by the data provider
type Inputs struct {
	From        time.Time
	To          time.Time
	Settings    calendar.Settings
	Classes     []schedule.Class
	Events      []calendar.Event
	Marks       []attendance.Mark
	Enrollments []roster.Enrollment
	Exclusions  []roster.Exclusion
	TopN        int
	Filter      roster.Filter
}

// Outputs is everything the presentation layer needs after a recompute
type Outputs struct {
	From         time.Time               `json:"from"`
	To           time.Time               `json:"to"`
	Classes      []attendance.ClassStats `json:"classes"`
	Students     []report.StudentSummary `json:"students"`
	Frequency    float64                 `json:"frequency"` // weighted across classes
	TopFrequency []report.StudentSummary `json:"top_frequency"`
	TopAbsences  []report.StudentSummary `json:"top_absences"`
	ByLevel      []report.Bucket         `json:"by_level"`
	ByTimeSlot   []report.Bucket         `json:"by_time_slot"`
	ByPeriod     []report.Bucket         `json:"by_period"`
	ByTeacher    []report.Bucket         `json:"by_teacher"`
	Active       []roster.Enrollment     `json:"active"`
	Groups       []roster.GroupStatus    `json:"groups"`
	Totals       roster.Totals           `json:"totals"`
	Diagnostics  Diagnostics             `json:"diagnostics"`
}

// Diagnostics reports data-quality findings that never affect the statistics
type Diagnostics struct {
	DroppedMarks    map[string]int `json:"dropped_marks"` // class code → marks off the expected dates
	UnknownClasses  map[string]int `json:"unknown_classes"`
	ExcludedRecords int            `json:"excluded_records"`
}

// Engine recomputes every statistic from scratch on each call
type Engine struct {
	logger *zap.Logger
}

// New creates a new engine
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Recompute runs occurrence expansion, attendance and roster reconciliation and
// the aggregate reports. It is a pure function of in apart from logging.
func (e *Engine) Recompute(in Inputs) (*Outputs, error) {
	if in.From.IsZero() || in.To.IsZero() {
		return nil, fmt.Errorf("recompute range is not set")
	}
	if in.From.After(in.To) {
		return nil, fmt.Errorf("recompute range is inverted: %s after %s",
			in.From.Format("2006-01-02"), in.To.Format("2006-01-02"))
	}

	topN := in.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	e.logger.Info("Starting recompute",
		zap.Time("from", in.From),
		zap.Time("to", in.To),
		zap.Int("classes", len(in.Classes)),
		zap.Int("marks", len(in.Marks)))

	out := &Outputs{
		From: in.From,
		To:   in.To,
		Diagnostics: Diagnostics{
			DroppedMarks:   make(map[string]int),
			UnknownClasses: make(map[string]int),
		},
	}

	// 1. Attendance per class
	byClass := e.groupMarks(in.Classes, in.Marks, out.Diagnostics.UnknownClasses)
	rules := calendar.NewRules(in.Settings, in.Events)
	weighted := make([]attendance.Weighted, 0, len(in.Classes))

	for _, class := range in.Classes {
		stats := attendance.Reconcile(class, byClass[classKey(class.Code)], in.From, in.To, rules.Settings, rules.Events)
		if stats.Dropped > 0 {
			out.Diagnostics.DroppedMarks[class.Code] = stats.Dropped
			e.logger.Warn("Marks outside expected occurrences were dropped",
				zap.String("class", class.Code),
				zap.Int("dropped", stats.Dropped))
		}

		e.logger.Debug("Class reconciled",
			zap.String("class", class.Code),
			zap.Int("expected", stats.ClassesExpected),
			zap.Int("held", stats.ClassesHeld),
			zap.Float64("frequency", stats.Frequency))

		out.Classes = append(out.Classes, stats)
		weighted = append(weighted, attendance.Weighted{Frequency: stats.Frequency, Total: stats.Total})
	}
	out.Frequency = attendance.WeightedFrequency(weighted)

	for code, n := range out.Diagnostics.UnknownClasses {
		e.logger.Warn("Marks reference an unknown class",
			zap.String("class", code),
			zap.Int("marks", n))
	}

	// 2. Rankings and breakdowns
	out.Students = report.Students(out.Classes)
	out.TopFrequency = report.TopByFrequency(out.Students, topN)
	out.TopAbsences = report.TopByAbsences(out.Students, topN)
	out.ByLevel = report.ByLevel(out.Classes)
	out.ByTimeSlot = report.ByTimeSlot(out.Classes)
	out.ByPeriod = report.ByPeriod(out.Classes)
	out.ByTeacher = report.ByTeacher(out.Classes)

	e.logger.Info("Attendance reconciled",
		zap.Int("students", len(out.Students)),
		zap.Float64("frequency", out.Frequency))

	// 3. Roster occupancy
	out.Active = roster.ActiveRoster(in.Enrollments, in.Exclusions)
	out.Diagnostics.ExcludedRecords = len(in.Enrollments) - len(out.Active)
	out.Groups = in.Filter.Apply(roster.Groups(in.Classes, out.Active))
	out.Totals = roster.Summarize(out.Groups)

	e.logger.Info("Roster reconciled",
		zap.Int("enrollments", len(in.Enrollments)),
		zap.Int("active", len(out.Active)),
		zap.Int("vacancies", out.Totals.Vacancies),
		zap.Int("overflow", out.Totals.Overflow))

	return out, nil
}

// Occurrences returns the expected class dates for one class code in the input range
func (e *Engine) Occurrences(in Inputs, code string) ([]time.Time, error) {
	for _, class := range in.Classes {
		if classKey(class.Code) == classKey(code) {
			return schedule.ExpectedOccurrences(class, in.From, in.To, in.Settings, in.Events), nil
		}
	}
	return nil, fmt.Errorf("class not found: %s", code)
}

// groupMarks splits marks by class code. Marks for codes with no class are counted in unknown.
func (e *Engine) groupMarks(classes []schedule.Class, marks []attendance.Mark, unknown map[string]int) map[string][]attendance.Mark {
	known := make(map[string]bool, len(classes))
	for _, c := range classes {
		known[classKey(c.Code)] = true
	}

	byClass := make(map[string][]attendance.Mark, len(classes))
	for _, m := range marks {
		k := classKey(m.ClassCode)
		if !known[k] {
			unknown[m.ClassCode]++
			continue
		}
		byClass[k] = append(byClass[k], m)
	}
	return byClass
}

func classKey(code string) string {
	return normalize.Text(code)
}
