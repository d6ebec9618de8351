package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/attendance-engine/internal/attendance"
	"github.com/username/attendance-engine/internal/report"
	"github.com/username/attendance-engine/internal/roster"
	"github.com/username/attendance-engine/pkg/dateutil"
	"github.com/username/attendance-engine/pkg/normalize"
	"go.uber.org/zap"
)

const rule = "═══════════════════════════════════════════════════════"

func occurrencesCmd() *cobra.Command {
	var rf rangeFlags
	var classCode string

	cmd := &cobra.Command{
		Use:   "occurrences",
		Short: "List the expected class dates in a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(&rf)
			if err != nil {
				return err
			}

			return withTee(func() error {
				outf("📅 Expected occurrences (%s to %s)\n", s.inputs.From.Format(dateutil.DateLayout), s.inputs.To.Format(dateutil.DateLayout))
				outln(rule)

				found := false
				for _, class := range s.inputs.Classes {
					if classCode != "" && normalize.Text(class.Code) != normalize.Text(classCode) {
						continue
					}
					found = true

					dates, err := s.engine.Occurrences(s.inputs, class.Code)
					if err != nil {
						return err
					}

					outf("\n  %s  %s  %s %s  (%d)\n", class.Code, class.DisplayName(), class.Recurrence, normalize.Clock(class.StartTime), len(dates))
					for _, d := range dates {
						outf("    %s %s\n", d.Format(dateutil.DateLayout), d.Weekday().String()[:3])
					}
				}

				if !found {
					return fmt.Errorf("class not found: %s", classCode)
				}
				return nil
			})
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&classCode, "class", "", "Only this class code")

	return cmd
}

func statsCmd() *cobra.Command {
	var rf rangeFlags
	var showStudents bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Reconcile attendance marks into class and student frequency",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(&rf)
			if err != nil {
				return err
			}

			res, err := s.engine.Recompute(s.inputs)
			if err != nil {
				return err
			}

			return withTee(func() error {
				outf("📊 Attendance (%s to %s)\n", res.From.Format(dateutil.DateLayout), res.To.Format(dateutil.DateLayout))
				outln(rule)
				outln("  Class        | Held   | Present | Absent | Excused | Freq   | Dropped")
				outln("---------------+--------+---------+--------+---------+--------+--------")
				for _, cs := range res.Classes {
					outf("  %-12s | %-6s | %7d | %6d | %7d | %5.1f%% | %d\n",
						cs.Class.Code, cs.HeldLabel(), cs.Present, cs.Absent, cs.Excused, cs.Frequency, cs.Dropped)

					if showStudents {
						printStudents(cs)
					}
				}
				outf("\n  Overall frequency: %.1f%% (weighted by marks)\n", res.Frequency)

				if len(res.Diagnostics.UnknownClasses) > 0 {
					outf("  ⚠️  Marks for unknown classes: %v\n", res.Diagnostics.UnknownClasses)
				}
				return nil
			})
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&showStudents, "students", false, "Show per-student rows under each class")

	return cmd
}

func printStudents(cs attendance.ClassStats) {
	for _, st := range cs.Students {
		outf("      %-24s P%-3d A%-3d E%-3d %5.1f%%\n", st.Student, st.Present, st.Absent, st.Excused, st.Frequency)
	}
}

func rosterCmd() *cobra.Command {
	var rf rangeFlags
	var filter roster.Filter

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Show occupancy, vacancies and overflow per class group",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(&rf)
			if err != nil {
				return err
			}
			s.inputs.Filter = filter

			res, err := s.engine.Recompute(s.inputs)
			if err != nil {
				return err
			}

			logger.Info("Roster filter applied",
				zap.String("level", filter.Level),
				zap.String("teacher", filter.Teacher),
				zap.String("time", filter.Time),
				zap.Int("groups", len(res.Groups)))

			return withTee(func() error {
				outln("👥 Roster occupancy")
				outln(rule)
				outln("  Class        | Time  | Level          | Teacher            | Cap | Occ | Free | Over")
				outln("---------------+-------+----------------+--------------------+-----+-----+------+-----")
				for _, g := range res.Groups {
					outf("  %-12s | %-5s | %-14s | %-18s | %3d | %3d | %4d | %4d\n",
						g.Class.Code,
						orDash(normalize.Clock(g.Class.StartTime)),
						orDash(g.Class.Level),
						orDash(g.Class.Teacher),
						g.Capacity, g.Occupancy, g.Vacancies, g.Overflow)
				}
				t := res.Totals
				outf("\n  %d group(s): capacity %d, occupied %d, vacancies %d, overflow %d\n",
					t.Groups, t.Capacity, t.Occupancy, t.Vacancies, t.Overflow)
				outf("  Active students: %d (%d excluded)\n", len(res.Active), res.Diagnostics.ExcludedRecords)
				return nil
			})
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&filter.Level, "level", "", "Only groups of this level")
	cmd.Flags().StringVar(&filter.Teacher, "teacher", "", "Only groups of this teacher")
	cmd.Flags().StringVar(&filter.Time, "time", "", "Only groups starting at this time")

	return cmd
}

func reportCmd() *cobra.Command {
	var rf rangeFlags
	var topN int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rank students and break frequency down by level, time, period and teacher",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(&rf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("top") {
				s.inputs.TopN = topN
			}

			res, err := s.engine.Recompute(s.inputs)
			if err != nil {
				return err
			}

			return withTee(func() error {
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(res)
				}

				outf("🏆 Report (%s to %s)\n", res.From.Format(dateutil.DateLayout), res.To.Format(dateutil.DateLayout))
				outln(rule)

				printRanking("Top frequency", res.TopFrequency, func(r report.StudentSummary) string {
					return fmt.Sprintf("%5.1f%%", r.Frequency)
				})
				printRanking("Most absences", res.TopAbsences, func(r report.StudentSummary) string {
					return fmt.Sprintf("%d", r.Absent)
				})

				printBuckets("By level", res.ByLevel)
				printBuckets("By time slot", res.ByTimeSlot)
				printBuckets("By period", res.ByPeriod)
				printBuckets("By teacher", res.ByTeacher)
				return nil
			})
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&topN, "top", 0, "Ranking length (default from report.top_n)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full recompute output as JSON")

	return cmd
}

func printRanking(title string, rows []report.StudentSummary, value func(report.StudentSummary) string) {
	outf("\n  %s\n", title)
	if len(rows) == 0 {
		outln("    (none)")
		return
	}
	for i, r := range rows {
		outf("    %2d. %-24s %-12s %s\n", i+1, r.Student, r.ClassCode, value(r))
	}
}

func printBuckets(title string, buckets []report.Bucket) {
	outf("\n  %s\n", title)
	for _, b := range buckets {
		outf("    %-20s %5.1f%%  (%d class%s, weight %d)\n", b.Label, b.Frequency, b.Classes, plural(b.Classes, "es"), b.Weight)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func plural(n int, suffix string) string {
	if n == 1 {
		return ""
	}
	return suffix
}
