package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/attendance-engine/internal/calendar"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data:
  file: data/april2024.json
  event_files:
    - data/holidays.txt
calendar:
  school_year_start: "05/02/2024"
report:
  top_n: 5
  default_period: school-year
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.File != "data/april2024.json" {
		t.Errorf("Data.File = %q", cfg.Data.File)
	}
	if len(cfg.Data.EventFiles) != 1 || cfg.Data.EventFiles[0] != "data/holidays.txt" {
		t.Errorf("Data.EventFiles = %v", cfg.Data.EventFiles)
	}
	if cfg.Report.GetTopN() != 5 || cfg.Report.GetDefaultPeriod() != PeriodSchoolYear {
		t.Errorf("Report = %+v", cfg.Report)
	}
	if cfg.Log.GetLevel() != zapcore.DebugLevel {
		t.Errorf("Log.GetLevel() = %v, want debug", cfg.Log.GetLevel())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "data:\n  file: a.json\n")
	t.Setenv("ATTENDANCE_DATA_FILE", "b.json")
	t.Setenv("ATTENDANCE_REPORT_TOP_N", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data.File != "b.json" || cfg.Report.TopN != 3 {
		t.Errorf("env override: file=%q top_n=%d, want b.json 3", cfg.Data.File, cfg.Report.TopN)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit config, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{Data: DataConfig{File: "d.json"}}, false},
		{"missing data file", Config{}, true},
		{"bad calendar date", Config{Data: DataConfig{File: "d.json"}, Calendar: CalendarConfig{SchoolYearEnd: "december"}}, true},
		{"negative top n", Config{Data: DataConfig{File: "d.json"}, Report: ReportConfig{TopN: -1}}, true},
		{"unknown period", Config{Data: DataConfig{File: "d.json"}, Report: ReportConfig{DefaultPeriod: "week"}}, true},
		{"bad log level", Config{Data: DataConfig{File: "d.json"}, Log: LogConfig{Level: "loud"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalendarConfig_ApplyTo(t *testing.T) {
	base := calendar.Settings{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	cc := CalendarConfig{SchoolYearEnd: "13/12/2024", WinterBreakStart: "2024-07-08"}

	got := cc.ApplyTo(base)

	if !got.Start.Equal(base.Start) {
		t.Errorf("Start = %v, want unchanged %v", got.Start, base.Start)
	}
	if !got.End.Equal(time.Date(2024, 12, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v, want 2024-12-13", got.End)
	}
	if !got.WinterBreakStart.Equal(time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("WinterBreakStart = %v, want 2024-07-08", got.WinterBreakStart)
	}
	if !got.WinterBreakEnd.IsZero() {
		t.Errorf("WinterBreakEnd = %v, want zero", got.WinterBreakEnd)
	}
}

func TestDefaults(t *testing.T) {
	var r ReportConfig
	if r.GetTopN() != 10 || r.GetDefaultPeriod() != PeriodMonth {
		t.Errorf("defaults = %d %q, want 10 month", r.GetTopN(), r.GetDefaultPeriod())
	}
	var l LogConfig
	if l.GetLevel() != zapcore.InfoLevel {
		t.Errorf("LogConfig.GetLevel() = %v, want info", l.GetLevel())
	}
}
