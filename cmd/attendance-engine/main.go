package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/attendance-engine/internal/calendar"
	"github.com/username/attendance-engine/internal/config"
	"github.com/username/attendance-engine/internal/dataset"
	"github.com/username/attendance-engine/internal/engine"
	"github.com/username/attendance-engine/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	teeOutput  string
	logger     *zap.Logger
	out        io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "attendance-engine",
		Short: "Class attendance and capacity reconciliation",
		Long:  "Expand class schedules through the school calendar, reconcile attendance marks and report roster occupancy",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err != nil {
				initLogger(zapcore.InfoLevel) // Default console logger
				return
			}
			if cfg.Log.File != "" {
				logger, err = initFileLogger(os.ExpandEnv(cfg.Log.File), cfg.Log.GetLevel())
				if err == nil {
					return
				}
			}
			initLogger(cfg.Log.GetLevel())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ., $HOME/.attendance-engine, /etc/attendance-engine)")
	rootCmd.PersistentFlags().StringVar(&teeOutput, "tee-output", "", "Mirror command output to file")

	rootCmd.AddCommand(occurrencesCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(rosterCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rangeFlags are the --from/--to flags shared by every command
type rangeFlags struct {
	from string
	to   string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "Range start (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&r.to, "to", "", "Range end (YYYY-MM-DD or DD/MM/YYYY)")
}

// resolve turns the flags into a date range. Without flags the configured
// default period is used; a single bound is completed to the end or start of its month.
func (r *rangeFlags) resolve(period string, settings calendar.Settings) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if r.from != "" {
		if from, err = dateutil.ParseDate(r.from); err != nil {
			return from, to, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if r.to != "" {
		if to, err = dateutil.ParseDate(r.to); err != nil {
			return from, to, fmt.Errorf("invalid --to: %w", err)
		}
	}

	switch {
	case !from.IsZero() && !to.IsZero():
	case !from.IsZero():
		_, to = dateutil.MonthRange(from.Year(), from.Month())
	case !to.IsZero():
		from, _ = dateutil.MonthRange(to.Year(), to.Month())
	case period == config.PeriodSchoolYear && !settings.Start.IsZero() && !settings.End.IsZero():
		from, to = settings.Start, settings.End
	default:
		today := dateutil.Today()
		from, to = dateutil.MonthRange(today.Year(), today.Month())
	}

	if from.After(to) {
		return from, to, fmt.Errorf("--from %s is after --to %s", from.Format(dateutil.DateLayout), to.Format(dateutil.DateLayout))
	}
	return from, to, nil
}

// session is everything a command needs after config and data are loaded
type session struct {
	engine *engine.Engine
	inputs engine.Inputs
}

func newSession(rf *rangeFlags) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ExpandEnvVars()

	ds, err := dataset.NewLoader(logger).Load(cfg.Data.File)
	if err != nil {
		return nil, err
	}

	settings := cfg.Calendar.ApplyTo(ds.CalendarSettings())
	from, to, err := rf.resolve(cfg.Report.GetDefaultPeriod(), settings)
	if err != nil {
		return nil, err
	}

	// Dataset events first, then every configured event file
	cal := calendar.NewCompositeCalendar(logger, ds)
	for _, f := range cfg.Data.EventFiles {
		cal.Add(calendar.NewFileCalendar(f, logger))
	}

	events, err := cal.Events(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar events: %w", err)
	}

	return &session{
		engine: engine.New(logger),
		inputs: engine.Inputs{
			From:        from,
			To:          to,
			Settings:    settings,
			Classes:     ds.Classes,
			Events:      events,
			Marks:       ds.AttendanceMarks(),
			Enrollments: ds.Enrollments,
			Exclusions:  ds.RosterExclusions(),
			TopN:        cfg.Report.GetTopN(),
		},
	}, nil
}

// withTee mirrors command output to --tee-output for the duration of fn
func withTee(fn func() error) error {
	out = os.Stdout
	if teeOutput != "" {
		if err := os.MkdirAll(filepath.Dir(teeOutput), 0o755); err != nil {
			return fmt.Errorf("failed to create tee path: %w", err)
		}
		f, err := os.OpenFile(teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open tee-output file: %w", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	defer func() {
		out = os.Stdout
	}()
	return fn()
}

func outf(format string, a ...interface{}) {
	fmt.Fprintf(out, format, a...)
}

func outln(a ...interface{}) {
	fmt.Fprintln(out, a...)
}

func initLogger(level zapcore.Level) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// stdout carries the tables
	zapConfig.OutputPaths = []string{"stderr"}

	var err error
	logger, err = zapConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level zapcore.Level) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		level,
	)

	return zap.New(core), nil
}
