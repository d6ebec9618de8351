package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/username/attendance-engine/internal/calendar"
	"github.com/username/attendance-engine/pkg/dateutil"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. ATTENDANCE_DATA_FILE
const EnvPrefix = "ATTENDANCE"

// Report periods used when --from/--to are not given
const (
	PeriodMonth      = "month"
	PeriodSchoolYear = "school-year"
)

// Config represents application configuration
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Report   ReportConfig   `mapstructure:"report"`
	Log      LogConfig      `mapstructure:"log"`
}

// DataConfig points at the dataset and any extra calendar files
type DataConfig struct {
	File       string   `mapstructure:"file"`
	EventFiles []string `mapstructure:"event_files"` // line-oriented holiday/meeting lists
}

// CalendarConfig overrides the dataset's school calendar window when set
type CalendarConfig struct {
	SchoolYearStart  string `mapstructure:"school_year_start"`
	SchoolYearEnd    string `mapstructure:"school_year_end"`
	WinterBreakStart string `mapstructure:"winter_break_start"`
	WinterBreakEnd   string `mapstructure:"winter_break_end"`
}

// ReportConfig represents ranking and default range settings
type ReportConfig struct {
	TopN          int    `mapstructure:"top_n"`
	DefaultPeriod string `mapstructure:"default_period"` // "month" or "school-year"
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file, .env and environment.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.attendance-engine")
		v.AddConfigPath("/etc/attendance-engine")
	}

	// Keys must be known to viper for env overrides to reach Unmarshal
	v.SetDefault("data.file", "")
	v.SetDefault("data.event_files", []string{})
	v.SetDefault("calendar.school_year_start", "")
	v.SetDefault("calendar.school_year_end", "")
	v.SetDefault("calendar.winter_break_start", "")
	v.SetDefault("calendar.winter_break_end", "")
	v.SetDefault("report.top_n", 10)
	v.SetDefault("report.default_period", PeriodMonth)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.File == "" {
		return fmt.Errorf("data.file is required")
	}

	dates := []struct {
		key   string
		value string
	}{
		{"calendar.school_year_start", c.Calendar.SchoolYearStart},
		{"calendar.school_year_end", c.Calendar.SchoolYearEnd},
		{"calendar.winter_break_start", c.Calendar.WinterBreakStart},
		{"calendar.winter_break_end", c.Calendar.WinterBreakEnd},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := dateutil.ParseDate(d.value); err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
	}

	if c.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must not be negative")
	}

	switch c.Report.DefaultPeriod {
	case "", PeriodMonth, PeriodSchoolYear:
	default:
		return fmt.Errorf("report.default_period must be '%s' or '%s', got '%s'",
			PeriodMonth, PeriodSchoolYear, c.Report.DefaultPeriod)
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}

// ApplyTo returns settings with every configured bound replacing the dataset's
func (c *CalendarConfig) ApplyTo(settings calendar.Settings) calendar.Settings {
	override := func(dst *time.Time, raw string) {
		if raw == "" {
			return
		}
		if d, err := dateutil.ParseDate(raw); err == nil {
			*dst = d
		}
	}

	override(&settings.Start, c.SchoolYearStart)
	override(&settings.End, c.SchoolYearEnd)
	override(&settings.WinterBreakStart, c.WinterBreakStart)
	override(&settings.WinterBreakEnd, c.WinterBreakEnd)
	return settings
}

// GetTopN returns the ranking length. Default: 10
func (c *ReportConfig) GetTopN() int {
	if c.TopN <= 0 {
		return 10
	}
	return c.TopN
}

// GetDefaultPeriod returns the default report range name. Default: month
func (c *ReportConfig) GetDefaultPeriod() string {
	if c.DefaultPeriod == "" {
		return PeriodMonth
	}
	return c.DefaultPeriod
}

// GetLevel returns the log level, falling back to info
func (c *LogConfig) GetLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		return zapcore.InfoLevel
	}
	return level
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Data.File = os.ExpandEnv(c.Data.File)
	for i, f := range c.Data.EventFiles {
		c.Data.EventFiles[i] = os.ExpandEnv(f)
	}
	c.Log.File = os.ExpandEnv(c.Log.File)
}
