package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Loader reads datasets from JSON files
type Loader struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewLoader creates a new dataset loader
func NewLoader(logger *zap.Logger) *Loader {
	validate := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Loader{
		validate: validate,
		logger:   logger,
	}
}

// Load loads and validates the dataset file
func (l *Loader) Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	ds, err := l.Parse(data)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Dataset loaded",
		zap.String("file", path),
		zap.Int("classes", len(ds.Classes)),
		zap.Int("events", len(ds.EventRecords)),
		zap.Int("marks", len(ds.Marks)),
		zap.Int("enrollments", len(ds.Enrollments)),
		zap.Int("exclusions", len(ds.Exclusions)))

	return ds, nil
}

// Parse decodes and validates a dataset document
func (l *Loader) Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	if err := l.Validate(&ds); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	l.warnUnparsedDates(&ds)

	return &ds, nil
}

// Validate checks required fields on every record and reports all violations at once
func (l *Loader) Validate(ds *Dataset) error {
	err := l.validate.Struct(ds)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// strip the root "Dataset." prefix
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		errs = append(errs, fmt.Errorf("%s: failed on '%s'", field, fe.Tag()))
	}
	return errors.Join(errs...)
}

// warnUnparsedDates logs dates that could not be read. Such records stay in the
// dataset and are ignored by the calendar and reconciliation rules.
func (l *Loader) warnUnparsedDates(ds *Dataset) {
	check := func(record string, d Date) {
		if d.Invalid() {
			l.logger.Warn("Unparseable date, record will match no occurrence",
				zap.String("record", record),
				zap.String("date", d.Raw))
		}
	}

	check("settings.start", ds.Settings.Start)
	check("settings.end", ds.Settings.End)
	check("settings.winter_break_start", ds.Settings.WinterBreakStart)
	check("settings.winter_break_end", ds.Settings.WinterBreakEnd)
	for i, ev := range ds.EventRecords {
		check(fmt.Sprintf("events[%d]", i), ev.Date)
	}
	for i, m := range ds.Marks {
		check(fmt.Sprintf("marks[%d]", i), m.Date)
	}
	for i, x := range ds.Exclusions {
		check(fmt.Sprintf("exclusions[%d]", i), x.ExcludedOn)
	}
}
