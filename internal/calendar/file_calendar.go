package calendar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/username/attendance-engine/pkg/dateutil"
	"github.com/username/attendance-engine/pkg/normalize"
	"go.uber.org/zap"
)

// FileCalendar implements Source using a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	events   []Event
	loaded   bool
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
	}
}

// Load loads calendar events from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	events, err := fc.parse(file)
	if err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}
	fc.events = events
	fc.loaded = true

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("events", len(fc.events)))

	return nil
}

// parse reads one event per line.
// Format: DATE TYPE [HH:MM-HH:MM|all-day] [@Teacher_Name] [note]
// Example: 2024-04-11 meeting 09:00-11:00 @Maria_Souza Pedagogical meeting
func (fc *FileCalendar) parse(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	var events []Event

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := dateutil.ParseDate(parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		ev := Event{
			Date:   date,
			Type:   ParseEventType(parts[1]),
			AllDay: true,
		}
		rest := parts[2:]

		if len(rest) > 0 {
			if isAllDayToken(rest[0]) {
				rest = rest[1:]
			} else if start, end, ok := parseTimeRange(rest[0]); ok {
				ev.AllDay = false
				ev.StartTime = start
				ev.EndTime = end
				rest = rest[1:]
			}
		}

		if len(rest) > 0 && strings.HasPrefix(rest[0], "@") {
			ev.Teacher = strings.ReplaceAll(strings.TrimPrefix(rest[0], "@"), "_", " ")
			rest = rest[1:]
		}

		ev.Note = strings.Join(rest, " ")
		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Events returns the loaded events dated within [from, to]
func (fc *FileCalendar) Events(from, to time.Time) ([]Event, error) {
	if !fc.loaded {
		if err := fc.Load(); err != nil {
			return nil, err
		}
	}

	var out []Event
	for _, ev := range fc.events {
		if dateutil.Within(ev.Date, from, to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func isAllDayToken(s string) bool {
	switch normalize.Text(s) {
	case "all-day", "allday", "dia-todo", "integral":
		return true
	}
	return false
}

func parseTimeRange(s string) (string, string, bool) {
	start, end, found := strings.Cut(s, "-")
	if !found {
		return "", "", false
	}
	start = normalize.Clock(start)
	end = normalize.Clock(end)
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}
