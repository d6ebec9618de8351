package calendar

import (
	"fmt"
	"time"

	"github.com/username/attendance-engine/pkg/dateutil"
	"go.uber.org/zap"
)

// CompositeCalendar implements Source by merging several sources.
// Identical events reported by more than one source are kept once.
type CompositeCalendar struct {
	sources []Source
	logger  *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(logger *zap.Logger, sources ...Source) *CompositeCalendar {
	return &CompositeCalendar{
		sources: sources,
		logger:  logger,
	}
}

// Add appends another source
func (cc *CompositeCalendar) Add(src Source) {
	cc.sources = append(cc.sources, src)
}

// Events merges events from every source. A failing source is logged and skipped;
// an error is returned only when every source fails.
func (cc *CompositeCalendar) Events(from, to time.Time) ([]Event, error) {
	seen := make(map[string]bool)
	var merged []Event
	var lastErr error
	failed := 0

	for i, src := range cc.sources {
		events, err := src.Events(from, to)
		if err != nil {
			cc.logger.Warn("Calendar source failed, skipping",
				zap.Int("source", i),
				zap.Error(err))
			lastErr = err
			failed++
			continue
		}

		for _, ev := range events {
			k := ev.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, ev)
		}
	}

	if len(cc.sources) > 0 && failed == len(cc.sources) {
		return nil, fmt.Errorf("all calendar sources failed: %w", lastErr)
	}

	return merged, nil
}

// StaticSource is a Source over an in-memory event list
type StaticSource []Event

// Events returns the events dated within [from, to]
func (s StaticSource) Events(from, to time.Time) ([]Event, error) {
	var out []Event
	for _, ev := range s {
		if dateutil.Within(ev.Date, from, to) {
			out = append(out, ev)
		}
	}
	return out, nil
}
