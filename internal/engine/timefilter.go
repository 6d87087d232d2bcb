package engine

import (
	"time"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// TimeRange selects the working subset of a session's events. Supplying
// either absolute bound switches the filter into absolute mode; otherwise
// the relative trailing-window selector applies.
type TimeRange struct {
	From   string // RFC3339 instant, empty = unbounded
	To     string // RFC3339 instant, empty = unbounded
	Window string // all|5m|10m|30m|60m
}

var windowMinutes = map[string]int{
	"5m":  5,
	"10m": 10,
	"30m": 30,
	"60m": 60,
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// FilterByTime restricts events to the requested time range. Absolute mode
// keeps only events whose own timestamp is present and parseable, inside the
// inclusive bounds; an unparseable bound is treated as unbounded, never as an
// error. Relative mode keeps the trailing window anchored on the working
// set's maximum offset. Unrecognized window selectors mean no filtering.
func FilterByTime(events []models.DetectionEvent, tr TimeRange) []models.DetectionEvent {
	if tr.From != "" || tr.To != "" {
		return filterAbsolute(events, tr.From, tr.To)
	}
	return filterRelative(events, tr.Window)
}

func filterAbsolute(events []models.DetectionEvent, fromStr, toStr string) []models.DetectionEvent {
	from, hasFrom := parseInstant(fromStr)
	to, hasTo := parseInstant(toStr)

	filtered := make([]models.DetectionEvent, 0, len(events))
	for _, e := range events {
		// Absolute mode never falls back to offsets: no timestamp, no match.
		ts, ok := parseInstant(e.AbsoluteTime)
		if !ok {
			continue
		}
		if hasFrom && ts.Before(from) {
			continue
		}
		if hasTo && ts.After(to) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func filterRelative(events []models.DetectionEvent, window string) []models.DetectionEvent {
	minutes, ok := windowMinutes[window]
	if !ok {
		// "all" and anything unrecognized leave the set untouched.
		return events
	}

	maxOffset := 0
	for _, e := range events {
		if e.TimeOffset > maxOffset {
			maxOffset = e.TimeOffset
		}
	}
	minOffset := maxOffset - minutes*60
	if minOffset < 0 {
		minOffset = 0
	}

	filtered := make([]models.DetectionEvent, 0, len(events))
	for _, e := range events {
		if e.TimeOffset >= minOffset && e.TimeOffset <= maxOffset {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func parseInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
