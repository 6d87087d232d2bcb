package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// DefaultSource labels events whose feed record carried no origin.
const DefaultSource = "cutline-cam"

// DefaultConfidence is assumed when a record has no usable confidence value.
const DefaultConfidence = 0.9

// Field names probed, in order, for an absolute timestamp on a raw record.
var timestampAliases = []string{"timestamp", "ts", "absolute_time", "recorded_at"}

// ValidateRecords normalizes loosely-typed feed records into DetectionEvents.
// A record whose size is not one of the four allowed categories is dropped
// entirely; every other field falls back to a default when missing or
// mistyped. The transform is pure: no errors are reported per record.
func ValidateRecords(records []map[string]interface{}) []models.DetectionEvent {
	events := make([]models.DetectionEvent, 0, len(records))

	for i, rec := range records {
		size, _ := rec["size"].(string)
		category := models.SizeCategory(size)
		if !category.Valid() {
			continue
		}

		event := models.DetectionEvent{
			ID:         readID(rec, i+1),
			TimeOffset: readOffset(rec),
			Size:       category,
			Confidence: readConfidence(rec),
			Source:     readString(rec, "source", DefaultSource),
		}

		for _, alias := range timestampAliases {
			if ts, ok := rec[alias].(string); ok && ts != "" {
				event.AbsoluteTime = ts
				break
			}
		}

		events = append(events, event)
	}

	return events
}

func readID(rec map[string]interface{}, position int) string {
	if id, ok := rec["id"].(string); ok && id != "" {
		return id
	}
	return fmt.Sprintf("EVT-%04d", position)
}

func readString(rec map[string]interface{}, key, fallback string) string {
	if s, ok := rec[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func readConfidence(rec map[string]interface{}) float64 {
	v, ok := rec["confidence"].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultConfidence
	}
	return v
}

// readOffset converts the record's clock-offset field ("HH:MM:SS") to
// seconds since session start. Missing or malformed values mean zero offset.
func readOffset(rec map[string]interface{}) int {
	switch v := rec["time"].(type) {
	case string:
		if sec, ok := parseClock(v); ok {
			return sec
		}
	case float64:
		if sec := int(v); sec > 0 {
			return sec
		}
	}
	return 0
}

func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	total := h*3600 + m*60 + sec
	if total < 0 {
		total = 0
	}
	return total, true
}
