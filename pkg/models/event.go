package models

import "time"

// Session layout constants. A session is one bounded hour of camera output,
// bucketed per minute for charting.
const (
	SessionDurationSeconds = 3600
	BucketCount            = 60
	BucketSeconds          = 60
)

// SizeCategory is one of the four closed size classes reported by the
// cutting-line camera.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "Small"
	SizeMedium SizeCategory = "Medium"
	SizeLarge  SizeCategory = "Large"
	SizeXL     SizeCategory = "XL"
)

// Categories returns the size classes in their fixed declared order. The
// order matters: weighted sampling and per-category reporting both walk it.
func Categories() []SizeCategory {
	return []SizeCategory{SizeSmall, SizeMedium, SizeLarge, SizeXL}
}

// Valid reports whether c is one of the four allowed categories.
// Matching is case-sensitive.
func (c SizeCategory) Valid() bool {
	switch c {
	case SizeSmall, SizeMedium, SizeLarge, SizeXL:
		return true
	}
	return false
}

// DetectionEvent is a single normalized camera detection.
type DetectionEvent struct {
	ID         string `json:"id"`
	TimeOffset int    `json:"time_offset"` // seconds since session start, >= 0
	// AbsoluteTime keeps the source timestamp verbatim when the feed supplied
	// one; empty otherwise. Parsed lazily by the absolute time-range filter.
	AbsoluteTime string       `json:"absolute_time,omitempty"`
	Size         SizeCategory `json:"size"`
	Confidence   float64      `json:"confidence"` // in [0,1]
	Source       string       `json:"source"`
}

// MinuteBucket is one fixed one-minute aggregation slot.
// Invariant: Total == sum over Counts.
type MinuteBucket struct {
	Index  int                  `json:"index"` // 0..59
	Total  int                  `json:"total"`
	Counts map[SizeCategory]int `json:"counts"`
}

// PeakWindow is the busiest contiguous span of buckets, inclusive on both
// ends. Derived per query, never persisted.
type PeakWindow struct {
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
	Count      int `json:"count"`
}

// Session is one immutable snapshot of detection events. A re-ingestion
// replaces the whole Session; derived views are recomputed from it on demand.
type Session struct {
	ID              string           `json:"id"`
	Events          []DetectionEvent `json:"events"`
	DurationSeconds int              `json:"duration_seconds"`
	Synthetic       bool             `json:"synthetic"`
	CreatedAt       time.Time        `json:"created_at"`
}
