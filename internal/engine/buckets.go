package engine

import (
	"math"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// Series is the fixed-resolution per-minute view of a filtered event set,
// plus its session totals. Charts rely on the bucket list always being dense
// and exactly 60 long.
type Series struct {
	Buckets          []models.MinuteBucket       `json:"buckets"`
	Total            int                         `json:"total"`
	TotalsByCategory map[models.SizeCategory]int `json:"totals_by_category"`
	Throughput       float64                     `json:"throughput"` // events per minute
}

// Aggregate folds events into 60 per-minute buckets in a single linear pass.
// Event order is irrelevant to the result. Offsets outside the session are
// clamped into the edge buckets.
func Aggregate(events []models.DetectionEvent) Series {
	buckets := make([]models.MinuteBucket, models.BucketCount)
	for i := range buckets {
		buckets[i].Index = i
		buckets[i].Counts = emptyCounts()
	}

	totals := emptyCounts()
	for _, e := range events {
		idx := e.TimeOffset / models.BucketSeconds
		if idx < 0 {
			idx = 0
		}
		if idx > models.BucketCount-1 {
			idx = models.BucketCount - 1
		}
		buckets[idx].Total++
		buckets[idx].Counts[e.Size]++
		totals[e.Size]++
	}

	return Series{
		Buckets:          buckets,
		Total:            len(events),
		TotalsByCategory: totals,
		Throughput:       math.Round(float64(len(events))/models.BucketCount*10) / 10,
	}
}

func emptyCounts() map[models.SizeCategory]int {
	counts := make(map[models.SizeCategory]int, 4)
	for _, c := range models.Categories() {
		counts[c] = 0
	}
	return counts
}
