package ingest

import (
	"fmt"
	"math"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// SyntheticEventCount is how many events a fallback session contains.
const SyntheticEventCount = 220

// SyntheticSource labels generated events so they are distinguishable from
// real camera output in exports.
const SyntheticSource = "synthetic"

// Category weights for the generated size distribution, walked in the fixed
// declared order of models.Categories.
var syntheticWeights = []float64{0.22, 0.38, 0.31, 0.09}

// GenerateSyntheticEvents produces the deterministic fallback event set for
// a session. The same seed string always yields an identical sequence, which
// keeps demo data and tests reproducible across runs.
func GenerateSyntheticEvents(seed string) []models.DetectionEvent {
	rng := newSeededRand(seed)
	categories := models.Categories()
	events := make([]models.DetectionEvent, 0, SyntheticEventCount)

	for i := 0; i < SyntheticEventCount; i++ {
		offset := i * models.SessionDurationSeconds / SyntheticEventCount
		size := pickCategory(categories, rng.next())

		confidence := 0.72 + rng.next()*0.27
		if confidence > 1 {
			confidence = 1
		}
		confidence = math.Round(confidence*1000) / 1000

		events = append(events, models.DetectionEvent{
			ID:         fmt.Sprintf("EVT-%04d", i+1),
			TimeOffset: offset,
			Size:       size,
			Confidence: confidence,
			Source:     SyntheticSource,
		})
	}

	return events
}

// pickCategory walks the categories accumulating weight and returns the
// first whose cumulative weight covers the draw. The final category is the
// unconditional fallback so floating rounding can never leave the draw
// unmatched.
func pickCategory(categories []models.SizeCategory, draw float64) models.SizeCategory {
	cumulative := 0.0
	for i, c := range categories {
		cumulative += syntheticWeights[i]
		if draw <= cumulative {
			return c
		}
	}
	return categories[len(categories)-1]
}

// seededRand is a small linear congruential generator. math/rand is avoided
// here on purpose: the output must stay byte-identical for a given seed
// string regardless of the Go version's generator internals.
type seededRand struct {
	state uint32
}

func newSeededRand(seed string) *seededRand {
	var h uint32 = 2166136261
	for i := 0; i < len(seed); i++ {
		h ^= uint32(seed[i])
		h *= 16777619
	}
	return &seededRand{state: h}
}

// next returns a uniform draw in [0,1).
func (r *seededRand) next() float64 {
	r.state = r.state*1664525 + 1013904223
	return float64(r.state) / (1 << 32)
}
