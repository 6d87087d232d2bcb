package engine

import "github.com/bashkirian/cutline-analytics/pkg/models"

// Confidence thresholds the display filter recognizes. Any other value
// disables the confidence cut rather than erroring.
var allowedThresholds = []float64{0.5, 0.6, 0.7, 0.8, 0.9}

// DisplayParams select the events shown in the table and exported to CSV.
// Both views read the same filtered list, so they can never diverge.
type DisplayParams struct {
	MinConfidence float64
	Size          string // one of the four categories, or anything else for "all"
}

// FilterForDisplay keeps events at or above the confidence threshold that
// match the selected category. Unrecognized parameter values mean no filter.
// The function is idempotent: re-filtering its own output with the same
// params returns an equal list.
func FilterForDisplay(events []models.DetectionEvent, p DisplayParams) []models.DetectionEvent {
	threshold, cutByConfidence := recognizedThreshold(p.MinConfidence)
	category := models.SizeCategory(p.Size)
	cutByCategory := category.Valid()

	filtered := make([]models.DetectionEvent, 0, len(events))
	for _, e := range events {
		if cutByConfidence && e.Confidence < threshold {
			continue
		}
		if cutByCategory && e.Size != category {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func recognizedThreshold(v float64) (float64, bool) {
	for _, t := range allowedThresholds {
		if v == t {
			return t, true
		}
	}
	return 0, false
}
