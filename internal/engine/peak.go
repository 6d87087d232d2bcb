package engine

import "github.com/bashkirian/cutline-analytics/pkg/models"

// PeakWindowWidth is the fixed width, in buckets, of the busiest-window scan.
const PeakWindowWidth = 10

// FindPeakWindow returns the contiguous PeakWindowWidth-bucket span with the
// highest summed total. Ties go to the lowest start index. With fewer
// buckets than the window width the zero window at index 0 is returned.
func FindPeakWindow(buckets []models.MinuteBucket) models.PeakWindow {
	if len(buckets) < PeakWindowWidth {
		return models.PeakWindow{}
	}

	sum := 0
	for i := 0; i < PeakWindowWidth; i++ {
		sum += buckets[i].Total
	}

	best := sum
	bestStart := 0
	for i := 1; i+PeakWindowWidth <= len(buckets); i++ {
		sum += buckets[i+PeakWindowWidth-1].Total - buckets[i-1].Total
		if sum > best {
			best = sum
			bestStart = i
		}
	}

	return models.PeakWindow{
		StartIndex: bestStart,
		EndIndex:   bestStart + PeakWindowWidth - 1,
		Count:      best,
	}
}
