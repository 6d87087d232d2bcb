package engine

import (
	"testing"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

func bucketsWithTotals(totals []int) []models.MinuteBucket {
	buckets := make([]models.MinuteBucket, models.BucketCount)
	for i := range buckets {
		buckets[i].Index = i
		if i < len(totals) {
			buckets[i].Total = totals[i]
		}
	}
	return buckets
}

func TestFindPeakWindow_SpikeBeatsFlatStart(t *testing.T) {
	// [5 x10, 100, 0...]: the window starting at 1 sums 5*9+100=145 and must
	// beat the window at 0 (sum 50).
	totals := []int{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 100}
	peak := FindPeakWindow(bucketsWithTotals(totals))

	if peak.StartIndex != 1 {
		t.Errorf("Expected start index 1, got %d", peak.StartIndex)
	}
	if peak.EndIndex != 10 {
		t.Errorf("Expected end index 10, got %d", peak.EndIndex)
	}
	if peak.Count != 145 {
		t.Errorf("Expected count 145, got %d", peak.Count)
	}
}

func TestFindPeakWindow_FirstStartWinsOnTie(t *testing.T) {
	// Uniform totals: every window sums the same, index 0 must win.
	totals := make([]int, models.BucketCount)
	for i := range totals {
		totals[i] = 3
	}

	peak := FindPeakWindow(bucketsWithTotals(totals))

	if peak.StartIndex != 0 {
		t.Errorf("Expected start index 0 on tie, got %d", peak.StartIndex)
	}
	if peak.Count != 30 {
		t.Errorf("Expected count 30, got %d", peak.Count)
	}
}

func TestFindPeakWindow_EmptyBuckets(t *testing.T) {
	peak := FindPeakWindow(bucketsWithTotals(nil))

	if peak.Count != 0 || peak.StartIndex != 0 {
		t.Errorf("Expected zero window at index 0, got %+v", peak)
	}
	if peak.EndIndex-peak.StartIndex != PeakWindowWidth-1 {
		t.Errorf("Expected window width %d, got %d", PeakWindowWidth, peak.EndIndex-peak.StartIndex+1)
	}
}

func TestFindPeakWindow_FewerBucketsThanWidth(t *testing.T) {
	peak := FindPeakWindow(make([]models.MinuteBucket, 5))

	if peak.Count != 0 || peak.StartIndex != 0 || peak.EndIndex != 0 {
		t.Errorf("Expected zero window, got %+v", peak)
	}
}

func TestFindPeakWindow_BeatsEveryOtherWindow(t *testing.T) {
	totals := []int{1, 0, 2, 7, 4, 0, 0, 9, 3, 1, 5, 5, 5, 5, 8, 0, 2}
	buckets := bucketsWithTotals(totals)

	peak := FindPeakWindow(buckets)

	for start := 0; start+PeakWindowWidth <= len(buckets); start++ {
		sum := 0
		for i := start; i < start+PeakWindowWidth; i++ {
			sum += buckets[i].Total
		}
		if sum > peak.Count {
			t.Fatalf("Window at %d sums %d, beating reported peak %d", start, sum, peak.Count)
		}
		if sum == peak.Count && start < peak.StartIndex {
			t.Fatalf("Tie at %d should have beaten start %d", start, peak.StartIndex)
		}
	}
}
