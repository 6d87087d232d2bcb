package export

import (
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

func TestFormatOffset(t *testing.T) {
	cases := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{754, "00:12:34"},
		{3599, "00:59:59"},
		{3661, "01:01:01"},
		{-5, "00:00:00"},
	}

	for _, tc := range cases {
		if got := FormatOffset(tc.seconds); got != tc.expected {
			t.Errorf("FormatOffset(%d): Expected %s, got %s", tc.seconds, tc.expected, got)
		}
	}
}

func TestMarshalCSV_HeaderAndOrder(t *testing.T) {
	events := []models.DetectionEvent{
		{ID: "EVT-0002", TimeOffset: 120, Size: models.SizeLarge, Confidence: 0.8, Source: "cam"},
		{ID: "EVT-0001", TimeOffset: 60, Size: models.SizeSmall, Confidence: 0.9, Source: "cam"},
	}

	out := MarshalCSV(events)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0] != Header {
		t.Errorf("Expected header %q, got %q", Header, lines[0])
	}
	// Rows follow the list's order, no re-sorting.
	if !strings.Contains(lines[1], "EVT-0002") {
		t.Errorf("Expected first row to be EVT-0002, got %q", lines[1])
	}
}

func TestMarshalCSV_QuotesEveryField(t *testing.T) {
	events := []models.DetectionEvent{
		{ID: "EVT-0001", TimeOffset: 0, Size: models.SizeSmall, Confidence: 0.9, Source: "cam"},
	}

	out := MarshalCSV(events)
	row := strings.Split(out, "\n")[1]

	for _, field := range strings.Split(row, ",") {
		if !strings.HasPrefix(field, `"`) || !strings.HasSuffix(field, `"`) {
			t.Errorf("Field %q is not quoted", field)
		}
	}
}

func TestMarshalCSV_EmbeddedQuoteEscaping(t *testing.T) {
	events := []models.DetectionEvent{
		{ID: "EVT-0001", TimeOffset: 0, Size: models.SizeSmall, Confidence: 0.9,
			Source: `He said "rush"`},
	}

	out := MarshalCSV(events)

	if !strings.Contains(out, `"He said ""rush"""`) {
		t.Errorf("Embedded quotes not doubled: %q", out)
	}
}

func TestMarshalCSV_RoundTrip(t *testing.T) {
	events := []models.DetectionEvent{
		{ID: "EVT-0001", TimeOffset: 754, Size: models.SizeMedium, Confidence: 0.873,
			Source: `He said "rush"`},
		{ID: "EVT-0002", TimeOffset: 3599, Size: models.SizeXL, Confidence: 1,
			Source: "line-a, west"},
	}

	records, err := csv.NewReader(strings.NewReader(MarshalCSV(events))).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse emitted CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d records", len(records))
	}

	for i, e := range events {
		row := records[i+1]
		if row[0] != FormatOffset(e.TimeOffset) {
			t.Errorf("Row %d: Expected time %s, got %s", i, FormatOffset(e.TimeOffset), row[0])
		}
		if row[1] != string(e.Size) {
			t.Errorf("Row %d: Expected size %s, got %s", i, e.Size, row[1])
		}
		confidence, err := strconv.ParseFloat(row[2], 64)
		if err != nil || confidence != e.Confidence {
			t.Errorf("Row %d: Expected confidence %v, got %q", i, e.Confidence, row[2])
		}
		if row[3] != e.Source {
			t.Errorf("Row %d: Expected source %q, got %q", i, e.Source, row[3])
		}
		if row[4] != e.ID {
			t.Errorf("Row %d: Expected id %s, got %s", i, e.ID, row[4])
		}
	}
}

func TestMarshalCSV_EmptyList(t *testing.T) {
	out := MarshalCSV(nil)
	if out != Header+"\n" {
		t.Errorf("Expected header only, got %q", out)
	}
}
