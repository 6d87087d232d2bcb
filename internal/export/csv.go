// Package export serializes filtered event lists to CSV.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// Header is the fixed CSV column order.
const Header = "time,size,confidence,source,id"

// WriteCSV emits the header followed by one row per event in the given
// order; no re-sorting happens here. Every data field is quoted and embedded
// quotes are doubled, so the output round-trips through any standard CSV
// parser. Confidence is written as its raw numeric value, time as a
// zero-padded HH:MM:SS offset.
func WriteCSV(w io.Writer, events []models.DetectionEvent) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return err
	}

	for _, e := range events {
		row := strings.Join([]string{
			quote(FormatOffset(e.TimeOffset)),
			quote(string(e.Size)),
			quote(strconv.FormatFloat(e.Confidence, 'g', -1, 64)),
			quote(e.Source),
			quote(e.ID),
		}, ",")
		if _, err := io.WriteString(w, row+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// MarshalCSV renders the event list to a string.
func MarshalCSV(events []models.DetectionEvent) string {
	var b strings.Builder
	// strings.Builder writes cannot fail.
	_ = WriteCSV(&b, events)
	return b.String()
}

// FormatOffset renders seconds since session start as HH:MM:SS.
func FormatOffset(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
