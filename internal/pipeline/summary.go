package pipeline

import (
	"fmt"
	"strings"
)

const sampleTrackCount = 3

// FormatSummary returns a human-readable summary of a run.
// Shows record counts, file paths, the first 3 top tracks and every skipped play.
func FormatSummary(r *Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run %s finished at %s\n", r.RunID, r.FinishedAt.Format("2006-01-02 15:04:05")))

	sb.WriteString(fmt.Sprintf("\nRecent plays: %d %s -> %s", len(r.Recent), plural(len(r.Recent), "record"), r.RecentPath))
	if len(r.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf(" (%d skipped)", len(r.Skipped)))
	}
	sb.WriteString("\n")
	for _, s := range r.Skipped {
		sb.WriteString(fmt.Sprintf("  • skipped \"%s\" (%s): %v\n", s.TrackName, s.TrackID, s.Reason))
	}

	sb.WriteString(fmt.Sprintf("\nTop tracks: %d %s -> %s\n", len(r.Top), plural(len(r.Top), "record"), r.TopPath))

	sampleCount := min(sampleTrackCount, len(r.Top))
	for i := 0; i < sampleCount; i++ {
		t := r.Top[i]
		sb.WriteString(fmt.Sprintf("  %d. \"%s\" - %s [%s]\n", i+1, t.TrackName, t.ArtistName, t.Genre))
	}

	remaining := len(r.Top) - sampleTrackCount
	if remaining > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", remaining))
	}

	return sb.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
