// Package dashboard loads the persisted datasets and derives the columns the charts need.
package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/justestif/go-spotify-listening-stats/internal/dataset"
)

// Weekday marker for tables without any timestamp column.
const UnknownWeekday = "Unknown"

// timestampFormats are tried in order when parsing played_at / added_at values.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Row is one preprocessed dataset row.
type Row struct {
	TrackID     string
	TrackName   string
	Artist      string
	Genre       string
	Popularity  int
	DurationMs  int
	DurMin      float64
	ReleaseYear int

	// Timestamp is nil when the value was missing or malformed.
	Timestamp *time.Time
	Weekday   string
	Hour      int // -1 when unknown

	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
	HasFeatures  bool
}

// Frame is a preprocessed table.
type Frame struct {
	// TimestampColumn is "played_at", "added_at" or "" when neither exists.
	TimestampColumn string
	Rows            []Row
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Preprocess derives weekday, hour, minutes and release year for every row
// and drops rows whose genre is "unknown" in any letter case.
func Preprocess(t *dataset.Table) *Frame {
	frame := &Frame{}
	switch {
	case t.Has("played_at"):
		frame.TimestampColumn = "played_at"
	case t.Has("added_at"):
		frame.TimestampColumn = "added_at"
	}

	hasFeatures := t.Has("energy") && t.Has("valence") && t.Has("danceability") && t.Has("acousticness")

	frame.Rows = make([]Row, 0, len(t.Rows))
	for _, raw := range t.Rows {
		if strings.EqualFold(raw["genre"], "unknown") {
			continue
		}

		row := Row{
			TrackID:     first(raw, "id", "track_id"),
			TrackName:   raw["track_name"],
			Artist:      first(raw, "artist", "artist_name"),
			Genre:       raw["genre"],
			Popularity:  atoi(raw["popularity"]),
			DurationMs:  atoi(raw["duration_ms"]),
			ReleaseYear: atoi(raw["release_year"]),
			Weekday:     UnknownWeekday,
			Hour:        -1,
		}
		row.DurMin = MinutesSeconds(row.DurationMs)

		if frame.TimestampColumn != "" {
			row.Weekday = ""
			if ts, ok := ParseTimestamp(raw[frame.TimestampColumn]); ok {
				row.Timestamp = &ts
				row.Weekday = ts.Weekday().String()
				row.Hour = ts.Hour()
			}
		}

		if hasFeatures {
			row.Energy, row.HasFeatures = parseFloat(raw["energy"])
			var ok bool
			if row.Valence, ok = parseFloat(raw["valence"]); !ok {
				row.HasFeatures = false
			}
			if row.Danceability, ok = parseFloat(raw["danceability"]); !ok {
				row.HasFeatures = false
			}
			if row.Acousticness, ok = parseFloat(raw["acousticness"]); !ok {
				row.HasFeatures = false
			}
		}

		frame.Rows = append(frame.Rows, row)
	}

	return frame
}

// ParseTimestamp parses a timestamp in any of the supported layouts,
// keeping the value's own offset.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// MinutesSeconds renders a duration as minutes.seconds packed into a float,
// so 215000 ms (3m35s) becomes 3.35. It is a display convention, not a decimal minute count.
func MinutesSeconds(ms int) float64 {
	ms = max(ms, 0)
	v, err := strconv.ParseFloat(fmt.Sprintf("%d.%02d", ms/60000, (ms%60000)/1000), 64)
	if err != nil {
		return 0
	}
	return v
}

func first(raw dataset.Row, columns ...string) string {
	for _, c := range columns {
		if v, ok := raw[c]; ok {
			return v
		}
	}
	return ""
}

// atoi coerces integer columns, accepting float renderings like "2019.0"; bad values become 0.
func atoi(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
