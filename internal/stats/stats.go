// Package stats aggregates the preprocessed datasets into chart-ready series.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/dashboard"
)

// Bin counts used by the dashboard charts.
const (
	ReleaseYearBins = 20
	DurationBins    = 30
	TopGenres       = 10
)

// Options controls the optional parts of a snapshot.
type Options struct {
	// MoodClusters is the number of k-means clusters; 0 disables the mood panel.
	MoodClusters int
	Log          *logrus.Entry
}

// GenreShare compares a genre's relative frequency in both datasets.
type GenreShare struct {
	Genre  string  `json:"genre"`
	Recent float64 `json:"recent"`
	Top    float64 `json:"top"`
}

// Count is a labelled count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Mood summarizes one mood cluster.
type Mood struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Size        int                `json:"size"`
	Centroid    map[string]float64 `json:"centroid"`
	Samples     []string           `json:"samples"`
}

// Snapshot is every chart series the dashboard renders.
type Snapshot struct {
	RecentPlays        int          `json:"recent_plays"`
	TopTracks          int          `json:"top_tracks"`
	TotalMinutes       int          `json:"total_minutes"`
	GenreComparison    []GenreShare `json:"genre_comparison"`
	GenrePie           []Count      `json:"genre_pie"`
	Hours              [24]int      `json:"hours"`
	Weekdays           []Count      `json:"weekdays"`
	RecentReleaseYears []Bin        `json:"recent_release_years"`
	TopReleaseYears    []Bin        `json:"top_release_years"`
	Durations          []Bin        `json:"durations"`
	Moods              []Mood       `json:"moods"`
	MoodOutliers       int          `json:"mood_outliers"`
}

// Build computes a snapshot from the recent plays and top tracks frames.
func Build(recent, top *dashboard.Frame, opts Options) *Snapshot {
	if recent == nil {
		recent = &dashboard.Frame{}
	}
	if top == nil {
		top = &dashboard.Frame{}
	}

	s := &Snapshot{
		RecentPlays:     recent.Len(),
		TopTracks:       top.Len(),
		TotalMinutes:    TotalMinutes(recent),
		GenreComparison: GenreComparison(recent, top),
		GenrePie:        limit(genreCounts(top), TopGenres),
		Hours:           HourCounts(recent),
		Weekdays:        WeekdayCounts(top),
		Durations:       Histogram(collect(recent, func(r dashboard.Row) float64 { return r.DurMin }), DurationBins),
		RecentReleaseYears: Histogram(
			collect(recent, func(r dashboard.Row) float64 { return float64(r.ReleaseYear) }), ReleaseYearBins),
		TopReleaseYears: Histogram(
			collect(top, func(r dashboard.Row) float64 { return float64(r.ReleaseYear) }), ReleaseYearBins),
	}

	if opts.MoodClusters > 0 {
		s.Moods, s.MoodOutliers = moods(recent, opts)
	}

	return s
}

// TotalMinutes returns the summed recent listening time in whole minutes.
func TotalMinutes(recent *dashboard.Frame) int {
	total := 0
	for _, r := range recent.Rows {
		total += r.DurationMs
	}
	return total / 60000
}

// GenreComparison aligns the top ten recent genres with every top-track genre by relative frequency.
func GenreComparison(recent, top *dashboard.Frame) []GenreShare {
	recentCounts := genreCounts(recent)
	topCounts := genreCounts(top)

	shares := make(map[string]*GenreShare)
	get := func(genre string) *GenreShare {
		if s, ok := shares[genre]; ok {
			return s
		}
		s := &GenreShare{Genre: genre}
		shares[genre] = s
		return s
	}

	// shares are relative to every recent play, not just the ten kept
	recentTotal := total(recentCounts)
	for _, c := range limit(recentCounts, TopGenres) {
		get(c.Label).Recent = float64(c.Count) / float64(recentTotal)
	}
	topTotal := total(topCounts)
	for _, c := range topCounts {
		get(c.Label).Top = float64(c.Count) / float64(topTotal)
	}

	out := make([]GenreShare, 0, len(shares))
	for _, s := range shares {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b GenreShare) int {
		return cmp.Or(
			cmp.Compare(b.Recent, a.Recent),
			cmp.Compare(b.Top, a.Top),
			cmp.Compare(a.Genre, b.Genre),
		)
	})

	return out
}

// HourCounts counts recent plays per hour of day, ignoring rows without an hour.
func HourCounts(recent *dashboard.Frame) [24]int {
	var hours [24]int
	for _, r := range recent.Rows {
		if r.Hour >= 0 && r.Hour < 24 {
			hours[r.Hour]++
		}
	}
	return hours
}

// weekdayOrder lists weekdays Monday first.
var weekdayOrder = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

// WeekdayCounts counts rows per weekday, Monday through Sunday, followed by
// the Unknown marker when present. Rows with malformed timestamps are skipped.
func WeekdayCounts(f *dashboard.Frame) []Count {
	counts := make(map[string]int)
	for _, r := range f.Rows {
		if r.Weekday != "" {
			counts[r.Weekday]++
		}
	}

	out := make([]Count, 0, len(weekdayOrder)+1)
	for _, day := range weekdayOrder {
		out = append(out, Count{Label: day, Count: counts[day]})
	}
	if n := counts[dashboard.UnknownWeekday]; n > 0 {
		out = append(out, Count{Label: dashboard.UnknownWeekday, Count: n})
	}
	return out
}

// genreCounts counts rows per genre, most frequent first, ties by label.
func genreCounts(f *dashboard.Frame) []Count {
	counts := make(map[string]int)
	for _, r := range f.Rows {
		counts[r.Genre]++
	}

	out := make([]Count, 0, len(counts))
	for label, n := range counts {
		out = append(out, Count{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Label, b.Label))
	})
	return out
}

func limit(counts []Count, n int) []Count {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

func total(counts []Count) int {
	sum := 0
	for _, c := range counts {
		sum += c.Count
	}
	return sum
}

func collect(f *dashboard.Frame, value func(dashboard.Row) float64) []float64 {
	out := make([]float64, 0, len(f.Rows))
	for _, r := range f.Rows {
		out = append(out, value(r))
	}
	return out
}
