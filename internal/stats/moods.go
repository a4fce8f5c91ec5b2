package stats

import (
	"github.com/justestif/go-spotify-listening-stats/internal/clustering"
	"github.com/justestif/go-spotify-listening-stats/internal/dashboard"
)

const moodSamples = 3

// moods clusters the recent plays that carry audio features.
func moods(recent *dashboard.Frame, opts Options) ([]Mood, int) {
	var plays []clustering.Play
	for _, r := range recent.Rows {
		if !r.HasFeatures {
			continue
		}
		p := clustering.Play{
			ID:           r.TrackID,
			Name:         r.TrackName,
			Artist:       r.Artist,
			Energy:       r.Energy,
			Valence:      r.Valence,
			Danceability: r.Danceability,
			Acousticness: r.Acousticness,
		}
		if r.Timestamp != nil {
			p.PlayedAt = *r.Timestamp
		}
		plays = append(plays, p)
	}

	cfg := clustering.DefaultMoodConfig()
	cfg.NumClusters = opts.MoodClusters
	detected, outliers := clustering.DetectMoods(plays, cfg, opts.Log)

	out := make([]Mood, 0, len(detected))
	for _, m := range detected {
		mood := Mood{
			Name:        m.Name,
			Description: m.Description,
			Size:        m.Size(),
			Centroid:    m.Centroid,
		}
		// most recent plays first
		for i := len(m.Plays) - 1; i >= 0 && len(mood.Samples) < moodSamples; i-- {
			mood.Samples = append(mood.Samples, m.Plays[i].Name+" - "+m.Plays[i].Artist)
		}
		out = append(out, mood)
	}

	return out, len(outliers)
}
