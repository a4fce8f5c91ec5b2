// Package clustering groups recent plays into moods using their audio features.
package clustering

import "time"

// Play is a recent play with the audio features used for clustering.
type Play struct {
	ID       string
	Name     string
	Artist   string
	PlayedAt time.Time // zero when the timestamp was unknown

	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
}
