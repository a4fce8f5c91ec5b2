package spotify

import "time"

// Artist identifies a credited artist on a track.
type Artist struct {
	ID   string
	Name string
}

// Track contains the track metadata the extractors need.
// Popularity and ReleaseDate are only populated from full track objects.
type Track struct {
	ID          string
	Name        string
	Artists     []Artist
	Popularity  int
	DurationMs  int
	ReleaseDate string // Album release date, "YYYY", "YYYY-MM" or "YYYY-MM-DD"
}

// FirstArtist returns the first credited artist, or the zero Artist if there is none.
func (t Track) FirstArtist() Artist {
	if len(t.Artists) == 0 {
		return Artist{}
	}
	return t.Artists[0]
}

// PlayedTrack is one entry of the listening history.
type PlayedTrack struct {
	PlayedAt time.Time
	Track    Track
}

// AudioFeatures holds the per-track audio analysis scores.
type AudioFeatures struct {
	TrackID      string
	Danceability float32
	Energy       float32
	Valence      float32
	Tempo        float32
	Acousticness float32
	Speechiness  float32
	Loudness     float32
}

// ArtistProfile holds an artist's genre list.
type ArtistProfile struct {
	ID     string
	Name   string
	Genres []string
}
