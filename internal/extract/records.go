package extract

import "strconv"

// PlayEvent is one persisted row of the recent plays dataset.
type PlayEvent struct {
	PlayedAt     string  `csv:"played_at"`
	TrackName    string  `csv:"track_name"`
	Artist       string  `csv:"artist"`
	ID           string  `csv:"id"`
	Popularity   int     `csv:"popularity"`
	DurationMs   int     `csv:"duration_ms"`
	Genre        string  `csv:"genre"`
	Danceability float32 `csv:"danceability"`
	Energy       float32 `csv:"energy"`
	Valence      float32 `csv:"valence"`
	Tempo        float32 `csv:"tempo"`
	Acousticness float32 `csv:"acousticness"`
	Speechiness  float32 `csv:"speechiness"`
	Loudness     float32 `csv:"loudness"`
	ReleaseDate  string  `csv:"release_date"`
	ReleaseYear  int     `csv:"release_year"`
}

// TopTrack is one persisted row of the top tracks dataset.
type TopTrack struct {
	TrackName   string `csv:"track_name"`
	ArtistName  string `csv:"artist_name"`
	ArtistID    string `csv:"artist_id"`
	TrackID     string `csv:"track_id"`
	Popularity  int    `csv:"popularity"`
	DurationMs  int    `csv:"duration_ms"`
	ReleaseDate string `csv:"release_date"`
	ReleaseYear int    `csv:"release_year"`
	Genre       string `csv:"genre"`
}

// ReleaseYear parses the year from up to the first four characters of an album release date.
// Returns 0 for empty or unparsable dates.
func ReleaseYear(releaseDate string) int {
	year, err := strconv.Atoi(releaseDate[:min(4, len(releaseDate))])
	if err != nil {
		return 0
	}
	return year
}

// nonNegative clamps durations so persisted rows never carry negative values.
func nonNegative(ms int) int {
	return max(ms, 0)
}
