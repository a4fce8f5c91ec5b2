// Package extract turns Spotify listening history and top tracks into flat dataset records.
package extract

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/genre"
	"github.com/justestif/go-spotify-listening-stats/internal/logging"
	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

var (
	// ErrNoAudioFeatures is recorded for a track whose feature lookup returned no result.
	ErrNoAudioFeatures = errors.New("no audio features available")

	// ErrTrackNotFound is recorded for a track whose detail lookup returned no result.
	ErrTrackNotFound = errors.New("track not found")
)

// Source abstracts the Spotify wrapper for testing.
type Source interface {
	RecentlyPlayed(ctx context.Context, limit int) ([]spotifyapi.PlayedTrack, error)
	TopTracks(ctx context.Context, limit int, timeRange string) ([]spotifyapi.Track, error)
	Tracks(ctx context.Context, ids []string) ([]*spotifyapi.Track, error)
	AudioFeatures(ctx context.Context, ids []string) ([]*spotifyapi.AudioFeatures, error)
	genre.ArtistSource
}

var _ Source = (*spotifyapi.Client)(nil)

// Extractor builds dataset records from a Source.
type Extractor struct {
	src    Source
	genres *genre.Resolver
	log    *logrus.Entry
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-item warnings.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Extractor reading from src.
func New(src Source, opts ...Option) *Extractor {
	e := &Extractor{
		src:    src,
		genres: genre.NewResolver(src),
		log:    logging.Zone("extract"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// logGenreFailure records why a sentinel genre was used.
func (e *Extractor) logGenreFailure(artistID string, r genre.Result) {
	if r.Status != genre.Failed {
		return
	}
	e.log.WithFields(logrus.Fields{
		"artist_id": artistID,
		"transient": r.Transient(),
	}).WithError(r.Err).Warn("Genre lookup failed, using sentinel")
}
