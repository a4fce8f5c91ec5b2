package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/genre"
	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

// Skipped describes a play that produced no record.
type Skipped struct {
	TrackID   string
	TrackName string
	Reason    error
}

// RecentResult is the output of the recent plays extractor.
type RecentResult struct {
	Events  []PlayEvent
	Skipped []Skipped
}

// FetchRecent fetches up to limit recent plays and extracts them.
// Only a failure of the history request itself is returned as an error.
func (e *Extractor) FetchRecent(ctx context.Context, limit int) (*RecentResult, error) {
	items, err := e.src.RecentlyPlayed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent plays: %w", err)
	}
	return e.ExtractRecent(ctx, items), nil
}

// ExtractRecent builds one PlayEvent per play whose audio features are available.
// Plays without features are logged and skipped; input order is preserved.
func (e *Extractor) ExtractRecent(ctx context.Context, items []spotifyapi.PlayedTrack) *RecentResult {
	result := &RecentResult{Events: make([]PlayEvent, 0, len(items))}
	if len(items) == 0 {
		return result
	}

	trackIDs := make([]string, len(items))
	for i, item := range items {
		trackIDs[i] = item.Track.ID
	}

	features := spotifyapi.FetchBatched(ctx, trackIDs, spotifyapi.MaxAudioFeatureIDs, ErrNoAudioFeatures, e.src.AudioFeatures)

	// Drop plays without features before spending lookups on them
	kept := make([]spotifyapi.PlayedTrack, 0, len(items))
	for _, item := range items {
		f := features[item.Track.ID]
		if f.Value == nil {
			err := f.Err
			if err == nil {
				err = ErrNoAudioFeatures
			}
			e.log.WithFields(logrus.Fields{
				"track_id":   item.Track.ID,
				"track_name": item.Track.Name,
			}).WithError(err).Warn("Skipping track without audio features")

			result.Skipped = append(result.Skipped, Skipped{
				TrackID:   item.Track.ID,
				TrackName: item.Track.Name,
				Reason:    err,
			})
			continue
		}
		kept = append(kept, item)
	}

	if len(kept) == 0 {
		return result
	}

	artistIDs := make([]string, len(kept))
	keptIDs := make([]string, len(kept))
	for i, item := range kept {
		artistIDs[i] = item.Track.FirstArtist().ID
		keptIDs[i] = item.Track.ID
	}

	genres := e.genres.Resolve(ctx, artistIDs)
	details := spotifyapi.FetchBatched(ctx, keptIDs, spotifyapi.MaxTrackIDs, ErrTrackNotFound, e.src.Tracks)

	for _, item := range kept {
		artist := item.Track.FirstArtist()

		g := genres.Get(artist.ID)
		e.logGenreFailure(artist.ID, g)

		d := details[item.Track.ID]
		if d.Value == nil {
			e.log.WithField("track_id", item.Track.ID).WithError(d.Err).
				Warn("Track details unavailable, popularity and release date left empty")
		}

		event := assemblePlayEvent(item, *features[item.Track.ID].Value, g.Or(genre.RecentSentinel), d.Value)
		result.Events = append(result.Events, event)
	}

	return result
}

// assemblePlayEvent combines a play with its features, genre and optional full track details.
func assemblePlayEvent(item spotifyapi.PlayedTrack, f spotifyapi.AudioFeatures, genreName string, detail *spotifyapi.Track) PlayEvent {
	track := item.Track

	event := PlayEvent{
		PlayedAt:     item.PlayedAt.UTC().Format(time.RFC3339Nano),
		TrackName:    track.Name,
		Artist:       track.FirstArtist().Name,
		ID:           track.ID,
		Popularity:   track.Popularity,
		DurationMs:   nonNegative(track.DurationMs),
		Genre:        genreName,
		Danceability: f.Danceability,
		Energy:       f.Energy,
		Valence:      f.Valence,
		Tempo:        f.Tempo,
		Acousticness: f.Acousticness,
		Speechiness:  f.Speechiness,
		Loudness:     f.Loudness,
		ReleaseDate:  track.ReleaseDate,
	}

	if detail != nil {
		event.Popularity = detail.Popularity
		event.ReleaseDate = detail.ReleaseDate
	}
	event.ReleaseYear = ReleaseYear(event.ReleaseDate)

	return event
}
