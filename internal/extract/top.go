package extract

import (
	"context"
	"fmt"

	"github.com/justestif/go-spotify-listening-stats/internal/genre"
	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

// FetchTop fetches up to limit top tracks for timeRange and extracts them.
func (e *Extractor) FetchTop(ctx context.Context, limit int, timeRange string) ([]TopTrack, error) {
	tracks, err := e.src.TopTracks(ctx, limit, timeRange)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}
	return e.ExtractTop(ctx, tracks), nil
}

// ExtractTop builds exactly one TopTrack per input track, in input order.
// Genre lookup failures fall back to the sentinel and never drop a track.
func (e *Extractor) ExtractTop(ctx context.Context, tracks []spotifyapi.Track) []TopTrack {
	out := make([]TopTrack, 0, len(tracks))
	if len(tracks) == 0 {
		return out
	}

	artistIDs := make([]string, len(tracks))
	for i, t := range tracks {
		artistIDs[i] = t.FirstArtist().ID
	}
	genres := e.genres.Resolve(ctx, artistIDs)

	for _, t := range tracks {
		artist := t.FirstArtist()

		g := genres.Get(artist.ID)
		e.logGenreFailure(artist.ID, g)

		out = append(out, TopTrack{
			TrackName:   t.Name,
			ArtistName:  artist.Name,
			ArtistID:    artist.ID,
			TrackID:     t.ID,
			Popularity:  t.Popularity,
			DurationMs:  nonNegative(t.DurationMs),
			ReleaseDate: t.ReleaseDate,
			ReleaseYear: ReleaseYear(t.ReleaseDate),
			Genre:       g.Or(genre.TopSentinel),
		})
	}

	return out
}
