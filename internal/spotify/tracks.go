package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// RecentlyPlayed returns up to limit of the user's most recent plays, newest first.
// History items only carry simplified tracks, so Popularity and ReleaseDate are left empty.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayedTrack, error) {
	items, err := c.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: spotify.Numeric(limit)})
	if err != nil {
		return nil, fmt.Errorf("fetching recently played: %w", err)
	}

	played := make([]PlayedTrack, len(items))
	for i, item := range items {
		played[i] = PlayedTrack{
			PlayedAt: item.PlayedAt,
			Track:    convertSimpleTrack(item.Track),
		}
	}
	return played, nil
}

// TopTracks returns up to limit of the user's top tracks for the given time range
// ("short_term", "medium_term" or "long_term").
func (c *Client) TopTracks(ctx context.Context, limit int, timeRange string) ([]Track, error) {
	page, err := c.api.CurrentUsersTopTracks(ctx,
		spotify.Limit(limit),
		spotify.Timerange(spotify.Range(timeRange)),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}

	tracks := make([]Track, len(page.Tracks))
	for i, t := range page.Tracks {
		tracks[i] = convertFullTrack(t)
	}
	return tracks, nil
}

// Tracks looks up full track objects in one request (at most MaxTrackIDs ids).
// The result is aligned with ids; unknown ids yield nil entries.
func (c *Client) Tracks(ctx context.Context, ids []string) ([]*Track, error) {
	spotifyIDs, err := toIDs(ids, MaxTrackIDs)
	if err != nil {
		return nil, err
	}
	if len(spotifyIDs) == 0 {
		return nil, nil
	}

	full, err := c.api.GetTracks(ctx, spotifyIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching tracks: %w", err)
	}

	tracks := make([]*Track, len(full))
	for i, t := range full {
		if t == nil {
			continue
		}
		track := convertFullTrack(*t)
		tracks[i] = &track
	}
	return tracks, nil
}

// convertSimpleTrack converts a Spotify SimpleTrack.
func convertSimpleTrack(t spotify.SimpleTrack) Track {
	artists := make([]Artist, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = Artist{ID: a.ID.String(), Name: a.Name}
	}

	return Track{
		ID:         t.ID.String(),
		Name:       t.Name,
		Artists:    artists,
		DurationMs: int(t.Duration),
	}
}

// convertFullTrack converts a Spotify FullTrack, including album release date and popularity.
func convertFullTrack(t spotify.FullTrack) Track {
	track := convertSimpleTrack(t.SimpleTrack)
	track.Popularity = int(t.Popularity)
	track.ReleaseDate = t.Album.ReleaseDate
	return track
}
