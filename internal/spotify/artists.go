package spotify

import (
	"context"
	"fmt"
)

// Artists looks up artists in one request (at most MaxArtistIDs ids).
// The result is aligned with ids; unknown ids yield nil entries.
func (c *Client) Artists(ctx context.Context, ids []string) ([]*ArtistProfile, error) {
	spotifyIDs, err := toIDs(ids, MaxArtistIDs)
	if err != nil {
		return nil, err
	}
	if len(spotifyIDs) == 0 {
		return nil, nil
	}

	full, err := c.api.GetArtists(ctx, spotifyIDs...)
	if err != nil {
		return nil, fmt.Errorf("fetching artists: %w", err)
	}

	profiles := make([]*ArtistProfile, len(full))
	for i, a := range full {
		if a == nil {
			continue
		}
		profiles[i] = &ArtistProfile{
			ID:     a.ID.String(),
			Name:   a.Name,
			Genres: a.Genres,
		}
	}
	return profiles, nil
}
