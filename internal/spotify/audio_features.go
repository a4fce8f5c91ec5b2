package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// AudioFeatures retrieves audio features in one request (at most MaxAudioFeatureIDs ids).
// The result is aligned with ids; tracks without available features yield nil entries.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*AudioFeatures, error) {
	spotifyIDs, err := toIDs(ids, MaxAudioFeatureIDs)
	if err != nil {
		return nil, err
	}
	if len(spotifyIDs) == 0 {
		return nil, nil
	}

	features, err := c.api.GetAudioFeatures(ctx, spotifyIDs...)
	if err != nil {
		return nil, fmt.Errorf("fetching audio features: %w", err)
	}

	out := make([]*AudioFeatures, len(features))
	for i, f := range features {
		if f == nil {
			continue // Track has no audio features
		}
		out[i] = convertAudioFeatures(f)
	}
	return out, nil
}

// convertAudioFeatures copies the audio feature values the extractors persist.
func convertAudioFeatures(f *spotify.AudioFeatures) *AudioFeatures {
	return &AudioFeatures{
		TrackID:      f.ID.String(),
		Danceability: f.Danceability,
		Energy:       f.Energy,
		Valence:      f.Valence,
		Tempo:        f.Tempo,
		Acousticness: f.Acousticness,
		Speechiness:  f.Speechiness,
		Loudness:     f.Loudness,
	}
}
