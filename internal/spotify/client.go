// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// Per-request id limits imposed by the Spotify Web API.
const (
	MaxTrackIDs        = 50
	MaxArtistIDs       = 50
	MaxAudioFeatureIDs = 100
)

// ErrTooManyIDs is returned when a lookup is called with more ids than one request allows.
var ErrTooManyIDs = errors.New("too many ids for a single request")

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// DisplayName returns the current user's display name, falling back to the user ID.
func (c *Client) DisplayName(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("getting current user: %w", err)
	}
	if user.DisplayName == "" {
		return user.ID, nil
	}
	return user.DisplayName, nil
}

// toIDs converts plain string ids and enforces the per-request limit.
func toIDs(ids []string, limit int) ([]spotify.ID, error) {
	if len(ids) > limit {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyIDs, len(ids), limit)
	}
	out := make([]spotify.ID, len(ids))
	for i, id := range ids {
		out[i] = spotify.ID(id)
	}
	return out, nil
}
