package genre

import (
	"context"

	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

// ArtistSource abstracts the Spotify artist lookup for testing.
type ArtistSource interface {
	Artists(ctx context.Context, ids []string) ([]*spotifyapi.ArtistProfile, error)
}

// Lookup maps artist ids to their resolved genre.
type Lookup map[string]Result

// Get returns the result for id. Ids that were never resolved report ErrArtistNotFound.
func (l Lookup) Get(id string) Result {
	if r, ok := l[id]; ok {
		return r
	}
	return Result{Status: Failed, Err: ErrArtistNotFound}
}

// Resolver fetches artist genres in batches.
type Resolver struct {
	src       ArtistSource
	batchSize int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBatchSize sets the number of artists per request, capped at the API maximum.
func WithBatchSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 && n <= spotifyapi.MaxArtistIDs {
			r.batchSize = n
		}
	}
}

// NewResolver creates a Resolver backed by src.
func NewResolver(src ArtistSource, opts ...Option) *Resolver {
	r := &Resolver{
		src:       src,
		batchSize: spotifyapi.MaxArtistIDs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks up every distinct non-empty id once and returns the outcome per id.
// A failed request is split until the offending id is isolated, so only that id is
// marked Failed; it never aborts the remaining batches.
func (r *Resolver) Resolve(ctx context.Context, ids []string) Lookup {
	profiles := spotifyapi.FetchBatched(ctx, ids, r.batchSize, ErrArtistNotFound, r.src.Artists)

	lookup := make(Lookup, len(profiles))
	for id, p := range profiles {
		if p.Err != nil {
			lookup[id] = Result{Status: Failed, Err: p.Err}
			continue
		}
		lookup[id] = fromProfile(p.Value)
	}

	return lookup
}
