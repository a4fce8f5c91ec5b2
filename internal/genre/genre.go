// Package genre resolves an artist's primary genre with batched lookups and typed results.
package genre

import (
	"errors"

	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

// Sentinels written in place of a genre when none is known. The two datasets have always
// used different values and existing files depend on them.
const (
	RecentSentinel = "unknown genre"
	TopSentinel    = "unknown"
)

// ErrArtistNotFound is recorded when a lookup succeeds but returns no artist for an id.
var ErrArtistNotFound = errors.New("artist not found")

// Status describes the outcome of a single artist lookup.
type Status int

const (
	// Found means the artist has at least one genre.
	Found Status = iota
	// NoGenres means the artist exists but lists no genres.
	NoGenres
	// Failed means the lookup itself failed; see Result.Err.
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NoGenres:
		return "no_genres"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of resolving one artist.
type Result struct {
	Genre  string // Primary genre, set only when Status is Found
	Status Status
	Err    error // Set only when Status is Failed
}

// Or returns the primary genre, or sentinel when none was found.
func (r Result) Or(sentinel string) string {
	if r.Status == Found {
		return r.Genre
	}
	return sentinel
}

// Transient reports whether a failed lookup is worth retrying later:
// network errors, rate limiting and server-side errors.
func (r Result) Transient() bool {
	return r.Status == Failed && spotifyapi.IsTransient(r.Err)
}

// fromProfile derives a Result from a looked-up artist.
func fromProfile(p *spotifyapi.ArtistProfile) Result {
	if p == nil {
		return Result{Status: Failed, Err: ErrArtistNotFound}
	}
	if len(p.Genres) == 0 || p.Genres[0] == "" {
		return Result{Status: NoGenres}
	}
	return Result{Genre: p.Genres[0], Status: Found}
}
