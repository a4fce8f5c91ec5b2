package genre

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/zmb3/spotify/v2"

	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

// mockArtists implements ArtistSource for testing.
type mockArtists struct {
	// genres maps artist id to its genre list; absent ids come back as nil entries
	genres map[string][]string
	// fail fails any request containing one of its ids with the mapped error
	fail map[string]error
	// calls records each requested batch
	calls [][]string
}

func (m *mockArtists) Artists(_ context.Context, ids []string) ([]*spotifyapi.ArtistProfile, error) {
	m.calls = append(m.calls, append([]string(nil), ids...))

	for _, id := range ids {
		if err, ok := m.fail[id]; ok {
			return nil, err
		}
	}

	out := make([]*spotifyapi.ArtistProfile, len(ids))
	for i, id := range ids {
		if g, ok := m.genres[id]; ok {
			out[i] = &spotifyapi.ArtistProfile{ID: id, Genres: g}
		}
	}
	return out, nil
}

func TestResolve_Outcomes(t *testing.T) {
	src := &mockArtists{
		genres: map[string][]string{
			"a1": {"indie pop", "bedroom pop"},
			"a2": {},
			"a3": {""},
		},
	}

	lookup := NewResolver(src).Resolve(context.Background(), []string{"a1", "a2", "a3", "a4"})

	tests := []struct {
		id         string
		wantStatus Status
		wantRecent string
		wantTop    string
	}{
		{"a1", Found, "indie pop", "indie pop"},
		{"a2", NoGenres, RecentSentinel, TopSentinel},
		{"a3", NoGenres, RecentSentinel, TopSentinel},
		{"a4", Failed, RecentSentinel, TopSentinel},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := lookup.Get(tt.id)
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", got.Status, tt.wantStatus)
			}
			if g := got.Or(RecentSentinel); g != tt.wantRecent {
				t.Errorf("Or(recent) = %q, want %q", g, tt.wantRecent)
			}
			if g := got.Or(TopSentinel); g != tt.wantTop {
				t.Errorf("Or(top) = %q, want %q", g, tt.wantTop)
			}
		})
	}

	if !errors.Is(lookup.Get("a4").Err, ErrArtistNotFound) {
		t.Errorf("a4 Err = %v, want ErrArtistNotFound", lookup.Get("a4").Err)
	}
}

func TestResolve_DeduplicatesAndBatches(t *testing.T) {
	genres := make(map[string][]string)
	var ids []string
	for i := 0; i < 120; i++ {
		id := fmt.Sprintf("artist-%03d", i)
		genres[id] = []string{"rock"}
		ids = append(ids, id, id) // every artist appears twice
	}
	ids = append(ids, "", "")

	src := &mockArtists{genres: genres}
	lookup := NewResolver(src).Resolve(context.Background(), ids)

	// 120 distinct artists in batches of 50
	if len(src.calls) != 3 {
		t.Fatalf("got %d requests, want 3", len(src.calls))
	}
	wantSizes := []int{50, 50, 20}
	for i, call := range src.calls {
		if len(call) != wantSizes[i] {
			t.Errorf("batch %d size = %d, want %d", i, len(call), wantSizes[i])
		}
	}
	if len(lookup) != 120 {
		t.Errorf("lookup has %d entries, want 120", len(lookup))
	}
	if lookup.Get("").Status != Failed {
		t.Error("empty id should not resolve")
	}
}

func TestResolve_BatchFailureIsolated(t *testing.T) {
	boom := spotify.Error{Status: 400, Message: "invalid id"}
	src := &mockArtists{
		genres: map[string][]string{"a1": {"jazz"}, "a2": {"jazz"}, "a3": {"folk"}},
		fail:   map[string]error{"a1": boom},
	}

	lookup := NewResolver(src).Resolve(context.Background(), []string{"a1", "a2", "a3"})

	if r := lookup.Get("a1"); r.Status != Failed || !errors.Is(r.Err, boom) {
		t.Errorf("a1 = %+v, want Failed with the request error", r)
	}
	for id, want := range map[string]string{"a2": "jazz", "a3": "folk"} {
		if got := lookup.Get(id).Or(TopSentinel); got != want {
			t.Errorf("%s genre = %q, want %q", id, got, want)
		}
	}
}

func TestResolve_TransientFailureNotSplit(t *testing.T) {
	down := spotify.Error{Status: 503, Message: "unavailable"}
	src := &mockArtists{
		genres: map[string][]string{"a1": {"jazz"}, "a2": {"jazz"}},
		fail:   map[string]error{"a1": down},
	}

	lookup := NewResolver(src).Resolve(context.Background(), []string{"a1", "a2"})

	if len(src.calls) != 1 {
		t.Errorf("made %d requests, want 1", len(src.calls))
	}
	for _, id := range []string{"a1", "a2"} {
		if r := lookup.Get(id); !r.Transient() {
			t.Errorf("%s = %+v, want a transient failure", id, r)
		}
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	src := &mockArtists{genres: map[string][]string{"a1": {"jazz"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookup := NewResolver(src).Resolve(ctx, []string{"a1"})

	if len(src.calls) != 0 {
		t.Errorf("made %d requests after cancel, want 0", len(src.calls))
	}
	if r := lookup.Get("a1"); !errors.Is(r.Err, context.Canceled) {
		t.Errorf("a1 Err = %v, want context.Canceled", r.Err)
	}
}

func TestResult_Transient(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{"found", Result{Status: Found, Genre: "rock"}, false},
		{"no genres", Result{Status: NoGenres}, false},
		{"not found", Result{Status: Failed, Err: ErrArtistNotFound}, false},
		{"rate limited", Result{Status: Failed, Err: fmt.Errorf("fetching artists: %w", spotify.Error{Status: 429})}, true},
		{"server error", Result{Status: Failed, Err: spotify.Error{Status: 502}}, true},
		{"bad request", Result{Status: Failed, Err: spotify.Error{Status: 400}}, false},
		{"network", Result{Status: Failed, Err: &net.OpError{Op: "dial", Err: errors.New("refused")}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Transient(); got != tt.want {
				t.Errorf("Transient() = %v, want %v", got, tt.want)
			}
		})
	}
}
