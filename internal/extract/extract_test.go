package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-spotify-listening-stats/internal/genre"
	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

// mockSource implements Source for testing.
type mockSource struct {
	recent  []spotifyapi.PlayedTrack
	top     []spotifyapi.Track
	tracks  map[string]spotifyapi.Track
	feats   map[string]spotifyapi.AudioFeatures
	genres  map[string][]string
	listErr error

	// failFeatures fails any feature batch containing one of these ids
	failFeatures map[string]error
	// failArtists fails any artist batch containing one of these ids
	failArtists map[string]error
	tracksErr   error
	artistsErr  error

	featureCalls [][]string
	artistCalls  [][]string
	trackCalls   [][]string
}

func (m *mockSource) RecentlyPlayed(_ context.Context, limit int) ([]spotifyapi.PlayedTrack, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.recent[:min(limit, len(m.recent))], nil
}

func (m *mockSource) TopTracks(_ context.Context, limit int, _ string) ([]spotifyapi.Track, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.top[:min(limit, len(m.top))], nil
}

func (m *mockSource) Tracks(_ context.Context, ids []string) ([]*spotifyapi.Track, error) {
	m.trackCalls = append(m.trackCalls, ids)
	if m.tracksErr != nil {
		return nil, m.tracksErr
	}
	out := make([]*spotifyapi.Track, len(ids))
	for i, id := range ids {
		if t, ok := m.tracks[id]; ok {
			out[i] = &t
		}
	}
	return out, nil
}

func (m *mockSource) AudioFeatures(_ context.Context, ids []string) ([]*spotifyapi.AudioFeatures, error) {
	m.featureCalls = append(m.featureCalls, ids)
	for _, id := range ids {
		if err, ok := m.failFeatures[id]; ok {
			return nil, err
		}
	}
	out := make([]*spotifyapi.AudioFeatures, len(ids))
	for i, id := range ids {
		if f, ok := m.feats[id]; ok {
			out[i] = &f
		}
	}
	return out, nil
}

func (m *mockSource) Artists(_ context.Context, ids []string) ([]*spotifyapi.ArtistProfile, error) {
	m.artistCalls = append(m.artistCalls, ids)
	if m.artistsErr != nil {
		return nil, m.artistsErr
	}
	for _, id := range ids {
		if err, ok := m.failArtists[id]; ok {
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

func newTestExtractor(src Source) (*Extractor, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return New(src, WithLogger(logrus.NewEntry(logger))), hook
}

func played(id, name, artistID, artistName string, at time.Time) spotifyapi.PlayedTrack {
	return spotifyapi.PlayedTrack{
		PlayedAt: at,
		Track: spotifyapi.Track{
			ID:         id,
			Name:       name,
			Artists:    []spotifyapi.Artist{{ID: artistID, Name: artistName}},
			DurationMs: 200000,
		},
	}
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2019-05-03", 2019},
		{"1987", 1987},
		{"2001-07", 2001},
		{"", 0},
		{"199", 199},
		{"abcd-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := ReleaseYear(tt.date); got != tt.want {
				t.Errorf("ReleaseYear(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestExtractRecent_SkipsTrackWithoutFeatures(t *testing.T) {
	at := time.Date(2024, 3, 11, 14, 30, 0, 0, time.UTC)
	src := &mockSource{
		recent: []spotifyapi.PlayedTrack{
			played("t1", "First", "a1", "Artist One", at),
			played("t2", "Second", "a2", "Artist Two", at.Add(time.Minute)),
		},
		tracks: map[string]spotifyapi.Track{
			"t1": {ID: "t1", Popularity: 71, ReleaseDate: "2019-05-03"},
		},
		feats: map[string]spotifyapi.AudioFeatures{
			"t1": {TrackID: "t1", Danceability: 0.5, Energy: 0.8, Valence: 0.3, Tempo: 120, Loudness: -6},
		},
		genres: map[string][]string{"a1": {"indie pop"}},
	}
	ex, hook := newTestExtractor(src)

	result, err := ex.FetchRecent(context.Background(), 50)
	if err != nil {
		t.Fatalf("FetchRecent() error = %v", err)
	}

	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}
	got := result.Events[0]
	want := PlayEvent{
		PlayedAt:     "2024-03-11T14:30:00Z",
		TrackName:    "First",
		Artist:       "Artist One",
		ID:           "t1",
		Popularity:   71,
		DurationMs:   200000,
		Genre:        "indie pop",
		Danceability: 0.5,
		Energy:       0.8,
		Valence:      0.3,
		Tempo:        120,
		Loudness:     -6,
		ReleaseDate:  "2019-05-03",
		ReleaseYear:  2019,
	}
	if got != want {
		t.Errorf("event = %+v\nwant    %+v", got, want)
	}

	if len(result.Skipped) != 1 || result.Skipped[0].TrackID != "t2" {
		t.Fatalf("Skipped = %+v, want t2", result.Skipped)
	}
	if !errors.Is(result.Skipped[0].Reason, ErrNoAudioFeatures) {
		t.Errorf("Reason = %v, want ErrNoAudioFeatures", result.Skipped[0].Reason)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["track_id"] == "t2" && e.Data["track_name"] == "Second" {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning naming the skipped track")
	}

	// the skipped track costs no artist or detail lookups
	for _, call := range src.artistCalls {
		for _, id := range call {
			if id == "a2" {
				t.Error("artist of skipped track was looked up")
			}
		}
	}
}

func TestExtractRecent_FeatureFailureOnlySkipsOffendingTrack(t *testing.T) {
	invalid := spotify.Error{Status: 400, Message: "invalid id"}
	at := time.Now()
	src := &mockSource{
		recent: []spotifyapi.PlayedTrack{
			played("t1", "One", "a1", "A", at),
			played("bad", "Broken", "a2", "B", at),
		},
		feats:        map[string]spotifyapi.AudioFeatures{"t1": {Energy: 0.4}, "bad": {}},
		failFeatures: map[string]error{"bad": invalid},
		genres:       map[string][]string{"a1": {"rock"}},
	}
	ex, _ := newTestExtractor(src)

	result := ex.ExtractRecent(context.Background(), src.recent)

	if len(result.Events) != 1 || result.Events[0].ID != "t1" {
		t.Fatalf("Events = %+v, want only t1", result.Events)
	}
	if result.Events[0].Genre != "rock" || result.Events[0].Energy != 0.4 {
		t.Errorf("t1 = %+v, want its genre and features", result.Events[0])
	}
	if len(result.Skipped) != 1 || result.Skipped[0].TrackID != "bad" {
		t.Fatalf("Skipped = %+v, want only bad", result.Skipped)
	}
	if !errors.Is(result.Skipped[0].Reason, invalid) {
		t.Errorf("Reason = %v, want the request error", result.Skipped[0].Reason)
	}
}

func TestExtractRecent_TransientFeatureFailureSkipsBatch(t *testing.T) {
	down := spotify.Error{Status: 503, Message: "unavailable"}
	at := time.Now()
	src := &mockSource{
		recent: []spotifyapi.PlayedTrack{
			played("t1", "One", "a1", "A", at),
			played("t2", "Two", "a1", "A", at),
		},
		feats:        map[string]spotifyapi.AudioFeatures{"t1": {}, "t2": {}},
		failFeatures: map[string]error{"t1": down},
	}
	ex, _ := newTestExtractor(src)

	result := ex.ExtractRecent(context.Background(), src.recent)

	if len(result.Events) != 0 || len(result.Skipped) != 2 {
		t.Fatalf("got %d events and %d skipped, want 0 and 2", len(result.Events), len(result.Skipped))
	}
	if len(src.featureCalls) != 1 {
		t.Errorf("made %d feature requests, want 1", len(src.featureCalls))
	}
	if len(src.artistCalls) != 0 {
		t.Errorf("made %d artist requests, want 0", len(src.artistCalls))
	}
}

func TestExtractRecent_GenreAndDetailFallbacks(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &mockSource{
		recent: []spotifyapi.PlayedTrack{
			played("t1", "One", "a1", "A", at),
			played("t1", "One", "a1", "A", at.Add(time.Hour)),
			played("t2", "Two", "a2", "B", at.Add(2*time.Hour)),
		},
		feats: map[string]spotifyapi.AudioFeatures{"t1": {}, "t2": {}},
		genres: map[string][]string{
			"a1": {},
		},
		tracksErr: errors.New("tracks down"),
	}
	ex, _ := newTestExtractor(src)

	result := ex.ExtractRecent(context.Background(), src.recent)

	if len(result.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(result.Events))
	}
	for _, e := range result.Events {
		if e.Genre != genre.RecentSentinel {
			t.Errorf("%s genre = %q, want %q", e.ID, e.Genre, genre.RecentSentinel)
		}
		if e.Popularity != 0 || e.ReleaseDate != "" || e.ReleaseYear != 0 {
			t.Errorf("%s details = %d/%q/%d, want empty", e.ID, e.Popularity, e.ReleaseDate, e.ReleaseYear)
		}
	}
	if result.Events[0].PlayedAt == result.Events[1].PlayedAt {
		t.Error("repeated plays should keep distinct timestamps")
	}

	// repeated tracks and artists are looked up once
	if len(src.featureCalls) != 1 || len(src.featureCalls[0]) != 2 {
		t.Errorf("feature calls = %v, want one call with 2 ids", src.featureCalls)
	}
	if len(src.artistCalls) != 1 || len(src.artistCalls[0]) != 2 {
		t.Errorf("artist calls = %v, want one call with 2 ids", src.artistCalls)
	}
}

func TestExtractRecent_Empty(t *testing.T) {
	src := &mockSource{}
	ex, _ := newTestExtractor(src)

	result := ex.ExtractRecent(context.Background(), nil)

	if len(result.Events) != 0 || len(result.Skipped) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
	if len(src.featureCalls) != 0 {
		t.Error("no requests expected for empty input")
	}
}

func TestFetchRecent_ListError(t *testing.T) {
	boom := errors.New("history unavailable")
	ex, _ := newTestExtractor(&mockSource{listErr: boom})

	if _, err := ex.FetchRecent(context.Background(), 50); !errors.Is(err, boom) {
		t.Errorf("FetchRecent() error = %v, want boom", err)
	}
}

func TestExtractTop(t *testing.T) {
	src := &mockSource{
		top: []spotifyapi.Track{
			{
				ID: "t1", Name: "Hit", Popularity: 88, DurationMs: 180000, ReleaseDate: "2021-06-01",
				Artists: []spotifyapi.Artist{{ID: "a1", Name: "Star"}, {ID: "a9", Name: "Feature"}},
			},
			{ID: "t2", Name: "Deep Cut", DurationMs: -5, Artists: []spotifyapi.Artist{{ID: "a2", Name: "Nobody"}}},
			{ID: "t3", Name: "Orphan"},
		},
		genres: map[string][]string{"a1": {"pop", "dance pop"}},
	}
	ex, _ := newTestExtractor(src)

	got, err := ex.FetchTop(context.Background(), 50, "medium_term")
	if err != nil {
		t.Fatalf("FetchTop() error = %v", err)
	}

	want := []TopTrack{
		{TrackName: "Hit", ArtistName: "Star", ArtistID: "a1", TrackID: "t1", Popularity: 88, DurationMs: 180000, ReleaseDate: "2021-06-01", ReleaseYear: 2021, Genre: "pop"},
		{TrackName: "Deep Cut", ArtistName: "Nobody", ArtistID: "a2", TrackID: "t2", Genre: genre.TopSentinel},
		{TrackName: "Orphan", TrackID: "t3", Genre: genre.TopSentinel},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v\nwant       %+v", i, got[i], want[i])
		}
	}
}

func TestExtractTop_ArtistFailureKeepsTracks(t *testing.T) {
	src := &mockSource{
		top: []spotifyapi.Track{
			{ID: "t1", Name: "One", Artists: []spotifyapi.Artist{{ID: "a1"}}},
			{ID: "t2", Name: "Two", Artists: []spotifyapi.Artist{{ID: "a2"}}},
		},
		artistsErr: errors.New("artists down"),
	}
	ex, hook := newTestExtractor(src)

	got := ex.ExtractTop(context.Background(), src.top)

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.Genre != genre.TopSentinel {
			t.Errorf("%s genre = %q, want %q", r.TrackID, r.Genre, genre.TopSentinel)
		}
	}

	var logged int
	for _, e := range hook.AllEntries() {
		if _, ok := e.Data["transient"]; ok {
			logged++
		}
	}
	if logged != 2 {
		t.Errorf("got %d genre failure logs, want 2", logged)
	}
}

func TestExtractTop_ArtistFailureOnlyAffectsOffendingArtist(t *testing.T) {
	src := &mockSource{
		top: []spotifyapi.Track{
			{ID: "t1", Name: "One", Artists: []spotifyapi.Artist{{ID: "a1"}}},
			{ID: "t2", Name: "Two", Artists: []spotifyapi.Artist{{ID: "abad"}}},
		},
		genres:      map[string][]string{"a1": {"rock"}, "abad": {"jazz"}},
		failArtists: map[string]error{"abad": spotify.Error{Status: 400, Message: "invalid id"}},
	}
	ex, hook := newTestExtractor(src)

	got := ex.ExtractTop(context.Background(), src.top)

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Genre != "rock" {
		t.Errorf("t1 genre = %q, want rock", got[0].Genre)
	}
	if got[1].Genre != genre.TopSentinel {
		t.Errorf("t2 genre = %q, want %q", got[1].Genre, genre.TopSentinel)
	}

	var failed []any
	for _, e := range hook.AllEntries() {
		if _, ok := e.Data["transient"]; ok {
			failed = append(failed, e.Data["artist_id"])
		}
	}
	if len(failed) != 1 || failed[0] != "abad" {
		t.Errorf("genre failure logs for %v, want [abad]", failed)
	}
}
