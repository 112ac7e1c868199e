package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/muesli/clusters"

	"github.com/justestif/go-spotify-randomiser/internal/ordering"
	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

type fakeCatalog struct {
	ids         []string
	features    []spotify.Features
	featuresErr error
	suggestions []spotify.Suggestion

	featureReq []string
	seedReq    []string
	limitReq   int
}

func (f *fakeCatalog) FetchIDs(context.Context, spotify.Source) ([]string, error) {
	return slices.Clone(f.ids), nil
}

func (f *fakeCatalog) AudioFeatures(_ context.Context, ids []string) ([]spotify.Features, error) {
	f.featureReq = ids
	return f.features, f.featuresErr
}

func (f *fakeCatalog) Recommendations(_ context.Context, seeds []string, limit int) ([]spotify.Suggestion, error) {
	f.seedReq = seeds
	f.limitReq = limit
	return f.suggestions, nil
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("T%03d", i)
	}
	return ids
}

// twoMoods returns features for two tight, well separated groups.
func twoMoods() []spotify.Features {
	return []spotify.Features{
		{ID: "party1", Energy: 0.90, Valence: 0.90, Danceability: 0.8, Acousticness: 0.1},
		{ID: "party2", Energy: 0.92, Valence: 0.88, Danceability: 0.8, Acousticness: 0.1},
		{ID: "party3", Energy: 0.88, Valence: 0.91, Danceability: 0.8, Acousticness: 0.1},
		{ID: "sad1", Energy: 0.10, Valence: 0.10, Danceability: 0.2, Acousticness: 0.9},
		{ID: "sad2", Energy: 0.12, Valence: 0.11, Danceability: 0.2, Acousticness: 0.9},
		{ID: "sad3", Energy: 0.11, Valence: 0.09, Danceability: 0.2, Acousticness: 0.9},
	}
}

func TestPickSeeds_OnePerMood(t *testing.T) {
	features := twoMoods()
	pool := make([]string, len(features))
	for i, f := range features {
		pool[i] = f.ID
	}

	seeds := PickSeeds(pool, features, 2, ordering.NewRand(1))
	if len(seeds) != 2 {
		t.Fatalf("PickSeeds() = %v, want 2 seeds", seeds)
	}

	moods := []string{seeds[0].Mood, seeds[1].Mood}
	slices.Sort(moods)
	want := []string{"Reflective & Melancholy (Acoustic)", "Upbeat Party"}
	if !slices.Equal(moods, want) {
		t.Errorf("moods = %v, want %v", moods, want)
	}
}

func TestPickSeeds_RandomFill(t *testing.T) {
	pool := makeIDs(10)

	seeds := PickSeeds(pool, nil, 5, ordering.NewRand(3))
	if len(seeds) != 5 {
		t.Fatalf("PickSeeds() returned %d seeds, want 5", len(seeds))
	}

	seen := make(map[string]bool)
	for _, s := range seeds {
		if !slices.Contains(pool, s.ID) {
			t.Errorf("seed %q not in pool", s.ID)
		}
		if seen[s.ID] {
			t.Errorf("duplicate seed %q", s.ID)
		}
		seen[s.ID] = true
		if s.Mood != "" {
			t.Errorf("random seed %q has mood %q", s.ID, s.Mood)
		}
	}
}

func TestPickSeeds_SmallPool(t *testing.T) {
	if got := PickSeeds([]string{"A", "B"}, nil, 5, nil); len(got) != 2 {
		t.Errorf("PickSeeds() = %v, want 2 seeds", got)
	}
	if got := PickSeeds(nil, nil, 5, nil); got != nil {
		t.Errorf("PickSeeds() = %v, want nil", got)
	}
}

func TestPickSeeds_IgnoresFeaturesOutsidePool(t *testing.T) {
	features := twoMoods()
	seeds := PickSeeds([]string{"X", "Y"}, features, 2, ordering.NewRand(5))
	for _, s := range seeds {
		if s.ID != "X" && s.ID != "Y" {
			t.Errorf("seed %q not in pool", s.ID)
		}
	}
}

func TestMoodName(t *testing.T) {
	tests := []struct {
		name   string
		center clusters.Coordinates
		want   string
	}{
		{"high energy high valence", clusters.Coordinates{0.8, 0.7, 0.6, 0.2}, "Upbeat Party"},
		{"high energy low valence", clusters.Coordinates{0.8, 0.3, 0.6, 0.2}, "Intense & Dark"},
		{"low energy high valence", clusters.Coordinates{0.4, 0.7, 0.5, 0.3}, "Chill & Happy"},
		{"low energy low valence", clusters.Coordinates{0.3, 0.3, 0.4, 0.4}, "Reflective & Melancholy"},
		{"acoustic modifier", clusters.Coordinates{0.4, 0.7, 0.5, 0.8}, "Chill & Happy (Acoustic)"},
		{"short center", clusters.Coordinates{0.4}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moodName(tt.center); got != tt.want {
				t.Errorf("moodName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	catalog := &fakeCatalog{
		ids:         makeIDs(150),
		suggestions: []spotify.Suggestion{{ID: "R1", Name: "One", Artist: "A"}},
	}
	svc := New(catalog, WithRand(ordering.NewRand(9)))

	result, err := svc.Recommend(context.Background(), Request{Source: spotify.Liked(), Seeds: 3, Limit: 10})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(catalog.featureReq) != PoolSize {
		t.Errorf("requested features for %d tracks, want %d", len(catalog.featureReq), PoolSize)
	}
	if len(catalog.seedReq) != 3 {
		t.Errorf("sent %d seeds, want 3", len(catalog.seedReq))
	}
	if catalog.limitReq != 10 {
		t.Errorf("limit = %d, want 10", catalog.limitReq)
	}
	if !slices.Equal(result.SuggestionIDs(), []string{"R1"}) {
		t.Errorf("SuggestionIDs() = %v", result.SuggestionIDs())
	}
}

func TestRecommend_Defaults(t *testing.T) {
	catalog := &fakeCatalog{ids: makeIDs(20)}
	svc := New(catalog)

	if _, err := svc.Recommend(context.Background(), Request{Source: spotify.Liked(), Seeds: 9, Limit: 500}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(catalog.seedReq) != spotify.MaxSeeds {
		t.Errorf("sent %d seeds, want %d", len(catalog.seedReq), spotify.MaxSeeds)
	}
	if catalog.limitReq != DefaultLimit {
		t.Errorf("limit = %d, want %d", catalog.limitReq, DefaultLimit)
	}
}

func TestRecommend_FeaturesUnavailable(t *testing.T) {
	catalog := &fakeCatalog{
		ids:         makeIDs(8),
		featuresErr: fmt.Errorf("fetching audio features: %w", spotify.ErrNotAuthorized),
	}
	svc := New(catalog, WithRand(ordering.NewRand(2)))

	result, err := svc.Recommend(context.Background(), Request{Source: spotify.Liked(), Seeds: 2})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(result.Seeds) != 2 {
		t.Errorf("got %d seeds, want 2", len(result.Seeds))
	}
}

func TestRecommend_EmptySource(t *testing.T) {
	svc := New(&fakeCatalog{})
	_, err := svc.Recommend(context.Background(), Request{Source: spotify.Liked()})
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("Recommend() error = %v, want ErrEmptySource", err)
	}
}
