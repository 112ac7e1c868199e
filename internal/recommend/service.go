// Package recommend asks the catalog for tracks related to a source
// collection, seeding the request with tracks of different moods.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/justestif/go-spotify-randomiser/internal/ordering"
	"github.com/justestif/go-spotify-randomiser/internal/shared"
	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

const (
	// PoolSize is the number of shuffled source tracks seeds are chosen from.
	PoolSize = 100

	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrEmptySource is returned when the source has no tracks to seed from.
var ErrEmptySource = errors.New("source has no tracks")

// Catalog is the subset of the catalog client used for recommendations.
type Catalog interface {
	FetchIDs(ctx context.Context, src spotify.Source) ([]string, error)
	AudioFeatures(ctx context.Context, trackIDs []string) ([]spotify.Features, error)
	Recommendations(ctx context.Context, seedIDs []string, limit int) ([]spotify.Suggestion, error)
}

// Service fetches recommendations.
type Service struct {
	catalog Catalog
	rng     *rand.Rand
	log     *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source used for the pool and seed fill.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.log = shared.OrDiscard(l)
	}
}

// New creates a new recommendation service.
func New(catalog Catalog, opts ...Option) *Service {
	s := &Service{catalog: catalog, log: shared.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request describes a recommendation query.
type Request struct {
	Source spotify.Source
	Seeds  int // 1..spotify.MaxSeeds; other values mean MaxSeeds
	Limit  int // 1..MaxLimit; other values mean DefaultLimit
}

// Result holds the seeds used and the tracks returned.
type Result struct {
	Seeds       []Seed
	Suggestions []spotify.Suggestion
}

// SuggestionIDs returns the ids of the suggestions in order.
func (r *Result) SuggestionIDs() []string {
	ids := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		ids[i] = s.ID
	}
	return ids
}

// Recommend picks seeds from the source and returns related tracks.
// Missing audio features are not fatal: seeds are then picked at random.
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	numSeeds := req.Seeds
	if numSeeds <= 0 || numSeeds > spotify.MaxSeeds {
		numSeeds = spotify.MaxSeeds
	}
	limit := req.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	ids, err := s.catalog.FetchIDs(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("fetching source: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", req.Source, ErrEmptySource)
	}

	ordering.Shuffle(ids, s.rng)
	pool := ordering.Truncate(ordering.Prepend(nil, ids), PoolSize)

	features, err := s.catalog.AudioFeatures(ctx, pool)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.log.Warn("Audio features unavailable, picking seeds at random", "err", err)
		features = nil
	}

	seeds := PickSeeds(pool, features, numSeeds, s.rng)
	seedIDs := make([]string, len(seeds))
	for i, seed := range seeds {
		seedIDs[i] = seed.ID
		s.log.Debug("Seed", "id", seed.ID, "mood", seed.Mood)
	}

	suggestions, err := s.catalog.Recommendations(ctx, seedIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching recommendations: %w", err)
	}
	s.log.Info("Fetched recommendations", "seeds", len(seeds), "tracks", len(suggestions))

	return &Result{Seeds: seeds, Suggestions: suggestions}, nil
}
