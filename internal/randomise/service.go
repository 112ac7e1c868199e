// Package randomise rewrites a target playlist with a shuffled copy of a
// source collection.
package randomise

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/justestif/go-spotify-randomiser/internal/gate"
	"github.com/justestif/go-spotify-randomiser/internal/ordering"
	"github.com/justestif/go-spotify-randomiser/internal/shared"
	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

// ErrNoTarget is returned when a request has no target playlist.
var ErrNoTarget = errors.New("no target playlist")

// Catalog reads track collections from the remote catalog.
type Catalog interface {
	FetchIDs(ctx context.Context, src spotify.Source) ([]string, error)
	PlaylistName(ctx context.Context, playlistID string) (string, error)
}

// Writer clears and fills playlists window by window. Each paces other
// windowed mutations the same way.
// *batch.Writer implements it.
type Writer interface {
	Clear(ctx context.Context, playlistID string, current []string) error
	Append(ctx context.Context, playlistID string, ids []string) error
	Each(ctx context.Context, ids []string, size int, fn func(ctx context.Context, window []string) error) (int, error)
}

// LibraryRemover removes tracks from the saved tracks, one window per call.
type LibraryRemover interface {
	RemoveSavedTracks(ctx context.Context, trackIDs []string) error
}

// Service runs randomise and prune invocations.
type Service struct {
	catalog  Catalog
	writer   Writer
	library  LibraryRemover
	console  gate.Console
	gateOpts []gate.Option
	rng      *rand.Rand
	log      *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// WithGateOptions configures the confirmation gate built for each run.
func WithGateOptions(opts ...gate.Option) Option {
	return func(s *Service) {
		s.gateOpts = append(s.gateOpts, opts...)
	}
}

// WithLibrary enables PruneLiked.
func WithLibrary(l LibraryRemover) Option {
	return func(s *Service) {
		s.library = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.log = shared.OrDiscard(l)
	}
}

// New creates a new randomise service.
func New(catalog Catalog, writer Writer, console gate.Console, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		writer:  writer,
		console: console,
		log:     shared.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request describes one randomise invocation.
type Request struct {
	Source    spotify.Source
	Target    string   // playlist id
	Exclude   []string // playlist ids whose tracks are filtered out
	Include   []string // track ids placed first, in order
	MaxTracks int      // 0 means no limit
}

// Result summarises a completed invocation.
type Result struct {
	TargetName string
	Fetched    int      // tracks read from the source
	Excluded   int      // source tracks dropped by exclusion playlists
	Cleared    int      // tracks that were in the target before the run
	Written    []string // final target order
}

// Run fetches the source, shuffles it, applies exclusions, asks for
// confirmation if the target is not empty, clears the target and writes the
// composed sequence.
//
// Remote calls are strictly sequential. A failure while clearing or writing
// leaves the target partly mutated.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Target == "" {
		return nil, ErrNoTarget
	}
	logger := s.log.With("source", req.Source.String(), "target", req.Target)

	ids, err := s.catalog.FetchIDs(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("fetching source: %w", err)
	}
	result := &Result{Fetched: len(ids)}
	logger.Info("Fetched source", "tracks", len(ids))

	ordering.Shuffle(ids, s.rng)

	if len(req.Exclude) > 0 {
		exclusions := make([][]string, 0, len(req.Exclude))
		for _, id := range req.Exclude {
			excluded, err := s.catalog.FetchIDs(ctx, spotify.Playlist(id))
			if err != nil {
				return nil, fmt.Errorf("fetching exclusion playlist %s: %w", id, err)
			}
			exclusions = append(exclusions, excluded)
		}
		before := len(ids)
		ids = ordering.Exclude(ids, exclusions...)
		result.Excluded = before - len(ids)
		logger.Info("Applied exclusions", "playlists", len(req.Exclude), "removed", result.Excluded)
	}

	compose := func() []string {
		return ordering.Compose(ids, nil, req.Include, req.MaxTracks)
	}
	if err := s.replace(ctx, req.Target, compose, result); err != nil {
		return nil, err
	}
	logger.Info("Wrote target", "tracks", len(result.Written))

	return result, nil
}

// Replace overwrites the target with ids, in order, behind the same
// confirmation gate as Run. The ids are written as given.
func (s *Service) Replace(ctx context.Context, target string, ids []string) (*Result, error) {
	if target == "" {
		return nil, ErrNoTarget
	}
	result := &Result{Fetched: len(ids)}
	if err := s.replace(ctx, target, func() []string { return ids }, result); err != nil {
		return nil, err
	}
	return result, nil
}

// replace fetches the target, runs the gate, clears the target and appends
// the sequence built by compose.
func (s *Service) replace(ctx context.Context, target string, compose func() []string, result *Result) error {
	current, err := s.catalog.FetchIDs(ctx, spotify.Playlist(target))
	if err != nil {
		return fmt.Errorf("fetching target: %w", err)
	}
	result.Cleared = len(current)

	if err := s.confirm(ctx, target, current, result); err != nil {
		return err
	}

	if err := s.writer.Clear(ctx, target, current); err != nil {
		return fmt.Errorf("clearing target: %w", err)
	}

	final := compose()
	if err := s.writer.Append(ctx, target, final); err != nil {
		return fmt.Errorf("writing target: %w", err)
	}
	result.Written = final
	return nil
}

// confirm runs a fresh gate for the target. The display name is only looked
// up when the operator has to be asked.
func (s *Service) confirm(ctx context.Context, target string, current []string, result *Result) error {
	g := s.newGate()
	if len(current) == 0 {
		return g.Check(ctx, target, 0)
	}

	name, err := s.catalog.PlaylistName(ctx, target)
	if err != nil {
		return fmt.Errorf("fetching target name: %w", err)
	}
	result.TargetName = name
	return g.Check(ctx, name, len(current))
}

func (s *Service) newGate(opts ...gate.Option) *gate.Gate {
	all := append([]gate.Option{gate.WithLogger(s.log)}, s.gateOpts...)
	return gate.New(s.console, append(all, opts...)...)
}
