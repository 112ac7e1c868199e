// Package batch writes identifier sequences to a playlist in fixed-size
// windows that respect the remote per-call item limit.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/justestif/go-spotify-randomiser/internal/shared"
)

// DefaultWindowSize is the remote per-call item limit for playlist mutations.
const DefaultWindowSize = 100

// Mutator issues one remote mutation per call.
// *spotify.Client implements it.
type Mutator interface {
	// RemovePlaylistItems removes every occurrence of each id.
	RemovePlaylistItems(ctx context.Context, playlistID string, ids []string) error
	// AddPlaylistItems appends ids in order.
	AddPlaylistItems(ctx context.Context, playlistID string, ids []string) error
}

// Writer clears and fills playlists window by window. Windows are sent
// serially; a failure aborts the operation without undoing the windows
// already applied.
type Writer struct {
	remote     Mutator
	windowSize int
	limiter    *rate.Limiter
	log        *log.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithWindowSize sets the number of ids per remote call.
// Values outside 1..DefaultWindowSize are ignored.
func WithWindowSize(n int) Option {
	return func(w *Writer) {
		if n > 0 && n <= DefaultWindowSize {
			w.windowSize = n
		}
	}
}

// WithRate limits the writer to perSecond remote calls per second.
// Zero or less means unlimited.
func WithRate(perSecond float64) Option {
	return func(w *Writer) {
		if perSecond > 0 {
			w.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger used for per-window progress.
func WithLogger(l *log.Logger) Option {
	return func(w *Writer) {
		w.log = shared.OrDiscard(l)
	}
}

// New creates a Writer for the given remote.
func New(remote Mutator, opts ...Option) *Writer {
	w := &Writer{
		remote:     remote,
		windowSize: DefaultWindowSize,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		log:        shared.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Clear removes every occurrence of the current ids from the playlist.
func (w *Writer) Clear(ctx context.Context, playlistID string, current []string) error {
	n, err := w.Each(ctx, current, w.windowSize, func(ctx context.Context, window []string) error {
		return w.remote.RemovePlaylistItems(ctx, playlistID, window)
	})
	if err != nil {
		return fmt.Errorf("clearing playlist %s (%d windows applied): %w", playlistID, n, err)
	}
	w.log.Info("Cleared target playlist", "playlist", playlistID, "tracks", len(current), "calls", n)
	return nil
}

// Append adds ids to the end of the playlist so that the resulting order
// equals the order of ids.
func (w *Writer) Append(ctx context.Context, playlistID string, ids []string) error {
	n, err := w.Each(ctx, ids, w.windowSize, func(ctx context.Context, window []string) error {
		return w.remote.AddPlaylistItems(ctx, playlistID, window)
	})
	if err != nil {
		return fmt.Errorf("adding to playlist %s (%d windows applied): %w", playlistID, n, err)
	}
	w.log.Info("Added tracks to target playlist", "playlist", playlistID, "tracks", len(ids), "calls", n)
	return nil
}

// Each calls fn once per window of at most size ids, paced by the writer's
// rate limit, and returns the number of windows that succeeded. It stops at
// the first failure. Used directly for mutations other than playlist
// writes, such as removing saved tracks.
func (w *Writer) Each(ctx context.Context, ids []string, size int, fn func(ctx context.Context, window []string) error) (int, error) {
	applied := 0
	for _, window := range Windows(ids, size) {
		if err := w.limiter.Wait(ctx); err != nil {
			return applied, err
		}
		if err := fn(ctx, window); err != nil {
			return applied, err
		}
		applied++
		w.log.Debug("Window applied", "window", applied, "size", len(window))
	}
	return applied, nil
}

// Windows splits ids into consecutive windows of at most size entries.
// Concatenating the windows yields ids again.
func Windows(ids []string, size int) [][]string {
	if size <= 0 {
		panic(errors.New("batch: window size must be positive"))
	}
	windows := make([][]string, 0, (len(ids)+size-1)/size)
	for i := 0; i < len(ids); i += size {
		end := min(i+size, len(ids))
		windows = append(windows, ids[i:end])
	}
	return windows
}
