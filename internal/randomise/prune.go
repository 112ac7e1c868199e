package randomise

import (
	"context"
	"errors"
	"fmt"

	"github.com/justestif/go-spotify-randomiser/internal/gate"
	"github.com/justestif/go-spotify-randomiser/internal/ordering"
	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

// ErrNoLibrary is returned by PruneLiked when the service has no
// LibraryRemover.
var ErrNoLibrary = errors.New("saved tracks cannot be modified")

const prunePrompt = "Tracks of %s found in your liked tracks: %d. Type %q to remove them from your liked tracks:"

// PruneResult summarises a PruneLiked invocation.
type PruneResult struct {
	PlaylistName string
	Removed      []string
}

// PruneLiked removes from the saved tracks every track that is also in the
// given playlist. The operator confirms through the same gate as Run.
func (s *Service) PruneLiked(ctx context.Context, playlistID string) (*PruneResult, error) {
	if s.library == nil {
		return nil, ErrNoLibrary
	}
	logger := s.log.With("playlist", playlistID)

	liked, err := s.catalog.FetchIDs(ctx, spotify.Liked())
	if err != nil {
		return nil, fmt.Errorf("fetching liked tracks: %w", err)
	}
	listed, err := s.catalog.FetchIDs(ctx, spotify.Playlist(playlistID))
	if err != nil {
		return nil, fmt.Errorf("fetching playlist: %w", err)
	}

	// Saved tracks that are not in the playlist are kept; the rest go.
	keep := ordering.Exclude(liked, listed)
	remove := ordering.Exclude(liked, keep)
	remove = ordering.Prepend(remove, nil)

	result := &PruneResult{}
	if len(remove) == 0 {
		logger.Info("Nothing to prune")
		return result, nil
	}

	name, err := s.catalog.PlaylistName(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("fetching playlist name: %w", err)
	}
	result.PlaylistName = name

	g := s.newGate(gate.WithPrompt(prunePrompt))
	if err := g.Check(ctx, name, len(remove)); err != nil {
		return nil, err
	}

	n, err := s.writer.Each(ctx, remove, spotify.MaxLibraryTracksPerRequest, s.library.RemoveSavedTracks)
	if err != nil {
		return nil, fmt.Errorf("removing saved tracks (%d windows applied): %w", n, err)
	}
	result.Removed = remove
	logger.Info("Pruned liked tracks", "tracks", len(remove))

	return result, nil
}
