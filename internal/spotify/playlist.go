package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

const (
	// MaxTracksPerRequest is the per-call item limit for playlist mutations.
	MaxTracksPerRequest = 100

	// MaxLibraryTracksPerRequest is the per-call item limit for saved tracks.
	MaxLibraryTracksPerRequest = 50
)

// RemovePlaylistItems removes every occurrence of the given tracks from a
// playlist in a single request.
func (c *Client) RemovePlaylistItems(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > MaxTracksPerRequest {
		return fmt.Errorf("removing %d tracks: more than %d per request", len(trackIDs), MaxTracksPerRequest)
	}

	_, err := c.api.RemoveTracksFromPlaylist(ctx, spotify.ID(playlistID), toIDs(trackIDs)...)
	if err != nil {
		return Classify(fmt.Sprintf("removing tracks from playlist %s", playlistID), err)
	}
	return nil
}

// AddPlaylistItems appends tracks to a playlist in a single request,
// keeping their order.
func (c *Client) AddPlaylistItems(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > MaxTracksPerRequest {
		return fmt.Errorf("adding %d tracks: more than %d per request", len(trackIDs), MaxTracksPerRequest)
	}

	_, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), toIDs(trackIDs)...)
	if err != nil {
		return Classify(fmt.Sprintf("adding tracks to playlist %s", playlistID), err)
	}
	return nil
}

// RemoveSavedTracks removes tracks from the user's library in a single request.
func (c *Client) RemoveSavedTracks(ctx context.Context, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > MaxLibraryTracksPerRequest {
		return fmt.Errorf("removing %d saved tracks: more than %d per request", len(trackIDs), MaxLibraryTracksPerRequest)
	}

	if err := c.api.RemoveTracksFromLibrary(ctx, toIDs(trackIDs)...); err != nil {
		return Classify("removing saved tracks", err)
	}
	return nil
}

func toIDs(trackIDs []string) []spotify.ID {
	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}
	return ids
}
