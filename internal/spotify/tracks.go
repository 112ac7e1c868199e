package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

const (
	likedPageSize    = 50 // max per request for saved tracks
	playlistPageSize = 100
)

// FetchAll retrieves every record of the source collection, following
// pagination until the remote reports no further page. Records keep the
// order they were received in. Playlist entries that are not tracks
// (episodes, unavailable items) come back as nil records.
func (c *Client) FetchAll(ctx context.Context, src Source) ([]*Track, error) {
	if src.IsLiked() {
		return c.fetchLiked(ctx)
	}
	if id, ok := src.PlaylistID(); ok {
		return c.fetchPlaylist(ctx, id)
	}
	return nil, fmt.Errorf("fetching tracks: invalid source %s", src)
}

// FetchIDs retrieves the source collection and extracts its identifiers.
func (c *Client) FetchIDs(ctx context.Context, src Source) ([]string, error) {
	records, err := c.FetchAll(ctx, src)
	if err != nil {
		return nil, err
	}
	ids, err := ExtractIDs(records)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	return ids, nil
}

func (c *Client) fetchLiked(ctx context.Context) ([]*Track, error) {
	page, err := c.api.CurrentUsersTracks(ctx, spotify.Limit(likedPageSize))
	if err != nil {
		return nil, Classify("fetching liked tracks", err)
	}

	tracks := make([]*Track, 0, page.Total)
	for {
		// NextPage decodes into the same page, so copy before moving on.
		for _, saved := range page.Tracks {
			track := saved.FullTrack
			tracks = append(tracks, &track)
		}

		c.log.Debug("Fetched liked tracks", "count", len(tracks), "total", page.Total)

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, Classify("fetching next page of liked tracks", err)
		}
	}

	c.log.Info("Collected liked tracks", "count", len(tracks))
	return tracks, nil
}

func (c *Client) fetchPlaylist(ctx context.Context, playlistID string) ([]*Track, error) {
	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(playlistPageSize))
	if err != nil {
		return nil, Classify(fmt.Sprintf("fetching playlist %s", playlistID), err)
	}

	tracks := make([]*Track, 0, page.Total)
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				tracks = append(tracks, nil)
				continue
			}
			track := *item.Track.Track
			tracks = append(tracks, &track)
		}

		c.log.Debug("Fetched playlist tracks", "playlist", playlistID, "count", len(tracks), "total", page.Total)

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, Classify(fmt.Sprintf("fetching next page of playlist %s", playlistID), err)
		}
	}

	return tracks, nil
}

// PlaylistName returns the display name of a playlist.
func (c *Client) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	playlist, err := c.api.GetPlaylist(ctx, spotify.ID(playlistID), spotify.Fields("name"))
	if err != nil {
		return "", Classify(fmt.Sprintf("getting playlist %s", playlistID), err)
	}
	return playlist.Name, nil
}
