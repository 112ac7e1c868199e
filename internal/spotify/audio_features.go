package spotify

import (
	"context"
	"fmt"
)

// AudioFeatures retrieves audio features for the given tracks.
// Batches requests to max 100 tracks per request per Spotify API limits.
// Tracks without available audio features are left out of the result.
func (c *Client) AudioFeatures(ctx context.Context, trackIDs []string) ([]Features, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}

	ids := toIDs(trackIDs)
	total := len(ids)
	features := make([]Features, 0, total)

	for i := 0; i < total; i += MaxTracksPerRequest {
		end := min(i+MaxTracksPerRequest, total)

		batch, err := c.api.GetAudioFeatures(ctx, ids[i:end]...)
		if err != nil {
			return nil, Classify(fmt.Sprintf("fetching audio features (batch %d-%d)", i+1, end), err)
		}

		for _, f := range batch {
			if f == nil {
				continue // Track has no audio features
			}
			features = append(features, Features{
				ID:           string(f.ID),
				Energy:       float64(f.Energy),
				Valence:      float64(f.Valence),
				Danceability: float64(f.Danceability),
				Acousticness: float64(f.Acousticness),
			})
		}
	}

	c.log.Debug("Fetched audio features", "requested", total, "available", len(features))
	return features, nil
}
