package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
)

// MaxSeeds is the most seed tracks the recommendation endpoint accepts.
const MaxSeeds = 5

// Recommendations returns up to limit tracks related to the seed tracks.
func (c *Client) Recommendations(ctx context.Context, seedIDs []string, limit int) ([]Suggestion, error) {
	if len(seedIDs) == 0 || len(seedIDs) > MaxSeeds {
		return nil, fmt.Errorf("getting recommendations: need 1 to %d seeds, got %d", MaxSeeds, len(seedIDs))
	}

	seeds := spotify.Seeds{Tracks: toIDs(seedIDs)}
	recs, err := c.api.GetRecommendations(ctx, seeds, nil, spotify.Limit(limit))
	if err != nil {
		return nil, Classify("getting recommendations", err)
	}

	suggestions := make([]Suggestion, 0, len(recs.Tracks))
	for _, t := range recs.Tracks {
		suggestions = append(suggestions, Suggestion{
			ID:     string(t.ID),
			Name:   t.Name,
			Artist: JoinArtists(t.Artists),
		})
	}
	return suggestions, nil
}

// JoinArtists joins artist names with ", ".
func JoinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
