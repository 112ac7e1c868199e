package recommend

import (
	"math/rand/v2"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

// Seed is a track chosen to seed recommendations.
type Seed struct {
	ID   string
	Mood string // Empty when the seed was picked at random
}

// featureObservation wraps audio features to implement clusters.Observation.
type featureObservation struct {
	id     string
	coords clusters.Coordinates
}

func (o featureObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o featureObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// coordinates orders features as energy, valence, danceability, acousticness.
func coordinates(f spotify.Features) clusters.Coordinates {
	return clusters.Coordinates{f.Energy, f.Valence, f.Danceability, f.Acousticness}
}

// PickSeeds chooses n distinct seeds from pool. Tracks with audio features
// are grouped by k-means and the member nearest each cluster center becomes
// a seed, so the seeds span different moods. Remaining slots are filled with
// random pool entries.
func PickSeeds(pool []string, features []spotify.Features, n int, rng *rand.Rand) []Seed {
	n = min(n, len(pool))
	if n <= 0 {
		return nil
	}

	seeds := clusterSeeds(pool, features, n)
	chosen := make(map[string]bool, n)
	for _, s := range seeds {
		chosen[s.ID] = true
	}

	for _, i := range permutation(len(pool), rng) {
		if len(seeds) == n {
			break
		}
		id := pool[i]
		if chosen[id] {
			continue
		}
		chosen[id] = true
		seeds = append(seeds, Seed{ID: id})
	}
	return seeds
}

// clusterSeeds returns one seed per k-means cluster, or nil when there are
// too few tracks with features or clustering fails.
func clusterSeeds(pool []string, features []spotify.Features, n int) []Seed {
	inPool := make(map[string]bool, len(pool))
	for _, id := range pool {
		inPool[id] = true
	}

	var obs clusters.Observations
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if !inPool[f.ID] || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		obs = append(obs, featureObservation{id: f.ID, coords: coordinates(f)})
	}
	if len(obs) < n {
		return nil
	}

	km := kmeans.New()
	result, err := km.Partition(obs, n)
	if err != nil {
		return nil
	}

	seeds := make([]Seed, 0, n)
	for _, cluster := range result {
		nearest, ok := nearestMember(cluster)
		if !ok {
			continue
		}
		seeds = append(seeds, Seed{ID: nearest.id, Mood: moodName(cluster.Center)})
	}
	return seeds
}

func nearestMember(cluster clusters.Cluster) (featureObservation, bool) {
	var best featureObservation
	bestDist := -1.0
	for _, o := range cluster.Observations {
		fo, ok := o.(featureObservation)
		if !ok {
			continue
		}
		if d := fo.Distance(cluster.Center); bestDist < 0 || d < bestDist {
			best, bestDist = fo, d
		}
	}
	return best, bestDist >= 0
}

func permutation(n int, rng *rand.Rand) []int {
	if rng == nil {
		return rand.Perm(n)
	}
	return rng.Perm(n)
}
