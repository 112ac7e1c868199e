// Package ordering decides the order tracks are written in: an unbiased
// shuffle followed by exclusion, inclusion and truncation.
package ordering

import "math/rand/v2"

// Shuffle permutes ids in place with a Fisher-Yates shuffle drawn from rng.
// A nil rng uses the global random source.
func Shuffle(ids []string, rng *rand.Rand) {
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if rng == nil {
		rand.Shuffle(len(ids), swap)
		return
	}
	rng.Shuffle(len(ids), swap)
}

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
