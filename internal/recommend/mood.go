package recommend

import "github.com/muesli/clusters"

// moodName describes a cluster center in the 2x2 energy/valence quadrant
// system, with an acoustic modifier when acousticness > 0.6.
//
//   - High Energy + High Valence = "Upbeat Party"
//   - High Energy + Low Valence  = "Intense & Dark"
//   - Low Energy  + High Valence = "Chill & Happy"
//   - Low Energy  + Low Valence  = "Reflective & Melancholy"
func moodName(center clusters.Coordinates) string {
	if len(center) < 4 {
		return ""
	}
	energy, valence, acousticness := center[0], center[1], center[3]

	highEnergy := energy > 0.6
	highValence := valence > 0.5

	var name string
	switch {
	case highEnergy && highValence:
		name = "Upbeat Party"
	case highEnergy:
		name = "Intense & Dark"
	case highValence:
		name = "Chill & Happy"
	default:
		name = "Reflective & Melancholy"
	}

	if acousticness > 0.6 {
		return name + " (Acoustic)"
	}
	return name
}
