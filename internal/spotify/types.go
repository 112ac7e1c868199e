package spotify

import "github.com/zmb3/spotify/v2"

// Track is a raw track record as returned by the catalog.
type Track = spotify.FullTrack

// Features holds the audio features used to tell tracks apart.
type Features struct {
	ID           string
	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
}

// Suggestion is a track returned by the recommendation endpoint.
type Suggestion struct {
	ID     string
	Name   string
	Artist string // Comma-separated artist names
}
