// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-spotify-randomiser/internal/shared"
)

// Client wraps the Spotify API client with convenience methods.
// Every method issues its remote calls serially and classifies failures
// as ErrNotAuthorized or ErrRemoteUnavailable.
type Client struct {
	api *spotify.Client
	log *log.Logger
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client, logger *log.Logger) *Client {
	return &Client{api: api, log: shared.OrDiscard(logger)}
}
