// Package auth runs the Spotify OAuth2 authorization code flow and keeps the
// resulting token on disk between runs.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/justestif/go-spotify-randomiser/internal/config"
	"github.com/justestif/go-spotify-randomiser/internal/shared"
	catalog "github.com/justestif/go-spotify-randomiser/internal/spotify"
)

const defaultCallbackTimeout = 2 * time.Minute

var (
	// ErrAuthTimeout is returned when the OAuth callback is not received in time.
	ErrAuthTimeout = errors.New("authentication timed out waiting for callback")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// Scopes are the permissions requested: read and modify the saved tracks,
// modify public and private playlists.
var Scopes = []string{
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserLibraryModify,
}

// Authenticator handles Spotify OAuth2 authentication.
type Authenticator struct {
	auth        *spotifyauth.Authenticator
	clientID    string
	apiBaseURL  string // overrides the Web API endpoint in tests
	cache       *TokenCache
	redirect    *url.URL
	openBrowser func(string) error
	timeout     time.Duration
	log         *log.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTokenCache replaces the default token cache.
func WithTokenCache(c *TokenCache) Option {
	return func(a *Authenticator) {
		a.cache = c
	}
}

// WithBrowser sets the function used to open the authorization URL.
// Passing nil only prints the URL.
func WithBrowser(open func(string) error) Option {
	return func(a *Authenticator) {
		a.openBrowser = open
	}
}

// WithCallbackTimeout sets how long to wait for the OAuth callback.
func WithCallbackTimeout(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Authenticator) {
		a.log = shared.OrDiscard(l)
	}
}

// New creates an Authenticator from the client credentials and redirect URI
// in cfg. Returns config.ErrMissingCredentials if either credential is empty.
func New(cfg *config.Config, opts ...Option) (*Authenticator, error) {
	if cfg == nil || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, config.ErrMissingCredentials
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = config.DefaultRedirectURI
	}
	redirect, err := url.Parse(redirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("invalid redirect URI %q", redirectURI)
	}

	a := &Authenticator{
		auth: spotifyauth.New(
			spotifyauth.WithClientID(cfg.ClientID),
			spotifyauth.WithClientSecret(cfg.ClientSecret),
			spotifyauth.WithRedirectURL(redirectURI),
			spotifyauth.WithScopes(Scopes...),
		),
		clientID:    cfg.ClientID,
		redirect:    redirect,
		openBrowser: shared.Open,
		timeout:     defaultCallbackTimeout,
		log:         shared.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.cache == nil {
		cache, err := DefaultTokenCache()
		if err != nil {
			return nil, fmt.Errorf("creating token cache: %w", err)
		}
		a.cache = cache
	}

	return a, nil
}

// Authenticate returns an authenticated Spotify client.
// A cached token is used when it still works (oauth2 refreshes it as needed).
// The full OAuth flow runs only when there is no cached token or the remote
// rejects it; other failures are returned as spotify.ErrRemoteUnavailable.
func (a *Authenticator) Authenticate(ctx context.Context) (*spotify.Client, error) {
	token, err := a.cache.Load(a.clientID)
	if err != nil {
		a.log.Warn("Ignoring unreadable token cache", "path", a.cache.Path(), "err", err)
		token = nil
	}

	if token != nil {
		client := a.newClient(ctx, token)
		_, err := client.CurrentUser(ctx)
		err = catalog.Classify("verifying cached token", err)
		switch {
		case err == nil:
			a.SaveToken(client)
			a.log.Debug("Using cached token", "path", a.cache.Path())
			return client, nil
		case !errors.Is(err, catalog.ErrNotAuthorized):
			return nil, err
		}
		a.log.Warn("Cached token rejected, starting new authentication", "err", err)
	}

	return a.runOAuthFlow(ctx)
}

// SaveToken stores the client's current token if it changed since the last
// save. Failures are logged only.
func (a *Authenticator) SaveToken(client *spotify.Client) {
	token, err := client.Token()
	if err != nil {
		return
	}
	cached, _ := a.cache.Load(a.clientID)
	if cached != nil && cached.AccessToken == token.AccessToken {
		return
	}
	if err := a.cache.Save(a.clientID, token); err != nil {
		a.log.Warn("Failed to cache token", "err", err)
	}
}

func (a *Authenticator) newClient(ctx context.Context, token *oauth2.Token) *spotify.Client {
	opts := []spotify.ClientOption{spotify.WithRetry(true)}
	if a.apiBaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(a.apiBaseURL))
	}
	return spotify.New(a.auth.Client(ctx, token), opts...)
}

// runOAuthFlow performs the full OAuth authorization code flow.
func (a *Authenticator) runOAuthFlow(ctx context.Context) (*spotify.Client, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", a.redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("starting callback server on %s: %w", a.redirect.Host, err)
	}

	server := &http.Server{
		Handler:      a.router(state, tokenCh, errCh),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errCh, fmt.Errorf("callback server error: %w", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := a.auth.AuthURL(state)
	a.log.Info("To authenticate, open this URL in your browser", "url", authURL)
	if a.openBrowser != nil {
		if err := a.openBrowser(authURL); err != nil {
			a.log.Debug("Could not open browser", "err", err)
		}
	}
	a.log.Info("Waiting for authentication...")

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(a.timeout):
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := a.cache.Save(a.clientID, token); err != nil {
		a.log.Warn("Failed to cache token", "err", err)
	}
	a.log.Info("Authenticated")

	return a.newClient(ctx, token), nil
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func sendErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}
