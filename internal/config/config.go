// Package config loads the process configuration from the environment and
// the declarative playlist plans from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvClientID       = "SPOTIFY_ID"
	EnvClientSecret   = "SPOTIFY_SECRET"
	EnvRedirectURI    = "SPOTIFY_REDIRECT_URI"
	EnvRandomPlaylist = "SPOTIFY_RANDOM_PLAYLIST_ID"
	EnvBatchSize      = "RANDOMISER_BATCH_SIZE"
	EnvRate           = "RANDOMISER_RATE"
	EnvConfirmToken   = "RANDOMISER_CONFIRM_TOKEN"
	EnvLogLevel       = "RANDOMISER_LOG_LEVEL"
)

// Defaults.
const (
	DefaultRedirectURI  = "http://127.0.0.1:8080/callback"
	DefaultBatchSize    = 100
	DefaultConfirmToken = "X"
	DefaultLogLevel     = "info"
	DefaultEnvFile      = ".env"
)

var (
	// ErrMissingCredentials is returned when SPOTIFY_ID or SPOTIFY_SECRET is not set.
	ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET environment variable")

	// ErrInvalidValue is returned when a variable cannot be parsed.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config holds the process configuration. It is built once at startup.
type Config struct {
	ClientID         string
	ClientSecret     string
	RedirectURI      string
	RandomPlaylistID string  // Default target playlist
	BatchSize        int     // Ids per playlist mutation, 1..100
	Rate             float64 // Playlist mutations per second, 0 = unlimited
	ConfirmToken     string
}

// Load reads envFile into the environment, then builds the Config.
func Load(envFile string) (*Config, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	return FromEnv(os.Getenv)
}

// LoadEnvFile copies the variables of envFile into the environment without
// overriding variables that are already set. A missing file or an empty
// path is not an error.
func LoadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}
	return nil
}

// LogLevel returns the level named by EnvLogLevel, or DefaultLogLevel.
// It needs no credentials, so it is resolved before the Config is loaded.
func LogLevel(getenv func(string) string) string {
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		return v
	}
	return DefaultLogLevel
}

// FromEnv builds a Config from getenv.
// Returns ErrMissingCredentials if the client id or secret is empty.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		ClientID:         get(EnvClientID),
		ClientSecret:     get(EnvClientSecret),
		RedirectURI:      get(EnvRedirectURI),
		RandomPlaylistID: get(EnvRandomPlaylist),
		BatchSize:        DefaultBatchSize,
		ConfirmToken:     get(EnvConfirmToken),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	if cfg.ConfirmToken == "" {
		cfg.ConfirmToken = DefaultConfirmToken
	}

	if v := get(EnvBatchSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > DefaultBatchSize {
			return nil, fmt.Errorf("%w: %s=%q must be between 1 and %d", ErrInvalidValue, EnvBatchSize, v, DefaultBatchSize)
		}
		cfg.BatchSize = n
	}

	if v := get(EnvRate); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return nil, fmt.Errorf("%w: %s=%q must be a non-negative number", ErrInvalidValue, EnvRate, v)
		}
		cfg.Rate = r
	}

	return cfg, nil
}
