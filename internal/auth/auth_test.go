package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/justestif/go-spotify-randomiser/internal/config"
	catalog "github.com/justestif/go-spotify-randomiser/internal/spotify"
)

func testConfig() *config.Config {
	return &config.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RedirectURI:  "http://127.0.0.1:8080/callback",
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"nil config", nil},
		{"both missing", &config.Config{}},
		{"id missing", &config.Config{ClientSecret: "secret"}},
		{"secret missing", &config.Config{ClientID: "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, config.ErrMissingCredentials) {
				t.Errorf("New() error = %v, want ErrMissingCredentials", err)
			}
		})
	}
}

func TestNew_WithCredentials(t *testing.T) {
	cache := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))

	auth, err := New(testConfig(), WithTokenCache(cache))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if auth.cache != cache {
		t.Error("New() ignored WithTokenCache")
	}
	if auth.redirect.Path != "/callback" {
		t.Errorf("redirect path = %q, want /callback", auth.redirect.Path)
	}
}

func TestNew_InvalidRedirect(t *testing.T) {
	cfg := testConfig()
	cfg.RedirectURI = "not a url"

	if _, err := New(cfg); err == nil {
		t.Error("New() should reject a redirect URI without host")
	}
}

func TestAuthenticate_CachedToken(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantErr     error
		wantBrowser bool
	}{
		{"accepted", http.StatusOK, nil, false},
		{"server error", http.StatusInternalServerError, catalog.ErrRemoteUnavailable, false},
		{"rejected", http.StatusUnauthorized, ErrAuthTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					fmt.Fprint(w, `{"id":"user-1"}`)
					return
				}
				fmt.Fprintf(w, `{"error":{"status":%d,"message":"nope"}}`, tt.status)
			}))
			defer server.Close()

			cache := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))
			if err := cache.Save("test-client-id", &oauth2.Token{AccessToken: "cached", TokenType: "Bearer"}); err != nil {
				t.Fatal(err)
			}

			var opened []string
			cfg := testConfig()
			cfg.RedirectURI = "http://127.0.0.1:0/callback"
			auth, err := New(cfg,
				WithTokenCache(cache),
				WithCallbackTimeout(50*time.Millisecond),
				WithBrowser(func(url string) error {
					opened = append(opened, url)
					return nil
				}),
			)
			if err != nil {
				t.Fatal(err)
			}
			auth.apiBaseURL = server.URL + "/"

			client, err := auth.Authenticate(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && client == nil {
				t.Error("Authenticate() returned nil client")
			}
			if got := len(opened) > 0; got != tt.wantBrowser {
				t.Errorf("browser opened = %v, want %v", got, tt.wantBrowser)
			}
		})
	}
}

func TestRouter_Callback(t *testing.T) {
	auth, err := New(testConfig(), WithTokenCache(NewTokenCache(filepath.Join(t.TempDir(), "t.json"))))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantErr    error
	}{
		{"state mismatch", "?state=wrong&code=abc", http.StatusBadRequest, ErrStateMismatch},
		{"missing state", "?code=abc", http.StatusBadRequest, ErrStateMismatch},
		{"denied", "?state=expected&error=access_denied", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenCh := make(chan *oauth2.Token, 1)
			errCh := make(chan error, 1)
			router := auth.router("expected", tokenCh, errCh)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			select {
			case err := <-errCh:
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			default:
				t.Error("no error reported on channel")
			}
			if len(tokenCh) != 0 {
				t.Error("token sent for failed callback")
			}
		})
	}
}

func TestRouter_Login(t *testing.T) {
	auth, err := New(testConfig(), WithTokenCache(NewTokenCache(filepath.Join(t.TempDir(), "t.json"))))
	if err != nil {
		t.Fatal(err)
	}
	router := auth.router("expected", make(chan *oauth2.Token, 1), make(chan error, 1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	location := rec.Header().Get("Location")
	for _, want := range []string{"state=expected", "user-library-modify", "accounts.spotify.com"} {
		if !strings.Contains(location, want) {
			t.Errorf("Location %q missing %q", location, want)
		}
	}
}

func TestGenerateState(t *testing.T) {
	state1, err := generateState()
	if err != nil {
		t.Fatalf("generateState() error = %v", err)
	}

	if len(state1) != 32 { // 16 bytes = 32 hex chars
		t.Errorf("generateState() length = %d, want 32", len(state1))
	}

	// Verify randomness - generate another and compare
	state2, err := generateState()
	if err != nil {
		t.Fatalf("generateState() error = %v", err)
	}

	if state1 == state2 {
		t.Error("generateState() returned same value twice")
	}
}
