package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

const clientID = "client-a"

func TestTokenCache_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		token *oauth2.Token
	}{
		{"with refresh", &oauth2.Token{
			AccessToken:  "access",
			TokenType:    "Bearer",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour).Round(time.Second),
		}},
		{"access only", &oauth2.Token{AccessToken: "access-only", TokenType: "Bearer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewTokenCache(filepath.Join(t.TempDir(), "nested", "token.json"))

			if err := cache.Save(clientID, tt.token); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := cache.Load(clientID)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got == nil {
				t.Fatal("Load() = nil")
			}
			if got.AccessToken != tt.token.AccessToken || got.RefreshToken != tt.token.RefreshToken {
				t.Errorf("Load() = %+v, want %+v", got, tt.token)
			}
			if !got.Expiry.Equal(tt.token.Expiry) {
				t.Errorf("Expiry = %v, want %v", got.Expiry, tt.token.Expiry)
			}
		})
	}
}

func TestTokenCache_LoadNothing(t *testing.T) {
	tests := []struct {
		name    string
		content string // "" means no file
	}{
		{"missing file", ""},
		{"blank file", "  \n"},
		{"other client", `{"client_id":"client-b","token":{"access_token":"x"}}`},
		{"no token", `{"client_id":"client-a"}`},
		{"bare token", `{"access_token":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			got, err := NewTokenCache(path).Load(clientID)
			if err != nil || got != nil {
				t.Errorf("Load() = %v, %v; want nil, nil", got, err)
			}
		})
	}
}

func TestTokenCache_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenCache(path).Load(clientID); err == nil {
		t.Error("Load() accepted a corrupt file")
	}
}

func TestTokenCache_SaveNil(t *testing.T) {
	cache := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))
	if err := cache.Save(clientID, nil); err == nil {
		t.Error("Save(nil) succeeded")
	}
}

func TestTokenCache_SaveReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	cache := NewTokenCache(path)

	for _, access := range []string{"first", "second"} {
		if err := cache.Save(clientID, &oauth2.Token{AccessToken: access}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only token.json", len(entries))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("permissions = %o, want owner only", perm)
	}

	got, err := cache.Load(clientID)
	if err != nil || got == nil || got.AccessToken != "second" {
		t.Errorf("Load() = %v, %v; want the latest token", got, err)
	}
}

func TestTokenCache_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cache := NewTokenCache(path)
	if err := cache.Save(clientID, &oauth2.Token{AccessToken: "x"}); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if err := cache.Delete(); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Delete() left the token file")
	}
	if cache.Path() != path {
		t.Errorf("Path() = %q, want %q", cache.Path(), path)
	}
}
