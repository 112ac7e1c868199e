package auth

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>spotify-randomiser</title></head>
<body>
<h1>Signed in</h1>
<p>spotify-randomiser can now read and rewrite your playlists. Close this tab and go back to the terminal.</p>
</body>
</html>`

// router serves the redirect path and a /login shortcut that redirects to
// the authorization URL.
func (a *Authenticator) router(state string, tokenCh chan<- *oauth2.Token, errCh chan<- error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, a.auth.AuthURL(state), http.StatusTemporaryRedirect)
	})

	callbackPath := a.redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}
	r.Get(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, tokenCh, errCh)
	})

	return r
}

// handleCallback processes the OAuth callback from Spotify.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, expectedState string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		sendErr(errCh, ErrStateMismatch)
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "Authentication failed: "+errMsg, http.StatusBadRequest)
		sendErr(errCh, fmt.Errorf("spotify auth error: %s", errMsg))
		return
	}

	token, err := a.auth.Token(r.Context(), expectedState, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		sendErr(errCh, fmt.Errorf("exchanging code for token: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, successPage)

	select {
	case tokenCh <- token:
	default:
	}
}
