package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

var (
	// ErrNotAuthorized is returned when credentials are invalid, expired or
	// lack the required scope.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrRemoteUnavailable is returned when the transport or the remote
	// service fails.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrMalformedRecord is returned when a record has no track identifier.
	ErrMalformedRecord = errors.New("malformed record")
)

// Classify wraps err with the failure class it belongs to.
// Context cancellation is passed through unclassified.
func Classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case isAuthError(err):
		return fmt.Errorf("%s: %w: %w", op, ErrNotAuthorized, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrRemoteUnavailable, err)
	}
}

func isAuthError(err error) bool {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return isAuthStatus(apiErr.Status)
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) {
		return isAuthStatus(apiErrPtr.Status)
	}
	// Token refresh failures surface from the oauth2 transport.
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
