// Package errors turns client failures into messages with a next step for
// the user.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/tessro/spotconnect/internal/spotify/client"
)

// Errors raised by the CLI itself.
var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrConfigNotFound = errors.New("config file not found")
	ErrNotConfigured  = errors.New("spotify client ID not configured")
)

// SuggestedError wraps an error with a user-facing suggestion.
type SuggestedError struct {
	Err        error
	Suggestion string
}

func (e *SuggestedError) Error() string {
	return e.Err.Error()
}

func (e *SuggestedError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &SuggestedError{Err: err, Suggestion: suggestion}
}

// GetSuggestion returns a suggestion for the given error, or "" when there is
// nothing useful to say.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var suggested *SuggestedError
	if errors.As(err, &suggested) && suggested.Suggestion != "" {
		return suggested.Suggestion
	}

	switch {
	case errors.Is(err, client.ErrNotAuthenticated):
		return "Run 'spotconnect auth login' to authenticate with Spotify"
	case errors.Is(err, ErrNotConfigured):
		return "Set spotify.client_id in the config file or SPOTCONNECT_SPOTIFY_CLIENT_ID"
	case errors.Is(err, ErrDeviceNotFound):
		return "Run 'spotconnect devices' to see available devices"
	case errors.Is(err, ErrConfigNotFound):
		return "Run 'spotconnect config init' to create one"
	case errors.Is(err, client.ErrInvalidArgument):
		return ""
	}

	switch code := client.StatusCodeOf(err); {
	case code == http.StatusUnauthorized:
		return "Your session was rejected. Run 'spotconnect auth login' again"
	case code == http.StatusNotFound:
		return "Open Spotify on a device and start playing, or use --device to pick one"
	case code == http.StatusForbidden:
		return "The device refused the command. Playback control requires Spotify Premium"
	case code == http.StatusTooManyRequests:
		return "Too many requests. Wait a moment and try again"
	case code >= 500:
		return "Spotify is having issues. Try again in a moment"
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return "Check your internet connection and try again"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
