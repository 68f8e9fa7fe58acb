package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when no valid access token is available.
	// No request is sent in that case.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidArgument wraps parameters rejected before any request is sent.
	ErrInvalidArgument = errors.New("invalid argument")
)

// RemoteError is returned for every non-2xx response from the Web API.
// Message comes from the structured error body when there is one, otherwise
// from the HTTP status reason phrase.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsNoActiveDevice reports whether the remote side had no device to act on.
func (e *RemoteError) IsNoActiveDevice() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRestricted reports a 403, which Spotify uses for premium-only commands
// and for player actions that are not allowed in the current state.
func (e *RemoteError) IsRestricted() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsRateLimited reports a 429 response.
func (e *RemoteError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// StatusCodeOf returns the HTTP status of a RemoteError in err's chain, or 0.
func StatusCodeOf(err error) int {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode
	}
	return 0
}

// IsNoActiveDeviceError checks if an error is a "no active device" error.
func IsNoActiveDeviceError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.IsNoActiveDevice()
}

// errorBody is the documented shape of a Web API error response.
type errorBody struct {
	Error *struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRemoteError(resp *http.Response, body []byte) *RemoteError {
	remoteErr := &RemoteError{
		StatusCode: resp.StatusCode,
		Message:    reasonPhrase(resp),
	}

	// The accounts service answers with {"error":"invalid_grant"} instead, so a
	// failed decode just keeps the reason phrase.
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil && decoded.Error.Message != "" {
		remoteErr.Message = decoded.Error.Message
	}
	return remoteErr
}

func reasonPhrase(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && strings.TrimSpace(reason) != "" {
		return strings.TrimSpace(reason)
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
