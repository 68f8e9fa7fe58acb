package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tessro/spotconnect/internal/spotify/client"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// writeClientError maps client errors onto HTTP responses. Remote errors keep
// the status the Web API returned.
func writeClientError(w http.ResponseWriter, err error) {
	var remoteErr *client.RemoteError
	switch {
	case errors.Is(err, client.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, client.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not_authenticated", err.Error())
	case errors.As(err, &remoteErr):
		writeError(w, remoteErr.StatusCode, remoteCode(remoteErr), remoteErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}

func remoteCode(err *client.RemoteError) string {
	switch {
	case err.IsNoActiveDevice():
		return "no_active_device"
	case err.IsRestricted():
		return "restricted"
	case err.IsRateLimited():
		return "rate_limited"
	}
	return "remote_error"
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
