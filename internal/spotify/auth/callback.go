package auth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"
)

// CallbackResult contains the query parameters of the OAuth callback.
type CallbackResult struct {
	Code  string
	State string
	Error string
}

// CallbackServer receives the OAuth redirect on the host, port and path of
// the configured redirect URI.
type CallbackServer struct {
	server   *http.Server
	listener net.Listener
	path     string
	result   chan CallbackResult
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Error}}<p>Error: {{.Error}}</p>
{{end}}<p>You can close this window and return to the terminal.</p>
</body>
</html>`))

// NewCallbackServer listens on the address of redirectURI. A port of 0 picks
// a free port; use Port to find it.
func NewCallbackServer(redirectURI string) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URI %q must use http on a local address", redirectURI)
	}
	if u.Port() == "" {
		return nil, fmt.Errorf("redirect URI %q has no port", redirectURI)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", u.Host, err)
	}

	cs := &CallbackServer{
		listener: listener,
		path:     path,
		result:   make(chan CallbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, cs.handleCallback)

	cs.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return cs, nil
}

// Start begins serving HTTP requests in the background.
func (cs *CallbackServer) Start() {
	go func() {
		if err := cs.server.Serve(cs.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cs.deliver(CallbackResult{Error: err.Error()})
		}
	}()
}

// Wait blocks until a callback is received or ctx is done.
func (cs *CallbackServer) Wait(ctx context.Context) (CallbackResult, error) {
	select {
	case result := <-cs.result:
		return result, nil
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

// Shutdown gracefully shuts down the server.
func (cs *CallbackServer) Shutdown(ctx context.Context) error {
	return cs.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (cs *CallbackServer) Port() int {
	return cs.listener.Addr().(*net.TCPAddr).Port
}

// URL returns the callback URL actually being served.
func (cs *CallbackServer) URL() string {
	return fmt.Sprintf("http://%s%s", cs.listener.Addr().String(), cs.path)
}

// deliver keeps the first result; later callbacks are dropped.
func (cs *CallbackServer) deliver(result CallbackResult) {
	select {
	case cs.result <- result:
	default:
	}
}

func (cs *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result := CallbackResult{
		Code:  query.Get("code"),
		State: query.Get("state"),
		Error: query.Get("error"),
	}
	cs.deliver(result)

	page := struct{ Title, Error string }{Title: "Authentication Successful"}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if result.Error != "" {
		page.Title = "Authentication Failed"
		page.Error = result.Error
		w.WriteHeader(http.StatusBadRequest)
	}
	_ = callbackPage.Execute(w, page)
}
