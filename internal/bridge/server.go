// Package bridge exposes playback control over HTTP for home-automation
// hubs that cannot speak OAuth themselves.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tessro/spotconnect/internal/spotify/client"
	"github.com/tessro/spotconnect/internal/spotify/player"
	"github.com/tessro/spotconnect/internal/tail"
)

// requestTimeout bounds every non-streaming API call.
const requestTimeout = 20 * time.Second

// Server serves the bridge API.
type Server struct {
	player        *player.Player
	watcher       *tail.Watcher
	gatherer      prometheus.Gatherer
	logger        *slog.Logger
	defaultDevice client.Optional[string]
	upgrader      websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithWatcher enables the /api/events stream.
func WithWatcher(w *tail.Watcher) Option {
	return func(s *Server) { s.watcher = w }
}

// WithGatherer serves metrics from g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultDevice sets the device targeted by requests that carry no
// device_id parameter. Without it they target the active device.
func WithDefaultDevice(device client.Optional[string]) Option {
	return func(s *Server) { s.defaultDevice = device }
}

// New creates a bridge server around p.
func New(p *player.Player, opts ...Option) *Server {
	s := &Server{
		player:        p,
		gatherer:      prometheus.DefaultGatherer,
		logger:        slog.New(slog.DiscardHandler),
		defaultDevice: client.ActiveDevice,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(recoverJSON(s.logger))
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/events", s.events)

		api.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(requestTimeout))

			g.Get("/devices", s.listDevices)
			g.Get("/playlists", s.listPlaylists)
			g.Get("/search", s.search)

			g.Get("/player", s.getState)
			g.Post("/player/play", s.play)
			g.Post("/player/pause", s.pause)
			g.Post("/player/next", s.next)
			g.Post("/player/previous", s.previous)
			g.Post("/player/active", s.setActive)
			g.Put("/player/volume", s.setVolume)
			g.Put("/player/shuffle", s.setShuffle)
			g.Put("/player/repeat", s.setRepeat)
			g.Put("/player/transfer", s.transfer)
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("bridge listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("bridge shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// target resolves the player for a request: an explicit device_id wins, even
// when empty, otherwise the configured default applies.
func (s *Server) target(r *http.Request) *player.Player {
	query := r.URL.Query()
	if query.Has("device_id") {
		return s.player.WithDevice(client.OnDevice(query.Get("device_id")))
	}
	return s.player.WithDevice(s.defaultDevice)
}
