// Package metrics holds the Prometheus collectors shared by the Spotify
// client, the playlist cache and the bridge.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spotconnect"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// so callers never need to guard instrumentation calls.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	playlistPages   prometheus.Counter
	watcherEvents   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Requests issued to the Spotify Web API by endpoint and status code.",
		}, []string{"method", "endpoint", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of Spotify Web API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "playlist_cache",
			Name:      "lookups_total",
			Help:      "Playlist cache lookups by result (hit or miss).",
		}, []string{"result"}),
		playlistPages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "playlist_cache",
			Name:      "pages_fetched_total",
			Help:      "Playlist pages fetched from the remote API.",
		}),
		watcherEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "events_total",
			Help:      "Playback events emitted by the state watcher.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.cacheLookups, m.playlistPages, m.watcherEvents)
	return m
}

// ObserveRequest records one API round trip. A status of 0 means the request
// never produced a response.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, endpoint, code).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// CacheHit counts a playlist lookup served from memory.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss counts a playlist lookup that needed a fetch.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// PlaylistPage counts one fetched page of the playlist listing.
func (m *Metrics) PlaylistPage() {
	if m == nil {
		return
	}
	m.playlistPages.Inc()
}

// WatcherEvent counts one emitted playback event.
func (m *Metrics) WatcherEvent(eventType string) {
	if m == nil {
		return
	}
	m.watcherEvents.WithLabelValues(eventType).Inc()
}
