package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tessro/spotconnect/internal/metrics"
)

// PlaylistCacheTTL is how long a fetched playlist list is served from memory.
const PlaylistCacheTTL = 60 * time.Second

const playlistFlightKey = "playlists"

// PlaylistFetcher loads the complete playlist list from the remote API.
type PlaylistFetcher func(ctx context.Context) ([]Playlist, error)

// PlaylistCache is a single-slot cache for the account's playlists.
//
// Expiry is checked lazily on read. Concurrent misses share one fetch, and a
// failed fetch leaves the cache as it was.
type PlaylistCache struct {
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.Mutex
	entry      []Playlist
	valid      bool
	fetchedAt  time.Time
	expiresAt  time.Time
	generation uint64

	group singleflight.Group
}

type cacheOption func(*PlaylistCache)

func withCacheClock(now func() time.Time) cacheOption {
	return func(pc *PlaylistCache) { pc.now = now }
}

func withCacheLogger(logger *slog.Logger) cacheOption {
	return func(pc *PlaylistCache) { pc.logger = logger }
}

func withCacheMetrics(m *metrics.Metrics) cacheOption {
	return func(pc *PlaylistCache) { pc.metrics = m }
}

// NewPlaylistCache creates an empty cache whose entries live for ttl.
func NewPlaylistCache(ttl time.Duration, opts ...cacheOption) *PlaylistCache {
	pc := &PlaylistCache{
		ttl:    ttl,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// Get returns the cached playlists while they are fresh, otherwise calls
// fetch and stores its result. Callers must not modify the returned slice;
// every hit returns the same backing array.
func (pc *PlaylistCache) Get(ctx context.Context, fetch PlaylistFetcher) ([]Playlist, error) {
	pc.mu.Lock()
	if pc.valid && pc.now().Before(pc.expiresAt) {
		entry := pc.entry
		pc.mu.Unlock()
		pc.metrics.CacheHit()
		pc.logger.Debug("playlist cache hit", "count", len(entry))
		return entry, nil
	}
	generation := pc.generation
	pc.mu.Unlock()

	pc.metrics.CacheMiss()
	pc.logger.Debug("playlist cache miss")

	// The shared fetch must outlive any single caller, so it runs detached
	// from ctx and each caller waits on its own ctx instead.
	fetchCtx := context.WithoutCancel(ctx)
	ch := pc.group.DoChan(playlistFlightKey, func() (any, error) {
		items, err := fetch(fetchCtx)
		if err != nil {
			pc.logger.Debug("playlist fetch failed", "err", err)
			return nil, err
		}
		if items == nil {
			items = []Playlist{}
		}

		pc.mu.Lock()
		defer pc.mu.Unlock()
		if pc.generation != generation {
			// Invalidated while the fetch was in flight.
			return items, nil
		}
		now := pc.now()
		pc.entry = items
		pc.valid = true
		pc.fetchedAt = now
		pc.expiresAt = now.Add(pc.ttl)
		pc.logger.Debug("playlist cache filled", "count", len(items), "expires_at", pc.expiresAt)
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Playlist), nil
	}
}

// Invalidate drops the cached entry. A fetch already in flight still returns
// its result to its callers but does not repopulate the cache.
func (pc *PlaylistCache) Invalidate() {
	pc.mu.Lock()
	pc.entry = nil
	pc.valid = false
	pc.fetchedAt = time.Time{}
	pc.expiresAt = time.Time{}
	pc.generation++
	pc.mu.Unlock()
	pc.group.Forget(playlistFlightKey)
}

// Expiry reports when the current entry was fetched and when it expires.
// ok is false when there is no fresh entry.
func (pc *PlaylistCache) Expiry() (fetchedAt, expiresAt time.Time, ok bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.valid || !pc.now().Before(pc.expiresAt) {
		return time.Time{}, time.Time{}, false
	}
	return pc.fetchedAt, pc.expiresAt, true
}
