package tail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tessro/spotconnect/internal/core"
	"github.com/tessro/spotconnect/internal/metrics"
)

// EventType names a kind of playback change.
type EventType string

const (
	EventTrackChange   EventType = "track_change"
	EventTrackComplete EventType = "track_complete"
	EventTrackSkip     EventType = "track_skip"
	EventPause         EventType = "pause"
	EventResume        EventType = "resume"
	EventVolumeChange  EventType = "volume_change"
	EventDeviceChange  EventType = "device_change"
	EventShuffleChange EventType = "shuffle_change"
	EventRepeatChange  EventType = "repeat_change"
)

// Event represents a playback state change.
type Event struct {
	Type      EventType           `json:"type"`
	Timestamp time.Time           `json:"timestamp"`
	Previous  *core.PlaybackState `json:"previous,omitempty"`
	Current   *core.PlaybackState `json:"current"`
}

// StateSource is anything that can report the current playback state.
type StateSource interface {
	GetState(ctx context.Context) (*core.PlaybackState, error)
}

// subscriberBuffer is the per-subscriber backlog; slower readers lose events.
const subscriberBuffer = 16

// Watcher polls a state source and fans detected events out to subscribers.
type Watcher struct {
	source   StateSource
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for poll failures.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics counts emitted events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// NewWatcher creates a watcher that polls source every interval (one second
// when interval is zero).
func NewWatcher(source StateSource, interval time.Duration, opts ...Option) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	w := &Watcher{
		source:   source,
		interval: interval,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		subs:     make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe registers a new event channel. The returned cancel function
// unsubscribes and closes the channel. Channels are also closed when Run
// returns.
func (w *Watcher) Subscribe() (<-chan Event, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if w.closed {
		close(ch)
		return ch, func() {}
	}
	id := w.nextID
	w.nextID++
	w.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if sub, ok := w.subs[id]; ok {
				delete(w.subs, id)
				close(sub)
			}
		})
	}
}

// Run polls until ctx is done. Poll failures are logged and the loop keeps
// going; the previous state is kept so no spurious events are emitted when
// polling recovers.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.closeAll()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	prev, initialized := w.poll(ctx, nil, false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			prev, initialized = w.poll(ctx, prev, initialized)
		}
	}
}

func (w *Watcher) poll(ctx context.Context, prev *core.PlaybackState, initialized bool) (*core.PlaybackState, bool) {
	curr, err := w.source.GetState(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("playback poll failed", "err", err)
		}
		return prev, initialized
	}

	var last *core.PlaybackState
	if initialized {
		last = prev
	}
	for _, e := range diffStates(last, curr, w.now()) {
		w.publish(e)
	}
	return curr, true
}

func (w *Watcher) publish(e Event) {
	w.metrics.WatcherEvent(string(e.Type))

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- e:
		default:
			w.logger.Debug("dropping event for slow subscriber", "type", e.Type)
		}
	}
}

func (w *Watcher) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ch := range w.subs {
		close(ch)
		delete(w.subs, id)
	}
	w.closed = true
}

// diffStates compares two states and returns detected events. A nil prev
// means this is the first observation.
func diffStates(prev, curr *core.PlaybackState, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	if prev == nil {
		if curr.HasTrack() {
			return []Event{{Type: EventTrackChange, Timestamp: now, Current: curr}}
		}
		return nil
	}

	var events []Event
	emit := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	if trackChanged(prev, curr) {
		switch {
		case prev.HasTrack() && wasCompleted(prev):
			emit(EventTrackComplete)
		case prev.HasTrack():
			emit(EventTrackSkip)
		default:
			emit(EventTrackChange)
		}
	}

	if prev.IsPlaying && !curr.IsPlaying {
		emit(EventPause)
	} else if !prev.IsPlaying && curr.IsPlaying {
		emit(EventResume)
	}

	if prev.Volume != curr.Volume {
		emit(EventVolumeChange)
	}
	if deviceChanged(prev, curr) {
		emit(EventDeviceChange)
	}
	if prev.Shuffle != curr.Shuffle {
		emit(EventShuffleChange)
	}
	if prev.Repeat != curr.Repeat {
		emit(EventRepeatChange)
	}

	return events
}

func trackChanged(prev, curr *core.PlaybackState) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.URI != curr.Track.URI
}

// wasCompleted reports whether the last observed progress was within the
// final 5% of the track. Anything earlier counts as a skip.
func wasCompleted(state *core.PlaybackState) bool {
	if state.Track == nil || state.Track.Duration == 0 {
		return false
	}
	return float64(state.Progress) >= float64(state.Track.Duration)*0.95
}

func deviceChanged(prev, curr *core.PlaybackState) bool {
	if prev.Device == nil && curr.Device == nil {
		return false
	}
	if prev.Device == nil || curr.Device == nil {
		return true
	}
	return prev.Device.ID != curr.Device.ID
}
