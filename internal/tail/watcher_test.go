package tail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/spotconnect/internal/core"
)

var testTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func track(uri string, duration time.Duration) *core.Track {
	return &core.Track{URI: uri, Title: uri, Artist: "Artist", Duration: duration}
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func TestDiffStates(t *testing.T) {
	song := track("spotify:track:a", 100*time.Second)
	other := track("spotify:track:b", 100*time.Second)
	kitchen := &core.Device{ID: "kitchen"}
	office := &core.Device{ID: "office"}

	tests := []struct {
		name string
		prev *core.PlaybackState
		curr *core.PlaybackState
		want []EventType
	}{
		{
			name: "first observation with track",
			curr: &core.PlaybackState{Track: song, IsPlaying: true},
			want: []EventType{EventTrackChange},
		},
		{
			name: "first observation without track",
			curr: &core.PlaybackState{},
			want: nil,
		},
		{
			name: "nil current",
			prev: &core.PlaybackState{Track: song},
			want: nil,
		},
		{
			name: "no change",
			prev: &core.PlaybackState{Track: song, IsPlaying: true, Volume: 50},
			curr: &core.PlaybackState{Track: song, IsPlaying: true, Volume: 50},
			want: nil,
		},
		{
			name: "completed",
			prev: &core.PlaybackState{Track: song, Progress: 98 * time.Second, IsPlaying: true},
			curr: &core.PlaybackState{Track: other, IsPlaying: true},
			want: []EventType{EventTrackComplete},
		},
		{
			name: "skipped",
			prev: &core.PlaybackState{Track: song, Progress: 10 * time.Second, IsPlaying: true},
			curr: &core.PlaybackState{Track: other, IsPlaying: true},
			want: []EventType{EventTrackSkip},
		},
		{
			name: "track appears",
			prev: &core.PlaybackState{},
			curr: &core.PlaybackState{Track: song},
			want: []EventType{EventTrackChange},
		},
		{
			name: "pause",
			prev: &core.PlaybackState{Track: song, IsPlaying: true},
			curr: &core.PlaybackState{Track: song},
			want: []EventType{EventPause},
		},
		{
			name: "resume with volume",
			prev: &core.PlaybackState{Track: song, Volume: 20},
			curr: &core.PlaybackState{Track: song, IsPlaying: true, Volume: 30},
			want: []EventType{EventResume, EventVolumeChange},
		},
		{
			name: "device, shuffle and repeat",
			prev: &core.PlaybackState{Device: kitchen, Repeat: core.RepeatNone},
			curr: &core.PlaybackState{Device: office, Shuffle: true, Repeat: core.RepeatPlaylist},
			want: []EventType{EventDeviceChange, EventShuffleChange, EventRepeatChange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eventTypes(diffStates(tt.prev, tt.curr, testTime))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// scriptedSource returns states (or errors) in order, then repeats the last
// entry forever.
type scriptedSource struct {
	mu    sync.Mutex
	steps []any
	i     int
}

func (s *scriptedSource) GetState(ctx context.Context) (*core.PlaybackState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.steps[s.i]
	if s.i < len(s.steps)-1 {
		s.i++
	}
	switch v := step.(type) {
	case error:
		return nil, v
	case *core.PlaybackState:
		return v, nil
	}
	return nil, nil
}

func collect(t *testing.T, ch <-chan Event, n int) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(2 * time.Second)
	for len(events) < n {
		select {
		case e, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, e)
		case <-timeout:
			t.Fatalf("got %d events before timeout, want %d: %v", len(events), n, eventTypes(events))
		}
	}
	return events
}

func TestWatcherSurvivesPollErrors(t *testing.T) {
	song := track("spotify:track:a", time.Minute)
	source := &scriptedSource{steps: []any{
		errors.New("boom"),
		&core.PlaybackState{Track: song, IsPlaying: true, Volume: 10},
		errors.New("rate limited"),
		&core.PlaybackState{Track: song, IsPlaying: false, Volume: 10},
	}}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	w := NewWatcher(source, 5*time.Millisecond, WithLogger(logger))
	events, cancelSub := w.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	got := eventTypes(collect(t, events, 2))
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	if got[0] != EventTrackChange || got[1] != EventPause {
		t.Errorf("events = %v, want [track_change pause]", got)
	}
	if !strings.Contains(logs.String(), "playback poll failed") {
		t.Errorf("poll error not logged: %q", logs.String())
	}
}

func TestWatcherFanOut(t *testing.T) {
	source := &scriptedSource{steps: []any{
		&core.PlaybackState{Track: track("spotify:track:a", time.Minute)},
	}}
	w := NewWatcher(source, 5*time.Millisecond)
	first, cancelFirst := w.Subscribe()
	second, cancelSecond := w.Subscribe()
	defer cancelSecond()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	collect(t, first, 1)
	collect(t, second, 1)
	cancelFirst()
	cancelFirst()

	cancel()
	<-done

	if _, ok := <-second; ok {
		t.Error("subscriber channel still open after Run returned")
	}

	late, _ := w.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscription after Run returned should be closed")
	}
}
