package tail

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tessro/spotconnect/internal/core"
)

func TestFormatLine(t *testing.T) {
	song := &core.Track{Title: "So What", Artist: "Miles Davis"}
	tests := []struct {
		name  string
		event Event
		opts  []FormatterOption
		want  string
	}{
		{
			name:  "track change with emoji",
			event: Event{Type: EventTrackChange, Current: &core.PlaybackState{Track: song}},
			want:  "🎵 Now playing: Miles Davis - So What",
		},
		{
			name:  "skip without emoji",
			event: Event{Type: EventTrackSkip, Previous: &core.PlaybackState{Track: song}, Current: &core.PlaybackState{}},
			opts:  []FormatterOption{WithEmoji(false)},
			want:  "Skipped: Miles Davis - So What",
		},
		{
			name:  "timestamp",
			event: Event{Type: EventPause, Timestamp: testTime, Current: &core.PlaybackState{}},
			opts:  []FormatterOption{WithEmoji(false), WithTimestamp(true)},
			want:  "12:00:00 Paused",
		},
		{
			name:  "volume",
			event: Event{Type: EventVolumeChange, Current: &core.PlaybackState{Volume: 65}},
			opts:  []FormatterOption{WithEmoji(false)},
			want:  "Volume: 65%",
		},
		{
			name:  "shuffle",
			event: Event{Type: EventShuffleChange, Current: &core.PlaybackState{Shuffle: true}},
			opts:  []FormatterOption{WithEmoji(false)},
			want:  "Shuffle: on",
		},
		{
			name:  "repeat",
			event: Event{Type: EventRepeatChange, Current: &core.PlaybackState{Repeat: core.RepeatTrack}},
			want:  "🔁 Repeat: track",
		},
		{
			name:  "device lost",
			event: Event{Type: EventDeviceChange, Current: &core.PlaybackState{}},
			opts:  []FormatterOption{WithEmoji(false)},
			want:  "No active device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFormatter(tt.opts...).Format(tt.event); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("{{.Type}}|{{.Artist}}|{{.Device}}|{{.Repeat}}")
	if err != nil {
		t.Fatalf("ParseTemplate() error = %v", err)
	}
	e := Event{
		Type: EventTrackChange,
		Current: &core.PlaybackState{
			Track:  &core.Track{Artist: "Nina Simone"},
			Device: &core.Device{Name: "Kitchen"},
			Repeat: core.RepeatNone,
		},
	}

	if got := NewFormatter(WithTemplate(tmpl)).Format(e); got != "track_change|Nina Simone|Kitchen|none" {
		t.Errorf("Format() = %q", got)
	}

	if _, err := ParseTemplate("{{.Broken"); err == nil {
		t.Error("ParseTemplate() error = nil for malformed template")
	}
}

func TestFormatJSON(t *testing.T) {
	e := Event{
		Type:      EventVolumeChange,
		Timestamp: testTime,
		Current:   &core.PlaybackState{Volume: 20, Repeat: core.RepeatNone},
	}
	line, err := FormatJSON(e)
	if err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}
	if strings.Contains(line, "\n") {
		t.Errorf("FormatJSON() spans lines: %q", line)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["type"] != "volume_change" {
		t.Errorf("type = %v", decoded["type"])
	}
	if _, ok := decoded["previous"]; ok {
		t.Error("previous should be omitted when nil")
	}
	if ts, _ := decoded["timestamp"].(string); ts != testTime.Format(time.RFC3339) {
		t.Errorf("timestamp = %v", decoded["timestamp"])
	}
}
