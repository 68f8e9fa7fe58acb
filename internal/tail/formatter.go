package tail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for terminal output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom text/template format. See templateData for
// the available fields.
func WithTemplate(tmpl *template.Template) FormatterOption {
	return func(f *Formatter) {
		f.template = tmpl
	}
}

// ParseTemplate parses a user supplied format string.
func ParseTemplate(format string) (*template.Template, error) {
	t, err := template.New("format").Parse(format)
	if err != nil {
		return nil, fmt.Errorf("invalid format template: %w", err)
	}
	return t, nil
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{showEmoji: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a single line.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// FormatJSON renders an event as one line of JSON.
func FormatJSON(e Event) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji[e.Type])
	}
	parts = append(parts, describe(e))
	return strings.Join(parts, " ")
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Album     string
	Device    string
	Volume    int
	Shuffle   bool
	Repeat    string
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      string(e.Type),
		Emoji:     eventEmoji[e.Type],
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}
	if s := e.Current; s != nil {
		data.Volume = s.Volume
		data.Shuffle = s.Shuffle
		data.Repeat = s.Repeat
		if s.Track != nil {
			data.Title = s.Track.Title
			data.Artist = s.Track.Artist
			data.Album = s.Track.Album
		}
		if s.Device != nil {
			data.Device = s.Device.Name
		}
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

var eventEmoji = map[EventType]string{
	EventTrackChange:   "🎵",
	EventTrackComplete: "✅",
	EventTrackSkip:     "⏭️",
	EventPause:         "⏸️",
	EventResume:        "▶️",
	EventVolumeChange:  "🔊",
	EventDeviceChange:  "📱",
	EventShuffleChange: "🔀",
	EventRepeatChange:  "🔁",
}

func describe(e Event) string {
	curr, prev := e.Current, e.Previous
	switch e.Type {
	case EventTrackChange:
		if curr.HasTrack() {
			return fmt.Sprintf("Now playing: %s - %s", curr.Track.Artist, curr.Track.Title)
		}
		return "Track changed"
	case EventTrackComplete:
		if prev.HasTrack() {
			return fmt.Sprintf("Finished: %s - %s", prev.Track.Artist, prev.Track.Title)
		}
		return "Track completed"
	case EventTrackSkip:
		if prev.HasTrack() {
			return fmt.Sprintf("Skipped: %s - %s", prev.Track.Artist, prev.Track.Title)
		}
		return "Track skipped"
	case EventPause:
		return "Paused"
	case EventResume:
		return "Resumed"
	case EventVolumeChange:
		if curr != nil {
			return fmt.Sprintf("Volume: %d%%", curr.Volume)
		}
	case EventDeviceChange:
		if curr != nil && curr.Device != nil {
			return fmt.Sprintf("Device: %s", curr.Device.Name)
		}
		return "No active device"
	case EventShuffleChange:
		if curr != nil {
			if curr.Shuffle {
				return "Shuffle: on"
			}
			return "Shuffle: off"
		}
	case EventRepeatChange:
		if curr != nil {
			return fmt.Sprintf("Repeat: %s", curr.Repeat)
		}
	}
	return strings.ReplaceAll(string(e.Type), "_", " ")
}
