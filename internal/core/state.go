package core

import "time"

// Repeat modes in the vocabulary shown to users.
const (
	RepeatNone     = "none"
	RepeatTrack    = "track"
	RepeatPlaylist = "playlist"
)

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Track      *Track        `json:"track"`
	Device     *Device       `json:"device"`
	ContextURI string        `json:"context_uri,omitempty"`
	IsPlaying  bool          `json:"is_playing"`
	Progress   time.Duration `json:"progress"`
	Volume     int           `json:"volume"`
	Shuffle    bool          `json:"shuffle"`
	Repeat     string        `json:"repeat"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Track == nil || s.Track.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Track.Duration) * 100
}

// VolumeLevel returns the volume as a fraction between 0 and 1.
func (s *PlaybackState) VolumeLevel() float64 {
	if s == nil {
		return 0
	}
	return float64(s.Volume) / 100
}
