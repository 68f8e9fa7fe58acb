package client

import "strings"

// RepeatMode is the user-facing repeat vocabulary.
type RepeatMode string

const (
	RepeatNone     RepeatMode = "none"
	RepeatTrack    RepeatMode = "track"
	RepeatPlaylist RepeatMode = "playlist"
)

// RepeatState is the repeat value on the wire.
type RepeatState string

const (
	RepeatStateOff     RepeatState = "off"
	RepeatStateTrack   RepeatState = "track"
	RepeatStateContext RepeatState = "context"
)

var repeatModes = map[RepeatMode]RepeatState{
	RepeatNone:     RepeatStateOff,
	RepeatTrack:    RepeatStateTrack,
	RepeatPlaylist: RepeatStateContext,
}

// ParseRepeatMode accepts the user vocabulary (none, track, playlist).
// The wire names off and context are accepted as aliases.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch RepeatMode(strings.ToLower(strings.TrimSpace(s))) {
	case RepeatNone, RepeatMode(RepeatStateOff):
		return RepeatNone, nil
	case RepeatTrack:
		return RepeatTrack, nil
	case RepeatPlaylist, RepeatMode(RepeatStateContext):
		return RepeatPlaylist, nil
	}
	return "", invalidArgument("unknown repeat mode %q (use none, track or playlist)", s)
}

// State maps the mode to the value the Web API expects.
func (m RepeatMode) State() (RepeatState, error) {
	state, ok := repeatModes[m]
	if !ok {
		return "", invalidArgument("unknown repeat mode %q", string(m))
	}
	return state, nil
}

// Mode maps a wire value back to the user vocabulary. Unknown states map to
// RepeatNone.
func (s RepeatState) Mode() RepeatMode {
	for mode, state := range repeatModes {
		if state == s {
			return mode
		}
	}
	return RepeatNone
}

func (m RepeatMode) String() string {
	return string(m)
}

func (s RepeatState) String() string {
	return string(s)
}
