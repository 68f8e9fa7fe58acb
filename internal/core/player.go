package core

import "context"

// Player is the speaker-level control surface for one playback target.
type Player interface {
	// SetPlaying starts or pauses playback.
	SetPlaying(ctx context.Context, playing bool) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error

	// SetVolumeLevel sets the volume from a level between 0 and 1.
	SetVolumeLevel(ctx context.Context, level float64) error
	SetShuffle(ctx context.Context, on bool) error
	// SetRepeat accepts RepeatNone, RepeatTrack or RepeatPlaylist.
	SetRepeat(ctx context.Context, mode string) error

	GetState(ctx context.Context) (*PlaybackState, error)
}
