package player

import (
	"context"
	"time"

	"github.com/tessro/spotconnect/internal/core"
	"github.com/tessro/spotconnect/internal/spotify/client"
)

// Player implements core.Player for one Spotify Connect target: a specific
// device, or whichever device is active.
type Player struct {
	client *client.Client
	device client.Optional[string]
}

// New creates a player that targets the active device.
func New(c *client.Client) *Player {
	return &Player{client: c, device: client.ActiveDevice}
}

// WithDevice returns a copy of the player that targets device.
func (p *Player) WithDevice(device client.Optional[string]) *Player {
	return &Player{client: p.client, device: device}
}

// DeviceOrActive targets id, or the active device when id is empty.
func DeviceOrActive(id string) client.Optional[string] {
	if id == "" {
		return client.ActiveDevice
	}
	return client.OnDevice(id)
}

// Device returns the player's target.
func (p *Player) Device() client.Optional[string] {
	return p.device
}

// Client returns the underlying API client.
func (p *Player) Client() *client.Client {
	return p.client
}

// SetPlaying starts or pauses playback. Starting on a specific device first
// transfers playback there so a dormant device wakes up.
func (p *Player) SetPlaying(ctx context.Context, playing bool) error {
	if !playing {
		return p.client.Pause(ctx, p.device)
	}
	if p.device.IsSet() {
		if err := p.client.TransferPlayback(ctx, p.device, true); err != nil {
			return err
		}
	}
	return p.client.Play(ctx, client.PlayOptions{Device: p.device})
}

// Play resumes playback without transferring.
func (p *Player) Play(ctx context.Context) error {
	return p.client.Play(ctx, client.PlayOptions{Device: p.device})
}

// Pause pauses playback.
func (p *Player) Pause(ctx context.Context) error {
	return p.client.Pause(ctx, p.device)
}

// PlayContext starts playback of an album, artist or playlist URI.
func (p *Player) PlayContext(ctx context.Context, contextURI string) error {
	return p.client.Play(ctx, client.PlayOptions{Device: p.device, ContextURI: contextURI})
}

// PlayTrack starts playback of a single track URI.
func (p *Player) PlayTrack(ctx context.Context, trackURI string) error {
	return p.client.Play(ctx, client.PlayOptions{Device: p.device, URIs: []string{trackURI}})
}

// SetActive makes the target device the active one and starts playback on it.
func (p *Player) SetActive(ctx context.Context) error {
	return p.client.TransferPlayback(ctx, p.device, true)
}

// Transfer moves playback to the target device.
func (p *Player) Transfer(ctx context.Context, play bool) error {
	return p.client.TransferPlayback(ctx, p.device, play)
}

// Next skips to the next track.
func (p *Player) Next(ctx context.Context) error {
	return p.client.Next(ctx, p.device)
}

// Prev skips to the previous track.
func (p *Player) Prev(ctx context.Context) error {
	return p.client.Previous(ctx, p.device)
}

// SetVolumeLevel sets the volume from a level between 0 and 1.
func (p *Player) SetVolumeLevel(ctx context.Context, level float64) error {
	return p.client.SetVolume(ctx, p.device, level*100)
}

// SetVolume sets the volume as a percentage.
func (p *Player) SetVolume(ctx context.Context, percent float64) error {
	return p.client.SetVolume(ctx, p.device, percent)
}

// SetShuffle turns shuffle on or off.
func (p *Player) SetShuffle(ctx context.Context, on bool) error {
	return p.client.SetShuffle(ctx, p.device, on)
}

// SetRepeat sets the repeat mode (none, track or playlist).
func (p *Player) SetRepeat(ctx context.Context, mode string) error {
	m, err := client.ParseRepeatMode(mode)
	if err != nil {
		return err
	}
	return p.client.SetRepeat(ctx, p.device, m)
}

// GetState returns the current playback state.
func (p *Player) GetState(ctx context.Context) (*core.PlaybackState, error) {
	state, err := p.client.GetPlaybackState(ctx)
	if err != nil {
		return nil, err
	}
	return convertState(state), nil
}

// GetDevices returns the user's available playback devices.
func (p *Player) GetDevices(ctx context.Context) ([]core.Device, error) {
	devices, err := p.client.GetDevices(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]core.Device, len(devices))
	for i := range devices {
		result[i] = *convertDevice(&devices[i])
	}
	return result, nil
}

// Playlists returns the user's playlists, narrowed to those matching query
// when it is not empty.
func (p *Player) Playlists(ctx context.Context, query string) ([]client.Playlist, error) {
	playlists, err := p.client.GetUserPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	return FilterPlaylists(playlists, query), nil
}

// Search runs a catalog search in one category.
func (p *Player) Search(ctx context.Context, searchType client.SearchType, query string) (*client.SearchResponse, error) {
	return p.client.Search(ctx, client.SearchOptions{Query: query, Types: []client.SearchType{searchType}})
}

func convertState(state *client.PlaybackState) *core.PlaybackState {
	if state == nil {
		return &core.PlaybackState{Repeat: core.RepeatNone}
	}

	coreState := &core.PlaybackState{
		IsPlaying: state.IsPlaying,
		Progress:  time.Duration(state.ProgressMS) * time.Millisecond,
		Shuffle:   state.ShuffleState,
		Repeat:    state.RepeatState.Mode().String(),
	}
	if state.Device.VolumePercent != nil {
		coreState.Volume = *state.Device.VolumePercent
	}
	if state.Device.ID != "" {
		coreState.Device = convertDevice(&state.Device)
	}
	if state.Item != nil {
		coreState.Track = convertTrack(state.Item)
	}
	if state.Context != nil {
		coreState.ContextURI = state.Context.URI
	}
	return coreState
}

// convertTrack converts a Spotify track to a core track.
func convertTrack(t *client.Track) *core.Track {
	if t == nil {
		return nil
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	artist := ""
	if len(artists) > 0 {
		artist = artists[0]
	}

	track := &core.Track{
		ID:       t.ID,
		URI:      t.URI,
		Title:    t.Name,
		Artist:   artist,
		Artists:  artists,
		Album:    t.Album.Name,
		Duration: time.Duration(t.DurationMS) * time.Millisecond,
	}
	if len(t.Album.Images) > 0 {
		track.ImageURL = t.Album.Images[0].URL
	}
	return track
}

// convertDevice converts a Spotify device to a core device.
func convertDevice(d *client.Device) *core.Device {
	if d == nil {
		return nil
	}

	var deviceType core.DeviceType
	switch d.Type {
	case "Computer":
		deviceType = core.DeviceTypeComputer
	case "Smartphone", "Tablet":
		deviceType = core.DeviceTypePhone
	case "Speaker", "AVR", "STB", "AudioDongle", "CastAudio":
		deviceType = core.DeviceTypeSpeaker
	case "TV", "CastVideo":
		deviceType = core.DeviceTypeTV
	case "Automobile":
		deviceType = core.DeviceTypeCar
	default:
		deviceType = core.DeviceTypeOther
	}

	device := &core.Device{
		ID:           d.ID,
		Name:         d.Name,
		Type:         deviceType,
		IsActive:     d.IsActive,
		IsRestricted: d.IsRestricted,
	}
	if d.VolumePercent != nil {
		volume := *d.VolumePercent
		device.Volume = &volume
	}
	return device
}

var _ core.Player = (*Player)(nil)
