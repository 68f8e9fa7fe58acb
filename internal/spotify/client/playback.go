package client

import (
	"context"
	"math"
	"strconv"
)

// PlayOptions configures a play request. The zero value resumes the current
// context on the active device.
type PlayOptions struct {
	Device     Optional[string] `json:"-"`
	ContextURI string           `json:"context_uri,omitempty"`
	URIs       []string         `json:"uris,omitempty"`
	Offset     *PlayOffset      `json:"offset,omitempty"`
	PositionMS *int             `json:"position_ms,omitempty"`
}

// PlayOffset specifies where to start playback in a context.
type PlayOffset struct {
	Position *int   `json:"position,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// Play starts or resumes playback.
func (c *Client) Play(ctx context.Context, opts PlayOptions) error {
	if opts.ContextURI != "" && len(opts.URIs) > 0 {
		return invalidArgument("context URI and track URIs are mutually exclusive")
	}
	// The endpoint wants a JSON body even for a plain resume, so opts is
	// always sent and encodes to {} when nothing is set.
	return c.put(ctx, "/me/player/play", deviceQuery(opts.Device), opts)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context, device Optional[string]) error {
	return c.put(ctx, "/me/player/pause", deviceQuery(device), nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context, device Optional[string]) error {
	return c.post(ctx, "/me/player/next", deviceQuery(device))
}

// Previous skips to the previous track.
func (c *Client) Previous(ctx context.Context, device Optional[string]) error {
	return c.post(ctx, "/me/player/previous", deviceQuery(device))
}

// VolumePercent rounds volume to the nearest integer percentage and checks
// that it lies within 0-100.
func VolumePercent(volume float64) (int, error) {
	if math.IsNaN(volume) {
		return 0, invalidArgument("volume is not a number")
	}
	rounded := math.Round(volume)
	if rounded < 0 || rounded > 100 {
		return 0, invalidArgument("volume %v out of range 0-100", volume)
	}
	return int(rounded), nil
}

// SetVolume sets the playback volume. Fractional input is rounded.
func (c *Client) SetVolume(ctx context.Context, device Optional[string], volume float64) error {
	percent, err := VolumePercent(volume)
	if err != nil {
		return err
	}
	query := deviceQuery(device)
	query.Set("volume_percent", strconv.Itoa(percent))
	return c.put(ctx, "/me/player/volume", query, nil)
}

// SetShuffle turns shuffle on or off.
func (c *Client) SetShuffle(ctx context.Context, device Optional[string], state bool) error {
	query := deviceQuery(device)
	query.Set("state", strconv.FormatBool(state))
	return c.put(ctx, "/me/player/shuffle", query, nil)
}

// SetRepeat sets the repeat mode using the user vocabulary.
func (c *Client) SetRepeat(ctx context.Context, device Optional[string], mode RepeatMode) error {
	state, err := mode.State()
	if err != nil {
		return err
	}
	query := deviceQuery(device)
	query.Set("state", string(state))
	return c.put(ctx, "/me/player/repeat", query, nil)
}

type transferRequest struct {
	DeviceIDs []string `json:"device_ids,omitempty"`
	Play      bool     `json:"play"`
}

// TransferPlayback moves playback to device. With play set, playback starts
// immediately on the new device.
func (c *Client) TransferPlayback(ctx context.Context, device Optional[string], play bool) error {
	body := transferRequest{Play: play}
	if id, ok := device.Get(); ok {
		body.DeviceIDs = []string{id}
	}
	return c.put(ctx, "/me/player", nil, body)
}
