package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify" json:"spotify"`
	API      APIConfig      `toml:"api" json:"api"`
	Defaults DefaultsConfig `toml:"defaults" json:"defaults"`
	Bridge   BridgeConfig   `toml:"bridge" json:"bridge"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// SpotifyConfig holds the OAuth application settings.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" json:"client_id"`
	ClientSecret string `toml:"client_secret,omitempty" json:"-"`
	RedirectURI  string `toml:"redirect_uri" json:"redirect_uri"`
	// TokenFile overrides the default token location.
	TokenFile string `toml:"token_file,omitempty" json:"token_file,omitempty"`
}

// APIConfig holds Web API transport settings.
type APIConfig struct {
	BaseURL string `toml:"base_url" json:"base_url"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `toml:"timeout" json:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// DefaultsConfig holds default playback settings.
type DefaultsConfig struct {
	// Device is a device name or ID. Empty means the active device.
	Device string `toml:"device" json:"device"`
	Volume int    `toml:"volume" json:"volume"`
	Repeat string `toml:"repeat" json:"repeat"`
}

// BridgeConfig holds settings for the HTTP bridge.
type BridgeConfig struct {
	Addr string `toml:"addr" json:"addr"`
	// PollInterval is the playback poll interval in milliseconds.
	PollInterval int `toml:"poll_interval" json:"poll_interval"`
}

// PollDuration returns PollInterval as a time.Duration.
func (c BridgeConfig) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Millisecond
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
	File   string `toml:"file,omitempty" json:"file,omitempty"`
}
