package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Spotify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotify: %w", err))
	}
	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("api: %w", err))
	}
	if err := c.Defaults.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if err := c.Bridge.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bridge: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.RedirectURI == "" {
		return nil
	}
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect_uri: %w", err)
	}
	if u.Scheme != "http" || u.Port() == "" {
		return fmt.Errorf("invalid redirect_uri %q: must be http with an explicit port", c.RedirectURI)
	}
	return nil
}

// Validate checks APIConfig for errors.
func (c *APIConfig) Validate() error {
	var errs []error
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid base_url %q", c.BaseURL))
		}
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must be non-negative"))
	}
	return errors.Join(errs...)
}

// Validate checks DefaultsConfig for errors.
func (c *DefaultsConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	switch strings.ToLower(c.Repeat) {
	case "", "none", "off", "track", "playlist", "context":
	default:
		return fmt.Errorf("invalid repeat mode: %s (must be none, track, or playlist)", c.Repeat)
	}
	return nil
}

// Validate checks BridgeConfig for errors.
func (c *BridgeConfig) Validate() error {
	if c.PollInterval < 0 {
		return errors.New("poll_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	var errs []error
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level))
	}
	switch c.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %s (must be text or json)", c.Format))
	}
	return errors.Join(errs...)
}
