package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the per-user config file in the home directory.
const FileName = ".spotconnectrc"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.spotconnectrc, $XDG_CONFIG_HOME/spotconnect/config.toml
// (XDG_CONFIG_HOME defaults to ~/.config).
func Load() (*Config, error) {
	path := findConfigFile()
	if path == "" {
		cfg := &Config{}
		cfg.ApplyDefaults()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns the path `config init` writes to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths := []string{
		filepath.Join(home, FileName),
		filepath.Join(xdgConfig, "spotconnect", "config.toml"),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyEnvOverrides applies SPOTCONNECT_* environment variables. Integer
// variables that do not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}

	setString("SPOTCONNECT_SPOTIFY_CLIENT_ID", &cfg.Spotify.ClientID)
	setString("SPOTCONNECT_SPOTIFY_CLIENT_SECRET", &cfg.Spotify.ClientSecret)
	setString("SPOTCONNECT_SPOTIFY_REDIRECT_URI", &cfg.Spotify.RedirectURI)
	setString("SPOTCONNECT_SPOTIFY_TOKEN_FILE", &cfg.Spotify.TokenFile)

	setString("SPOTCONNECT_API_BASE_URL", &cfg.API.BaseURL)
	setInt("SPOTCONNECT_API_TIMEOUT", &cfg.API.Timeout)

	setString("SPOTCONNECT_DEFAULT_DEVICE", &cfg.Defaults.Device)

	setString("SPOTCONNECT_BRIDGE_ADDR", &cfg.Bridge.Addr)
	setInt("SPOTCONNECT_BRIDGE_POLL_INTERVAL", &cfg.Bridge.PollInterval)

	setString("SPOTCONNECT_LOG_LEVEL", &cfg.Log.Level)
	setString("SPOTCONNECT_LOG_FORMAT", &cfg.Log.Format)
	setString("SPOTCONNECT_LOG_FILE", &cfg.Log.File)
}
