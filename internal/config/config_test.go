package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
[spotify]
client_id = "abc"

[api]
timeout = 10

[defaults]
device = "Kitchen"
repeat = "track"

[bridge]
addr = ":9000"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Spotify.ClientID != "abc" {
		t.Errorf("ClientID = %q, want abc", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.RedirectURI != "http://127.0.0.1:8888/callback" {
		t.Errorf("RedirectURI = %q, want default", cfg.Spotify.RedirectURI)
	}
	if cfg.API.TimeoutDuration() != 10*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 10s", cfg.API.TimeoutDuration())
	}
	if cfg.API.BaseURL != "https://api.spotify.com/v1" {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Defaults.Device != "Kitchen" || cfg.Defaults.Repeat != "track" {
		t.Errorf("Defaults = %+v", cfg.Defaults)
	}
	if cfg.Bridge.Addr != ":9000" || cfg.Bridge.PollDuration() != time.Second {
		t.Errorf("Bridge = %+v", cfg.Bridge)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[spotify\nclient_id = ")
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[spotify]
client_id = "from-file"

[bridge]
poll_interval = 500
`)
	t.Setenv("SPOTCONNECT_SPOTIFY_CLIENT_ID", "from-env")
	t.Setenv("SPOTCONNECT_API_TIMEOUT", "5")
	t.Setenv("SPOTCONNECT_BRIDGE_POLL_INTERVAL", "not-a-number")
	t.Setenv("SPOTCONNECT_DEFAULT_DEVICE", "Office")
	t.Setenv("SPOTCONNECT_LOG_FORMAT", "json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Spotify.ClientID != "from-env" {
		t.Errorf("ClientID = %q, want from-env", cfg.Spotify.ClientID)
	}
	if cfg.API.Timeout != 5 {
		t.Errorf("Timeout = %d, want 5", cfg.API.Timeout)
	}
	if cfg.Bridge.PollInterval != 500 {
		t.Errorf("PollInterval = %d, want 500 (unparseable env ignored)", cfg.Bridge.PollInterval)
	}
	if cfg.Defaults.Device != "Office" {
		t.Errorf("Device = %q, want Office", cfg.Defaults.Device)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	xdg := filepath.Join(home, "xdg")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if err := os.MkdirAll(filepath.Join(xdg, "spotconnect"), 0755); err != nil {
		t.Fatal(err)
	}
	xdgFile := filepath.Join(xdg, "spotconnect", "config.toml")
	if err := os.WriteFile(xdgFile, []byte("[defaults]\ndevice = \"xdg\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.Device != "xdg" {
		t.Errorf("Device = %q, want xdg", cfg.Defaults.Device)
	}

	rc := filepath.Join(home, FileName)
	if err := os.WriteFile(rc, []byte("[defaults]\ndevice = \"rc\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.Device != "rc" {
		t.Errorf("Device = %q, want rc (home file wins)", cfg.Defaults.Device)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "missing"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bridge.Addr != Default().Bridge.Addr {
		t.Errorf("Bridge.Addr = %q, want default", cfg.Bridge.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "repeat alias", mutate: func(c *Config) { c.Defaults.Repeat = "context" }},
		{name: "volume", mutate: func(c *Config) { c.Defaults.Volume = 120 }, wantErr: "defaults: volume"},
		{name: "repeat", mutate: func(c *Config) { c.Defaults.Repeat = "album" }, wantErr: "invalid repeat mode"},
		{name: "redirect scheme", mutate: func(c *Config) { c.Spotify.RedirectURI = "https://example.com:8888/cb" }, wantErr: "spotify: invalid redirect_uri"},
		{name: "redirect port", mutate: func(c *Config) { c.Spotify.RedirectURI = "http://127.0.0.1/cb" }, wantErr: "explicit port"},
		{name: "base url", mutate: func(c *Config) { c.API.BaseURL = "not a url" }, wantErr: "api: invalid base_url"},
		{name: "timeout", mutate: func(c *Config) { c.API.Timeout = -1 }, wantErr: "timeout must be non-negative"},
		{name: "poll interval", mutate: func(c *Config) { c.Bridge.PollInterval = -5 }, wantErr: "bridge: poll_interval"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "invalid log level"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Volume = -1
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	for _, want := range []string{"defaults:", "log:"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %v, missing %q", err, want)
		}
	}
}
