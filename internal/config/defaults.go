package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		API: APIConfig{
			BaseURL: "https://api.spotify.com/v1",
			Timeout: 30,
		},
		Defaults: DefaultsConfig{
			Volume: 50,
			Repeat: "none",
		},
		Bridge: BridgeConfig{
			Addr:         "127.0.0.1:8787",
			PollInterval: 1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}

	if c.Defaults.Volume == 0 {
		c.Defaults.Volume = d.Defaults.Volume
	}
	if c.Defaults.Repeat == "" {
		c.Defaults.Repeat = d.Defaults.Repeat
	}

	if c.Bridge.Addr == "" {
		c.Bridge.Addr = d.Bridge.Addr
	}
	if c.Bridge.PollInterval == 0 {
		c.Bridge.PollInterval = d.Bridge.PollInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}
