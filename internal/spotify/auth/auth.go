package auth

import (
	"golang.org/x/oauth2"
)

const (
	// SpotifyAuthURL is the Spotify authorization endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"

	// SpotifyTokenURL is the Spotify token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI is the default callback URI for the local server.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
)

// DefaultScopes cover playback control, device listing and the user's
// library, playlists and listening history.
var DefaultScopes = []string{
	"user-read-private",
	"user-read-currently-playing",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-library-read",
	"user-top-read",
	"user-read-recently-played",
	"playlist-read-collaborative",
	"playlist-read-private",
}

// Config holds the OAuth configuration for one Spotify application.
type Config struct {
	ClientID     string
	ClientSecret string // optional; PKCE works without it
	RedirectURI  string
	Scopes       []string

	// AuthURL and TokenURL default to the Spotify accounts service.
	AuthURL  string
	TokenURL string
}

// NewConfig creates a new OAuth configuration with defaults.
func NewConfig(clientID string) *Config {
	return &Config{
		ClientID:    clientID,
		RedirectURI: DefaultRedirectURI,
		Scopes:      DefaultScopes,
		AuthURL:     SpotifyAuthURL,
		TokenURL:    SpotifyTokenURL,
	}
}

// OAuth2 returns the equivalent golang.org/x/oauth2 configuration.
func (c *Config) OAuth2() *oauth2.Config {
	authURL, tokenURL := c.AuthURL, c.TokenURL
	if authURL == "" {
		authURL = SpotifyAuthURL
	}
	if tokenURL == "" {
		tokenURL = SpotifyTokenURL
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       c.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
			// Spotify accepts client credentials in the form body, which is
			// also the only option for public PKCE clients.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// BuildAuthURL constructs the authorization URL with PKCE parameters.
func (c *Config) BuildAuthURL(pkce *PKCE) string {
	return c.OAuth2().AuthCodeURL(pkce.State, oauth2.S256ChallengeOption(pkce.Verifier))
}
