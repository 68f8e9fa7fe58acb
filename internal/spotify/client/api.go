package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// GetCurrentUser returns the current user's profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetDevices returns the user's available playback devices.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	var resp devicesResponse
	if err := c.get(ctx, "/me/player/devices", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// GetPlaybackState returns the current playback state. When nothing is
// playing the API answers 204 and the returned state is empty.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := c.get(ctx, "/me/player", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SearchType represents a category of Spotify content to search.
type SearchType string

const (
	SearchTypeTrack    SearchType = "track"
	SearchTypeArtist   SearchType = "artist"
	SearchTypeAlbum    SearchType = "album"
	SearchTypePlaylist SearchType = "playlist"
)

// ParseSearchType validates a search category name.
func ParseSearchType(s string) (SearchType, error) {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case SearchTypeTrack, SearchTypeArtist, SearchTypeAlbum, SearchTypePlaylist:
		return t, nil
	}
	return "", invalidArgument("unknown search type %q (use playlist, album, artist or track)", s)
}

// SearchOptions configures a search query.
type SearchOptions struct {
	Query  string
	Types  []SearchType // defaults to playlist
	Limit  int
	Offset int
	Market string
}

// Search performs a catalog search and returns the raw result envelope.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, invalidArgument("search query cannot be empty")
	}

	types := make([]string, len(opts.Types))
	for i, t := range opts.Types {
		types[i] = string(t)
	}
	if len(types) == 0 {
		types = []string{string(SearchTypePlaylist)}
	}

	query := url.Values{}
	query.Set("q", opts.Query)
	query.Set("type", strings.Join(types, ","))
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Market != "" {
		query.Set("market", opts.Market)
	}

	var resp SearchResponse
	if err := c.get(ctx, "/search", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchPlaylists searches the catalog for playlists.
func (c *Client) SearchPlaylists(ctx context.Context, q string) (*SearchResponse, error) {
	return c.Search(ctx, SearchOptions{Query: q, Types: []SearchType{SearchTypePlaylist}})
}

// SearchAlbums searches the catalog for albums.
func (c *Client) SearchAlbums(ctx context.Context, q string) (*SearchResponse, error) {
	return c.Search(ctx, SearchOptions{Query: q, Types: []SearchType{SearchTypeAlbum}})
}

// SearchArtists searches the catalog for artists.
func (c *Client) SearchArtists(ctx context.Context, q string) (*SearchResponse, error) {
	return c.Search(ctx, SearchOptions{Query: q, Types: []SearchType{SearchTypeArtist}})
}

// SearchTracks searches the catalog for tracks.
func (c *Client) SearchTracks(ctx context.Context, q string) (*SearchResponse, error) {
	return c.Search(ctx, SearchOptions{Query: q, Types: []SearchType{SearchTypeTrack}})
}
