package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// PlaylistPageSize is the page size used when listing the user's playlists.
const PlaylistPageSize = 50

// GetUserPlaylists returns every playlist owned or followed by the user.
// Results are cached for PlaylistCacheTTL.
func (c *Client) GetUserPlaylists(ctx context.Context) ([]Playlist, error) {
	return c.playlists.Get(ctx, c.fetchAllPlaylists)
}

// InvalidatePlaylists forces the next GetUserPlaylists call to refetch.
func (c *Client) InvalidatePlaylists() {
	c.playlists.Invalidate()
}

// fetchAllPlaylists pages through /me/playlists until a page comes back
// short. An account whose playlist count is an exact multiple of the page
// size costs one extra, empty request.
func (c *Client) fetchAllPlaylists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist
	for offset := 0; ; offset += PlaylistPageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(PlaylistPageSize))
		query.Set("offset", strconv.Itoa(offset))

		var page Page[Playlist]
		if err := c.get(ctx, "/me/playlists", query, &page); err != nil {
			return nil, fmt.Errorf("fetch playlists at offset %d: %w", offset, err)
		}
		c.metrics.PlaylistPage()
		playlists = append(playlists, page.Items...)

		if len(page.Items) < PlaylistPageSize {
			return playlists, nil
		}
	}
}
