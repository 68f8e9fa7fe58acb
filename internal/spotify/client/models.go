package client

// User represents a Spotify user profile.
type User struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	Email        string       `json:"email"`
	Country      string       `json:"country"`
	Product      string       `json:"product"`
	URI          string       `json:"uri"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ExternalURLs contains external URLs for a resource.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Device represents a Spotify Connect playback device.
type Device struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	IsActive         bool   `json:"is_active"`
	IsRestricted     bool   `json:"is_restricted"`
	IsPrivateSession bool   `json:"is_private_session"`
	VolumePercent    *int   `json:"volume_percent"` // null for devices without volume control
	SupportsVolume   bool   `json:"supports_volume"`
}

type devicesResponse struct {
	Devices []Device `json:"devices"`
}

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Device               Device      `json:"device"`
	ShuffleState         bool        `json:"shuffle_state"`
	RepeatState          RepeatState `json:"repeat_state"`
	Timestamp            int64       `json:"timestamp"`
	ProgressMS           int         `json:"progress_ms"`
	IsPlaying            bool        `json:"is_playing"`
	Item                 *Track      `json:"item"`
	CurrentlyPlayingType string      `json:"currently_playing_type"` // track, episode, ad, unknown
	Context              *Context    `json:"context"`
}

// Track represents a Spotify track.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri"`
	DurationMS   int          `json:"duration_ms"`
	Explicit     bool         `json:"explicit"`
	TrackNumber  int          `json:"track_number"`
	Popularity   int          `json:"popularity"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Album represents a Spotify album.
type Album struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri"`
	AlbumType    string       `json:"album_type"`
	TotalTracks  int          `json:"total_tracks"`
	ReleaseDate  string       `json:"release_date"`
	Images       []Image      `json:"images"`
	Artists      []Artist     `json:"artists"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Context represents a playback context (album, artist, playlist).
type Context struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	URI           string       `json:"uri"`
	Description   string       `json:"description"`
	Public        bool         `json:"public"`
	Collaborative bool         `json:"collaborative"`
	Images        []Image      `json:"images"`
	Owner         User         `json:"owner"`
	ExternalURLs  ExternalURLs `json:"external_urls"`
}

// Page is one page of a paged result envelope.
type Page[T any] struct {
	Items  []T    `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Href   string `json:"href"`
	Next   string `json:"next"`
}

// SearchResponse represents the response from a search query. Only the
// categories that were requested are populated.
type SearchResponse struct {
	Tracks    *Page[Track]    `json:"tracks,omitempty"`
	Artists   *Page[Artist]   `json:"artists,omitempty"`
	Albums    *Page[Album]    `json:"albums,omitempty"`
	Playlists *Page[Playlist] `json:"playlists,omitempty"`
}
