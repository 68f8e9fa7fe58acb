package core

import "time"

// Track represents a playable audio track.
type Track struct {
	ID       string        `json:"id"`
	URI      string        `json:"uri"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Artists  []string      `json:"artists"`
	Album    string        `json:"album"`
	ImageURL string        `json:"image_url,omitempty"`
	Duration time.Duration `json:"duration"`
}
