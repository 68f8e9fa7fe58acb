package player

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/tessro/spotconnect/internal/spotify/client"
)

// FilterPlaylists returns the playlists whose names fuzzily match query,
// best match first. An empty query returns playlists unchanged.
func FilterPlaylists(playlists []client.Playlist, query string) []client.Playlist {
	if query == "" {
		return playlists
	}

	names := make([]string, len(playlists))
	for i, p := range playlists {
		names[i] = p.Name
	}

	matches := fuzzy.RankFindFold(query, names)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	result := make([]client.Playlist, 0, len(matches))
	for _, m := range matches {
		result = append(result, playlists[m.OriginalIndex])
	}
	return result
}
