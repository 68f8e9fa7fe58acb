package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/spotify/client"
	"github.com/tessro/spotconnect/internal/spotify/player"
)

var (
	playTo       string
	playAlbum    bool
	playPlaylist bool
	playArtist   bool
	playURI      string
	playShuffle  bool
)

var playCmd = &cobra.Command{
	Use:   "play [query]",
	Short: "Start or resume playback",
	Long: `Start playback of a track, album, playlist, or artist.
Without arguments, resumes current playback.

--playlist looks through your own playlists first and falls back to a
catalog search.

Examples:
  spotconnect play                         # Resume playback
  spotconnect play "bohemian rhapsody"     # Search and play a track
  spotconnect play --album "abbey road"    # Search and play an album
  spotconnect play --playlist "morning"    # Play one of your playlists
  spotconnect play --uri spotify:album:xxx # Play a specific URI
  spotconnect play --to "Kitchen"          # Resume on a specific device`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playTo, "to", "", "target device name or ID")
	playCmd.Flags().BoolVar(&playAlbum, "album", false, "search for albums")
	playCmd.Flags().BoolVar(&playPlaylist, "playlist", false, "search for playlists")
	playCmd.Flags().BoolVar(&playArtist, "artist", false, "search for artists")
	playCmd.Flags().StringVar(&playURI, "uri", "", "play a specific Spotify URI")
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "enable shuffle before playing")
	playCmd.MarkFlagsMutuallyExclusive("album", "playlist", "artist", "uri")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := newPlayer(ctx, playTo)
	if err != nil {
		return err
	}

	if playShuffle {
		if err := p.SetShuffle(ctx, true); err != nil {
			logger.Warn("could not enable shuffle", "err", err)
		}
	}

	if playURI != "" {
		return playByURI(ctx, p, playURI)
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		if err := p.SetPlaying(ctx, true); err != nil {
			return err
		}
		if JSONOutput() {
			return printJSON(map[string]string{"status": "playing"})
		}
		fmt.Println("▶ Resumed playback")
		return nil
	}

	return searchAndPlay(ctx, p, query)
}

func playByURI(ctx context.Context, p *player.Player, uri string) error {
	var err error
	if strings.HasPrefix(uri, "spotify:track:") {
		err = p.PlayTrack(ctx, uri)
	} else {
		err = p.PlayContext(ctx, uri)
	}
	if err != nil {
		return err
	}
	outputPlayResult("uri", uri, "", uri)
	return nil
}

func searchAndPlay(ctx context.Context, p *player.Player, query string) error {
	switch {
	case playPlaylist:
		if matches, err := p.Playlists(ctx, query); err == nil && len(matches) > 0 {
			pl := matches[0]
			if err := p.PlayContext(ctx, pl.URI); err != nil {
				return err
			}
			outputPlayResult("playlist", pl.Name, pl.Owner.DisplayName, pl.URI)
			return nil
		} else if err != nil {
			logger.Debug("library playlist lookup failed", "err", err)
		}

		results, err := p.Search(ctx, client.SearchTypePlaylist, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if results.Playlists != nil && len(results.Playlists.Items) > 0 {
			pl := results.Playlists.Items[0]
			if err := p.PlayContext(ctx, pl.URI); err != nil {
				return err
			}
			outputPlayResult("playlist", pl.Name, pl.Owner.DisplayName, pl.URI)
			return nil
		}

	case playAlbum:
		results, err := p.Search(ctx, client.SearchTypeAlbum, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if results.Albums != nil && len(results.Albums.Items) > 0 {
			album := results.Albums.Items[0]
			if err := p.PlayContext(ctx, album.URI); err != nil {
				return err
			}
			outputPlayResult("album", album.Name, firstArtist(album.Artists), album.URI)
			return nil
		}

	case playArtist:
		results, err := p.Search(ctx, client.SearchTypeArtist, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if results.Artists != nil && len(results.Artists.Items) > 0 {
			artist := results.Artists.Items[0]
			if err := p.PlayContext(ctx, artist.URI); err != nil {
				return err
			}
			outputPlayResult("artist", artist.Name, "", artist.URI)
			return nil
		}

	default:
		results, err := p.Search(ctx, client.SearchTypeTrack, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if results.Tracks != nil && len(results.Tracks.Items) > 0 {
			track := results.Tracks.Items[0]
			if err := p.PlayTrack(ctx, track.URI); err != nil {
				return err
			}
			outputPlayResult("track", track.Name, firstArtist(track.Artists), track.URI)
			return nil
		}
	}

	return fmt.Errorf("no results found for %q", query)
}

func firstArtist(artists []client.Artist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

func outputPlayResult(itemType, name, by, uri string) {
	if JSONOutput() {
		out := map[string]any{
			"status": "playing",
			"type":   itemType,
			"name":   name,
			"uri":    uri,
		}
		if by != "" {
			out["by"] = by
		}
		_ = printJSON(out)
		return
	}

	if by != "" {
		fmt.Printf("▶ Playing %s: %s by %s\n", itemType, paint(accentStyle, name), by)
	} else {
		fmt.Printf("▶ Playing %s: %s\n", itemType, paint(accentStyle, name))
	}
}
