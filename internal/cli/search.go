package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/spotify/client"
)

var (
	searchType  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the Spotify catalog",
	Long: `Search the Spotify catalog for playlists, albums, artists or tracks.

Examples:
  spotconnect search "deep focus"
  spotconnect search --type album "kind of blue"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", string(client.SearchTypePlaylist), "playlist, album, artist or track")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := client.ParseSearchType(searchType)
	if err != nil {
		return err
	}

	c, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	results, err := c.Search(ctx, client.SearchOptions{
		Query: strings.Join(args, " "),
		Types: []client.SearchType{st},
		Limit: searchLimit,
	})
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(results)
	}

	t := NewTable("NAME", "BY", "URI")
	rows := 0
	switch st {
	case client.SearchTypePlaylist:
		if results.Playlists != nil {
			for _, p := range results.Playlists.Items {
				t.Row(TruncateString(p.Name, 40), p.Owner.DisplayName, p.URI)
				rows++
			}
		}
	case client.SearchTypeAlbum:
		if results.Albums != nil {
			for _, a := range results.Albums.Items {
				t.Row(TruncateString(a.Name, 40), firstArtist(a.Artists), a.URI)
				rows++
			}
		}
	case client.SearchTypeArtist:
		if results.Artists != nil {
			for _, a := range results.Artists.Items {
				t.Row(TruncateString(a.Name, 40), "", a.URI)
				rows++
			}
		}
	case client.SearchTypeTrack:
		if results.Tracks != nil {
			for _, tr := range results.Tracks.Items {
				t.Row(TruncateString(tr.Name, 40), firstArtist(tr.Artists), tr.URI)
				rows++
			}
		}
	}

	if rows == 0 {
		fmt.Println("No results")
		return nil
	}
	t.Flush()
	return nil
}
