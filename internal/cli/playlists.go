package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/spotify/client"
	"github.com/tessro/spotconnect/internal/spotify/player"
)

var playlistsCmd = &cobra.Command{
	Use:   "playlists [filter]",
	Short: "List your playlists",
	Long: `List the playlists you own or follow. An optional filter narrows the
list by fuzzy name match, best matches first.`,
	RunE: runPlaylists,
}

func init() {
	rootCmd.AddCommand(playlistsCmd)
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	playlists, err := player.New(c).Playlists(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if JSONOutput() {
		if playlists == nil {
			playlists = []client.Playlist{}
		}
		return printJSON(playlists)
	}

	if len(playlists) == 0 {
		fmt.Println("No playlists found")
		return nil
	}

	headers := []string{"NAME", "OWNER"}
	if Verbose() {
		headers = append(headers, "URI")
	}
	t := NewTable(headers...)
	for _, p := range playlists {
		row := []string{TruncateString(p.Name, 50), p.Owner.DisplayName}
		if Verbose() {
			row = append(row, p.URI)
		}
		t.Row(row...)
	}
	t.Flush()
	fmt.Println(paint(mutedStyle, strconv.Itoa(len(playlists))+" playlists"))
	return nil
}
