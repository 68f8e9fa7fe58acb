package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/core"
	"github.com/tessro/spotconnect/internal/spotify/player"
)

var statusDevice string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusDevice, "device", "d", "", "only show status if this device is playing")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	p := player.New(c)

	state, err := p.GetState(ctx)
	if err != nil {
		return err
	}

	if statusDevice != "" && state.Device != nil {
		id, err := resolveDevice(ctx, p, statusDevice)
		if err != nil {
			return err
		}
		if state.Device.ID != id {
			state = &core.PlaybackState{}
		}
	}

	if JSONOutput() {
		return printJSON(state)
	}

	if !state.HasTrack() {
		fmt.Println("No active playback")
		return nil
	}

	icon := paint(playingStyle, "▶")
	if !state.IsPlaying {
		icon = paint(pausedStyle, "⏸")
	}
	fmt.Printf("%s %s\n", icon, paint(titleStyle, state.Track.Title))
	fmt.Printf("  %s\n", paint(mutedStyle, state.Track.Artist+" — "+state.Track.Album))
	fmt.Printf("  %s %s / %s\n",
		formatProgressBar(state.ProgressPercent(), 30),
		formatDuration(state.Progress),
		formatDuration(state.Track.Duration))

	if state.Device != nil {
		fmt.Printf("  📱 %s (🔊 %d%%)\n", state.Device.Name, state.Volume)
	}
	fmt.Printf("  %s\n", paint(mutedStyle, fmt.Sprintf("shuffle %s · repeat %s", onOff(state.Shuffle), state.Repeat)))
	if Verbose() && state.ContextURI != "" {
		fmt.Printf("  context: %s\n", state.ContextURI)
	}
	return nil
}
