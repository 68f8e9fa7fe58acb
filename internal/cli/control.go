package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/spotify/client"
	"github.com/tessro/spotconnect/internal/spotify/player"
)

var controlDevice string

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd, "paused", "⏸ Paused", func(ctx context.Context, p *player.Player) error {
			return p.Pause(ctx)
		})
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume playback",
	Long:  `Resume playback. With --device, playback is transferred there first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd, "playing", "▶ Resumed", func(ctx context.Context, p *player.Player) error {
			return p.SetPlaying(ctx, true)
		})
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd, "skipped", "⏭ Skipped to next track", func(ctx context.Context, p *player.Player) error {
			return p.Next(ctx)
		})
	},
}

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"previous"},
	Short:   "Go to previous track",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(cmd, "previous", "⏮ Previous track", func(ctx context.Context, p *player.Player) error {
			return p.Prev(ctx)
		})
	},
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Show, set or adjust volume",
	Long: `Show the playback volume, set it (0-100), or adjust it up/down.

Examples:
  spotconnect volume          # Show the current volume
  spotconnect volume 50       # Set volume to 50%
  spotconnect volume --up     # Increase volume by 10%
  spotconnect volume --down   # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

var shuffleCmd = &cobra.Command{
	Use:       "shuffle <on|off>",
	Short:     "Turn shuffle on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runShuffle,
}

var repeatCmd = &cobra.Command{
	Use:   "repeat <none|track|playlist>",
	Short: "Set the repeat mode",
	Long: `Set the repeat mode.

  none      play through once
  track     repeat the current track
  playlist  repeat the current album or playlist`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"none", "track", "playlist"},
	RunE:      runRepeat,
}

var transferPlay bool

var transferCmd = &cobra.Command{
	Use:   "transfer <device>",
	Short: "Move playback to another device",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransfer,
}

func init() {
	for _, c := range []*cobra.Command{pauseCmd, resumeCmd, nextCmd, prevCmd, volumeCmd, shuffleCmd, repeatCmd} {
		c.Flags().StringVarP(&controlDevice, "device", "d", "", "target device name or ID")
		rootCmd.AddCommand(c)
	}
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "decrease volume by 10%")
	volumeCmd.MarkFlagsMutuallyExclusive("up", "down")

	transferCmd.Flags().BoolVar(&transferPlay, "play", false, "start playback after transferring")
	rootCmd.AddCommand(transferCmd)
}

func runControl(cmd *cobra.Command, status, message string, fn func(context.Context, *player.Player) error) error {
	ctx := cmd.Context()
	p, err := newPlayer(ctx, controlDevice)
	if err != nil {
		return err
	}
	if err := fn(ctx, p); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": status})
	}
	fmt.Println(message)
	return nil
}

func runVolume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var target int
	if len(args) > 0 {
		if volumeUp || volumeDown {
			return fmt.Errorf("give a level or --up/--down, not both")
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid volume level: %s", args[0])
		}
		// Validates the range before any request is made.
		if target, err = client.VolumePercent(v); err != nil {
			return err
		}
	}

	p, err := newPlayer(ctx, controlDevice)
	if err != nil {
		return err
	}

	relative := volumeUp || volumeDown
	var current int
	if len(args) == 0 {
		state, err := p.GetState(ctx)
		if err != nil {
			return fmt.Errorf("failed to get playback state: %w", err)
		}
		if state.Device == nil {
			return fmt.Errorf("nothing is playing")
		}
		current = state.Volume
		if !relative {
			if JSONOutput() {
				return printJSON(map[string]any{"volume": current, "device": state.Device.Name})
			}
			fmt.Printf("🔊 Volume: %d%% (%s)\n", current, state.Device.Name)
			return nil
		}
		target = current + 10
		if volumeDown {
			target = current - 10
		}
		target = max(0, min(target, 100))
	}

	if err := p.SetVolume(ctx, float64(target)); err != nil {
		return err
	}

	if JSONOutput() {
		out := map[string]any{"volume": target}
		if relative {
			out["previous"] = current
		}
		return printJSON(out)
	}
	if relative {
		fmt.Printf("🔊 Volume: %d%% (was %d%%)\n", target, current)
	} else {
		fmt.Printf("🔊 Volume: %d%%\n", target)
	}
	return nil
}

func runShuffle(cmd *cobra.Command, args []string) error {
	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		on = true
	case "off", "false", "no":
	default:
		return fmt.Errorf("%w: shuffle must be on or off, got %q", client.ErrInvalidArgument, args[0])
	}

	return runControl(cmd, "shuffle_"+onOff(on), "🔀 Shuffle "+onOff(on), func(ctx context.Context, p *player.Player) error {
		return p.SetShuffle(ctx, on)
	})
}

func runRepeat(cmd *cobra.Command, args []string) error {
	mode, err := client.ParseRepeatMode(args[0])
	if err != nil {
		return err
	}
	return runControl(cmd, "repeat_"+string(mode), "🔁 Repeat "+string(mode), func(ctx context.Context, p *player.Player) error {
		return p.SetRepeat(ctx, string(mode))
	})
}

func runTransfer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := newPlayer(ctx, args[0])
	if err != nil {
		return err
	}
	if err := p.Transfer(ctx, transferPlay); err != nil {
		return err
	}

	id, _ := p.Device().Get()
	if JSONOutput() {
		return printJSON(map[string]any{"status": "transferred", "device_id": id, "playing": transferPlay})
	}
	fmt.Printf("📱 Playback moved to %s\n", args[0])
	return nil
}
