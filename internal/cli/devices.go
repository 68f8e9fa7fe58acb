package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/core"
	"github.com/tessro/spotconnect/internal/spotify/player"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long:  `Lists the Spotify Connect devices currently visible to your account.`,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	devices, err := player.New(c).GetDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	if JSONOutput() {
		if devices == nil {
			devices = []core.Device{}
		}
		return printJSON(devices)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found. Open Spotify on a device to make it visible.")
		return nil
	}

	headers := []string{"", "NAME", "TYPE", "VOLUME"}
	if Verbose() {
		headers = append(headers, "ID")
	}
	t := NewTable(headers...)
	for _, d := range devices {
		volume := "-"
		if d.Volume != nil {
			volume = strconv.Itoa(*d.Volume) + "%"
		}
		name := d.Name
		if d.IsRestricted {
			name += " (restricted)"
		}
		row := []string{StatusIcon(d.IsActive), name, deviceIcon(d.Type) + " " + string(d.Type), volume}
		if Verbose() {
			row = append(row, d.ID)
		}
		t.Row(row...)
	}
	t.Flush()
	return nil
}

func deviceIcon(deviceType core.DeviceType) string {
	switch deviceType {
	case core.DeviceTypeComputer:
		return "💻"
	case core.DeviceTypePhone:
		return "📱"
	case core.DeviceTypeSpeaker:
		return "🔊"
	case core.DeviceTypeTV:
		return "📺"
	case core.DeviceTypeCar:
		return "🚗"
	default:
		return "🎧"
	}
}
