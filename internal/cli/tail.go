package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/spotify/player"
	"github.com/tessro/spotconnect/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch for playback state changes and print them as they happen.

Events tracked:
  - Track changes, completions and skips
  - Pause/Resume
  - Volume, device, shuffle and repeat changes

--format takes a Go template with the fields .Type .Emoji .Time .Title
.Artist .Album .Device .Volume .Shuffle .Repeat, for example:
  spotconnect tail --format '{{.Time}} {{.Artist}} - {{.Title}}'`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default bridge.poll_interval)")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := []tail.FormatterOption{
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
	}
	if tailFormat != "" {
		tmpl, err := tail.ParseTemplate(tailFormat)
		if err != nil {
			return err
		}
		opts = append(opts, tail.WithTemplate(tmpl))
	}
	formatter := tail.NewFormatter(opts...)

	c, err := newClient(ctx, nil)
	if err != nil {
		return err
	}

	interval := tailInterval
	if interval <= 0 {
		interval = cfg.Bridge.PollDuration()
	}
	watcher := tail.NewWatcher(player.New(c), interval, tail.WithLogger(logger))
	events, unsubscribe := watcher.Subscribe()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Run(ctx) }()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return ignoreCanceled(<-errCh)
			}
			if JSONOutput() {
				line, err := tail.FormatJSON(e)
				if err != nil {
					return err
				}
				fmt.Println(line)
				continue
			}
			fmt.Println(formatter.Format(e))
		case err := <-errCh:
			return ignoreCanceled(err)
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
