package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/bridge"
	"github.com/tessro/spotconnect/internal/metrics"
	"github.com/tessro/spotconnect/internal/spotify/client"
	"github.com/tessro/spotconnect/internal/spotify/player"
	"github.com/tessro/spotconnect/internal/tail"
)

var (
	serveAddr     string
	serveNoEvents bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP bridge",
	Long: `Serve playback control over HTTP so home-automation hubs can drive
Spotify Connect devices without handling OAuth themselves.

Endpoints:
  GET  /healthz, /metrics
  GET  /api/devices, /api/player, /api/playlists?q=, /api/search?type=&q=
  POST /api/player/{play,pause,next,previous,active}
  PUT  /api/player/{volume,shuffle,repeat,transfer}
  GET  /api/events (websocket)

Every /api/player route accepts ?device_id= to pick a device; otherwise
defaults.device or the active device is used.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default bridge.addr)")
	serveCmd.Flags().BoolVar(&serveNoEvents, "no-events", false, "disable the playback watcher and /api/events")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	c, err := newClient(ctx, m)
	if err != nil {
		return err
	}
	p := player.New(c)

	opts := []bridge.Option{
		bridge.WithGatherer(reg),
		bridge.WithLogger(logger),
	}

	if name := cfg.Defaults.Device; name != "" {
		// Devices that are asleep at startup are resolved per request instead.
		if id, err := resolveDevice(ctx, p, name); err == nil {
			opts = append(opts, bridge.WithDefaultDevice(client.OnDevice(id)))
		} else {
			logger.Warn("default device not resolved, using the active device", "device", name, "err", err)
		}
	}

	if !serveNoEvents {
		watcher := tail.NewWatcher(p, cfg.Bridge.PollDuration(),
			tail.WithLogger(logger),
			tail.WithMetrics(m),
		)
		go func() {
			if err := watcher.Run(ctx); ignoreCanceled(err) != nil {
				logger.Error("playback watcher stopped", "err", err)
			}
		}()
		opts = append(opts, bridge.WithWatcher(watcher))
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Bridge.Addr
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           bridge.New(p, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !JSONOutput() {
		fmt.Printf("Bridge listening on http://%s\n", addr)
	}
	return bridge.Run(ctx, server, logger)
}
