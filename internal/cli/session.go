package cli

import (
	"context"
	"fmt"
	"strings"

	clierrors "github.com/tessro/spotconnect/internal/errors"
	"github.com/tessro/spotconnect/internal/metrics"
	"github.com/tessro/spotconnect/internal/spotify/auth"
	"github.com/tessro/spotconnect/internal/spotify/client"
	"github.com/tessro/spotconnect/internal/spotify/player"
)

func authConfig() *auth.Config {
	c := auth.NewConfig(cfg.Spotify.ClientID)
	c.ClientSecret = cfg.Spotify.ClientSecret
	if cfg.Spotify.RedirectURI != "" {
		c.RedirectURI = cfg.Spotify.RedirectURI
	}
	return c
}

func tokenStorage() (*auth.TokenStorage, error) {
	storage, err := auth.NewTokenStorage(cfg.Spotify.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}
	return storage, nil
}

// newClient builds an API client from the stored token. The token source
// refreshes through ctx, so ctx must outlive the client.
func newClient(ctx context.Context, m *metrics.Metrics) (*client.Client, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, clierrors.ErrNotConfigured
	}

	storage, err := tokenStorage()
	if err != nil {
		return nil, err
	}
	tok, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if tok == nil {
		return nil, client.ErrNotAuthenticated
	}

	return client.New(authConfig().TokenSource(ctx, tok, storage),
		client.WithBaseURL(cfg.API.BaseURL),
		client.WithTimeout(cfg.API.TimeoutDuration()),
		client.WithLogger(logger),
		client.WithMetrics(m),
	), nil
}

// newPlayer returns a player aimed at device, falling back to
// defaults.device and then to the active device.
func newPlayer(ctx context.Context, device string) (*player.Player, error) {
	c, err := newClient(ctx, nil)
	if err != nil {
		return nil, err
	}
	p := player.New(c)

	if device == "" {
		device = cfg.Defaults.Device
	}
	if device == "" {
		return p, nil
	}

	id, err := resolveDevice(ctx, p, device)
	if err != nil {
		return nil, err
	}
	return p.WithDevice(client.OnDevice(id)), nil
}

// resolveDevice maps a device ID or name to an ID. Names match exactly
// (case-insensitive) before they match as a substring.
func resolveDevice(ctx context.Context, p *player.Player, nameOrID string) (string, error) {
	devices, err := p.GetDevices(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get devices: %w", err)
	}

	for _, d := range devices {
		if d.ID == nameOrID {
			return d.ID, nil
		}
	}

	nameLower := strings.ToLower(nameOrID)
	for _, d := range devices {
		if strings.ToLower(d.Name) == nameLower {
			return d.ID, nil
		}
	}
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), nameLower) {
			return d.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %q", clierrors.ErrDeviceNotFound, nameOrID)
}
