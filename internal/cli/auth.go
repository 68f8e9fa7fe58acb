package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/browser"
	clierrors "github.com/tessro/spotconnect/internal/errors"
	"github.com/tessro/spotconnect/internal/spotify/auth"
)

var loginTimeout time.Duration

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Spotify authentication",
	Long:  `Commands for managing Spotify OAuth authentication.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long: `Opens a browser to authenticate with Spotify using the OAuth PKCE flow.
The redirect URI (spotify.redirect_uri) must be registered for your
Spotify application and point at this machine.`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth tokens from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows the current Spotify authentication status.`,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "how long to wait for the browser callback")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if cfg.Spotify.ClientID == "" {
		return clierrors.ErrNotConfigured
	}

	pkce, err := auth.NewPKCE()
	if err != nil {
		return fmt.Errorf("failed to generate PKCE: %w", err)
	}

	oauthCfg := authConfig()
	callbackServer, err := auth.NewCallbackServer(oauthCfg.RedirectURI)
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	callbackServer.Start()
	defer func() { _ = callbackServer.Shutdown(context.Background()) }()

	authURL := oauthCfg.BuildAuthURL(pkce)
	fmt.Println("Opening browser for Spotify authentication...")
	if err := browser.Open(authURL); err != nil {
		logger.Debug("browser launch failed", "err", err)
		fmt.Printf("Could not open browser automatically.\n")
		fmt.Printf("Please open this URL in your browser:\n\n%s\n\n", authURL)
	}

	fmt.Println("Waiting for authentication...")
	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	result, err := callbackServer.Wait(ctx)
	if err != nil {
		return fmt.Errorf("authentication timed out: %w", err)
	}
	code, err := pkce.CheckCallback(result)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	token, err := oauthCfg.Exchange(ctx, code, pkce)
	if err != nil {
		return err
	}

	storage, err := tokenStorage()
	if err != nil {
		return err
	}
	if err := storage.Save(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	c, err := newClient(cmd.Context(), nil)
	if err != nil {
		return err
	}
	user, err := c.GetCurrentUser(cmd.Context())
	if err != nil {
		logger.Warn("token stored but profile lookup failed", "err", err)
		fmt.Println("Authentication successful! Token stored.")
		return nil
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"status":       "authenticated",
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"product":      user.Product,
		})
	}
	fmt.Printf("Successfully authenticated as %s\n", paint(accentStyle, user.DisplayName))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	storage, err := tokenStorage()
	if err != nil {
		return err
	}

	if !storage.Exists() {
		if JSONOutput() {
			return printJSON(map[string]string{"status": "not_authenticated"})
		}
		fmt.Println("Not authenticated with Spotify.")
		return nil
	}

	if err := storage.Delete(); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "logged_out"})
	}
	fmt.Println("Logged out of Spotify.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	storage, err := tokenStorage()
	if err != nil {
		return err
	}
	token, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	if token == nil {
		if JSONOutput() {
			return printJSON(map[string]any{"authenticated": false})
		}
		fmt.Println("Not authenticated with Spotify.")
		fmt.Println("Run 'spotconnect auth login' to authenticate.")
		return nil
	}

	// The refreshing client proves the refresh token still works.
	c, err := newClient(cmd.Context(), nil)
	if err != nil {
		return err
	}
	user, err := c.GetCurrentUser(cmd.Context())
	if err != nil {
		if JSONOutput() {
			return printJSON(map[string]any{
				"authenticated": true,
				"valid":         false,
				"error":         err.Error(),
			})
		}
		fmt.Printf("Stored token is not usable: %v\n", err)
		fmt.Println("Run 'spotconnect auth login' to re-authenticate.")
		return nil
	}

	// Reload: a refresh during the profile call rewrites the file.
	if fresh, err := storage.Load(); err == nil && fresh != nil {
		token = fresh
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"authenticated": true,
			"valid":         true,
			"user_id":       user.ID,
			"display_name":  user.DisplayName,
			"product":       user.Product,
			"expires_at":    token.Expiry,
			"token_file":    storage.Path(),
		})
	}
	fmt.Printf("Authenticated as: %s\n", paint(accentStyle, user.DisplayName))
	fmt.Printf("Account type: %s\n", user.Product)
	if !token.Expiry.IsZero() {
		fmt.Printf("Token expires: %s\n", token.Expiry.Local().Format(time.RFC3339))
	}
	if Verbose() {
		fmt.Printf("Token file: %s\n", storage.Path())
	}
	return nil
}
