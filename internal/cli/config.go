package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/spotconnect/internal/config"
	clierrors "github.com/tessro/spotconnect/internal/errors"
	"github.com/tessro/spotconnect/internal/spotify/player"
)

const configHeader = "# spotconnect configuration\n\n"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing spotconnect configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in $EDITOR.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  spotify.client_id      Spotify application client ID
  spotify.client_secret  Spotify application secret (optional with PKCE)
  spotify.redirect_uri   OAuth redirect URI
  spotify.token_file     Token file location
  api.base_url           Web API base URL
  api.timeout            Request timeout in seconds
  defaults.device        Default playback device name or ID
  defaults.volume        Default volume (0-100)
  defaults.repeat        Default repeat mode (none/track/playlist)
  bridge.addr            Bridge listen address
  bridge.poll_interval   Playback poll interval in milliseconds
  log.level              debug, info, warn or error
  log.format             text or json
  log.file               Log file path

Examples:
  spotconnect config set defaults.device "Kitchen"
  spotconnect config set bridge.addr 0.0.0.0:8787`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetDeviceCmd = &cobra.Command{
	Use:   "set-device",
	Short: "Interactively select default device",
	Long:  `Shows a picker to select the default playback device.`,
	RunE:  runConfigSetDevice,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetDeviceCmd)
	rootCmd.AddCommand(configCmd)
}

// settableKeys maps each key to its TOML kind.
var settableKeys = map[string]string{
	"spotify.client_id":     "string",
	"spotify.client_secret": "string",
	"spotify.redirect_uri":  "string",
	"spotify.token_file":    "string",
	"api.base_url":          "string",
	"api.timeout":           "int",
	"defaults.device":       "string",
	"defaults.volume":       "int",
	"defaults.repeat":       "string",
	"bridge.addr":           "string",
	"bridge.poll_interval":  "int",
	"log.level":             "string",
	"log.format":            "string",
	"log.file":              "string",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	shown := *cfg
	if shown.Spotify.ClientSecret != "" {
		shown.Spotify.ClientSecret = "********"
	}
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(shown)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", clierrors.ErrConfigNotFound, configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := writeConfigFile(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "created", "path": configPath})
	}
	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set spotify.client_id in the config file or via SPOTCONNECT_SPOTIFY_CLIENT_ID")
	fmt.Println("  2. Run 'spotconnect auth login' to authenticate with Spotify")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func writeConfigFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString(configHeader)
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// The file may hold a client secret.
	if err := os.WriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// setConfigValue updates one key in a raw TOML document, keeping unknown
// keys intact. The result is validated before it is returned.
func setConfigValue(raw map[string]any, key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown key %q (run 'spotconnect config set --help' for the list)", key)
	}
	section, field, _ := strings.Cut(key, ".")

	var typed any = value
	if kind == "int" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typed = int64(i)
	}

	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	// Round-trip through the typed config to validate the new value.
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}
	var check config.Config
	if _, err := toml.Decode(buf.String(), &check); err != nil {
		return err
	}
	return check.Validate()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath := getConfigPath()
	raw := make(map[string]any)
	if _, err := toml.DecodeFile(configPath, &raw); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := setConfigValue(raw, key, value); err != nil {
		return err
	}
	if err := writeConfigFile(configPath, raw); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "updated", "key": key, "value": value})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigSetDevice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !stdinIsTerminal() {
		return fmt.Errorf("set-device needs an interactive terminal; use 'spotconnect config set defaults.device <name>'")
	}

	c, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	devices, err := player.New(c).GetDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no devices found. Make sure Spotify is open on at least one device")
	}

	options := make([]huh.Option[string], 0, len(devices))
	for _, d := range devices {
		label := fmt.Sprintf("%s (%s)", d.Name, d.Type)
		if d.IsActive {
			label += " [active]"
		}
		options = append(options, huh.NewOption(label, d.Name))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select default device").
				Description("Commands without --device will target this device").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	return runConfigSet(cmd, []string{"defaults.device", selected})
}
