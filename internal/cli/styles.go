package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorAccent  = lipgloss.Color("#7C3AED")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#9CA3AF")
	colorBorder  = lipgloss.Color("#4B5563")
	spotifyGreen = lipgloss.Color("#1DB954")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	playingStyle = lipgloss.NewStyle().Foreground(spotifyGreen)
	pausedStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// stdoutIsTerminal reports whether stdout is an interactive terminal.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// stdinIsTerminal reports whether prompts can be shown.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// styled reports whether human output should carry color.
func styled() bool {
	return !JSONOutput() && stdoutIsTerminal()
}

// paint renders s with style on a terminal and leaves it plain otherwise.
func paint(style lipgloss.Style, s string) string {
	if !styled() {
		return s
	}
	return style.Render(s)
}
