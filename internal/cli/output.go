package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// printJSON writes v to stdout as one JSON document.
func printJSON(v any) error {
	return json.NewEncoder(os.Stdout).Encode(v)
}

// Table collects rows and renders them as a bordered table on a terminal,
// or as tab-aligned columns when piped.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
	styled  bool
}

// NewTable creates a new table on stdout with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{out: os.Stdout, headers: headers, styled: styled()}
}

// NewTableWriter creates an unstyled table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	return &Table{out: out, headers: headers}
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Flush writes the table output.
func (t *Table) Flush() {
	if t.styled {
		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
			Headers(t.headers...).
			Rows(t.rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		_, _ = fmt.Fprintln(t.out, tbl.Render())
		return
	}

	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	if len(t.headers) > 0 {
		_, _ = fmt.Fprintln(w, strings.Join(t.headers, "\t"))
	}
	for _, row := range t.rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// TruncateString truncates a string to maxLen runes, adding "..." if
// truncated.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// onOff renders a boolean setting for humans.
func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
