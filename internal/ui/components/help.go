package components

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/ui/styles"
)

// maxHelpEntries is how many log entries the help overlay lists in debug mode.
const maxHelpEntries = 5

// HelpText is the full help overlay.
type HelpText struct {
	width  int
	height int

	bindings [][]key.Binding
}

// NewHelp creates a help overlay listing bindings in groups.
func NewHelp(bindings [][]key.Binding) *HelpText {
	return &HelpText{bindings: bindings}
}

// SetSize sets the size of the help component
func (h *HelpText) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help screen
func (h *HelpText) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, group := range h.bindings {
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			help := binding.Help()
			b.WriteString(h.formatShortcut(help.Key, help.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.MutedStyle.Render("Readings of 0 mean the sensor is unavailable or not yet sampled."))

	if logger.IsDebugEnabled() {
		if recent := recentEntries(maxHelpEntries); len(recent) > 0 {
			b.WriteString("\n\n")
			b.WriteString(styles.TitleStyle.Render("Recent Warnings"))
			for _, e := range recent {
				b.WriteString("\n")
				b.WriteString(entryStyle(e).Render(e.Format()))
			}
		}
	}

	dialog := styles.HelpDialogStyle.Render(b.String())

	if h.width > 0 {
		dialog = lipgloss.Place(
			h.width,
			h.height,
			lipgloss.Center,
			lipgloss.Center,
			dialog,
		)
	}

	return dialog
}

// recentEntries returns the last n captured warnings and errors.
func recentEntries(n int) []logger.LogEntry {
	entries := logger.GetEntries()
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

func entryStyle(e logger.LogEntry) lipgloss.Style {
	if e.Level >= slog.LevelError {
		return styles.ErrorStyle
	}
	return styles.WarningStyle
}

// formatShortcut formats a keyboard shortcut with its description
func (h *HelpText) formatShortcut(keys, description string) string {
	return styles.HelpKeyStyle.Width(12).Render(keys) + styles.HelpDescStyle.Render(description) + "\n"
}
