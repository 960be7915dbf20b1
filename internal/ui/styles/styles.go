package styles

import "github.com/charmbracelet/lipgloss"

// Common border styles
var (
	// BorderNormal is the standard border for most UI elements
	BorderNormal = lipgloss.NormalBorder()

	// BorderRounded is used for panels
	BorderRounded = lipgloss.RoundedBorder()
)

// Panel styles
var (
	// PanelStyle is the base style for the chart, gauge, and table panels
	PanelStyle lipgloss.Style

	// PanelTitleStyle is for panel titles
	PanelTitleStyle lipgloss.Style

	// GaugeLabelStyle is for gauge labels
	GaugeLabelStyle lipgloss.Style
)

// Table styles
var (
	// TableHeaderStyle is for table column headers
	TableHeaderStyle lipgloss.Style

	// TableCellStyle is for table cells
	TableCellStyle lipgloss.Style
)

// Status bar styles
var (
	// StatusBarStyle wraps the status bar
	StatusBarStyle lipgloss.Style

	// StatusTitleStyle is for the program name
	StatusTitleStyle lipgloss.Style

	// StatusTimeStyle is for the clock
	StatusTimeStyle lipgloss.Style
)

// Help styles
var (
	// HelpStyle is for the short help line
	HelpStyle lipgloss.Style

	// HelpDialogStyle wraps the full help overlay
	HelpDialogStyle lipgloss.Style

	// HelpKeyStyle is for keyboard shortcuts
	HelpKeyStyle lipgloss.Style

	// HelpDescStyle is for shortcut descriptions
	HelpDescStyle lipgloss.Style
)

// Common UI styles
var (
	TitleStyle   lipgloss.Style
	AccentStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	PanelStyle = lipgloss.NewStyle().
		Border(BorderRounded).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	GaugeLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		BorderStyle(BorderNormal).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)

	TableCellStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	StatusBarStyle = lipgloss.NewStyle().
		Border(BorderNormal).
		BorderForeground(ColorBorder)

	StatusTitleStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	StatusTimeStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HelpDialogStyle = lipgloss.NewStyle().
		Border(BorderRounded).
		BorderForeground(ColorAccent).
		Padding(1, 2)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	AccentStyle = lipgloss.NewStyle().
		Foreground(ColorAccent)

	MutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	WarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
}
