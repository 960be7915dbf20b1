package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette.
type Theme struct {
	Name     string
	Normal   lipgloss.Color
	Warning  lipgloss.Color
	Critical lipgloss.Color
	Border   lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Text     lipgloss.Color
	Track    lipgloss.Color
}

// Built-in themes
var (
	DarkTheme = Theme{
		Name:     "dark",
		Normal:   lipgloss.Color("10"),
		Warning:  lipgloss.Color("11"),
		Critical: lipgloss.Color("9"),
		Border:   lipgloss.Color("240"),
		Accent:   lipgloss.Color("6"),
		Muted:    lipgloss.Color("8"),
		Text:     lipgloss.Color("7"),
		Track:    lipgloss.Color("237"),
	}

	LightTheme = Theme{
		Name:     "light",
		Normal:   lipgloss.Color("28"),
		Warning:  lipgloss.Color("136"),
		Critical: lipgloss.Color("160"),
		Border:   lipgloss.Color("250"),
		Accent:   lipgloss.Color("25"),
		Muted:    lipgloss.Color("244"),
		Text:     lipgloss.Color("235"),
		Track:    lipgloss.Color("253"),
	}
)

var current = DarkTheme

// SetTheme switches the palette and rebuilds every style.
func SetTheme(name string) error {
	switch name {
	case DarkTheme.Name, "":
		current = DarkTheme
	case LightTheme.Name:
		current = LightTheme
	default:
		return fmt.Errorf("unknown theme %q", name)
	}

	ColorNormal = current.Normal
	ColorWarning = current.Warning
	ColorCritical = current.Critical
	ColorBorder = current.Border
	ColorAccent = current.Accent
	ColorMuted = current.Muted
	ColorText = current.Text
	ColorError = current.Critical
	ColorTrack = current.Track

	buildStyles()
	return nil
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	return current
}
