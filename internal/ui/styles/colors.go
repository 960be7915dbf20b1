// Package styles provides centralized Lipgloss styling for the thermals UI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Status is the severity of a reading relative to its thresholds.
type Status int

const (
	StatusNormal Status = iota
	StatusWarning
	StatusCritical
)

// Color palette. Theme swaps these values; see SetTheme.
var (
	// Reading status colors
	ColorNormal   = lipgloss.Color("10") // Green - below warn
	ColorWarning  = lipgloss.Color("11") // Yellow - between warn and crit
	ColorCritical = lipgloss.Color("9")  // Red - at or above crit

	// UI element colors
	ColorBorder = lipgloss.Color("240") // Gray - all borders
	ColorAccent = lipgloss.Color("6")   // Cyan - titles, highlights
	ColorMuted  = lipgloss.Color("8")   // Dark gray - secondary text
	ColorText   = lipgloss.Color("7")
	ColorError  = lipgloss.Color("9")

	// Gauge track
	ColorTrack = lipgloss.Color("237")
)

// StatusColor returns the color for a reading status.
func StatusColor(status Status) lipgloss.Color {
	switch status {
	case StatusWarning:
		return ColorWarning
	case StatusCritical:
		return ColorCritical
	default:
		return ColorNormal
	}
}
