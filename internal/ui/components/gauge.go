package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/thermals/internal/ui/styles"
)

// Gauge is a horizontal bar showing one reading against a fixed range.
type Gauge struct {
	Label string
	Unit  string
	Value float64

	Min, Max   float64
	Warn, Crit float64
}

// Ratio returns the filled fraction of the bar, clamped to [0, 1].
func (g Gauge) Ratio() float64 {
	if g.Max <= g.Min {
		return 0
	}
	return math.Max(0, math.Min(1, (g.Value-g.Min)/(g.Max-g.Min)))
}

// Status classifies the reading against the gauge thresholds.
func (g Gauge) Status() styles.Status {
	return Severity(g.Value, g.Warn, g.Crit)
}

// View renders the gauge as a bordered panel of the given outer width.
//
//	╭──────────────────────╮
//	│ Coolant 1     31.4°C │
//	│ █████████░░░░░░░░░░░ │
//	╰──────────────────────╯
func (g Gauge) View(width int) string {
	// Border (2) + padding (2)
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	value := fmt.Sprintf("%.1f%s", g.Value, g.Unit)
	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.StatusColor(g.Status()))

	gap := inner - lipgloss.Width(g.Label) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	header := styles.GaugeLabelStyle.Render(g.Label) + strings.Repeat(" ", gap) + valueStyle.Render(value)

	return styles.PanelStyle.
		Width(inner + 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, g.bar(inner)))
}

func (g Gauge) bar(width int) string {
	filled := int(math.Round(g.Ratio() * float64(width)))
	empty := width - filled

	fill := lipgloss.NewStyle().
		Foreground(styles.StatusColor(g.Status())).
		Render(strings.Repeat("█", filled))
	track := lipgloss.NewStyle().
		Foreground(styles.ColorTrack).
		Render(strings.Repeat("░", empty))

	return fill + track
}

// GaugeStack renders gauges one above the other.
func GaugeStack(gauges []Gauge, width int) string {
	views := make([]string, len(gauges))
	for i, g := range gauges {
		views[i] = g.View(width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}
