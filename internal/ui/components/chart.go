// Package components provides reusable UI components.
package components

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/willibrandon/thermals/internal/ui/styles"
)

// ChartSeries is one line of the chart.
type ChartSeries struct {
	Label  string
	Unit   string
	Color  string
	Latest float64
	Values []float64
}

// Chart overlays several series on a shared y-axis using asciigraph.
type Chart struct {
	title  string
	width  int
	height int
	window time.Duration

	low, high float64
	// floor and ceiling replace an empty low/high range when plotting.
	floor, ceiling float64
	series         []ChartSeries
}

// NewChart creates a chart component.
func NewChart(title string) *Chart {
	return &Chart{
		title:  title,
		width:  80,
		height: 12,
	}
}

// SetSize updates the chart dimensions.
func (c *Chart) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// SetWindow sets the duration covered by the x-axis.
func (c *Chart) SetWindow(window time.Duration) {
	c.window = window
}

// SetBounds sets the y-axis range.
func (c *Chart) SetBounds(low, high float64) {
	c.low = low
	c.high = high
}

// SetLimits sets the widest y-axis range, used in place of bounds that have
// collapsed to a single value.
func (c *Chart) SetLimits(floor, ceiling float64) {
	c.floor = floor
	c.ceiling = ceiling
}

// SetSeries replaces the plotted series.
func (c *Chart) SetSeries(series []ChartSeries) {
	c.series = series
}

// Bounds returns the y-axis range.
func (c *Chart) Bounds() (low, high float64) {
	return c.low, c.high
}

// View renders the chart.
func (c *Chart) View() string {
	header := styles.PanelTitleStyle.Render(c.title)

	graphWidth, graphHeight := c.graphSize()
	if len(c.series) == 0 || graphWidth < 10 || graphHeight < 2 {
		msg := lipgloss.NewStyle().
			Width(max(c.width, 1)).
			Align(lipgloss.Center).
			Foreground(styles.ColorMuted).
			Render("Collecting data...")
		return lipgloss.JoinVertical(lipgloss.Left, header, msg)
	}

	low, high := c.plotRange()

	data := make([][]float64, len(c.series))
	colors := make([]asciigraph.AnsiColor, len(c.series))
	legends := make([]string, len(c.series))
	for i, s := range c.series {
		data[i] = resampleData(clip(s.Values, low, high), graphWidth)
		colors[i] = lineColor(s.Color)
		legends[i] = fmt.Sprintf("%s (%.1f%s)", s.Label, s.Latest, s.Unit)
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.LowerBound(low),
		asciigraph.UpperBound(high),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)

	lines := strings.Split(strings.TrimRight(graph, "\n"), "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, c.width, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(lines, "\n"),
		c.axisCaption(),
	)
}

// plotRange returns the y-axis range to draw. asciigraph squeezes an empty
// range into a single row, so a collapsed range widens to the limits.
func (c *Chart) plotRange() (low, high float64) {
	if c.high > c.low {
		return c.low, c.high
	}
	if c.ceiling > c.floor {
		return c.floor, c.ceiling
	}
	return c.low - 1, c.high + 1
}

// graphSize returns the plot area, leaving room for y-axis labels, the
// header, the legend, and the time captions.
func (c *Chart) graphSize() (width, height int) {
	return c.width - 10, c.height - 5
}

// axisCaption labels the start, middle, and end of the x-axis.
func (c *Chart) axisCaption() string {
	if c.window <= 0 {
		return ""
	}

	left := AgoLabel(c.window)
	mid := AgoLabel(c.window / 2)
	right := "now"

	// The plot starts after the y-axis labels.
	const labelWidth = 9
	span := c.width - labelWidth
	if span < len(left)+len(mid)+len(right)+2 {
		return styles.MutedStyle.Render(strings.Repeat(" ", labelWidth) + left + " .. " + right)
	}

	line := []rune(strings.Repeat(" ", span))
	copy(line, []rune(left))
	copy(line[(span-len(mid))/2:], []rune(mid))
	copy(line[span-len(right):], []rune(right))

	return styles.MutedStyle.Render(strings.Repeat(" ", labelWidth) + string(line))
}

// AgoLabel renders d as a compact relative time, e.g. "2m30s ago".
func AgoLabel(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	return ShortDuration(d) + " ago"
}

// ShortDuration formats d without zero-valued trailing units: 5m, 2m30s, 1h.
func ShortDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		return "0s"
	}
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

// clip bounds every value to [low, high]. asciigraph widens the axis when
// data falls outside LowerBound/UpperBound, which would undo the computed
// bounds.
func clip(values []float64, low, high float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Max(low, math.Min(high, v))
	}
	return out
}

func lineColor(name string) asciigraph.AnsiColor {
	if c, ok := asciigraph.ColorNames[name]; ok {
		return c
	}
	return asciigraph.Default
}
