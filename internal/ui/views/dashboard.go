// Package views composes components into full screens.
package views

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/thermals/internal/config"
	"github.com/willibrandon/thermals/internal/metrics"
	"github.com/willibrandon/thermals/internal/sensors"
	"github.com/willibrandon/thermals/internal/ui/components"
	"github.com/willibrandon/thermals/internal/ui/styles"
)

const (
	gaugeWidth     = 30
	gaugeHeight    = 4 // border (2) + label + bar
	minChartHeight = 8
)

// DashboardView is the only screen: the temperature chart on top and a
// bottom row of gauges next to the summary table.
type DashboardView struct {
	width  int
	height int

	chart  *components.Chart
	table  *components.SensorTable
	gauges []config.GaugeConfig

	// Rendered state, refreshed on every tick.
	gaugeValues []components.Gauge
}

// NewDashboard creates the dashboard. threshold hides placeholder readings
// from the trend sparklines, matching the chart bounds filter.
func NewDashboard(gauges []config.GaugeConfig, window time.Duration, threshold float64) *DashboardView {
	chart := components.NewChart("Temperatures")
	chart.SetWindow(window)

	return &DashboardView{
		chart:  chart,
		table:  components.NewSensorTable(threshold),
		gauges: gauges,
	}
}

// SetSize sets the area available to the dashboard.
func (d *DashboardView) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.layout()
}

func (d *DashboardView) layout() {
	d.chart.SetSize(d.width, max(d.height-d.bottomHeight(), minChartHeight))

	// Whatever is left of the row after the gauges and the fixed table
	// columns goes to the trend sparkline.
	trend := d.width - gaugeWidth - 60
	d.table.SetTrendWidth(min(max(trend, 8), 40))
}

func (d *DashboardView) bottomHeight() int {
	tableHeight := len(sensors.Names()) + 4 // header, rule, border
	return max(len(d.gauges)*gaugeHeight, tableHeight)
}

// Refresh pulls the current window out of the store.
func (d *DashboardView) Refresh(store *metrics.Store, bounds *metrics.Bounds) {
	var series []components.ChartSeries
	for _, name := range sensors.ChartNames() {
		v, ok := store.View(name)
		if !ok {
			continue
		}
		m, _ := sensors.Lookup(name)
		series = append(series, components.ChartSeries{
			Label:  m.Label,
			Unit:   m.Unit,
			Color:  m.Color,
			Latest: v.Latest(),
			Values: v.Values(),
		})
	}
	d.chart.SetSeries(series)
	limits := bounds.Config()
	d.chart.SetLimits(limits.Floor, limits.Ceiling)
	d.chart.SetBounds(bounds.Compute(store.Views(sensors.ChartNames()...)...))

	thresholds := make(map[string]config.GaugeConfig, len(d.gauges))
	for _, g := range d.gauges {
		thresholds[g.Metric] = g
	}

	var rows []components.SensorRow
	for _, m := range sensors.Catalog() {
		v, ok := store.View(m.Name)
		if !ok {
			continue
		}
		lo, hi := v.Range()
		g := thresholds[m.Name]
		rows = append(rows, components.SensorRow{
			Label:   m.Label,
			Unit:    m.Unit,
			Current: v.Latest(),
			Min:     lo,
			Max:     hi,
			Avg:     v.Average(),
			Trend:   v.Values(),
			Warn:    g.Warn,
			Crit:    g.Crit,
		})
	}
	d.table.SetRows(rows)

	d.gaugeValues = d.gaugeValues[:0]
	for _, g := range d.gauges {
		v, ok := store.View(g.Metric)
		if !ok {
			continue
		}
		m, _ := sensors.Lookup(g.Metric)
		d.gaugeValues = append(d.gaugeValues, components.Gauge{
			Label: m.Label,
			Unit:  m.Unit,
			Value: v.Latest(),
			Min:   g.Min,
			Max:   g.Max,
			Warn:  g.Warn,
			Crit:  g.Crit,
		})
	}
}

// ChartBounds returns the y-axis range of the last refresh.
func (d *DashboardView) ChartBounds() (low, high float64) {
	return d.chart.Bounds()
}

// View renders the dashboard.
func (d *DashboardView) View() string {
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		components.GaugeStack(d.gaugeValues, gaugeWidth),
		" ",
		styles.PanelStyle.Render(d.table.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		d.chart.View(),
		bottom,
	)
}
