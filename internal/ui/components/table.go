package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/willibrandon/thermals/internal/ui/styles"
)

// Column alignment
const (
	AlignLeft = iota
	AlignRight
)

// Table renders rows of pre-formatted cells with fixed column widths.
type Table struct {
	headers []string
	rows    [][]string
	align   []int

	columnWidths []int
}

// NewTable creates a new table component
func NewTable(headers []string, align []int) *Table {
	t := &Table{headers: headers, align: align}
	t.calculateColumnWidths()
	return t
}

// SetRows sets the table rows
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	t.calculateColumnWidths()
}

// calculateColumnWidths sizes each column to its widest cell. Widths are
// measured in terminal cells, not bytes, so labels such as "°C" line up.
func (t *Table) calculateColumnWidths() {
	t.columnWidths = make([]int, len(t.headers))

	for i, header := range t.headers {
		t.columnWidths[i] = runewidth.StringWidth(header)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(t.columnWidths) {
				t.columnWidths[i] = max(t.columnWidths[i], lipgloss.Width(cell))
			}
		}
	}
}

// Width returns the rendered width of the table.
func (t *Table) Width() int {
	w := 0
	for _, cw := range t.columnWidths {
		w += cw
	}
	if n := len(t.columnWidths); n > 1 {
		w += n - 1 // one space between columns
	}
	return w
}

// View renders the table
func (t *Table) View() string {
	var b strings.Builder

	b.WriteString(styles.TableHeaderStyle.Render(t.renderRow(t.headers)))

	for _, row := range t.rows {
		b.WriteString("\n")
		b.WriteString(styles.TableCellStyle.Render(t.renderRow(row)))
	}

	return b.String()
}

// renderRow pads every cell to its column width.
func (t *Table) renderRow(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := 0
		if i < len(t.columnWidths) {
			width = t.columnWidths[i]
		}

		pad := width - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		if i < len(t.align) && t.align[i] == AlignRight {
			parts[i] = strings.Repeat(" ", pad) + cell
		} else {
			parts[i] = cell + strings.Repeat(" ", pad)
		}
	}
	return strings.Join(parts, " ")
}

// SensorRow is one line of the summary table.
type SensorRow struct {
	Label   string
	Unit    string
	Current float64
	Min     float64
	Max     float64
	Avg     float64
	Trend   []float64

	// Warn and Crit color the trend; zero Crit leaves it uncolored.
	Warn, Crit float64
}

// SensorTable is the summary table next to the gauges.
type SensorTable struct {
	rows        []SensorRow
	trendWidth  int
	labelWidth  int
	ignoreBelow float64
}

// NewSensorTable creates a summary table. Readings below ignoreBelow are left
// out of the trend sparkline.
func NewSensorTable(ignoreBelow float64) *SensorTable {
	return &SensorTable{
		trendWidth:  12,
		labelWidth:  16,
		ignoreBelow: ignoreBelow,
	}
}

// SetRows replaces the table rows.
func (s *SensorTable) SetRows(rows []SensorRow) {
	s.rows = rows
}

// SetTrendWidth sets the sparkline width.
func (s *SensorTable) SetTrendWidth(width int) {
	if width > 0 {
		s.trendWidth = width
	}
}

// View renders the table.
func (s *SensorTable) View() string {
	t := NewTable(
		[]string{"Sensor", "Curr", "Min", "Max", "Avg", "Trend"},
		[]int{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	)

	rows := make([][]string, len(s.rows))
	for i, r := range s.rows {
		config := DefaultSparklineConfig()
		config.Width = s.trendWidth
		config.IgnoreBelow = s.ignoreBelow

		var trend string
		if r.Crit > 0 {
			trend = RenderSparklineWithSeverity(r.Trend, config, r.Warn, r.Crit)
		} else {
			trend = RenderSparkline(r.Trend, config)
		}
		trend += " " + TrendIndicator(GetTrend(r.Trend, s.ignoreBelow))

		rows[i] = []string{
			runewidth.FillRight(runewidth.Truncate(r.Label, s.labelWidth, "…"), s.labelWidth),
			formatReading(r.Current, r.Unit),
			formatReading(r.Min, r.Unit),
			formatReading(r.Max, r.Unit),
			formatReading(r.Avg, r.Unit),
			trend,
		}
	}
	t.SetRows(rows)

	return t.View()
}

func formatReading(v float64, unit string) string {
	return fmt.Sprintf("%.1f%s", v, unit)
}
