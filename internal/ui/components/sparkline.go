package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/thermals/internal/ui/styles"
)

// SparklineConfig holds configuration for sparkline rendering.
type SparklineConfig struct {
	// Width is the number of characters for the sparkline
	Width int
	// Color is the lipgloss color for the sparkline
	Color lipgloss.Color
	// Min is the minimum value for scaling (0 = auto)
	Min float64
	// Max is the maximum value for scaling (0 = auto)
	Max float64
	// IgnoreBelow hides readings below it. Placeholder samples and
	// unavailable sensors read as zero and would flatten the scale.
	IgnoreBelow float64
}

// DefaultSparklineConfig returns sensible defaults for inline sparklines.
func DefaultSparklineConfig() SparklineConfig {
	return SparklineConfig{
		Width: 12,
		Color: lipgloss.Color("117"), // Light blue
	}
}

// RenderSparkline renders a single-line sparkline from data values.
func RenderSparkline(data []float64, config SparklineConfig) string {
	if len(data) == 0 {
		return strings.Repeat("─", config.Width)
	}
	return RenderUnicodeSparkline(data, config)
}

// RenderUnicodeSparkline renders a compact single-line sparkline using Unicode block characters.
// Uses characters: ▁▂▃▄▅▆▇█ to represent data values.
func RenderUnicodeSparkline(data []float64, config SparklineConfig) string {
	if len(data) == 0 {
		return strings.Repeat("─", config.Width)
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if v < config.IgnoreBelow {
			continue
		}
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.IsInf(minVal, 1) {
		return strings.Repeat(" ", config.Width)
	}

	if config.Min != 0 {
		minVal = config.Min
	}
	if config.Max != 0 {
		maxVal = config.Max
	}

	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	resampled := resampleData(data, config.Width)

	var sb strings.Builder
	for _, v := range resampled {
		if v < config.IgnoreBelow {
			sb.WriteRune(' ')
			continue
		}
		idx := int((v - minVal) / valueRange * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(blocks[idx])
	}

	raw := sb.String()
	if config.Color != "" {
		return lipgloss.NewStyle().Foreground(config.Color).Render(raw)
	}
	return raw
}

// RenderSparklineWithSeverity colors the sparkline by the status of its
// latest value.
func RenderSparklineWithSeverity(data []float64, config SparklineConfig, warn, crit float64) string {
	if len(data) == 0 {
		return strings.Repeat("─", config.Width)
	}
	config.Color = styles.StatusColor(Severity(data[len(data)-1], warn, crit))
	return RenderSparkline(data, config)
}

// Severity classifies v against the warn and crit thresholds.
func Severity(v, warn, crit float64) styles.Status {
	switch {
	case v >= crit:
		return styles.StatusCritical
	case v >= warn:
		return styles.StatusWarning
	default:
		return styles.StatusNormal
	}
}

// resampleData resamples data to fit within the target width.
// Uses simple averaging for downsampling.
func resampleData(data []float64, targetWidth int) []float64 {
	if targetWidth <= 0 || len(data) <= targetWidth {
		return data
	}

	result := make([]float64, targetWidth)
	bucketSize := float64(len(data)) / float64(targetWidth)

	for i := 0; i < targetWidth; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}
		if start < 0 {
			start = 0
		}

		sum := 0.0
		for j := start; j < end; j++ {
			sum += data[j]
		}
		result[i] = sum / float64(end-start)
	}

	return result
}

// SparklineTrend indicates the overall trend direction.
type SparklineTrend int

const (
	TrendStable SparklineTrend = iota
	TrendUp
	TrendDown
)

// GetTrend compares the average of the first and last third of data.
// Readings below ignoreBelow are skipped.
func GetTrend(data []float64, ignoreBelow float64) SparklineTrend {
	var values []float64
	for _, v := range data {
		if v >= ignoreBelow {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return TrendStable
	}

	third := len(values) / 3
	if third < 1 {
		third = 1
	}

	var firstSum, lastSum float64
	for i := 0; i < third; i++ {
		firstSum += values[i]
	}
	for i := len(values) - third; i < len(values); i++ {
		lastSum += values[i]
	}

	diff := lastSum/float64(third) - firstSum/float64(third)

	// Half a unit is noise for temperatures and percentages alike.
	const threshold = 0.5
	if diff > threshold {
		return TrendUp
	}
	if diff < -threshold {
		return TrendDown
	}
	return TrendStable
}

// TrendIndicator returns a Unicode arrow for the trend direction.
func TrendIndicator(trend SparklineTrend) string {
	switch trend {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	default:
		return "→"
	}
}
