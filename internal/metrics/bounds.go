package metrics

import (
	"fmt"
	"math"
)

// Chart bound defaults.
const (
	DefaultFloor     = 25.0
	DefaultCeiling   = 90.0
	DefaultPadding   = 2.0
	DefaultThreshold = 0.01
)

// BoundsConfig controls how the shared chart y-axis is derived.
type BoundsConfig struct {
	// Floor is the lowest value the axis may start at.
	Floor float64
	// Ceiling is the highest value the axis may end at.
	Ceiling float64
	// Padding is added below the lowest and above the highest reading.
	Padding float64
	// Threshold marks readings below it as placeholders or unavailable sensors.
	Threshold float64
}

// DefaultBoundsConfig returns the stock chart bounds.
func DefaultBoundsConfig() BoundsConfig {
	return BoundsConfig{
		Floor:     DefaultFloor,
		Ceiling:   DefaultCeiling,
		Padding:   DefaultPadding,
		Threshold: DefaultThreshold,
	}
}

// Validate reports whether the configuration can produce a usable axis.
func (c BoundsConfig) Validate() error {
	if math.IsNaN(c.Floor) || math.IsNaN(c.Ceiling) {
		return fmt.Errorf("chart floor and ceiling must be numbers")
	}
	if c.Floor >= c.Ceiling {
		return fmt.Errorf("chart floor (%.2f) must be below ceiling (%.2f)", c.Floor, c.Ceiling)
	}
	if c.Padding < 0 {
		return fmt.Errorf("chart padding must be >= 0, got %.2f", c.Padding)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("chart threshold must be >= 0, got %.2f", c.Threshold)
	}
	return nil
}

// Bounds computes the y-axis range for a chart overlaying several series.
type Bounds struct {
	cfg BoundsConfig
}

// NewBounds creates a Bounds calculator.
func NewBounds(cfg BoundsConfig) *Bounds {
	return &Bounds{cfg: cfg}
}

// Config returns the calculator configuration.
func (b *Bounds) Config() BoundsConfig {
	return b.cfg
}

// Compute returns [low, high] for the current window contents of series.
//
// Positions where any series still reads below the threshold are ignored so
// that placeholders and missing sensors do not drag the axis down to zero.
// The result always lies within [Floor, Ceiling]; when no position survives
// the filter the full range is returned.
func (b *Bounds) Compute(series ...View) (low, high float64) {
	if len(series) == 0 {
		return b.cfg.Floor, b.cfg.Ceiling
	}

	columns := make([][]float64, len(series))
	length := -1
	for i, s := range series {
		columns[i] = s.Values()
		if length < 0 || len(columns[i]) < length {
			length = len(columns[i])
		}
	}

	lowest := math.Inf(1)
	highest := math.Inf(-1)
	found := false

	for pos := 0; pos < length; pos++ {
		posMin := math.Inf(1)
		posMax := math.Inf(-1)
		for _, col := range columns {
			v := col[pos]
			posMin = math.Min(posMin, v)
			posMax = math.Max(posMax, v)
		}

		if posMin < b.cfg.Threshold || posMax < b.cfg.Threshold {
			continue
		}

		found = true
		lowest = math.Min(lowest, posMin)
		highest = math.Max(highest, posMax)
	}

	if !found {
		return b.cfg.Floor, b.cfg.Ceiling
	}

	low = b.clamp(lowest - b.cfg.Padding)
	high = b.clamp(highest + b.cfg.Padding)
	return low, high
}

func (b *Bounds) clamp(v float64) float64 {
	return math.Max(b.cfg.Floor, math.Min(b.cfg.Ceiling, v))
}
