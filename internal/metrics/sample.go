// Package metrics holds the sliding-window telemetry buffers and the
// chart bounds derived from them.
package metrics

import "math"

// Sentinel is the value recorded for a metric that has no reading yet or whose
// sensor is unavailable. It is stored like any other observation.
const Sentinel = 0.0

// Sample is a single reading at a tick index.
type Sample struct {
	Tick  float64
	Value float64
}

// normalize maps values that cannot be plotted or compared to the sentinel.
func normalize(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Sentinel
	}
	return v
}
