package metrics

import (
	"errors"
	"fmt"

	"github.com/VividCortex/ewma"
)

// ErrInvalidCapacity is returned when a series or store is sized below one sample.
var ErrInvalidCapacity = errors.New("capacity must be at least 1")

// View is the read-only handle handed to the renderer.
type View interface {
	Samples() []Sample
	Values() []float64
	Latest() float64
	Range() (min, max float64)
	Average() float64
	Len() int
}

// Series is a fixed-size sliding window of samples for one metric.
// The window is always full: construction pre-fills it with placeholder
// samples so that every series of a store shares the same tick domain.
//
// Series is not safe for concurrent use; it is owned by a single Store.
type Series struct {
	data     []Sample
	capacity int
	head     int // Oldest sample; also the next write position

	min float64
	max float64
	avg ewma.MovingAverage
}

// NewSeries creates a Series holding capacity-1 placeholder samples followed
// by first at tick capacity-1. The running extrema start at first.
func NewSeries(capacity int, first float64) (*Series, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("series capacity %d: %w", capacity, ErrInvalidCapacity)
	}

	first = normalize(first)

	data := make([]Sample, capacity)
	for i := 0; i < capacity-1; i++ {
		data[i] = Sample{Tick: float64(i), Value: Sentinel}
	}
	data[capacity-1] = Sample{Tick: float64(capacity - 1), Value: first}

	s := &Series{
		data:     data,
		capacity: capacity,
		min:      first,
		max:      first,
		avg:      ewma.NewMovingAverage(),
	}
	s.avg.Add(first)

	return s, nil
}

// Advance evicts the oldest sample and appends v at the next tick index.
func (s *Series) Advance(v float64) {
	v = normalize(v)
	next := s.data[s.newest()].Tick + 1

	// The oldest slot becomes the newest one.
	s.data[s.head] = Sample{Tick: next, Value: v}
	s.head = (s.head + 1) % s.capacity

	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
	s.avg.Add(v)
}

// newest returns the index of the most recent sample.
func (s *Series) newest() int {
	return (s.head - 1 + s.capacity) % s.capacity
}

// Latest returns the most recent value.
func (s *Series) Latest() float64 {
	return s.data[s.newest()].Value
}

// Range returns the all-time minimum and maximum, including values that have
// already scrolled out of the window.
func (s *Series) Range() (min, max float64) {
	return s.min, s.max
}

// Average returns an exponentially weighted moving average (ewma.SimpleEWMA,
// roughly the last 30 readings) of the values passed to NewSeries and
// Advance. Placeholders are excluded; sentinel readings of unavailable
// sensors are included.
func (s *Series) Average() float64 {
	return s.avg.Value()
}

// At returns the i-th sample, counting from the oldest.
func (s *Series) At(i int) Sample {
	return s.data[(s.head+i)%s.capacity]
}

// Samples returns a copy of the window in chronological order.
func (s *Series) Samples() []Sample {
	result := make([]Sample, s.capacity)
	n := copy(result, s.data[s.head:])
	copy(result[n:], s.data[:s.head])
	return result
}

// Values returns the window values in chronological order.
// This is suitable for passing directly to asciigraph.
func (s *Series) Values() []float64 {
	result := make([]float64, s.capacity)
	for i := range result {
		result[i] = s.At(i).Value
	}
	return result
}

// FirstTick returns the tick index of the oldest sample.
func (s *Series) FirstTick() float64 {
	return s.data[s.head].Tick
}

// LastTick returns the tick index of the newest sample.
func (s *Series) LastTick() float64 {
	return s.data[s.newest()].Tick
}

// Len returns the number of samples in the window. It always equals Cap.
func (s *Series) Len() int {
	return len(s.data)
}

// Cap returns the capacity of the series.
func (s *Series) Cap() int {
	return s.capacity
}
