package metrics

import (
	"errors"
	"fmt"
	"time"
)

// Snapshot is one reading per metric name. A missing name reads as Sentinel.
type Snapshot map[string]float64

// Value returns the reading for name, or Sentinel when absent.
func (s Snapshot) Value(name string) float64 {
	if v, ok := s[name]; ok {
		return v
	}
	return Sentinel
}

// Capacity derives the number of retained samples from the poll interval and
// the retained window duration. A window shorter than the interval degrades
// to a single sample.
func Capacity(interval, window time.Duration) (int, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %v: %w", interval, ErrInvalidCapacity)
	}
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive, got %v: %w", window, ErrInvalidCapacity)
	}

	capacity := int(window / interval)
	if capacity < 1 {
		capacity = 1
	}
	return capacity, nil
}

// Store owns one Series per tracked metric and advances them in lockstep.
//
// A Store has a single owner: the loop that calls Tick is also the one that
// reads views for rendering, so no locking is done.
type Store struct {
	names    []string
	series   map[string]*Series
	capacity int

	start float64
	end   float64
	ticks int

	started time.Time
}

// NewStore creates a Store for names, seeding every series from initial.
func NewStore(names []string, capacity int, initial Snapshot) (*Store, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("store capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	if len(names) == 0 {
		return nil, errors.New("store requires at least one metric")
	}

	s := &Store{
		names:    make([]string, 0, len(names)),
		series:   make(map[string]*Series, len(names)),
		capacity: capacity,
		start:    0,
		end:      float64(capacity - 1),
		started:  time.Now(),
	}

	for _, name := range names {
		if name == "" {
			return nil, errors.New("metric name cannot be empty")
		}
		if _, dup := s.series[name]; dup {
			return nil, fmt.Errorf("duplicate metric %q", name)
		}

		series, err := NewSeries(capacity, initial.Value(name))
		if err != nil {
			return nil, err
		}
		s.names = append(s.names, name)
		s.series[name] = series
	}

	return s, nil
}

// Tick advances every series with its reading from snap and moves the shared
// window forward by one tick.
func (s *Store) Tick(snap Snapshot) {
	for _, name := range s.names {
		s.series[name].Advance(snap.Value(name))
	}
	s.start++
	s.end++
	s.ticks++
}

// View returns the read-only series for name.
func (s *Store) View(name string) (View, bool) {
	series, ok := s.series[name]
	if !ok {
		return nil, false
	}
	return series, true
}

// Views returns the series for names in the given order, skipping unknown names.
func (s *Store) Views(names ...string) []View {
	views := make([]View, 0, len(names))
	for _, name := range names {
		if series, ok := s.series[name]; ok {
			views = append(views, series)
		}
	}
	return views
}

// Window returns the tick bounds shared by every series, used as the chart
// x-axis range.
func (s *Store) Window() (start, end float64) {
	return s.start, s.end
}

// Names returns the tracked metric names in construction order.
func (s *Store) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Capacity returns the number of samples each series retains.
func (s *Store) Capacity() int {
	return s.capacity
}

// Ticks returns the number of ticks applied since construction.
func (s *Store) Ticks() int {
	return s.ticks
}

// Started returns the time the store was seeded.
func (s *Store) Started() time.Time {
	return s.started
}
