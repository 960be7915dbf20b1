package metrics

import (
	"errors"
	"math"
	"testing"
)

func TestNewSeries_Prefill(t *testing.T) {
	s, err := NewSeries(5, 40.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Sample{
		{Tick: 0, Value: 0},
		{Tick: 1, Value: 0},
		{Tick: 2, Value: 0},
		{Tick: 3, Value: 0},
		{Tick: 4, Value: 40.0},
	}

	samples := s.Samples()
	if len(samples) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(samples))
	}
	for i, sample := range samples {
		if sample != expected[i] {
			t.Errorf("expected sample[%d]=%v, got %v", i, expected[i], sample)
		}
	}

	min, max := s.Range()
	if min != 40.0 || max != 40.0 {
		t.Errorf("expected range (40, 40), got (%f, %f)", min, max)
	}
	if s.Latest() != 40.0 {
		t.Errorf("expected latest 40, got %f", s.Latest())
	}
}

func TestNewSeries_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -150} {
		_, err := NewSeries(capacity, 1.0)
		if !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("capacity %d: expected ErrInvalidCapacity, got %v", capacity, err)
		}
	}
}

func TestSeries_Advance(t *testing.T) {
	s, _ := NewSeries(5, 40.0)

	s.Advance(42.0)

	expected := []Sample{
		{Tick: 1, Value: 0},
		{Tick: 2, Value: 0},
		{Tick: 3, Value: 0},
		{Tick: 4, Value: 40.0},
		{Tick: 5, Value: 42.0},
	}
	for i, sample := range s.Samples() {
		if sample != expected[i] {
			t.Errorf("expected sample[%d]=%v, got %v", i, expected[i], sample)
		}
	}

	min, max := s.Range()
	if min != 40.0 || max != 42.0 {
		t.Errorf("expected range (40, 42), got (%f, %f)", min, max)
	}
}

func TestSeries_FixedLength(t *testing.T) {
	s, _ := NewSeries(7, 1.0)

	for i := 0; i < 100; i++ {
		s.Advance(float64(i))
		if s.Len() != 7 {
			t.Fatalf("tick %d: expected len 7, got %d", i, s.Len())
		}
		if len(s.Samples()) != 7 || len(s.Values()) != 7 {
			t.Fatalf("tick %d: expected 7 samples and values", i)
		}
	}
}

func TestSeries_Eviction(t *testing.T) {
	s, _ := NewSeries(3, 1.0)

	s.Advance(2.0)
	s.Advance(3.0)
	s.Advance(4.0)

	values := s.Values()
	expected := []float64{2.0, 3.0, 4.0}
	for i, v := range values {
		if v != expected[i] {
			t.Errorf("expected value[%d]=%f, got %f", i, expected[i], v)
		}
	}

	if s.FirstTick() != 3 || s.LastTick() != 5 {
		t.Errorf("expected ticks [3, 5], got [%f, %f]", s.FirstTick(), s.LastTick())
	}
}

func TestSeries_TicksContiguous(t *testing.T) {
	s, _ := NewSeries(4, 10.0)

	for i := 0; i < 11; i++ {
		s.Advance(10.0)
		samples := s.Samples()
		for j := 1; j < len(samples); j++ {
			if samples[j].Tick != samples[j-1].Tick+1 {
				t.Fatalf("tick %d: non-contiguous ticks %v", i, samples)
			}
		}
	}
}

func TestSeries_AllTimeExtrema(t *testing.T) {
	s, _ := NewSeries(3, 50.0)

	// 10.0 and 90.0 scroll out of the window but remain the extrema.
	readings := []float64{10.0, 90.0, 50.0, 50.0, 50.0, 50.0}
	for _, v := range readings {
		s.Advance(v)
		min, max := s.Range()
		if v < min || v > max {
			t.Fatalf("reading %f outside range (%f, %f)", v, min, max)
		}
	}

	min, max := s.Range()
	if min != 10.0 || max != 90.0 {
		t.Errorf("expected range (10, 90), got (%f, %f)", min, max)
	}
	for _, v := range s.Values() {
		if v == 10.0 || v == 90.0 {
			t.Errorf("expected extrema to have scrolled out, window %v", s.Values())
		}
	}
}

func TestSeries_SentinelCountsTowardRange(t *testing.T) {
	s, _ := NewSeries(3, 40.0)

	s.Advance(Sentinel)

	min, _ := s.Range()
	if min != Sentinel {
		t.Errorf("expected sentinel dip in min, got %f", min)
	}
}

func TestSeries_PlaceholdersExcludedFromRange(t *testing.T) {
	s, _ := NewSeries(150, 35.5)

	min, max := s.Range()
	if min != 35.5 || max != 35.5 {
		t.Errorf("expected placeholders ignored, got (%f, %f)", min, max)
	}
}

func TestSeries_NonFiniteReadings(t *testing.T) {
	s, _ := NewSeries(3, math.NaN())
	if s.Latest() != Sentinel {
		t.Errorf("expected NaN to read as sentinel, got %f", s.Latest())
	}

	s.Advance(math.Inf(1))
	if s.Latest() != Sentinel {
		t.Errorf("expected +Inf to read as sentinel, got %f", s.Latest())
	}
	_, max := s.Range()
	if math.IsInf(max, 0) {
		t.Error("expected max to stay finite")
	}
}

func TestSeries_CapacityOne(t *testing.T) {
	s, _ := NewSeries(1, 30.0)

	if s.Len() != 1 || s.Latest() != 30.0 || s.LastTick() != 0 {
		t.Fatalf("unexpected initial state %v", s.Samples())
	}

	s.Advance(31.0)
	samples := s.Samples()
	if len(samples) != 1 || samples[0] != (Sample{Tick: 1, Value: 31.0}) {
		t.Errorf("unexpected state after advance %v", samples)
	}
}

func TestSeries_Average(t *testing.T) {
	s, _ := NewSeries(5, 40.0)
	if s.Average() != 40.0 {
		t.Errorf("expected average 40 after first reading, got %f", s.Average())
	}

	for i := 0; i < 50; i++ {
		s.Advance(60.0)
	}
	if s.Average() <= 40.0 || s.Average() > 60.0 {
		t.Errorf("expected average to move toward 60, got %f", s.Average())
	}
}

func TestSeries_AverageIncludesSentinel(t *testing.T) {
	s, _ := NewSeries(5, 40.0)
	s.Advance(Sentinel)

	// Placeholders are not averaged in, but an unavailable reading is.
	if avg := s.Average(); avg >= 40.0 || avg <= 30.0 {
		t.Errorf("expected average pulled slightly below 40, got %f", avg)
	}
}

func BenchmarkSeries_Advance(b *testing.B) {
	s, _ := NewSeries(150, 40.0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Advance(float64(i % 90))
	}
}
