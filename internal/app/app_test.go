package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/thermals/internal/config"
	"github.com/willibrandon/thermals/internal/metrics"
	"github.com/willibrandon/thermals/internal/sensors"
)

// scriptedSource replays snapshots in order and repeats the last one.
type scriptedSource struct {
	snaps []metrics.Snapshot
	calls int
}

func (s *scriptedSource) Snapshot(context.Context) metrics.Snapshot {
	i := min(s.calls, len(s.snaps)-1)
	s.calls++
	return s.snaps[i]
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Interval = 2 * time.Second
	cfg.Window = 10 * time.Second // capacity 5
	return cfg
}

func newTestModel(t *testing.T, snaps ...metrics.Snapshot) (Model, *scriptedSource) {
	t.Helper()
	src := &scriptedSource{snaps: snaps}
	m, err := New(context.Background(), testConfig(), src)
	require.NoError(t, err)
	return *m, src
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNew_SeedsStore(t *testing.T) {
	m, src := newTestModel(t, metrics.Snapshot{sensors.MetricTctl: 50})

	assert.Equal(t, 1, src.calls, "initial snapshot is taken once")

	store := m.Store()
	assert.Equal(t, 5, store.Capacity())
	assert.Equal(t, sensors.Names(), store.Names())

	start, end := store.Window()
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 4.0, end)

	v, ok := store.View(sensors.MetricTctl)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 0, 0, 50}, v.Values())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Window = 0

	_, err := New(context.Background(), cfg, sensors.SourceFunc(func(context.Context) metrics.Snapshot {
		return nil
	}))
	assert.ErrorIs(t, err, metrics.ErrInvalidCapacity)
}

func TestUpdate_TickSamplesAndReschedules(t *testing.T) {
	m, src := newTestModel(t,
		metrics.Snapshot{sensors.MetricTctl: 50},
		metrics.Snapshot{sensors.MetricTctl: 52},
	)

	m, cmd := update(t, m, TickMsg{Time: time.Now()})
	require.NotNil(t, cmd, "next tick must be scheduled")
	assert.Equal(t, 2, src.calls)

	store := m.Store()
	assert.Equal(t, 1, store.Ticks())
	start, end := store.Window()
	assert.Equal(t, 1.0, start)
	assert.Equal(t, 5.0, end)

	v, _ := store.View(sensors.MetricTctl)
	assert.Equal(t, 52.0, v.Latest())
	lo, hi := v.Range()
	assert.Equal(t, 50.0, lo, "placeholders never count toward the minimum")
	assert.Equal(t, 52.0, hi)
}

func TestUpdate_ChartBoundsIgnorePlaceholders(t *testing.T) {
	reading := metrics.Snapshot{
		sensors.MetricTctl:     60,
		sensors.MetricCoolant1: 30,
		sensors.MetricGPU:      45,
	}
	m, _ := newTestModel(t, reading)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	// Only the newest position is real; the rest are placeholders.
	low, high := m.dashboard.ChartBounds()
	assert.Equal(t, 28.0, low)
	assert.Equal(t, 62.0, high)

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, TickMsg{Time: time.Now()})
	}
	low, high = m.dashboard.ChartBounds()
	assert.Equal(t, 28.0, low)
	assert.Equal(t, 62.0, high)
}

func TestUpdate_AllSensorsMissing(t *testing.T) {
	m, _ := newTestModel(t, metrics.Snapshot{})
	m, _ = update(t, m, TickMsg{Time: time.Now()})

	low, high := m.dashboard.ChartBounds()
	assert.Equal(t, metrics.DefaultFloor, low)
	assert.Equal(t, metrics.DefaultCeiling, high)
}

func TestUpdate_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m, src := newTestModel(t, metrics.Snapshot{})

		m, cmd := update(t, m, msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.quitting)

		// A tick already in flight must not sample after quit.
		_, cmd = update(t, m, TickMsg{Time: time.Now()})
		assert.Nil(t, cmd)
		assert.Equal(t, 1, src.calls)
		assert.Equal(t, 0, m.Store().Ticks())
	}
}

func TestUpdate_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, metrics.Snapshot{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	help := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}

	m, _ = update(t, m, help)
	assert.True(t, m.helpVisible)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.helpVisible)

	m, _ = update(t, m, help)
	m, _ = update(t, m, help)
	assert.False(t, m.helpVisible)
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t, metrics.Snapshot{
		sensors.MetricTctl:     61.2,
		sensors.MetricCoolant1: 31.4,
		sensors.MetricCoolant2: 32.0,
		sensors.MetricMemory:   40,
	})
	assert.Equal(t, "Initializing...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 45})
	out := m.View()

	assert.Contains(t, out, "Temperatures")
	assert.Contains(t, out, "7800 X3D CTL (61.2°C)")
	assert.Contains(t, out, "Coolant 1")
	assert.Contains(t, out, "Coolant 2")
	assert.Contains(t, out, "Sensor")
	assert.Contains(t, out, "window [0, 4]")
	assert.Contains(t, out, "now")
}

func TestUpdate_StatusBarTick(t *testing.T) {
	m, _ := newTestModel(t, metrics.Snapshot{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 45})

	ts := time.Date(2024, 5, 1, 14, 3, 9, 0, time.Local)
	m, cmd := update(t, m, StatusBarTickMsg{Timestamp: ts})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "14:03:09")
}

func TestNextTickDelay(t *testing.T) {
	fired := time.Date(2026, 10, 17, 14, 3, 9, 0, time.UTC)
	interval := 2 * time.Second

	tests := []struct {
		name  string
		now   time.Time
		fired time.Time
		want  time.Duration
	}{
		{"instant read", fired, fired, interval},
		{"slow read is subtracted", fired.Add(300 * time.Millisecond), fired, 1700 * time.Millisecond},
		{"overrun fires immediately", fired.Add(3 * time.Second), fired, 0},
		{"unknown fire time", fired, time.Time{}, interval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextTickDelay(tt.fired, tt.now, interval))
		})
	}
}
