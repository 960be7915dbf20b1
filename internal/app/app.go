package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/willibrandon/thermals/internal/config"
	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/metrics"
	"github.com/willibrandon/thermals/internal/sensors"
	"github.com/willibrandon/thermals/internal/ui"
	"github.com/willibrandon/thermals/internal/ui/components"
	"github.com/willibrandon/thermals/internal/ui/views"
)

// Model represents the main Bubbletea application model.
//
// The model owns the store: sampling happens in Update on the tick message
// and rendering reads the store in View, both on the Bubbletea goroutine.
type Model struct {
	ctx    context.Context
	config *config.Config

	source sensors.Source
	store  *metrics.Store
	bounds *metrics.Bounds

	// UI state
	width  int
	height int

	// Keyboard bindings
	keys      ui.KeyMap
	shortHelp help.Model

	// UI components
	help      *components.HelpText
	statusBar *components.StatusBar
	dashboard *views.DashboardView

	// Application state
	helpVisible bool
	quitting    bool
	ready       bool
}

// New creates the application model. The first snapshot is taken here so
// the store starts with a real reading at the end of every series.
func New(ctx context.Context, cfg *config.Config, source sensors.Source) (*Model, error) {
	capacity, err := cfg.Capacity()
	if err != nil {
		return nil, err
	}

	bounds := metrics.NewBounds(cfg.Chart.Bounds())
	if err := bounds.Config().Validate(); err != nil {
		return nil, err
	}

	store, err := metrics.NewStore(sensors.Names(), capacity, source.Snapshot(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	logger.Info("store created", "metrics", len(store.Names()), "capacity", capacity, "interval", cfg.Interval)

	keys := ui.DefaultKeyMap()

	statusBar := components.NewStatusBar()
	statusBar.SetDateFormat(cfg.UI.DateFormat)
	statusBar.SetStarted(store.Started(), cfg.Interval)
	statusBar.SetTimestamp(store.Started())

	dashboard := views.NewDashboard(cfg.Gauges, cfg.Window, cfg.Chart.Threshold)

	m := &Model{
		ctx:       ctx,
		config:    cfg,
		source:    source,
		store:     store,
		bounds:    bounds,
		keys:      keys,
		shortHelp: help.New(),
		help:      components.NewHelp(keys.FullHelp()),
		statusBar: statusBar,
		dashboard: dashboard,
	}
	m.refresh()

	return m, nil
}

// Store returns the telemetry store.
func (m Model) Store() *metrics.Store {
	return m.store
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickSensors(m.config.Interval),
		tickStatusBar(),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.statusBar.SetSize(msg.Width)
		m.shortHelp.Width = msg.Width
		m.dashboard.SetSize(msg.Width, msg.Height-3) // Reserve space for the status bar
		m.ready = true
		return m, nil

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.sample()
		return m, tickSensors(nextTickDelay(msg.Time, time.Now(), m.config.Interval))

	case StatusBarTickMsg:
		m.statusBar.SetTimestamp(msg.Timestamp)
		return m, tickStatusBar()
	}

	return m, nil
}

// sample reads one snapshot and advances the store. The sensor read runs
// in-line, so a slow provider delays the next frame.
func (m *Model) sample() {
	snap := m.source.Snapshot(m.ctx)
	m.store.Tick(snap)
	m.refresh()

	start, end := m.store.Window()
	logger.Debug("tick", "start", start, "end", end, "snapshot", snap)
}

// refresh pushes the store contents to the components.
func (m *Model) refresh() {
	m.dashboard.Refresh(m.store, m.bounds)
	start, end := m.store.Window()
	m.statusBar.SetWindow(start, end, m.store.Ticks())
	m.statusBar.SetHelp(m.shortHelp.View(m.keys))
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil

	case msg.String() == "esc" && m.helpVisible:
		m.helpVisible = false
		return m, nil
	}

	return m, nil
}

// View renders the application UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	if m.helpVisible {
		return m.help.View()
	}

	return m.dashboard.View() + "\n" + m.statusBar.View()
}

// nextTickDelay returns how long to wait after a tick that fired at fired so
// the next one lands a full interval later. Time spent reading sensors is
// taken off the wait; an overrun schedules the next tick immediately.
func nextTickDelay(fired, now time.Time, interval time.Duration) time.Duration {
	if fired.IsZero() {
		return interval
	}
	return max(fired.Add(interval).Sub(now), 0)
}

// tickSensors schedules the next sensor read after delay
func tickSensors(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// tickStatusBar creates a command to update the status bar timestamp
func tickStatusBar() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return StatusBarTickMsg{Timestamp: t}
	})
}
