package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/ui/styles"
)

// StatusBar represents the status bar component
type StatusBar struct {
	width int

	timestamp  time.Time
	dateFormat string

	// Window domain
	start, end float64
	ticks      int
	started    time.Time
	interval   time.Duration

	help string
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	return &StatusBar{
		dateFormat: "15:04:05",
	}
}

// SetSize sets the width of the status bar
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetTimestamp sets the current timestamp
func (s *StatusBar) SetTimestamp(timestamp time.Time) {
	s.timestamp = timestamp
}

// SetDateFormat sets the date format string
func (s *StatusBar) SetDateFormat(format string) {
	if format != "" {
		s.dateFormat = format
	}
}

// SetWindow sets the tick domain currently shown.
func (s *StatusBar) SetWindow(start, end float64, ticks int) {
	s.start = start
	s.end = end
	s.ticks = ticks
}

// SetStarted sets when polling started and the poll interval.
func (s *StatusBar) SetStarted(started time.Time, interval time.Duration) {
	s.started = started
	s.interval = interval
}

// SetHelp sets the short help shown on the right.
func (s *StatusBar) SetHelp(help string) {
	s.help = help
}

// View renders the status bar
func (s *StatusBar) View() string {
	sections := []string{
		styles.StatusTitleStyle.Render("thermals"),
		styles.StatusTimeStyle.Render(s.timestamp.Format(s.dateFormat)),
		styles.AccentStyle.Render(fmt.Sprintf("window [%.0f, %.0f]", s.start, s.end)),
		fmt.Sprintf("ticks %d", s.ticks),
	}

	if !s.started.IsZero() {
		sections = append(sections, styles.MutedStyle.Render(
			fmt.Sprintf("every %s, started %s", ShortDuration(s.interval), humanize.RelTime(s.started, s.timestamp, "ago", "from now"))))
	}

	// Debug indicator (warning/error counts) - only shown in debug mode
	if logger.IsDebugEnabled() {
		if debug := debugSection(); debug != "" {
			sections = append(sections, debug)
		}
	}

	statusLine := strings.Join(sections, " | ")

	if s.help != "" && s.width > 0 {
		help := styles.HelpStyle.Render(s.help)
		gap := s.width - 2 - lipgloss.Width(statusLine) - lipgloss.Width(help)
		if gap >= 2 {
			statusLine += strings.Repeat(" ", gap) + help
		}
	}

	if s.width > 2 {
		statusLine = ansi.Truncate(statusLine, s.width-2, "…")
		return styles.StatusBarStyle.Width(s.width - 2).Render(statusLine)
	}
	return styles.StatusBarStyle.Render(statusLine)
}

func debugSection() string {
	warnCount, errCount := logger.GetCounts()
	if warnCount == 0 && errCount == 0 {
		return ""
	}

	var parts []string
	if warnCount > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("⚠ %d", warnCount)))
	}
	if errCount > 0 {
		parts = append(parts, styles.ErrorStyle.Render(fmt.Sprintf("✕ %d", errCount)))
	}
	if last, ok := logger.LastEntry(); ok {
		parts = append(parts, styles.MutedStyle.Render(last.Message))
	}
	return strings.Join(parts, " ")
}
