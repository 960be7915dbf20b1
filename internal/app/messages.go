package app

import (
	"time"
)

// TickMsg is sent every poll interval to sample the sensors
type TickMsg struct {
	Time time.Time
}

// StatusBarTickMsg is sent periodically to update the status bar clock
type StatusBarTickMsg struct {
	Timestamp time.Time
}
