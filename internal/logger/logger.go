package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogEntry represents a captured log entry for the status bar.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// ringBuffer is a fixed-size circular buffer for log entries.
type ringBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	size    int
	head    int
	count   int

	// Counters
	warnCount  int
	errorCount int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		entries: make([]LogEntry, size),
		size:    size,
	}
}

func (rb *ringBuffer) add(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}

	if entry.Level == slog.LevelWarn {
		rb.warnCount++
	} else if entry.Level >= slog.LevelError {
		rb.errorCount++
	}
}

func (rb *ringBuffer) getAll() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]LogEntry, rb.count)
	for i := 0; i < rb.count; i++ {
		idx := (rb.head - rb.count + i + rb.size) % rb.size
		result[i] = rb.entries[idx]
	}
	return result
}

func (rb *ringBuffer) last() (LogEntry, bool) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.count == 0 {
		return LogEntry{}, false
	}
	return rb.entries[(rb.head-1+rb.size)%rb.size], true
}

func (rb *ringBuffer) getCounts() (warn, err int) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.warnCount, rb.errorCount
}

// captureHandler wraps another handler and records WARN and ERROR entries.
type captureHandler struct {
	inner  slog.Handler
	buffer *ringBuffer
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.buffer.add(LogEntry{
			Time:    r.Time,
			Level:   r.Level,
			Message: r.Message,
		})
	}
	return h.inner.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{
		inner:  h.inner.WithAttrs(attrs),
		buffer: h.buffer,
	}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{
		inner:  h.inner.WithGroup(name),
		buffer: h.buffer,
	}
}

var (
	// Log is the global structured logger
	Log *slog.Logger
	// logWriter is the rotating log writer
	logWriter *lumberjack.Logger
	// LogPath is the path to the current log file
	LogPath string
	// captured holds recent WARN/ERROR entries
	captured *ringBuffer
	// debugEnabled tracks if debug mode is active
	debugEnabled bool
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a configured level name.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogPath returns ~/.config/thermals/thermals.log.
func DefaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".config", "thermals", "thermals.log")
}

// InitLogger initializes the global logger for the dashboard. Output goes to
// a rotated JSON file since the terminal belongs to the TUI.
// If logPath is empty, defaults to ~/.config/thermals/thermals.log
func InitLogger(level LogLevel, logPath string) {
	if logPath == "" {
		logPath = DefaultLogPath()
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0755)
	LogPath = logPath

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}

	install(level, slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: level.slogLevel(),
	}))
}

// InitConsoleLogger initializes the global logger for one-shot subcommands,
// writing colorized text to w.
func InitConsoleLogger(level LogLevel, w io.Writer, noColor bool) {
	install(level, tint.NewHandler(w, &tint.Options{
		Level:      level.slogLevel(),
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && level != LevelDebug {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func install(level LogLevel, inner slog.Handler) {
	debugEnabled = level == LevelDebug

	// Last 100 WARN/ERROR entries
	captured = newRingBuffer(100)

	Log = slog.New(&captureHandler{
		inner:  inner,
		buffer: captured,
	})
	slog.SetDefault(Log)
}

// Close closes the log file
func Close() {
	if logWriter != nil {
		logWriter.Close()
		logWriter = nil
	}
}

// getLogger returns the global logger, or the default slog logger if not initialized.
func getLogger() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// GetCounts returns the current warning and error counts.
func GetCounts() (warn, err int) {
	if captured == nil {
		return 0, 0
	}
	return captured.getCounts()
}

// GetEntries returns all captured log entries, oldest first.
func GetEntries() []LogEntry {
	if captured == nil {
		return nil
	}
	return captured.getAll()
}

// LastEntry returns the most recent WARN or ERROR entry.
func LastEntry() (LogEntry, bool) {
	if captured == nil {
		return LogEntry{}, false
	}
	return captured.last()
}

// IsDebugEnabled returns true if debug mode is active.
func IsDebugEnabled() bool {
	return debugEnabled
}

// Format formats a log entry for display.
func (e LogEntry) Format() string {
	levelStr := "INFO"
	switch e.Level {
	case slog.LevelDebug:
		levelStr = "DEBUG"
	case slog.LevelWarn:
		levelStr = "WARN"
	case slog.LevelError:
		levelStr = "ERROR"
	}
	return fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), levelStr, e.Message)
}
