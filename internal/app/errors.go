package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/willibrandon/thermals/internal/metrics"
)

// ErrNotTerminal is returned when stdout cannot host the dashboard.
var ErrNotTerminal = errors.New("stdout is not a terminal")

// startupErrorWidth is the column the guidance text is wrapped at.
const startupErrorWidth = 78

// FormatStartupError formats a startup error with actionable guidance
func FormatStartupError(err error) string {
	errMsg := err.Error()

	var msg string
	switch {
	case errors.Is(err, ErrNotTerminal):
		msg = fmt.Sprintf(
			"The dashboard needs an interactive terminal.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Run thermals directly in a terminal, not through a pipe or redirect\n"+
				"  2. For scripted use, try 'thermals snapshot' which prints one reading per sensor\n"+
				"\nOriginal error: %s", errMsg)

	case errors.Is(err, metrics.ErrInvalidCapacity):
		msg = fmt.Sprintf(
			"Invalid sampling settings: interval and window must both be positive durations.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Check 'interval' and 'window' in config.yaml, e.g. interval: 2s, window: 5m\n"+
				"  2. Check THERMALS_INTERVAL and THERMALS_WINDOW in your environment\n"+
				"\nOriginal error: %s", errMsg)

	case errors.Is(err, fs.ErrNotExist):
		msg = fmt.Sprintf(
			"Configuration file not found.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Verify the path passed to --config\n"+
				"  2. Omit --config to use ~/.config/thermals/config.yaml or built-in defaults\n"+
				"  3. Print the effective configuration with 'thermals config'\n"+
				"\nOriginal error: %s", errMsg)

	case strings.Contains(errMsg, "sensors.bindings"):
		msg = fmt.Sprintf(
			"Invalid sensor binding.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. List the chips and features on this machine with 'thermals sensors'\n"+
				"  2. hwmon bindings need both chip and feature, e.g. chip: k10temp, feature: temp1\n"+
				"  3. Use provider: none for hardware you do not have\n"+
				"\nOriginal error: %s", errMsg)

	default:
		msg = fmt.Sprintf(
			"thermals failed to start:\n\n"+
				"%s\n\n"+
				"Check your configuration in config.yaml or environment variables.\n"+
				"Run with --debug flag for detailed logs.", errMsg)
	}

	return wrap(msg)
}

// wrap wraps each line of msg, keeping the indentation of list items.
func wrap(msg string) string {
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		cont := indent
		if indent != "" {
			cont += "   " // align under "1. "
		}
		wrapped := wordwrap.WrapString(trimmed, uint(startupErrorWidth-len(cont)))
		lines[i] = indent + strings.ReplaceAll(wrapped, "\n", "\n"+cont)
	}
	return strings.Join(lines, "\n")
}
