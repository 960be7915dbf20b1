package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/metrics"
	"github.com/willibrandon/thermals/internal/sensors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))

	capacity, err := cfg.Capacity()
	require.NoError(t, err)
	assert.Equal(t, 150, capacity)

	assert.Equal(t, metrics.DefaultBoundsConfig(), cfg.Chart.Bounds())
	assert.Len(t, cfg.Sensors.Bindings, len(sensors.Names()))
	require.Len(t, cfg.Gauges, 3)
	assert.Equal(t, sensors.MetricCoolant1, cfg.Gauges[0].Metric)
	assert.Equal(t, sensors.MetricCoolant2, cfg.Gauges[1].Metric)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
interval: 1s
window: 2m
chart:
  ceiling: 80
gauges:
  - metric: coolant1
    min: 20
    max: 50
    warn: 35
    crit: 40
sensors:
  bindings:
    coolant1:
      provider: hwmon
      chip: d5next
      feature: temp1
    gpu:
      provider: none
ui:
  theme: light
log:
  level: warn
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Window)
	assert.Equal(t, 80.0, cfg.Chart.Ceiling)
	assert.Equal(t, metrics.DefaultFloor, cfg.Chart.Floor, "unset keys keep their default")

	require.Len(t, cfg.Gauges, 1)
	assert.Equal(t, GaugeConfig{Metric: "coolant1", Min: 20, Max: 50, Warn: 35, Crit: 40}, cfg.Gauges[0])

	assert.Equal(t, sensors.Binding{Provider: "hwmon", Chip: "d5next", Feature: "temp1"}, cfg.Sensors.Bindings["coolant1"])
	assert.Equal(t, sensors.ProviderNone, cfg.Sensors.Bindings["gpu"].Provider)
	assert.Equal(t, "k10temp", cfg.Sensors.Bindings["tctl"].Chip, "missing bindings are filled from the catalog")

	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, logger.LevelWarn, cfg.LogLevel())

	capacity, err := cfg.Capacity()
	require.NoError(t, err)
	assert.Equal(t, 120, capacity)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "interval: 1s\n")
	t.Setenv("THERMALS_INTERVAL", "500ms")
	t.Setenv("THERMALS_CHART_PADDING", "5")
	t.Setenv("THERMALS_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 5.0, cfg.Chart.Padding)
	assert.True(t, cfg.Debug)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero window", "window: 0s\n", "window must be positive"},
		{"negative interval", "interval: -1s\n", "interval must be positive"},
		{"tiny interval", "interval: 10ms\n", "between 100ms and 1h"},
		{"floor above ceiling", "chart:\n  floor: 95\n", "must be below ceiling"},
		{"negative padding", "chart:\n  padding: -1\n", "padding must be >= 0"},
		{"unknown gauge metric", "gauges:\n  - metric: fan\n    max: 1\n", "unknown metric \"fan\""},
		{"inverted gauge", "gauges:\n  - metric: coolant1\n    min: 45\n    max: 25\n", "must be below max"},
		{"warn above crit", "gauges:\n  - metric: coolant1\n    max: 45\n    warn: 40\n    crit: 38\n", "must not exceed crit"},
		{"unknown binding", "sensors:\n  bindings:\n    fan:\n      provider: none\n", "unknown metric \"fan\""},
		{"bad binding", "sensors:\n  bindings:\n    tctl:\n      provider: hwmon\n", "sensors.bindings.tctl"},
		{"bad theme", "ui:\n  theme: solarized\n", "ui.theme must be one of"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_CapacityErrorWraps(t *testing.T) {
	_, err := Load(writeConfig(t, "window: -5m\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, metrics.ErrInvalidCapacity)
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Interval = 3 * time.Second
	cfg.Sensors.Bindings[sensors.MetricGPU] = sensors.Binding{Provider: sensors.ProviderNone}

	out, err := cfg.YAML()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "interval: 3s")
	assert.Contains(t, text, "window: 5m0s")
	assert.Contains(t, text, "chip: k10temp")
	assert.Less(t, strings.Index(text, "tctl:"), strings.Index(text, "memory:"), "bindings follow catalog order")

	loaded, err := Load(writeConfig(t, text))
	require.NoError(t, err)
	assert.Equal(t, cfg.Interval, loaded.Interval)
	assert.Equal(t, cfg.Window, loaded.Window)
	assert.Equal(t, cfg.Gauges, loaded.Gauges)
	assert.Equal(t, cfg.Sensors.Bindings, loaded.Sensors.Bindings)
}

