package sensors

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/mem"
	psensors "github.com/shirou/gopsutil/v4/sensors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/thermals/internal/metrics"
)

// newTestReader builds a Reader with every external provider faked.
func newTestReader(t *testing.T, bindings map[string]Binding, devices map[string]map[string]string) *Reader {
	t.Helper()

	r, err := NewReader(bindings, WithFs(newHwmonFs(t, devices)), WithNvidiaSmi("nvidia-smi-missing-in-tests", 0))
	require.NoError(t, err)

	r.temperatures = func(context.Context) ([]psensors.TemperatureStat, error) {
		return []psensors.TemperatureStat{
			{SensorKey: "k10temp_tctl", Temperature: 53.5},
			{SensorKey: "nvme_composite", Temperature: 39},
		}, nil
	}
	r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 32 << 30, Used: 8 << 30, UsedPercent: 25.0}, nil
	}
	r.nvidia = func(_ context.Context, fields []string) ([]string, error) {
		values := map[string]string{
			"temperature.gpu": "47",
			"power.draw":      "31.42",
		}
		out := make([]string, len(fields))
		for i, f := range fields {
			out[i] = values[f]
		}
		return out, nil
	}
	return r
}

func TestReader_Snapshot(t *testing.T) {
	r := newTestReader(t, nil, desktopHwmon())

	snap := r.Snapshot(context.Background())

	assert.Len(t, snap, len(Names()))
	assert.InDelta(t, 52.625, snap[MetricTctl], 1e-9)
	assert.InDelta(t, 48.25, snap[MetricTccd1], 1e-9)
	assert.InDelta(t, 31.42, snap[MetricCoolant1], 1e-9)
	assert.InDelta(t, 31.98, snap[MetricCoolant2], 1e-9)
	assert.InDelta(t, 47.0, snap[MetricGPU], 1e-9)
	assert.InDelta(t, 31.42, snap[MetricGPUPower], 1e-9)
	assert.InDelta(t, 25.0, snap[MetricMemory], 1e-9)
}

func TestReader_MissingSensorsReadAsSentinel(t *testing.T) {
	r := newTestReader(t, nil, map[string]map[string]string{
		"hwmon2": {"name": "k10temp", "temp1_input": "50000"},
	})
	r.nvidia = func(context.Context, []string) ([]string, error) {
		return nil, errors.New("nvidia-smi not available")
	}
	r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("no /proc")
	}

	snap := r.Snapshot(context.Background())

	assert.Equal(t, 50.0, snap[MetricTctl])
	for _, name := range []string{MetricTccd1, MetricCoolant1, MetricCoolant2, MetricGPU, MetricGPUPower, MetricMemory} {
		v, ok := snap[name]
		assert.True(t, ok, "%s must be present", name)
		assert.Equal(t, metrics.Sentinel, v, name)
	}
	assert.True(t, r.missing[MetricCoolant1])
}

func TestReader_RecoveredSensorClearsMissing(t *testing.T) {
	devices := desktopHwmon()
	r := newTestReader(t, nil, devices)

	r.nvidia = func(context.Context, []string) ([]string, error) {
		return []string{"[N/A]", "[N/A]"}, nil
	}
	snap := r.Snapshot(context.Background())
	assert.Equal(t, metrics.Sentinel, snap[MetricGPU])
	assert.True(t, r.missing[MetricGPU])

	r.nvidia = func(context.Context, []string) ([]string, error) {
		return []string{"15.0", "44"}, nil
	}
	snap = r.Snapshot(context.Background())
	assert.Equal(t, 44.0, snap[MetricGPU])
	assert.Equal(t, 15.0, snap[MetricGPUPower])
	assert.False(t, r.missing[MetricGPU])
}

func TestReader_BindingOverrides(t *testing.T) {
	r := newTestReader(t, map[string]Binding{
		MetricTctl:     {Provider: ProviderSensors, Feature: "k10temp_tctl"},
		MetricCoolant1: {Provider: ProviderHwmon, Chip: "nvme", Feature: "temp1"},
		MetricGPU:      {Provider: ProviderNone},
		MetricTccd1:    {}, // empty keeps the default
	}, desktopHwmon())

	snap := r.Snapshot(context.Background())

	assert.Equal(t, 53.5, snap[MetricTctl])
	assert.InDelta(t, 38.85, snap[MetricCoolant1], 1e-9)
	assert.Equal(t, metrics.Sentinel, snap[MetricGPU])
	assert.InDelta(t, 48.25, snap[MetricTccd1], 1e-9)
	assert.Equal(t, ProviderNone, r.Binding(MetricGPU).Provider)
}

func TestReader_NvidiaQueriedOnce(t *testing.T) {
	r := newTestReader(t, nil, desktopHwmon())

	calls := 0
	var got []string
	r.nvidia = func(_ context.Context, fields []string) ([]string, error) {
		calls++
		got = fields
		return []string{"30", "40"}, nil
	}

	snap := r.Snapshot(context.Background())
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"power.draw", "temperature.gpu"}, got)
	assert.Equal(t, 30.0, snap[MetricGPUPower])
	assert.Equal(t, 40.0, snap[MetricGPU])
}

func TestNewReader_Errors(t *testing.T) {
	_, err := NewReader(map[string]Binding{"fan": {Provider: ProviderNone}})
	assert.ErrorContains(t, err, `unknown metric "fan"`)

	_, err = NewReader(map[string]Binding{MetricTctl: {Provider: "ipmi"}})
	assert.ErrorContains(t, err, "unknown provider")

	_, err = NewReader(map[string]Binding{MetricTctl: {Provider: ProviderHwmon, Chip: "k10temp"}})
	assert.ErrorContains(t, err, "chip and feature")

	_, err = NewReader(map[string]Binding{MetricTctl: {Provider: ProviderHwmon, Chip: "k10temp", Feature: "tctl"}})
	assert.ErrorContains(t, err, "<type><index>")

	_, err = NewReader(map[string]Binding{MetricGPU: {Provider: ProviderNvidia}})
	assert.ErrorContains(t, err, "requires feature")

	_, err = NewReader(map[string]Binding{MetricTctl: {Provider: ProviderHwmon, Chip: "k10temp"}})
	assert.ErrorContains(t, err, "metric tctl")

	// An empty provider keeps the catalog default.
	r, err := NewReader(map[string]Binding{MetricTctl: {}}, WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)
	assert.Equal(t, "hwmon:k10temp/temp1", r.Binding(MetricTctl).String())
}

func TestSourceFunc(t *testing.T) {
	var src Source = SourceFunc(func(context.Context) metrics.Snapshot {
		return metrics.Snapshot{MetricTctl: 42}
	})
	assert.Equal(t, 42.0, src.Snapshot(context.Background())[MetricTctl])
	assert.Equal(t, metrics.Sentinel, src.Snapshot(context.Background()).Value(MetricGPU))
}

func TestReader_Discover(t *testing.T) {
	r := newTestReader(t, nil, desktopHwmon())

	d, err := r.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Chips, 3)
	assert.Len(t, d.Temperatures, 2)
	require.NotNil(t, d.Memory)
	assert.Equal(t, 25.0, d.Memory.UsedPercent)
}

func TestReader_DiscoverNothingAvailable(t *testing.T) {
	r, err := NewReader(nil, WithFs(afero.NewMemMapFs()), WithNvidiaSmi("nvidia-smi-missing-in-tests", 0))
	require.NoError(t, err)
	r.temperatures = func(context.Context) ([]psensors.TemperatureStat, error) {
		return nil, errors.New("not implemented")
	}
	r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("no /proc")
	}

	_, err = r.Discover(context.Background())
	assert.ErrorContains(t, err, "no sensor provider available")

	// One working provider is enough.
	r.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{UsedPercent: 10}, nil
	}
	d, err := r.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, d.Chips)
}
