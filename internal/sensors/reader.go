package sensors

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
	psensors "github.com/shirou/gopsutil/v4/sensors"
	"github.com/spf13/afero"

	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/metrics"
)

// Source produces one reading per tracked metric. It never fails: a metric
// that cannot be read is reported as metrics.Sentinel.
type Source interface {
	Snapshot(ctx context.Context) metrics.Snapshot
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) metrics.Snapshot

// Snapshot calls f.
func (f SourceFunc) Snapshot(ctx context.Context) metrics.Snapshot {
	return f(ctx)
}

// Reader reads the catalog metrics from their bound providers.
type Reader struct {
	names    []string
	bindings map[string]Binding

	hwmon         *HwmonScanner
	temperatures  func(ctx context.Context) ([]psensors.TemperatureStat, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	nvidia        nvidiaQuery

	nvidiaPath    string
	nvidiaTimeout time.Duration

	// missing tracks metrics currently reading as the sentinel, so the
	// warning is logged once per outage instead of on every tick.
	missing map[string]bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithFs sets the filesystem the hwmon scanner reads from.
func WithFs(fs afero.Fs) ReaderOption {
	return func(r *Reader) {
		r.hwmon = NewHwmonScanner(fs)
	}
}

// WithNvidiaSmi sets the nvidia-smi binary and per-call timeout.
func WithNvidiaSmi(path string, timeout time.Duration) ReaderOption {
	return func(r *Reader) {
		if path != "" {
			r.nvidiaPath = path
		}
		if timeout > 0 {
			r.nvidiaTimeout = timeout
		}
	}
}

// NewReader creates a Reader. bindings overrides the catalog defaults per
// metric name; unknown names are rejected.
func NewReader(bindings map[string]Binding, opts ...ReaderOption) (*Reader, error) {
	merged := DefaultBindings()
	for name, b := range bindings {
		if _, ok := Lookup(name); !ok {
			return nil, fmt.Errorf("binding for unknown metric %q", name)
		}
		if b.Provider == "" {
			continue
		}
		merged[name] = b
	}
	for name, b := range merged {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("metric %s: %w", name, err)
		}
	}

	r := &Reader{
		names:         Names(),
		bindings:      merged,
		hwmon:         NewHwmonScanner(afero.NewOsFs()),
		temperatures:  psensors.TemperaturesWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		nvidiaPath:    "nvidia-smi",
		nvidiaTimeout: DefaultNvidiaTimeout,
		missing:       make(map[string]bool),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.nvidia == nil {
		r.nvidia = r.lookupNvidia()
	}

	return r, nil
}

// lookupNvidia resolves the nvidia-smi binary once. Without it every GPU
// metric reads as the sentinel.
func (r *Reader) lookupNvidia() nvidiaQuery {
	path, err := exec.LookPath(r.nvidiaPath)
	if err != nil {
		if r.uses(ProviderNvidia) {
			logger.Info("nvidia-smi not found, GPU metrics will read as 0", "binary", r.nvidiaPath)
		}
		return func(context.Context, []string) ([]string, error) {
			return nil, fmt.Errorf("nvidia-smi not available: %w", err)
		}
	}
	e := &nvidiaSmiExec{binPath: path, timeout: r.nvidiaTimeout}
	return e.query
}

// Binding returns the binding in effect for name.
func (r *Reader) Binding(name string) Binding {
	return r.bindings[name]
}

func (r *Reader) uses(provider string) bool {
	for _, b := range r.bindings {
		if b.Provider == provider {
			return true
		}
	}
	return false
}

// Snapshot reads every metric once. Each provider is queried at most once
// per call regardless of how many metrics it serves.
func (r *Reader) Snapshot(ctx context.Context) metrics.Snapshot {
	var (
		chips   []Chip
		temps   []psensors.TemperatureStat
		vm      *mem.VirtualMemoryStat
		gpuVals map[string]string
	)

	if r.uses(ProviderHwmon) {
		var err error
		chips, err = r.hwmon.Scan()
		if err != nil {
			logger.Debug("hwmon scan failed", "error", err)
		}
	}

	if r.uses(ProviderSensors) {
		var err error
		temps, err = r.temperatures(ctx)
		if err != nil && len(temps) == 0 {
			logger.Debug("temperature query failed", "error", err)
		}
	}

	if r.uses(ProviderMemory) {
		var err error
		vm, err = r.virtualMemory(ctx)
		if err != nil {
			logger.Debug("memory query failed", "error", err)
		}
	}

	if fields := r.nvidiaFields(); len(fields) > 0 {
		values, err := r.nvidia(ctx, fields)
		if err != nil {
			logger.Debug("nvidia-smi query failed", "error", err)
		} else {
			gpuVals = make(map[string]string, len(fields))
			for i, f := range fields {
				gpuVals[f] = values[i]
			}
		}
	}

	snap := make(metrics.Snapshot, len(r.names))
	for _, name := range r.names {
		b := r.bindings[name]

		var (
			v  float64
			ok bool
		)
		switch b.Provider {
		case ProviderHwmon:
			v, ok = lookupHwmon(chips, b.Chip, b.Feature)
		case ProviderSensors:
			v, ok = lookupTemperature(temps, b.Feature)
		case ProviderMemory:
			if vm != nil {
				v, ok = vm.UsedPercent, true
			}
		case ProviderNvidia:
			if raw, found := gpuVals[b.Feature]; found {
				v, ok = parseNvidiaValue(raw)
			}
		}

		if !ok {
			v = metrics.Sentinel
		}
		r.track(name, b, ok)
		snap[name] = v
	}

	return snap
}

// nvidiaFields returns the distinct nvidia-smi fields in use, sorted.
func (r *Reader) nvidiaFields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, b := range r.bindings {
		if b.Provider == ProviderNvidia && !seen[b.Feature] {
			seen[b.Feature] = true
			fields = append(fields, b.Feature)
		}
	}
	sort.Strings(fields)
	return fields
}

func (r *Reader) track(name string, b Binding, ok bool) {
	if b.Provider == ProviderNone {
		return
	}
	switch {
	case !ok && !r.missing[name]:
		r.missing[name] = true
		logger.Warn("sensor unavailable, reading as 0", "metric", name, "binding", b.String())
	case ok && r.missing[name]:
		delete(r.missing, name)
		logger.Info("sensor available again", "metric", name, "binding", b.String())
	}
}

// Discovery is everything the providers can see on this machine.
type Discovery struct {
	Chips        []Chip
	Temperatures []psensors.TemperatureStat
	Memory       *mem.VirtualMemoryStat
}

// Discover lists the hwmon chips, gopsutil sensors, and memory statistics
// visible to the reader. It fails only when no provider answers.
func (r *Reader) Discover(ctx context.Context) (Discovery, error) {
	var (
		d    Discovery
		errs []error
	)

	chips, err := r.hwmon.Scan()
	if err != nil {
		errs = append(errs, err)
	}
	d.Chips = chips

	temps, err := r.temperatures(ctx)
	if err != nil && len(temps) == 0 {
		errs = append(errs, err)
	}
	d.Temperatures = temps

	vm, err := r.virtualMemory(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	d.Memory = vm

	if len(errs) == 3 {
		return d, fmt.Errorf("no sensor provider available: %w", errors.Join(errs...))
	}
	return d, nil
}

func lookupTemperature(temps []psensors.TemperatureStat, key string) (float64, bool) {
	for _, t := range temps {
		if t.SensorKey == key {
			return t.Temperature, true
		}
	}
	return 0, false
}
