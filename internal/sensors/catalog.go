// Package sensors reads hardware telemetry and turns it into metric snapshots.
//
// The set of metrics is fixed; only the hardware each metric is read from can
// be changed through its Binding.
package sensors

import "fmt"

// Provider names.
const (
	ProviderHwmon   = "hwmon"
	ProviderSensors = "sensors"
	ProviderMemory  = "memory"
	ProviderNvidia  = "nvidia"
	ProviderNone    = "none"
)

// Metric names.
const (
	MetricTctl     = "tctl"
	MetricTccd1    = "tccd1"
	MetricCoolant1 = "coolant1"
	MetricCoolant2 = "coolant2"
	MetricGPU      = "gpu"
	MetricGPUPower = "gpu_power"
	MetricMemory   = "memory"
)

// Binding says where a metric is read from.
type Binding struct {
	// Provider is one of hwmon, sensors, memory, nvidia, none.
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Chip is the hwmon chip name (the sysfs "name" file), e.g. k10temp.
	Chip string `mapstructure:"chip" yaml:"chip,omitempty"`
	// Feature is the hwmon feature (temp1, power1), the gopsutil sensor key,
	// or the nvidia-smi query field.
	Feature string `mapstructure:"feature" yaml:"feature,omitempty"`
}

// Validate checks that the binding names everything its provider needs.
func (b Binding) Validate() error {
	switch b.Provider {
	case ProviderHwmon:
		if b.Chip == "" || b.Feature == "" {
			return fmt.Errorf("hwmon binding requires chip and feature")
		}
		if _, _, ok := splitFeature(b.Feature); !ok {
			return fmt.Errorf("hwmon feature %q is not of the form <type><index>, e.g. temp1", b.Feature)
		}
	case ProviderSensors, ProviderNvidia:
		if b.Feature == "" {
			return fmt.Errorf("%s binding requires feature", b.Provider)
		}
	case ProviderMemory, ProviderNone:
	default:
		return fmt.Errorf("unknown provider %q", b.Provider)
	}
	return nil
}

// String returns a compact description such as "hwmon:k10temp/temp1".
func (b Binding) String() string {
	switch b.Provider {
	case ProviderHwmon:
		return fmt.Sprintf("%s:%s/%s", b.Provider, b.Chip, b.Feature)
	case ProviderSensors, ProviderNvidia:
		return fmt.Sprintf("%s:%s", b.Provider, b.Feature)
	default:
		return b.Provider
	}
}

// Metric describes one tracked metric.
type Metric struct {
	Name  string
	Label string
	Unit  string
	// Chart marks metrics overlaid on the shared temperature chart.
	Chart bool
	// Color is the chart line color name.
	Color   string
	Binding Binding
}

var catalog = []Metric{
	{
		Name: MetricTctl, Label: "7800 X3D CTL", Unit: "°C", Chart: true, Color: "red",
		Binding: Binding{Provider: ProviderHwmon, Chip: "k10temp", Feature: "temp1"},
	},
	{
		Name: MetricTccd1, Label: "7800 X3D CCD", Unit: "°C",
		Binding: Binding{Provider: ProviderHwmon, Chip: "k10temp", Feature: "temp3"},
	},
	{
		Name: MetricCoolant1, Label: "Coolant 1", Unit: "°C", Chart: true, Color: "blue",
		Binding: Binding{Provider: ProviderHwmon, Chip: "quadro", Feature: "temp1"},
	},
	{
		Name: MetricCoolant2, Label: "Coolant 2", Unit: "°C",
		Binding: Binding{Provider: ProviderHwmon, Chip: "quadro", Feature: "temp2"},
	},
	{
		Name: MetricGPU, Label: "RTX 4070", Unit: "°C", Chart: true, Color: "green",
		Binding: Binding{Provider: ProviderNvidia, Feature: "temperature.gpu"},
	},
	{
		Name: MetricGPUPower, Label: "RTX 4070 Power", Unit: "W",
		Binding: Binding{Provider: ProviderNvidia, Feature: "power.draw"},
	},
	{
		Name: MetricMemory, Label: "Memory", Unit: "%",
		Binding: Binding{Provider: ProviderMemory},
	},
}

// Catalog returns the tracked metrics in display order.
func Catalog() []Metric {
	out := make([]Metric, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the tracked metric names in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, m := range catalog {
		names[i] = m.Name
	}
	return names
}

// ChartNames returns the metrics overlaid on the shared chart.
func ChartNames() []string {
	var names []string
	for _, m := range catalog {
		if m.Chart {
			names = append(names, m.Name)
		}
	}
	return names
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Metric, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// DefaultBindings returns the binding of every catalog metric.
func DefaultBindings() map[string]Binding {
	bindings := make(map[string]Binding, len(catalog))
	for _, m := range catalog {
		bindings[m.Name] = m.Binding
	}
	return bindings
}
