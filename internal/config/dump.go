package config

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/thermals/internal/sensors"
)

// fileConfig mirrors Config in the shape of config.yaml. Durations are kept
// as strings so the output can be loaded back.
type fileConfig struct {
	Interval string      `yaml:"interval"`
	Window   string      `yaml:"window"`
	Chart    fileChart   `yaml:"chart"`
	Gauges   []fileGauge `yaml:"gauges"`
	Sensors  fileSensors `yaml:"sensors"`
	UI       fileUI      `yaml:"ui"`
	Log      fileLog     `yaml:"log"`
	Debug    bool        `yaml:"debug"`
}

type fileChart struct {
	Floor     float64 `yaml:"floor"`
	Ceiling   float64 `yaml:"ceiling"`
	Padding   float64 `yaml:"padding"`
	Threshold float64 `yaml:"threshold"`
}

type fileGauge struct {
	Metric string  `yaml:"metric"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Warn   float64 `yaml:"warn"`
	Crit   float64 `yaml:"crit"`
}

type fileSensors struct {
	Bindings  yaml.Node `yaml:"bindings"`
	NvidiaSmi struct {
		Path    string `yaml:"path"`
		Timeout string `yaml:"timeout"`
	} `yaml:"nvidia_smi"`
}

type fileUI struct {
	Theme      string `yaml:"theme"`
	DateFormat string `yaml:"date_format"`
}

type fileLog struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path,omitempty"`
}

// YAML renders the effective configuration as a config.yaml document.
// Bindings are listed in catalog order.
func (c *Config) YAML() ([]byte, error) {
	out := fileConfig{
		Interval: c.Interval.String(),
		Window:   c.Window.String(),
		Chart: fileChart{
			Floor:     c.Chart.Floor,
			Ceiling:   c.Chart.Ceiling,
			Padding:   c.Chart.Padding,
			Threshold: c.Chart.Threshold,
		},
		UI:    fileUI{Theme: c.UI.Theme, DateFormat: c.UI.DateFormat},
		Log:   fileLog{Level: c.Log.Level, Path: c.Log.Path},
		Debug: c.Debug,
	}
	for _, g := range c.Gauges {
		out.Gauges = append(out.Gauges, fileGauge(g))
	}
	out.Sensors.NvidiaSmi.Path = c.Sensors.NvidiaSmi.Path
	out.Sensors.NvidiaSmi.Timeout = c.Sensors.NvidiaSmi.Timeout.String()

	bindings, err := bindingsNode(c.Sensors.Bindings)
	if err != nil {
		return nil, err
	}
	out.Sensors.Bindings = *bindings

	return yaml.Marshal(out)
}

// bindingsNode builds an ordered mapping node; plain maps would be sorted
// alphabetically by the encoder.
func bindingsNode(bindings map[string]sensors.Binding) (*yaml.Node, error) {
	order := make(map[string]int)
	for i, name := range sensors.Names() {
		order[name] = i
	}
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return order[names[i]] < order[names[j]] })

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		var value yaml.Node
		if err := value.Encode(bindings[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&value,
		)
	}
	return node, nil
}
