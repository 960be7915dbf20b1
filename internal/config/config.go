package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/metrics"
	"github.com/willibrandon/thermals/internal/sensors"
)

// Config represents the root configuration structure
type Config struct {
	// Interval is the time between sensor polls.
	Interval time.Duration `mapstructure:"interval"`
	// Window is how much history the dashboard keeps.
	Window  time.Duration `mapstructure:"window"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Gauges  []GaugeConfig `mapstructure:"gauges"`
	Sensors SensorsConfig `mapstructure:"sensors"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
	Debug   bool          `mapstructure:"debug"`
}

// ChartConfig holds the y-axis settings of the temperature chart
type ChartConfig struct {
	Floor     float64 `mapstructure:"floor"`
	Ceiling   float64 `mapstructure:"ceiling"`
	Padding   float64 `mapstructure:"padding"`
	Threshold float64 `mapstructure:"threshold"`
}

// Bounds converts the chart settings for metrics.NewBounds.
func (c ChartConfig) Bounds() metrics.BoundsConfig {
	return metrics.BoundsConfig{
		Floor:     c.Floor,
		Ceiling:   c.Ceiling,
		Padding:   c.Padding,
		Threshold: c.Threshold,
	}
}

// GaugeConfig describes one gauge in the bottom row
type GaugeConfig struct {
	Metric string  `mapstructure:"metric"`
	Min    float64 `mapstructure:"min"`
	Max    float64 `mapstructure:"max"`
	Warn   float64 `mapstructure:"warn"`
	Crit   float64 `mapstructure:"crit"`
}

// SensorsConfig holds where each metric is read from
type SensorsConfig struct {
	Bindings  map[string]sensors.Binding `mapstructure:"bindings"`
	NvidiaSmi NvidiaSmiConfig            `mapstructure:"nvidia_smi"`
}

// NvidiaSmiConfig holds the nvidia-smi invocation settings
type NvidiaSmiConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds user interface preferences
type UIConfig struct {
	Theme      string `mapstructure:"theme"`
	DateFormat string `mapstructure:"date_format"`
}

// LogConfig holds log file settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Capacity returns the number of samples each series retains.
func (c *Config) Capacity() (int, error) {
	return metrics.Capacity(c.Interval, c.Window)
}

// LogLevel returns the effective log level. Debug mode overrides log.level.
func (c *Config) LogLevel() logger.LogLevel {
	if c.Debug {
		return logger.LevelDebug
	}
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// Load loads configuration from a YAML file and environment variables.
// When path is empty the file is searched for in ~/.config/thermals and the
// working directory; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/thermals")
		v.AddConfigPath(".")
	}

	// Environment variable support
	v.SetEnvPrefix("THERMALS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("loaded config", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.fillBindings()

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg := &Config{
		Interval: 2 * time.Second,
		Window:   5 * time.Minute,
		Chart: ChartConfig{
			Floor:     metrics.DefaultFloor,
			Ceiling:   metrics.DefaultCeiling,
			Padding:   metrics.DefaultPadding,
			Threshold: metrics.DefaultThreshold,
		},
		Gauges: []GaugeConfig{
			{Metric: sensors.MetricCoolant1, Min: 25, Max: 45, Warn: 34, Crit: 38},
			{Metric: sensors.MetricCoolant2, Min: 25, Max: 45, Warn: 34, Crit: 38},
			{Metric: sensors.MetricMemory, Min: 0, Max: 100, Warn: 70, Crit: 90},
		},
		Sensors: SensorsConfig{
			NvidiaSmi: NvidiaSmiConfig{
				Path:    "nvidia-smi",
				Timeout: sensors.DefaultNvidiaTimeout,
			},
		},
		UI: UIConfig{
			Theme:      "dark",
			DateFormat: "15:04:05",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
	cfg.fillBindings()
	return cfg
}

// fillBindings completes the binding map with the catalog defaults so the
// effective source of every metric is visible in the config dump.
func (c *Config) fillBindings() {
	if c.Sensors.Bindings == nil {
		c.Sensors.Bindings = make(map[string]sensors.Binding)
	}
	for name, b := range sensors.DefaultBindings() {
		if cur, ok := c.Sensors.Bindings[name]; !ok || cur.Provider == "" {
			c.Sensors.Bindings[name] = b
		}
	}
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if _, err := cfg.Capacity(); err != nil {
		return fmt.Errorf("interval/window: %w", err)
	}
	if cfg.Interval < 100*time.Millisecond || cfg.Interval > time.Hour {
		return fmt.Errorf("interval must be between 100ms and 1h, got %v", cfg.Interval)
	}

	if err := cfg.Chart.Bounds().Validate(); err != nil {
		return err
	}

	for i, g := range cfg.Gauges {
		m, ok := sensors.Lookup(g.Metric)
		if !ok {
			return fmt.Errorf("gauges[%d]: unknown metric %q", i, g.Metric)
		}
		if g.Min >= g.Max {
			return fmt.Errorf("gauges[%d] (%s): min (%.1f) must be below max (%.1f)", i, m.Name, g.Min, g.Max)
		}
		if g.Warn > g.Crit {
			return fmt.Errorf("gauges[%d] (%s): warn (%.1f) must not exceed crit (%.1f)", i, m.Name, g.Warn, g.Crit)
		}
	}

	for name, b := range cfg.Sensors.Bindings {
		if _, ok := sensors.Lookup(name); !ok {
			return fmt.Errorf("sensors.bindings: unknown metric %q (known: %s)", name, strings.Join(sensors.Names(), ", "))
		}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("sensors.bindings.%s: %w", name, err)
		}
	}
	if cfg.Sensors.NvidiaSmi.Timeout <= 0 {
		return fmt.Errorf("sensors.nvidia_smi.timeout must be positive, got %v", cfg.Sensors.NvidiaSmi.Timeout)
	}

	validThemes := []string{"dark", "light"}
	validTheme := false
	for _, theme := range validThemes {
		if cfg.UI.Theme == theme {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("ui.theme must be one of: %v, got %s", validThemes, cfg.UI.Theme)
	}

	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("interval", d.Interval)
	v.SetDefault("window", d.Window)

	v.SetDefault("chart.floor", d.Chart.Floor)
	v.SetDefault("chart.ceiling", d.Chart.Ceiling)
	v.SetDefault("chart.padding", d.Chart.Padding)
	v.SetDefault("chart.threshold", d.Chart.Threshold)

	gauges := make([]map[string]any, len(d.Gauges))
	for i, g := range d.Gauges {
		gauges[i] = map[string]any{
			"metric": g.Metric,
			"min":    g.Min,
			"max":    g.Max,
			"warn":   g.Warn,
			"crit":   g.Crit,
		}
	}
	v.SetDefault("gauges", gauges)

	v.SetDefault("sensors.nvidia_smi.path", d.Sensors.NvidiaSmi.Path)
	v.SetDefault("sensors.nvidia_smi.timeout", d.Sensors.NvidiaSmi.Timeout)

	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.date_format", d.UI.DateFormat)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.path", "")

	v.SetDefault("debug", false)
}
