package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/willibrandon/thermals/internal/app"
	"github.com/willibrandon/thermals/internal/config"
	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/sensors"
	"github.com/willibrandon/thermals/internal/ui/styles"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool
	noColor    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thermals",
		Short: "Live hardware temperature dashboard",
		Long: `thermals shows CPU, coolant, and GPU temperatures over a sliding time
window, with gauges for the coolant loop and a summary table of every sensor.

Commands:
  thermals                 Run the dashboard
  thermals sensors         List the hardware sensors this machine exposes
  thermals snapshot        Print one reading of every metric
  thermals config          Print the effective configuration`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/thermals/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newSensorsCmd(),
		newSnapshotCmd(),
		newConfigCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, app.FormatStartupError(err))
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// newReader builds the sensor reader from the configured bindings.
func newReader(cfg *config.Config) (*sensors.Reader, error) {
	return sensors.NewReader(cfg.Sensors.Bindings,
		sensors.WithNvidiaSmi(cfg.Sensors.NvidiaSmi.Path, cfg.Sensors.NvidiaSmi.Timeout),
	)
}

func runDashboard(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return app.ErrNotTerminal
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := styles.SetTheme(cfg.UI.Theme); err != nil {
		return err
	}

	// The dashboard owns the terminal, so logs go to the rotating file only.
	logger.InitLogger(cfg.LogLevel(), cfg.Log.Path)
	defer logger.Close()

	logger.Info("thermals starting", "version", version, "interval", cfg.Interval, "window", cfg.Window)

	reader, err := newReader(cfg)
	if err != nil {
		return err
	}

	model, err := app.New(ctx, cfg, reader)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("dashboard exited with error", "error", err)
		return fmt.Errorf("error running dashboard: %w", err)
	}

	logger.Info("thermals stopped")
	return nil
}

// initConsoleLogger routes subcommand logs to stderr.
func initConsoleLogger(cfg *config.Config) {
	logger.InitConsoleLogger(cfg.LogLevel(), os.Stderr, noColor || !term.IsTerminal(int(os.Stderr.Fd())))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
