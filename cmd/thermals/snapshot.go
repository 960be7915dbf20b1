package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/willibrandon/thermals/internal/config"
	"github.com/willibrandon/thermals/internal/metrics"
	"github.com/willibrandon/thermals/internal/sensors"
	"github.com/willibrandon/thermals/internal/ui/components"
	"github.com/willibrandon/thermals/internal/ui/styles"
)

const labelWidth = 16

var (
	normalFmt   = color.New(color.FgHiGreen).SprintFunc()
	warningFmt  = color.New(color.FgHiYellow).SprintFunc()
	criticalFmt = color.New(color.FgHiRed, color.Bold).SprintFunc()
	missingFmt  = color.New(color.FgHiBlack).SprintFunc()
	headerFmt   = color.New(color.Bold).SprintFunc()
)

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print one reading of every metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			initConsoleLogger(cfg)
			color.NoColor = color.NoColor || noColor

			reader, err := newReader(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			snap := reader.Snapshot(cmd.Context())
			writeSnapshot(cmd.OutOrStdout(), snap, cfg, time.Since(start))
			return nil
		},
	}
}

// writeSnapshot prints one line per catalog metric: label, value, the
// binding it was read from. Gauge thresholds color the value.
func writeSnapshot(w io.Writer, snap metrics.Snapshot, cfg *config.Config, took time.Duration) {
	thresholds := make(map[string]config.GaugeConfig, len(cfg.Gauges))
	for _, g := range cfg.Gauges {
		thresholds[g.Metric] = g
	}

	fmt.Fprintln(w, headerFmt(runewidth.FillRight("Metric", labelWidth)+"  "+runewidth.FillLeft("Value", 10)+"  Source"))

	for _, m := range sensors.Catalog() {
		v := snap.Value(m.Name)
		binding := cfg.Sensors.Bindings[m.Name]

		value := runewidth.FillLeft(fmt.Sprintf("%.1f%s", v, m.Unit), 10)
		switch {
		case v == metrics.Sentinel:
			value = missingFmt(runewidth.FillLeft("--", 10))
		default:
			g, ok := thresholds[m.Name]
			if !ok {
				break
			}
			switch components.Severity(v, g.Warn, g.Crit) {
			case styles.StatusCritical:
				value = criticalFmt(value)
			case styles.StatusWarning:
				value = warningFmt(value)
			default:
				value = normalFmt(value)
			}
		}

		label := runewidth.FillRight(runewidth.Truncate(m.Label, labelWidth, "…"), labelWidth)
		fmt.Fprintf(w, "%s  %s  %s\n", label, value, binding.String())
	}

	fmt.Fprintf(w, "\nread %d metrics in %s\n", len(snap), took.Round(time.Millisecond))
}
