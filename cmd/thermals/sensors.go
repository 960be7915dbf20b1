package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/willibrandon/thermals/internal/logger"
	"github.com/willibrandon/thermals/internal/sensors"
)

var (
	chipFmt    = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	boundFmt   = color.New(color.FgHiGreen).SprintFunc()
	invalidFmt = color.New(color.FgHiBlack).SprintFunc()
)

func newSensorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sensors",
		Short: "List hwmon chips, gopsutil sensors, and the metrics bound to them",
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

			d, err := reader.Discover(cmd.Context())
			if err != nil {
				return err
			}
			logger.Debug("discovered sensors", "chips", len(d.Chips), "temperatures", len(d.Temperatures))

			writeSensorTree(cmd.OutOrStdout(), d, cfg.Sensors.Bindings)
			return nil
		},
	}
}

// writeSensorTree prints every visible sensor, marking the ones a metric is
// bound to.
func writeSensorTree(w io.Writer, d sensors.Discovery, bindings map[string]sensors.Binding) {
	// Reverse index: binding description -> metric names.
	bound := make(map[string][]string)
	for name, b := range bindings {
		bound[b.String()] = append(bound[b.String()], name)
	}
	for _, names := range bound {
		sort.Strings(names)
	}

	tree := treeprint.New()
	tree.SetValue("sensors")

	hwmon := tree.AddBranch(chipFmt(sensors.ProviderHwmon))
	if len(d.Chips) == 0 {
		hwmon.AddNode(invalidFmt("no chips found under " + sensors.HwmonRoot))
	}
	for _, chip := range d.Chips {
		branch := hwmon.AddBranch(fmt.Sprintf("%s (%s)", chipFmt(chip.Name), chip.Device))
		for _, f := range chip.Features {
			key := sensors.Binding{Provider: sensors.ProviderHwmon, Chip: chip.Name, Feature: f.Name}.String()
			branch.AddNode(featureLine(f, bound[key]))
		}
	}

	gopsutil := tree.AddBranch(chipFmt(sensors.ProviderSensors))
	for _, t := range d.Temperatures {
		key := sensors.Binding{Provider: sensors.ProviderSensors, Feature: t.SensorKey}.String()
		line := fmt.Sprintf("%s  %.1f°C", t.SensorKey, t.Temperature)
		gopsutil.AddNode(line + boundSuffix(bound[key]))
	}

	mem := tree.AddBranch(chipFmt(sensors.ProviderMemory))
	if d.Memory != nil {
		line := fmt.Sprintf("%s / %s  %.1f%%",
			humanize.IBytes(d.Memory.Used), humanize.IBytes(d.Memory.Total), d.Memory.UsedPercent)
		mem.AddNode(line + boundSuffix(bound[sensors.ProviderMemory]))
	} else {
		mem.AddNode(invalidFmt("unavailable"))
	}

	fmt.Fprint(w, tree.String())
}

func featureLine(f sensors.Feature, metrics []string) string {
	name := f.Name
	if f.Label != "" {
		name = fmt.Sprintf("%s %q", f.Name, f.Label)
	}
	if !f.Valid {
		return invalidFmt(name+"  n/a") + boundSuffix(metrics)
	}
	return fmt.Sprintf("%s  %s", name, formatFeature(f)) + boundSuffix(metrics)
}

func formatFeature(f sensors.Feature) string {
	switch f.Type {
	case "temp":
		return fmt.Sprintf("%.1f°C", f.Value)
	case "power":
		return fmt.Sprintf("%.1fW", f.Value)
	case "fan":
		return fmt.Sprintf("%.0f RPM", f.Value)
	case "in":
		return fmt.Sprintf("%.3fV", f.Value)
	default:
		return fmt.Sprintf("%g", f.Value)
	}
}

func boundSuffix(metrics []string) string {
	if len(metrics) == 0 {
		return ""
	}
	out := "  <- "
	for i, m := range metrics {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return boundFmt(out)
}
