package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/actigraph-cli/internal/config"
	"github.com/KaramelBytes/actigraph-cli/internal/period"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set actigraph configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "input_suffix: %s\n", c.InputSuffix)
		if c.SaveDir != "" {
			fmt.Fprintf(w, "save_dir: %s\n", c.SaveDir)
		}
		fmt.Fprintf(w, "period: %s\n", c.Period)
		fmt.Fprintf(w, "ct_period: %s\n", c.CTPeriod)
		fmt.Fprintf(w, "light_threshold: %g\n", c.LightThreshold)
		fmt.Fprintf(w, "light_invert: %t\n", c.LightInvert)
		fmt.Fprintf(w, "light_col: %s\n", c.LightCol)
		fmt.Fprintf(w, "label_col: %s\n", c.LabelCol)
		fmt.Fprintf(w, "section_label: %s\n", c.SectionLabel)
		fmt.Fprintf(w, "baseline_length: %s\n", c.BaselineLength)
		fmt.Fprintf(w, "post_length: %s\n", c.PostLength)
		fmt.Fprintf(w, "plot_suffix: %s\n", c.PlotSuffix)
		fmt.Fprintf(w, "plot_width_in: %g\n", c.PlotWidthIn)
		fmt.Fprintf(w, "plot_height_in: %g\n", c.PlotHeightIn)
		fmt.Fprintf(w, "bin: %s\n", c.Bin)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "input_suffix", "plot_suffix":
			if val == "" || val[0] != '.' {
				return fmt.Errorf("invalid %s: %q (must start with '.')", key, val)
			}
			if key == "input_suffix" {
				cfg.InputSuffix = val
			} else {
				cfg.PlotSuffix = val
			}
		case "save_dir":
			cfg.SaveDir = val
		case "period", "ct_period", "baseline_length", "post_length", "bin":
			if _, err := period.ParseDuration(val); err != nil {
				return fmt.Errorf("invalid duration for %s: %w", key, err)
			}
			switch key {
			case "period":
				cfg.Period = val
			case "ct_period":
				cfg.CTPeriod = val
			case "baseline_length":
				cfg.BaselineLength = val
			case "post_length":
				cfg.PostLength = val
			case "bin":
				cfg.Bin = val
			}
		case "light_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for light_threshold: %w", err)
			}
			cfg.LightThreshold = f
		case "light_invert":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for light_invert: %w", err)
			}
			cfg.LightInvert = b
		case "light_col":
			cfg.LightCol = val
		case "label_col":
			cfg.LabelCol = val
		case "section_label":
			cfg.SectionLabel = val
		case "plot_width_in", "plot_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid size for %s: %v", key, val)
			}
			if key == "plot_width_in" {
				cfg.PlotWidthIn = f
			} else {
				cfg.PlotHeightIn = f
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(stdout(cmd), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
