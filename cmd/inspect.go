package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/actigraph-cli/internal/analysis"
	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/spf13/cobra"
)

var (
	insOutputPath string
	insDelimiter  string
	insDecimal    string
	insThousands  string
	insMetrics    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize one recording: span, sampling interval, columns and rhythm metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := readOptions(filepath.Ext(path), insDelimiter, insDecimal, insThousands)
		if err != nil {
			return err
		}
		ds, err := frame.ReadFile(path, opt)
		if err != nil {
			return err
		}
		rep := analysis.Summarize(ds)
		if insMetrics {
			ms, err := analysis.ActivityMetrics(ds)
			if err != nil {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("metrics unavailable: %v", err))
			} else {
				rep.Metrics = ms
			}
		}
		md := rep.Markdown()

		if insOutputPath != "" {
			if err := os.WriteFile(insOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(stdout(cmd), "✓ Wrote summary to %s\n", insOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	inspectCmd.Flags().BoolVar(&insMetrics, "metrics", true, "include IS/IV rhythm metrics")
	registerReadFlags(inspectCmd, &insDelimiter, &insDecimal, &insThousands)
}
