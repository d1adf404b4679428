package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/actigraph-cli/internal/analysis"
	"github.com/KaramelBytes/actigraph-cli/internal/utils"
	"github.com/spf13/cobra"
)

var metricsFlags batchFlags

var metricsCmd = &cobra.Command{
	Use:   "metrics <dir>",
	Short: "Compute interdaily stability and intradaily variability per channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := metricsFlags.open(cmd, args[0], true)
		if err != nil {
			return err
		}
		progress := progressPrinter(stdout(cmd))
		rows := map[string][]analysis.Metrics{}
		var order []string
		for i, ds := range p.Datasets {
			progress(i, len(p.Datasets), p.Files[i])
			ms, err := analysis.ActivityMetrics(ds)
			if err != nil {
				return err
			}
			rows[ds.Name] = ms
			order = append(order, ds.Name)
		}
		var b bytes.Buffer
		if err := analysis.WriteMetricsCSV(&b, rows, order); err != nil {
			return err
		}
		out := filepath.Join(p.SubdirPath, "metrics.csv")
		if err := utils.SafeWriteFile(out, b.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "✓ Wrote %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsFlags.register(metricsCmd, "metrics", "")
}
