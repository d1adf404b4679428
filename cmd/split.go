package cmd

import (
	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/period"
	"github.com/KaramelBytes/actigraph-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	splitFlags  batchFlags
	splitPeriod string
	splitCT     string
)

var splitCmd = &cobra.Command{
	Use:   "split <dir>",
	Short: "Slice every channel into periods laid side by side on a circadian axis",
	Long: `Split cuts each numeric channel of every input file into consecutive
periods and writes one table per channel: rows are circadian time, columns
are periods. Use --save-suffix .npy to write NumPy arrays instead of CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := periodOptions(cmd, splitPeriod, splitCT)
		if err != nil {
			return err
		}
		p, err := splitFlags.open(cmd, args[0], true)
		if err != nil {
			return err
		}
		fn := func(ds *frame.Dataset) (pipeline.Saver, error) {
			sp, err := period.SplitAll(ds, opt)
			if err != nil {
				return nil, err
			}
			return sp, nil
		}
		if err := p.Process(fn, pipeline.ProcessOptions{SaveSuffix: splitFlags.saveSuffix, Save: true}); err != nil {
			return err
		}
		wrote(cmd, p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitFlags.register(splitCmd, "split", ".csv")
	registerPeriodFlags(splitCmd, &splitPeriod, &splitCT)
}
