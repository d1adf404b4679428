package cmd

import (
	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	condFlags    batchFlags
	condLabelCol string
)

var conditionsCmd = &cobra.Command{
	Use:   "conditions <dir>",
	Short: "Split each file into one file per condition label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := stringSetting(cmd, "label-col", condLabelCol, settings().LabelCol)
		p, err := condFlags.open(cmd, args[0], true)
		if err != nil {
			return err
		}
		fn := func(ds *frame.Dataset) (pipeline.Saver, error) {
			col, err := ds.Lookup(ref)
			if err != nil {
				return nil, err
			}
			g, err := frame.SplitByCondition(ds, col)
			if err != nil {
				return nil, err
			}
			logger.Debug("conditions", "file", ds.Name, "groups", len(g))
			return g, nil
		}
		if err := p.Process(fn, pipeline.ProcessOptions{SaveSuffix: condFlags.saveSuffix, Save: true}); err != nil {
			return err
		}
		wrote(cmd, p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(conditionsCmd)
	condFlags.register(conditionsCmd, "conditions", ".csv")
	conditionsCmd.Flags().StringVar(&condLabelCol, "label-col", "-1", "label column: position (negative counts from the end) or name")
}
