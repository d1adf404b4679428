package cmd

import (
	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	winFlags    batchFlags
	winLabelCol string
	winLabel    string
	winBefore   string
	winAfter    string
)

var windowCmd = &cobra.Command{
	Use:   "window <dir>",
	Short: "Keep the rows around a labelled section",
	Long: `Window keeps the rows from --before ahead of the first row carrying
--label through --after past the last one. Durations accept forms such as
6D, 16D, 36h or "1D12H".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings()
		ref := stringSetting(cmd, "label-col", winLabelCol, s.LabelCol)
		label := stringSetting(cmd, "label", winLabel, s.SectionLabel)
		before, err := durationSetting(cmd, "before", winBefore, s.BaselineLength)
		if err != nil {
			return err
		}
		after, err := durationSetting(cmd, "after", winAfter, s.PostLength)
		if err != nil {
			return err
		}
		p, err := winFlags.open(cmd, args[0], true)
		if err != nil {
			return err
		}
		fn := func(ds *frame.Dataset) (pipeline.Saver, error) {
			col, err := ds.Lookup(ref)
			if err != nil {
				return nil, err
			}
			out, err := frame.SliceByLabel(ds, col, label, before, after)
			if err != nil {
				return nil, err
			}
			logger.Debug("window", "file", ds.Name, "rows", out.Len())
			return out, nil
		}
		if err := p.Process(fn, pipeline.ProcessOptions{SaveSuffix: winFlags.saveSuffix, Save: true}); err != nil {
			return err
		}
		wrote(cmd, p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)
	winFlags.register(windowCmd, "window", ".csv")
	windowCmd.Flags().StringVar(&winLabelCol, "label-col", "-1", "label column: position (negative counts from the end) or name")
	windowCmd.Flags().StringVar(&winLabel, "label", "disrupted", "label value marking the section")
	windowCmd.Flags().StringVar(&winBefore, "before", "6D", "time kept before the first labelled row")
	windowCmd.Flags().StringVar(&winAfter, "after", "16D", "time kept after the last labelled row")
}
