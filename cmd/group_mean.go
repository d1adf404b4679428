package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/actigraph-cli/internal/waveform"
	"github.com/spf13/cobra"
)

var (
	gmFlags      batchFlags
	gmLabelCol   string
	gmSectionCol string
	gmPeriod     string
	gmCT         string
	gmBin        string
	gmPlot       bool
	gmWidth      float64
	gmHeight     float64
)

var groupMeanCmd = &cobra.Command{
	Use:   "group-mean <dir>",
	Short: "Average subjects per condition into a group mean ± SEM waveform",
	Long: `Group-mean treats every input file as one subject. Rows are split by the
condition label (and optionally a section label such as the light period),
each part is period-sliced and averaged across periods and channels, binned,
and finally averaged across subjects. The table is written to group_mean.csv
in the output subdirectory; --plot also renders the curves.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings()
		ref := stringSetting(cmd, "label-col", gmLabelCol, s.LabelCol)
		popt, err := periodOptions(cmd, gmPeriod, gmCT)
		if err != nil {
			return err
		}
		bin, err := durationSetting(cmd, "bin", gmBin, s.Bin)
		if err != nil {
			return err
		}
		p, err := gmFlags.open(cmd, args[0], true)
		if err != nil {
			return err
		}

		progress := progressPrinter(stdout(cmd))
		var blocks []waveform.Block
		for i, ds := range p.Datasets {
			progress(i, len(p.Datasets), p.Files[i])
			bo := waveform.BlockOptions{Period: popt}
			if bo.ConditionCol, err = ds.Lookup(ref); err != nil {
				return fmt.Errorf("%s: %w", ds.Name, err)
			}
			if gmSectionCol != "" {
				if bo.SectionCol, err = ds.Lookup(gmSectionCol); err != nil {
					return fmt.Errorf("%s: %w", ds.Name, err)
				}
				bo.Sectioned = true
			}
			b, err := waveform.SubjectBlocks(ds, bo)
			if err != nil {
				return err
			}
			logger.Debug("subject blocks", "file", ds.Name, "blocks", len(b))
			blocks = append(blocks, b...)
		}

		table, err := waveform.GroupMean(blocks, bin)
		if err != nil {
			return err
		}
		out := filepath.Join(p.SubdirPath, "group_mean.csv")
		if err := table.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "✓ Wrote %s (%d rows)\n", out, len(table.Rows))

		if gmPlot {
			po := plotOptions(cmd, gmWidth, gmHeight)
			po.CT = popt.CT
			img := filepath.Join(p.SubdirPath, "group_mean"+s.PlotSuffix)
			if err := waveform.PlotMeans(table.Curves(), img, po); err != nil {
				return err
			}
			fmt.Fprintf(stdout(cmd), "✓ Plotted %s\n", img)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupMeanCmd)
	gmFlags.register(groupMeanCmd, "group_mean", "")
	registerPeriodFlags(groupMeanCmd, &gmPeriod, &gmCT)
	registerPlotFlags(groupMeanCmd, &gmWidth, &gmHeight)
	groupMeanCmd.Flags().StringVar(&gmLabelCol, "label-col", "-1", "condition label column: position or name")
	groupMeanCmd.Flags().StringVar(&gmSectionCol, "section-col", "", "optional section label column, e.g. light period")
	groupMeanCmd.Flags().StringVar(&gmBin, "bin", "1h", "time bin for the group mean")
	groupMeanCmd.Flags().BoolVar(&gmPlot, "plot", false, "also plot the group curves")
}
