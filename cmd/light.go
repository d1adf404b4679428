package cmd

import (
	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	lightFlags     batchFlags
	lightCol       string
	lightThreshold float64
	lightInvert    bool
)

var remapLightCmd = &cobra.Command{
	Use:   "remap-light <dir>",
	Short: "Clip the light channel at a threshold and optionally invert it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings()
		ref := stringSetting(cmd, "light-col", lightCol, s.LightCol)
		opt := frame.LightOptions{Threshold: s.LightThreshold, Invert: s.LightInvert}
		if cmd.Flags().Changed("threshold") {
			opt.Threshold = lightThreshold
		}
		if cmd.Flags().Changed("invert") {
			opt.Invert = lightInvert
		}
		p, err := lightFlags.open(cmd, args[0], true)
		if err != nil {
			return err
		}
		fn := func(ds *frame.Dataset) (pipeline.Saver, error) {
			col, err := ds.Lookup(ref)
			if err != nil {
				return nil, err
			}
			return frame.RemapLight(ds, col, opt)
		}
		if err := p.Process(fn, pipeline.ProcessOptions{SaveSuffix: lightFlags.saveSuffix, Save: true}); err != nil {
			return err
		}
		wrote(cmd, p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remapLightCmd)
	lightFlags.register(remapLightCmd, "remap_light", ".csv")
	remapLightCmd.Flags().StringVar(&lightCol, "light-col", "-1", "light column: position (negative counts from the end) or name")
	remapLightCmd.Flags().Float64Var(&lightThreshold, "threshold", frame.DefaultLightThreshold, "clip light readings above this value")
	remapLightCmd.Flags().BoolVar(&lightInvert, "invert", true, "store threshold - value so bright reads low")
}
