package cmd

import (
	"fmt"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/pipeline"
	"github.com/KaramelBytes/actigraph-cli/internal/waveform"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	wfFlags  batchFlags
	wfPeriod string
	wfCT     string
	wfWidth  float64
	wfHeight float64
)

var waveformCmd = &cobra.Command{
	Use:   "waveform <dir>",
	Short: "Plot each channel's mean ± SEM across periods, one image per file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings()
		popt, err := periodOptions(cmd, wfPeriod, wfCT)
		if err != nil {
			return err
		}
		po := plotOptions(cmd, wfWidth, wfHeight)
		po.Title = "" // each image is titled with its file
		po.CT = popt.CT
		opt := waveform.FrameOptions{Period: popt, Plot: po}
		suffix := stringSetting(cmd, "save-suffix", wfFlags.saveSuffix, s.PlotSuffix)
		p, err := wfFlags.open(cmd, args[0], true)
		if err != nil {
			return err
		}
		fn := func(ds *frame.Dataset, path string) error {
			return waveform.PlotFrame(ds, path, opt)
		}
		if err := p.Plot(fn, pipeline.PlotOptions{SaveSuffix: suffix}); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "✓ Plotted %d files into %s\n", len(p.Files), p.SubdirPath)
		return nil
	},
}

// plotOptions applies --width/--height (inches) over config.
func plotOptions(cmd *cobra.Command, width, height float64) waveform.PlotOptions {
	s := settings()
	opt := waveform.DefaultPlotOptions()
	w, h := s.PlotWidthIn, s.PlotHeightIn
	if cmd.Flags().Changed("width") {
		w = width
	}
	if cmd.Flags().Changed("height") {
		h = height
	}
	if w > 0 {
		opt.Width = vg.Length(w) * vg.Inch
	}
	if h > 0 {
		opt.Height = vg.Length(h) * vg.Inch
	}
	return opt
}

func registerPlotFlags(c *cobra.Command, width, height *float64) {
	c.Flags().Float64Var(width, "width", 8, "plot width in inches")
	c.Flags().Float64Var(height, "height", 6, "plot height in inches")
}

func init() {
	rootCmd.AddCommand(waveformCmd)
	wfFlags.register(waveformCmd, "waveform", ".png")
	registerPeriodFlags(waveformCmd, &wfPeriod, &wfCT)
	registerPlotFlags(waveformCmd, &wfWidth, &wfHeight)
}
