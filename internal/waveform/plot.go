package waveform

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/period"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

var (
	lineColor = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	bandColor = color.NRGBA{R: 31, G: 119, B: 180, A: 128}
)

// PlotOptions controls waveform rendering.
type PlotOptions struct {
	Title  string
	XLabel string
	YLabel string
	// CT is the length of the x axis.
	CT time.Duration
	// TickHours is the spacing of x axis ticks.
	TickHours int
	Width     vg.Length
	Height    vg.Length
}

// DefaultPlotOptions mirrors the layout used for mean activity figures.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Title:     "Mean activity for each condition",
		XLabel:    "Circadian Time",
		YLabel:    "Mean activity +/- sem",
		CT:        period.Day,
		TickHours: 6,
		Width:     8 * vg.Inch,
		Height:    6 * vg.Inch,
	}
}

func (o PlotOptions) withDefaults() PlotOptions {
	d := DefaultPlotOptions()
	if o.CT <= 0 {
		o.CT = d.CT
	}
	if o.TickHours <= 0 {
		o.TickHours = d.TickHours
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// hourTicks labels the circadian axis every Interval hours.
type hourTicks struct{ Interval int }

func (h hourTicks) Ticks(min, max float64) []plot.Tick {
	var out []plot.Tick
	for v := math.Ceil(min); v <= max; v++ {
		if int(v)%h.Interval == 0 {
			out = append(out, plot.Tick{Value: v, Label: strconv.Itoa(int(v))})
		} else {
			out = append(out, plot.Tick{Value: v})
		}
	}
	return out
}

// PlotMeans renders one subplot per curve, stacked vertically with a
// shared circadian x axis and a shared y range. The image format follows
// the extension of path (png, svg, pdf, ...).
func PlotMeans(curves []Curve, path string, opt PlotOptions) error {
	if len(curves) == 0 {
		return errors.New("plot means: no curves")
	}
	opt = opt.withDefaults()

	rows := make([][]*plot.Plot, len(curves))
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for i, c := range curves {
		p := plot.New()
		band, line, lo, hi, err := curvePlotters(c)
		if err != nil {
			return fmt.Errorf("plot %q: %w", c.Name, err)
		}
		if band != nil {
			p.Add(band)
		}
		if line != nil {
			p.Add(line)
		}
		ymin, ymax = math.Min(ymin, lo), math.Max(ymax, hi)
		p.Y.Label.Text = c.Name
		p.X.Min, p.X.Max = 0, opt.CT.Hours()
		p.X.Tick.Marker = hourTicks{Interval: opt.TickHours}
		if i == 0 {
			p.Title.Text = opt.Title
		}
		if i == len(curves)-1 {
			p.X.Label.Text = opt.XLabel
		} else {
			p.X.Tick.Label.Color = color.Transparent
		}
		rows[i] = []*plot.Plot{p}
	}
	if math.IsInf(ymin, 0) || math.IsInf(ymax, 0) {
		ymin, ymax = 0, 1
	}
	for _, r := range rows {
		r[0].Y.Min, r[0].Y.Max = ymin, ymax
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cw, err := draw.NewFormattedCanvas(opt.Width, opt.Height, format)
	if err != nil {
		return fmt.Errorf("plot means: %w", err)
	}
	tiles := draw.Tiles{
		Rows:      len(curves),
		Cols:      1,
		PadTop:    vg.Points(8),
		PadBottom: vg.Points(8),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(8),
	}
	canvases := plot.Align(rows, tiles, draw.New(cw))
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	if _, err := cw.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write plot: %w", err)
	}
	return f.Close()
}

// curvePlotters builds the SEM band and mean line for c, skipping NaN
// means. A NaN SEM draws no band at that point.
func curvePlotters(c Curve) (*plotter.Polygon, *plotter.Line, float64, float64, error) {
	var line, upper, lower plotter.XYs
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, t := range c.Index {
		m := c.Mean[i]
		if math.IsNaN(m) {
			continue
		}
		x := t.Hours()
		line = append(line, plotter.XY{X: x, Y: m})
		s := c.SEM[i]
		if math.IsNaN(s) {
			s = 0
		}
		upper = append(upper, plotter.XY{X: x, Y: m + s})
		lower = append(lower, plotter.XY{X: x, Y: m - s})
		lo, hi = math.Min(lo, m-s), math.Max(hi, m+s)
	}
	if len(line) == 0 {
		return nil, nil, lo, hi, nil
	}
	ring := make(plotter.XYs, 0, 2*len(upper))
	ring = append(ring, upper...)
	for i := len(lower) - 1; i >= 0; i-- {
		ring = append(ring, lower[i])
	}
	band, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, nil, lo, hi, err
	}
	band.Color = bandColor
	band.LineStyle.Width = 0

	l, err := plotter.NewLine(line)
	if err != nil {
		return nil, nil, lo, hi, err
	}
	l.Color = lineColor
	l.Width = vg.Points(1)
	return band, l, lo, hi, nil
}

// FrameOptions controls PlotFrame.
type FrameOptions struct {
	Period period.Options
	Plot   PlotOptions
}

// FrameCurves period-slices every numeric channel of ds and returns the
// mean ± SEM across days for each.
func FrameCurves(ds *frame.Dataset, opt period.Options) ([]Curve, error) {
	sp, err := period.SplitAll(ds, opt)
	if err != nil {
		return nil, err
	}
	tables := make([]Table, len(sp))
	for i, s := range sp {
		tables[i] = FromSliced(s)
	}
	return ConditionMeans(tables), nil
}

// PlotFrame plots each channel's mean ± SEM waveform across days.
func PlotFrame(ds *frame.Dataset, path string, opt FrameOptions) error {
	curves, err := FrameCurves(ds, opt.Period)
	if err != nil {
		return err
	}
	po := opt.Plot
	if po.CT <= 0 {
		po.CT = opt.Period.CT
	}
	if po.Title == "" {
		po.Title = ds.Name
	}
	return PlotMeans(curves, path, po)
}
