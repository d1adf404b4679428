package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics holds rest-activity rhythm indices for one channel.
type Metrics struct {
	Channel string
	IS      float64 // interdaily stability, 0..1
	IV      float64 // intradaily variability, ~0..2
	Hours   int     // hourly bins used
}

// InterdailyStability compares the variance of the average 24 hour
// profile with the overall variance of hourly data. ts are the hourly bin
// starts matching values; NaN bins are skipped. Returns NaN when the data
// has no variance.
func InterdailyStability(ts []time.Time, values []float64) float64 {
	var xs []float64
	byHour := map[int][]float64{}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, v)
		h := ts[i].Hour()
		byHour[h] = append(byHour[h], v)
	}
	n := len(xs)
	if n == 0 || len(byHour) == 0 {
		return math.NaN()
	}
	mean := stat.Mean(xs, nil)
	var num float64
	for _, hv := range byHour {
		d := stat.Mean(hv, nil) - mean
		num += d * d
	}
	den := sumSquares(xs, mean)
	if den == 0 {
		return math.NaN()
	}
	return float64(n) * num / (float64(len(byHour)) * den)
}

// IntradailyVariability measures hour-to-hour fragmentation: the mean
// squared successive difference relative to the variance. NaN bins are
// skipped.
func IntradailyVariability(values []float64) float64 {
	var xs []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = xs[i] - xs[i-1]
	}
	num := floats.Dot(diffs, diffs)
	den := sumSquares(xs, stat.Mean(xs, nil))
	if den == 0 {
		return math.NaN()
	}
	return float64(n) * num / (float64(n-1) * den)
}

func sumSquares(xs []float64, mean float64) float64 {
	var s float64
	for _, x := range xs {
		d := x - mean
		s += d * d
	}
	return s
}

// ActivityMetrics resamples ds to hourly means and computes IS and IV for
// every numeric channel.
func ActivityMetrics(ds *frame.Dataset) ([]Metrics, error) {
	hourly, err := ds.Resample(time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ds.Name, err)
	}
	out := make([]Metrics, 0, len(hourly.Columns))
	for _, c := range hourly.Columns {
		hours := 0
		for _, v := range c.Values {
			if !math.IsNaN(v) {
				hours++
			}
		}
		out = append(out, Metrics{
			Channel: c.Name,
			IS:      InterdailyStability(hourly.Index, c.Values),
			IV:      IntradailyVariability(c.Values),
			Hours:   hours,
		})
	}
	return out, nil
}

// WriteMetricsCSV writes one row per (file, channel).
func WriteMetricsCSV(w io.Writer, rows map[string][]Metrics, order []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", "channel", "IS", "IV", "hours"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, name := range order {
		for _, m := range rows[name] {
			rec := []string{name, m.Channel, fmtMetric(m.IS), fmtMetric(m.IV), strconv.Itoa(m.Hours)}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtMetric(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
