package frame

import (
	"fmt"
	"math"
	"time"
)

// Resample bins numeric columns into fixed freq intervals and averages
// each bin, skipping NaN. Bins start at the first timestamp truncated to
// freq; bins without data hold NaN. Text columns are dropped.
func (f *Frame) Resample(freq time.Duration) (*Frame, error) {
	if freq <= 0 {
		return nil, fmt.Errorf("resample: invalid frequency %s", freq)
	}
	if f.Len() == 0 {
		out, _ := f.DropNonNumeric()
		return out, nil
	}
	start := f.Index[0].Truncate(freq)
	nbins := int(f.Index[f.Len()-1].Sub(start)/freq) + 1

	out := &Frame{IndexName: f.IndexName, Index: make([]time.Time, nbins)}
	for b := range out.Index {
		out.Index[b] = start.Add(time.Duration(b) * freq)
	}
	for _, c := range f.Numeric() {
		sums := make([]float64, nbins)
		counts := make([]int, nbins)
		for i, v := range c.Values {
			if math.IsNaN(v) {
				continue
			}
			b := int(f.Index[i].Sub(start) / freq)
			sums[b] += v
			counts[b]++
		}
		vals := make([]float64, nbins)
		for b := range vals {
			if counts[b] == 0 {
				vals[b] = math.NaN()
				continue
			}
			vals[b] = sums[b] / float64(counts[b])
		}
		out.Columns = append(out.Columns, &Column{Name: c.Name, Kind: Numeric, Values: vals})
	}
	return out, nil
}
