// Package period cuts long actigraphy recordings into fixed-length
// windows and lays them side by side on a circadian time axis.
package period

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"gonum.org/v1/gonum/mat"
)

// Day is the default slicing and circadian period.
const Day = 24 * time.Hour

// Options controls period slicing.
type Options struct {
	// Period is the true length of one window in the recording.
	Period time.Duration
	// CT is the display length each window is stretched or squeezed onto.
	CT time.Duration
}

// DefaultOptions slices by 24 hours and displays on a 24 hour axis.
func DefaultOptions() Options {
	return Options{Period: Day, CT: Day}
}

// ErrInvalidPeriod is returned for a negative Period or CT.
var ErrInvalidPeriod = errors.New("period must be positive")

// withDefaults fills zero fields with Day. Negative values are rejected.
func (o Options) withDefaults() (Options, error) {
	if o.Period < 0 {
		return o, fmt.Errorf("%w: period %s", ErrInvalidPeriod, o.Period)
	}
	if o.CT < 0 {
		return o, fmt.Errorf("%w: ct %s", ErrInvalidPeriod, o.CT)
	}
	if o.Period == 0 {
		o.Period = Day
	}
	if o.CT == 0 {
		o.CT = Day
	}
	return o, nil
}

// Index returns boundaries start, start+p, ... up to and including end.
func Index(ts []time.Time, p time.Duration) ([]time.Time, error) {
	if p <= 0 {
		return nil, fmt.Errorf("period index: invalid period %s", p)
	}
	if len(ts) == 0 {
		return nil, errors.New("period index: empty series")
	}
	start, end := ts[0], ts[len(ts)-1]
	var out []time.Time
	for b := start; !b.After(end); b = b.Add(p) {
		out = append(out, b)
	}
	return out, nil
}

// SliceByIndex returns one segment of values per boundary: [b_i, b_i+1)
// for each adjacent pair and [b_last, end] for the final one. Segments
// keep whatever number of samples fell inside them.
func SliceByIndex(ts []time.Time, values []float64, bounds []time.Time) [][]float64 {
	out := make([][]float64, 0, len(bounds))
	i := 0
	for k, b := range bounds {
		for i < len(ts) && ts[i].Before(b) {
			i++
		}
		j := len(ts)
		if k+1 < len(bounds) {
			j = i
			for j < len(ts) && ts[j].Before(bounds[k+1]) {
				j++
			}
		}
		out = append(out, append([]float64(nil), values[i:j]...))
		i = j
	}
	return out
}

// Step returns the circadian sampling interval for rows ticks spanning
// ct: whole seconds plus milliseconds rounded half to even. The result
// can be off from ct/rows by under a millisecond.
func Step(rows int, ct time.Duration) time.Duration {
	if rows <= 0 {
		return 0
	}
	ratio := ct.Seconds() / float64(rows)
	whole := math.Trunc(ratio)
	ms := math.RoundToEven((ratio - whole) * 1000)
	return time.Duration(whole)*time.Second + time.Duration(ms)*time.Millisecond
}

// CircadianIndex returns rows ticks starting at zero spaced by Step(rows, ct).
func CircadianIndex(rows int, ct time.Duration) []time.Duration {
	step := Step(rows, ct)
	out := make([]time.Duration, rows)
	for i := range out {
		out[i] = time.Duration(i) * step
	}
	return out
}

// Sliced is one channel cut into periods. Days[k] holds the samples of
// period k; every day has len(Index) entries.
type Sliced struct {
	Name  string
	Index []time.Duration
	Days  [][]float64
}

// Rows returns the number of circadian ticks.
func (s *Sliced) Rows() int { return len(s.Index) }

// Matrix returns a rows x days view, copying the data.
func (s *Sliced) Matrix() *mat.Dense {
	r, c := s.Rows(), len(s.Days)
	if r == 0 || c == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(r, c, nil)
	for k, d := range s.Days {
		m.SetCol(k, d)
	}
	return m
}

// SplitColumn slices the numeric column col of f into periods and indexes
// the result by circadian time. Days shorter than the longest one are
// padded with NaN.
func SplitColumn(f *frame.Frame, col int, opt Options) (*Sliced, error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}
	idx, err := f.ColumnIndex(col)
	if err != nil {
		return nil, err
	}
	c := f.Columns[idx]
	if c.Kind != frame.Numeric {
		return nil, fmt.Errorf("split %q: %w", c.Name, frame.ErrNotNumeric)
	}
	bounds, err := Index(f.Index, opt.Period)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", c.Name, err)
	}
	segs := SliceByIndex(f.Index, c.Values, bounds)
	rows := 0
	for _, s := range segs {
		rows = max(rows, len(s))
	}
	for k, s := range segs {
		if len(s) < rows {
			padded := make([]float64, rows)
			copy(padded, s)
			for i := len(s); i < rows; i++ {
				padded[i] = math.NaN()
			}
			segs[k] = padded
		}
	}
	return &Sliced{Name: c.Name, Index: CircadianIndex(rows, opt.CT), Days: segs}, nil
}

// Split is the per-channel result of SplitAll.
type Split []*Sliced

// SplitAll applies SplitColumn to every numeric column of ds.
func SplitAll(ds *frame.Dataset, opt Options) (Split, error) {
	var out Split
	for i, c := range ds.Columns {
		if c.Kind != frame.Numeric {
			continue
		}
		s, err := SplitColumn(ds.Frame, i, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ds.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}
