// Package waveform computes mean ± SEM activity curves across animals,
// days or conditions and renders them as stacked plots.
package waveform

import (
	"math"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/period"
	"gonum.org/v1/gonum/stat"
)

// Table is a block of parallel curves on a shared circadian axis, e.g.
// the days of one channel or the animals of one condition.
type Table struct {
	Name    string
	Index   []time.Duration
	Columns [][]float64
}

// FromSliced wraps a period-sliced channel as a Table of days.
func FromSliced(s *period.Sliced) Table {
	return Table{Name: s.Name, Index: s.Index, Columns: s.Days}
}

// Curve is a mean line with its standard error band.
type Curve struct {
	Name  string
	Index []time.Duration
	Mean  []float64
	SEM   []float64
}

// MeanSEM returns the mean and standard error of xs, skipping NaN. The
// SEM uses the sample standard deviation and is NaN with fewer than two
// values. n is the number of values used.
func MeanSEM(xs []float64) (mean, sem float64, n int) {
	vals := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	n = len(vals)
	if n == 0 {
		return math.NaN(), math.NaN(), 0
	}
	mean = stat.Mean(vals, nil)
	if n < 2 {
		return mean, math.NaN(), n
	}
	return mean, stat.StdDev(vals, nil) / math.Sqrt(float64(n)), n
}

// RowMeans returns the row-wise mean and SEM across the table's columns.
func (t Table) RowMeans() Curve {
	c := Curve{
		Name:  t.Name,
		Index: t.Index,
		Mean:  make([]float64, len(t.Index)),
		SEM:   make([]float64, len(t.Index)),
	}
	row := make([]float64, len(t.Columns))
	for i := range t.Index {
		for k, col := range t.Columns {
			if i < len(col) {
				row[k] = col[i]
			} else {
				row[k] = math.NaN()
			}
		}
		c.Mean[i], c.SEM[i], _ = MeanSEM(row)
	}
	return c
}

// ConditionMeans reduces each table to its mean ± SEM curve, keeping order.
func ConditionMeans(tables []Table) []Curve {
	out := make([]Curve, len(tables))
	for i, t := range tables {
		out[i] = t.RowMeans()
	}
	return out
}
