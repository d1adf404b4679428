// Package frame holds time-indexed actigraphy tables and the row/column
// transforms applied to them before period slicing.
package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrColumnNotFound indicates a column reference did not resolve.
	ErrColumnNotFound = errors.New("column not found")
	// ErrNotNumeric indicates a numeric operation was asked of a text column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Kind is the inferred type of a column.
type Kind int

const (
	Numeric Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}
	return "numeric"
}

// Column is a named data channel. Numeric columns use Values (NaN marks a
// missing cell); text columns use Labels ("" marks a missing cell).
type Column struct {
	Name   string
	Kind   Kind
	Values []float64
	Labels []string
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Kind == Text {
		return len(c.Labels)
	}
	return len(c.Values)
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Values != nil {
		out.Values = append([]float64(nil), c.Values...)
	}
	if c.Labels != nil {
		out.Labels = append([]string(nil), c.Labels...)
	}
	return out
}

// Cell renders row i as CSV text.
func (c *Column) Cell(i int) string {
	if c.Kind == Text {
		return c.Labels[i]
	}
	v := c.Values[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Frame is a table of columns sharing a timestamp index. The index is
// expected to be monotonically non-decreasing.
type Frame struct {
	// IndexName is the header of the timestamp column; empty means "Date".
	IndexName string
	Index     []time.Time
	Columns   []*Column
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Index) }

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{IndexName: f.IndexName, Index: append([]time.Time(nil), f.Index...)}
	out.Columns = make([]*Column, len(f.Columns))
	for i, c := range f.Columns {
		out.Columns[i] = c.Clone()
	}
	return out
}

// ColumnIndex resolves i against the column list. Negative values count
// from the end, so -1 is the last column.
func (f *Frame) ColumnIndex(i int) (int, error) {
	n := len(f.Columns)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: index %d of %d columns", ErrColumnNotFound, i, n)
	}
	return i, nil
}

// Lookup resolves a column reference given either as an integer position
// (negative counts from the end) or as a column name.
func (f *Frame) Lookup(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if i, err := strconv.Atoi(ref); err == nil {
		return f.ColumnIndex(i)
	}
	for i, c := range f.Columns {
		if c.Name == ref {
			return i, nil
		}
	}
	for i, c := range f.Columns {
		if strings.EqualFold(c.Name, ref) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, ref)
}

// Numeric returns the numeric columns in order.
func (f *Frame) Numeric() []*Column {
	var out []*Column
	for _, c := range f.Columns {
		if c.Kind == Numeric {
			out = append(out, c)
		}
	}
	return out
}

// DropNonNumeric returns a copy without text columns, along with the
// columns that were removed so callers can reattach them.
func (f *Frame) DropNonNumeric() (*Frame, []*Column) {
	out := &Frame{IndexName: f.IndexName, Index: append([]time.Time(nil), f.Index...)}
	var dropped []*Column
	for _, c := range f.Columns {
		if c.Kind == Text {
			dropped = append(dropped, c.Clone())
			continue
		}
		out.Columns = append(out.Columns, c.Clone())
	}
	return out, dropped
}

// Take returns a new frame holding rows [lo, hi).
func (f *Frame) Take(lo, hi int) *Frame {
	out := &Frame{IndexName: f.IndexName, Index: append([]time.Time(nil), f.Index[lo:hi]...)}
	out.Columns = make([]*Column, len(f.Columns))
	for i, c := range f.Columns {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Text {
			nc.Labels = append([]string(nil), c.Labels[lo:hi]...)
		} else {
			nc.Values = append([]float64(nil), c.Values[lo:hi]...)
		}
		out.Columns[i] = nc
	}
	return out
}

// Filter returns a new frame holding the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	var rows []int
	for i := range f.Index {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	out := &Frame{IndexName: f.IndexName, Index: make([]time.Time, len(rows))}
	for j, r := range rows {
		out.Index[j] = f.Index[r]
	}
	out.Columns = make([]*Column, len(f.Columns))
	for i, c := range f.Columns {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Text {
			nc.Labels = make([]string, len(rows))
			for j, r := range rows {
				nc.Labels[j] = c.Labels[r]
			}
		} else {
			nc.Values = make([]float64, len(rows))
			for j, r := range rows {
				nc.Values[j] = c.Values[r]
			}
		}
		out.Columns[i] = nc
	}
	return out
}

// Dataset pairs a frame with the name it is reported and saved under.
type Dataset struct {
	Name string
	*Frame
}

// DropNonNumeric is Frame.DropNonNumeric keeping the dataset name.
func (d *Dataset) DropNonNumeric() (*Dataset, []*Column) {
	f, dropped := d.Frame.DropNonNumeric()
	return &Dataset{Name: d.Name, Frame: f}, dropped
}

// Without returns a frame sharing f's columns minus those at the given
// positions. Out-of-range positions are ignored.
func (f *Frame) Without(cols ...int) *Frame {
	skip := map[int]bool{}
	for _, c := range cols {
		skip[c] = true
	}
	out := &Frame{IndexName: f.IndexName, Index: f.Index}
	for i, c := range f.Columns {
		if !skip[i] {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}
