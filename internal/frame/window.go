package frame

import (
	"errors"
	"fmt"
	"time"
)

// ErrLabelNotFound is returned when a label value never occurs in a column.
var ErrLabelNotFound = errors.New("label not found")

// SliceByLabel returns the rows from before ahead of the first row
// labelled label through after past the last such row, both ends
// inclusive.
func SliceByLabel(ds *Dataset, labelCol int, label string, before, after time.Duration) (*Dataset, error) {
	idx, err := ds.ColumnIndex(labelCol)
	if err != nil {
		return nil, err
	}
	col := ds.Columns[idx]
	first, last := -1, -1
	for i := 0; i < col.Len(); i++ {
		if col.Cell(i) == label {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil, fmt.Errorf("%w: %q in column %q", ErrLabelNotFound, label, col.Name)
	}
	start := ds.Index[first].Add(-before)
	end := ds.Index[last].Add(after)
	part := ds.Filter(func(row int) bool {
		t := ds.Index[row]
		return !t.Before(start) && !t.After(end)
	})
	return &Dataset{Name: ds.Name, Frame: part}, nil
}
