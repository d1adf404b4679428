package waveform

import (
	"fmt"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/period"
)

// BlockOptions controls SubjectBlocks.
type BlockOptions struct {
	ConditionCol int
	// SectionCol is only consulted when Sectioned is set.
	SectionCol int
	Sectioned  bool
	Period     period.Options
}

// SubjectBlocks treats ds as one subject. Rows are split by the condition
// label (and the section label, if any), each part is period-sliced and
// every channel is reduced to its mean across periods. The label columns
// themselves are not channels.
func SubjectBlocks(ds *frame.Dataset, opt BlockOptions) ([]Block, error) {
	cond, err := ds.ColumnIndex(opt.ConditionCol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ds.Name, err)
	}
	drop := []int{cond}
	sec := -1
	if opt.Sectioned {
		if sec, err = ds.ColumnIndex(opt.SectionCol); err != nil {
			return nil, fmt.Errorf("%s: %w", ds.Name, err)
		}
		drop = append(drop, sec)
	}
	groups, err := frame.SplitByCondition(ds, cond)
	if err != nil {
		return nil, err
	}

	var out []Block
	for _, g := range groups {
		parts := frame.Group{g}
		if sec >= 0 {
			if parts, err = frame.SplitByCondition(g, sec); err != nil {
				return nil, err
			}
		}
		for _, part := range parts {
			section := ""
			if sec >= 0 {
				section = part.Name
			}
			data := &frame.Dataset{Name: ds.Name, Frame: part.Without(drop...)}
			sp, err := period.SplitAll(data, opt.Period)
			if err != nil {
				return nil, err
			}
			if len(sp) == 0 {
				continue
			}
			b := Block{
				Key:   Key{Condition: g.Name, Section: section, Subject: ds.Name},
				Index: sp[0].Index,
			}
			for _, s := range sp {
				b.Channels = append(b.Channels, FromSliced(s).RowMeans().Mean)
			}
			out = append(out, b)
		}
	}
	return out, nil
}
