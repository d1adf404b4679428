package frame

import (
	"path/filepath"

	"github.com/KaramelBytes/actigraph-cli/internal/utils"
)

// Group is an ordered list of datasets derived from one input file.
type Group []*Dataset

// SplitByCondition partitions ds by the distinct values of the label
// column at labelCol, in first-seen order. Rows with an empty label are
// excluded. Each part is named after its label value.
func SplitByCondition(ds *Dataset, labelCol int) (Group, error) {
	idx, err := ds.ColumnIndex(labelCol)
	if err != nil {
		return nil, err
	}
	col := ds.Columns[idx]
	labels := col.Labels
	if col.Kind == Numeric {
		labels = make([]string, len(col.Values))
		for i := range col.Values {
			labels[i] = col.Cell(i)
		}
	}

	var order []string
	seen := map[string]struct{}{}
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		order = append(order, l)
	}

	out := make(Group, 0, len(order))
	for _, cond := range order {
		part := ds.Filter(func(row int) bool { return labels[row] == cond })
		out = append(out, &Dataset{Name: cond, Frame: part})
	}
	return out, nil
}

// Paths returns the files Save writes for path, one per member, named
// <stem>_<name><ext>.
func (g Group) Paths(path string) []string {
	dir, ext := filepath.Dir(path), filepath.Ext(path)
	stem := utils.Stem(path)
	out := make([]string, len(g))
	for i, ds := range g {
		out[i] = filepath.Join(dir, stem+"_"+utils.SafeName(ds.Name)+ext)
	}
	return out
}

// Save writes each member to its entry in Paths.
func (g Group) Save(path string) error {
	for i, p := range g.Paths(path) {
		if err := g[i].Save(p); err != nil {
			return err
		}
	}
	return nil
}
