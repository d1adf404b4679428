package waveform

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/period"
	"github.com/KaramelBytes/actigraph-cli/internal/utils"
)

// Key identifies one subject's recording within a condition and section
// (e.g. a light period).
type Key struct {
	Condition string
	Section   string
	Subject   string
}

// Block holds one subject's channels for a (condition, section) on a
// circadian axis.
type Block struct {
	Key
	Index    []time.Duration
	Channels [][]float64
}

// GroupRow is the across-subject summary for one time bin.
type GroupRow struct {
	Condition string
	Section   string
	Time      time.Duration
	Mean      float64
	SEM       float64
	N         int
}

// GroupTable is the group mean ± SEM table used for waveform plots.
type GroupTable struct {
	Rows []GroupRow
}

type groupKey struct{ cond, section string }

// GroupMean averages each subject across its channels, bins the result
// into bin-sized intervals labelled at their midpoint, and then takes the
// mean and SEM across subjects for every (condition, section, bin).
// Conditions and sections keep first-seen order; bins are ascending.
func GroupMean(blocks []Block, bin time.Duration) (*GroupTable, error) {
	if bin <= 0 {
		return nil, fmt.Errorf("group mean: invalid bin %s", bin)
	}
	if len(blocks) == 0 {
		return nil, errors.New("group mean: no blocks")
	}

	var order []groupKey
	// per group: bin -> subject -> binned mean
	binned := map[groupKey]map[int64]map[string]float64{}
	for _, b := range blocks {
		gk := groupKey{b.Condition, b.Section}
		if _, ok := binned[gk]; !ok {
			binned[gk] = map[int64]map[string]float64{}
			order = append(order, gk)
		}
		sums := map[int64]float64{}
		counts := map[int64]int{}
		row := make([]float64, len(b.Channels))
		for i, t := range b.Index {
			for k, ch := range b.Channels {
				row[k] = math.NaN()
				if i < len(ch) {
					row[k] = ch[i]
				}
			}
			m, _, n := MeanSEM(row)
			if n == 0 {
				continue
			}
			idx := int64(t / bin)
			sums[idx] += m
			counts[idx]++
		}
		for idx, s := range sums {
			subj := binned[gk][idx]
			if subj == nil {
				subj = map[string]float64{}
				binned[gk][idx] = subj
			}
			subj[b.Subject] = s / float64(counts[idx])
		}
	}

	out := &GroupTable{}
	for _, gk := range order {
		bins := make([]int64, 0, len(binned[gk]))
		for idx := range binned[gk] {
			bins = append(bins, idx)
		}
		sort.Slice(bins, func(i, j int) bool { return bins[i] < bins[j] })
		for _, idx := range bins {
			subj := binned[gk][idx]
			vals := make([]float64, 0, len(subj))
			for _, v := range subj {
				vals = append(vals, v)
			}
			sort.Float64s(vals)
			m, sem, n := MeanSEM(vals)
			out.Rows = append(out.Rows, GroupRow{
				Condition: gk.cond,
				Section:   gk.section,
				Time:      time.Duration(idx)*bin + bin/2,
				Mean:      m,
				SEM:       sem,
				N:         n,
			})
		}
	}
	return out, nil
}

// Curves returns one curve per (condition, section) in table order. The
// section is appended to the name only when a condition has several.
func (g *GroupTable) Curves() []Curve {
	sections := map[string]map[string]struct{}{}
	for _, r := range g.Rows {
		if sections[r.Condition] == nil {
			sections[r.Condition] = map[string]struct{}{}
		}
		sections[r.Condition][r.Section] = struct{}{}
	}
	var out []Curve
	pos := map[groupKey]int{}
	for _, r := range g.Rows {
		gk := groupKey{r.Condition, r.Section}
		i, ok := pos[gk]
		if !ok {
			name := r.Condition
			if len(sections[r.Condition]) > 1 {
				name = r.Condition + " / " + r.Section
			}
			out = append(out, Curve{Name: name})
			i = len(out) - 1
			pos[gk] = i
		}
		out[i].Index = append(out[i].Index, r.Time)
		out[i].Mean = append(out[i].Mean, r.Mean)
		out[i].SEM = append(out[i].SEM, r.SEM)
	}
	return out
}

// WriteCSV writes the table in long form.
func (g *GroupTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Condition", "Section", "CT", "Group mean", "sem", "n"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range g.Rows {
		rec := []string{r.Condition, r.Section, period.FormatCT(r.Time), formatFloat(r.Mean), formatFloat(r.SEM), strconv.Itoa(r.N)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the table as CSV to path.
func (g *GroupTable) Save(path string) error {
	var b strings.Builder
	if err := g.WriteCSV(&b); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, []byte(b.String()))
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
