// Package analysis summarizes actigraphy datasets and computes
// rest-activity rhythm metrics.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report is a markdown-friendly summary of one actigraphy file.
type Report struct {
	Name     string
	Rows     int
	Start    time.Time
	End      time.Time
	Interval time.Duration // median spacing between samples
	Cols     []ColumnSummary
	Metrics  []Metrics
	Warnings []string
}

// ColumnSummary captures statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|text
	NonNull int
	Missing int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Label counts in first-seen order
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize builds a Report for ds. Metrics are left empty; callers
// attach them when wanted.
func Summarize(ds *frame.Dataset) *Report {
	rep := &Report{Name: ds.Name, Rows: ds.Len()}
	if ds.Len() > 0 {
		rep.Start, rep.End = ds.Index[0], ds.Index[ds.Len()-1]
		rep.Interval = medianInterval(ds.Index)
	}
	for i := 1; i < ds.Len(); i++ {
		if ds.Index[i].Before(ds.Index[i-1]) {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("index not monotonic at row %d", i+1))
			break
		}
	}

	for _, c := range ds.Columns {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind.String()}
		if c.Kind == frame.Text {
			counts := map[string]int{}
			for _, l := range c.Labels {
				if l == "" {
					s.Missing++
					continue
				}
				s.NonNull++
				if counts[l] == 0 {
					s.TopValues = append(s.TopValues, CategoryCount{Value: l})
				}
				counts[l]++
			}
			for i := range s.TopValues {
				s.TopValues[i].Count = counts[s.TopValues[i].Value]
			}
			rep.Cols = append(rep.Cols, s)
			continue
		}
		vals := make([]float64, 0, len(c.Values))
		for _, x := range c.Values {
			if math.IsNaN(x) {
				s.Missing++
				continue
			}
			vals = append(vals, x)
		}
		s.NonNull = len(vals)
		switch len(vals) {
		case 0:
			s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		case 1:
			s.Min, s.Max, s.Mean = vals[0], vals[0], vals[0]
		default:
			s.Min, s.Max = floats.Min(vals), floats.Max(vals)
			s.Mean, s.Std = stat.MeanStdDev(vals, nil)
		}
		rep.Cols = append(rep.Cols, s)
	}
	if rep.Interval > 0 && rep.Rows > 1 {
		span := rep.End.Sub(rep.Start)
		expected := int(span/rep.Interval) + 1
		if expected > rep.Rows {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d samples missing at %s resolution", expected-rep.Rows, rep.Interval))
		}
	}
	return rep
}

func medianInterval(ts []time.Time) time.Duration {
	if len(ts) < 2 {
		return 0
	}
	d := make([]time.Duration, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		d[i-1] = ts[i].Sub(ts[i-1])
	}
	sort.Slice(d, func(i, j int) bool { return d[i] < d[j] })
	return d[len(d)/2]
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	if r.Rows > 0 {
		b.WriteString(fmt.Sprintf("Span: %s to %s (%s)\n", r.Start.Format(frame.IndexLayout), r.End.Format(frame.IndexLayout), r.End.Sub(r.Start)))
	}
	if r.Interval > 0 {
		b.WriteString(fmt.Sprintf("Sampling interval: %s\n", r.Interval))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
		case "text":
			if len(c.TopValues) > 0 {
				b.WriteString(" — labels: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Metrics) > 0 {
		b.WriteString("\n[RHYTHM METRICS]\n")
		for _, m := range r.Metrics {
			b.WriteString(fmt.Sprintf("- %s: IS %.3f, IV %.3f (%d hourly bins)\n", safeName(m.Channel), m.IS, m.IV, m.Hours))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
