package analysis

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
)

const csvRows = `Date,mouse1,mouse2,label
2000-01-01 00:00:00,1,10,baseline
2000-01-01 00:00:10,2,,baseline
2000-01-01 00:00:20,3,30,disrupted
2000-01-01 00:00:40,4,40,
`

func TestSummarizeAndMarkdown(t *testing.T) {
	fr, err := frame.Read(strings.NewReader(csvRows), frame.DefaultOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	rep := Summarize(&frame.Dataset{Name: "cage1", Frame: fr})
	if rep.Rows != 4 || rep.Interval != 10*time.Second {
		t.Fatalf("rows = %d interval = %v", rep.Rows, rep.Interval)
	}
	m1 := rep.Cols[0]
	if m1.Min != 1 || m1.Max != 4 || m1.Mean != 2.5 || math.Abs(m1.Std-math.Sqrt(5.0/3.0)) > 1e-12 {
		t.Fatalf("mouse1 = %+v", m1)
	}
	if rep.Cols[1].Missing != 1 || rep.Cols[1].NonNull != 3 {
		t.Fatalf("mouse2 = %+v", rep.Cols[1])
	}
	lab := rep.Cols[2]
	if lab.Kind != "text" || len(lab.TopValues) != 2 || lab.TopValues[0] != (CategoryCount{"baseline", 2}) {
		t.Fatalf("label = %+v", lab)
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0] != "1 samples missing at 10s resolution" {
		t.Fatalf("warnings = %#v", rep.Warnings)
	}

	rep.Metrics = []Metrics{{Channel: "mouse1", IS: 0.5, IV: 1.25, Hours: 48}}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: cage1",
		"Sampling interval: 10s",
		"- mouse1: numeric (non-null 4, missing 0.0%) — min 1, max 4, mean 2.5",
		"- label: text (non-null 3, missing 25.0%) — labels: baseline(2), disrupted(1)",
		"[RHYTHM METRICS]",
		"- mouse1: IS 0.500, IV 1.250 (48 hourly bins)",
		"[NOTES]",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func hourly(days int, f func(h int) float64) ([]time.Time, []float64) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	var ts []time.Time
	var vs []float64
	for i := 0; i < days*24; i++ {
		ts = append(ts, start.Add(time.Duration(i)*time.Hour))
		vs = append(vs, f(i))
	}
	return ts, vs
}

func TestSummarizeSparseColumns(t *testing.T) {
	in := "Date,one,none\n2000-01-01 00:00:00,7,\n2000-01-01 00:01:00,,\n"
	fr, err := frame.Read(strings.NewReader(in), frame.DefaultOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	rep := Summarize(&frame.Dataset{Name: "sparse", Frame: fr})
	one, none := rep.Cols[0], rep.Cols[1]
	if one.NonNull != 1 || one.Min != 7 || one.Max != 7 || one.Mean != 7 || one.Std != 0 {
		t.Fatalf("one = %+v", one)
	}
	if none.NonNull != 0 || none.Missing != 2 || !math.IsNaN(none.Mean) || !math.IsNaN(none.Min) {
		t.Fatalf("none = %+v", none)
	}
}

func TestInterdailyStability(t *testing.T) {
	ts, vs := hourly(7, func(h int) float64 {
		if h%24 >= 12 {
			return 100
		}
		return 5
	})
	if is := InterdailyStability(ts, vs); math.Abs(is-1) > 1e-12 {
		t.Fatalf("periodic IS = %v, want 1", is)
	}
	// a pattern that drifts a day at a time loses stability
	_, drift := hourly(7, func(h int) float64 { return float64(h / 24) })
	if is := InterdailyStability(ts, drift); math.Abs(is) > 1e-12 {
		t.Fatalf("drift IS = %v, want 0", is)
	}
	_, flat := hourly(2, func(int) float64 { return 3 })
	if !math.IsNaN(InterdailyStability(ts[:48], flat)) {
		t.Fatalf("flat IS should be NaN")
	}
}

func TestIntradailyVariability(t *testing.T) {
	alt := make([]float64, 48)
	for i := range alt {
		alt[i] = float64(i % 2)
	}
	if iv := IntradailyVariability(alt); math.Abs(iv-4) > 1e-12 {
		t.Fatalf("alternating IV = %v, want 4", iv)
	}
	ramp := make([]float64, 100)
	for i := range ramp {
		ramp[i] = float64(i)
	}
	if iv := IntradailyVariability(ramp); iv > 0.01 {
		t.Fatalf("ramp IV = %v, want near 0", iv)
	}
	if !math.IsNaN(IntradailyVariability([]float64{1})) {
		t.Fatalf("single value IV should be NaN")
	}
}

func TestActivityMetrics(t *testing.T) {
	fr := &frame.Frame{Columns: []*frame.Column{{Name: "a", Kind: frame.Numeric}}}
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3*24*6; i++ {
		ts := start.Add(time.Duration(i) * 10 * time.Minute)
		fr.Index = append(fr.Index, ts)
		v := 1.0
		if ts.Hour() >= 18 {
			v = 50
		}
		fr.Columns[0].Values = append(fr.Columns[0].Values, v)
	}
	ms, err := ActivityMetrics(&frame.Dataset{Name: "m", Frame: fr})
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if len(ms) != 1 || ms[0].Hours != 72 || math.Abs(ms[0].IS-1) > 1e-9 {
		t.Fatalf("metrics = %+v", ms)
	}

	var b strings.Builder
	if err := WriteMetricsCSV(&b, map[string][]Metrics{"m": ms}, []string{"m"}); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.HasPrefix(b.String(), "file,channel,IS,IV,hours\nm,a,1.000000,") {
		t.Fatalf("csv = %q", b.String())
	}
}
