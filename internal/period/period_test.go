package period

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
)

var start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func regular(n int, step time.Duration, cols ...string) *frame.Frame {
	f := &frame.Frame{Index: make([]time.Time, n)}
	for i := range f.Index {
		f.Index[i] = start.Add(time.Duration(i) * step)
	}
	for c, name := range cols {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = float64(c*n + i)
		}
		f.Columns = append(f.Columns, &frame.Column{Name: name, Kind: frame.Numeric, Values: vals})
	}
	return f
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"24H 0T": 24 * time.Hour,
		"24H 0M": 24 * time.Hour,
		"6H":     6 * time.Hour,
		"2D":     48 * time.Hour,
		"16D":    16 * 24 * time.Hour,
		"30M":    30 * time.Minute,
		"1D12H":  36 * time.Hour,
		"500ms":  500 * time.Millisecond,
		"1.5h":   90 * time.Minute,
		"10s":    10 * time.Second,
		"23h56m": 23*time.Hour + 56*time.Minute,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		if err != nil || got != want {
			t.Errorf("ParseDuration(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "H", "3 fortnights", "12H!"} {
		if _, err := ParseDuration(bad); err == nil {
			t.Errorf("ParseDuration(%q) expected error", bad)
		}
	}
}

func TestSplitColumnSixHourScenario(t *testing.T) {
	f := regular(4320, 10*time.Second, "sensor1")
	s, err := SplitColumn(f, 0, Options{Period: 6 * time.Hour})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(s.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(s.Days))
	}
	for k, d := range s.Days {
		if len(d) != 2160 {
			t.Fatalf("day %d len = %d", k, len(d))
		}
	}
	if s.Days[1][0] != 2160 {
		t.Fatalf("day 1 starts at %v, want sample 2160", s.Days[1][0])
	}
	if s.Name != "sensor1" || s.Rows() != 2160 {
		t.Fatalf("name = %q rows = %d", s.Name, s.Rows())
	}
	// 24h over 2160 rows is exactly 40s
	if s.Index[1] != 40*time.Second || s.Index[2159] != 2159*40*time.Second {
		t.Fatalf("index step wrong: %v, %v", s.Index[1], s.Index[2159])
	}
}

func TestSliceShape(t *testing.T) {
	step := 10 * time.Second
	for _, tc := range []struct{ n, k int }{{100, 10}, {101, 10}, {95, 10}, {9, 10}, {10, 10}, {11, 10}} {
		f := regular(tc.n, step, "a")
		bounds, err := Index(f.Index, time.Duration(tc.k)*step)
		if err != nil {
			t.Fatalf("index: %v", err)
		}
		segs := SliceByIndex(f.Index, f.Columns[0].Values, bounds)
		wantCols := (tc.n + tc.k - 1) / tc.k
		if len(segs) != wantCols {
			t.Fatalf("n=%d k=%d: cols = %d, want %d", tc.n, tc.k, len(segs), wantCols)
		}
		total := 0
		for i, sgm := range segs {
			if i < len(segs)-1 && len(sgm) != tc.k {
				t.Fatalf("n=%d k=%d: segment %d len %d", tc.n, tc.k, i, len(sgm))
			}
			total += len(sgm)
		}
		if total != tc.n {
			t.Fatalf("n=%d k=%d: samples = %d", tc.n, tc.k, total)
		}
	}
}

func TestSliceByIndexWithGap(t *testing.T) {
	f := regular(30, time.Hour, "a")
	// drop hours 5..9 to make a gap in the first day
	keep := f.Filter(func(i int) bool { return i < 5 || i >= 10 })
	bounds, _ := Index(keep.Index, Day)
	segs := SliceByIndex(keep.Index, keep.Columns[0].Values, bounds)
	if len(segs) != 2 || len(segs[0]) != 19 || len(segs[1]) != 6 {
		t.Fatalf("segments = %d/%d/%d", len(segs), len(segs[0]), len(segs[1]))
	}
}

func TestSplitColumnPadsRaggedTail(t *testing.T) {
	f := regular(25, time.Hour, "a")
	s, err := SplitColumn(f, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(s.Days) != 2 || s.Rows() != 24 {
		t.Fatalf("shape = %d x %d", s.Rows(), len(s.Days))
	}
	if s.Days[1][0] != 24 || !math.IsNaN(s.Days[1][1]) {
		t.Fatalf("tail = %v", s.Days[1][:2])
	}
	if r, c := s.Matrix().Dims(); r != 24 || c != 2 {
		t.Fatalf("matrix = %dx%d", r, c)
	}
}

func TestCircadianIndexLength(t *testing.T) {
	for _, rows := range []int{1, 7, 1440, 8640, 8641} {
		for _, ct := range []time.Duration{Day, 23*time.Hour + 30*time.Minute, 25 * time.Hour} {
			idx := CircadianIndex(rows, ct)
			if len(idx) != rows {
				t.Fatalf("rows=%d ct=%v: len %d", rows, ct, len(idx))
			}
			if idx[0] != 0 {
				t.Fatalf("index must start at zero")
			}
		}
	}
}

func TestStepRounding(t *testing.T) {
	// 86400 / 7 = 12342.857142...s -> 12342s 857ms
	if got := Step(7, Day); got != 12342*time.Second+857*time.Millisecond {
		t.Fatalf("step = %v", got)
	}
	// 86400 / 8641 = 9.99884...s -> 9s 999ms
	if got := Step(8641, Day); got != 9*time.Second+999*time.Millisecond {
		t.Fatalf("step = %v", got)
	}
	// 1s / 16 = 0.0625s -> 62ms, ties go to even
	if got := Step(16, time.Second); got != 62*time.Millisecond {
		t.Fatalf("step = %v", got)
	}
	if got := Step(0, Day); got != 0 {
		t.Fatalf("step = %v", got)
	}
}

func TestSplitAllSkipsText(t *testing.T) {
	f := regular(48, time.Hour, "m1", "m2")
	f.Columns = append(f.Columns, &frame.Column{Name: "label", Kind: frame.Text, Labels: make([]string, 48)})
	sp, err := SplitAll(&frame.Dataset{Name: "cage", Frame: f}, DefaultOptions())
	if err != nil {
		t.Fatalf("split all: %v", err)
	}
	if len(sp) != 2 || sp[0].Name != "m1" || sp[1].Name != "m2" {
		t.Fatalf("split = %d", len(sp))
	}
	if _, err := SplitColumn(f, -1, DefaultOptions()); !errors.Is(err, frame.ErrNotNumeric) {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveCSVAndNPY(t *testing.T) {
	f := regular(48, time.Hour, "m1", "m2")
	sp, err := SplitAll(&frame.Dataset{Name: "cage", Frame: f}, DefaultOptions())
	if err != nil {
		t.Fatalf("split all: %v", err)
	}
	dir := t.TempDir()
	if err := sp.Save(filepath.Join(dir, "cage.csv")); err != nil {
		t.Fatalf("save csv: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "cage_m1.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 25 || lines[0] != "CT,0,1" || lines[2] != "01:00:00.000,1,25" {
		t.Fatalf("csv = %q", lines[:3])
	}

	if err := sp.Save(filepath.Join(dir, "cage.npy")); err != nil {
		t.Fatalf("save npy: %v", err)
	}
	m, err := ReadNPY(filepath.Join(dir, "cage_m2.npy"))
	if err != nil {
		t.Fatalf("read npy: %v", err)
	}
	if r, c := m.Dims(); r != 24 || c != 2 {
		t.Fatalf("npy shape = %dx%d", r, c)
	}
	if m.At(3, 1) != 48+24+3 {
		t.Fatalf("npy value = %v", m.At(3, 1))
	}
}

func TestSaveSanitizesChannelNames(t *testing.T) {
	f := regular(48, time.Hour, "m/1", "light on")
	sp, err := SplitAll(&frame.Dataset{Name: "cage", Frame: f}, DefaultOptions())
	if err != nil {
		t.Fatalf("split all: %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "cage.csv")
	if err := sp.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	want := []string{filepath.Join(dir, "cage_m-1.csv"), filepath.Join(dir, "cage_light-on.csv")}
	got := sp.Paths(path)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path %d = %s, want %s", i, got[i], want[i])
		}
		if _, err := os.Stat(want[i]); err != nil {
			t.Fatalf("missing output: %v", err)
		}
	}
}

func TestSplitColumnRejectsNegativePeriod(t *testing.T) {
	f := regular(48, time.Hour, "m1")
	for _, opt := range []Options{{Period: -time.Hour}, {CT: -6 * time.Hour}} {
		if _, err := SplitColumn(f, 0, opt); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("%+v: err = %v, want ErrInvalidPeriod", opt, err)
		}
	}
	// zero fields fall back to a day
	s, err := SplitColumn(f, 0, Options{})
	if err != nil || len(s.Days) != 2 {
		t.Fatalf("zero options: days=%v err=%v", s, err)
	}
}

func TestFormatCT(t *testing.T) {
	if got := FormatCT(13*time.Hour + 5*time.Minute + 9*time.Second + 250*time.Millisecond); got != "13:05:09.250" {
		t.Fatalf("FormatCT = %q", got)
	}
}
