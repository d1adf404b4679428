package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
)

const sample = `Date,mouse1,light,label
2000-01-01 00:00:00,1,10,baseline
2000-01-01 00:00:10,2,200,baseline
2000-01-01 00:00:20,3,300,disrupted
`

func writeInputs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(sample), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	// ignored by the glob
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestNewReadsSortedInputs(t *testing.T) {
	dir := writeInputs(t, "b.csv", "a.csv")
	p, err := New(Options{InputDir: dir, SubdirName: "out", ReadFiles: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(p.Files) != 2 || filepath.Base(p.Files[0]) != "a.csv" || filepath.Base(p.Files[1]) != "b.csv" {
		t.Fatalf("files = %v", p.Files)
	}
	if len(p.Datasets) != 2 || p.Datasets[0].Name != "a" {
		t.Fatalf("datasets not read in order")
	}
	if fi, err := os.Stat(filepath.Join(dir, "out")); err != nil || !fi.IsDir() {
		t.Fatalf("subdir not created: %v", err)
	}
}

func TestNewWithoutReading(t *testing.T) {
	dir := writeInputs(t, "a.csv")
	save := t.TempDir()
	p, err := New(Options{InputDir: dir, SaveDir: save, SubdirName: "split"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if p.Datasets != nil {
		t.Fatalf("datasets read without ReadFiles")
	}
	if p.SubdirPath != filepath.Join(save, "split") {
		t.Fatalf("subdir = %s", p.SubdirPath)
	}
}

func TestNewFailsOnUnreadableInput(t *testing.T) {
	dir := writeInputs(t)
	if err := os.WriteFile(filepath.Join(dir, "bad.csv"), []byte("Date,a\nnot-a-date,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Options{InputDir: dir, SubdirName: "out", ReadFiles: true}); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestProcessSavesAndWritesManifest(t *testing.T) {
	dir := writeInputs(t, "a.csv", "b.csv")
	var seen []string
	p, err := New(Options{
		InputDir: dir, SubdirName: "light", ReadFiles: true,
		Progress: func(i, total int, file string) { seen = append(seen, filepath.Base(file)) },
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	remap := func(ds *frame.Dataset) (Saver, error) {
		return frame.RemapLight(ds, 1, frame.DefaultLightOptions())
	}
	if err := p.Process(remap, ProcessOptions{Save: true}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(p.Processed) != 2 || len(seen) != 2 {
		t.Fatalf("processed %d, progress %v", len(p.Processed), seen)
	}
	want := filepath.Join(dir, "light", "a.csv")
	if p.ProcessedFiles[0] != want {
		t.Fatalf("path = %s, want %s", p.ProcessedFiles[0], want)
	}
	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	// 200 and 300 clip to 150 and invert to 0
	if !strings.Contains(string(b), "2000-01-01 00:00:10,2,0,baseline") {
		t.Fatalf("output:\n%s", b)
	}
	m, err := LoadManifest(filepath.Join(dir, "light"))
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.RunID == "" || len(m.Inputs) != 2 || m.Outputs[1] != "b.csv" {
		t.Fatalf("manifest = %+v", m)
	}
}

func TestProcessRecordsEveryWrittenFile(t *testing.T) {
	dir := writeInputs(t, "a.csv")
	p, err := New(Options{InputDir: dir, SubdirName: "conditions", ReadFiles: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	split := func(ds *frame.Dataset) (Saver, error) {
		return frame.SplitByCondition(ds, 2)
	}
	if err := p.Process(split, ProcessOptions{Save: true}); err != nil {
		t.Fatalf("process: %v", err)
	}
	sub := filepath.Join(dir, "conditions")
	want := []string{filepath.Join(sub, "a_baseline.csv"), filepath.Join(sub, "a_disrupted.csv")}
	if len(p.ProcessedFiles) != len(want) {
		t.Fatalf("processed files = %v", p.ProcessedFiles)
	}
	for i, f := range p.ProcessedFiles {
		if f != want[i] {
			t.Fatalf("processed file %d = %s, want %s", i, f, want[i])
		}
		if _, err := os.Stat(f); err != nil {
			t.Fatalf("recorded file not written: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(sub, "a.csv")); !os.IsNotExist(err) {
		t.Fatalf("unexpected combined output")
	}
	m, err := LoadManifest(sub)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(m.Outputs) != 2 {
		t.Fatalf("manifest outputs = %v", m.Outputs)
	}
	for _, o := range m.Outputs {
		if _, err := os.Stat(filepath.Join(sub, o)); err != nil {
			t.Fatalf("manifest lists missing output %s", o)
		}
	}
}

func TestProcessWithoutSave(t *testing.T) {
	dir := writeInputs(t, "a.csv")
	p, err := New(Options{InputDir: dir, SubdirName: "out", ReadFiles: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	id := func(ds *frame.Dataset) (Saver, error) { return ds, nil }
	if err := p.Process(id, ProcessOptions{SaveSuffix: ".npy"}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if p.ProcessedFiles[0] != filepath.Join(dir, "out", "a.npy") {
		t.Fatalf("path = %s", p.ProcessedFiles[0])
	}
	if _, err := os.Stat(p.ProcessedFiles[0]); !os.IsNotExist(err) {
		t.Fatalf("file written without Save")
	}
	if _, err := os.Stat(filepath.Join(dir, "out", ManifestName)); !os.IsNotExist(err) {
		t.Fatalf("manifest written without Save")
	}
}

func TestProcessLengthMismatch(t *testing.T) {
	dir := writeInputs(t, "a.csv", "b.csv")
	p, err := New(Options{InputDir: dir, SubdirName: "out", ReadFiles: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	id := func(ds *frame.Dataset) (Saver, error) { return ds, nil }
	err = p.Process(id, ProcessOptions{Files: p.Files[:1]})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	err = p.Plot(func(*frame.Dataset, string) error { return nil }, PlotOptions{Datasets: p.Datasets[:1]})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("plot err = %v, want ErrLengthMismatch", err)
	}
}

func TestProcessKeepsResultsBeforeFailure(t *testing.T) {
	dir := writeInputs(t, "a.csv", "b.csv", "c.csv")
	p, err := New(Options{InputDir: dir, SubdirName: "out", ReadFiles: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	boom := errors.New("boom")
	fn := func(ds *frame.Dataset) (Saver, error) {
		if ds.Name == "b" {
			return nil, boom
		}
		return ds, nil
	}
	err = p.Process(fn, ProcessOptions{Save: true})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(p.Processed) != 1 {
		t.Fatalf("processed = %d, want 1", len(p.Processed))
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "a.csv")); err != nil {
		t.Fatalf("first output missing: %v", err)
	}
}

func TestPlotDropsTextColumns(t *testing.T) {
	dir := writeInputs(t, "a.csv")
	p, err := New(Options{InputDir: dir, SubdirName: "plots", ReadFiles: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var paths []string
	var cols int
	fn := func(ds *frame.Dataset, path string) error {
		paths = append(paths, path)
		cols = len(ds.Columns)
		return nil
	}
	if err := p.Plot(fn, PlotOptions{SaveSuffix: ".svg"}); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if cols != 2 {
		t.Fatalf("plot saw %d columns, want 2", cols)
	}
	if paths[0] != filepath.Join(dir, "plots", "a.svg") {
		t.Fatalf("path = %s", paths[0])
	}
	if err := p.Plot(fn, PlotOptions{KeepText: true}); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if cols != 3 || !strings.HasSuffix(paths[1], "a.png") {
		t.Fatalf("keep text: cols %d path %s", cols, paths[1])
	}
}
