// Package pipeline runs a transform or plot over every matching file in
// a directory and writes the results to a subdirectory.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/utils"
)

// ErrLengthMismatch is returned when datasets and file paths cannot be paired.
var ErrLengthMismatch = errors.New("datasets and files differ in length")

// Saver is implemented by results that can be written to a path.
type Saver interface {
	Save(path string) error
}

// MultiSaver is a Saver that writes several files derived from one path.
// Paths reports them so they can be recorded.
type MultiSaver interface {
	Saver
	Paths(path string) []string
}

// ReadFunc loads one input file.
type ReadFunc func(path string) (*frame.Dataset, error)

// TransformFunc turns one dataset into a savable result.
type TransformFunc func(ds *frame.Dataset) (Saver, error)

// PlotFunc renders one dataset to the image at path.
type PlotFunc func(ds *frame.Dataset, path string) error

// Progress is called before each item is handled.
type Progress func(i, total int, file string)

// Options configures a Pipeline.
type Options struct {
	InputDir string
	// SaveDir defaults to InputDir.
	SaveDir    string
	SubdirName string
	// SearchSuffix selects input files; defaults to ".csv".
	SearchSuffix string
	// ReadFiles loads every matched file during New.
	ReadFiles bool
	// Read defaults to frame.ReadFile with default options.
	Read     ReadFunc
	Logger   *slog.Logger
	Progress Progress
}

// Pipeline owns the list of input files, the datasets read from them and
// the processed results. It is not safe for concurrent use.
type Pipeline struct {
	InputDir   string
	SubdirPath string
	Files      []string
	Datasets   []*frame.Dataset

	Processed []Saver
	// ProcessedFiles lists every output file, so a MultiSaver result
	// may account for several entries.
	ProcessedFiles []string

	log      *slog.Logger
	progress Progress
}

// New creates the output subdirectory, finds the input files and, when
// requested, reads them all. A read error aborts construction.
func New(opt Options) (*Pipeline, error) {
	if opt.InputDir == "" {
		return nil, errors.New("pipeline: input directory is required")
	}
	if opt.SearchSuffix == "" {
		opt.SearchSuffix = ".csv"
	}
	if opt.SaveDir == "" {
		opt.SaveDir = opt.InputDir
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Read == nil {
		ro := frame.DefaultOptions()
		ro.Suffix = opt.SearchSuffix
		opt.Read = func(path string) (*frame.Dataset, error) { return frame.ReadFile(path, ro) }
	}

	files, err := filepath.Glob(filepath.Join(opt.InputDir, "*"+opt.SearchSuffix))
	if err != nil {
		return nil, fmt.Errorf("glob inputs: %w", err)
	}
	sort.Strings(files)

	sub, err := utils.CreateSubdir(opt.SaveDir, opt.SubdirName)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		InputDir:   opt.InputDir,
		SubdirPath: sub,
		Files:      files,
		log:        opt.Logger,
		progress:   opt.Progress,
	}
	p.log.Debug("pipeline ready", "input", opt.InputDir, "output", sub, "files", len(files))

	if opt.ReadFiles {
		for _, f := range files {
			ds, err := opt.Read(f)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", filepath.Base(f), err)
			}
			p.Datasets = append(p.Datasets, ds)
		}
	}
	return p, nil
}

// ProcessOptions controls Process.
type ProcessOptions struct {
	// SaveSuffix replaces the input extension in output file names.
	SaveSuffix string
	Save       bool
	// Datasets and Files override the pipeline's own lists.
	Datasets []*frame.Dataset
	Files    []string
}

// Process applies fn to each dataset in order, records the result and
// the files it maps to, and writes it when Save is set. A MultiSaver
// result contributes every path it writes. Results produced
// before a failure are kept.
func (p *Pipeline) Process(fn TransformFunc, opt ProcessOptions) error {
	datasets, files, err := p.pair(opt.Datasets, opt.Files)
	if err != nil {
		return err
	}
	if opt.SaveSuffix == "" {
		opt.SaveSuffix = ".csv"
	}
	var written []string
	for i, ds := range datasets {
		p.report(i, len(datasets), files[i])
		out, err := fn(ds)
		if err != nil {
			return fmt.Errorf("process %s: %w", filepath.Base(files[i]), err)
		}
		path := utils.OutputPath(p.SubdirPath, files[i], opt.SaveSuffix)
		paths := []string{path}
		if ms, ok := out.(MultiSaver); ok {
			paths = ms.Paths(path)
		}
		p.Processed = append(p.Processed, out)
		p.ProcessedFiles = append(p.ProcessedFiles, paths...)
		if !opt.Save {
			continue
		}
		if err := out.Save(path); err != nil {
			return fmt.Errorf("save %s: %w", filepath.Base(path), err)
		}
		written = append(written, paths...)
		p.log.Debug("saved", "file", path, "outputs", len(paths))
	}
	if opt.Save && len(written) > 0 {
		if err := p.writeManifest(files, written); err != nil {
			return err
		}
	}
	return nil
}

// PlotOptions controls Plot.
type PlotOptions struct {
	SaveSuffix string
	// KeepText skips dropping non-numeric columns before plotting.
	KeepText bool
	Datasets []*frame.Dataset
	Files    []string
	// Dir overrides the output subdirectory.
	Dir string
}

// Plot calls fn for each dataset with an image path derived from its file.
func (p *Pipeline) Plot(fn PlotFunc, opt PlotOptions) error {
	datasets, files, err := p.pair(opt.Datasets, opt.Files)
	if err != nil {
		return err
	}
	if opt.SaveSuffix == "" {
		opt.SaveSuffix = ".png"
	}
	dir := opt.Dir
	if dir == "" {
		dir = p.SubdirPath
	}
	for i, ds := range datasets {
		p.report(i, len(datasets), files[i])
		path := utils.OutputPath(dir, files[i], opt.SaveSuffix)
		in := ds
		if !opt.KeepText {
			in, _ = ds.DropNonNumeric()
		}
		if err := fn(in, path); err != nil {
			return fmt.Errorf("plot %s: %w", filepath.Base(files[i]), err)
		}
		p.log.Debug("plotted", "file", path)
	}
	return nil
}

func (p *Pipeline) pair(datasets []*frame.Dataset, files []string) ([]*frame.Dataset, []string, error) {
	if datasets == nil {
		datasets = p.Datasets
	}
	if files == nil {
		files = p.Files
	}
	if len(datasets) != len(files) {
		return nil, nil, fmt.Errorf("%w: %d datasets, %d files", ErrLengthMismatch, len(datasets), len(files))
	}
	return datasets, files, nil
}

func (p *Pipeline) report(i, total int, file string) {
	if p.progress != nil {
		p.progress(i, total, file)
	}
}
