package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/utils"
)

// ErrUnsupportedFormat is returned when a file does not carry the expected suffix.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options controls how actigraphy files are read.
type Options struct {
	// Suffix is the only accepted file extension.
	Suffix string
	// Delimiter for CSV. If 0, picks '\t' for .tsv names and ',' otherwise.
	Delimiter rune
	// TimeLayout forces a layout for the index column; empty tries common layouts.
	TimeLayout string
	// Numeric parsing locale. If DecimalSeparator is 0, '.' is assumed.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultOptions returns the options used when reading recorder exports.
func DefaultOptions() Options {
	return Options{Suffix: ".csv"}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	ZonedIndexLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// ReadFile loads a delimited file into a Dataset named after the file's
// base name. The first column becomes the timestamp index.
func ReadFile(path string, opt Options) (*Dataset, error) {
	suffix := opt.Suffix
	if suffix == "" {
		suffix = ".csv"
	}
	if filepath.Ext(path) != suffix {
		return nil, fmt.Errorf("%w: %s (want %s)", ErrUnsupportedFormat, filepath.Base(path), suffix)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 && strings.HasSuffix(strings.ToLower(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	fr, err := Read(f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &Dataset{Name: utils.Stem(path), Frame: fr}, nil
}

// Read parses CSV content with a header row into a Frame.
func Read(r io.Reader, opt Options) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = ','
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Frame{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return &Frame{}, nil
	}
	ncol := len(header) - 1
	raw := make([][]string, ncol)
	fr := &Frame{IndexName: strings.TrimSpace(strings.TrimPrefix(header[0], "\uFEFF"))}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		ts, err := parseTime(strings.TrimSpace(rec[0]), opt.TimeLayout)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		fr.Index = append(fr.Index, ts)
		for j := 0; j < ncol; j++ {
			v := ""
			if j+1 < len(rec) {
				v = strings.TrimSpace(rec[j+1])
			}
			raw[j] = append(raw[j], v)
		}
	}

	fr.Columns = make([]*Column, ncol)
	for j := 0; j < ncol; j++ {
		fr.Columns[j] = inferColumn(strings.TrimSpace(header[j+1]), raw[j], opt)
	}
	return fr, nil
}

// inferColumn keeps a column numeric only when every non-empty cell parses.
func inferColumn(name string, cells []string, opt Options) *Column {
	vals := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			vals[i] = math.NaN()
			continue
		}
		x, ok := parseNumeric(s, opt)
		if !ok {
			return &Column{Name: name, Kind: Text, Labels: cells}
		}
		vals[i] = x
	}
	return &Column{Name: name, Kind: Numeric, Values: vals}
}

func parseTime(s, layout string) (time.Time, error) {
	if layout != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
		}
		return t, nil
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: no matching layout", s)
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// DefaultIndexName heads the timestamp column when the frame has no name for it.
const DefaultIndexName = "Date"

const (
	// IndexLayout is the layout used when writing UTC timestamps.
	IndexLayout = "2006-01-02 15:04:05.999999999"
	// ZonedIndexLayout is used for timestamps in any other location so
	// the offset survives a round trip.
	ZonedIndexLayout = "2006-01-02 15:04:05.999999999Z07:00"
)

func formatIndex(ts time.Time) string {
	if ts.Location() == time.UTC {
		return ts.Format(IndexLayout)
	}
	return ts.Format(ZonedIndexLayout)
}

// WriteCSV writes the frame with its index as the first column.
func (f *Frame) WriteCSV(w io.Writer, indexName string) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(f.Columns)+1)
	header = append(header, indexName)
	for _, c := range f.Columns {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for i, ts := range f.Index {
		rec[0] = formatIndex(ts)
		for j, c := range f.Columns {
			rec[j+1] = c.Cell(i)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the dataset as CSV to path, keeping the index header it
// was read with.
func (d *Dataset) Save(path string) error {
	name := d.IndexName
	if name == "" {
		name = DefaultIndexName
	}
	var b strings.Builder
	if err := d.WriteCSV(&b, name); err != nil {
		return fmt.Errorf("encode %s: %w", d.Name, err)
	}
	return utils.SafeWriteFile(path, []byte(b.String()))
}
