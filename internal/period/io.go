package period

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/utils"
	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// FormatCT renders a circadian offset as HH:MM:SS.mmm.
func FormatCT(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%06.3f", int64(h), int64(m), d.Seconds())
}

// WriteCSV writes the circadian index followed by one column per day.
func (s *Sliced) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(s.Days)+1)
	header[0] = "CT"
	for k := range s.Days {
		header[k+1] = strconv.Itoa(k)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for i, ct := range s.Index {
		rec[0] = FormatCT(ct)
		for k, d := range s.Days {
			if math.IsNaN(d[i]) {
				rec[k+1] = ""
			} else {
				rec[k+1] = strconv.FormatFloat(d[i], 'g', -1, 64)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the table as CSV, or as a NumPy array when path ends in .npy.
func (s *Sliced) Save(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".npy") {
		return WriteNPY(path, s.Matrix())
	}
	var b strings.Builder
	if err := s.WriteCSV(&b); err != nil {
		return fmt.Errorf("encode %s: %w", s.Name, err)
	}
	return utils.SafeWriteFile(path, []byte(b.String()))
}

// Paths returns the files Save writes for path, one per channel, named
// <stem>_<channel><ext>.
func (sp Split) Paths(path string) []string {
	dir, ext := filepath.Dir(path), filepath.Ext(path)
	stem := utils.Stem(path)
	out := make([]string, len(sp))
	for i, s := range sp {
		out[i] = filepath.Join(dir, stem+"_"+utils.SafeName(s.Name)+ext)
	}
	return out
}

// Save writes one file per channel to its entry in Paths.
func (sp Split) Save(path string) error {
	for i, p := range sp.Paths(path) {
		if err := sp[i].Save(p); err != nil {
			return err
		}
	}
	return nil
}

// WriteNPY stores m as a row-major float64 .npy file.
func WriteNPY(path string, m *mat.Dense) error {
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("open npy: %w", err)
	}
	r, c := m.Dims()
	w.Shape = []int{r, c}
	w.Version = 2
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	if err := w.WriteFloat64(data); err != nil {
		return fmt.Errorf("write npy: %w", err)
	}
	return nil
}

// ReadNPY loads a two-dimensional float64 .npy file.
func ReadNPY(path string) (*mat.Dense, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open npy: %w", err)
	}
	if len(r.Shape) != 2 {
		return nil, fmt.Errorf("read npy: want 2 dimensions, got %v", r.Shape)
	}
	data, err := r.GetFloat64()
	if err != nil {
		return nil, fmt.Errorf("read npy: %w", err)
	}
	if r.ColumnMajor {
		var m mat.Dense
		m.CloneFrom(mat.NewDense(r.Shape[1], r.Shape[0], data).T())
		return &m, nil
	}
	return mat.NewDense(r.Shape[0], r.Shape[1], data), nil
}
