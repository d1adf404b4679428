package frame

import "fmt"

// DefaultLightThreshold is the bright-light ceiling applied to LDR readings.
const DefaultLightThreshold = 150

// LightOptions controls RemapLight.
type LightOptions struct {
	Threshold float64
	Invert    bool
}

// DefaultLightOptions clips at 150 and inverts so light reads as low.
func DefaultLightOptions() LightOptions {
	return LightOptions{Threshold: DefaultLightThreshold, Invert: true}
}

// RemapLight clips the light column at col to the threshold and optionally
// inverts it (threshold - value). Only rows from the first through the
// last reading above the threshold are rewritten; rows outside that span
// are copied unchanged. If no reading exceeds the threshold the copy is
// returned as is.
func RemapLight(ds *Dataset, col int, opt LightOptions) (*Dataset, error) {
	idx, err := ds.ColumnIndex(col)
	if err != nil {
		return nil, err
	}
	src := ds.Columns[idx]
	if src.Kind != Numeric {
		return nil, fmt.Errorf("remap light %q: %w", src.Name, ErrNotNumeric)
	}
	thr := opt.Threshold
	out := &Dataset{Name: ds.Name, Frame: ds.Clone()}

	start, end := -1, -1
	for i, v := range src.Values {
		if v > thr {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	if start < 0 {
		return out, nil
	}

	dst := out.Columns[idx].Values
	for i := start; i <= end; i++ {
		v := src.Values[i]
		if v > thr {
			v = thr
		}
		if opt.Invert {
			v = thr - v
		}
		dst[i] = v
	}
	return out, nil
}
