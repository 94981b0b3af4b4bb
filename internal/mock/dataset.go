package mock

import (
	"math"
	"time"
)

// Record is one row keyed by column name. Values are int64, float64, string,
// bool, time.Time or nil; JSON fixtures may also carry nested maps and slices.
type Record = map[string]any

// Dataset is a loaded table, identical in shape whatever file it came from.
type Dataset struct {
	Route   string
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Normalize returns a copy of d in which every missing-value sentinel is nil:
// float NaN and the zero time (the archive's NaT).
func Normalize(d *Dataset) *Dataset {
	out := &Dataset{
		Route:   d.Route,
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Record, len(d.Rows)),
	}
	for i, row := range d.Rows {
		rec := make(Record, len(row))
		for k, v := range row {
			rec[k] = normalizeValue(v)
		}
		out.Rows[i] = rec
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
	case time.Time:
		if x.IsZero() {
			return nil
		}
	}
	return v
}
