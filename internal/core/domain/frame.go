package domain

import (
	"fmt"
	"sort"
)

// Frame is a small column-named table of float64 values. It is the shape
// every request payload is converted to before prediction.
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// NewFrame builds a frame and checks that every row matches the column count.
func NewFrame(columns []string, rows [][]float64) (*Frame, error) {
	f := &Frame{Columns: columns, Rows: rows}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate reports duplicate column names and rows whose length differs from
// the column count.
func (f *Frame) Validate() error {
	seen := make(map[string]bool, len(f.Columns))
	for _, c := range f.Columns {
		if seen[c] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidPayload, c)
		}
		seen[c] = true
	}
	for i, row := range f.Rows {
		if len(row) != len(f.Columns) {
			return fmt.Errorf("%w: row %d has %d values, expected %d", ErrInvalidPayload, i, len(row), len(f.Columns))
		}
	}
	return nil
}

// FrameFromRecords converts decoded JSON records into a frame. Columns are
// taken from the first record in sorted order; every record must carry a
// numeric value for each of them.
func FrameFromRecords(records []map[string]interface{}) (*Frame, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	columns := make([]string, 0, len(records[0]))
	for k := range records[0] {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	rows := make([][]float64, 0, len(records))
	for i, rec := range records {
		row := make([]float64, len(columns))
		for j, col := range columns {
			raw, ok := rec[col]
			if !ok {
				return nil, fmt.Errorf("%w: %q in record %d", ErrMissingFeature, col, i)
			}
			v, ok := raw.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: %q in record %d must be a number, got %s", ErrInvalidFeatureValue, col, i, jsonTypeName(raw))
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	return &Frame{Columns: columns, Rows: rows}, nil
}

func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Column returns the index of the named column.
func (f *Frame) Column(name string) (int, bool) {
	for i, c := range f.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Project returns the rows reordered to the given feature order. Columns not
// listed in features are dropped.
func (f *Frame) Project(features []string) ([][]float64, error) {
	idx := make([]int, len(features))
	for i, name := range features {
		j, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingFeature, name)
		}
		idx[i] = j
	}

	out := make([][]float64, len(f.Rows))
	for r, row := range f.Rows {
		projected := make([]float64, len(idx))
		for i, j := range idx {
			projected[i] = row[j]
		}
		out[r] = projected
	}
	return out, nil
}

// Records renders the frame back into JSON-friendly records.
func (f *Frame) Records() []map[string]float64 {
	out := make([]map[string]float64, 0, len(f.Rows))
	for _, row := range f.Rows {
		rec := make(map[string]float64, len(f.Columns))
		for i, c := range f.Columns {
			rec[c] = row[i]
		}
		out = append(out, rec)
	}
	return out
}

func jsonTypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
