// Package ingest reads heterogeneous source tables (CSV files, Google
// Sheets) into a SourceFrame: a column-oriented table plus per-column
// profiling hints consumed by the mapping engine and the wide-pivot
// detectors.
package ingest

import "fmt"

// MaxFileBytes is the default pre-read size guard: files larger than 500
// MB are rejected before parsing.
const MaxFileBytes int64 = 500 << 20

// WideColumnWarnThreshold is the column-count above which a warning (not a
// rejection) is logged.
const WideColumnWarnThreshold = 500

// Headers carries the column names and, when the source used two header
// rows, the parallel row of human-readable labels.
type Headers struct {
	Names  []string
	Labels []string // nil when the source had no label row
}

// Label returns the label for column i, falling back to the column name.
func (h Headers) Label(i int) string {
	if i >= 0 && i < len(h.Labels) && h.Labels[i] != "" {
		return h.Labels[i]
	}
	if i >= 0 && i < len(h.Names) {
		return h.Names[i]
	}
	return ""
}

// ColumnHint profiles a single source column for mapping suggestions and
// wide-pivot detection.
type ColumnHint struct {
	Name          string
	Cardinality   int
	NullRatio     float64
	NumericRatio  float64
	DateLikeRatio float64
	Samples       []string // up to 5 representative non-null values
}

// SourceFrame is a column-oriented view of an ingested source table: the
// column names (in original order), the row data (row-major, aligned to
// len(Headers.Names)), and per-column profiling hints.
type SourceFrame struct {
	Headers Headers
	Rows    [][]string
	Hints   []ColumnHint
}

// ColumnIndex returns the index of the named column, or -1.
func (f *SourceFrame) ColumnIndex(name string) int {
	for i, n := range f.Headers.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Column returns every row's value for the named column.
func (f *SourceFrame) Column(name string) []string {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// RowCount returns the number of data rows.
func (f *SourceFrame) RowCount() int { return len(f.Rows) }

// ValidationError signals a pre- or post-read guard rejection.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("ingest: %s", e.Reason) }
