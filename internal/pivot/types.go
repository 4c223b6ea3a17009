// Package pivot implements the wide-to-long pivot engine for Findings-class
// domains whose source layout encodes one column per test: VS and IE
// have dedicated detectors; QS, PE, DA, DS share a generic per-domain
// rule-table engine.
package pivot

import "github.com/yourorg/sdtm-studio/internal/ingest"

// Result is a pivot's output: a long-shaped SourceFrame whose column names
// are the target SDTM variable names (so the mapping engine can 1:1-match
// them), plus the set of original source headers the pivot consumed so the
// mapping view can gray them out.
type Result struct {
	Frame           *ingest.SourceFrame
	ConsumedColumns []string
}

// passthroughColumns returns every header in src not present in consumed.
func passthroughColumns(src *ingest.SourceFrame, consumed map[string]bool) []string {
	var out []string
	for _, h := range src.Headers.Names {
		if !consumed[h] {
			out = append(out, h)
		}
	}
	return out
}
