package ingest

import (
	"strconv"
	"strings"
)

const maxSamples = 5

// ProfileColumns computes per-column hints (cardinality, null ratio, numeric
// ratio, date-like ratio, samples) used by the mapping engine and the
// wide-pivot detectors.
func ProfileColumns(f *SourceFrame) []ColumnHint {
	hints := make([]ColumnHint, len(f.Headers.Names))
	total := len(f.Rows)

	for col, name := range f.Headers.Names {
		distinct := make(map[string]bool)
		var nullCount, numericCount, dateLikeCount int
		var samples []string

		for _, row := range f.Rows {
			var v string
			if col < len(row) {
				v = row[col]
			}
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				nullCount++
				continue
			}
			distinct[trimmed] = true
			if looksNumeric(trimmed) {
				numericCount++
			}
			if looksDateLike(trimmed) {
				dateLikeCount++
			}
			if len(samples) < maxSamples {
				samples = append(samples, trimmed)
			}
		}

		nonNull := total - nullCount
		hints[col] = ColumnHint{
			Name:          name,
			Cardinality:   len(distinct),
			NullRatio:     ratio(nullCount, total),
			NumericRatio:  ratio(numericCount, nonNull),
			DateLikeRatio: ratio(dateLikeCount, nonNull),
			Samples:       samples,
		}
	}
	return hints
}

func ratio(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// looksDateLike is a cheap heuristic, not a parser: digits and date
// separators dominate, with at least one separator present.
func looksDateLike(s string) bool {
	hasSeparator := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' || r == '/' || r == ':' || r == 'T' || r == ' ' || r == '.':
			hasSeparator = true
		default:
			return false
		}
	}
	return hasSeparator && len(s) >= 4
}
