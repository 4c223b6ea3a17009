package pivot

import (
	"regexp"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/ingest"
)

var reIECriterion = regexp.MustCompile(`^IE(IN|EX)(\d+)(CD)?$`)

type ieGroup struct {
	n        string // e.g. "1"
	category string // "INCLUSION" or "EXCLUSION"
	valueCol string
	codeCol  string
	label    string
}

// DetectIE implements the IE wide-pivot: IEIN<n>[CD] and IEEX<n>[CD]
// groups become long rows with IECAT/IETESTCD/IETEST.
func DetectIE(src *ingest.SourceFrame) (*Result, bool) {
	groups := map[string]*ieGroup{}
	consumed := map[string]bool{}
	var order []string

	for i, h := range src.Headers.Names {
		upper := strings.ToUpper(strings.TrimSpace(h))
		m := reIECriterion.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		category := "INCLUSION"
		if m[1] == "EX" {
			category = "EXCLUSION"
		}
		key := m[1] + m[2]
		g, ok := groups[key]
		if !ok {
			g = &ieGroup{n: m[2], category: category}
			groups[key] = g
			order = append(order, key)
		}
		if m[3] == "CD" {
			g.codeCol = h
		} else {
			g.valueCol = h
			g.label = src.Headers.Label(i)
		}
		consumed[h] = true
	}

	if len(groups) == 0 {
		return nil, false
	}

	passthrough := passthroughColumns(src, consumed)
	outNames := append(append([]string{}, passthrough...), "IECAT", "IETESTCD", "IETEST")

	var rows [][]string
	for _, row := range src.Rows {
		for _, key := range order {
			g := groups[key]
			value := cellOf(src, row, g.valueCol)
			code := cellOf(src, row, g.codeCol)
			if value == "" && code == "" {
				continue
			}

			testcdSource := code
			if testcdSource == "" {
				testcdSource = g.category + g.n
			}
			testcd := SanitizeTestCD(testcdSource, "IE")

			test := g.label
			if test == "" {
				test = value
			}
			if test == "" {
				test = code
			}

			outRow := make([]string, 0, len(outNames))
			for _, col := range passthrough {
				outRow = append(outRow, cellOf(src, row, col))
			}
			outRow = append(outRow, g.category, testcd, test)
			rows = append(rows, outRow)
		}
	}

	return &Result{
		Frame:           &ingest.SourceFrame{Headers: ingest.Headers{Names: outNames}, Rows: rows},
		ConsumedColumns: consumedList(consumed),
	}, true
}
