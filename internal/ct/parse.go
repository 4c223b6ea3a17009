package ct

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCatalog parses a CDISC CT CSV into a Catalog. The CSV carries two
// row shapes distinguished by whether "Codelist Code" is empty:
//   - codelist header rows (Code = NCI code of the list itself)
//   - term rows (Codelist Code = parent NCI code, Code = term's own NCI code)
func ParseCatalog(r io.Reader, label string) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ct: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	catalog := NewCatalog(label)
	// Track extensibility seen across all header rows for a given code: a
	// codelist is extensible if any header row observed for it says so.
	extensibleSeen := make(map[string]bool)

	type pendingTerm struct {
		parentCode string
		term       Term
	}
	var pending []pendingTerm

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ct: read row: %w", err)
		}

		code := field(rec, col, "Code")
		codelistCode := field(rec, col, "Codelist Code")
		submissionValue := field(rec, col, "CDISC Submission Value")

		if strings.TrimSpace(codelistCode) == "" {
			// Codelist header row.
			name := field(rec, col, "Codelist Name")
			extensible := strings.EqualFold(strings.TrimSpace(field(rec, col, "Codelist Extensible")), "Yes")
			if extensible {
				extensibleSeen[code] = true
			}
			if _, exists := catalog.Codelists[code]; !exists {
				catalog.Codelists[code] = NewCodelist(code, name)
			}
			if name != "" {
				catalog.Codelists[code].Name = name
			}
			continue
		}

		if strings.TrimSpace(submissionValue) == "" {
			// Rows with empty submission value carry no usable term.
			continue
		}

		t := Term{
			Code:            code,
			SubmissionValue: submissionValue,
			Synonyms:        splitSynonyms(field(rec, col, "CDISC Synonym(s)")),
			Definition:      field(rec, col, "CDISC Definition"),
			PreferredTerm:   field(rec, col, "NCI Preferred Term"),
		}
		pending = append(pending, pendingTerm{parentCode: codelistCode, term: t})
	}

	for _, p := range pending {
		cl, ok := catalog.Codelists[p.parentCode]
		if !ok {
			// Term rows may precede their codelist header row in some exports;
			// create a placeholder list to attach to rather than drop data.
			cl = NewCodelist(p.parentCode, "")
			catalog.Codelists[p.parentCode] = cl
		}
		cl.AddTerm(p.term)
	}
	for code, ext := range extensibleSeen {
		if cl, ok := catalog.Codelists[code]; ok {
			cl.Extensible = cl.Extensible || ext
		}
	}

	return catalog, nil
}

func splitSynonyms(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func field(rec []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
