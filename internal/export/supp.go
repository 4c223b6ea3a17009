package export

import (
	"regexp"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/ingest"
	"github.com/yourorg/sdtm-studio/internal/mapping"
	"github.com/yourorg/sdtm-studio/internal/standards"
	"github.com/yourorg/sdtm-studio/internal/transform"
	"github.com/yourorg/sdtm-studio/internal/validate"
)

var reQnamStrip = regexp.MustCompile(`[^A-Za-z0-9]`)

const defaultQnam = "SUPPVAL"

// sanitizeQnam derives an up-to-8-char ASCII QNAM from a raw source column
// name, applying the same variable-name shape SDTM domain variables use.
func sanitizeQnam(raw string) string {
	s := strings.ToUpper(reQnamStrip.ReplaceAllString(raw, ""))
	if s == "" {
		return defaultQnam
	}
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// buildSuppRows finds source columns left unclaimed by the domain's
// mapping and emits one SuppRow per non-empty cell: the canonical
// SUPPQUAL use case of sponsor-collected data with no home in the
// standard domain model.
func buildSuppRows(studyID, domainCode string, m *mapping.Config, src *ingest.SourceFrame, preview *transform.DomainFrame) []validate.SuppRow {
	if m == nil || src == nil || preview == nil {
		return nil
	}
	unmapped := m.UnmappedSourceColumns(src.Headers.Names)
	if len(unmapped) == 0 {
		return nil
	}

	seqVar := domainCode + "SEQ"
	usubjidIdx, seqIdx := -1, -1
	for i, c := range preview.Columns {
		switch c {
		case "USUBJID":
			usubjidIdx = i
		case seqVar:
			seqIdx = i
		}
	}

	var rows []validate.SuppRow
	for _, colName := range unmapped {
		values := src.Column(colName)
		qnam := sanitizeQnam(colName)
		qlabel := colName
		if idx := src.ColumnIndex(colName); idx >= 0 {
			qlabel = src.Headers.Label(idx)
		}
		for r, val := range values {
			if strings.TrimSpace(val) == "" {
				continue
			}
			row := validate.SuppRow{
				StudyID: studyID,
				RDomain: domainCode,
				QNAM:    qnam,
				QLabel:  qlabel,
				QVal:    val,
				QOrig:   "CRF",
			}
			if usubjidIdx >= 0 && r < len(preview.Rows) {
				row.USubjid = preview.Rows[r][usubjidIdx]
			}
			if seqIdx >= 0 && r < len(preview.Rows) {
				row.IDVar = seqVar
				row.IDVarVal = preview.Rows[r][seqIdx]
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// suppColumns is the fixed SUPP-- schema.
var suppColumns = []standards.Variable{
	{Name: "STUDYID", DataType: standards.Char, Length: 20},
	{Name: "RDOMAIN", DataType: standards.Char, Length: 8},
	{Name: "USUBJID", DataType: standards.Char, Length: 40},
	{Name: "IDVAR", DataType: standards.Char, Length: 8},
	{Name: "IDVARVAL", DataType: standards.Char, Length: 40},
	{Name: "QNAM", DataType: standards.Char, Length: 8},
	{Name: "QLABEL", DataType: standards.Char, Length: 40},
	{Name: "QVAL", DataType: standards.Char, Length: 200},
	{Name: "QORIG", DataType: standards.Char, Length: 20},
	{Name: "QEVAL", DataType: standards.Char, Length: 20},
}

func suppRowsToFrame(rows []validate.SuppRow) *transform.DomainFrame {
	frame := &transform.DomainFrame{Columns: make([]string, len(suppColumns))}
	for i, v := range suppColumns {
		frame.Columns[i] = v.Name
	}
	frame.Rows = make([][]string, len(rows))
	for i, r := range rows {
		frame.Rows[i] = []string{
			r.StudyID, r.RDomain, r.USubjid, r.IDVar, r.IDVarVal,
			r.QNAM, r.QLabel, r.QVal, r.QOrig, r.QEval,
		}
	}
	return frame
}
