package validate

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const reportSheetName = "Issues"

var reportColumns = []string{
	"Variant", "Severity", "Domain", "Variable", "Parent Domain",
	"Null Count", "Invalid Count", "Exceeded Count", "Non-Numeric Count",
	"Duplicate Count", "Missing Count", "Total Invalid",
	"Max Found", "Max Allowed",
	"Samples", "Invalid Values",
	"Codelist Code", "Codelist Name", "Extensible", "Allowed Count",
}

// WriteXLSX renders a Report as a one-sheet workbook, one row per Issue.
func WriteXLSX(report *Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheetName); err != nil {
		return fmt.Errorf("validate: rename sheet: %w", err)
	}

	for col, name := range reportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("validate: header cell: %w", err)
		}
		if err := f.SetCellValue(reportSheetName, cell, name); err != nil {
			return fmt.Errorf("validate: write header: %w", err)
		}
	}

	for i, issue := range report.Issues {
		row := i + 2
		values := []interface{}{
			string(issue.Variant), string(issue.Severity), issue.Domain, issue.Variable, issue.ParentDomain,
			issue.NullCount, issue.InvalidCount, issue.ExceededCount, issue.NonNumericCount,
			issue.DuplicateCount, issue.MissingCount, issue.TotalInvalid,
			issue.MaxFound, issue.MaxAllowed,
			joinSamples(issue.Samples), joinSamples(issue.InvalidValues),
			issue.CodelistCode, issue.CodelistName, issue.Extensible, issue.AllowedCount,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("validate: row cell: %w", err)
			}
			if err := f.SetCellValue(reportSheetName, cell, v); err != nil {
				return fmt.Errorf("validate: write cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("validate: save %s: %w", path, err)
	}
	return nil
}

func joinSamples(samples []string) string {
	out := ""
	for i, s := range samples {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}
