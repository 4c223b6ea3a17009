package validate

import (
	"regexp"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/ct"
	"github.com/yourorg/sdtm-studio/internal/standards"
	"github.com/yourorg/sdtm-studio/internal/transform"
)

const maxShortNameLen = 8

var (
	reISODateStrict = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d+)?)?)?)?)?$`)
	reShortName     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// RunDomain applies every per-variable rule (core presence, date/short-name
// format, numeric type, controlled terminology) to one transformed domain
// frame.
func RunDomain(domain standards.Domain, frame *transform.DomainFrame, reg *ct.Registry, preferredCT []string) *Report {
	report := &Report{}

	colIdx := make(map[string]int, len(frame.Columns))
	for i, c := range frame.Columns {
		colIdx[c] = i
	}

	for _, v := range domain.Variables {
		idx, present := colIdx[v.Name]

		report.Issues = append(report.Issues, coreCheck(v, idx, present, frame)...)
		if !present {
			continue
		}

		values := columnValues(frame, idx)
		report.Issues = append(report.Issues, formatCheck(v, values)...)
		report.Issues = append(report.Issues, ctCheck(v, values, reg, preferredCT)...)
	}

	return report
}

func columnValues(frame *transform.DomainFrame, idx int) []string {
	out := make([]string, len(frame.Rows))
	for r, row := range frame.Rows {
		if idx < len(row) {
			out[r] = row[idx]
		}
	}
	return out
}

func coreCheck(v standards.Variable, idx int, present bool, frame *transform.DomainFrame) []Issue {
	if !present {
		switch v.Core {
		case standards.CoreRequired:
			return []Issue{{Variant: VariantRequiredMissing, Severity: SeverityError, Variable: v.Name}}
		case standards.CoreExpected:
			return []Issue{{Variant: VariantExpectedMissing, Severity: SeverityWarning, Variable: v.Name}}
		}
		return nil
	}

	values := columnValues(frame, idx)
	nullCount := 0
	for _, val := range values {
		if strings.TrimSpace(val) == "" {
			nullCount++
		}
	}
	if nullCount == 0 {
		return nil
	}

	switch v.Role {
	case standards.RoleIdentifier:
		return []Issue{{Variant: VariantIdentifierNull, Severity: SeverityError, Variable: v.Name, NullCount: nullCount}}
	}
	if v.Core == standards.CoreRequired {
		return []Issue{{Variant: VariantRequiredEmpty, Severity: SeverityError, Variable: v.Name, NullCount: nullCount}}
	}
	return nil
}

func formatCheck(v standards.Variable, values []string) []Issue {
	var issues []Issue

	switch {
	case strings.HasSuffix(v.Name, "DTC"):
		var invalid []string
		for _, val := range values {
			if val != "" && !reISODateStrict.MatchString(val) {
				invalid = append(invalid, val)
			}
		}
		if len(invalid) > 0 {
			issues = append(issues, Issue{
				Variant: VariantInvalidDate, Severity: SeverityError, Variable: v.Name,
				InvalidCount: len(invalid), Samples: takeSamples(invalid),
			})
		}

	case strings.HasSuffix(v.Name, "TESTCD") || v.Name == "QNAM":
		var exceeded []string
		maxFound := 0
		for _, val := range values {
			if val == "" {
				continue
			}
			if len(val) > maxShortNameLen || !reShortName.MatchString(val) {
				exceeded = append(exceeded, val)
			}
			if len(val) > maxFound {
				maxFound = len(val)
			}
		}
		if len(exceeded) > 0 {
			issues = append(issues, Issue{
				Variant: VariantTextTooLong, Severity: SeverityWarning, Variable: v.Name,
				ExceededCount: len(exceeded), MaxFound: maxFound, MaxAllowed: maxShortNameLen,
			})
		}
	}

	if v.DataType == standards.Num {
		var nonNumeric []string
		for _, val := range values {
			if val == "" {
				continue
			}
			if !looksNumeric(val) {
				nonNumeric = append(nonNumeric, val)
			}
		}
		if len(nonNumeric) > 0 {
			issues = append(issues, Issue{
				Variant: VariantDataTypeMismatch, Severity: SeverityError, Variable: v.Name,
				NonNumericCount: len(nonNumeric), Samples: takeSamples(nonNumeric),
			})
		}
	}

	return issues
}

func looksNumeric(s string) bool {
	seenDigit, seenDot := false, false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
			// leading sign, ok
		default:
			return false
		}
	}
	return seenDigit
}

func ctCheck(v standards.Variable, values []string, reg *ct.Registry, preferredCT []string) []Issue {
	codes := v.CodelistCodes()
	if len(codes) == 0 || reg == nil {
		return nil
	}

	allExtensible := true
	anyResolved := false
	allowed := map[string]bool{}
	for _, code := range codes {
		cl, ok := reg.ResolveCodelist(code, preferredCT...)
		if !ok {
			continue
		}
		anyResolved = true
		if !cl.Extensible {
			allExtensible = false
		}
		for _, av := range cl.AllowedValues() {
			allowed[strings.ToUpper(av)] = true
		}
	}
	if !anyResolved {
		return nil
	}

	var invalid []string
	for _, val := range values {
		if val == "" {
			continue
		}
		if !allowed[strings.ToUpper(val)] {
			invalid = append(invalid, val)
		}
	}
	if len(invalid) == 0 {
		return nil
	}

	severity := SeverityWarning
	if !allExtensible {
		severity = SeverityError
	}

	cl, _ := reg.ResolveCodelist(codes[0], preferredCT...)
	name := ""
	if cl != nil {
		name = cl.Name
	}

	return []Issue{{
		Variant: VariantCtViolation, Severity: severity, Variable: v.Name,
		CodelistCode: codes[0], CodelistName: name, Extensible: allExtensible,
		TotalInvalid: len(invalid), InvalidValues: takeSamples(invalid), AllowedCount: len(allowed),
	}}
}
