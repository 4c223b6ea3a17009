package validate

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/ct"
	"github.com/yourorg/sdtm-studio/internal/standards"
	"github.com/yourorg/sdtm-studio/internal/transform"
)

func findIssue(issues []Issue, variant Variant, variable string) (Issue, bool) {
	for _, i := range issues {
		if i.Variant == variant && i.Variable == variable {
			return i, true
		}
	}
	return Issue{}, false
}

func TestRunDomain_RequiredMissing(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{
		{Name: "USUBJID", Core: standards.CoreRequired, Role: standards.RoleIdentifier},
	}}
	frame := &transform.DomainFrame{Columns: []string{}, Rows: [][]string{{}}}
	report := RunDomain(d, frame, nil, nil)
	if _, ok := findIssue(report.Issues, VariantRequiredMissing, "USUBJID"); !ok {
		t.Errorf("expected RequiredMissing, got %+v", report.Issues)
	}
}

func TestRunDomain_ExpectedMissing(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{
		{Name: "VSPOS", Core: standards.CoreExpected},
	}}
	frame := &transform.DomainFrame{Columns: []string{}, Rows: [][]string{{}}}
	report := RunDomain(d, frame, nil, nil)
	if _, ok := findIssue(report.Issues, VariantExpectedMissing, "VSPOS"); !ok {
		t.Errorf("expected ExpectedMissing, got %+v", report.Issues)
	}
}

func TestRunDomain_IdentifierNull(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{
		{Name: "USUBJID", Core: standards.CoreRequired, Role: standards.RoleIdentifier},
	}}
	frame := &transform.DomainFrame{Columns: []string{"USUBJID"}, Rows: [][]string{{"001"}, {""}}}
	report := RunDomain(d, frame, nil, nil)
	issue, ok := findIssue(report.Issues, VariantIdentifierNull, "USUBJID")
	if !ok || issue.NullCount != 1 {
		t.Errorf("expected IdentifierNull with count 1, got %+v", report.Issues)
	}
}

func TestRunDomain_RequiredEmpty(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{
		{Name: "VSORRES", Core: standards.CoreRequired, Role: standards.RoleResultQual},
	}}
	frame := &transform.DomainFrame{Columns: []string{"VSORRES"}, Rows: [][]string{{"80"}, {""}}}
	report := RunDomain(d, frame, nil, nil)
	issue, ok := findIssue(report.Issues, VariantRequiredEmpty, "VSORRES")
	if !ok || issue.NullCount != 1 {
		t.Errorf("expected RequiredEmpty with count 1, got %+v", report.Issues)
	}
}

func TestRunDomain_InvalidDate(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{{Name: "VSDTC"}}}
	frame := &transform.DomainFrame{Columns: []string{"VSDTC"}, Rows: [][]string{{"2024-03-15"}, {"not-a-date"}}}
	report := RunDomain(d, frame, nil, nil)
	issue, ok := findIssue(report.Issues, VariantInvalidDate, "VSDTC")
	if !ok || issue.InvalidCount != 1 || len(issue.Samples) != 1 || issue.Samples[0] != "not-a-date" {
		t.Errorf("got %+v", report.Issues)
	}
}

func TestRunDomain_TextTooLong(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{{Name: "VSTESTCD"}}}
	frame := &transform.DomainFrame{Columns: []string{"VSTESTCD"}, Rows: [][]string{{"TOOLONGCODE"}}}
	report := RunDomain(d, frame, nil, nil)
	if _, ok := findIssue(report.Issues, VariantTextTooLong, "VSTESTCD"); !ok {
		t.Errorf("expected TextTooLong, got %+v", report.Issues)
	}
}

func TestRunDomain_DataTypeMismatch(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{{Name: "VSSTRESN", DataType: standards.Num}}}
	frame := &transform.DomainFrame{Columns: []string{"VSSTRESN"}, Rows: [][]string{{"3.5"}, {"abc"}}}
	report := RunDomain(d, frame, nil, nil)
	issue, ok := findIssue(report.Issues, VariantDataTypeMismatch, "VSSTRESN")
	if !ok || issue.NonNumericCount != 1 {
		t.Errorf("got %+v", report.Issues)
	}
}

func TestRunDomain_CtViolation_NonExtensibleIsError(t *testing.T) {
	cl := ct.NewCodelist("C66731", "Sex")
	cl.AddTerm(ct.Term{SubmissionValue: "F"})
	cl.AddTerm(ct.Term{SubmissionValue: "M"})
	catalog := ct.NewCatalog("SDTM CT")
	catalog.Codelists["C66731"] = cl
	reg := ct.NewRegistry()
	reg.Add(catalog)

	d := standards.Domain{Code: "DM", Variables: []standards.Variable{{Name: "SEX", CodelistCode: "C66731"}}}
	frame := &transform.DomainFrame{Columns: []string{"SEX"}, Rows: [][]string{{"F"}, {"X"}}}
	report := RunDomain(d, frame, reg, nil)
	issue, ok := findIssue(report.Issues, VariantCtViolation, "SEX")
	if !ok || issue.Severity != SeverityError || issue.TotalInvalid != 1 {
		t.Errorf("got %+v", report.Issues)
	}
}

func TestRunDomain_CtViolation_ExtensibleIsWarning(t *testing.T) {
	cl := ct.NewCodelist("C99999", "Custom")
	cl.Extensible = true
	cl.AddTerm(ct.Term{SubmissionValue: "A"})
	catalog := ct.NewCatalog("SDTM CT")
	catalog.Codelists["C99999"] = cl
	reg := ct.NewRegistry()
	reg.Add(catalog)

	d := standards.Domain{Code: "XX", Variables: []standards.Variable{{Name: "XXVAL", CodelistCode: "C99999"}}}
	frame := &transform.DomainFrame{Columns: []string{"XXVAL"}, Rows: [][]string{{"B"}}}
	report := RunDomain(d, frame, reg, nil)
	issue, ok := findIssue(report.Issues, VariantCtViolation, "XXVAL")
	if !ok || issue.Severity != SeverityWarning {
		t.Errorf("got %+v", report.Issues)
	}
}

func TestRunDomain_PermissibleVariableNoCoreCheck(t *testing.T) {
	d := standards.Domain{Code: "VS", Variables: []standards.Variable{
		{Name: "VSPOS", Core: standards.CorePermissible},
	}}
	frame := &transform.DomainFrame{Columns: []string{}, Rows: [][]string{{}}}
	report := RunDomain(d, frame, nil, nil)
	if len(report.Issues) != 0 {
		t.Errorf("expected no issues for absent Permissible variable, got %+v", report.Issues)
	}
}
