package ct

import (
	"strings"
	"testing"
)

const sampleCSV = `Code,Codelist Code,Codelist Extensible,Codelist Name,CDISC Submission Value,CDISC Synonym(s),CDISC Definition,NCI Preferred Term
C66731,,No,Sex,,,,Sex
C20197,C66731,No,,F,FEMALE;WOMAN,Female sex,Female
C20198,C66731,No,,M,MALE,Male sex,Male
C66769,,Yes,Severity,,,,Severity
C41338,C66769,Yes,,MILD,,Mild severity,Mild
C99999,C66769,Yes,,,,Skipped because submission value is empty,Nothing
`

func TestParseCatalog_BuildsCodelistsFromHeaderAndTermRows(t *testing.T) {
	cat, err := ParseCatalog(strings.NewReader(sampleCSV), "Test CT")
	if err != nil {
		t.Fatalf("ParseCatalog returned error: %v", err)
	}

	sex, ok := cat.Codelists["C66731"]
	if !ok {
		t.Fatal("expected C66731 codelist")
	}
	if sex.Extensible {
		t.Error("expected Sex codelist to be non-extensible")
	}
	if sex.Name != "Sex" {
		t.Errorf("expected name Sex, got %q", sex.Name)
	}
	if !sex.Contains("woman") {
		t.Error("expected FEMALE synonym WOMAN to be registered")
	}

	sev, ok := cat.Codelists["C66769"]
	if !ok {
		t.Fatal("expected C66769 codelist")
	}
	if !sev.Extensible {
		t.Error("expected Severity codelist to be extensible")
	}
	if sev.Contains("") {
		t.Error("row with empty submission value must be skipped")
	}
	if len(sev.AllowedValues()) != 1 {
		t.Errorf("expected only MILD to be registered for Severity, got %v", sev.AllowedValues())
	}
}

func TestParseCatalog_MissingHeaderReturnsError(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader(""), "Empty")
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}
