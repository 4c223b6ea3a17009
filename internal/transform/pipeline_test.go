package transform

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/ct"
	"github.com/yourorg/sdtm-studio/internal/ingest"
	"github.com/yourorg/sdtm-studio/internal/mapping"
	"github.com/yourorg/sdtm-studio/internal/standards"
)

func vsDomain() standards.Domain {
	return standards.Domain{
		Code: "VS",
		Variables: []standards.Variable{
			{Name: "STUDYID", DataType: standards.Char, Role: standards.RoleIdentifier, Order: 1},
			{Name: "DOMAIN", DataType: standards.Char, Role: standards.RoleIdentifier, Order: 2},
			{Name: "USUBJID", DataType: standards.Char, Role: standards.RoleIdentifier, Order: 3},
			{Name: "VSSEQ", DataType: standards.Num, Role: standards.RoleIdentifier, Order: 4},
			{Name: "VSTESTCD", DataType: standards.Char, Role: standards.RoleTopic, Order: 5},
			{Name: "VSORRES", DataType: standards.Char, Role: standards.RoleResultQual, Order: 6},
			{Name: "VSSEX", DataType: standards.Char, Role: standards.RoleRecordQual, Order: 7, CodelistCode: "C66731"},
			{Name: "VSDTC", DataType: standards.Char, Role: standards.RoleTiming, Order: 8},
			{Name: "VSDY", DataType: standards.Num, Role: standards.RoleTiming, Order: 9},
		},
	}
}

func buildSrc(names []string, rows [][]string) *ingest.SourceFrame {
	return &ingest.SourceFrame{Headers: ingest.Headers{Names: names}, Rows: rows}
}

func TestRun_BasicPipeline(t *testing.T) {
	src := buildSrc(
		[]string{"subject", "test", "result", "sex", "visitdate"},
		[][]string{
			{"001", "DIABP", "80", "woman", "15-Mar-2024"},
			{"001", "SYSBP", "120", "woman", "15-Mar-2024"},
			{"002", "DIABP", "78", "M", "16-Mar-2024"},
		},
	)

	m := mapping.NewConfig()
	m.SetManual("USUBJID", "subject")
	m.SetManual("VSTESTCD", "test")
	m.SetManual("VSORRES", "result")
	m.SetManual("VSSEX", "sex")
	m.SetManual("VSDTC", "visitdate")

	sexCL := ct.NewCodelist("C66731", "Sex")
	sexCL.AddTerm(ct.Term{SubmissionValue: "F", Synonyms: []string{"WOMAN"}})
	sexCL.AddTerm(ct.Term{SubmissionValue: "M"})
	catalog := ct.NewCatalog("SDTM CT")
	catalog.Codelists["C66731"] = sexCL
	reg := ct.NewRegistry()
	reg.Add(catalog)

	ctx := Context{
		StudyID:       "STUDY1",
		Domain:        vsDomain(),
		ReferenceDate: "2024-03-15",
		CT:            reg,
		Mapping:       m,
	}

	frame, issues, err := Run(ctx, src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %+v", issues)
	}

	colIdx := func(name string) int {
		for i, c := range frame.Columns {
			if c == name {
				return i
			}
		}
		t.Fatalf("column %s not found in %v", name, frame.Columns)
		return -1
	}

	studyidIdx := colIdx("STUDYID")
	domainIdx := colIdx("DOMAIN")
	usubjidIdx := colIdx("USUBJID")
	seqIdx := colIdx("VSSEQ")
	sexIdx := colIdx("VSSEX")
	dtcIdx := colIdx("VSDTC")
	dyIdx := colIdx("VSDY")

	if frame.Rows[0][studyidIdx] != "STUDY1" {
		t.Errorf("STUDYID: got %q", frame.Rows[0][studyidIdx])
	}
	if frame.Rows[0][domainIdx] != "VS" {
		t.Errorf("DOMAIN: got %q", frame.Rows[0][domainIdx])
	}
	if frame.Rows[0][usubjidIdx] != "STUDY1-001" {
		t.Errorf("USUBJID: got %q", frame.Rows[0][usubjidIdx])
	}
	if frame.Rows[0][seqIdx] != "1" || frame.Rows[1][seqIdx] != "2" || frame.Rows[2][seqIdx] != "1" {
		t.Errorf("VSSEQ: got %q %q %q", frame.Rows[0][seqIdx], frame.Rows[1][seqIdx], frame.Rows[2][seqIdx])
	}
	if frame.Rows[0][sexIdx] != "F" {
		t.Errorf("VSSEX row0: got %q, want F", frame.Rows[0][sexIdx])
	}
	if frame.Rows[2][sexIdx] != "M" {
		t.Errorf("VSSEX row2: got %q", frame.Rows[2][sexIdx])
	}
	if frame.Rows[0][dtcIdx] != "2024-03-15" {
		t.Errorf("VSDTC: got %q", frame.Rows[0][dtcIdx])
	}
	if frame.Rows[0][dyIdx] != "1" {
		t.Errorf("VSDY row0: got %q, want 1 (reference date itself)", frame.Rows[0][dyIdx])
	}
	if frame.Rows[2][dyIdx] != "2" {
		t.Errorf("VSDY row2: got %q, want 2", frame.Rows[2][dyIdx])
	}
}

func TestRun_ColumnsOrderedByRole(t *testing.T) {
	src := buildSrc([]string{"subject"}, [][]string{{"001"}})
	m := mapping.NewConfig()
	m.SetManual("USUBJID", "subject")

	ctx := Context{StudyID: "STUDY1", Domain: vsDomain(), Mapping: m}
	frame, _, err := Run(ctx, src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	weightOf := func(name string) int {
		for _, v := range vsDomain().Variables {
			if v.Name == name {
				return standards.RoleWeight(v.Role)
			}
		}
		return -1
	}
	for i := 1; i < len(frame.Columns); i++ {
		if weightOf(frame.Columns[i-1]) > weightOf(frame.Columns[i]) {
			t.Errorf("columns not role-ordered: %v", frame.Columns)
		}
	}
}

func TestRun_OmittedVariableDropped(t *testing.T) {
	src := buildSrc([]string{"subject"}, [][]string{{"001"}})
	d := vsDomain()
	m := mapping.NewConfig()
	m.SetManual("USUBJID", "subject")
	// VSSEX is Record Qualifier core Perm by default (zero value Core), so
	// MarkOmitted succeeds.
	for _, v := range d.Variables {
		if v.Name == "VSSEX" {
			if err := m.MarkOmitted(v); err != nil {
				t.Fatalf("MarkOmitted: %v", err)
			}
		}
	}

	ctx := Context{StudyID: "STUDY1", Domain: d, Mapping: m}
	frame, _, err := Run(ctx, src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for _, c := range frame.Columns {
		if c == "VSSEX" {
			t.Errorf("expected VSSEX to be omitted from output columns: %v", frame.Columns)
		}
	}
}

func TestRun_RequireExplicitMapping_HoldsBackSuggested(t *testing.T) {
	src := buildSrc([]string{"subject", "result"}, [][]string{{"001", "80"}})
	m := mapping.NewConfig()
	m.SetManual("USUBJID", "subject")
	m.Suggest("VSORRES", "result", 0.6)

	ctx := Context{StudyID: "STUDY1", Domain: vsDomain(), Mapping: m, RequireExplicitMapping: true}
	frame, _, err := Run(ctx, src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for i, c := range frame.Columns {
		if c == "VSORRES" {
			if frame.Rows[0][i] != "" {
				t.Errorf("expected blank VSORRES while Suggested is held back, got %q", frame.Rows[0][i])
			}
		}
	}
}

func TestRun_UnparseableNumericRecordsIssue(t *testing.T) {
	src := buildSrc([]string{"subject", "dob"}, [][]string{{"001", "not-a-number"}})
	d := standards.Domain{
		Code: "DM",
		Variables: []standards.Variable{
			{Name: "USUBJID", DataType: standards.Char},
			{Name: "AGE", DataType: standards.Num},
		},
	}
	m := mapping.NewConfig()
	m.SetManual("USUBJID", "subject")
	m.SetManual("AGE", "dob")

	ctx := Context{StudyID: "STUDY1", Domain: d, Mapping: m}
	_, issues, err := Run(ctx, src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(issues) != 1 || issues[0].Variable != "AGE" {
		t.Errorf("expected one AGE issue, got %+v", issues)
	}
}
