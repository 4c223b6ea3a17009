package mapping

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

func TestConfig_AcceptRequiresSuggested(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Accept("AETERM"); err == nil {
		t.Fatal("expected error accepting a variable with no suggestion")
	}

	cfg.Suggest("AETERM", "Event Term", 0.9)
	if err := cfg.Accept("AETERM"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := cfg.Assignments["AETERM"]
	if a.Status != StatusAccepted || a.SourceColumn != "Event Term" || a.Confidence != 0.9 {
		t.Fatalf("unexpected assignment after accept: %+v", a)
	}
}

func TestConfig_SetManualOverwritesAnyPriorState(t *testing.T) {
	cfg := NewConfig()
	cfg.Suggest("SEX", "Gender", 0.6)
	cfg.SetManual("SEX", "Patient Sex")

	a := cfg.Assignments["SEX"]
	if a.Status != StatusManual || a.SourceColumn != "Patient Sex" || a.Confidence != 1.0 {
		t.Fatalf("unexpected assignment after manual set: %+v", a)
	}
}

func TestConfig_ClearReturnsColumnToUnusedPool(t *testing.T) {
	cfg := NewConfig()
	cfg.SetManual("SEX", "Gender")
	cfg.SetManual("RACE", "Race")
	cfg.Clear("SEX")

	unmapped := cfg.UnmappedSourceColumns([]string{"Gender", "Race", "Country"})
	want := map[string]bool{"Gender": true, "Country": true}
	if len(unmapped) != 2 {
		t.Fatalf("expected 2 unmapped columns, got %v", unmapped)
	}
	for _, c := range unmapped {
		if !want[c] {
			t.Errorf("unexpected unmapped column %q", c)
		}
	}
}

func TestConfig_MarkNotCollected_RejectedForRequiredAndPermissible(t *testing.T) {
	cfg := NewConfig()
	required := standards.Variable{Name: "USUBJID", Core: standards.CoreRequired}
	if err := cfg.MarkNotCollected(required, "not captured"); err == nil {
		t.Error("expected MarkNotCollected to be rejected for Required variable")
	}

	perm := standards.Variable{Name: "ETHNIC", Core: standards.CorePermissible}
	if err := cfg.MarkNotCollected(perm, "not captured"); err == nil {
		t.Error("expected MarkNotCollected to be rejected for Permissible variable")
	}

	expected := standards.Variable{Name: "AEOUT", Core: standards.CoreExpected}
	if err := cfg.MarkNotCollected(expected, "not captured"); err != nil {
		t.Errorf("expected MarkNotCollected to succeed for Expected variable: %v", err)
	}
	if cfg.Assignments["AEOUT"].Status != StatusNotCollected {
		t.Error("expected status NotCollected")
	}
}

func TestConfig_MarkOmitted_RejectedForRequiredAndExpected(t *testing.T) {
	cfg := NewConfig()
	required := standards.Variable{Name: "USUBJID", Core: standards.CoreRequired}
	if err := cfg.MarkOmitted(required); err == nil {
		t.Error("expected MarkOmitted to be rejected for Required variable")
	}

	expected := standards.Variable{Name: "AEOUT", Core: standards.CoreExpected}
	if err := cfg.MarkOmitted(expected); err == nil {
		t.Error("expected MarkOmitted to be rejected for Expected variable")
	}

	perm := standards.Variable{Name: "ETHNIC", Core: standards.CorePermissible}
	if err := cfg.MarkOmitted(perm); err != nil {
		t.Errorf("expected MarkOmitted to succeed for Permissible variable: %v", err)
	}
	if cfg.Assignments["ETHNIC"].Status != StatusOmitted {
		t.Error("expected status Omitted")
	}
}
