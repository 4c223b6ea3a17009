package standards

import "testing"

func TestLoadSDTMIG_ReturnsExpectedDomains(t *testing.T) {
	domains, err := LoadSDTMIG()
	if err != nil {
		t.Fatalf("LoadSDTMIG returned error: %v", err)
	}
	if len(domains) != 11 {
		t.Fatalf("expected 11 domains, got %d", len(domains))
	}

	// Domains must come back sorted by code.
	for i := 1; i < len(domains); i++ {
		if domains[i-1].Code >= domains[i].Code {
			t.Fatalf("domains not sorted: %s before %s", domains[i-1].Code, domains[i].Code)
		}
	}

	var dm *Domain
	for i := range domains {
		if domains[i].Code == "DM" {
			dm = &domains[i]
		}
	}
	if dm == nil {
		t.Fatal("DM domain not found")
	}
	if dm.Class != ClassSpecialPurp {
		t.Errorf("expected DM class %q, got %q", ClassSpecialPurp, dm.Class)
	}
	if dm.Dataset != "dm" {
		t.Errorf("expected lowercase dataset name, got %q", dm.Dataset)
	}

	v, ok := dm.Variable("SEX")
	if !ok {
		t.Fatal("expected SEX variable on DM")
	}
	if v.Role != RoleRecordQual {
		t.Errorf("expected SEX role %q, got %q", RoleRecordQual, v.Role)
	}
	if v.Core != CoreRequired {
		t.Errorf("expected SEX core Req, got %q", v.Core)
	}
	if v.CodelistCode != "C66731" {
		t.Errorf("expected SEX codelist C66731, got %q", v.CodelistCode)
	}
}

func TestLoadSDTMIG_VariableOrderPreserved(t *testing.T) {
	domains, err := LoadSDTMIG()
	if err != nil {
		t.Fatalf("LoadSDTMIG returned error: %v", err)
	}
	for _, d := range domains {
		if d.Code != "AE" {
			continue
		}
		first, ok := d.Variable("STUDYID")
		if !ok {
			t.Fatal("expected STUDYID on AE")
		}
		if first.Order != 0 {
			t.Errorf("expected STUDYID order 0, got %d", first.Order)
		}
	}
}

func TestVariable_CodelistCodes_SplitsAndTrims(t *testing.T) {
	v := Variable{CodelistCode: "C66731; C66742,C12345"}
	codes := v.CodelistCodes()
	want := []string{"C66731", "C66742", "C12345"}
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %d (%v)", len(want), len(codes), codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], codes[i])
		}
	}
}

func TestVariable_CodelistCodes_EmptyReturnsNil(t *testing.T) {
	v := Variable{}
	if codes := v.CodelistCodes(); len(codes) != 0 {
		t.Errorf("expected no codes, got %v", codes)
	}
}

func TestRoleWeight_OrdersIdentifierBeforeTiming(t *testing.T) {
	if RoleWeight(RoleIdentifier) >= RoleWeight(RoleTiming) {
		t.Errorf("expected Identifier to weigh less than Timing")
	}
}

func TestRoleWeight_UnrecognizedSortsLast(t *testing.T) {
	last := RoleWeight(Role("NOT A ROLE"))
	for _, r := range []Role{RoleIdentifier, RoleTopic, RoleRecordQual, RoleTiming} {
		if RoleWeight(r) >= last {
			t.Errorf("expected %q to weigh less than unrecognized role", r)
		}
	}
}

func TestLoadCT_ResolvesCodelistWithSynonyms(t *testing.T) {
	reg, err := LoadCT()
	if err != nil {
		t.Fatalf("LoadCT returned error: %v", err)
	}
	cl, ok := reg.ResolveCodelist("C66731")
	if !ok {
		t.Fatal("expected to resolve C66731 (Sex)")
	}
	if got := cl.Normalize("woman"); got != "F" {
		t.Errorf("expected synonym WOMAN to normalize to F, got %q", got)
	}
	if got := cl.Normalize("f"); got != "F" {
		t.Errorf("expected case-insensitive exact match, got %q", got)
	}
	if got := cl.Normalize("martian"); got != "martian" {
		t.Errorf("expected unmatched value unchanged, got %q", got)
	}
}

func TestLoadCT_ExtensibleFlagCarried(t *testing.T) {
	reg, err := LoadCT()
	if err != nil {
		t.Fatalf("LoadCT returned error: %v", err)
	}
	sex, ok := reg.ResolveCodelist("C66731")
	if !ok {
		t.Fatal("expected C66731")
	}
	if sex.Extensible {
		t.Error("expected Sex codelist to be non-extensible")
	}
	sev, ok := reg.ResolveCodelist("C66769")
	if !ok {
		t.Fatal("expected C66769")
	}
	if !sev.Extensible {
		t.Error("expected Severity codelist to be extensible")
	}
}
