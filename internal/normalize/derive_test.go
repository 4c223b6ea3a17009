package normalize

import "testing"

func TestUsubjidPrefix_PrependsWhenMissing(t *testing.T) {
	if got := UsubjidPrefix("001", "STUDY1"); got != "STUDY1-001" {
		t.Errorf("got %q", got)
	}
}

func TestUsubjidPrefix_IdempotentWhenAlreadyPrefixed(t *testing.T) {
	if got := UsubjidPrefix("STUDY1-001", "STUDY1"); got != "STUDY1-001" {
		t.Errorf("got %q", got)
	}
}

func TestUsubjidPrefix_StripsQuotes(t *testing.T) {
	if got := UsubjidPrefix(`"001"`, `"STUDY1"`); got != "STUDY1-001" {
		t.Errorf("got %q", got)
	}
}

func TestAssignSequenceNumbers_GroupsByUsubjid(t *testing.T) {
	ids := []string{"001", "002", "001", "001", "002"}
	got := AssignSequenceNumbers(ids)
	want := []float64{1, 1, 2, 3, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got, want)
		}
	}
}

func TestAssignSequenceNumbers_EmptyUsubjidStillNumbered(t *testing.T) {
	ids := []string{"", "001", ""}
	got := AssignSequenceNumbers(ids)
	if got[0] != 1 || got[2] != 2 {
		t.Errorf("expected empty-string group to be numbered, got %v", got)
	}
}

func TestStudyDay_SkipsDayZero(t *testing.T) {
	day, ok := StudyDay("2024-01-01", "2024-01-01")
	if !ok || day != 1 {
		t.Errorf("expected day 1 on the reference date itself, got %v ok=%v", day, ok)
	}

	day, ok = StudyDay("2024-01-01", "2024-01-02")
	if !ok || day != 2 {
		t.Errorf("expected day 2, got %v ok=%v", day, ok)
	}

	day, ok = StudyDay("2024-01-10", "2024-01-05")
	if !ok || day != -5 {
		t.Errorf("expected negative day -5 before reference, got %v ok=%v", day, ok)
	}
}

func TestStudyDay_UnparseableReturnsFalse(t *testing.T) {
	if _, ok := StudyDay("not a date", "2024-01-01"); ok {
		t.Error("expected unparseable reference date to return ok=false")
	}
}

func TestParseNumeric(t *testing.T) {
	if v, ok := ParseNumeric("3.14"); !ok || v != 3.14 {
		t.Errorf("got %v ok=%v", v, ok)
	}
	if _, ok := ParseNumeric("abc"); ok {
		t.Error("expected non-numeric input to return ok=false")
	}
	if _, ok := ParseNumeric(""); ok {
		t.Error("expected empty input to return ok=false")
	}
}
