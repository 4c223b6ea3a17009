package pivot

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/ingest"
)

func TestDetectIE_NoWideHeaders_ReturnsFalse(t *testing.T) {
	src := &ingest.SourceFrame{Headers: ingest.Headers{Names: []string{"subject"}}}
	_, ok := DetectIE(src)
	if ok {
		t.Error("expected no detection")
	}
}

func TestDetectIE_ExpandsInclusionAndExclusion(t *testing.T) {
	src := &ingest.SourceFrame{
		Headers: ingest.Headers{Names: []string{"subject", "IEIN1", "IEIN1CD", "IEEX1"}},
		Rows: [][]string{
			{"001", "Y", "AGE18", "N"},
			{"002", "", "", ""},
		},
	}
	result, ok := DetectIE(src)
	if !ok {
		t.Fatal("expected detection")
	}

	colIdx := func(name string) int {
		for i, c := range result.Frame.Headers.Names {
			if c == name {
				return i
			}
		}
		t.Fatalf("column %s not found: %v", name, result.Frame.Headers.Names)
		return -1
	}
	catIdx := colIdx("IECAT")
	testcdIdx := colIdx("IETESTCD")

	if len(result.Frame.Rows) != 2 {
		t.Fatalf("expected 2 rows (inclusion + exclusion) for subject 001, got %d: %+v", len(result.Frame.Rows), result.Frame.Rows)
	}
	foundInclusion, foundExclusion := false, false
	for _, row := range result.Frame.Rows {
		switch row[catIdx] {
		case "INCLUSION":
			foundInclusion = true
			if row[testcdIdx] != "AGE18" {
				t.Errorf("inclusion testcd: got %q", row[testcdIdx])
			}
		case "EXCLUSION":
			foundExclusion = true
		}
	}
	if !foundInclusion || !foundExclusion {
		t.Errorf("expected both categories, got %+v", result.Frame.Rows)
	}
}
