package pivot

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/ingest"
)

func TestDetectVS_NoWideHeaders_ReturnsFalse(t *testing.T) {
	src := &ingest.SourceFrame{Headers: ingest.Headers{Names: []string{"subject", "visit"}}}
	_, ok := DetectVS(src)
	if ok {
		t.Error("expected no detection without ORRES_ headers")
	}
}

func TestDetectVS_ExpandsGroupsAndSkipsBlankRows(t *testing.T) {
	src := &ingest.SourceFrame{
		Headers: ingest.Headers{Names: []string{
			"subject", "ORRES_SYSBP", "ORRESU_BP", "POS_BP", "ORRES_DIABP", "VSDATE", "VSTIME",
		}},
		Rows: [][]string{
			{"001", "120", "mmHg", "Sitting", "80", "2024-03-15", "10:00"},
			{"002", "", "", "", "", "2024-03-16", "11:00"},
		},
	}

	result, ok := DetectVS(src)
	if !ok {
		t.Fatal("expected detection")
	}

	colIdx := func(name string) int {
		for i, c := range result.Frame.Headers.Names {
			if c == name {
				return i
			}
		}
		t.Fatalf("column %s not found in %v", name, result.Frame.Headers.Names)
		return -1
	}

	testcdIdx := colIdx("VSTESTCD")
	orresIdx := colIdx("VSORRES")
	orresuIdx := colIdx("VSORRESU")
	posIdx := colIdx("VSPOS")
	dtcIdx := colIdx("VSDTC")
	subjectIdx := colIdx("subject")

	// Row 2 (subject 002) is entirely blank for both groups, so it should
	// emit no output rows at all; only subject 001's two groups emit.
	if len(result.Frame.Rows) != 2 {
		t.Fatalf("expected 2 output rows, got %d: %+v", len(result.Frame.Rows), result.Frame.Rows)
	}

	foundSYSBP, foundDIABP := false, false
	for _, row := range result.Frame.Rows {
		if row[subjectIdx] != "001" {
			t.Errorf("unexpected subject in output: %q", row[subjectIdx])
		}
		switch row[testcdIdx] {
		case "SYSBP":
			foundSYSBP = true
			if row[orresIdx] != "120" || row[orresuIdx] != "mmHg" || row[posIdx] != "Sitting" {
				t.Errorf("SYSBP row: %+v", row)
			}
		case "DIABP":
			foundDIABP = true
			if row[orresIdx] != "80" {
				t.Errorf("DIABP row: %+v", row)
			}
			// DIABP has no own unit/pos column, should fall back to shared BP group.
			if row[orresuIdx] != "mmHg" || row[posIdx] != "Sitting" {
				t.Errorf("DIABP fallback: %+v", row)
			}
		}
		if row[dtcIdx] != "2024-03-15T10:00" {
			t.Errorf("VSDTC: got %q", row[dtcIdx])
		}
	}
	if !foundSYSBP || !foundDIABP {
		t.Errorf("expected both SYSBP and DIABP groups, got rows %+v", result.Frame.Rows)
	}
}

func TestDetectVS_CodeColumnOverridesTestcd(t *testing.T) {
	src := &ingest.SourceFrame{
		Headers: ingest.Headers{Names: []string{"ORRES_HEIGHT", "ORRES_HEIGHTCD"}},
		Rows:    [][]string{{"180", "HEIGHT"}},
	}
	result, ok := DetectVS(src)
	if !ok {
		t.Fatal("expected detection")
	}
	testcdIdx := -1
	for i, c := range result.Frame.Headers.Names {
		if c == "VSTESTCD" {
			testcdIdx = i
		}
	}
	if result.Frame.Rows[0][testcdIdx] != "HEIGHT" {
		t.Errorf("got %q", result.Frame.Rows[0][testcdIdx])
	}
}

func TestDetectVS_ConsumedColumnsReported(t *testing.T) {
	src := &ingest.SourceFrame{
		Headers: ingest.Headers{Names: []string{"subject", "ORRES_PULSE"}},
		Rows:    [][]string{{"001", "72"}},
	}
	result, _ := DetectVS(src)
	found := false
	for _, c := range result.ConsumedColumns {
		if c == "ORRES_PULSE" {
			found = true
		}
		if c == "subject" {
			t.Error("passthrough column should not be reported as consumed")
		}
	}
	if !found {
		t.Error("expected ORRES_PULSE in consumed columns")
	}
}
