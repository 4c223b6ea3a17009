package pivot

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/ingest"
)

func TestDetectQS_NoWideHeaders_ReturnsFalse(t *testing.T) {
	src := &ingest.SourceFrame{Headers: ingest.Headers{Names: []string{"subject"}}}
	_, ok := DetectQS(src)
	if ok {
		t.Error("expected no detection")
	}
}

func TestDetectQS_ExpandsResultAndUnit(t *testing.T) {
	src := &ingest.SourceFrame{
		Headers: ingest.Headers{Names: []string{"subject", "QSORRES_MOOD", "QSORRESU_MOOD"}},
		Rows: [][]string{
			{"001", "7", "points"},
			{"002", "", ""},
		},
	}
	result, ok := DetectQS(src)
	if !ok {
		t.Fatal("expected detection")
	}
	if len(result.Frame.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d: %+v", len(result.Frame.Rows), result.Frame.Rows)
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
	if result.Frame.Rows[0][colIdx("QSTESTCD")] != "MOOD" {
		t.Errorf("QSTESTCD: got %q", result.Frame.Rows[0][colIdx("QSTESTCD")])
	}
	if result.Frame.Rows[0][colIdx("QSORRES")] != "7" {
		t.Errorf("QSORRES: got %q", result.Frame.Rows[0][colIdx("QSORRES")])
	}
	if result.Frame.Rows[0][colIdx("QSORRESU")] != "points" {
		t.Errorf("QSORRESU: got %q", result.Frame.Rows[0][colIdx("QSORRESU")])
	}
	if result.Frame.Rows[0][colIdx("subject")] != "001" {
		t.Errorf("passthrough subject: got %q", result.Frame.Rows[0][colIdx("subject")])
	}
}

func TestDetectGeneric_DisabledRuleIsSkipped(t *testing.T) {
	table := DefaultQSRules()
	for i := range table.Rules {
		if table.Rules[i].Category == CategoryUnit {
			table.Rules[i].Enabled = false
		}
	}
	src := &ingest.SourceFrame{
		Headers: ingest.Headers{Names: []string{"QSORRES_MOOD", "QSORRESU_MOOD"}},
		Rows:    [][]string{{"7", "points"}},
	}
	result, ok := DetectGeneric(table, src)
	if !ok {
		t.Fatal("expected detection")
	}
	for _, c := range result.Frame.Headers.Names {
		if c == "QSORRESU" {
			t.Error("expected QSORRESU column absent when its rule is disabled")
		}
	}
	// The disabled rule's header should also not be marked consumed.
	for _, c := range result.ConsumedColumns {
		if c == "QSORRESU_MOOD" {
			t.Error("disabled rule's header should not be reported as consumed")
		}
	}
}
