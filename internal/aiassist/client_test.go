package aiassist

import (
	"context"
	"testing"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

func TestSuggest_NilClientDegradesToNoSuggestion(t *testing.T) {
	var c *Client
	got := c.Suggest(context.Background(), standards.Variable{Name: "USUBJID"}, []string{"SUBJ"}, nil)
	if got != nil {
		t.Errorf("Suggest on nil client = %+v, want nil", got)
	}
}

func TestSuggest_NoCandidatesDegradesToNoSuggestion(t *testing.T) {
	c := &Client{model: "gpt-4o-mini", cfg: DefaultConfig()}
	got := c.Suggest(context.Background(), standards.Variable{Name: "USUBJID"}, nil, nil)
	if got != nil {
		t.Errorf("Suggest with no candidates = %+v, want nil", got)
	}
}

func TestContainsColumn(t *testing.T) {
	cols := []string{"A", "B", "C"}
	if !containsColumn(cols, "B") {
		t.Error("expected B to be found")
	}
	if containsColumn(cols, "Z") {
		t.Error("expected Z not to be found")
	}
}

func TestConfidenceCeiling_BelowDeterministicFloor(t *testing.T) {
	if ConfidenceCeiling >= 0.5 {
		t.Errorf("ConfidenceCeiling = %v, want strictly below the deterministic floor (0.5)", ConfidenceCeiling)
	}
}
