package normalize

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/ct"
)

func TestNormalizeCT_DelegatesToCodelist(t *testing.T) {
	cl := ct.NewCodelist("C66731", "Sex")
	cl.AddTerm(ct.Term{SubmissionValue: "F", Synonyms: []string{"WOMAN"}})

	if got := NormalizeCT(cl, "woman"); got != "F" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeCT_NilCodelistReturnsUnchanged(t *testing.T) {
	if got := NormalizeCT(nil, "woman"); got != "woman" {
		t.Errorf("got %q", got)
	}
}
