package validate

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/transform"
)

func TestCheckSeqUniqueness_DetectsCrossSplitDuplicates(t *testing.T) {
	ae := &transform.DomainFrame{
		Columns: []string{"USUBJID", "AESEQ"},
		Rows:    [][]string{{"001", "1"}, {"001", "2"}},
	}
	ae1 := &transform.DomainFrame{
		Columns: []string{"USUBJID", "AESEQ"},
		Rows:    [][]string{{"001", "1"}}, // duplicate of ae's first row
	}

	report := RunCrossDomain(CrossDomainInput{
		DomainFrames: map[string]*transform.DomainFrame{"AE": ae, "AE1": ae1},
		SplitToBase:  map[string]string{"AE1": "AE"},
	})
	if _, ok := findIssue(report.Issues, VariantDuplicateSequence, "AESEQ"); !ok {
		t.Errorf("expected DuplicateSequence on AESEQ, got %+v", report.Issues)
	}
}

func TestCheckSuppQnamUniqueness(t *testing.T) {
	rows := []SuppRow{
		{StudyID: "S1", RDomain: "VS", USubjid: "001", IDVar: "VSSEQ", IDVarVal: "1", QNAM: "VSCOMM"},
		{StudyID: "S1", RDomain: "VS", USubjid: "001", IDVar: "VSSEQ", IDVarVal: "1", QNAM: "VSCOMM"},
	}
	report := RunCrossDomain(CrossDomainInput{SuppRows: map[string][]SuppRow{"SUPPVS": rows}})
	if _, ok := findIssue(report.Issues, VariantDuplicateSequence, "QNAM"); !ok {
		t.Errorf("expected duplicate QNAM issue, got %+v", report.Issues)
	}
}

func TestCheckQvalNonEmpty(t *testing.T) {
	rows := []SuppRow{{QVal: ""}, {QVal: "x"}}
	report := RunCrossDomain(CrossDomainInput{SuppRows: map[string][]SuppRow{"SUPPVS": rows}})
	issue, ok := findIssue(report.Issues, VariantRequiredEmpty, "QVAL")
	if !ok || issue.NullCount != 1 {
		t.Errorf("got %+v", report.Issues)
	}
}

func TestCheckRelRecIntegrity_MissingParent(t *testing.T) {
	ae := &transform.DomainFrame{
		Columns: []string{"USUBJID", "AESEQ"},
		Rows:    [][]string{{"001", "1"}},
	}
	relrec := []RelRecRow{
		{RDomain: "AE", USubjid: "001", IDVar: "AESEQ", IDVarVal: "1"}, // resolves
		{RDomain: "AE", USubjid: "001", IDVar: "AESEQ", IDVarVal: "99"}, // does not resolve
	}
	report := RunCrossDomain(CrossDomainInput{
		DomainFrames: map[string]*transform.DomainFrame{"AE": ae},
		RelRec:       relrec,
	})
	issue, ok := findIssue(report.Issues, VariantParentNotFound, "RELREC")
	if !ok || issue.MissingCount != 1 {
		t.Errorf("got %+v", report.Issues)
	}
}

func TestCheckUsubjidNotInDm(t *testing.T) {
	frame := &transform.DomainFrame{
		Columns: []string{"USUBJID"},
		Rows:    [][]string{{"001"}, {"002"}},
	}
	report := CheckUsubjidNotInDm("VS", frame, map[string]bool{"001": true})
	issue, ok := findIssue(report.Issues, VariantUsubjidNotInDm, "")
	if !ok || issue.MissingCount != 1 || issue.Domain != "VS" {
		t.Errorf("got %+v", report.Issues)
	}
}
