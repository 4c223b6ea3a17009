package provenance

import (
	"testing"

	"github.com/yourorg/sdtm-studio/internal/transform"
)

func TestFromRule_DescribesEachKind(t *testing.T) {
	cases := []transform.Rule{
		{Kind: transform.RuleConstant, Variable: "STUDYID"},
		{Kind: transform.RuleUsubjidPrefix, Variable: "USUBJID"},
		{Kind: transform.RuleSequenceNumber, Variable: "VSSEQ"},
		{Kind: transform.RuleStudyDay, Variable: "VSDY", ObservationDTC: "VSDTC"},
		{Kind: transform.RuleIso8601Duration, Variable: "VSDUR"},
		{Kind: transform.RuleIso8601DateTime, Variable: "VSDTC"},
		{Kind: transform.RuleIso8601Date, Variable: "VSDT"},
		{Kind: transform.RuleCtNormalization, Variable: "SEX", CodelistCode: "C66731"},
		{Kind: transform.RuleNumericConversion, Variable: "VSSTRESN"},
		{Kind: transform.RuleCopyDirect, Variable: "VSORRES"},
	}
	for _, rule := range cases {
		rec := FromRule(rule, "RAW_COL")
		if rec.Variable != rule.Variable {
			t.Errorf("FromRule(%v).Variable = %q, want %q", rule.Kind, rec.Variable, rule.Variable)
		}
		if rec.Description == "" {
			t.Errorf("FromRule(%v) produced an empty description", rule.Kind)
		}
	}
}

func TestLog_ForVariable_ReturnsMostRecent(t *testing.T) {
	var l Log
	l.Add(Record{Variable: "USUBJID", Description: "first"})
	l.Add(Record{Variable: "USUBJID", Description: "second"})
	rec, ok := l.ForVariable("USUBJID")
	if !ok || rec.Description != "second" {
		t.Errorf("ForVariable = %+v, %v, want second/true", rec, ok)
	}
	if _, ok := l.ForVariable("MISSING"); ok {
		t.Error("ForVariable should report false for an unrecorded variable")
	}
}
