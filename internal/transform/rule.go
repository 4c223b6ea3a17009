// Package transform implements the metadata-driven transform pipeline:
// rule inference from variable metadata alone, never hardcoded
// per-domain logic, plus pipeline execution against a source frame and a
// column mapping.
package transform

import (
	"strings"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

// RuleKind is the inferred transform for one target variable.
type RuleKind string

const (
	RuleConstant          RuleKind = "Constant"
	RuleUsubjidPrefix     RuleKind = "UsubjidPrefix"
	RuleSequenceNumber    RuleKind = "SequenceNumber"
	RuleStudyDay          RuleKind = "StudyDay"
	RuleIso8601Duration   RuleKind = "Iso8601Duration"
	RuleIso8601DateTime   RuleKind = "Iso8601DateTime"
	RuleIso8601Date       RuleKind = "Iso8601Date"
	RuleCtNormalization   RuleKind = "CtNormalization"
	RuleNumericConversion RuleKind = "NumericConversion"
	RuleCopyDirect        RuleKind = "CopyDirect"
)

// Rule is the inferred transform for one target variable, plus whatever
// parameters the kind needs.
type Rule struct {
	Kind           RuleKind
	Variable       string
	ObservationDTC string // StudyDay: the sibling *DTC holding this row's observation date, e.g. VSDY -> VSDTC
	CodelistCode   string // CtNormalization: first codelist code
}

// InferRule runs a priority-ordered chain of rule inferences for a single
// target variable, from variable-name conventions down to declared data
// type. First match wins; domainCode is the owning domain's two-letter
// code (e.g. "VS"), used to recognize the domain's own SEQ variable.
func InferRule(v standards.Variable, domainCode string) Rule {
	name := v.Name

	switch {
	case name == "STUDYID" || name == "DOMAIN":
		return Rule{Kind: RuleConstant, Variable: name}
	case name == "USUBJID":
		return Rule{Kind: RuleUsubjidPrefix, Variable: name}
	case name == domainCode+"SEQ":
		return Rule{Kind: RuleSequenceNumber, Variable: name}
	case strings.HasSuffix(name, "DY") && len(name) > 2:
		return Rule{Kind: RuleStudyDay, Variable: name, ObservationDTC: name[:len(name)-2] + "DTC"}
	}

	dvd := strings.ToLower(v.DescribedValueDomain)
	switch {
	case strings.HasSuffix(name, "DUR") || strings.Contains(dvd, "duration"):
		return Rule{Kind: RuleIso8601Duration, Variable: name}
	case strings.HasSuffix(name, "DTC") || strings.HasSuffix(name, "DTM"):
		return Rule{Kind: RuleIso8601DateTime, Variable: name}
	case strings.HasSuffix(name, "DT"):
		return Rule{Kind: RuleIso8601Date, Variable: name}
	case strings.Contains(dvd, "iso 8601") && strings.Contains(dvd, "datetime"):
		return Rule{Kind: RuleIso8601DateTime, Variable: name}
	case strings.Contains(dvd, "iso 8601"):
		return Rule{Kind: RuleIso8601Date, Variable: name}
	}

	if codes := v.CodelistCodes(); len(codes) > 0 {
		return Rule{Kind: RuleCtNormalization, Variable: name, CodelistCode: codes[0]}
	}
	if v.DataType == standards.Num {
		return Rule{Kind: RuleNumericConversion, Variable: name}
	}
	return Rule{Kind: RuleCopyDirect, Variable: name}
}

// InferDomainRules infers a rule for every variable in a domain, in the
// domain's declared (file) order.
func InferDomainRules(d standards.Domain) []Rule {
	rules := make([]Rule, len(d.Variables))
	for i, v := range d.Variables {
		rules[i] = InferRule(v, d.Code)
	}
	return rules
}
