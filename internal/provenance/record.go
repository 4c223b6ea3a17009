// Package provenance records, per target variable, how its value was
// derived during transformation — the derivation list attached to each
// DomainState, consumed by Define-XML Origin attribution.
package provenance

import (
	"fmt"

	"github.com/yourorg/sdtm-studio/internal/transform"
)

// Record is one derivation note for a single target variable.
type Record struct {
	Variable     string
	SourceColumn string
	RuleKind     string
	Description  string
}

// Log accumulates derivation records for one domain, in variable order.
type Log struct {
	Records []Record
}

// Add appends r to the log.
func (l *Log) Add(r Record) {
	l.Records = append(l.Records, r)
}

// ForVariable returns the most recently recorded derivation for variable,
// if any — used when rendering a single ItemDef's Origin.
func (l *Log) ForVariable(variable string) (Record, bool) {
	for i := len(l.Records) - 1; i >= 0; i-- {
		if l.Records[i].Variable == variable {
			return l.Records[i], true
		}
	}
	return Record{}, false
}

// FromRule builds a Record describing how rule derived its variable from
// sourceColumn (empty for rules with no single source, e.g. Constant).
func FromRule(rule transform.Rule, sourceColumn string) Record {
	return Record{
		Variable:     rule.Variable,
		SourceColumn: sourceColumn,
		RuleKind:     string(rule.Kind),
		Description:  describeRule(rule, sourceColumn),
	}
}

func describeRule(rule transform.Rule, sourceColumn string) string {
	switch rule.Kind {
	case transform.RuleConstant:
		return fmt.Sprintf("%s is a study-level constant", rule.Variable)
	case transform.RuleUsubjidPrefix:
		return fmt.Sprintf("%s derived by prefixing %s with the study id", rule.Variable, sourceColumn)
	case transform.RuleSequenceNumber:
		return fmt.Sprintf("%s assigned as a per-subject sequence number", rule.Variable)
	case transform.RuleStudyDay:
		return fmt.Sprintf("%s derived as the study day of %s relative to the reference date", rule.Variable, rule.ObservationDTC)
	case transform.RuleIso8601Duration:
		return fmt.Sprintf("%s normalized from %s to an ISO-8601 duration", rule.Variable, sourceColumn)
	case transform.RuleIso8601DateTime:
		return fmt.Sprintf("%s normalized from %s to an ISO-8601 datetime", rule.Variable, sourceColumn)
	case transform.RuleIso8601Date:
		return fmt.Sprintf("%s normalized from %s to an ISO-8601 date", rule.Variable, sourceColumn)
	case transform.RuleCtNormalization:
		return fmt.Sprintf("%s normalized from %s against codelist %s", rule.Variable, sourceColumn, rule.CodelistCode)
	case transform.RuleNumericConversion:
		return fmt.Sprintf("%s converted from %s to a numeric value", rule.Variable, sourceColumn)
	default:
		return fmt.Sprintf("%s copied directly from %s", rule.Variable, sourceColumn)
	}
}
