package pivot

import (
	"regexp"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/ingest"
)

// RuleCategory classifies what a rule-table rule contributes to the long
// output row.
type RuleCategory string

const (
	CategoryTestField      RuleCategory = "TestField"
	CategoryOriginalResult RuleCategory = "OriginalResult"
	CategoryUnit           RuleCategory = "Unit"
	CategoryDecodeTerm     RuleCategory = "DecodeTerm"
	CategoryTreatment      RuleCategory = "Treatment"
	CategoryCategory       RuleCategory = "Category"
	CategoryOther          RuleCategory = "Other"
)

// RuleContext is what an apply func needs: the source frame, the current
// output row under construction, and the group key currently being
// expanded (the <TEST> token matched out of the header).
type RuleContext struct {
	Src      *ingest.SourceFrame
	Row      []string
	GroupKey string
	Header   string // the matched source header for this group/category
}

// Rule is one entry in a domain's rule table: an id, category,
// description, target variables, enabled-by-default flag, and an
// apply(ctx, frame) contract.
type Rule struct {
	ID          string
	Category    RuleCategory
	Description string
	Targets     []string
	Enabled     bool
	HeaderRegex *regexp.Regexp // matches the wide header this rule looks for, capturing the group key in group 1
	Apply       func(ctx RuleContext) map[string]string
}

// DomainRuleTable is an ordered, named set of rules for one domain.
type DomainRuleTable struct {
	Domain string
	Rules  []Rule
}

// DetectGeneric runs a DomainRuleTable's enabled rules, in registration
// order, against src, producing one long row per (source row, matched
// group) the same way VS/IE do. Disabled rules are skipped entirely.
func DetectGeneric(table DomainRuleTable, src *ingest.SourceFrame) (*Result, bool) {
	type match struct {
		rule   Rule
		header string
		group  string
	}

	var matches []match
	consumed := map[string]bool{}
	groupKeysInOrder := []string{}
	seenGroup := map[string]bool{}

	for _, rule := range table.Rules {
		if !rule.Enabled || rule.HeaderRegex == nil {
			continue
		}
		for _, h := range src.Headers.Names {
			upper := strings.ToUpper(strings.TrimSpace(h))
			m := rule.HeaderRegex.FindStringSubmatch(upper)
			if m == nil {
				continue
			}
			group := ""
			if len(m) > 1 {
				group = m[1]
			}
			matches = append(matches, match{rule: rule, header: h, group: group})
			consumed[h] = true
			if !seenGroup[group] {
				seenGroup[group] = true
				groupKeysInOrder = append(groupKeysInOrder, group)
			}
		}
	}

	if len(matches) == 0 {
		return nil, false
	}

	passthrough := passthroughColumns(src, consumed)

	var targetOrder []string
	seenTarget := map[string]bool{}
	for _, m := range matches {
		for _, t := range m.rule.Targets {
			if !seenTarget[t] {
				seenTarget[t] = true
				targetOrder = append(targetOrder, t)
			}
		}
	}
	outNames := append(append([]string{}, passthrough...), targetOrder...)

	var rows [][]string
	for _, row := range src.Rows {
		for _, group := range groupKeysInOrder {
			cells := map[string]string{}
			anyNonBlank := false
			for _, m := range matches {
				if m.group != group {
					continue
				}
				if cellOf(src, row, m.header) != "" {
					anyNonBlank = true
				}
				result := m.rule.Apply(RuleContext{Src: src, Row: row, GroupKey: group, Header: m.header})
				for k, v := range result {
					cells[k] = v
				}
			}
			if !anyNonBlank {
				continue
			}
			outRow := make([]string, 0, len(outNames))
			for _, col := range passthrough {
				outRow = append(outRow, cellOf(src, row, col))
			}
			for _, t := range targetOrder {
				outRow = append(outRow, cells[t])
			}
			rows = append(rows, outRow)
		}
	}

	return &Result{
		Frame:           &ingest.SourceFrame{Headers: ingest.Headers{Names: outNames}, Rows: rows},
		ConsumedColumns: consumedList(consumed),
	}, true
}
