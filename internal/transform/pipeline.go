package transform

import (
	"fmt"
	"log/slog"

	"github.com/yourorg/sdtm-studio/internal/ct"
	"github.com/yourorg/sdtm-studio/internal/ingest"
	"github.com/yourorg/sdtm-studio/internal/mapping"
	"github.com/yourorg/sdtm-studio/internal/normalize"
	"github.com/yourorg/sdtm-studio/internal/standards"
)

// Context carries the values a rule needs beyond the source row itself:
// study id, domain code, optional reference date for study day, CT
// registry, mapping target -> source, set of omitted target variables.
type Context struct {
	StudyID       string
	Domain        standards.Domain
	ReferenceDate string // study-level reference date (e.g. RFSTDTC) subtracted from every *DY's observation DTC
	CT            *ct.Registry
	Mapping       *mapping.Config
	PreferredCT   []string // catalog labels to prefer during ResolveCodelist

	// RequireExplicitMapping mirrors the host's require_explicit_mapping
	// setting: when true, only Accepted/Manual assignments feed the
	// pipeline; Suggested assignments are held back until a human
	// reviews them. When false, Suggested assignments are also consumed.
	RequireExplicitMapping bool
}

// DomainFrame is the transformed output for one domain: target column
// names (role-ordered) and row-major string cells (Char values as-is, Num
// values formatted via %g upstream of XPT encoding).
type DomainFrame struct {
	Columns []string
	Rows    [][]string
}

// Issue records a non-fatal per-cell problem surfaced during transform
// (e.g. a value that failed numeric coercion); validate.Run re-derives its
// own issues independently, this is only what the transform step itself
// noticed while it had the raw source value in hand.
type Issue struct {
	Variable string
	RowIndex int
	Message  string
}

type column struct {
	variable standards.Variable
	rule     Rule
	values   []string
}

// Run executes every inferred rule for ctx.Domain against src, producing a
// role-ordered DomainFrame.
func Run(ctx Context, src *ingest.SourceFrame) (*DomainFrame, []Issue, error) {
	rules := InferDomainRules(ctx.Domain)

	var cols []column
	var issues []Issue

	usubjidValues := resolvedColumn(ctx, src, "USUBJID")

	for i, rule := range rules {
		v := ctx.Domain.Variables[i]
		if isOmitted(ctx.Mapping, v.Name) {
			continue
		}

		values, cellIssues, err := applyRule(ctx, src, v, rule, usubjidValues)
		if err != nil {
			return nil, nil, fmt.Errorf("transform: %s.%s: %w", ctx.Domain.Code, v.Name, err)
		}
		issues = append(issues, cellIssues...)
		cols = append(cols, column{variable: v, rule: rule, values: values})
	}

	sortColumnsByRole(cols)

	out := &DomainFrame{Columns: make([]string, len(cols))}
	rowCount := src.RowCount()
	out.Rows = make([][]string, rowCount)
	for r := 0; r < rowCount; r++ {
		out.Rows[r] = make([]string, len(cols))
	}
	for c, col := range cols {
		out.Columns[c] = col.variable.Name
		for r := 0; r < rowCount; r++ {
			if r < len(col.values) {
				out.Rows[r][c] = col.values[r]
			}
		}
	}

	return out, issues, nil
}

func sortColumnsByRole(cols []column) {
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0; j-- {
			wa := standards.RoleWeight(cols[j-1].variable.Role)
			wb := standards.RoleWeight(cols[j].variable.Role)
			if wa < wb || (wa == wb && cols[j-1].variable.Order <= cols[j].variable.Order) {
				break
			}
			cols[j-1], cols[j] = cols[j], cols[j-1]
		}
	}
}

func isOmitted(m *mapping.Config, variable string) bool {
	if m == nil {
		return false
	}
	a, ok := m.Assignments[variable]
	return ok && a.Status == mapping.StatusOmitted
}

// resolvedColumn returns the source column assigned to variable, or nil
// when unmapped/not collected.
func resolvedColumn(ctx Context, src *ingest.SourceFrame, variable string) []string {
	if ctx.Mapping == nil {
		return nil
	}
	a, ok := ctx.Mapping.Assignments[variable]
	if !ok || a.SourceColumn == "" {
		return nil
	}
	switch a.Status {
	case mapping.StatusAccepted, mapping.StatusManual:
		return src.Column(a.SourceColumn)
	case mapping.StatusSuggested:
		if ctx.RequireExplicitMapping {
			return nil
		}
		return src.Column(a.SourceColumn)
	default:
		return nil
	}
}

func applyRule(ctx Context, src *ingest.SourceFrame, v standards.Variable, rule Rule, usubjidValues []string) ([]string, []Issue, error) {
	rowCount := src.RowCount()
	out := make([]string, rowCount)
	var issues []Issue

	switch rule.Kind {
	case RuleConstant:
		if v.Name == "STUDYID" {
			studyIDs := resolveStudyIDs(ctx, src, rowCount)
			copy(out, studyIDs)
		} else {
			val := constantValue(ctx, v.Name)
			for r := range out {
				out[r] = val
			}
		}

	case RuleUsubjidPrefix:
		source := resolvedColumn(ctx, src, v.Name)
		studyIDs := resolveStudyIDs(ctx, src, rowCount)
		for r := range out {
			if r < len(source) {
				out[r] = normalize.UsubjidPrefix(source[r], studyIDs[r])
			} else {
				out[r] = studyIDs[r] + "-"
			}
		}

	case RuleSequenceNumber:
		seqNums := normalize.AssignSequenceNumbers(usubjidValues)
		for r := range out {
			out[r] = formatFloat(seqNums[r])
		}

	case RuleStudyDay:
		obsCol := resolvedColumn(ctx, src, rule.ObservationDTC)
		for r := range out {
			if ctx.ReferenceDate == "" || r >= len(obsCol) || obsCol[r] == "" {
				continue
			}
			day, ok := normalize.StudyDay(ctx.ReferenceDate, obsCol[r])
			if ok {
				out[r] = formatFloat(day)
			}
		}

	case RuleIso8601Duration:
		source := resolvedColumn(ctx, src, v.Name)
		for r := range out {
			if r >= len(source) || source[r] == "" {
				continue
			}
			d, ok := normalize.ParseISODuration(source[r])
			if !ok {
				issues = append(issues, Issue{Variable: v.Name, RowIndex: r, Message: "unparseable duration: " + source[r]})
				out[r] = source[r]
				continue
			}
			out[r] = d
		}

	case RuleIso8601DateTime, RuleIso8601Date:
		source := resolvedColumn(ctx, src, v.Name)
		for r := range out {
			if r >= len(source) || source[r] == "" {
				continue
			}
			out[r] = normalize.ParseDatePrecision(source[r])
		}

	case RuleCtNormalization:
		source := resolvedColumn(ctx, src, v.Name)
		var codelist *ct.Codelist
		if ctx.CT != nil {
			codelist, _ = ctx.CT.ResolveCodelist(rule.CodelistCode, ctx.PreferredCT...)
		}
		for r := range out {
			if r >= len(source) || source[r] == "" {
				continue
			}
			out[r] = normalize.NormalizeCT(codelist, source[r])
			if codelist != nil && !codelist.Extensible && !codelist.Contains(out[r]) {
				issues = append(issues, Issue{Variable: v.Name, RowIndex: r, Message: "value not in non-extensible codelist " + rule.CodelistCode + ": " + source[r]})
			}
		}

	case RuleNumericConversion:
		source := resolvedColumn(ctx, src, v.Name)
		for r := range out {
			if r >= len(source) || source[r] == "" {
				continue
			}
			f, ok := normalize.ParseNumeric(source[r])
			if !ok {
				issues = append(issues, Issue{Variable: v.Name, RowIndex: r, Message: "unparseable numeric: " + source[r]})
				out[r] = source[r]
				continue
			}
			out[r] = formatFloat(f)
		}

	case RuleCopyDirect:
		source := resolvedColumn(ctx, src, v.Name)
		for r := range out {
			if r < len(source) {
				out[r] = source[r]
			}
		}

	default:
		return nil, nil, fmt.Errorf("unhandled rule kind %q", rule.Kind)
	}

	return out, issues, nil
}

func constantValue(ctx Context, variable string) string {
	switch variable {
	case "DOMAIN":
		return ctx.Domain.Code
	default:
		slog.Warn("transform: unexpected constant variable", "variable", variable)
		return ""
	}
}

// resolveStudyIDs returns the effective STUDYID for every row: the row's
// own value from a mapped STUDYID source column when one is assigned and
// non-empty, otherwise ctx.StudyID.
func resolveStudyIDs(ctx Context, src *ingest.SourceFrame, rowCount int) []string {
	out := make([]string, rowCount)
	source := resolvedColumn(ctx, src, "STUDYID")
	for r := range out {
		if r < len(source) && source[r] != "" {
			out[r] = source[r]
		} else {
			out[r] = ctx.StudyID
		}
	}
	return out
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
