package pivot

import (
	"regexp"

	"github.com/yourorg/sdtm-studio/internal/ingest"
)

// buildFindingsRuleTable returns the default wide-pivot rule table shared
// by QS, PE, DA, DS. prefix is the domain's TESTCD/ORRES variable prefix,
// e.g. "QS".
func buildFindingsRuleTable(domain, prefix string) DomainRuleTable {
	orresRe := regexp.MustCompile(`^` + prefix + `ORRES_(.+)$`)
	orresuRe := regexp.MustCompile(`^` + prefix + `ORRESU_(.+)$`)
	stresCRe := regexp.MustCompile(`^` + prefix + `STRESC_(.+)$`)
	catRe := regexp.MustCompile(`^` + prefix + `CAT_(.+)$`)

	return DomainRuleTable{
		Domain: domain,
		Rules: []Rule{
			{
				ID:          prefix + "-result",
				Category:    CategoryOriginalResult,
				Description: "Maps " + prefix + "ORRES_<TEST> columns to " + prefix + "TESTCD/" + prefix + "TEST/" + prefix + "ORRES.",
				Targets:     []string{prefix + "TESTCD", prefix + "TEST", prefix + "ORRES"},
				Enabled:     true,
				HeaderRegex: orresRe,
				Apply: func(ctx RuleContext) map[string]string {
					value := cellOf(ctx.Src, ctx.Row, ctx.Header)
					label := ctx.Src.Headers.Label(ctx.Src.ColumnIndex(ctx.Header))
					if label == "" {
						label = ctx.GroupKey
					}
					return map[string]string{
						prefix + "TESTCD": SanitizeTestCD(ctx.GroupKey, prefix),
						prefix + "TEST":   label,
						prefix + "ORRES":  value,
					}
				},
			},
			{
				ID:          prefix + "-unit",
				Category:    CategoryUnit,
				Description: "Maps " + prefix + "ORRESU_<TEST> columns to " + prefix + "ORRESU.",
				Targets:     []string{prefix + "ORRESU"},
				Enabled:     true,
				HeaderRegex: orresuRe,
				Apply: func(ctx RuleContext) map[string]string {
					return map[string]string{prefix + "ORRESU": cellOf(ctx.Src, ctx.Row, ctx.Header)}
				},
			},
			{
				ID:          prefix + "-decode",
				Category:    CategoryDecodeTerm,
				Description: "Maps " + prefix + "STRESC_<TEST> columns to " + prefix + "STRESC.",
				Targets:     []string{prefix + "STRESC"},
				Enabled:     true,
				HeaderRegex: stresCRe,
				Apply: func(ctx RuleContext) map[string]string {
					return map[string]string{prefix + "STRESC": cellOf(ctx.Src, ctx.Row, ctx.Header)}
				},
			},
			{
				ID:          prefix + "-category",
				Category:    CategoryCategory,
				Description: "Maps " + prefix + "CAT_<TEST> columns to " + prefix + "CAT.",
				Targets:     []string{prefix + "CAT"},
				Enabled:     true,
				HeaderRegex: catRe,
				Apply: func(ctx RuleContext) map[string]string {
					return map[string]string{prefix + "CAT": cellOf(ctx.Src, ctx.Row, ctx.Header)}
				},
			},
		},
	}
}

// DefaultQSRules is QS's default rule table.
func DefaultQSRules() DomainRuleTable { return buildFindingsRuleTable("QS", "QS") }

// DefaultPERules is PE's default rule table.
func DefaultPERules() DomainRuleTable { return buildFindingsRuleTable("PE", "PE") }

// DefaultDARules is DA's default rule table.
func DefaultDARules() DomainRuleTable { return buildFindingsRuleTable("DA", "DA") }

// DefaultDSRules is DS's default rule table.
func DefaultDSRules() DomainRuleTable { return buildFindingsRuleTable("DS", "DS") }

// DetectQS, DetectPE, DetectDA, DetectDS run the respective domain's
// default rule table against src.
func DetectQS(src *ingest.SourceFrame) (*Result, bool) { return DetectGeneric(DefaultQSRules(), src) }
func DetectPE(src *ingest.SourceFrame) (*Result, bool) { return DetectGeneric(DefaultPERules(), src) }
func DetectDA(src *ingest.SourceFrame) (*Result, bool) { return DetectGeneric(DefaultDARules(), src) }
func DetectDS(src *ingest.SourceFrame) (*Result, bool) { return DetectGeneric(DefaultDSRules(), src) }
