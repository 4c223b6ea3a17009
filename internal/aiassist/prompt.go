package aiassist

import (
	"fmt"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

const systemPrompt = `You map clinical trial source data columns to CDISC SDTM target variables.
Given one target variable, a label, and a list of candidate unmapped source
columns with sample values, pick the single best-matching column or "none"
if no candidate plausibly matches. Be conservative: prefer "none" over a
risky guess. Return strict JSON matching the provided schema.`

func formatSuggestPrompt(target standards.Variable, candidateColumns []string, sampleRows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TARGET_VARIABLE: %s\n", target.Name)
	if target.Label != "" {
		fmt.Fprintf(&b, "TARGET_LABEL: %s\n", target.Label)
	}
	fmt.Fprintf(&b, "TARGET_TYPE: %s\n", target.DataType)
	fmt.Fprintf(&b, "CANDIDATE_COLUMNS: %v\n", candidateColumns)

	b.WriteString("SAMPLE_ROWS (aligned to CANDIDATE_COLUMNS order):\n")
	if len(sampleRows) == 0 {
		b.WriteString("- (none)\n")
	}
	for i, row := range sampleRows {
		fmt.Fprintf(&b, "- row_%d=%v\n", i+1, row)
	}
	return b.String()
}
