package normalize

import "github.com/yourorg/sdtm-studio/internal/ct"

// NormalizeCT delegates to the codelist's own Normalize: exact
// submission-value match, then synonym, else the value unchanged. Returns
// the input unchanged when codelist is nil (no CT bound to this variable).
func NormalizeCT(codelist *ct.Codelist, value string) string {
	if codelist == nil {
		return value
	}
	return codelist.Normalize(value)
}
