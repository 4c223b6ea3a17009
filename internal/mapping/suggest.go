package mapping

import (
	"strings"

	"github.com/yourorg/sdtm-studio/internal/ingest"
	"github.com/yourorg/sdtm-studio/internal/standards"
)

// aliasTable maps common free-text source-column spellings to the SDTM
// target variable they most often mean.
var aliasTable = map[string]string{
	"subject id":          "USUBJID",
	"subject identifier":  "USUBJID",
	"patient id":          "USUBJID",
	"site id":             "SITEID",
	"site number":         "SITEID",
	"date of birth":       "BRTHDTC",
	"sex":                 "SEX",
	"gender":              "SEX",
	"race":                "RACE",
	"ethnicity":           "ETHNIC",
	"country":             "COUNTRY",
	"age":                 "AGE",
	"age unit":            "AGEU",
	"adverse event term":  "AETERM",
	"adverse event":       "AETERM",
	"ae term":             "AETERM",
	"severity":            "AESEV",
	"seriousness":         "AESER",
	"causality":           "AEREL",
	"outcome":             "AEOUT",
	"start date":          "AESTDTC",
	"end date":            "AEENDTC",
	"medication name":     "CMTRT",
	"drug name":           "CMTRT",
	"dose":                "CMDOSE",
	"dose unit":           "CMDOSU",
	"route":               "CMROUTE",
	"visit date":          "VSDTC",
	"test code":           "VSTESTCD",
	"test name":           "VSTEST",
	"result":              "VSORRES",
	"unit":                "VSORRESU",
	"position":            "VSPOS",
	"lab test":            "LBTEST",
	"lab test code":       "LBTESTCD",
	"reference range flag": "LBNRIND",
}

// MinConfidence is the default suggestion floor; callers may override via
// a higher threshold for stricter studies.
const MinConfidence = 0.5

// Suggestion is one scored candidate source column for a target variable.
type Suggestion struct {
	SourceColumn string
	Confidence   float64
}

// ScoreColumn returns the confidence in [0,1] that sourceColumn maps to
// target: exact name, case-insensitive name, normalized-alphanumeric
// name, label substring, alias table, and a hint-informed boost.
func ScoreColumn(target standards.Variable, sourceColumn string, hint ingest.ColumnHint, label string) float64 {
	best := 0.0
	raise := func(score float64) {
		if score > best {
			best = score
		}
	}

	if sourceColumn == target.Name {
		raise(1.0)
	}
	if strings.EqualFold(sourceColumn, target.Name) {
		raise(0.95)
	}
	if normalizeAlphanumeric(sourceColumn) == normalizeAlphanumeric(target.Name) {
		raise(0.9)
	}
	raise(labelSubstringScore(target.Label, label))
	if canonical, ok := aliasTable[strings.ToLower(strings.TrimSpace(sourceColumn))]; ok && canonical == target.Name {
		raise(0.9)
	}
	raise(hintBoost(target, hint))

	if best > 1 {
		return 1
	}
	return best
}

// labelSubstringScore scores 0.7-0.85 scaled by overlap when the target's
// label and the source's label/header share a substantial substring.
func labelSubstringScore(targetLabel, sourceLabel string) float64 {
	a := strings.ToLower(strings.TrimSpace(targetLabel))
	b := strings.ToLower(strings.TrimSpace(sourceLabel))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 0.85
	}
	if strings.Contains(b, a) || strings.Contains(a, b) {
		shorter, longer := a, b
		if len(b) < len(a) {
			shorter, longer = b, a
		}
		overlap := float64(len(shorter)) / float64(len(longer))
		return 0.7 + 0.15*overlap
	}
	return 0
}

// hintBoost nudges confidence for columns whose profile matches the
// target's expected kind: date-like columns for *DTC/*DTM/*DT variables,
// numeric columns for Num-typed variables.
func hintBoost(target standards.Variable, hint ingest.ColumnHint) float64 {
	name := target.Name
	isDateTarget := strings.HasSuffix(name, "DTC") || strings.HasSuffix(name, "DTM") || strings.HasSuffix(name, "DT")
	if isDateTarget && hint.DateLikeRatio >= 0.6 {
		return 0.55 + 0.2*hint.DateLikeRatio
	}
	if target.DataType == standards.Num && hint.NumericRatio >= 0.6 {
		return 0.5 + 0.2*hint.NumericRatio
	}
	return 0
}

func normalizeAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SuggestAssignments computes, for one target variable, every source
// column whose score clears minConfidence, returning the best single
// candidate (or ok=false if none clear the floor).
func SuggestAssignments(target standards.Variable, frame *ingest.SourceFrame, minConfidence float64) (Suggestion, bool) {
	best := Suggestion{}
	found := false
	for i, col := range frame.Headers.Names {
		var hint ingest.ColumnHint
		if i < len(frame.Hints) {
			hint = frame.Hints[i]
		}
		score := ScoreColumn(target, col, hint, frame.Headers.Label(i))
		if score < minConfidence {
			continue
		}
		if score > best.Confidence {
			best = Suggestion{SourceColumn: col, Confidence: score}
			found = true
		}
	}
	return best, found
}

// SuggestAll builds a Config with a Suggested assignment for every domain
// variable that clears minConfidence, and Unmapped for the rest.
func SuggestAll(domain standards.Domain, frame *ingest.SourceFrame, minConfidence float64) *Config {
	cfg := NewConfig()
	for _, v := range domain.Variables {
		if s, ok := SuggestAssignments(v, frame, minConfidence); ok {
			cfg.Suggest(v.Name, s.SourceColumn, s.Confidence)
		} else {
			cfg.Clear(v.Name)
		}
	}
	return cfg
}
