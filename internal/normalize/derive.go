package normalize

import (
	"strconv"
	"strings"
	"time"
)

// UsubjidPrefix prefixes a subject identifier with its study id, idempotent
// if the value already starts with "{study}-", quote characters stripped
// from both inputs.
func UsubjidPrefix(existing, study string) string {
	v := strings.Trim(strings.TrimSpace(existing), `"'`)
	s := strings.Trim(strings.TrimSpace(study), `"'`)
	prefix := s + "-"
	if strings.HasPrefix(v, prefix) {
		return v
	}
	return prefix + v
}

// AssignSequenceNumbers groups usubjids by value and assigns 1..N in row
// order within each group, returned as float64 (SDTM numeric) aligned to
// the input slice.
func AssignSequenceNumbers(usubjids []string) []float64 {
	counters := make(map[string]int, len(usubjids))
	out := make([]float64, len(usubjids))
	for i, id := range usubjids {
		counters[id]++
		out[i] = float64(counters[id])
	}
	return out
}

// StudyDay derives the SDTM study day: Δ = date(obs) - date(ref); study day
// = Δ+1 if Δ>=0 else Δ (skip day zero). Returns ok=false when either date
// fails to parse to at least day precision.
func StudyDay(referenceDTC, observationDTC string) (float64, bool) {
	ref, ok := parseCalendarDate(ParseDatePrecision(referenceDTC))
	if !ok {
		return 0, false
	}
	obs, ok := parseCalendarDate(ParseDatePrecision(observationDTC))
	if !ok {
		return 0, false
	}
	delta := int(obs.Sub(ref).Hours() / 24)
	if delta >= 0 {
		return float64(delta + 1), true
	}
	return float64(delta), true
}

func parseCalendarDate(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseNumeric renders a string as SDTM Float64, returning ok=false when
// the value can't be parsed.
func ParseNumeric(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
