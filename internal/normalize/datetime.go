// Package normalize implements the SDTM normalization library: ISO-8601
// date/datetime/duration parsing with precision preservation, CT
// normalization delegation, USUBJID prefixing, sequence numbering, and
// study-day derivation.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reISOYear        = regexp.MustCompile(`^\d{4}$`)
	reISOYearMonth   = regexp.MustCompile(`^\d{4}-\d{2}$`)
	reISODate        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reISODateTimeMin = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
	reISODateTimeSec = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`)

	reFullDateTimeT     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2}):(\d{2})(\.\d+)?$`)
	reFullDateTimeUS     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})[T ](\d{1,2}):(\d{2}):(\d{2})$`)
	reDateDMonYYYY      = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{4})$`)
	reDateDMonYYYYTime  = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{4})[T ](\d{1,2}):(\d{2})(:(\d{2}))?$`)
	reDateSlash         = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	reDateUSSlash       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reDateCompact       = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	reDateDotted        = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	reDateWrittenMonth  = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})$`)
	reYearMonthWritten  = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{4})$`)
	reYearMonthSlash    = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
)

var monthByAbbrev = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var monthByFullName = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// ParseDatePrecision recognizes a wide variety of date/datetime shapes
// (ISO, US slash, DD-Mon-YYYY, dotted, written-month, compact) and
// reformats them to the ISO-8601 precision actually present, or returns the
// trimmed input unchanged if nothing matches.
func ParseDatePrecision(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return s
	}

	switch {
	case reISODateTimeSec.MatchString(s), reISODateTimeMin.MatchString(s), reISODate.MatchString(s),
		reISOYearMonth.MatchString(s), reISOYear.MatchString(s):
		return s
	}

	if m := reFullDateTimeT.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%sT%s:%s:%s", m[1], m[2], m[3], m[4], m[5], m[6])
	}
	if m := reFullDateTimeUS.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		hour, _ := strconv.Atoi(m[4])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return fmt.Sprintf("%s-%02d-%02dT%02d:%s:%s", m[3], mo, d, hour, m[5], m[6])
		}
	}
	if m := reDateDMonYYYYTime.FindStringSubmatch(s); m != nil {
		if mo, ok := monthByAbbrev[strings.ToLower(m[2])]; ok {
			day, _ := strconv.Atoi(m[1])
			hour, _ := strconv.Atoi(m[4])
			sec := "00"
			if m[7] != "" {
				sec = m[7]
			}
			return fmt.Sprintf("%s-%02d-%02dT%02d:%s:%s", m[3], mo, day, hour, m[5], sec)
		}
	}

	if m := reDateDMonYYYY.FindStringSubmatch(s); m != nil {
		if mo, ok := monthByAbbrev[strings.ToLower(m[2])]; ok {
			day, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%s-%02d-%02d", m[3], mo, day)
		}
	}
	if m := reDateSlash.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%s-%02d-%02d", m[1], mo, day)
		}
	}
	if m := reDateCompact.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		}
	}
	if m := reDateDotted.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if mo >= 1 && mo <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%s-%02d-%02d", m[3], mo, day)
		}
	}
	if m := reDateWrittenMonth.FindStringSubmatch(s); m != nil {
		if mo, ok := resolveMonthName(m[2]); ok {
			day, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%s-%02d-%02d", m[3], mo, day)
		}
	}
	if m := reDateUSSlash.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if mo >= 1 && mo <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%s-%02d-%02d", m[3], mo, day)
		}
	}

	if m := reYearMonthWritten.FindStringSubmatch(s); m != nil {
		if mo, ok := resolveMonthName(m[1]); ok {
			return fmt.Sprintf("%s-%02d", m[2], mo)
		}
	}
	if m := reYearMonthSlash.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		if mo >= 1 && mo <= 12 {
			return fmt.Sprintf("%s-%02d", m[2], mo)
		}
	}

	if reISOYear.MatchString(s) {
		if year, _ := strconv.Atoi(s); year >= 1900 && year <= 2100 {
			return s
		}
	}

	return s
}

func resolveMonthName(name string) (int, bool) {
	lower := strings.ToLower(name)
	if mo, ok := monthByAbbrev[lower[:min3(len(lower))]]; ok {
		return mo, true
	}
	if mo, ok := monthByFullName[lower]; ok {
		return mo, true
	}
	return 0, false
}

func min3(n int) int {
	if n < 3 {
		return n
	}
	return 3
}
