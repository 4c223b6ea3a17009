package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reISODuration = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+W)?(\d+D)?(T(\d+H)?(\d+M)?(\d+S)?)?$`)
	reNumericDays = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	reTextUnit    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(years?|months?|weeks?|wks?|w|days?|d|hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)\b`)
)

// ParseISODuration normalizes numeric-days and free-text duration forms
// into an ISO-8601 duration. Already-valid `P...` strings pass through
// unchanged. Returns ok=false when the input cannot be interpreted as a
// duration.
func ParseISODuration(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "P") && reISODuration.MatchString(s) {
		return s, true
	}
	if reNumericDays.MatchString(s) {
		return numericDaysToISODuration(s)
	}
	return textDurationToISODuration(s)
}

func numericDaysToISODuration(s string) (string, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	if f == 0 {
		return "P0D", true
	}
	whole := int(f)
	frac := f - float64(whole)
	if frac == 0 {
		return fmt.Sprintf("P%dD", whole), true
	}
	hours := int(roundHalfUp(frac * 24))
	var b strings.Builder
	b.WriteString("P")
	if whole != 0 {
		fmt.Fprintf(&b, "%dD", whole)
	}
	if hours != 0 {
		b.WriteString("T")
		fmt.Fprintf(&b, "%dH", hours)
	}
	return b.String(), true
}

func roundHalfUp(f float64) float64 {
	if f >= 0 {
		return float64(int64(f + 0.5))
	}
	return float64(int64(f - 0.5))
}

// textDurationToISODuration parses free-text forms like "5 days",
// "2 hours 30 minutes", "30min", "1 week" into a Y/M/W/D/H/M/S bag and
// renders PnW only when weeks is the sole non-zero component; otherwise
// weeks fold into days as days + 7*weeks.
func textDurationToISODuration(s string) (string, bool) {
	matches := reTextUnit.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return "", false
	}

	var years, months, weeks, days, hours, minutes, seconds float64
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		unit := strings.ToLower(m[2])
		switch {
		case strings.HasPrefix(unit, "year"):
			years += value
		case strings.HasPrefix(unit, "month"):
			months += value
		case strings.HasPrefix(unit, "week"), unit == "w", unit == "wk", unit == "wks":
			weeks += value
		case strings.HasPrefix(unit, "day"), unit == "d":
			days += value
		case strings.HasPrefix(unit, "hour"), strings.HasPrefix(unit, "hr"), unit == "h":
			hours += value
		case strings.HasPrefix(unit, "minute"), strings.HasPrefix(unit, "min"), unit == "m":
			minutes += value
		case strings.HasPrefix(unit, "second"), strings.HasPrefix(unit, "sec"), unit == "s":
			seconds += value
		}
	}

	onlyWeeks := weeks != 0 && years == 0 && months == 0 && days == 0 && hours == 0 && minutes == 0 && seconds == 0
	if onlyWeeks {
		return fmt.Sprintf("P%sW", trimNum(weeks)), true
	}
	if weeks != 0 {
		days += 7 * weeks
	}

	var b strings.Builder
	b.WriteString("P")
	if years != 0 {
		fmt.Fprintf(&b, "%sY", trimNum(years))
	}
	if months != 0 {
		fmt.Fprintf(&b, "%sM", trimNum(months))
	}
	if days != 0 {
		fmt.Fprintf(&b, "%sD", trimNum(days))
	}
	if hours != 0 || minutes != 0 || seconds != 0 {
		b.WriteString("T")
		if hours != 0 {
			fmt.Fprintf(&b, "%sH", trimNum(hours))
		}
		if minutes != 0 {
			fmt.Fprintf(&b, "%sM", trimNum(minutes))
		}
		if seconds != 0 {
			fmt.Fprintf(&b, "%sS", trimNum(seconds))
		}
	}

	result := b.String()
	if result == "P" {
		return "P0D", true
	}
	return result, true
}

func trimNum(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
