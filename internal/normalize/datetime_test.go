package normalize

import "testing"

func TestParseDatePrecision_AlreadyValidPassesThrough(t *testing.T) {
	cases := []string{"2024", "2024-03", "2024-03-15", "2024-03-15T10:30", "2024-03-15T10:30:00", "2024-03-15T10:30:00.500"}
	for _, s := range cases {
		if got := ParseDatePrecision(s); got != s {
			t.Errorf("ParseDatePrecision(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestParseDatePrecision_FullDateTime(t *testing.T) {
	if got := ParseDatePrecision("2024-03-15 10:30:00"); got != "2024-03-15T10:30:00" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_DMonYYYY(t *testing.T) {
	if got := ParseDatePrecision("15-Mar-2024"); got != "2024-03-15" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_DMonYYYYWithTime(t *testing.T) {
	if got := ParseDatePrecision("15-Mar-2024 10:30"); got != "2024-03-15T10:30:00" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_SlashDate(t *testing.T) {
	if got := ParseDatePrecision("2024/03/15"); got != "2024-03-15" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_CompactDate(t *testing.T) {
	if got := ParseDatePrecision("20240315"); got != "2024-03-15" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_WrittenMonth(t *testing.T) {
	if got := ParseDatePrecision("15 March 2024"); got != "2024-03-15" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_YearMonthWritten(t *testing.T) {
	if got := ParseDatePrecision("March 2024"); got != "2024-03" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_YearMonthSlash(t *testing.T) {
	if got := ParseDatePrecision("03/2024"); got != "2024-03" {
		t.Errorf("got %q", got)
	}
}

func TestParseDatePrecision_Unparseable_ReturnsUnchanged(t *testing.T) {
	if got := ParseDatePrecision("not a date"); got != "not a date" {
		t.Errorf("expected unparseable input unchanged, got %q", got)
	}
}
