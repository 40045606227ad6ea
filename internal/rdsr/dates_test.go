package rdsr

import (
	"testing"
	"time"
)

func TestParseContentDate_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"20240115", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"20240115093045", time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC)},
		{"20240115093045.123456", time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC)},
		{"2024-01-15T09:30:45", time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC)},
		{"2024-01-15 09:30:45", time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC)},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15 Jan 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"  20240115  ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ParseContentDate(tt.input)
		if !ok {
			t.Errorf("ParseContentDate(%q): not parsed", tt.input)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseContentDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseContentDate_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a date",
		"2024",
		"20241315",       // month 13
		"99999999999999", // digits but no valid timestamp
	}

	for _, input := range inputs {
		if got, ok := ParseContentDate(input); ok {
			t.Errorf("ParseContentDate(%q) = %v, want no parse", input, got)
		}
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 3, 7, 23, 59, 59, 999, time.UTC)
	want := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	if got := DateOnly(in); !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}

func TestDateOnly_SameDayDifferentTimes(t *testing.T) {
	morning := time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 7, 20, 30, 0, 0, time.UTC)

	if !DateOnly(morning).Equal(DateOnly(evening)) {
		t.Error("two times on the same calendar day should truncate to the same date")
	}
}
