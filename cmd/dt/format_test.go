package main

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 40, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a very long document title that keeps going", 20, "a very long docum..."},
		{"abc", 2, "ab"},
		{"", 10, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0m"},
		{90_000, "1m"},
		{3_600_000, "1h 0m"},
		{93_600_000, "1d 2h"},
		{-93_600_000, "-1d 2h"},
		{-1_800_000, "-30m"},
	}

	for _, tt := range tests {
		if got := formatRemaining(tt.ms); got != tt.want {
			t.Errorf("formatRemaining(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestParseTimeFlag(t *testing.T) {
	if _, err := parseTimeFlag("2026-03-15"); err != nil {
		t.Errorf("parseTimeFlag(date) error: %v", err)
	}
	if _, err := parseTimeFlag("2026-03-15T12:00:00Z"); err != nil {
		t.Errorf("parseTimeFlag(rfc3339) error: %v", err)
	}
	if _, err := parseTimeFlag("15/03/2026"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}
