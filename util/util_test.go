package util

import (
	"strings"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	if v == "" {
		t.Error("Expected a non-empty version")
	}
	if strings.TrimSpace(v) != v {
		t.Error("Expected version to be trimmed")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Expected 'short' untouched, got %q", got)
	}
	if got := Truncate("hello world", 5); got != "hell…" {
		t.Errorf("Expected 'hell…', got %q", got)
	}
	// Rune-aware, not byte-aware
	if got := Truncate("привет мир", 6); got != "приве…" {
		t.Errorf("Expected rune-aware cut, got %q", got)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	cases := []string{
		"2026-08-30T12:30:00Z",
		"2026-08-30T12:30:00.123456",
		"2026-08-30 12:30:00.123456",
		"2026-08-30 12:30:00",
	}
	for _, c := range cases {
		if ParseTime(c).IsZero() {
			t.Errorf("Expected %q to parse", c)
		}
	}

	if !ParseTime("").IsZero() {
		t.Error("Expected empty string to yield zero time")
	}
	if !ParseTime("not a time").IsZero() {
		t.Error("Expected garbage to yield zero time")
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Now().UTC()

	cases := []struct {
		ts   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-49 * time.Hour), "2d"},
	}
	for _, c := range cases {
		got := TimeAgo(c.ts.Format(time.RFC3339))
		if got != c.want {
			t.Errorf("Expected %q for %v, got %q", c.want, c.ts, got)
		}
	}

	if got := TimeAgo("garbage"); got != "" {
		t.Errorf("Expected empty string for unparseable input, got %q", got)
	}
}

func TestClockTime(t *testing.T) {
	if got := ClockTime("2026-08-30T09:05:00Z"); got != "09:05" {
		t.Errorf("Expected '09:05', got %q", got)
	}
	if got := ClockTime(""); got != "" {
		t.Errorf("Expected empty string for empty input, got %q", got)
	}
}
