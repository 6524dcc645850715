// ABOUTME: Tests for display formatting
// ABOUTME: Pins currency grouping, date layouts and relative time text

package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	tests := map[float64]string{
		0:       "UGX 0",
		950:     "UGX 950",
		1500000: "UGX 1,500,000",
	}
	for in, want := range tests {
		if got := Currency(in); got != want {
			t.Errorf("%v: expected %q, got %q", in, want, got)
		}
	}
}

func TestTonnes(t *testing.T) {
	tests := map[float64]string{
		1:      "1 t",
		12.5:   "12.5 t",
		1250.5: "1,250.5 t",
	}
	for in, want := range tests {
		if got := Tonnes(in); got != want {
			t.Errorf("%v: expected %q, got %q", in, want, got)
		}
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 14, 5, 9, 0, time.Local)
	if got := Date(ts); got != "07/03/2024" {
		t.Errorf("unexpected date %q", got)
	}
	if got := DateTime(ts); got != "07/03/2024, 14:05:09" {
		t.Errorf("unexpected datetime %q", got)
	}
}

func TestDateString(t *testing.T) {
	if got := DateString("2024-03-07"); got != Date(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %q", got)
	}
	if got := DateString(""); got != "-" {
		t.Errorf("expected dash, got %q", got)
	}
	if got := DateString("last week"); got != "last week" {
		t.Errorf("expected passthrough, got %q", got)
	}
	if _, ok := ParseTime("2024-03-07T10:00:00.000Z"); !ok {
		t.Error("expected RFC3339 timestamp to parse")
	}
}

func TestSinceAndUntil(t *testing.T) {
	now := time.Now()
	if got := Since(now.Add(-10 * time.Second)); got != "just now" {
		t.Errorf("unexpected %q", got)
	}
	if got := Since(now.Add(-90 * time.Minute)); got != "1h ago" {
		t.Errorf("unexpected %q", got)
	}
	if got := Until(now.Add(-time.Minute)); got != "expired" {
		t.Errorf("unexpected %q", got)
	}
	if got := Until(now.Add(3*time.Hour + time.Minute)); got != "expires in 3h" {
		t.Errorf("unexpected %q", got)
	}
}
