package timeutil

import (
	"reflect"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate(" 2024-01-02 ")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if parsed.Location() != time.UTC || parsed.Hour() != 0 {
		t.Fatalf("expected UTC midnight, got %v", parsed)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
	if _, err := ParseDate("02/01/2024"); err == nil {
		t.Fatal("expected malformed date to fail")
	}
}

func TestFormatDateUsesUTC(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-03" {
		t.Fatalf("expected the UTC day, got %s", got)
	}
}

func TestStartOfDay(t *testing.T) {
	value := time.Date(2024, 3, 1, 18, 45, 10, 99, time.UTC)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(value); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRecentDates(t *testing.T) {
	value := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	want := []string{"2024-03-01", "2024-02-29", "2024-02-28"}
	if got := RecentDates(value, 3); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := RecentDates(value, 0); got != nil {
		t.Fatalf("expected no dates, got %v", got)
	}
}
