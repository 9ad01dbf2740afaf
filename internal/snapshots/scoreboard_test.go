package snapshots

import (
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

func TestDateOfPrefersScheduledStart(t *testing.T) {
	m := matchOn("m-1", "2024-03-01")
	if got := DateOf(m); got != "2024-03-01" {
		t.Fatalf("expected creation day, got %s", got)
	}
	start := time.Date(2024, 3, 4, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	m.ScheduledAt = &start
	if got := DateOf(m); got != "2024-03-04" {
		t.Fatalf("expected scheduled UTC day, got %s", got)
	}
}

func TestGroupByDate(t *testing.T) {
	list := []matches.Match{
		matchOn("m-1", "2024-03-01"),
		matchOn("m-2", "2024-03-02"),
		matchOn("m-3", "2024-03-01"),
	}
	boards := GroupByDate(list)
	if len(boards) != 2 {
		t.Fatalf("expected two days, got %d", len(boards))
	}
	if first := boards["2024-03-01"]; first.Date != "2024-03-01" || len(first.Matches) != 2 {
		t.Fatalf("unexpected board %+v", first)
	}
}

func TestForDateIsNeverNil(t *testing.T) {
	b := ForDate([]matches.Match{matchOn("m-1", "2024-03-01")}, "2024-03-05")
	if b.Matches == nil || len(b.Matches) != 0 || b.Date != "2024-03-05" {
		t.Fatalf("expected empty board, got %+v", b)
	}
}
