package snapshots

import (
	"os"
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/testutil"
)

func matchOn(id, date string) matches.Match {
	created, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return testutil.SampleMatchAt(id, matches.SportFootball, created.Add(12*time.Hour))
}

func board(date string, ids ...string) Scoreboard {
	b := Scoreboard{Date: date}
	for _, id := range ids {
		b.Matches = append(b.Matches, matchOn(id, date))
	}
	return b
}

func writeBoard(t *testing.T, w *Writer, b Scoreboard) {
	t.Helper()
	if err := w.WriteScoreboard(b); err != nil {
		t.Fatalf("failed to write scoreboard %s: %v", b.Date, err)
	}
}

func requireBoardExists(t *testing.T, w *Writer, date string) {
	t.Helper()
	if _, err := os.Stat(ScoreboardPath(w.BasePath(), date)); err != nil {
		t.Fatalf("expected scoreboard for %s: %v", date, err)
	}
}

func assertDatesEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dates length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("dates mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func fixedNow(date string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse("2006-01-02", date)
		return t.Add(9 * time.Hour)
	}
}
