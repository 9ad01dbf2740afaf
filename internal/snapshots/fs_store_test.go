package snapshots

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFSStoreLoadScoreboard(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 10000)
	writeBoard(t, w, board("2024-01-02", "m-1"))

	store := NewFSStore(dir)
	got, err := store.LoadScoreboard("2024-01-02")
	if err != nil {
		t.Fatalf("failed to load scoreboard: %v", err)
	}
	if got.Date != "2024-01-02" || len(got.Matches) != 1 || got.Matches[0].ID != "m-1" {
		t.Fatalf("unexpected scoreboard: %+v", got)
	}

	dates, err := store.Dates()
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	assertDatesEqual(t, dates, []string{"2024-01-02"})
}

func TestFSStoreErrors(t *testing.T) {
	store := NewFSStore(t.TempDir())
	if _, err := store.LoadScoreboard("2024-01-01"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.LoadScoreboard(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
	if dates, err := store.Dates(); err != nil || len(dates) != 0 {
		t.Fatalf("expected no dates without a manifest, got %v %v", dates, err)
	}

	var nilStore *FSStore
	if _, err := nilStore.LoadScoreboard("2024-01-01"); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := nilStore.Dates(); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestFSStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := ScoreboardPath(dir, "2024-01-03")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := NewFSStore(dir).LoadScoreboard("2024-01-03"); err == nil {
		t.Fatalf("expected decode error")
	}
}
