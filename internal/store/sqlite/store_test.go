package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "scoring.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func cricketMatch(t *testing.T, id string, created time.Time) matches.Match {
	t.Helper()
	m, err := matches.New(id, matches.NewMatchParams{
		Sport:  matches.SportCricket,
		TeamA:  teams.Team{ID: "ind", Name: "India"},
		TeamB:  teams.Team{ID: "eng", Name: "England"},
		SquadA: []matches.SquadPlayer{{ID: "a1"}, {ID: "a2"}},
		SquadB: []matches.SquadPlayer{{ID: "b1"}},
	}, created)
	if err != nil {
		t.Fatalf("build match: %v", err)
	}
	return m
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.db")
	first, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	_ = first.Close()

	second, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen should skip applied migrations: %v", err)
	}
	_ = second.Close()
}

func TestOpenAppliesConnectionPragmas(t *testing.T) {
	s := openTestStore(t)
	s.sqlDB.SetMaxOpenConns(2)
	want := map[string]string{
		"journal_mode": "wal",
		"busy_timeout": "5000",
		"synchronous":  "1",
		"foreign_keys": "1",
	}
	// Hold one connection so the reads below go through a second pooled one.
	held, err := s.sqlDB.Conn(context.Background())
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer held.Close()

	for name, expected := range want {
		var got string
		if err := s.sqlDB.QueryRowContext(context.Background(), "PRAGMA "+name).Scan(&got); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if got != expected {
			t.Fatalf("%s = %q, expected %q", name, got, expected)
		}
	}
}

func TestStoreRoundTripsCricketState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := cricketMatch(t, "m1", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC))
	in := m.Cricket.Active()
	in.Striker, in.NonStriker, in.Bowler = "a1", "a2", "b1"
	in.Runs = 4
	in.Batters = []matches.BatterStats{{PlayerID: "a1", Runs: 4, Balls: 1, Fours: 1}}
	in.Bowlers = []matches.BowlerStats{{PlayerID: "b1", Balls: 1, RunsConceded: 4, OverRuns: 4}}
	in.Log = []matches.Delivery{{Runs: 4, Legal: true, StrikerBefore: "a1", NonStrikerBefore: "a2"}}

	created, err := s.Create(ctx, m)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}

	got, err := s.Load(ctx, "m1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	gotIn := got.Cricket.Active()
	if gotIn.Runs != 4 || gotIn.Striker != "a1" || len(gotIn.Log) != 1 {
		t.Fatalf("cricket state lost: %+v", gotIn)
	}
	if gotIn.Bowlers[0].OverRuns != 4 {
		t.Fatalf("bowler over tally lost: %+v", gotIn.Bowlers[0])
	}
	if !got.CreatedAt.Equal(m.CreatedAt) {
		t.Fatalf("created at mismatch %v vs %v", got.CreatedAt, m.CreatedAt)
	}
}

func TestStoreCreateDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := cricketMatch(t, "dup", time.Now())
	if _, err := s.Create(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, m); !errors.Is(err, matches.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, matches.ErrMatchNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreSaveOptimisticVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	created, _ := s.Create(ctx, cricketMatch(t, "m1", time.Now()))

	next := created.Clone()
	next.Status = matches.StatusLive
	saved, err := s.Save(ctx, next)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2, got %d", saved.Version)
	}

	if _, err := s.Save(ctx, created); !errors.Is(err, matches.ErrConflict) {
		t.Fatalf("expected stale save to conflict, got %v", err)
	}

	ghost := cricketMatch(t, "ghost", time.Now())
	if _, err := s.Save(ctx, ghost); !errors.Is(err, matches.ErrMatchNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	live, err := s.List(ctx, store.ListFilter{Status: matches.StatusLive})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(live) != 1 || live[0].Version != 2 {
		t.Fatalf("expected status column to follow saves, got %+v", live)
	}
}

func TestStoreListFiltersAndOrders(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, _ = s.Create(ctx, cricketMatch(t, "first", base))
	_, _ = s.Create(ctx, cricketMatch(t, "second", base.Add(time.Minute)))
	set, _ := matches.New("third", matches.NewMatchParams{
		Sport: matches.SportBadminton,
		TeamA: teams.Team{ID: "x"},
		TeamB: teams.Team{ID: "y"},
	}, base.Add(2*time.Minute))
	_, _ = s.Create(ctx, set)

	all, err := s.List(ctx, store.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "third" || all[2].ID != "first" {
		t.Fatalf("unexpected order: %v", all)
	}

	cricket, _ := s.List(ctx, store.ListFilter{Sport: matches.SportCricket, Limit: 1})
	if len(cricket) != 1 || cricket[0].ID != "second" {
		t.Fatalf("unexpected filtered list: %v", cricket)
	}

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nCREATE TABLE t (id INT);\n-- +migrate Down\nDROP TABLE t;")
	if got != "\nCREATE TABLE t (id INT);\n" {
		t.Fatalf("unexpected up section %q", got)
	}
	if upSection("SELECT 1;") != "SELECT 1;" {
		t.Fatal("content without markers should be returned as-is")
	}
}
