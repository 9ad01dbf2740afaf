package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

func sampleMatch(t *testing.T, id string, sport matches.Sport, created time.Time) matches.Match {
	t.Helper()
	m, err := matches.New(id, matches.NewMatchParams{
		Sport: sport,
		TeamA: teams.Team{ID: "a", Name: "Alpha"},
		TeamB: teams.Team{ID: "b", Name: "Bravo"},
	}, created)
	if err != nil {
		t.Fatalf("build match: %v", err)
	}
	return m
}

func TestMemoryStoreCreateAndLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	m := sampleMatch(t, "1", matches.SportFootball, time.Now())

	created, err := s.Create(ctx, m)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}

	got, err := s.Load(ctx, "1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != "1" || got.Version != 1 {
		t.Fatalf("unexpected match %+v", got)
	}

	if _, err := s.Create(ctx, m); !errors.Is(err, matches.ErrConflict) {
		t.Fatalf("expected duplicate create to conflict, got %v", err)
	}
}

func TestMemoryStoreLoadNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Load(context.Background(), "missing"); !errors.Is(err, matches.ErrMatchNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryStoreSaveChecksVersion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	created, _ := s.Create(ctx, sampleMatch(t, "1", matches.SportHockey, time.Now()))

	first := created
	first.ScoreA = 1
	saved, err := s.Save(ctx, first)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2, got %d", saved.Version)
	}

	stale := created
	stale.ScoreB = 4
	if _, err := s.Save(ctx, stale); !errors.Is(err, matches.ErrConflict) {
		t.Fatalf("expected stale save to conflict, got %v", err)
	}

	got, _ := s.Load(ctx, "1")
	if got.ScoreA != 1 || got.ScoreB != 0 {
		t.Fatalf("stale save leaked into store: %+v", got)
	}

	if _, err := s.Save(ctx, sampleMatch(t, "ghost", matches.SportHockey, time.Now())); !errors.Is(err, matches.ErrMatchNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	m := sampleMatch(t, "1", matches.SportBadminton, time.Now())
	_, _ = s.Create(ctx, m)

	loaded, _ := s.Load(ctx, "1")
	loaded.Sets.Details = append(loaded.Sets.Details, matches.SetResult{SetNumber: 1})

	again, _ := s.Load(ctx, "1")
	if len(again.Sets.Details) != 0 {
		t.Fatalf("expected stored match to be isolated from caller mutation")
	}
}

func TestMemoryStoreListFiltersAndSorts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _ = s.Create(ctx, sampleMatch(t, "old", matches.SportFootball, base))
	_, _ = s.Create(ctx, sampleMatch(t, "new", matches.SportFootball, base.Add(time.Hour)))
	_, _ = s.Create(ctx, sampleMatch(t, "set", matches.SportVolleyball, base.Add(2*time.Hour)))

	all, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "set" || all[2].ID != "old" {
		t.Fatalf("unexpected order %v", ids(all))
	}

	football, _ := s.List(ctx, ListFilter{Sport: matches.SportFootball, Limit: 1})
	if len(football) != 1 || football[0].ID != "new" {
		t.Fatalf("unexpected filtered list %v", ids(football))
	}

	live, _ := s.List(ctx, ListFilter{Status: matches.StatusLive})
	if len(live) != 0 {
		t.Fatalf("expected no live matches, got %v", ids(live))
	}
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Load(ctx, "1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if err := s.Ping(ctx); err == nil {
		t.Fatal("expected ping to report cancelled context")
	}
}

func TestMemoryStoreConcurrentSavesConflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	created, _ := s.Create(ctx, sampleMatch(t, "1", matches.SportKabaddi, time.Now()))

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := created.Clone()
			m.ScoreA++
			if _, err := s.Save(ctx, m); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one save to win, got %d", wins)
	}
}

func ids(list []matches.Match) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.ID
	}
	return out
}
