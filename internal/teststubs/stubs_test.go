package teststubs

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/snapshots"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
)

func TestStubListerTracksCalls(t *testing.T) {
	err := errors.New("boom")
	l := &StubLister{Notify: make(chan struct{})}
	l.Set([]matches.Match{{ID: "m-1"}}, err)
	list, got := l.List(context.Background(), store.ListFilter{})
	if !errors.Is(got, err) || len(list) != 1 {
		t.Fatalf("expected passthrough, got %v %v", list, got)
	}
	_, _ = l.List(context.Background(), store.ListFilter{})
	if l.Calls.Load() != 2 {
		t.Fatalf("expected call count 2, got %d", l.Calls.Load())
	}
	select {
	case <-l.Notify:
	default:
		t.Fatal("expected notify to be closed")
	}
}

func TestStubScoreboardStore(t *testing.T) {
	date := "2024-01-01"
	s := &StubScoreboardStore{Boards: map[string]snapshots.Scoreboard{
		date: {Date: date, Matches: []matches.Match{{ID: "m-1"}}},
	}}

	board, err := s.LoadScoreboard(date)
	if err != nil || board.Date != date {
		t.Fatalf("expected loaded board, got %v err %v", board, err)
	}
	if _, err := s.LoadScoreboard("2024-01-02"); !errors.Is(err, snapshots.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if dates, err := s.Dates(); err != nil || len(dates) != 1 {
		t.Fatalf("expected one date, got %v %v", dates, err)
	}
}

func TestStubScoreboardWriter(t *testing.T) {
	w := &StubScoreboardWriter{}
	if err := w.WriteScoreboard(snapshots.Scoreboard{Date: "2024-01-01"}); err != nil {
		t.Fatalf("expected write success, got %v", err)
	}
	if _, ok := w.Written("2024-01-01"); !ok {
		t.Fatalf("expected board recorded")
	}

	w.Err = errors.New("write error")
	if err := w.WriteScoreboard(snapshots.Scoreboard{Date: "2024-01-02"}); err == nil {
		t.Fatalf("expected write error")
	}
	if _, ok := w.Written("2024-01-02"); ok {
		t.Fatalf("failed write must not be recorded")
	}
}
