// Package teststubs holds doubles for the snapshot poller and scoreboard readers.
package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/snapshots"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
)

// StubLister is a test double for poller.Lister.
type StubLister struct {
	mu      sync.Mutex
	matches []matches.Match
	err     error

	Calls  atomic.Int32
	Notify chan struct{}
}

// Set replaces the matches and error returned by List.
func (s *StubLister) Set(list []matches.Match, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = list
	s.err = err
}

// List returns the configured matches while tracking calls. Notify is closed on the first call.
func (s *StubLister) List(ctx context.Context, f store.ListFilter) ([]matches.Match, error) {
	_ = ctx
	_ = f
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches, s.err
}

// StubScoreboardWriter is a test double for poller.ScoreboardWriter.
type StubScoreboardWriter struct {
	mu      sync.Mutex
	written map[string]snapshots.Scoreboard
	Err     error
}

// WriteScoreboard records the board by date.
func (w *StubScoreboardWriter) WriteScoreboard(board snapshots.Scoreboard) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	if w.written == nil {
		w.written = make(map[string]snapshots.Scoreboard)
	}
	w.written[board.Date] = board
	return nil
}

// Written returns the last board written for date.
func (w *StubScoreboardWriter) Written(date string) (snapshots.Scoreboard, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	board, ok := w.written[date]
	return board, ok
}

// StubScoreboardStore is a test double for the HTTP scoreboard reader.
type StubScoreboardStore struct {
	Boards  map[string]snapshots.Scoreboard
	LoadErr error
	DateErr error
}

// LoadScoreboard returns the board for date, or snapshots.ErrNoSnapshot.
func (s *StubScoreboardStore) LoadScoreboard(date string) (snapshots.Scoreboard, error) {
	if s.LoadErr != nil {
		return snapshots.Scoreboard{}, s.LoadErr
	}
	board, ok := s.Boards[date]
	if !ok {
		return snapshots.Scoreboard{}, snapshots.ErrNoSnapshot
	}
	return board, nil
}

// Dates lists the configured boards' dates in no particular order.
func (s *StubScoreboardStore) Dates() ([]string, error) {
	if s.DateErr != nil {
		return nil, s.DateErr
	}
	dates := make([]string, 0, len(s.Boards))
	for date := range s.Boards {
		dates = append(dates, date)
	}
	return dates, nil
}
