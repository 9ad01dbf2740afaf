package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/snapshots"
	"github.com/preston-bernstein/live-scoring-service/internal/teststubs"
	"github.com/preston-bernstein/live-scoring-service/internal/testutil"
)

var pollNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func sampleMatches() []matches.Match {
	return []matches.Match{
		testutil.SampleMatchAt("today-1", matches.SportFootball, pollNow.Add(-time.Hour)),
		testutil.SampleMatchAt("yesterday-1", matches.SportBadminton, pollNow.AddDate(0, 0, -1)),
		testutil.SampleMatchAt("old-1", matches.SportHockey, pollNow.AddDate(0, 0, -7)),
	}
}

func TestPollerWritesRecentScoreboards(t *testing.T) {
	lister := &teststubs.StubLister{Notify: make(chan struct{})}
	lister.Set(sampleMatches(), nil)
	writer := &teststubs.StubScoreboardWriter{}

	p := New(lister, writer, nil, nil, 10*time.Millisecond)
	p.now = func() time.Time { return pollNow }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)

	select {
	case <-lister.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for lister.Calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	_ = p.Stop(context.Background())

	today, ok := writer.Written("2024-01-15")
	if !ok || len(today.Matches) != 1 || today.Matches[0].ID != "today-1" {
		t.Fatalf("unexpected scoreboard for today: %+v", today)
	}
	yesterday, ok := writer.Written("2024-01-14")
	if !ok || len(yesterday.Matches) != 1 || yesterday.Matches[0].ID != "yesterday-1" {
		t.Fatalf("unexpected scoreboard for yesterday: %+v", yesterday)
	}
	if _, ok := writer.Written("2024-01-08"); ok {
		t.Fatalf("old days should not be refreshed")
	}
	if lister.Calls.Load() < 2 {
		t.Fatalf("expected the ticker to trigger another refresh")
	}
}

func TestPollerWritesToDisk(t *testing.T) {
	lister := &teststubs.StubLister{}
	lister.Set(sampleMatches(), nil)
	w := snapshots.NewWriter(t.TempDir(), 30)

	p := New(lister, w, nil, nil, time.Hour)
	p.now = func() time.Time { return pollNow }
	p.refresh(context.Background())

	board, err := snapshots.NewFSStore(w.BasePath()).LoadScoreboard("2024-01-15")
	if err != nil {
		t.Fatalf("expected scoreboard on disk: %v", err)
	}
	if len(board.Matches) != 1 {
		t.Fatalf("unexpected board %+v", board)
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	lister := &teststubs.StubLister{Notify: make(chan struct{})}
	p := New(lister, &teststubs.StubScoreboardWriter{}, nil, nil, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-lister.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	cancel()
	_ = p.Stop(context.Background())
	time.Sleep(10 * time.Millisecond)

	callsAfterStop := lister.Calls.Load()
	time.Sleep(20 * time.Millisecond)
	if lister.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional refreshes after stop; before=%d after=%d", callsAfterStop, lister.Calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubLister{}, &teststubs.StubScoreboardWriter{}, nil, nil, time.Hour)
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubLister{}, &teststubs.StubScoreboardWriter{}, nil, nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerDefaultsInterval(t *testing.T) {
	p := New(&teststubs.StubLister{}, &teststubs.StubScoreboardWriter{}, nil, nil, 0)
	if p.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, p.interval)
	}
}

func TestPollerStartReturnsWhenAlreadyStarted(t *testing.T) {
	p := New(&teststubs.StubLister{}, &teststubs.StubScoreboardWriter{}, nil, nil, time.Hour)
	p.started = true
	p.Start(context.Background())
	if p.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	lister := &teststubs.StubLister{}
	lister.Set(nil, errors.New("boom"))
	p := New(lister, &teststubs.StubScoreboardWriter{}, nil, nil, time.Millisecond)
	p.now = func() time.Time { return pollNow }

	p.refresh(context.Background())
	status := p.Status()
	if status.ConsecutiveFailures != 1 || status.LastError == "" {
		t.Fatalf("expected one recorded failure, got %+v", status)
	}
	if !status.LastSuccess.IsZero() || status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	lister.Set(nil, nil)
	p.refresh(context.Background())
	status = p.Status()
	if status.ConsecutiveFailures != 0 || status.LastSuccess.IsZero() {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestStatusNotReadyAfterRepeatedFailures(t *testing.T) {
	s := Status{LastSuccess: pollNow, ConsecutiveFailures: 3}
	if s.IsReady() {
		t.Fatal("three failures in a row should mark the poller unready")
	}
}

func TestPollerWriteErrorLogsButContinues(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	lister := &teststubs.StubLister{}
	lister.Set(sampleMatches(), nil)
	writer := &teststubs.StubScoreboardWriter{Err: errors.New("write failed")}

	p := New(lister, writer, logger, nil, time.Minute)
	p.now = func() time.Time { return pollNow }
	p.refresh(context.Background())

	if p.Status().ConsecutiveFailures != 0 {
		t.Fatalf("expected success despite write error")
	}
	if !strings.Contains(buf.String(), "scoreboard write failed") {
		t.Fatalf("expected write failure to be logged, got %q", buf.String())
	}
}

func TestPollerNilWriterDoesNotPanic(t *testing.T) {
	lister := &teststubs.StubLister{}
	lister.Set(sampleMatches(), nil)
	p := New(lister, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, time.Minute)
	p.refresh(context.Background())
}

func BenchmarkPollerRefresh(b *testing.B) {
	lister := &teststubs.StubLister{}
	lister.Set(sampleMatches(), nil)
	p := New(lister, &teststubs.StubScoreboardWriter{}, nil, nil, time.Second)
	p.now = func() time.Time { return pollNow }
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.refresh(ctx)
	}
}
