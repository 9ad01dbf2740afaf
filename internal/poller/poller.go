// Package poller refreshes scoreboard snapshots from the match store on an interval.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/metrics"
	"github.com/preston-bernstein/live-scoring-service/internal/snapshots"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
	"github.com/preston-bernstein/live-scoring-service/internal/timeutil"
)

const (
	defaultInterval      = 30 * time.Second
	unreadyAfterFailures = 3

	// today and yesterday, so matches finishing after midnight land in their own day.
	refreshDays = 2
)

// Lister reads matches from the store.
type Lister interface {
	List(ctx context.Context, f store.ListFilter) ([]matches.Match, error)
}

// ScoreboardWriter persists one day's scoreboard.
type ScoreboardWriter interface {
	WriteScoreboard(board snapshots.Scoreboard) error
}

// Poller lists matches on an interval and writes the recent days' scoreboards.
type Poller struct {
	lister   Lister
	writer   ScoreboardWriter
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether a refresh has succeeded and the loop is not failing repeatedly.
func (s Status) IsReady() bool {
	return !s.LastSuccess.IsZero() && s.ConsecutiveFailures < unreadyAfterFailures
}

// New constructs a Poller. A non-positive interval falls back to 30s.
func New(lister Lister, writer ScoreboardWriter, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		lister:   lister,
		writer:   writer,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start refreshes immediately, then on every tick until ctx ends or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.ticker = time.NewTicker(p.interval)
	go p.run(ctx, p.ticker.C)
}

func (p *Poller) run(ctx context.Context, tick <-chan time.Time) {
	logging.Info(p.logger, "snapshot poller started", logging.FieldDurationMS, p.interval.Milliseconds())
	defer logging.Info(p.logger, "snapshot poller stopped")
	defer p.stopTicker()

	p.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-tick:
			p.refresh(ctx)
		}
	}
}

// Stop halts the loop. It is safe to call more than once.
func (p *Poller) Stop(context.Context) error {
	p.stopOnce.Do(func() { close(p.done) })
	return nil
}

func (p *Poller) refresh(ctx context.Context) {
	start := time.Now()
	p.update(func(st *Status) { st.LastAttempt = start })

	list, err := p.lister.List(ctx, store.ListFilter{})
	if err != nil {
		p.metrics.RecordSnapshotCycle(time.Since(start), err)
		logging.Error(p.logger, "snapshot poller list failed", err, logging.FieldDurationMS, time.Since(start).Milliseconds())
		p.update(func(st *Status) {
			st.ConsecutiveFailures++
			st.LastError = err.Error()
		})
		return
	}

	writeErr := p.writeRecent(list)
	p.metrics.RecordSnapshotCycle(time.Since(start), writeErr)
	p.update(func(st *Status) {
		st.ConsecutiveFailures = 0
		st.LastError = ""
		st.LastSuccess = start
	})
	logging.Info(p.logger, "scoreboards refreshed",
		logging.FieldCount, len(list),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

// writeRecent writes every recent day and returns the last write error.
func (p *Poller) writeRecent(list []matches.Match) error {
	if p.writer == nil {
		return nil
	}
	var last error
	for _, date := range timeutil.RecentDates(p.now(), refreshDays) {
		if err := p.writer.WriteScoreboard(snapshots.ForDate(list, date)); err != nil {
			last = err
			logging.Error(p.logger, "scoreboard write failed", err, "date", date)
		}
	}
	return last
}

func (p *Poller) stopTicker() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) update(fn func(*Status)) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	fn(&p.status)
}

// Status returns a copy of the loop's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
