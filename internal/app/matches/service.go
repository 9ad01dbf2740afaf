package matches

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/metrics"
	"github.com/preston-bernstein/live-scoring-service/internal/scoring"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
)

// Notification names delivered to subscribers.
const (
	EventMatchCreated     = "matchCreated"
	EventMatchUpdate      = "matchUpdate"
	EventLeaderboardReset = "leaderboardReset"
	EventPointsAwarded    = "pointsAwarded"
)

const (
	defaultBackoff = 25 * time.Millisecond
	defaultTimeout = 5 * time.Second
)

// Store defines the contract for persisting and retrieving matches.
type Store interface {
	Create(ctx context.Context, m matches.Match) (matches.Match, error)
	Load(ctx context.Context, id string) (matches.Match, error)
	Save(ctx context.Context, m matches.Match) (matches.Match, error)
	List(ctx context.Context, f store.ListFilter) ([]matches.Match, error)
}

// Emitter delivers fire-and-forget notifications. Failures never fail a mutation.
type Emitter interface {
	Emit(ctx context.Context, event, matchID string, payload any) error
}

// Options tunes a Service. MaxRetries of zero disables conflict retries;
// other zero values fall back to defaults.
type Options struct {
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
	Emitter      Emitter
	Processor    *scoring.Processor
	MaxRetries   int
	RetryBackoff time.Duration
	Timeout      time.Duration
	Clock        func() time.Time
	NewID        func() string
}

type backoffFunc func(attempt int) time.Duration

// Service runs the load, apply, save and emit cycle for scoring events.
type Service struct {
	store      Store
	processor  *scoring.Processor
	emitter    Emitter
	logger     *slog.Logger
	metrics    *metrics.Recorder
	locks      *keyedMutex
	maxRetries int
	backoffFn  backoffFunc
	timeout    time.Duration
	now        func() time.Time
	newID      func() string
}

// NewService constructs a Service over the provided Store.
func NewService(st Store, opts Options) *Service {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = scoring.NewID
	}
	if opts.Processor == nil {
		opts.Processor = scoring.NewProcessor(scoring.WithClock(opts.Clock))
	}
	return &Service{
		store:      st,
		processor:  opts.Processor,
		emitter:    opts.Emitter,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		locks:      newKeyedMutex(),
		maxRetries: opts.MaxRetries,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		timeout: opts.Timeout,
		now:     opts.Clock,
		newID:   opts.NewID,
	}
}

// Create builds and persists a SCHEDULED match, then announces it.
func (s *Service) Create(ctx context.Context, p matches.NewMatchParams) (matches.Match, error) {
	m, err := matches.New(s.newID(), p, s.now())
	if err != nil {
		return matches.Match{}, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	created, err := s.store.Create(opCtx, m)
	if err != nil {
		return matches.Match{}, storeError("create", err)
	}

	logging.Info(s.log(ctx), "match created",
		logging.FieldMatchID, created.ID,
		logging.FieldSport, string(created.Sport),
	)
	s.emit(ctx, EventMatchCreated, created)
	return created, nil
}

// Get returns a single match.
func (s *Service) Get(ctx context.Context, id string) (matches.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return matches.Match{}, matches.Invalid("match id is required")
	}
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	m, err := s.store.Load(opCtx, id)
	if err != nil {
		return matches.Match{}, storeError("load", err)
	}
	return m, nil
}

// List returns matches passing the filter.
func (s *Service) List(ctx context.Context, f store.ListFilter) ([]matches.Match, error) {
	if f.Sport != "" {
		sport, ok := matches.ParseSport(string(f.Sport))
		if !ok {
			return nil, matches.Invalid("unknown sport %q", f.Sport)
		}
		f.Sport = sport
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, matches.Invalid("unknown status %q", f.Status)
	}
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	list, err := s.store.List(opCtx, f)
	if err != nil {
		return nil, storeError("list", err)
	}
	return list, nil
}

// Apply validates and applies one event under the match's lock. Version
// conflicts restart the whole cycle from a fresh load.
func (s *Service) Apply(ctx context.Context, ev matches.Event) (matches.Match, error) {
	id := strings.TrimSpace(ev.MatchID)
	if id == "" {
		return matches.Match{}, matches.Invalid("matchId is required")
	}
	ev.MatchID = id

	unlock := s.locks.Lock(id)
	defer unlock()

	start := s.now()
	var (
		before, saved matches.Match
		action        matches.Action
		err           error
	)
	for attempt := 1; ; attempt++ {
		before, saved, action, err = s.applyOnce(ctx, ev)
		if err == nil || !errors.Is(err, matches.ErrConflict) || attempt > s.maxRetries {
			break
		}

		s.metrics.RecordConflict(string(before.Sport))
		logging.Warn(s.log(ctx), "version conflict, retrying",
			logging.FieldMatchID, id,
			logging.FieldAttempt, attempt,
			"max_retries", s.maxRetries,
		)

		select {
		case <-ctx.Done():
			err = storeError("apply", ctx.Err())
			s.record(ctx, before, ev, action, start, err)
			return matches.Match{}, err
		case <-time.After(s.backoffFn(attempt)):
		}
	}

	s.record(ctx, before, ev, action, start, err)
	if err != nil {
		return matches.Match{}, err
	}

	s.emit(ctx, EventMatchUpdate, saved)
	if !before.IsCompleted() && saved.IsCompleted() && saved.Winner != nil {
		s.emitPayload(ctx, EventPointsAwarded, saved.ID, map[string]any{
			"matchId": saved.ID,
			"sport":   saved.Sport,
			"winner":  saved.Winner,
		})
	}
	return saved, nil
}

func (s *Service) applyOnce(ctx context.Context, ev matches.Event) (matches.Match, matches.Match, matches.Action, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	current, err := s.store.Load(loadCtx, ev.MatchID)
	cancel()
	if err != nil {
		return matches.Match{}, matches.Match{}, "", storeError("load", err)
	}

	next, action, err := s.processor.Apply(current, ev)
	if err != nil {
		return current, matches.Match{}, action, err
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	saved, err := s.store.Save(saveCtx, next)
	cancel()
	if err != nil {
		return current, matches.Match{}, action, storeError("save", err)
	}
	return current, saved, action, nil
}

func (s *Service) record(ctx context.Context, m matches.Match, ev matches.Event, action matches.Action, start time.Time, err error) {
	if action == "" {
		action = ev.Action
	}
	kind := ""
	if err != nil {
		kind = string(matches.KindOf(err))
	}
	s.metrics.RecordScoringEvent(string(m.Sport), string(action), kind, s.now().Sub(start))

	args := []any{
		logging.FieldMatchID, ev.MatchID,
		logging.FieldSport, string(m.Sport),
		logging.FieldAction, string(action),
	}
	switch {
	case err == nil:
		logging.Info(s.log(ctx), "event applied", args...)
	case matches.KindOf(err) == matches.KindPersistence:
		logging.Error(s.log(ctx), "event failed", err, append(args, logging.FieldKind, kind)...)
	default:
		logging.Warn(s.log(ctx), "event rejected", append(args, logging.FieldKind, kind, "error", err.Error())...)
	}
}

func (s *Service) emit(ctx context.Context, event string, m matches.Match) {
	s.emitPayload(ctx, event, m.ID, m)
}

func (s *Service) emitPayload(ctx context.Context, event, matchID string, payload any) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(ctx, event, matchID, payload); err != nil {
		logging.Warn(s.log(ctx), "notification dropped",
			logging.FieldMatchID, matchID,
			"event", event,
			"error", err,
		)
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// storeError keeps domain failures intact and wraps everything else as a persistence failure.
func storeError(op string, err error) error {
	if _, ok := matches.AsError(err); ok {
		return err
	}
	return matches.PersistenceFailure(op, err)
}
