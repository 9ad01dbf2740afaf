// Package scoring holds the per-sport match state machines.
//
// Every operation runs against a clone of the caller's match: a failure leaves
// the input untouched, a success returns the mutated copy after the completion
// detector has run.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

// SportEngine owns the mutation rules for one scoring model.
type SportEngine interface {
	Model() matches.Model
	Supports(action matches.Action) bool
	Apply(m *matches.Match, ev matches.Event, action matches.Action) error
	Undo(m *matches.Match, side matches.Side) error
	CheckCompletion(m *matches.Match)
}

// Processor validates an event and routes it to the engine for the match's sport.
type Processor struct {
	engines map[matches.Model]SportEngine
	now     func() time.Time
	newID   func() string
}

// Option customizes a Processor.
type Option func(*Processor)

// WithClock overrides the time source used for foul timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator overrides foul id generation.
func WithIDGenerator(fn func() string) Option {
	return func(p *Processor) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// NewProcessor wires the four sport engines.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.engines = map[matches.Model]SportEngine{
		matches.ModelCricket: &CricketEngine{},
		matches.ModelGoal:    &TallyEngine{model: matches.ModelGoal, now: p.now, newID: p.newID},
		matches.ModelPoint:   &TallyEngine{model: matches.ModelPoint, now: p.now, newID: p.newID},
		matches.ModelSet:     &SetEngine{},
	}
	return p
}

// NewID returns a time-ordered UUID string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Engine returns the engine registered for a sport.
func (p *Processor) Engine(sport matches.Sport) (SportEngine, bool) {
	e, ok := p.engines[sport.Model()]
	return e, ok
}

// Apply validates the event against the match and returns the mutated copy.
func (p *Processor) Apply(m matches.Match, ev matches.Event) (matches.Match, matches.Action, error) {
	engine, ok := p.Engine(m.Sport)
	if !ok {
		return m, "", matches.Invalid("no scoring engine for sport %q", m.Sport)
	}
	action, err := Validate(&m, ev, engine)
	if err != nil {
		return m, action, err
	}

	next := m.Clone()
	if err := p.dispatch(&next, ev, action, engine); err != nil {
		return m, action, err
	}
	engine.CheckCompletion(&next)
	next.UpdatedAt = p.now().UTC()
	return next, action, nil
}

// CheckCompletion runs the completion detector for the match's sport.
func (p *Processor) CheckCompletion(m *matches.Match) {
	if engine, ok := p.Engine(m.Sport); ok {
		engine.CheckCompletion(m)
	}
}

func (p *Processor) dispatch(m *matches.Match, ev matches.Event, action matches.Action, engine SportEngine) error {
	switch action {
	case matches.ActionStatus:
		return applyStatus(m, ev)
	case matches.ActionToss:
		return applyToss(m, ev)
	case matches.ActionAdvancePeriod:
		return shiftPeriod(m, 1)
	case matches.ActionRegressPeriod:
		return shiftPeriod(m, -1)
	case matches.ActionSetPeriod:
		return setPeriod(m, ev)
	case matches.ActionUndo:
		side, err := requireSide(ev.Team)
		if err != nil {
			return err
		}
		return engine.Undo(m, side)
	}
	return engine.Apply(m, ev, action)
}
