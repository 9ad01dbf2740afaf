package scoring

import (
	"strings"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

// TallyEngine scores goal and point sports. Undo is lossy: it subtracts the
// last increment for a side and clamps at zero.
type TallyEngine struct {
	model matches.Model
	now   func() time.Time
	newID func() string
}

var tallyActions = map[matches.Action]struct{}{
	matches.ActionScore:      {},
	matches.ActionSetScores:  {},
	matches.ActionFoul:       {},
	matches.ActionRemoveFoul: {},
}

func (e *TallyEngine) Model() matches.Model { return e.model }

func (e *TallyEngine) Supports(action matches.Action) bool {
	_, ok := tallyActions[action]
	return ok
}

func (e *TallyEngine) Apply(m *matches.Match, ev matches.Event, action matches.Action) error {
	switch action {
	case matches.ActionScore:
		side, err := requireSide(ev.Team)
		if err != nil {
			return err
		}
		if ev.Points == nil {
			return matches.Invalid("points is required")
		}
		return e.IncrementScore(m, side, *ev.Points)
	case matches.ActionSetScores:
		return setScores(m, ev)
	case matches.ActionFoul:
		side, err := requireSide(ev.Team)
		if err != nil {
			return err
		}
		return e.RecordFoul(m, side, foulFromEvent(ev))
	case matches.ActionRemoveFoul:
		if ev.FoulID == nil {
			return matches.Invalid("foulId is required")
		}
		return e.RemoveFoul(m, *ev.FoulID)
	}
	return matches.Errorf(matches.KindUnknownAction, "unknown %s action %q", e.model, action)
}

// IncrementScore adds a positive delta to a side and remembers it for undo.
func (e *TallyEngine) IncrementScore(m *matches.Match, side matches.Side, delta int) error {
	if delta <= 0 {
		return matches.Invalid("points must be a positive integer, got %d", delta)
	}
	m.SetScore(side, m.Score(side)+delta)
	if side == matches.SideB {
		m.LastDelta.B = delta
	} else {
		m.LastDelta.A = delta
	}
	m.MarkLive()
	return nil
}

// Undo subtracts the last increment for a side, clamped at zero.
func (e *TallyEngine) Undo(m *matches.Match, side matches.Side) error {
	last := m.LastDelta.A
	if side == matches.SideB {
		last = m.LastDelta.B
	}
	if last <= 0 {
		return matches.Errorf(matches.KindNothingToUndo, "no score to undo for team %s", side)
	}
	m.SetScore(side, max(0, m.Score(side)-last))
	if side == matches.SideB {
		m.LastDelta.B = 0
	} else {
		m.LastDelta.A = 0
	}
	return nil
}

func foulFromEvent(ev matches.Event) matches.Foul {
	f := matches.Foul{JerseyNumber: ev.JerseyNumber}
	if ev.FoulType != nil {
		f.Type = *ev.FoulType
	}
	if ev.PlayerName != nil {
		f.PlayerName = strings.TrimSpace(*ev.PlayerName)
	}
	if ev.GameTime != nil {
		f.GameTime = *ev.GameTime
	}
	if ev.Reason != nil {
		f.Reason = *ev.Reason
	}
	return f
}

// RecordFoul appends a foul; card tallies are derived from the list.
func (e *TallyEngine) RecordFoul(m *matches.Match, side matches.Side, f matches.Foul) error {
	if !f.Type.Valid() {
		return matches.Invalid("unknown foul type %q", f.Type)
	}
	if f.PlayerName == "" {
		return matches.Invalid("playerName is required")
	}
	if f.JerseyNumber != nil && *f.JerseyNumber < 0 {
		return matches.Invalid("jerseyNumber must not be negative")
	}
	f.Team = side
	f.ID = e.newID()
	f.Timestamp = e.now().UTC()
	m.Fouls = append(m.Fouls, f)
	return nil
}

// RemoveFoul deletes a single foul by id.
func (e *TallyEngine) RemoveFoul(m *matches.Match, id string) error {
	id = strings.TrimSpace(id)
	for i, f := range m.Fouls {
		if f.ID == id {
			m.Fouls = append(m.Fouls[:i], m.Fouls[i+1:]...)
			return nil
		}
	}
	return matches.Invalid("foul %q not found", id)
}

// CheckCompletion is a no-op: goal and point sports complete on an explicit status change.
func (e *TallyEngine) CheckCompletion(m *matches.Match) {}

// setScores is the legacy direct-field path shared by tally and set sports.
func setScores(m *matches.Match, ev matches.Event) error {
	if ev.ScoreA == nil && ev.ScoreB == nil {
		return matches.Invalid("scoreA or scoreB is required")
	}
	if (ev.ScoreA != nil && *ev.ScoreA < 0) || (ev.ScoreB != nil && *ev.ScoreB < 0) {
		return matches.Invalid("scores must not be negative")
	}
	if ev.ScoreA != nil {
		m.ScoreA = *ev.ScoreA
	}
	if ev.ScoreB != nil {
		m.ScoreB = *ev.ScoreB
	}
	m.MarkLive()
	return nil
}
