package scoring

import (
	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

// SetEngine scores best-of-N set sports and detects completion when a side
// reaches the majority of sets.
type SetEngine struct{}

var setActions = map[matches.Action]struct{}{
	matches.ActionStartSet:     {},
	matches.ActionSetPoints:    {},
	matches.ActionScore:        {},
	matches.ActionCurrentSet:   {},
	matches.ActionEndSet:       {},
	matches.ActionSetResult:    {},
	matches.ActionToggleServer: {},
	matches.ActionSetScores:    {},
}

func (e *SetEngine) Model() matches.Model { return matches.ModelSet }

func (e *SetEngine) Supports(action matches.Action) bool {
	_, ok := setActions[action]
	return ok
}

func (e *SetEngine) Apply(m *matches.Match, ev matches.Event, action matches.Action) error {
	if m.Sets == nil {
		return matches.Invalid("match %s has no set state", m.ID)
	}
	switch action {
	case matches.ActionStartSet:
		return e.StartSet(m, ev.SetNumber)
	case matches.ActionSetPoints, matches.ActionScore:
		side, err := requireSide(ev.Team)
		if err != nil {
			return err
		}
		if ev.Points == nil {
			return matches.Invalid("points is required")
		}
		return e.UpdateSetPoints(m, side, *ev.Points)
	case matches.ActionCurrentSet:
		if ev.CurrentSetScore == nil {
			return matches.Invalid("currentSetScore is required")
		}
		return e.SetCurrentScore(m, *ev.CurrentSetScore)
	case matches.ActionEndSet:
		winner, err := optionalWinner(m, ev.Winner)
		if err != nil {
			return err
		}
		return e.EndSet(m, winner)
	case matches.ActionSetResult:
		return e.applySetResult(m, ev)
	case matches.ActionToggleServer:
		return e.ToggleServer(m)
	case matches.ActionSetScores:
		if err := checkSetTotals(m, ev); err != nil {
			return err
		}
		return setScores(m, ev)
	}
	return matches.Errorf(matches.KindUnknownAction, "unknown set action %q", action)
}

// checkSetTotals keeps direct set-count edits within what a best-of-maxSets
// match can reach: at most maxSets sets and a single side at the majority.
func checkSetTotals(m *matches.Match, ev matches.Event) error {
	if m.Sets == nil {
		return nil
	}
	a, b := m.ScoreA, m.ScoreB
	if ev.ScoreA != nil {
		a = *ev.ScoreA
	}
	if ev.ScoreB != nil {
		b = *ev.ScoreB
	}
	if a+b > m.Sets.MaxSets {
		return matches.Invalid("sets won %d-%d exceed best of %d", a, b, m.Sets.MaxSets)
	}
	if need := m.Sets.SetsToWin(); a >= need && b >= need {
		return matches.Invalid("both teams cannot win %d sets in a best of %d", need, m.Sets.MaxSets)
	}
	return nil
}

func optionalWinner(m *matches.Match, raw *string) (*matches.Side, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	side, err := resolveWinner(m, *raw)
	if err != nil {
		return nil, err
	}
	return &side, nil
}

// StartSet opens a new set. The number defaults to one past the last completed set.
func (e *SetEngine) StartSet(m *matches.Match, setNumber *int) error {
	s := m.Sets
	if s.Current != nil {
		return matches.Invalid("set %d is already in progress", s.Current.SetNumber)
	}
	next := s.NextSetNumber()
	if setNumber != nil {
		if *setNumber < next {
			return matches.Invalid("set %d has already been played", *setNumber)
		}
		next = *setNumber
	}
	e.open(m, next)
	return nil
}

func (e *SetEngine) open(m *matches.Match, number int) {
	m.Sets.Current = &matches.SetScore{SetNumber: number}
	if m.Sets.CurrentServer == "" {
		m.Sets.CurrentServer = matches.SideA
	}
	m.MarkLive()
}

// UpdateSetPoints adjusts the running points, clamped at zero. The first point opens a set.
func (e *SetEngine) UpdateSetPoints(m *matches.Match, side matches.Side, delta int) error {
	if delta == 0 {
		return matches.Invalid("points must be non-zero")
	}
	if m.Sets.Current == nil {
		e.open(m, m.Sets.NextSetNumber())
	}
	cur := m.Sets.Current
	cur.SetPoints(side, max(0, cur.Points(side)+delta))
	m.MarkLive()
	return nil
}

// SetCurrentScore overwrites both sides' running points.
func (e *SetEngine) SetCurrentScore(m *matches.Match, pts matches.PointsPair) error {
	if pts.PointsA < 0 || pts.PointsB < 0 {
		return matches.Invalid("set points must not be negative")
	}
	if m.Sets.Current == nil {
		e.open(m, m.Sets.NextSetNumber())
	}
	m.Sets.Current.PointsA = pts.PointsA
	m.Sets.Current.PointsB = pts.PointsB
	return nil
}

// EndSet records the active set and credits the winner with a set.
func (e *SetEngine) EndSet(m *matches.Match, winner *matches.Side) error {
	cur := m.Sets.Current
	if cur == nil {
		return matches.Errorf(matches.KindNoActiveSet, "no set is in progress")
	}
	var side matches.Side
	switch {
	case winner != nil:
		side = *winner
	case cur.PointsA > cur.PointsB:
		side = matches.SideA
	case cur.PointsB > cur.PointsA:
		side = matches.SideB
	default:
		return matches.Invalid("set %d is tied %d-%d; a winner is required", cur.SetNumber, cur.PointsA, cur.PointsB)
	}

	m.Sets.Details = append(m.Sets.Details, matches.SetResult{
		SetNumber: cur.SetNumber,
		PointsA:   cur.PointsA,
		PointsB:   cur.PointsB,
		Winner:    side,
	})
	m.SetScore(side, m.Score(side)+1)
	m.Sets.Current = nil
	m.MarkLive()
	return nil
}

// applySetResult is the legacy path: close the set from the flag's final
// points and open the next one while the match is still running.
func (e *SetEngine) applySetResult(m *matches.Match, ev matches.Event) error {
	winner, err := optionalWinner(m, ev.Winner)
	if err != nil {
		return err
	}
	if (ev.FinalPointsA != nil && *ev.FinalPointsA < 0) || (ev.FinalPointsB != nil && *ev.FinalPointsB < 0) {
		return matches.Invalid("final points must not be negative")
	}
	if m.Sets.Current == nil {
		if ev.FinalPointsA == nil && ev.FinalPointsB == nil {
			return matches.Errorf(matches.KindNoActiveSet, "no set is in progress")
		}
		e.open(m, m.Sets.NextSetNumber())
	}
	cur := m.Sets.Current
	if ev.FinalPointsA != nil {
		cur.PointsA = *ev.FinalPointsA
	}
	if ev.FinalPointsB != nil {
		cur.PointsB = *ev.FinalPointsB
	}
	number := cur.SetNumber
	if err := e.EndSet(m, winner); err != nil {
		return err
	}
	e.CheckCompletion(m)
	if !m.IsCompleted() {
		e.open(m, number+1)
	}
	return nil
}

// ToggleServer hands the serve to the other side.
func (e *SetEngine) ToggleServer(m *matches.Match) error {
	if m.Sets.CurrentServer == "" {
		m.Sets.CurrentServer = matches.SideA
	}
	m.Sets.CurrentServer = m.Sets.CurrentServer.Other()
	return nil
}

// Undo takes one point back from a side in the active set, clamped at zero.
func (e *SetEngine) Undo(m *matches.Match, side matches.Side) error {
	if m.Sets == nil || m.Sets.Current == nil {
		return matches.Errorf(matches.KindNoActiveSet, "no set is in progress")
	}
	cur := m.Sets.Current
	if cur.Points(side) == 0 {
		return matches.Errorf(matches.KindNothingToUndo, "team %s has no points in set %d", side, cur.SetNumber)
	}
	cur.SetPoints(side, cur.Points(side)-1)
	return nil
}

// CheckCompletion completes the match once a side holds the majority of sets.
// Running it on a completed match changes nothing.
func (e *SetEngine) CheckCompletion(m *matches.Match) {
	if m.Sets == nil || m.IsCompleted() {
		return
	}
	need := m.Sets.SetsToWin()
	if m.ScoreA < need && m.ScoreB < need {
		return
	}
	m.Complete(inferWinner(m))
}
