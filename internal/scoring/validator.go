package scoring

import (
	"strings"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

var commonActions = map[matches.Action]struct{}{
	matches.ActionStatus:        {},
	matches.ActionToss:          {},
	matches.ActionAdvancePeriod: {},
	matches.ActionRegressPeriod: {},
	matches.ActionSetPeriod:     {},
	matches.ActionUndo:          {},
}

// Validate checks an event against a match without mutating either. A nil
// match means the id did not resolve.
func Validate(m *matches.Match, ev matches.Event, engine SportEngine) (matches.Action, error) {
	id := strings.TrimSpace(ev.MatchID)
	if id == "" {
		return "", matches.Invalid("matchId is required")
	}
	if m == nil {
		return "", matches.NotFound(id)
	}
	if id != m.ID {
		return "", matches.Invalid("event matchId %q does not match %q", id, m.ID)
	}

	action, err := ev.ResolveAction()
	if err != nil {
		return action, err
	}
	if m.IsCompleted() {
		return action, matches.Errorf(matches.KindMatchCompleted, "match %s is completed", m.ID)
	}
	if _, ok := commonActions[action]; ok {
		return action, nil
	}
	if engine == nil || !engine.Supports(action) {
		return action, matches.Invalid("action %q does not apply to %s", action, m.Sport)
	}
	return action, nil
}

func requireSide(raw string) (matches.Side, error) {
	side, ok := matches.ParseSide(strings.TrimSpace(raw))
	if !ok {
		return "", matches.Invalid("team must be A or B, got %q", raw)
	}
	return side, nil
}

// resolveWinner accepts a side letter or one of the two team ids.
func resolveWinner(m *matches.Match, raw string) (matches.Side, error) {
	raw = strings.TrimSpace(raw)
	if side, ok := matches.ParseSide(raw); ok {
		return side, nil
	}
	switch raw {
	case m.TeamA.ID:
		return matches.SideA, nil
	case m.TeamB.ID:
		return matches.SideB, nil
	}
	return "", matches.Invalid("winner %q is neither side of the match", raw)
}
