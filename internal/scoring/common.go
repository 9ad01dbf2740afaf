package scoring

import (
	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

func applyStatus(m *matches.Match, ev matches.Event) error {
	if ev.Status == nil || !ev.Status.Valid() {
		return matches.Invalid("status must be one of SCHEDULED, LIVE, COMPLETED")
	}
	target := *ev.Status
	if !m.Status.CanTransitionTo(target) {
		return matches.Invalid("status cannot move from %s to %s", m.Status, target)
	}

	switch target {
	case matches.StatusLive:
		m.MarkLive()
	case matches.StatusCompleted:
		var winner *matches.Side
		if ev.Winner != nil && *ev.Winner != "" {
			side, err := resolveWinner(m, *ev.Winner)
			if err != nil {
				return err
			}
			winner = &side
		} else {
			winner = inferWinner(m)
		}
		m.Complete(winner)
	}
	return nil
}

// inferWinner picks the leading side, or nil on a tie.
func inferWinner(m *matches.Match) *matches.Side {
	a, b := m.ScoreA, m.ScoreB
	if m.Cricket != nil {
		a, b = m.Cricket.RunsFor(matches.SideA), m.Cricket.RunsFor(matches.SideB)
	}
	var side matches.Side
	switch {
	case a > b:
		side = matches.SideA
	case b > a:
		side = matches.SideB
	default:
		return nil
	}
	return &side
}

func applyToss(m *matches.Match, ev matches.Event) error {
	if m.Toss != nil {
		return matches.Invalid("toss already recorded")
	}
	if ev.TossWinner == nil || ev.TossDecision == nil {
		return matches.Invalid("tossWinner and tossDecision are required")
	}
	winner, err := resolveWinner(m, *ev.TossWinner)
	if err != nil {
		return err
	}
	decision := *ev.TossDecision
	if !m.Sport.AllowsTossDecision(decision) {
		return matches.Invalid("toss decision %q does not apply to %s", decision, m.Sport)
	}

	m.Toss = &matches.Toss{Winner: winner, Decision: decision}

	if c := m.Cricket; c != nil && c.CurrentInnings == 1 {
		in := c.Active()
		if len(in.Log) == 0 && in.Striker == "" && in.NonStriker == "" {
			batting := winner
			if decision == matches.TossBowl {
				batting = winner.Other()
			}
			c.BattingTeam = batting
			in.BattingTeam = batting
		}
	}
	if s := m.Sets; s != nil {
		switch decision {
		case matches.TossServe:
			s.CurrentServer = winner
		case matches.TossReceive:
			s.CurrentServer = winner.Other()
		}
	}
	return nil
}

func shiftPeriod(m *matches.Match, delta int) error {
	m.Period = clampPeriod(m.Sport, m.Period+delta)
	return nil
}

func setPeriod(m *matches.Match, ev matches.Event) error {
	value, ok := ev.PeriodValue()
	if !ok {
		return matches.Invalid("period or half is required")
	}
	m.Period = clampPeriod(m.Sport, value)
	return nil
}

func clampPeriod(sport matches.Sport, period int) int {
	if period < 1 {
		return 1
	}
	if limit := sport.MaxPeriods(); period > limit {
		return limit
	}
	return period
}
