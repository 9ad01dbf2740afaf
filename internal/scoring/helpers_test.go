package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

var fixedNow = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

func newTestProcessor() *Processor {
	n := 0
	return NewProcessor(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("foul-%d", n)
		}),
	)
}

func squad(prefix string, size int) []matches.SquadPlayer {
	out := make([]matches.SquadPlayer, size)
	for i := range out {
		out[i] = matches.SquadPlayer{ID: fmt.Sprintf("%s%d", prefix, i+1)}
	}
	return out
}

func newMatch(t *testing.T, sport matches.Sport, maxSets int) matches.Match {
	t.Helper()
	p := matches.NewMatchParams{
		Sport:   sport,
		TeamA:   teams.Team{ID: "team-a", Name: "Alpha"},
		TeamB:   teams.Team{ID: "team-b", Name: "Bravo"},
		MaxSets: maxSets,
	}
	if sport == matches.SportCricket {
		p.SquadA = squad("A", 11)
		p.SquadB = squad("B", 11)
	}
	m, err := matches.New("m-1", p, fixedNow)
	require.NoError(t, err)
	return m
}

func intPtr(v int) *int                          { return &v }
func strPtr(v string) *string                    { return &v }
func boolPtr(v bool) *bool                       { return &v }
func statusPtr(s matches.Status) *matches.Status { return &s }

// apply runs an event and fails the test on error.
func apply(t *testing.T, p *Processor, m matches.Match, ev matches.Event) matches.Match {
	t.Helper()
	ev.MatchID = m.ID
	next, _, err := p.Apply(m, ev)
	require.NoError(t, err)
	return next
}

// applyErr runs an event expecting a failure of the given kind and returns the untouched input.
func applyErr(t *testing.T, p *Processor, m matches.Match, ev matches.Event, kind matches.Kind) matches.Match {
	t.Helper()
	ev.MatchID = m.ID
	before := m.Clone()
	next, _, err := p.Apply(m, ev)
	require.Error(t, err)
	require.Equal(t, kind, matches.KindOf(err), "unexpected error %v", err)
	require.Equal(t, before, m, "failed event must not change the match")
	require.Equal(t, before, next, "failed event must return the original match")
	return next
}

// readyToBat selects P1/P2 for side A and bowler B1.
func readyToBat(t *testing.T, p *Processor, m matches.Match) matches.Match {
	t.Helper()
	m = apply(t, p, m, matches.Event{Action: matches.ActionSelectBatsman, SelectBatsman: &matches.BatsmanSelection{PlayerID: "A1", Position: matches.PositionStriker}})
	m = apply(t, p, m, matches.Event{Action: matches.ActionSelectBatsman, SelectBatsman: &matches.BatsmanSelection{PlayerID: "A2", Position: matches.PositionNonStriker}})
	m = apply(t, p, m, matches.Event{Action: matches.ActionSelectBowler, SelectBowler: strPtr("B1")})
	return m
}

func delivery(runs int) matches.Event {
	return matches.Event{Action: matches.ActionDelivery, Team: "A", Runs: intPtr(runs)}
}
