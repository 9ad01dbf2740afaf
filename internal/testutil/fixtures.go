package testutil

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

// FixedTime is the creation timestamp used by match fixtures.
var FixedTime = MustParseRFC3339("2024-03-01T18:00:00Z")

// MatchParams returns creation params for two sample teams. Cricket
// matches get eleven-player squads prefixed A and B.
func MatchParams(sport matches.Sport) matches.NewMatchParams {
	p := matches.NewMatchParams{
		Sport: sport,
		TeamA: teams.Team{ID: "team-a", Name: "Alpha"},
		TeamB: teams.Team{ID: "team-b", Name: "Bravo"},
	}
	if sport == matches.SportCricket {
		p.SquadA = Squad("A", 11)
		p.SquadB = Squad("B", 11)
	}
	return p
}

// Squad builds size players with ids prefix1..prefixN.
func Squad(prefix string, size int) []matches.SquadPlayer {
	out := make([]matches.SquadPlayer, size)
	for i := range out {
		out[i] = matches.SquadPlayer{ID: fmt.Sprintf("%s%d", prefix, i+1), Name: fmt.Sprintf("Player %s%d", prefix, i+1)}
	}
	return out
}

// SampleMatch builds a SCHEDULED match fixture; it panics on invalid input.
func SampleMatch(id string, sport matches.Sport) matches.Match {
	return SampleMatchAt(id, sport, FixedTime)
}

// SampleMatchAt is SampleMatch with an explicit creation time.
func SampleMatchAt(id string, sport matches.Sport, created time.Time) matches.Match {
	m, err := matches.New(id, MatchParams(sport), created)
	if err != nil {
		panic(err)
	}
	return m
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StrPtr returns a pointer to v.
func StrPtr(v string) *string { return &v }
