// Package providers supplies fixture lists that scorectl turns into
// scheduled matches.
package providers

import (
	"context"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

// Fixture is one upcoming match announced by a schedule source.
type Fixture struct {
	Ref      string
	Source   string
	Sport    matches.Sport
	TeamA    teams.Team
	TeamB    teams.Team
	Venue    string
	MaxSets  int
	StartsAt *time.Time
	SquadA   []matches.SquadPlayer
	SquadB   []matches.SquadPlayer
}

// Params converts the fixture into match creation input.
func (f Fixture) Params() matches.NewMatchParams {
	return matches.NewMatchParams{
		Sport:       f.Sport,
		TeamA:       f.TeamA,
		TeamB:       f.TeamB,
		MaxSets:     f.MaxSets,
		SquadA:      f.SquadA,
		SquadB:      f.SquadB,
		Venue:       f.Venue,
		ScheduledAt: f.StartsAt,
	}
}

// FixtureProvider fetches fixtures for a YYYY-MM-DD day.
// An empty date means every fixture the source knows about, or today for
// sources that can only be queried by day.
type FixtureProvider interface {
	FetchFixtures(ctx context.Context, date string) ([]Fixture, error)
}
