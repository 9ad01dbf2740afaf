package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
	"github.com/preston-bernstein/live-scoring-service/internal/providers"
)

// mapFixture converts a feed entry. The home side becomes team A.
func mapFixture(p fixturePayload) (providers.Fixture, error) {
	sport, ok := matches.ParseSport(p.Sport)
	if !ok {
		return providers.Fixture{}, fmt.Errorf("feed fixture %s: unknown sport %q", p.ID, p.Sport)
	}
	f := providers.Fixture{
		Ref:     p.ID,
		Source:  providerName,
		Sport:   sport,
		TeamA:   mapTeam(p.Home),
		TeamB:   mapTeam(p.Away),
		Venue:   strings.TrimSpace(p.Venue),
		MaxSets: p.BestOf,
	}
	if p.StartsAt != "" {
		start, err := time.Parse(time.RFC3339, p.StartsAt)
		if err != nil {
			return providers.Fixture{}, fmt.Errorf("feed fixture %s: invalid startsAt %q", p.ID, p.StartsAt)
		}
		start = start.UTC()
		f.StartsAt = &start
	}
	return f, nil
}

func mapTeam(t teamPayload) teams.Team {
	return teams.Team{
		ID:        strings.TrimSpace(t.ID),
		Name:      strings.TrimSpace(t.Name),
		ShortName: strings.ToUpper(strings.TrimSpace(t.Abbreviation)),
	}
}
