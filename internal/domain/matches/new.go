package matches

import (
	"strings"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

// NewMatchParams is the input to match creation.
type NewMatchParams struct {
	Sport       Sport         `json:"sport"`
	TeamA       teams.Team    `json:"teamA"`
	TeamB       teams.Team    `json:"teamB"`
	MaxSets     int           `json:"maxSets,omitempty"`
	SquadA      []SquadPlayer `json:"squadA,omitempty"`
	SquadB      []SquadPlayer `json:"squadB,omitempty"`
	Venue       string        `json:"venue,omitempty"`
	ScheduledAt *time.Time    `json:"scheduledAt,omitempty"`
}

// New builds a SCHEDULED match with zeroed scores and the sport's sub-state.
func New(id string, p NewMatchParams, now time.Time) (Match, error) {
	if strings.TrimSpace(id) == "" {
		return Match{}, Invalid("match id is required")
	}
	if sport, ok := ParseSport(string(p.Sport)); ok {
		p.Sport = sport
	} else {
		return Match{}, Invalid("unknown sport %q", p.Sport)
	}
	if !p.TeamA.Valid() || !p.TeamB.Valid() {
		return Match{}, Invalid("teamA and teamB are required")
	}
	if p.TeamA.ID == p.TeamB.ID {
		return Match{}, Invalid("teamA and teamB must differ")
	}

	m := Match{
		ID:          id,
		Sport:       p.Sport,
		Status:      StatusScheduled,
		TeamA:       p.TeamA,
		TeamB:       p.TeamB,
		Period:      1,
		Venue:       strings.TrimSpace(p.Venue),
		ScheduledAt: p.ScheduledAt,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}

	switch p.Sport.Model() {
	case ModelCricket:
		if err := validateSquad(p.SquadA); err != nil {
			return Match{}, err
		}
		if err := validateSquad(p.SquadB); err != nil {
			return Match{}, err
		}
		m.Cricket = NewCricketState(SideA, resetSquad(p.SquadA), resetSquad(p.SquadB))
	case ModelSet:
		maxSets := p.MaxSets
		if maxSets == 0 {
			maxSets = p.Sport.DefaultMaxSets()
		}
		if maxSets < 1 || maxSets%2 == 0 {
			return Match{}, Invalid("maxSets must be a positive odd number, got %d", maxSets)
		}
		m.Sets = NewSetState(maxSets)
	}
	return m, nil
}

func validateSquad(squad []SquadPlayer) error {
	seen := make(map[string]struct{}, len(squad))
	for _, p := range squad {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return Invalid("squad player id is required")
		}
		if _, dup := seen[id]; dup {
			return Invalid("duplicate squad player %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func resetSquad(squad []SquadPlayer) []SquadPlayer {
	out := make([]SquadPlayer, len(squad))
	for i, p := range squad {
		out[i] = SquadPlayer{ID: strings.TrimSpace(p.ID), Name: p.Name}
	}
	return out
}
