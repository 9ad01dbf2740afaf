package matches

import (
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

// Status is the match lifecycle. It only moves forward.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) rank() int {
	switch s {
	case StatusScheduled:
		return 0
	case StatusLive:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	return s.rank() >= 0
}

// CanTransitionTo enforces SCHEDULED → LIVE → COMPLETED.
func (s Status) CanTransitionTo(next Status) bool {
	return next.Valid() && next.rank() >= s.rank()
}

// Side is one of the two competing teams.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// ParseSide accepts "A"/"B" in either case.
func ParseSide(raw string) (Side, bool) {
	switch raw {
	case "A", "a":
		return SideA, true
	case "B", "b":
		return SideB, true
	}
	return "", false
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// TossDecision is what the toss winner elected to do.
type TossDecision string

const (
	TossBat        TossDecision = "BAT"
	TossBowl       TossDecision = "BOWL"
	TossServe      TossDecision = "SERVE"
	TossReceive    TossDecision = "RECEIVE"
	TossKickOff    TossDecision = "KICK_OFF"
	TossChooseSide TossDecision = "CHOOSE_SIDE"
	TossRaid       TossDecision = "RAID"
	TossPossession TossDecision = "POSSESSION"
	TossChase      TossDecision = "CHASE"
	TossDefend     TossDecision = "DEFEND"
)

// Toss is recorded at most once per match.
type Toss struct {
	Winner   Side         `json:"winner"`
	Decision TossDecision `json:"decision"`
}

// ScoreDelta remembers the last increment per side for the lossy goal/point undo.
type ScoreDelta struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Match is the root aggregate mutated by the scoring engines.
type Match struct {
	ID          string        `json:"id"`
	Sport       Sport         `json:"sport"`
	Status      Status        `json:"status"`
	TeamA       teams.Team    `json:"teamA"`
	TeamB       teams.Team    `json:"teamB"`
	ScoreA      int           `json:"scoreA"`
	ScoreB      int           `json:"scoreB"`
	Winner      *teams.Team   `json:"winner,omitempty"`
	Period      int           `json:"period"`
	Toss        *Toss         `json:"toss,omitempty"`
	Venue       string        `json:"venue,omitempty"`
	ScheduledAt *time.Time    `json:"scheduledAt,omitempty"`
	Cricket     *CricketState `json:"cricket,omitempty"`
	Sets        *SetState     `json:"sets,omitempty"`
	Fouls       []Foul        `json:"fouls,omitempty"`
	LastDelta   ScoreDelta    `json:"lastDelta"`
	Version     int64         `json:"version"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Team returns the team reference for a side.
func (m *Match) Team(side Side) teams.Team {
	if side == SideB {
		return m.TeamB
	}
	return m.TeamA
}

// Score returns the score counter for a side.
func (m *Match) Score(side Side) int {
	if side == SideB {
		return m.ScoreB
	}
	return m.ScoreA
}

// SetScore overwrites the score counter for a side.
func (m *Match) SetScore(side Side, value int) {
	if side == SideB {
		m.ScoreB = value
		return
	}
	m.ScoreA = value
}

// IsCompleted reports whether the match is frozen.
func (m *Match) IsCompleted() bool {
	return m.Status == StatusCompleted
}

// MarkLive moves a scheduled match to LIVE; other states are left untouched.
func (m *Match) MarkLive() {
	if m.Status == StatusScheduled {
		m.Status = StatusLive
	}
}

// Complete freezes the match with an optional winning side. A nil side records a draw.
func (m *Match) Complete(winner *Side) {
	if m.IsCompleted() {
		return
	}
	m.Status = StatusCompleted
	if winner != nil {
		team := m.Team(*winner)
		m.Winner = &team
	}
	if m.Sets != nil {
		m.Sets.Current = nil
	}
}

// Clone returns a deep copy so engines can mutate without touching the caller's value.
func (m Match) Clone() Match {
	out := m
	if m.Winner != nil {
		w := *m.Winner
		out.Winner = &w
	}
	if m.Toss != nil {
		t := *m.Toss
		out.Toss = &t
	}
	if m.ScheduledAt != nil {
		at := *m.ScheduledAt
		out.ScheduledAt = &at
	}
	if m.Cricket != nil {
		c := m.Cricket.clone()
		out.Cricket = &c
	}
	if m.Sets != nil {
		s := m.Sets.clone()
		out.Sets = &s
	}
	if m.Fouls != nil {
		out.Fouls = make([]Foul, len(m.Fouls))
		for i, f := range m.Fouls {
			out.Fouls[i] = f.clone()
		}
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
