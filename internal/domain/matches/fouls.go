package matches

import "time"

// FoulType classifies a recorded infringement.
type FoulType string

const (
	FoulPersonal   FoulType = "PERSONAL"
	FoulTechnical  FoulType = "TECHNICAL"
	FoulYellowCard FoulType = "YELLOW_CARD"
	FoulRedCard    FoulType = "RED_CARD"
	FoulGreenCard  FoulType = "GREEN_CARD"
)

// Valid reports whether the foul type is known.
func (f FoulType) Valid() bool {
	switch f {
	case FoulPersonal, FoulTechnical, FoulYellowCard, FoulRedCard, FoulGreenCard:
		return true
	}
	return false
}

// Foul is an append-only infringement entry.
type Foul struct {
	ID           string    `json:"id"`
	Team         Side      `json:"team"`
	Type         FoulType  `json:"foulType"`
	PlayerName   string    `json:"playerName"`
	JerseyNumber *int      `json:"jerseyNumber,omitempty"`
	GameTime     string    `json:"gameTime,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func (f Foul) clone() Foul {
	out := f
	if f.JerseyNumber != nil {
		n := *f.JerseyNumber
		out.JerseyNumber = &n
	}
	return out
}

// CardTally is derived from the foul list on demand and never stored.
type CardTally struct {
	YellowA int `json:"yellowA"`
	RedA    int `json:"redA"`
	YellowB int `json:"yellowB"`
	RedB    int `json:"redB"`
	FoulsA  int `json:"foulsA"`
	FoulsB  int `json:"foulsB"`
}

// Cards recomputes the per-team card tallies from the foul sequence.
func (m *Match) Cards() CardTally {
	var t CardTally
	for _, f := range m.Fouls {
		if f.Team == SideB {
			t.FoulsB++
		} else {
			t.FoulsA++
		}
		switch f.Type {
		case FoulYellowCard:
			if f.Team == SideB {
				t.YellowB++
			} else {
				t.YellowA++
			}
		case FoulRedCard:
			if f.Team == SideB {
				t.RedB++
			} else {
				t.RedA++
			}
		}
	}
	return t
}
