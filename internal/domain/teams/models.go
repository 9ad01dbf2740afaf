package teams

import "strings"

// Team is the reference a match holds for each side.
// Roster administration lives outside the scoring service; only identity matters here.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
}

// Player identifies a squad member.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	JerseyNumber string `json:"jerseyNumber,omitempty"`
	Role         string `json:"role,omitempty"`
}

// Valid reports whether the team carries an identity.
func (t Team) Valid() bool {
	return strings.TrimSpace(t.ID) != ""
}

// DisplayName prefers the short name for scoreboards.
func (t Team) DisplayName() string {
	if t.ShortName != "" {
		return t.ShortName
	}
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}
