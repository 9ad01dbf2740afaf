package matches

import "strings"

// Sport identifies the discipline a match is played under. Immutable after creation.
type Sport string

const (
	SportCricket     Sport = "CRICKET"
	SportFootball    Sport = "FOOTBALL"
	SportHockey      Sport = "HOCKEY"
	SportBasketball  Sport = "BASKETBALL"
	SportKabaddi     Sport = "KABADDI"
	SportKhoKho      Sport = "KHOKHO"
	SportBadminton   Sport = "BADMINTON"
	SportTableTennis Sport = "TABLE_TENNIS"
	SportVolleyball  Sport = "VOLLEYBALL"
)

// Model is the scoring model shared by a family of sports.
type Model string

const (
	ModelCricket Model = "cricket"
	ModelGoal    Model = "goal"
	ModelPoint   Model = "point"
	ModelSet     Model = "set"
)

type sportRules struct {
	model      Model
	maxPeriods int
	maxSets    int
	decisions  []TossDecision
}

var catalogue = map[Sport]sportRules{
	SportCricket:     {model: ModelCricket, maxPeriods: 2, decisions: []TossDecision{TossBat, TossBowl}},
	SportFootball:    {model: ModelGoal, maxPeriods: 2, decisions: []TossDecision{TossKickOff, TossChooseSide}},
	SportHockey:      {model: ModelGoal, maxPeriods: 2, decisions: []TossDecision{TossKickOff, TossChooseSide}},
	SportKabaddi:     {model: ModelPoint, maxPeriods: 2, decisions: []TossDecision{TossRaid, TossChooseSide}},
	SportBasketball:  {model: ModelPoint, maxPeriods: 4, decisions: []TossDecision{TossPossession, TossChooseSide}},
	SportKhoKho:      {model: ModelPoint, maxPeriods: 4, decisions: []TossDecision{TossChase, TossDefend}},
	SportBadminton:   {model: ModelSet, maxPeriods: 1, maxSets: 3, decisions: []TossDecision{TossServe, TossReceive, TossChooseSide}},
	SportTableTennis: {model: ModelSet, maxPeriods: 1, maxSets: 5, decisions: []TossDecision{TossServe, TossReceive, TossChooseSide}},
	SportVolleyball:  {model: ModelSet, maxPeriods: 1, maxSets: 5, decisions: []TossDecision{TossServe, TossReceive, TossChooseSide}},
}

// ParseSport normalizes user input ("table tennis", "Kho-Kho") into a Sport.
func ParseSport(raw string) (Sport, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "").Replace(normalized)
	if normalized == "TABLETENNIS" {
		normalized = string(SportTableTennis)
	}
	s := Sport(normalized)
	_, ok := catalogue[s]
	return s, ok
}

// Valid reports whether the sport is in the catalogue.
func (s Sport) Valid() bool {
	_, ok := catalogue[s]
	return ok
}

// Model returns the scoring model used by the sport.
func (s Sport) Model() Model {
	return catalogue[s].model
}

// MaxPeriods is the number of halves, quarters or innings the sport allows.
func (s Sport) MaxPeriods() int {
	if r, ok := catalogue[s]; ok && r.maxPeriods > 0 {
		return r.maxPeriods
	}
	return 1
}

// DefaultMaxSets is the best-of format used when a set match is created without one.
func (s Sport) DefaultMaxSets() int {
	return catalogue[s].maxSets
}

// AllowsTossDecision reports whether the decision is meaningful for the sport.
func (s Sport) AllowsTossDecision(d TossDecision) bool {
	for _, allowed := range catalogue[s].decisions {
		if allowed == d {
			return true
		}
	}
	return false
}

// Sports lists the catalogue in a stable order.
func Sports() []Sport {
	return []Sport{
		SportCricket, SportFootball, SportHockey, SportBasketball, SportKabaddi,
		SportKhoKho, SportBadminton, SportTableTennis, SportVolleyball,
	}
}
