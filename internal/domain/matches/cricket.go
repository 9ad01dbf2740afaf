package matches

import "fmt"

// MaxWickets is the ceiling for an eleven-player side.
const MaxWickets = 10

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// ExtraType marks a delivery that is not scored off the bat.
type ExtraType string

const (
	ExtraWide   ExtraType = "WIDE"
	ExtraNoBall ExtraType = "NOBALL"
	ExtraBye    ExtraType = "BYE"
)

// Valid reports whether the extra is known.
func (e ExtraType) Valid() bool {
	switch e {
	case ExtraWide, ExtraNoBall, ExtraBye:
		return true
	}
	return false
}

// Legal reports whether a delivery with this extra counts toward the over.
func (e ExtraType) Legal() bool {
	return e != ExtraWide && e != ExtraNoBall
}

// DismissalType is how a batsman got out.
type DismissalType string

const (
	DismissalBowled    DismissalType = "BOWLED"
	DismissalCaught    DismissalType = "CAUGHT"
	DismissalLBW       DismissalType = "LBW"
	DismissalRunOut    DismissalType = "RUN_OUT"
	DismissalStumped   DismissalType = "STUMPED"
	DismissalHitWicket DismissalType = "HIT_WICKET"
	DismissalRetired   DismissalType = "RETIRED"
)

// OutByDelimiter joins fielder and bowler for CAUGHT and STUMPED.
const OutByDelimiter = "|"

// Valid reports whether the dismissal is known.
func (d DismissalType) Valid() bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalRunOut,
		DismissalStumped, DismissalHitWicket, DismissalRetired:
		return true
	}
	return false
}

// CreditsBowler reports whether the bowler is credited with the wicket.
func (d DismissalType) CreditsBowler() bool {
	return d != DismissalRunOut && d != DismissalRetired
}

// EncodeOutBy renders the outBy reference for a dismissal.
func EncodeOutBy(d DismissalType, fielder, bowler string) string {
	switch d {
	case DismissalCaught, DismissalStumped:
		return fielder + OutByDelimiter + bowler
	case DismissalRunOut:
		return fielder
	case DismissalRetired:
		return ""
	default:
		return bowler
	}
}

// SquadPlayer is a roster entry with cricket availability flags.
type SquadPlayer struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	IsOut   bool   `json:"isOut"`
	Retired bool   `json:"retired,omitempty"`
}

// BatterStats is a batting-card line.
type BatterStats struct {
	PlayerID  string        `json:"playerId"`
	Runs      int           `json:"runsScored"`
	Balls     int           `json:"ballsFaced"`
	Fours     int           `json:"fours"`
	Sixes     int           `json:"sixes"`
	Dismissal DismissalType `json:"dismissal,omitempty"`
}

// BowlerStats is a bowling-card line. Balls and OverRuns cover the over in
// progress; PartialBalls holds legal balls from overs the bowler did not finish.
type BowlerStats struct {
	PlayerID     string `json:"playerId"`
	Overs        int    `json:"oversBowled"`
	Balls        int    `json:"balls"`
	PartialBalls int    `json:"partialBalls,omitempty"`
	Maidens      int    `json:"maidens"`
	RunsConceded int    `json:"runsConceded"`
	Wickets      int    `json:"wicketsTaken"`
	OverRuns     int    `json:"overRuns"`
}

// LegalBalls is every legal ball the bowler has delivered in the innings.
func (b BowlerStats) LegalBalls() int {
	return b.Overs*BallsPerOver + b.PartialBalls + b.Balls
}

// AbandonOver moves the over in progress into PartialBalls.
func (b *BowlerStats) AbandonOver() {
	b.PartialBalls += b.Balls
	b.Balls = 0
	b.OverRuns = 0
}

// FallOfWicket records the score at the moment of a dismissal.
type FallOfWicket struct {
	Wicket        int           `json:"wicket"`
	BatsmanID     string        `json:"batsman"`
	DismissalType DismissalType `json:"dismissalType"`
	OutBy         string        `json:"outBy,omitempty"`
	Runs          int           `json:"runs"`
	Overs         string        `json:"overs"`
}

// Delivery is one entry of the per-innings undo log. It keeps the figures the
// delivery overwrote so undo restores them exactly.
type Delivery struct {
	Runs   int           `json:"runs"`
	Extra  ExtraType     `json:"extra,omitempty"`
	Legal  bool          `json:"legal"`
	Wicket *FallOfWicket `json:"wicket,omitempty"`

	StrikerBefore    string       `json:"strikerBefore"`
	NonStrikerBefore string       `json:"nonStrikerBefore"`
	OversBefore      int          `json:"oversBefore"`
	BallsBefore      int          `json:"ballsBefore"`
	BatterBefore     *BatterStats `json:"batterBefore,omitempty"`
	BowlerBefore     *BowlerStats `json:"bowlerBefore,omitempty"`
	DismissedBefore  *BatterStats `json:"dismissedBefore,omitempty"`
}

// Innings holds one team's batting turn.
type Innings struct {
	Number        int            `json:"number"`
	BattingTeam   Side           `json:"battingTeam"`
	Runs          int            `json:"runs"`
	Wickets       int            `json:"wickets"`
	Overs         int            `json:"overs"`
	Balls         int            `json:"balls"`
	Extras        int            `json:"extras"`
	Striker       string         `json:"striker,omitempty"`
	NonStriker    string         `json:"nonStriker,omitempty"`
	Bowler        string         `json:"bowler,omitempty"`
	Batters       []BatterStats  `json:"batters,omitempty"`
	Bowlers       []BowlerStats  `json:"bowlers,omitempty"`
	FallOfWickets []FallOfWicket `json:"fallOfWickets,omitempty"`
	Log           []Delivery     `json:"log,omitempty"`
}

// OversNotation renders overs in the usual "overs.balls" form.
func (in *Innings) OversNotation() string {
	return fmt.Sprintf("%d.%d", in.Overs, in.Balls)
}

// OversFraction is legal balls bowled divided by six.
func (in *Innings) OversFraction() float64 {
	return float64(in.Overs) + float64(in.Balls)/BallsPerOver
}

// Batter returns the batting-card line for a player, if present.
func (in *Innings) Batter(id string) *BatterStats {
	for i := range in.Batters {
		if in.Batters[i].PlayerID == id {
			return &in.Batters[i]
		}
	}
	return nil
}

// EnsureBatter returns the card line for a player, appending a fresh one if needed.
func (in *Innings) EnsureBatter(id string) *BatterStats {
	if b := in.Batter(id); b != nil {
		return b
	}
	in.Batters = append(in.Batters, BatterStats{PlayerID: id})
	return &in.Batters[len(in.Batters)-1]
}

// BowlerFigures returns the bowling-card line for a player, if present.
func (in *Innings) BowlerFigures(id string) *BowlerStats {
	for i := range in.Bowlers {
		if in.Bowlers[i].PlayerID == id {
			return &in.Bowlers[i]
		}
	}
	return nil
}

// CricketState is the cricket sub-state. One innings is active at a time.
type CricketState struct {
	CurrentInnings int           `json:"currentInnings"`
	BattingTeam    Side          `json:"battingTeam"`
	Innings        []Innings     `json:"innings"`
	SquadA         []SquadPlayer `json:"squadA,omitempty"`
	SquadB         []SquadPlayer `json:"squadB,omitempty"`
}

// NewCricketState opens innings one with the given side batting.
func NewCricketState(batting Side, squadA, squadB []SquadPlayer) *CricketState {
	return &CricketState{
		CurrentInnings: 1,
		BattingTeam:    batting,
		Innings:        []Innings{{Number: 1, BattingTeam: batting}},
		SquadA:         squadA,
		SquadB:         squadB,
	}
}

// Active returns the innings in progress.
func (c *CricketState) Active() *Innings {
	if len(c.Innings) == 0 {
		c.Innings = []Innings{{Number: 1, BattingTeam: c.BattingTeam}}
	}
	return &c.Innings[len(c.Innings)-1]
}

// Squad returns the roster for a side.
func (c *CricketState) Squad(side Side) []SquadPlayer {
	if side == SideB {
		return c.SquadB
	}
	return c.SquadA
}

// SquadPlayer finds a player in a side's roster.
func (c *CricketState) SquadPlayer(side Side, id string) *SquadPlayer {
	squad := c.SquadA
	if side == SideB {
		squad = c.SquadB
	}
	for i := range squad {
		if squad[i].ID == id {
			return &squad[i]
		}
	}
	return nil
}

// RunsFor totals the runs a side scored across its innings.
func (c *CricketState) RunsFor(side Side) int {
	total := 0
	for _, in := range c.Innings {
		if in.BattingTeam == side {
			total += in.Runs
		}
	}
	return total
}

func (c CricketState) clone() CricketState {
	out := c
	out.SquadA = cloneSlice(c.SquadA)
	out.SquadB = cloneSlice(c.SquadB)
	if c.Innings != nil {
		out.Innings = make([]Innings, len(c.Innings))
		for i, in := range c.Innings {
			out.Innings[i] = in.clone()
		}
	}
	return out
}

func (in Innings) clone() Innings {
	out := in
	out.Batters = cloneSlice(in.Batters)
	out.Bowlers = cloneSlice(in.Bowlers)
	out.FallOfWickets = cloneSlice(in.FallOfWickets)
	if in.Log != nil {
		out.Log = make([]Delivery, len(in.Log))
		for i, d := range in.Log {
			out.Log[i] = d.clone()
		}
	}
	return out
}

func (d Delivery) clone() Delivery {
	out := d
	if d.Wicket != nil {
		w := *d.Wicket
		out.Wicket = &w
	}
	if d.BatterBefore != nil {
		b := *d.BatterBefore
		out.BatterBefore = &b
	}
	if d.BowlerBefore != nil {
		b := *d.BowlerBefore
		out.BowlerBefore = &b
	}
	if d.DismissedBefore != nil {
		b := *d.DismissedBefore
		out.DismissedBefore = &b
	}
	return out
}
