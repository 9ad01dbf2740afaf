package scoring

import (
	"strings"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

// CricketEngine applies ball-by-ball cricket scoring. Match completion is
// always triggered externally through a status change.
type CricketEngine struct{}

var cricketActions = map[matches.Action]struct{}{
	matches.ActionDelivery:      {},
	matches.ActionWicket:        {},
	matches.ActionSelectBatsman: {},
	matches.ActionSelectBowler:  {},
	matches.ActionSwitchStrike:  {},
	matches.ActionEndOver:       {},
	matches.ActionSwapInnings:   {},
}

func (e *CricketEngine) Model() matches.Model { return matches.ModelCricket }

func (e *CricketEngine) Supports(action matches.Action) bool {
	_, ok := cricketActions[action]
	return ok
}

// Wicket describes a dismissal.
type Wicket struct {
	Type      matches.DismissalType
	OutBy     string
	BatsmanID string
}

func (e *CricketEngine) Apply(m *matches.Match, ev matches.Event, action matches.Action) error {
	switch action {
	case matches.ActionDelivery:
		side, err := requireSide(ev.Team)
		if err != nil {
			return err
		}
		if ev.Runs == nil {
			return matches.Invalid("runs is required")
		}
		return e.RecordDelivery(m, side, *ev.Runs, extraOf(ev))
	case matches.ActionWicket:
		side, err := requireSide(ev.Team)
		if err != nil {
			return err
		}
		w, err := e.wicketFromEvent(m, ev)
		if err != nil {
			return err
		}
		runs := 0
		if ev.Runs != nil {
			runs = *ev.Runs
		}
		return e.RecordWicket(m, side, runs, extraOf(ev), w)
	case matches.ActionSelectBatsman:
		if ev.SelectBatsman == nil {
			return matches.Invalid("selectBatsman is required")
		}
		return e.SelectBatsman(m, ev.SelectBatsman.PlayerID, ev.SelectBatsman.Position)
	case matches.ActionSelectBowler:
		if ev.SelectBowler == nil {
			return matches.Invalid("selectBowler is required")
		}
		return e.SelectBowler(m, *ev.SelectBowler)
	case matches.ActionSwitchStrike:
		return e.SwitchStrike(m)
	case matches.ActionEndOver:
		return e.EndOver(m)
	case matches.ActionSwapInnings:
		if ev.Innings != nil && m.Cricket != nil && *ev.Innings != m.Cricket.CurrentInnings+1 {
			return matches.Invalid("innings %d cannot follow innings %d", *ev.Innings, m.Cricket.CurrentInnings)
		}
		return e.SwapInnings(m)
	}
	return matches.Errorf(matches.KindUnknownAction, "unknown cricket action %q", action)
}

func extraOf(ev matches.Event) matches.ExtraType {
	if ev.ExtraType == nil {
		return ""
	}
	return *ev.ExtraType
}

func (e *CricketEngine) wicketFromEvent(m *matches.Match, ev matches.Event) (Wicket, error) {
	if ev.OutType == nil {
		return Wicket{}, matches.Invalid("outType is required for a wicket")
	}
	w := Wicket{Type: *ev.OutType}
	if ev.DismissedBatsman != nil {
		w.BatsmanID = strings.TrimSpace(*ev.DismissedBatsman)
	}
	if ev.OutBy != nil {
		w.OutBy = *ev.OutBy
	} else if m.Cricket != nil {
		fielder := ""
		if ev.Fielder != nil {
			fielder = *ev.Fielder
		}
		w.OutBy = matches.EncodeOutBy(w.Type, fielder, m.Cricket.Active().Bowler)
	}
	return w, nil
}

func cricketState(m *matches.Match) (*matches.CricketState, *matches.Innings, error) {
	if m.Cricket == nil {
		return nil, nil, matches.Invalid("match %s has no cricket state", m.ID)
	}
	return m.Cricket, m.Cricket.Active(), nil
}

// RecordDelivery scores one ball.
func (e *CricketEngine) RecordDelivery(m *matches.Match, side matches.Side, runs int, extra matches.ExtraType) error {
	c, in, err := cricketState(m)
	if err != nil {
		return err
	}
	if err := checkDelivery(c, in, side, runs, extra); err != nil {
		return err
	}
	entry := snapshotDelivery(in, runs, extra)
	bowl(in, runs, extra)
	in.Log = append(in.Log, entry)
	m.MarkLive()
	return nil
}

// RecordWicket dismisses a batsman. Every dismissal except RETIRED is a legal
// delivery carrying runs (for run-outs) and an optional extra.
func (e *CricketEngine) RecordWicket(m *matches.Match, side matches.Side, runs int, extra matches.ExtraType, w Wicket) error {
	c, in, err := cricketState(m)
	if err != nil {
		return err
	}
	if !w.Type.Valid() {
		return matches.Invalid("unknown dismissal type %q", w.Type)
	}
	retired := w.Type == matches.DismissalRetired
	if retired && (runs != 0 || extra != "") {
		return matches.Invalid("a retirement carries no runs or extras")
	}
	if err := checkDelivery(c, in, side, runs, extra); err != nil {
		return err
	}
	if w.BatsmanID == "" {
		w.BatsmanID = in.Striker
	}
	if w.BatsmanID != in.Striker && w.BatsmanID != in.NonStriker {
		return matches.Invalid("dismissed batsman %q is not at the crease", w.BatsmanID)
	}

	entry := snapshotDelivery(in, runs, extra)
	dismissedBefore := *in.EnsureBatter(w.BatsmanID)
	entry.DismissedBefore = &dismissedBefore
	if retired {
		entry.Legal = false
	} else {
		bowl(in, runs, extra)
	}

	card := in.EnsureBatter(w.BatsmanID)
	card.Dismissal = w.Type
	in.Wickets++
	fow := matches.FallOfWicket{
		Wicket:        in.Wickets,
		BatsmanID:     w.BatsmanID,
		DismissalType: w.Type,
		OutBy:         w.OutBy,
		Runs:          in.Runs,
		Overs:         in.OversNotation(),
	}
	in.FallOfWickets = append(in.FallOfWickets, fow)
	if p := c.SquadPlayer(in.BattingTeam, w.BatsmanID); p != nil {
		p.IsOut = !retired
		p.Retired = retired
	}
	if in.Bowler != "" && w.Type.CreditsBowler() {
		if b := in.BowlerFigures(in.Bowler); b != nil {
			b.Wickets++
		}
	}
	switch w.BatsmanID {
	case in.Striker:
		in.Striker = ""
	case in.NonStriker:
		in.NonStriker = ""
	}

	entry.Wicket = &fow
	in.Log = append(in.Log, entry)
	m.MarkLive()
	return nil
}

func checkDelivery(c *matches.CricketState, in *matches.Innings, side matches.Side, runs int, extra matches.ExtraType) error {
	if side != c.BattingTeam {
		return matches.Invalid("team %s is not batting", side)
	}
	if runs < 0 || runs > 6 {
		return matches.Invalid("runs must be between 0 and 6, got %d", runs)
	}
	if extra != "" && !extra.Valid() {
		return matches.Invalid("unknown extra type %q", extra)
	}
	if in.Wickets >= matches.MaxWickets {
		return matches.Errorf(matches.KindAllOut, "innings %d is all out", in.Number)
	}
	if in.Striker == "" || in.NonStriker == "" {
		return matches.Invalid("select striker and non-striker before scoring")
	}
	return nil
}

func snapshotDelivery(in *matches.Innings, runs int, extra matches.ExtraType) matches.Delivery {
	entry := matches.Delivery{
		Runs:             runs,
		Extra:            extra,
		Legal:            extra.Legal(),
		StrikerBefore:    in.Striker,
		NonStrikerBefore: in.NonStriker,
		OversBefore:      in.Overs,
		BallsBefore:      in.Balls,
	}
	batter := *in.EnsureBatter(in.Striker)
	entry.BatterBefore = &batter
	if in.Bowler != "" {
		if b := in.BowlerFigures(in.Bowler); b != nil {
			before := *b
			entry.BowlerBefore = &before
		}
	}
	return entry
}

// bowl applies runs, ball counts, and strike rotation for one delivery.
func bowl(in *matches.Innings, runs int, extra matches.ExtraType) {
	in.Runs += runs
	striker := in.EnsureBatter(in.Striker)
	switch extra {
	case "":
		striker.Runs += runs
		striker.Balls++
		switch runs {
		case 4:
			striker.Fours++
		case 6:
			striker.Sixes++
		}
	case matches.ExtraBye, matches.ExtraNoBall:
		in.Extras += runs
		striker.Balls++
	case matches.ExtraWide:
		in.Extras += runs
	}

	var bowler *matches.BowlerStats
	if in.Bowler != "" {
		bowler = in.BowlerFigures(in.Bowler)
	}
	if bowler != nil && extra != matches.ExtraBye {
		bowler.RunsConceded += runs
		bowler.OverRuns += runs
	}

	if !extra.Legal() {
		return
	}
	in.Balls++
	if bowler != nil {
		bowler.Balls++
	}
	if runs%2 == 1 {
		swapStrike(in)
	}
	if in.Balls >= matches.BallsPerOver {
		completeOver(in)
	}
}

// completeOver closes the over. The bowler is credited with it only when they
// bowled every legal ball of it.
func completeOver(in *matches.Innings) {
	overBalls := in.Balls
	in.Overs++
	in.Balls = 0
	swapStrike(in)
	if in.Bowler == "" {
		return
	}
	b := in.BowlerFigures(in.Bowler)
	if b == nil {
		return
	}
	if b.Balls == 0 || b.Balls != overBalls {
		b.AbandonOver()
		return
	}
	b.Overs++
	if b.OverRuns == 0 {
		b.Maidens++
	}
	b.Balls = 0
	b.OverRuns = 0
}

func swapStrike(in *matches.Innings) {
	in.Striker, in.NonStriker = in.NonStriker, in.Striker
}

// SelectBatsman places a player at the crease.
func (e *CricketEngine) SelectBatsman(m *matches.Match, playerID string, position matches.BatsmanPosition) error {
	c, in, err := cricketState(m)
	if err != nil {
		return err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return matches.Invalid("batsman playerId is required")
	}
	var other string
	switch position {
	case matches.PositionStriker:
		other = in.NonStriker
	case matches.PositionNonStriker:
		other = in.Striker
	default:
		return matches.Invalid("position must be striker or nonStriker, got %q", position)
	}
	if other == playerID {
		return matches.Invalid("player %q already occupies the other end", playerID)
	}

	squadPlayer := c.SquadPlayer(in.BattingTeam, playerID)
	if len(c.Squad(in.BattingTeam)) > 0 && squadPlayer == nil {
		return matches.Invalid("player %q is not in the batting squad", playerID)
	}
	if squadPlayer != nil && squadPlayer.IsOut {
		return matches.Invalid("player %q is already out", playerID)
	}
	card := in.Batter(playerID)
	if card != nil && card.Dismissal != "" && card.Dismissal != matches.DismissalRetired {
		return matches.Invalid("player %q is already out", playerID)
	}

	// A retired batsman coming back resumes the existing card.
	if squadPlayer != nil {
		squadPlayer.Retired = false
	}
	card = in.EnsureBatter(playerID)
	card.Dismissal = ""

	if position == matches.PositionStriker {
		in.Striker = playerID
	} else {
		in.NonStriker = playerID
	}
	return nil
}

// SelectBowler hands the ball to a player, resuming any figures from earlier spells.
func (e *CricketEngine) SelectBowler(m *matches.Match, playerID string) error {
	c, in, err := cricketState(m)
	if err != nil {
		return err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return matches.Invalid("bowler playerId is required")
	}
	fielding := in.BattingTeam.Other()
	if len(c.Squad(fielding)) > 0 && c.SquadPlayer(fielding, playerID) == nil {
		return matches.Invalid("player %q is not in the fielding squad", playerID)
	}
	if in.Bowler != "" && in.Bowler != playerID {
		if out := in.BowlerFigures(in.Bowler); out != nil && out.Balls > 0 {
			out.AbandonOver()
		}
	}
	if in.BowlerFigures(playerID) == nil {
		in.Bowlers = append(in.Bowlers, matches.BowlerStats{PlayerID: playerID})
	}
	in.Bowler = playerID
	return nil
}

// SwitchStrike swaps the batsmen unconditionally.
func (e *CricketEngine) SwitchStrike(m *matches.Match) error {
	_, in, err := cricketState(m)
	if err != nil {
		return err
	}
	swapStrike(in)
	return nil
}

// EndOver closes the current over without requiring six legal balls.
func (e *CricketEngine) EndOver(m *matches.Match) error {
	_, in, err := cricketState(m)
	if err != nil {
		return err
	}
	completeOver(in)
	return nil
}

// SwapInnings opens the second innings with the other side batting.
func (e *CricketEngine) SwapInnings(m *matches.Match) error {
	c, _, err := cricketState(m)
	if err != nil {
		return err
	}
	if c.CurrentInnings >= m.Sport.MaxPeriods() {
		return matches.Invalid("innings %d is the last innings", c.CurrentInnings)
	}
	c.CurrentInnings++
	c.BattingTeam = c.BattingTeam.Other()
	c.Innings = append(c.Innings, matches.Innings{Number: c.CurrentInnings, BattingTeam: c.BattingTeam})

	squad := c.SquadA
	if c.BattingTeam == matches.SideB {
		squad = c.SquadB
	}
	for i := range squad {
		squad[i].IsOut = false
		squad[i].Retired = false
	}
	m.Period = c.CurrentInnings
	m.MarkLive()
	return nil
}

// Undo reverses the most recent delivery or wicket of the current innings.
func (e *CricketEngine) Undo(m *matches.Match, side matches.Side) error {
	c, in, err := cricketState(m)
	if err != nil {
		return err
	}
	if side != c.BattingTeam || len(in.Log) == 0 {
		return matches.Errorf(matches.KindNothingToUndo, "nothing to undo for team %s in innings %d", side, c.CurrentInnings)
	}

	d := in.Log[len(in.Log)-1]
	in.Log = in.Log[:len(in.Log)-1]

	in.Runs -= d.Runs
	if d.Extra != "" {
		in.Extras -= d.Runs
	}
	in.Overs, in.Balls = d.OversBefore, d.BallsBefore
	in.Striker, in.NonStriker = d.StrikerBefore, d.NonStrikerBefore
	if d.BatterBefore != nil {
		*in.EnsureBatter(d.BatterBefore.PlayerID) = *d.BatterBefore
	}
	if d.BowlerBefore != nil {
		if b := in.BowlerFigures(d.BowlerBefore.PlayerID); b != nil {
			*b = *d.BowlerBefore
		}
	}
	if d.Wicket != nil {
		in.Wickets--
		if n := len(in.FallOfWickets); n > 0 {
			in.FallOfWickets = in.FallOfWickets[:n-1]
		}
		if d.DismissedBefore != nil {
			*in.EnsureBatter(d.DismissedBefore.PlayerID) = *d.DismissedBefore
		}
		if p := c.SquadPlayer(in.BattingTeam, d.Wicket.BatsmanID); p != nil {
			p.IsOut = false
			p.Retired = false
		}
	}
	return nil
}

// CheckCompletion is a no-op: cricket results are declared through a status change.
func (e *CricketEngine) CheckCompletion(m *matches.Match) {}
