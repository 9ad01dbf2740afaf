package matches

// Action names a scoring operation carried by an Event.
type Action string

const (
	ActionDelivery      Action = "delivery"
	ActionWicket        Action = "wicket"
	ActionSelectBatsman Action = "selectBatsman"
	ActionSelectBowler  Action = "selectBowler"
	ActionSwitchStrike  Action = "switchStrike"
	ActionEndOver       Action = "endOver"
	ActionSwapInnings   Action = "swapInnings"
	ActionUndo          Action = "undo"
	ActionScore         Action = "score"
	ActionSetScores     Action = "setScores"
	ActionFoul          Action = "foul"
	ActionRemoveFoul    Action = "removeFoul"
	ActionAdvancePeriod Action = "advancePeriod"
	ActionRegressPeriod Action = "regressPeriod"
	ActionSetPeriod     Action = "setPeriod"
	ActionStartSet      Action = "startSet"
	ActionSetPoints     Action = "setPoints"
	ActionCurrentSet    Action = "currentSetScore"
	ActionEndSet        Action = "endSet"
	ActionSetResult     Action = "setResult"
	ActionToggleServer  Action = "toggleServer"
	ActionToss          Action = "toss"
	ActionStatus        Action = "status"
)

var knownActions = map[Action]struct{}{
	ActionDelivery: {}, ActionWicket: {}, ActionSelectBatsman: {}, ActionSelectBowler: {},
	ActionSwitchStrike: {}, ActionEndOver: {}, ActionSwapInnings: {}, ActionUndo: {},
	ActionScore: {}, ActionSetScores: {}, ActionFoul: {}, ActionRemoveFoul: {},
	ActionAdvancePeriod: {}, ActionRegressPeriod: {}, ActionSetPeriod: {},
	ActionStartSet: {}, ActionSetPoints: {}, ActionCurrentSet: {}, ActionEndSet: {},
	ActionSetResult: {}, ActionToggleServer: {}, ActionToss: {}, ActionStatus: {},
}

// Known reports whether the action is recognized.
func (a Action) Known() bool {
	_, ok := knownActions[a]
	return ok
}

// BatsmanPosition is the crease slot a batsman is placed in.
type BatsmanPosition string

const (
	PositionStriker    BatsmanPosition = "striker"
	PositionNonStriker BatsmanPosition = "nonStriker"
)

// BatsmanSelection places a player at the crease.
type BatsmanSelection struct {
	PlayerID string          `json:"playerId"`
	Position BatsmanPosition `json:"position"`
}

// PointsPair carries absolute points for both sides.
type PointsPair struct {
	PointsA int `json:"pointsA"`
	PointsB int `json:"pointsB"`
}

// Event is the sport-agnostic envelope consumed by the validator. Fields are
// interpreted per action; absent fields are nil.
type Event struct {
	MatchID string `json:"matchId"`
	Action  Action `json:"action,omitempty"`
	Team    string `json:"team,omitempty"`

	Runs             *int              `json:"runs,omitempty"`
	ExtraType        *ExtraType        `json:"extraType,omitempty"`
	IsWicket         *bool             `json:"isWicket,omitempty"`
	OutType          *DismissalType    `json:"outType,omitempty"`
	OutBy            *string           `json:"outBy,omitempty"`
	Fielder          *string           `json:"fielder,omitempty"`
	DismissedBatsman *string           `json:"dismissedBatsman,omitempty"`
	SelectBatsman    *BatsmanSelection `json:"selectBatsman,omitempty"`
	SelectBowler     *string           `json:"selectBowler,omitempty"`
	SwitchStrike     *bool             `json:"switchStrike,omitempty"`
	EndOver          *bool             `json:"endOver,omitempty"`
	SwapInnings      *bool             `json:"swapInnings,omitempty"`

	Points          *int        `json:"points,omitempty"`
	ScoreA          *int        `json:"scoreA,omitempty"`
	ScoreB          *int        `json:"scoreB,omitempty"`
	CurrentSetScore *PointsPair `json:"currentSetScore,omitempty"`
	SetNumber       *int        `json:"setNumber,omitempty"`
	SetResult       *bool       `json:"setResult,omitempty"`
	Winner          *string     `json:"winner,omitempty"`
	FinalPointsA    *int        `json:"finalPointsA,omitempty"`
	FinalPointsB    *int        `json:"finalPointsB,omitempty"`

	Status  *Status `json:"status,omitempty"`
	Period  *int    `json:"period,omitempty"`
	Half    *int    `json:"half,omitempty"`
	Innings *int    `json:"innings,omitempty"`

	FoulID       *string   `json:"foulId,omitempty"`
	FoulType     *FoulType `json:"foulType,omitempty"`
	PlayerName   *string   `json:"playerName,omitempty"`
	JerseyNumber *int      `json:"jerseyNumber,omitempty"`
	GameTime     *string   `json:"gameTime,omitempty"`
	Reason       *string   `json:"reason,omitempty"`

	TossWinner   *string       `json:"tossWinner,omitempty"`
	TossDecision *TossDecision `json:"tossDecision,omitempty"`
}

// ResolveAction returns the explicit action or infers one from the envelope flags.
func (e Event) ResolveAction() (Action, error) {
	if e.Action != "" {
		if !e.Action.Known() {
			return "", Errorf(KindUnknownAction, "unknown action %q", e.Action)
		}
		return e.Action, nil
	}
	switch {
	case e.Status != nil:
		return ActionStatus, nil
	case isTrue(e.IsWicket):
		return ActionWicket, nil
	case e.Runs != nil:
		return ActionDelivery, nil
	case e.SelectBatsman != nil:
		return ActionSelectBatsman, nil
	case e.SelectBowler != nil:
		return ActionSelectBowler, nil
	case isTrue(e.SwitchStrike):
		return ActionSwitchStrike, nil
	case isTrue(e.EndOver):
		return ActionEndOver, nil
	case isTrue(e.SwapInnings), e.Innings != nil:
		return ActionSwapInnings, nil
	case isTrue(e.SetResult):
		return ActionSetResult, nil
	case e.CurrentSetScore != nil:
		return ActionCurrentSet, nil
	case e.Points != nil:
		return ActionScore, nil
	case e.ScoreA != nil || e.ScoreB != nil:
		return ActionSetScores, nil
	case e.Period != nil || e.Half != nil:
		return ActionSetPeriod, nil
	case e.TossWinner != nil:
		return ActionToss, nil
	}
	return "", Invalid("event carries no action")
}

// PeriodValue returns period, falling back to half.
func (e Event) PeriodValue() (int, bool) {
	if e.Period != nil {
		return *e.Period, true
	}
	if e.Half != nil {
		return *e.Half, true
	}
	return 0, false
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
