package matches

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

var created = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func params(sport Sport) NewMatchParams {
	return NewMatchParams{
		Sport: sport,
		TeamA: teams.Team{ID: "ind", Name: "India"},
		TeamB: teams.Team{ID: "aus", Name: "Australia"},
	}
}

func TestNewMatchDefaults(t *testing.T) {
	m, err := New("m1", params(SportBadminton), created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != StatusScheduled || m.Period != 1 {
		t.Fatalf("unexpected initial state %+v", m)
	}
	if m.Sets == nil || m.Sets.MaxSets != 3 || m.Sets.Details == nil {
		t.Fatalf("expected best-of-3 set state, got %+v", m.Sets)
	}
	if m.Cricket != nil {
		t.Fatal("set match should not carry cricket state")
	}
	if !m.CreatedAt.Equal(created) || !m.UpdatedAt.Equal(created) {
		t.Fatalf("timestamps not stamped: %v %v", m.CreatedAt, m.UpdatedAt)
	}
}

func TestNewMatchNormalizesSport(t *testing.T) {
	p := params("table tennis")
	m, err := New("m1", p, created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Sport != SportTableTennis || m.Sets.MaxSets != 5 {
		t.Fatalf("expected table tennis best of 5, got %s/%d", m.Sport, m.Sets.MaxSets)
	}
}

func TestNewMatchValidation(t *testing.T) {
	same := params(SportFootball)
	same.TeamB = same.TeamA

	even := params(SportVolleyball)
	even.MaxSets = 4

	dupSquad := params(SportCricket)
	dupSquad.SquadA = []SquadPlayer{{ID: "p1"}, {ID: "p1"}}

	blankSquad := params(SportCricket)
	blankSquad.SquadB = []SquadPlayer{{ID: " "}}

	cases := map[string]struct {
		id string
		p  NewMatchParams
	}{
		"missing id":      {"", params(SportFootball)},
		"unknown sport":   {"m1", params("CURLING")},
		"missing team":    {"m1", NewMatchParams{Sport: SportHockey, TeamA: teams.Team{ID: "a"}}},
		"same teams":      {"m1", same},
		"even max sets":   {"m1", even},
		"duplicate squad": {"m1", dupSquad},
		"blank squad id":  {"m1", blankSquad},
	}
	for name, tc := range cases {
		if _, err := New(tc.id, tc.p, created); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("%s: expected invalid request, got %v", name, err)
		}
	}
}

func TestNewCricketMatchResetsSquadFlags(t *testing.T) {
	p := params(SportCricket)
	p.SquadA = []SquadPlayer{{ID: " p1 ", Name: "Rohit", IsOut: true}}
	m, err := New("m1", p, created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := m.Cricket
	if c == nil || c.CurrentInnings != 1 || c.BattingTeam != SideA {
		t.Fatalf("unexpected cricket state %+v", c)
	}
	player := c.SquadPlayer(SideA, "p1")
	if player == nil || player.IsOut {
		t.Fatalf("expected trimmed, not-out player, got %+v", player)
	}
	if c.Active().Number != 1 {
		t.Fatalf("expected first innings active")
	}
}

func TestParseSport(t *testing.T) {
	cases := map[string]Sport{
		"cricket":      SportCricket,
		" Kho-Kho ":    SportKhoKho,
		"TABLE_TENNIS": SportTableTennis,
		"TableTennis":  SportTableTennis,
		"volleyball":   SportVolleyball,
	}
	for raw, want := range cases {
		got, ok := ParseSport(raw)
		if !ok || got != want {
			t.Fatalf("ParseSport(%q) = %s, %v; want %s", raw, got, ok, want)
		}
	}
	if _, ok := ParseSport("quidditch"); ok {
		t.Fatal("expected unknown sport to be rejected")
	}
}

func TestSportCatalogue(t *testing.T) {
	models := map[Model]int{}
	for _, s := range Sports() {
		if !s.Valid() {
			t.Fatalf("catalogue lists invalid sport %s", s)
		}
		models[s.Model()]++
	}
	if models[ModelCricket] != 1 || models[ModelGoal] != 2 || models[ModelPoint] != 3 || models[ModelSet] != 3 {
		t.Fatalf("unexpected model distribution %v", models)
	}
	if SportBasketball.MaxPeriods() != 4 || SportFootball.MaxPeriods() != 2 {
		t.Fatal("unexpected period limits")
	}
	if Sport("CURLING").MaxPeriods() != 1 {
		t.Fatal("unknown sport should fall back to one period")
	}
	if !SportCricket.AllowsTossDecision(TossBowl) || SportCricket.AllowsTossDecision(TossServe) {
		t.Fatal("unexpected cricket toss decisions")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusScheduled, StatusLive, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusLive, StatusLive, true},
		{StatusLive, StatusScheduled, false},
		{StatusCompleted, StatusLive, false},
		{StatusLive, "PAUSED", false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestParseSide(t *testing.T) {
	if s, ok := ParseSide("b"); !ok || s != SideB {
		t.Fatalf("expected side B, got %q %v", s, ok)
	}
	if _, ok := ParseSide("C"); ok {
		t.Fatal("expected C to be rejected")
	}
	if SideA.Other() != SideB || SideB.Other() != SideA {
		t.Fatal("Other should flip sides")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	m, _ := New("m1", params(SportVolleyball), created)
	m.Sets.Current = &SetScore{SetNumber: 1}
	b := SideB
	m.Complete(&b)
	if !m.IsCompleted() || m.Winner == nil || m.Winner.ID != "aus" {
		t.Fatalf("expected completion with winner aus, got %+v", m.Winner)
	}
	if m.Sets.Current != nil {
		t.Fatal("completion should clear the active set")
	}
	a := SideA
	m.Complete(&a)
	if m.Winner.ID != "aus" {
		t.Fatal("second completion must not change the winner")
	}
}

func TestMarkLiveOnlyFromScheduled(t *testing.T) {
	m := Match{Status: StatusCompleted}
	m.MarkLive()
	if m.Status != StatusCompleted {
		t.Fatal("MarkLive must not reopen a completed match")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := params(SportCricket)
	p.SquadA = []SquadPlayer{{ID: "a1"}, {ID: "a2"}}
	orig, err := New("m1", p, created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jersey := 7
	orig.Fouls = []Foul{{ID: "f1", JerseyNumber: &jersey}}
	orig.Toss = &Toss{Winner: SideA, Decision: TossBat}

	cp := orig.Clone()
	cp.Cricket.SquadA[0].IsOut = true
	cp.Cricket.Active().Runs = 50
	cp.Cricket.Active().Batters = append(cp.Cricket.Active().Batters, BatterStats{PlayerID: "a1"})
	*cp.Fouls[0].JerseyNumber = 99
	cp.Toss.Decision = TossBowl

	if orig.Cricket.SquadA[0].IsOut || orig.Cricket.Active().Runs != 0 || len(orig.Cricket.Active().Batters) != 0 {
		t.Fatal("clone shares cricket state with original")
	}
	if *orig.Fouls[0].JerseyNumber != 7 || orig.Toss.Decision != TossBat {
		t.Fatal("clone shares pointers with original")
	}
}

func TestCards(t *testing.T) {
	m := Match{Fouls: []Foul{
		{Team: SideA, Type: FoulYellowCard},
		{Team: SideA, Type: FoulPersonal},
		{Team: SideB, Type: FoulRedCard},
		{Team: SideB, Type: FoulYellowCard},
	}}
	want := CardTally{YellowA: 1, FoulsA: 2, YellowB: 1, RedB: 1, FoulsB: 2}
	if got := m.Cards(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMatchJSONRoundTripKeepsUndoLog(t *testing.T) {
	p := params(SportCricket)
	m, _ := New("m1", p, created)
	in := m.Cricket.Active()
	in.Bowlers = []BowlerStats{{PlayerID: "b1", OverRuns: 3}}
	in.Log = []Delivery{{Runs: 3, Legal: true, StrikerBefore: "a1"}}

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Match
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := back.Cricket.Active()
	if len(got.Log) != 1 || got.Log[0].StrikerBefore != "a1" {
		t.Fatalf("undo log lost in round trip: %+v", got.Log)
	}
	if got.Bowlers[0].OverRuns != 3 {
		t.Fatal("running over tally lost in round trip")
	}
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Errorf(KindAllOut, "innings 1 is all out"))
	if !errors.Is(err, ErrAllOut) {
		t.Fatal("expected errors.Is to match by kind")
	}
	if errors.Is(err, ErrNoActiveSet) {
		t.Fatal("different kinds must not match")
	}
	if KindOf(err) != KindAllOut {
		t.Fatalf("unexpected kind %s", KindOf(err))
	}
	if KindOf(errors.New("disk full")) != KindPersistence {
		t.Fatal("foreign errors should map to persistence failures")
	}
	if KindOf(nil) != "" {
		t.Fatal("nil error has no kind")
	}
	wrapped := PersistenceFailure("save", errors.New("locked"))
	if wrapped.Error() != "save failed: locked" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}

func TestResolveActionErrors(t *testing.T) {
	if _, err := (Event{Action: "explode"}).ResolveAction(); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected unknown action, got %v", err)
	}
	if _, err := (Event{}).ResolveAction(); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	half := 2
	if v, ok := (Event{Half: &half}).PeriodValue(); !ok || v != 2 {
		t.Fatal("half should be accepted as period")
	}
}

func TestOversNotation(t *testing.T) {
	in := Innings{Overs: 3, Balls: 4}
	if in.OversNotation() != "3.4" {
		t.Fatalf("unexpected notation %q", in.OversNotation())
	}
	if in.OversFraction() < 3.66 || in.OversFraction() > 3.67 {
		t.Fatalf("unexpected fraction %v", in.OversFraction())
	}
}

func TestSetState(t *testing.T) {
	s := NewSetState(5)
	if s.SetsToWin() != 3 || s.NextSetNumber() != 1 {
		t.Fatalf("unexpected fresh state %+v", s)
	}
	s.Details = append(s.Details, SetResult{SetNumber: 1, Winner: SideA})
	if s.NextSetNumber() != 2 {
		t.Fatal("expected next set to be 2")
	}
}
