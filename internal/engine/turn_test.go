package engine_test

import (
	"errors"
	"testing"

	"github.com/talgya/narivia/internal/engine"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/world"
	"github.com/talgya/narivia/internal/worldtest"
)

func TestScenarioA_PlayerAttackAdvancesTurn(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Meta:   world.Meta{StartingTroops: 10, MinTroopsPerAttack: 5},
	}, "f1")
	if err := g.Store.SetArmy("f1", world.DefaultRecruitUnitID, 30); err != nil {
		t.Fatal(err)
	}

	result, report, err := g.PlayerAttackRegion("b")
	if err != nil {
		t.Fatalf("PlayerAttackRegion: %v", err)
	}
	if result != engine.Victory {
		t.Fatalf("result = %s, want victory (30 vs 10)", result)
	}
	if got := owner(t, g, "b"); got != "f1" {
		t.Fatalf("owner(b) = %s, want f1", got)
	}
	if g.Turn != 1 || report.Turn != 1 {
		t.Fatalf("turn = %d (report %d), want 1", g.Turn, report.Turn)
	}

	atk := report.Attacks[0]
	if atk.AttackerID != "f1" || atk.DefenderID != "f2" || atk.RegionID != "b" {
		t.Fatalf("first attack = %+v", atk)
	}
	// 30*10/(2*40) and 10*30/(2*40)
	if atk.AttackerLosses != 3 || atk.DefenderLosses != 3 {
		t.Fatalf("losses = %d/%d, want 3/3", atk.AttackerLosses, atk.DefenderLosses)
	}
	if v, _ := g.Store.Relation("f1", "f2"); v != -engine.RelationPenaltyPerAttack {
		t.Fatalf("relation = %d, want %d", v, -engine.RelationPenaltyPerAttack)
	}

	// f2 lost its only region before its own turn step.
	if len(report.Eliminated) != 1 || report.Eliminated[0] != "f2" {
		t.Fatalf("eliminated = %v, want [f2]", report.Eliminated)
	}
}

func TestPlayerAttack_TieFavoursDefender(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Meta:   world.Meta{StartingTroops: 10, MinTroopsPerAttack: 1000},
	}, "f1")

	result, report, err := g.PlayerAttackRegion("b")
	if err != nil {
		t.Fatalf("PlayerAttackRegion: %v", err)
	}
	if result != engine.Defeat {
		t.Fatalf("result = %s, want defeat on equal power", result)
	}
	if got := owner(t, g, "b"); got != "f2" {
		t.Fatalf("owner(b) = %s, want f2", got)
	}
	if report.Turn != 1 {
		t.Fatalf("turn = %d, want 1", report.Turn)
	}
}

func TestScenarioB_Economy(t *testing.T) {
	t.Parallel()

	militia := worldtest.Militia()
	militia.Maintenance = 1
	g := newGame(t, worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Units:  []military.Unit{militia},
		Meta: world.Meta{
			BaseRegionIncome:   100,
			StartingWealth:     50,
			StartingTroops:     40,
			MinTroopsPerAttack: 1000,
		},
	}, "f1")

	if _, err := g.NextTurn(); err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if w := faction(t, g, "f1").Wealth; w != 110 {
		t.Fatalf("wealth = %d, want 110", w)
	}
}

func TestRecruitment_UsesConfiguredUnit(t *testing.T) {
	t.Parallel()

	spec := worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Units:  []military.Unit{worldtest.Militia(), {ID: "levy", Power: 1}},
		Meta: world.Meta{
			BaseRegionRecruitment:  2,
			BaseFactionRecruitment: 3,
			MinTroopsPerAttack:     1000,
			RecruitUnitID:          "levy",
		},
	}
	g := newGame(t, spec, "f1")
	if _, err := g.NextTurn(); err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if a, _ := g.Store.Army("f1", "levy"); a.Size != 5 {
		t.Fatalf("levy = %d, want 5", a.Size)
	}
	if a, _ := g.Store.Army("f1", world.DefaultRecruitUnitID); a.Size != 0 {
		t.Fatalf("militia = %d, want 0", a.Size)
	}
}

func TestScenarioC_EliminationIsPermanent(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"abc"},
		Owners: map[string]string{"a": "f1", "b": "f2", "c": "f3"},
		Meta:   world.Meta{StartingWealth: 20, StartingTroops: 10, MinTroopsPerAttack: 5},
	}, "f3")
	if err := g.Store.SetArmy("f1", world.DefaultRecruitUnitID, 50); err != nil {
		t.Fatal(err)
	}

	// Turn 1: f1 takes b; f2 comes later in catalog order and is eliminated
	// at its own check.
	report, err := g.NextTurn()
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if got := owner(t, g, "b"); got != "f1" {
		t.Fatalf("owner(b) = %s, want f1", got)
	}
	f2 := faction(t, g, "f2")
	if f2.Alive {
		t.Fatal("f2 still alive after losing its only region")
	}
	if g.FactionPhase("f2") != engine.PhaseEliminated {
		t.Fatalf("f2 phase = %s", g.FactionPhase("f2"))
	}
	if len(report.Eliminated) != 1 || report.Eliminated[0] != "f2" {
		t.Fatalf("eliminated = %v", report.Eliminated)
	}
	wealth, troops := f2.Wealth, g.Store.FactionTroops("f2")

	// Turn 2: f1 attacks the player's region.
	report, err = g.NextTurn()
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if f2.Alive || f2.Wealth != wealth || g.Store.FactionTroops("f2") != troops {
		t.Fatal("eliminated faction was processed again")
	}
	for _, e := range report.Eliminated {
		if e == "f2" {
			t.Fatal("f2 eliminated twice")
		}
	}
	if len(report.Notifications) != 1 {
		t.Fatalf("notifications = %+v, want one", report.Notifications)
	}
	n := report.Notifications[0]
	if n.RegionID != "c" || n.AttackerID != "f1" || n.Result != engine.Victory {
		t.Fatalf("notification = %+v", n)
	}

	drained := g.DrainNotifications()
	if len(drained) != 1 || drained[0] != n {
		t.Fatalf("DrainNotifications = %+v", drained)
	}
	if len(g.DrainNotifications()) != 0 {
		t.Fatal("queue not cleared by drain")
	}

	// The player lost its last region in turn 2 and was eliminated.
	if faction(t, g, "f3").Alive {
		t.Fatal("player should be eliminated")
	}
	if _, _, err := g.PlayerAttackRegion("a"); !errors.Is(err, engine.ErrPlayerEliminated) {
		t.Fatalf("attack by eliminated player: got %v", err)
	}
}

func TestElimination_ObservesEarlierFactions(t *testing.T) {
	t.Parallel()

	// f2 comes first in catalog order, so it is processed before f1 conquers
	// its region and only drops out on the following turn.
	g := newGame(t, worldtest.Spec{
		Map:      []string{"abc"},
		Owners:   map[string]string{"a": "f1", "b": "f2", "c": "f3"},
		Factions: []string{"f2", "f1", "f3"},
		Meta:     world.Meta{StartingTroops: 10, MinTroopsPerAttack: 5, BaseFactionRecruitment: 1},
	}, "f3")
	if err := g.Store.SetArmy("f1", world.DefaultRecruitUnitID, 50); err != nil {
		t.Fatal(err)
	}
	if err := g.Store.SetArmy("f2", world.DefaultRecruitUnitID, 0); err != nil {
		t.Fatal(err)
	}

	report, err := g.NextTurn()
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if got := owner(t, g, "b"); got != "f1" {
		t.Fatalf("owner(b) = %s, want f1", got)
	}
	if !faction(t, g, "f2").Alive || len(report.Eliminated) != 0 {
		t.Fatal("f2 must survive the turn in which it was already processed")
	}
	if got := g.Store.FactionTroops("f2"); got != 1 {
		t.Fatalf("f2 recruited %d troops before losing its region, want 1", got)
	}

	report, err = g.NextTurn()
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if faction(t, g, "f2").Alive {
		t.Fatal("f2 should be eliminated on the next turn")
	}
	if len(report.Eliminated) == 0 || report.Eliminated[0] != "f2" {
		t.Fatalf("eliminated = %v", report.Eliminated)
	}
}

func TestAIAttack_RequiresMinimumTroops(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Meta:   world.Meta{StartingTroops: 9, MinTroopsPerAttack: 10},
	}, "f1")

	report, err := g.NextTurn()
	if err != nil {
		t.Fatalf("NextTurn: %v", err)
	}
	if len(report.Attacks) != 0 {
		t.Fatalf("attacks = %+v, want none below the minimum", report.Attacks)
	}
	if g.FactionPhase("f2") != engine.PhaseIdle {
		t.Fatalf("f2 phase = %s", g.FactionPhase("f2"))
	}
}
