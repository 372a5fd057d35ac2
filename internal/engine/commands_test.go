package engine_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/talgya/narivia/internal/engine"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/world"
	"github.com/talgya/narivia/internal/worldtest"
)

func TestRecruitUnits_ClampsToWealth(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Meta:   world.Meta{StartingWealth: 105},
	}, "f1")

	n, err := g.RecruitUnits(world.DefaultRecruitUnitID, 25)
	if err != nil {
		t.Fatalf("RecruitUnits: %v", err)
	}
	if n != 10 {
		t.Fatalf("recruited %d, want 10", n)
	}
	if w := faction(t, g, "f1").Wealth; w != 5 {
		t.Fatalf("wealth = %d, want 5", w)
	}
	if got := g.Store.FactionTroops("f1"); got != 10 {
		t.Fatalf("troops = %d, want 10", got)
	}

	n, err = g.RecruitUnits(world.DefaultRecruitUnitID, 3)
	if err != nil || n != 0 {
		t.Fatalf("second recruit = %d, %v; want 0, nil", n, err)
	}
}

func TestBuildHolding(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Holdings: []social.Holding{
			{ID: "h1", RegionID: "a"},
			{ID: "h2", RegionID: "a", Type: social.HoldingCastle},
			{ID: "h3", RegionID: "b"},
			{ID: "h4", RegionID: "a"},
		},
		Meta: world.Meta{StartingWealth: 10, HoldingsPrice: 50, HoldingSlotsPerFaction: 2},
	}, "f1")

	steps := []struct {
		name    string
		holding string
		typ     social.HoldingType
		want    error
	}{
		{"already built", "h2", social.HoldingCity, engine.ErrHoldingOccupied},
		{"foreign region", "h3", social.HoldingCity, engine.ErrNotOwner},
		{"empty type", "h1", social.HoldingEmpty, engine.ErrInvalidHoldingType},
		{"too poor", "h1", social.HoldingCity, engine.ErrInsufficientWealth},
	}
	for _, s := range steps {
		if err := g.BuildHolding(s.holding, s.typ); !errors.Is(err, s.want) {
			t.Fatalf("%s: got %v, want %v", s.name, err, s.want)
		}
	}

	if err := g.Store.SetWealth("f1", 100); err != nil {
		t.Fatal(err)
	}
	if err := g.BuildHolding("h1", social.HoldingCity); err != nil {
		t.Fatalf("BuildHolding(h1): %v", err)
	}
	if w := faction(t, g, "f1").Wealth; w != 50 {
		t.Fatalf("wealth = %d, want 50", w)
	}
	if got := g.Store.HoldingCount("f1", social.HoldingCity); got != 1 {
		t.Fatalf("cities = %d, want 1", got)
	}
	if err := g.BuildHolding("h4", social.HoldingTemple); !errors.Is(err, engine.ErrNoHoldingSlots) {
		t.Fatalf("slot limit: got %v", err)
	}
}

func TestRelations_Commands(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"abc"},
		Owners: map[string]string{"a": "f1", "b": "f2", "c": "f3"},
	}, "f1")

	if err := g.SetRelations("f1", "f2", 90); err != nil {
		t.Fatal(err)
	}
	if err := g.ChangeRelations("f2", "f1", 30); err != nil {
		t.Fatal(err)
	}
	for _, pair := range [][2]string{{"f1", "f2"}, {"f2", "f1"}} {
		if v, _ := g.Store.Relation(pair[0], pair[1]); v != 100 {
			t.Fatalf("relation %v = %d, want 100", pair, v)
		}
	}
	if v, _ := g.Store.Relation("f1", "f3"); v != 0 {
		t.Fatalf("untouched relation = %d", v)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	t.Parallel()

	src := worldtest.Source{"test": {
		Map: []string{
			"aabc",
			"ddbc",
		},
		Owners:   map[string]string{"a": "f1", "b": "f2", "c": "f3", "d": "f4"},
		Capitals: []string{"a", "c"},
		Holdings: []social.Holding{{ID: "h1", RegionID: "a"}},
		Meta: world.Meta{
			BaseRegionIncome:       5,
			BaseFactionRecruitment: 4,
			MinTroopsPerAttack:     12,
			StartingWealth:         200,
			StartingTroops:         10,
			HoldingsPrice:          20,
		},
	}}
	ctx := context.Background()
	g, err := engine.NewGame(ctx, src, "test", "f1", engine.Config{})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := g.BuildHolding("h1", social.HoldingTemple); err != nil {
		t.Fatalf("BuildHolding: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := g.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}

	saved := g.State()
	restored, err := engine.Restore(ctx, src, saved, engine.Config{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := restored.State(); !reflect.DeepEqual(saved, got) {
		t.Fatalf("restored state differs:\nsaved    %+v\nrestored %+v", saved, got)
	}

	// Both sessions continue identically.
	a, errA := g.NextTurn()
	b, errB := restored.NextTurn()
	if errA != nil || errB != nil {
		t.Fatalf("NextTurn: %v / %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("reports diverged:\n%+v\n%+v", a, b)
	}
	for _, f := range g.Store.Factions() {
		for _, other := range g.Store.Factions() {
			if g.Store.FactionsAdjacent(f.ID, other.ID) != restored.Store.FactionsAdjacent(f.ID, other.ID) {
				t.Fatalf("adjacency index differs for %s/%s", f.ID, other.ID)
			}
		}
	}
}

func TestRestore_KeepsEventLog(t *testing.T) {
	t.Parallel()

	src := worldtest.Source{"test": {
		Map:      []string{"ab"},
		Owners:   map[string]string{"a": "f1", "b": "f2"},
		Holdings: []social.Holding{{ID: "h1", RegionID: "a"}},
		Meta:     world.Meta{StartingWealth: 100, HoldingsPrice: 10},
	}}
	ctx := context.Background()
	g, err := engine.NewGame(ctx, src, "test", "f1", engine.Config{})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := g.BuildHolding("h1", social.HoldingCity); err != nil {
		t.Fatalf("BuildHolding: %v", err)
	}
	want := g.RecentEvents(0)
	if len(want) == 0 {
		t.Fatal("no events recorded")
	}

	restored, err := engine.Restore(ctx, src, g.State(), engine.Config{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := restored.RecentEvents(0); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}
}

func TestRestore_RejectsUnknownPhase(t *testing.T) {
	t.Parallel()

	src := worldtest.Source{"test": {
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
	}}
	ctx := context.Background()
	g, err := engine.NewGame(ctx, src, "test", "f1", engine.Config{})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	s := g.State()
	s.Factions[1].Phase = "plundering"

	restored, err := engine.Restore(ctx, src, s, engine.Config{})
	if !errors.Is(err, engine.ErrUnknownPhase) {
		t.Fatalf("Restore error = %v, want ErrUnknownPhase", err)
	}
	if restored != nil {
		t.Fatal("restored a game with an unknown phase")
	}
}
