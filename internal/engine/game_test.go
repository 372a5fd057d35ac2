package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/talgya/narivia/internal/engine"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/store"
	"github.com/talgya/narivia/internal/world"
	"github.com/talgya/narivia/internal/worldtest"
)

// newGame starts a session on a single fixture world named "test".
func newGame(t *testing.T, spec worldtest.Spec, player string) *engine.Game {
	t.Helper()
	g, err := engine.NewGame(context.Background(), worldtest.Source{"test": spec}, "test", player, engine.Config{})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func owner(t *testing.T, g *engine.Game, regionID string) string {
	t.Helper()
	r, err := g.Store.Region(regionID)
	if err != nil {
		t.Fatalf("Region(%s): %v", regionID, err)
	}
	return r.FactionID
}

func faction(t *testing.T, g *engine.Game, id string) *social.Faction {
	t.Helper()
	f, err := g.Store.Faction(id)
	if err != nil {
		t.Fatalf("Faction(%s): %v", id, err)
	}
	return f
}

func TestNewGame_SeedsFactions(t *testing.T) {
	t.Parallel()

	spec := worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
		Units:  []military.Unit{worldtest.Militia(), {ID: "knight", Power: 5}},
		Meta:   world.Meta{StartingWealth: 300, StartingTroops: 7},
	}
	g := newGame(t, spec, "f1")

	if g.SessionID == "" {
		t.Fatal("missing session id")
	}
	if g.RecruitUnitID() != world.DefaultRecruitUnitID {
		t.Fatalf("recruit unit = %q", g.RecruitUnitID())
	}
	for _, id := range []string{"f1", "f2"} {
		f := faction(t, g, id)
		if f.Wealth != 300 || !f.Alive {
			t.Errorf("%s: wealth=%d alive=%v", id, f.Wealth, f.Alive)
		}
		if got := len(g.Store.FactionArmies(id)); got != 2 {
			t.Errorf("%s: %d army entries, want 2", id, got)
		}
		if got := g.Store.FactionTroops(id); got != 14 {
			t.Errorf("%s: %d troops, want 14", id, got)
		}
		if p := g.FactionPhase(id); p != engine.PhaseIdle {
			t.Errorf("%s: phase %q", id, p)
		}
	}
	if v, err := g.Store.Relation("f1", "f2"); err != nil || v != 0 {
		t.Fatalf("relation = %d, %v", v, err)
	}
}

func TestNewGame_Errors(t *testing.T) {
	t.Parallel()

	src := worldtest.Source{"test": {
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
	}}
	ctx := context.Background()

	if _, err := engine.NewGame(ctx, src, "missing", "f1", engine.Config{}); err == nil {
		t.Error("expected error for unknown world")
	}
	if _, err := engine.NewGame(ctx, src, "test", "nobody", engine.Config{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown player: got %v", err)
	}
	if _, err := engine.NewGame(ctx, src, "test", "f1", engine.Config{RecruitUnitID: "dragon"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown recruit unit: got %v", err)
	}
}

func TestFactionAt(t *testing.T) {
	t.Parallel()

	g := newGame(t, worldtest.Spec{
		Map:    []string{"ab"},
		Owners: map[string]string{"a": "f1", "b": "f2"},
	}, "f1")

	if f, ok := g.FactionAt(0, 0); !ok || f != "f1" {
		t.Errorf("FactionAt(0,0) = %q, %v", f, ok)
	}
	if f, ok := g.FactionAt(worldtest.Scale, 0); !ok || f != "f2" {
		t.Errorf("FactionAt(scale,0) = %q, %v", f, ok)
	}
	if _, ok := g.FactionAt(-1, 0); ok {
		t.Error("FactionAt out of bounds should fail")
	}
}
