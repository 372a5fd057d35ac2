package world_test

import (
	"testing"

	"github.com/talgya/narivia/internal/world"
)

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	cfg := world.SmallTestConfig()
	a := world.Generate(cfg)
	b := world.Generate(cfg)

	if a.Grid.TileCount() != cfg.Width*cfg.Height {
		t.Fatalf("tile count %d", a.Grid.TileCount())
	}
	for i := range a.Grid.Tiles {
		if a.Grid.Tiles[i] != b.Grid.Tiles[i] {
			t.Fatalf("tile %d differs between runs with the same seed", i)
		}
	}
	if len(a.Seeds) == 0 {
		t.Fatal("no regions generated")
	}

	total := 0
	for _, s := range a.Seeds {
		if s.Area <= 0 {
			t.Errorf("region %s has no area", s.ID)
		}
		total += s.Area
	}
	if total != a.Grid.TileCount() {
		t.Errorf("region areas sum to %d, want %d", total, a.Grid.TileCount())
	}
}

func TestPartitionTerritories(t *testing.T) {
	t.Parallel()

	m := world.Generate(world.SmallTestConfig())
	terr := world.PartitionTerritories(m.Seeds, 2)

	if len(terr.Capitals) != 2 {
		t.Fatalf("capitals: %v", terr.Capitals)
	}
	if terr.Capitals[0] == terr.Capitals[1] {
		t.Fatal("capitals must be distinct")
	}
	for f, c := range terr.Capitals {
		if terr.Owner[c] != f {
			t.Errorf("capital %d is owned by faction %d, want %d", c, terr.Owner[c], f)
		}
	}
}
