// Package worldtest builds small in-memory worlds from ASCII maps for tests.
//
// Every character of a map row is one region, scaled up to a Scale×Scale
// block of tiles so that characters touching along an edge always share a
// border. Diagonal contact is only picked up towards the upper left.
package worldtest

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"testing"

	"github.com/talgya/narivia/internal/loader"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/world"
)

// Scale is the tile size of one map character.
const Scale = world.BorderStride

// Fixture ids.
const (
	CultureID = "common"
	BiomeID   = "plains"
)

// Spec describes a test world.
type Spec struct {
	// Map rows; each rune is a region id.
	Map []string
	// Owners maps region id to occupying faction id.
	Owners map[string]string
	// Factions lists faction ids in catalog order. When empty, owners are
	// used in order of first appearance on the map.
	Factions []string
	// Capitals lists regions of type Capital.
	Capitals []string
	// Holdings are added as given.
	Holdings []social.Holding
	// Units default to Militia.
	Units []military.Unit
	// Meta overrides; width, height and id are filled in when zero.
	Meta world.Meta
}

// Militia is the default fixture unit: power 1, no upkeep.
func Militia() military.Unit {
	return military.Unit{ID: world.DefaultRecruitUnitID, Name: "Militia", Power: 1, Health: 10, Price: 10}
}

// Define turns a spec into a world definition.
func Define(spec Spec) (loader.Definition, error) {
	if len(spec.Map) == 0 || len(spec.Map[0]) == 0 {
		return loader.Definition{}, fmt.Errorf("empty map")
	}
	rows := make([][]rune, len(spec.Map))
	for y, row := range spec.Map {
		rows[y] = []rune(row)
		if len(rows[y]) != len(rows[0]) {
			return loader.Definition{}, fmt.Errorf("row %d has %d cells, want %d", y, len(rows[y]), len(rows[0]))
		}
	}

	grid := world.NewGrid(len(rows[0])*Scale, len(rows)*Scale)
	var regionOrder []string
	seen := make(map[string]bool)
	for cy, row := range rows {
		for cx, ch := range row {
			id := string(ch)
			if !seen[id] {
				seen[id] = true
				regionOrder = append(regionOrder, id)
			}
			for y := cy * Scale; y < (cy+1)*Scale; y++ {
				for x := cx * Scale; x < (cx+1)*Scale; x++ {
					grid.Set(x, y, world.Tile{RegionID: id, BiomeID: BiomeID})
				}
			}
		}
	}

	factionIDs := spec.Factions
	if len(factionIDs) == 0 {
		known := make(map[string]bool)
		for _, r := range regionOrder {
			if f := spec.Owners[r]; f != "" && !known[f] {
				known[f] = true
				factionIDs = append(factionIDs, f)
			}
		}
	}

	capitals := make(map[string]bool, len(spec.Capitals))
	for _, c := range spec.Capitals {
		capitals[c] = true
	}

	cat := loader.Catalog{
		Meta:     spec.Meta,
		Biomes:   []world.Biome{{ID: BiomeID, Name: "Plains", Colour: world.RGB(0x9C, 0xC8, 0x5A)}},
		Cultures: []social.Culture{{ID: CultureID, Name: "Common"}},
		Holdings: spec.Holdings,
		Units:    spec.Units,
	}
	if cat.Meta.ID == "" {
		cat.Meta.ID = "fixture"
		cat.Meta.Name = "Fixture"
	}
	if cat.Meta.Width == 0 {
		cat.Meta.Width, cat.Meta.Height = grid.Width, grid.Height
	}
	if len(cat.Units) == 0 {
		cat.Units = []military.Unit{Militia()}
	}
	for i, id := range factionIDs {
		cat.Factions = append(cat.Factions, social.Faction{
			ID:        id,
			Name:      "Faction " + id,
			Colour:    world.RegionColour(1000 + i),
			CultureID: CultureID,
		})
	}
	for i, id := range regionOrder {
		r := world.Region{
			ID:        id,
			Name:      "Region " + id,
			Colour:    world.RegionColour(i),
			FactionID: spec.Owners[id],
		}
		if capitals[id] {
			r.Type = world.RegionCapital
		}
		cat.Regions = append(cat.Regions, r)
	}

	return loader.Definition{Catalog: cat, Grid: grid}, nil
}

// Build assembles a spec into a world, failing the test on error.
func Build(t testing.TB, spec Spec) *loader.World {
	t.Helper()
	def, err := Define(spec)
	if err != nil {
		t.Fatalf("worldtest.Define: %v", err)
	}
	w, err := loader.Assemble(def.Catalog, def.Grid)
	if err != nil {
		t.Fatalf("loader.Assemble: %v", err)
	}
	return w
}

// Source serves fixture worlds by id, for code that loads worlds by name.
type Source map[string]Spec

// Load builds the named world. Each call returns a fresh world.
func (s Source) Load(_ context.Context, worldID string) (*loader.World, error) {
	spec, ok := s[worldID]
	if !ok {
		return nil, &loader.LoadError{WorldID: worldID, Op: "meta", Err: fmt.Errorf("no fixture %q: %w", worldID, fs.ErrNotExist)}
	}
	def, err := Define(spec)
	if err != nil {
		return nil, err
	}
	return loader.Assemble(def.Catalog, def.Grid)
}

// List returns the meta of every fixture, sorted by id. Each meta carries
// its map key as id.
func (s Source) List(context.Context) ([]world.Meta, error) {
	metas := make([]world.Meta, 0, len(s))
	for id, spec := range s {
		def, err := Define(spec)
		if err != nil {
			return nil, err
		}
		m := def.Catalog.Meta
		m.ID = id
		metas = append(metas, m)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	return metas, nil
}
