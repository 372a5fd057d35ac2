package loader

import (
	"errors"
	"fmt"

	"github.com/talgya/narivia/internal/economy"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/store"
	"github.com/talgya/narivia/internal/world"
)

// Catalog is the authored content of a world, one slice per category.
type Catalog struct {
	Meta      world.Meta
	Biomes    []world.Biome
	Cultures  []social.Culture
	Factions  []social.Faction
	Holdings  []social.Holding
	Regions   []world.Region
	Resources []economy.Resource
	Units     []military.Unit
}

// World is a fully assembled game world.
type World struct {
	Store *store.Store
	Grid  *world.Grid
}

// Assemble registers a catalog into a new store, checks cross references,
// and derives region borders from the grid. Factions start alive; a region
// without a sovereign is its occupier's by right.
func Assemble(cat Catalog, grid *world.Grid) (*World, error) {
	st := store.New(cat.Meta)

	var errs []error
	for _, b := range cat.Biomes {
		errs = append(errs, st.AddBiome(b))
	}
	for _, c := range cat.Cultures {
		errs = append(errs, st.AddCulture(c))
	}
	for _, f := range cat.Factions {
		f.Alive = true
		errs = append(errs, st.AddFaction(f))
	}
	for _, r := range cat.Regions {
		if r.SovereignFactionID == "" {
			r.SovereignFactionID = r.FactionID
		}
		errs = append(errs, st.AddRegion(r))
	}
	for _, h := range cat.Holdings {
		errs = append(errs, st.AddHolding(h))
	}
	for _, r := range cat.Resources {
		errs = append(errs, st.AddResource(r))
	}
	for _, u := range cat.Units {
		errs = append(errs, st.AddUnit(u))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := validateReferences(st, grid); err != nil {
		return nil, err
	}

	st.AttachBorders(world.DeriveBorders(grid))
	return &World{Store: st, Grid: grid}, nil
}

func validateReferences(st *store.Store, grid *world.Grid) error {
	var errs []error

	for _, f := range st.Factions() {
		if _, err := st.Culture(f.CultureID); err != nil {
			errs = append(errs, fmt.Errorf("faction %q: %w", f.ID, err))
		}
	}
	for _, r := range st.Regions() {
		if _, err := st.Faction(r.FactionID); err != nil {
			errs = append(errs, fmt.Errorf("region %q: occupier: %w", r.ID, err))
		}
		if _, err := st.Faction(r.SovereignFactionID); err != nil {
			errs = append(errs, fmt.Errorf("region %q: sovereign: %w", r.ID, err))
		}
	}
	for _, h := range st.Holdings() {
		if _, err := st.Region(h.RegionID); err != nil {
			errs = append(errs, fmt.Errorf("holding %q: %w", h.ID, err))
		}
	}
	if _, err := st.Unit(st.Meta().RecruitUnit()); err != nil {
		errs = append(errs, fmt.Errorf("recruit unit: %w", err))
	}

	if grid == nil {
		errs = append(errs, errors.New("missing tile grid"))
	} else {
		for regionID := range grid.RegionAreas() {
			if _, err := st.Region(regionID); err != nil {
				errs = append(errs, fmt.Errorf("tile grid: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}
