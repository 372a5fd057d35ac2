// Package store holds the loaded world: entity catalogs, armies, relations,
// region borders, and the faction adjacency index derived from them.
//
// A Store is not safe for concurrent use. Entities returned by lookups are
// owned by the store; change them only through the mutators below.
package store

import (
	"fmt"

	"github.com/talgya/narivia/internal/economy"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/world"
)

type relationKey struct {
	source, target string
}

// Store is the in-memory entity model of one game.
type Store struct {
	meta world.Meta

	biomes    catalog[world.Biome]
	cultures  catalog[social.Culture]
	factions  catalog[social.Faction]
	holdings  catalog[social.Holding]
	regions   catalog[world.Region]
	resources catalog[economy.Resource]
	units     catalog[military.Unit]

	armies    map[military.ArmyKey]*military.Army
	armyOrder []military.ArmyKey
	relations map[relationKey]int
	byRegion  map[string][]string // region id -> holding ids
	borders   *world.BorderGraph
	adjacency map[factionPair]int
}

// New creates an empty store for a world.
func New(meta world.Meta) *Store {
	return &Store{
		meta:      meta,
		biomes:    newCatalog[world.Biome]("biome"),
		cultures:  newCatalog[social.Culture]("culture"),
		factions:  newCatalog[social.Faction]("faction"),
		holdings:  newCatalog[social.Holding]("holding"),
		regions:   newCatalog[world.Region]("region"),
		resources: newCatalog[economy.Resource]("resource"),
		units:     newCatalog[military.Unit]("unit"),
		armies:    make(map[military.ArmyKey]*military.Army),
		relations: make(map[relationKey]int),
		byRegion:  make(map[string][]string),
		borders:   world.NewBorderGraph(),
		adjacency: make(map[factionPair]int),
	}
}

// Meta returns the world's immutable settings.
func (s *Store) Meta() world.Meta { return s.meta }

// ── Registration ──────────────────────────────────────────────────────

func (s *Store) AddBiome(b world.Biome) error         { return s.biomes.add(b.ID, b) }
func (s *Store) AddCulture(c social.Culture) error    { return s.cultures.add(c.ID, c) }
func (s *Store) AddFaction(f social.Faction) error    { return s.factions.add(f.ID, f) }
func (s *Store) AddResource(r economy.Resource) error { return s.resources.add(r.ID, r) }
func (s *Store) AddUnit(u military.Unit) error        { return s.units.add(u.ID, u) }

// AddRegion registers a region. Regions must be added before borders are
// attached.
func (s *Store) AddRegion(r world.Region) error {
	return s.regions.add(r.ID, r)
}

// AddHolding registers a holding and indexes it under its region.
func (s *Store) AddHolding(h social.Holding) error {
	if err := s.holdings.add(h.ID, h); err != nil {
		return err
	}
	s.byRegion[h.RegionID] = append(s.byRegion[h.RegionID], h.ID)
	return nil
}

// ── Lookups ───────────────────────────────────────────────────────────

func (s *Store) Biome(id string) (*world.Biome, error)         { return s.biomes.get(id) }
func (s *Store) Culture(id string) (*social.Culture, error)    { return s.cultures.get(id) }
func (s *Store) Faction(id string) (*social.Faction, error)    { return s.factions.get(id) }
func (s *Store) Holding(id string) (*social.Holding, error)    { return s.holdings.get(id) }
func (s *Store) Region(id string) (*world.Region, error)       { return s.regions.get(id) }
func (s *Store) Resource(id string) (*economy.Resource, error) { return s.resources.get(id) }
func (s *Store) Unit(id string) (*military.Unit, error)        { return s.units.get(id) }

// Enumerations return entities in catalog order.

func (s *Store) Biomes() []*world.Biome         { return s.biomes.all() }
func (s *Store) Cultures() []*social.Culture    { return s.cultures.all() }
func (s *Store) Factions() []*social.Faction    { return s.factions.all() }
func (s *Store) Holdings() []*social.Holding    { return s.holdings.all() }
func (s *Store) Regions() []*world.Region       { return s.regions.all() }
func (s *Store) Resources() []*economy.Resource { return s.resources.all() }
func (s *Store) Units() []*military.Unit        { return s.units.all() }

// ── Derived queries ───────────────────────────────────────────────────

// FactionRegions returns the regions a faction currently occupies.
func (s *Store) FactionRegions(factionID string) []*world.Region {
	var out []*world.Region
	for _, r := range s.regions.all() {
		if r.FactionID == factionID {
			out = append(out, r)
		}
	}
	return out
}

// RegionCount returns the number of regions a faction occupies.
func (s *Store) RegionCount(factionID string) int {
	n := 0
	for _, id := range s.regions.order {
		if s.regions.byID[id].FactionID == factionID {
			n++
		}
	}
	return n
}

// RegionHoldings returns the built holdings of a region.
func (s *Store) RegionHoldings(regionID string) []*social.Holding {
	var out []*social.Holding
	for _, id := range s.byRegion[regionID] {
		h := s.holdings.byID[id]
		if h.Type != social.HoldingEmpty {
			out = append(out, h)
		}
	}
	return out
}

// RegionSlots returns every holding of a region, built or not.
func (s *Store) RegionSlots(regionID string) []*social.Holding {
	out := make([]*social.Holding, 0, len(s.byRegion[regionID]))
	for _, id := range s.byRegion[regionID] {
		out = append(out, s.holdings.byID[id])
	}
	return out
}

// FactionHoldings returns the built holdings in regions the faction occupies.
func (s *Store) FactionHoldings(factionID string) []*social.Holding {
	var out []*social.Holding
	for _, h := range s.holdings.all() {
		if h.Type == social.HoldingEmpty {
			continue
		}
		if s.occupier(h.RegionID) == factionID {
			out = append(out, h)
		}
	}
	return out
}

// HoldingCount counts holdings of one type in regions the faction occupies.
func (s *Store) HoldingCount(factionID string, t social.HoldingType) int {
	n := 0
	for _, h := range s.holdings.all() {
		if h.Type == t && s.occupier(h.RegionID) == factionID {
			n++
		}
	}
	return n
}

// FactionCapital returns the capital a faction both owns by right and still
// occupies. ok is false once the capital has been conquered.
func (s *Store) FactionCapital(factionID string) (regionID string, ok bool) {
	for _, r := range s.regions.all() {
		if r.Type == world.RegionCapital && r.FactionID == factionID && r.SovereignFactionID == factionID {
			return r.ID, true
		}
	}
	return "", false
}

func (s *Store) occupier(regionID string) string {
	if r, ok := s.regions.byID[regionID]; ok {
		return r.FactionID
	}
	return ""
}

// ── Mutations ─────────────────────────────────────────────────────────

// SetWealth sets a faction's treasury.
func (s *Store) SetWealth(factionID string, wealth int) error {
	f, err := s.factions.get(factionID)
	if err != nil {
		return err
	}
	f.Wealth = wealth
	return nil
}

// AddWealth adjusts a faction's treasury. Wealth may go negative.
func (s *Store) AddWealth(factionID string, delta int) error {
	f, err := s.factions.get(factionID)
	if err != nil {
		return err
	}
	f.Wealth += delta
	return nil
}

// MarkEliminated permanently removes a faction from play.
func (s *Store) MarkEliminated(factionID string) error {
	f, err := s.factions.get(factionID)
	if err != nil {
		return err
	}
	f.Alive = false
	return nil
}

// SetHoldingType changes what is built in a holding slot.
func (s *Store) SetHoldingType(holdingID string, t social.HoldingType) error {
	h, err := s.holdings.get(holdingID)
	if err != nil {
		return err
	}
	h.Type = t
	return nil
}

// SetRelation sets the relation between two factions in both directions,
// clamped to the valid range.
func (s *Store) SetRelation(a, b string, value int) error {
	if err := s.checkPair(a, b); err != nil {
		return err
	}
	v := social.ClampRelation(value)
	s.relations[relationKey{a, b}] = v
	s.relations[relationKey{b, a}] = v
	return nil
}

// ChangeRelation shifts the relation between two factions by delta.
func (s *Store) ChangeRelation(a, b string, delta int) error {
	if err := s.checkPair(a, b); err != nil {
		return err
	}
	return s.SetRelation(a, b, s.relations[relationKey{a, b}]+delta)
}

// Relation returns the relation value from a towards b.
func (s *Store) Relation(a, b string) (int, error) {
	if err := s.checkPair(a, b); err != nil {
		return 0, err
	}
	return s.relations[relationKey{a, b}], nil
}

// Relations returns every stored relation, both directions, in faction order.
func (s *Store) Relations() []social.Relation {
	var out []social.Relation
	for _, a := range s.factions.order {
		for _, b := range s.factions.order {
			if v, ok := s.relations[relationKey{a, b}]; ok {
				out = append(out, social.Relation{SourceID: a, TargetID: b, Value: v})
			}
		}
	}
	return out
}

func (s *Store) checkPair(a, b string) error {
	if !s.factions.has(a) {
		return &LookupError{Kind: "faction", ID: a}
	}
	if !s.factions.has(b) {
		return &LookupError{Kind: "faction", ID: b}
	}
	if a == b {
		return fmt.Errorf("faction %q: %w", a, ErrSelfRelation)
	}
	return nil
}
