package loader

import (
	"fmt"

	"github.com/talgya/narivia/internal/economy"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/world"
)

var (
	factionNames   = []string{"Alpalet", "Bruthmor", "Caerlen", "Dunhavar", "Eskerra", "Felgard", "Gorvath", "Hallow Reach"}
	factionColours = []world.Colour{
		world.RGB(0xB0, 0x30, 0x30),
		world.RGB(0x30, 0x50, 0xB0),
		world.RGB(0xD0, 0xA0, 0x20),
		world.RGB(0x30, 0x90, 0x40),
		world.RGB(0x80, 0x40, 0xA0),
		world.RGB(0xE0, 0x70, 0x20),
		world.RGB(0x40, 0xA0, 0xA0),
		world.RGB(0x70, 0x70, 0x70),
	}
	namePrefixes = []string{"Ash", "Bel", "Cor", "Dra", "Eld", "Fen", "Gal", "Har", "Ist", "Kel", "Lor", "Mar", "Nor", "Ost", "Ral", "Sul", "Tor", "Vel"}
	nameSuffixes = []string{"ford", "mere", "wick", "dale", "holm", "gate", "moor", "crest", "vale", "stead"}
)

// DefaultUnits returns the unit roster used by generated worlds. The first
// entry is the recruit unit.
func DefaultUnits() []military.Unit {
	return []military.Unit{
		{ID: world.DefaultRecruitUnitID, Name: "Militia", Type: "infantry", Power: 1, Health: 10, Price: 5, Maintenance: 1},
		{ID: "spearmen", Name: "Spearmen", Type: "infantry", Power: 3, Health: 20, Price: 15, Maintenance: 2},
		{ID: "archers", Name: "Archers", Type: "ranged", Power: 4, Health: 15, Price: 20, Maintenance: 2},
		{ID: "knights", Name: "Knights", Type: "cavalry", Power: 8, Health: 40, Price: 50, Maintenance: 5},
	}
}

// DefaultMeta returns balanced economic constants for a generated world.
func DefaultMeta(id, name string, width, height int) world.Meta {
	return world.Meta{
		ID:                     id,
		Name:                   name,
		Author:                 "worldgen",
		Version:                "1",
		Width:                  width,
		Height:                 height,
		BaseRegionIncome:       10,
		BaseRegionRecruitment:  1,
		BaseFactionRecruitment: 5,
		MinTroopsPerAttack:     40,
		HoldingSlotsPerFaction: 12,
		HoldingsPrice:          150,
		StartingWealth:         500,
		StartingTroops:         10,
		RecruitUnitID:          world.DefaultRecruitUnitID,
	}
}

// Generated turns a procedural map into a playable world definition.
// Each faction gets a capital and the regions nearest to it; every region
// has one holding slot, and capitals start with a castle.
func Generated(id, name string, m *world.GeneratedMap, factions int) Definition {
	factions = max(1, min(factions, len(factionNames), len(m.Seeds)))
	terr := world.PartitionTerritories(m.Seeds, factions)

	cultures := []social.Culture{
		{ID: "highland", Name: "Highland", PlaceNames: namePrefixes[:9]},
		{ID: "lowland", Name: "Lowland", PlaceNames: namePrefixes[9:]},
	}

	fs := make([]social.Faction, factions)
	for i := range fs {
		fs[i] = social.Faction{
			ID:        fmt.Sprintf("f%d", i+1),
			Name:      factionNames[i],
			Colour:    factionColours[i],
			CultureID: cultures[i%len(cultures)].ID,
		}
	}

	capital := make(map[int]bool, len(terr.Capitals))
	for _, c := range terr.Capitals {
		capital[c] = true
	}

	regions := make([]world.Region, len(m.Seeds))
	holdings := make([]social.Holding, len(m.Seeds))
	for i, s := range m.Seeds {
		owner := fs[terr.Owner[i]].ID
		r := world.Region{
			ID:                 s.ID,
			Name:               regionName(i),
			Description:        fmt.Sprintf("Mostly %s.", s.Biome),
			Colour:             world.RegionColour(i),
			FactionID:          owner,
			SovereignFactionID: owner,
		}
		h := social.Holding{
			ID:       "h-" + s.ID,
			Name:     r.Name + " Keep",
			RegionID: s.ID,
		}
		if capital[i] {
			r.Type = world.RegionCapital
			h.Type = social.HoldingCastle
		}
		regions[i] = r
		holdings[i] = h
	}

	return Definition{
		Catalog: Catalog{
			Meta:     DefaultMeta(id, name, m.Grid.Width, m.Grid.Height),
			Biomes:   m.Biomes,
			Cultures: cultures,
			Factions: fs,
			Holdings: holdings,
			Regions:  regions,
			Resources: []economy.Resource{
				{ID: "grain", Name: "Grain", Type: "food"},
				{ID: "timber", Name: "Timber", Type: "material"},
				{ID: "iron", Name: "Iron", Type: "material"},
			},
			Units: DefaultUnits(),
		},
		Grid: m.Grid,
	}
}

func regionName(i int) string {
	p := namePrefixes[i%len(namePrefixes)]
	s := nameSuffixes[(i/len(namePrefixes))%len(nameSuffixes)]
	if i >= len(namePrefixes)*len(nameSuffixes) {
		return fmt.Sprintf("%s%s %d", p, s, i/(len(namePrefixes)*len(nameSuffixes))+1)
	}
	return p + s
}
