package world

import "fmt"

// DefaultRecruitUnitID is the unit that receives per-turn recruitment when a
// world does not name one.
const DefaultRecruitUnitID = "militia"

// RegionType classifies a region.
type RegionType uint8

const (
	RegionOrdinary RegionType = iota
	RegionCapital             // Seat of a faction; at most one per sovereign
)

var regionTypeNames = [...]string{"ordinary", "capital"}

// String returns the lowercase name of the region type.
func (t RegionType) String() string {
	if int(t) < len(regionTypeNames) {
		return regionTypeNames[t]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (t RegionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text means ordinary.
func (t *RegionType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "ordinary":
		*t = RegionOrdinary
	case "capital":
		*t = RegionCapital
	default:
		return fmt.Errorf("unknown region type %q", string(b))
	}
	return nil
}

// Region is the atomic unit of territory.
type Region struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Colour      Colour     `yaml:"colour" json:"colour"`
	Type        RegionType `yaml:"type" json:"type"`

	// FactionID is the current occupier; it alone decides income and recruitment.
	FactionID string `yaml:"faction_id" json:"faction_id"`
	// SovereignFactionID is the rightful owner and never changes after load.
	SovereignFactionID string `yaml:"sovereign_faction_id,omitempty" json:"sovereign_faction_id"`
}

// Biome is a terrain palette entry of the biome raster.
type Biome struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Colour      Colour `yaml:"colour" json:"colour"`
}

// Meta holds the immutable world parameters.
type Meta struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`

	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	BaseRegionIncome       int `yaml:"base_region_income" json:"base_region_income"`
	BaseRegionRecruitment  int `yaml:"base_region_recruitment" json:"base_region_recruitment"`
	BaseFactionRecruitment int `yaml:"base_faction_recruitment" json:"base_faction_recruitment"`
	MinTroopsPerAttack     int `yaml:"min_troops_per_attack" json:"min_troops_per_attack"`
	HoldingSlotsPerFaction int `yaml:"holding_slots_per_faction" json:"holding_slots_per_faction"`
	HoldingsPrice          int `yaml:"holdings_price" json:"holdings_price"`
	StartingWealth         int `yaml:"starting_wealth" json:"starting_wealth"`
	StartingTroops         int `yaml:"starting_troops" json:"starting_troops"`

	// RecruitUnitID names the unit that receives per-turn recruitment.
	RecruitUnitID string `yaml:"recruit_unit_id,omitempty" json:"recruit_unit_id,omitempty"`
}

// RecruitUnit returns the configured recruit unit, falling back to the default.
func (m Meta) RecruitUnit() string {
	if m.RecruitUnitID == "" {
		return DefaultRecruitUnitID
	}
	return m.RecruitUnitID
}
