package economy

import (
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/world"
)

// Per-holding income.
const (
	CastleIncome = 5
	CityIncome   = 15
	TempleIncome = 10
)

// Per-holding recruitment. Holdings do not contribute to recruitment yet;
// these are kept so the numbers live next to the income table.
const (
	CastleRecruitment = 15
	CityRecruitment   = 5
	TempleRecruitment = 10
)

// Ledger is the read-only view of world state the economy works from.
type Ledger interface {
	Meta() world.Meta
	RegionCount(factionID string) int
	HoldingCount(factionID string, t social.HoldingType) int
	FactionArmies(factionID string) []military.Army
	Unit(id string) (*military.Unit, error)
}

// Income returns what a faction earns this turn from its regions and
// holdings. Only regions the faction currently occupies count.
func Income(l Ledger, factionID string) int {
	meta := l.Meta()
	return l.RegionCount(factionID)*meta.BaseRegionIncome +
		l.HoldingCount(factionID, social.HoldingCastle)*CastleIncome +
		l.HoldingCount(factionID, social.HoldingCity)*CityIncome +
		l.HoldingCount(factionID, social.HoldingTemple)*TempleIncome
}

// Outcome returns the faction's army upkeep for this turn.
func Outcome(l Ledger, factionID string) int {
	total := 0
	for _, a := range l.FactionArmies(factionID) {
		u, err := l.Unit(a.UnitID)
		if err != nil {
			continue // armies reference validated units
		}
		total += a.Size * u.Maintenance
	}
	return total
}

// Recruitment returns how many troops the faction raises this turn.
func Recruitment(l Ledger, factionID string) int {
	meta := l.Meta()
	return l.RegionCount(factionID)*meta.BaseRegionRecruitment + meta.BaseFactionRecruitment
}

// Balance is Income minus Outcome.
func Balance(l Ledger, factionID string) int {
	return Income(l, factionID) - Outcome(l, factionID)
}

// Affordable clamps a requested purchase to what wealth covers.
// A non-positive price places no limit.
func Affordable(wealth, price, requested int) int {
	if requested <= 0 {
		return 0
	}
	if price <= 0 {
		return requested
	}
	if wealth <= 0 {
		return 0
	}
	return min(requested, wealth/price)
}
