package engine

import (
	"errors"
	"fmt"

	"github.com/talgya/narivia/internal/economy"
	"github.com/talgya/narivia/internal/social"
)

// Command precondition failures.
var (
	ErrPlayerEliminated   = errors.New("player faction has been eliminated")
	ErrHoldingOccupied    = errors.New("holding already built")
	ErrNotOwner           = errors.New("region not occupied by player")
	ErrInsufficientWealth = errors.New("insufficient wealth")
	ErrNoHoldingSlots     = errors.New("no holding slots left")
	ErrInvalidHoldingType = errors.New("cannot build an empty holding")
)

// PlayerAttackRegion resolves the player's attack on a region and then
// advances the turn. An invalid attack returns an error and neither the
// world nor the turn counter changes.
func (g *Game) PlayerAttackRegion(regionID string) (BattleResult, TurnReport, error) {
	if err := g.checkPlayerAlive(); err != nil {
		return Defeat, TurnReport{}, err
	}
	out, err := g.resolveAttack(g.PlayerFactionID, regionID)
	if err != nil {
		return Defeat, TurnReport{}, err
	}

	report, err := g.NextTurn()
	report.Attacks = append([]AttackOutcome{out}, report.Attacks...)
	return out.Result, report, err
}

// RecruitUnits buys up to amount troops of a unit for the player. The
// amount is clamped to what the treasury affords; the number actually
// recruited is returned.
func (g *Game) RecruitUnits(unitID string, amount int) (int, error) {
	if err := g.checkPlayerAlive(); err != nil {
		return 0, err
	}
	u, err := g.Store.Unit(unitID)
	if err != nil {
		return 0, err
	}
	f, err := g.Store.Faction(g.PlayerFactionID)
	if err != nil {
		return 0, err
	}

	n := economy.Affordable(f.Wealth, u.Price, amount)
	if n == 0 {
		return 0, nil
	}
	if err := g.Store.AddWealth(f.ID, -n*u.Price); err != nil {
		return 0, err
	}
	if _, err := g.Store.AddTroops(f.ID, u.ID, n); err != nil {
		return 0, err
	}
	g.record("recruit", fmt.Sprintf("%s recruited %d %s", f.Name, n, u.Name))
	return n, nil
}

// BuildHolding develops an empty holding in a region the player occupies.
func (g *Game) BuildHolding(holdingID string, t social.HoldingType) error {
	if err := g.checkPlayerAlive(); err != nil {
		return err
	}
	if t == social.HoldingEmpty {
		return ErrInvalidHoldingType
	}
	h, err := g.Store.Holding(holdingID)
	if err != nil {
		return err
	}
	if h.Type != social.HoldingEmpty {
		return fmt.Errorf("holding %q is a %s: %w", h.ID, h.Type, ErrHoldingOccupied)
	}
	r, err := g.Store.Region(h.RegionID)
	if err != nil {
		return err
	}
	if r.FactionID != g.PlayerFactionID {
		return fmt.Errorf("region %q: %w", r.ID, ErrNotOwner)
	}

	meta := g.Store.Meta()
	if slots := meta.HoldingSlotsPerFaction; slots > 0 && len(g.Store.FactionHoldings(g.PlayerFactionID)) >= slots {
		return fmt.Errorf("%d of %d used: %w", slots, slots, ErrNoHoldingSlots)
	}
	f, err := g.Store.Faction(g.PlayerFactionID)
	if err != nil {
		return err
	}
	if f.Wealth < meta.HoldingsPrice {
		return fmt.Errorf("need %d, have %d: %w", meta.HoldingsPrice, f.Wealth, ErrInsufficientWealth)
	}

	if err := g.Store.AddWealth(f.ID, -meta.HoldingsPrice); err != nil {
		return err
	}
	if err := g.Store.SetHoldingType(h.ID, t); err != nil {
		return err
	}
	g.record("build", fmt.Sprintf("%s built a %s in %s", f.Name, t, r.Name))
	return nil
}

// ChangeRelations shifts the relation between two factions, in both
// directions, clamped to [-100, 100].
func (g *Game) ChangeRelations(a, b string, delta int) error {
	return g.Store.ChangeRelation(a, b, delta)
}

// SetRelations sets the relation between two factions, in both directions,
// clamped to [-100, 100].
func (g *Game) SetRelations(a, b string, value int) error {
	return g.Store.SetRelation(a, b, value)
}

func (g *Game) checkPlayerAlive() error {
	f, err := g.Store.Faction(g.PlayerFactionID)
	if err != nil {
		return err
	}
	if !f.Alive {
		return ErrPlayerEliminated
	}
	return nil
}
