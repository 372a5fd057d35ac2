package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/narivia/internal/military"
)

// RelationPenaltyPerAttack is how far relations drop between two factions
// each time one attacks the other.
const RelationPenaltyPerAttack = 10

var (
	// ErrInvalidTarget is matched by every InvalidTargetRegionError.
	ErrInvalidTarget = errors.New("invalid target region")
	// ErrNoTarget is returned when a faction has no region it can attack.
	ErrNoTarget = errors.New("no region to attack")
)

// InvalidTargetRegionError reports an attack on a region the attacker may
// not attack.
type InvalidTargetRegionError struct {
	AttackerID string
	RegionID   string
	Reason     string
}

func (e *InvalidTargetRegionError) Error() string {
	return fmt.Sprintf("faction %q cannot attack region %q: %s", e.AttackerID, e.RegionID, e.Reason)
}

// Is reports whether target is ErrInvalidTarget.
func (e *InvalidTargetRegionError) Is(target error) bool {
	return target == ErrInvalidTarget
}

// BattleResult is the attacker's outcome.
type BattleResult uint8

const (
	Defeat BattleResult = iota
	Victory
)

func (r BattleResult) String() string {
	if r == Victory {
		return "victory"
	}
	return "defeat"
}

// MarshalText implements encoding.TextMarshaler.
func (r BattleResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *BattleResult) UnmarshalText(b []byte) error {
	switch string(b) {
	case "victory":
		*r = Victory
	case "defeat":
		*r = Defeat
	default:
		return fmt.Errorf("unknown battle result %q", string(b))
	}
	return nil
}

// AttackOutcome records one resolved attack.
type AttackOutcome struct {
	AttackerID     string       `json:"attacker_faction_id"`
	DefenderID     string       `json:"defender_faction_id"`
	RegionID       string       `json:"region_id"`
	Result         BattleResult `json:"result"`
	AttackerPower  int          `json:"attacker_power"`
	DefenderPower  int          `json:"defender_power"`
	AttackerLosses int          `json:"attacker_losses"`
	DefenderLosses int          `json:"defender_losses"`
}

// ChooseRegionToAttack picks the AI target for a faction: among enemy
// regions bordering its territory, the one whose owner is weakest by
// effective power. Ties go to the owner with fewer regions, then to
// catalog order.
func (g *Game) ChooseRegionToAttack(factionID string) (string, error) {
	if _, err := g.Store.Faction(factionID); err != nil {
		return "", err
	}

	power := make(map[string]int)
	regions := make(map[string]int)
	best := ""
	bestPower, bestRegions := 0, 0

	for _, r := range g.Store.Regions() {
		if r.FactionID == factionID || !g.Store.FactionAdjacentToRegion(factionID, r.ID) {
			continue
		}
		owner := r.FactionID
		if _, ok := power[owner]; !ok {
			power[owner] = g.Store.FactionPower(owner)
			regions[owner] = g.Store.RegionCount(owner)
		}
		p, n := power[owner], regions[owner]
		if best == "" || p < bestPower || (p == bestPower && n < bestRegions) {
			best, bestPower, bestRegions = r.ID, p, n
		}
	}

	if best == "" {
		return "", ErrNoTarget
	}
	return best, nil
}

// AttackRegion resolves an attack by a faction on a region.
// The store is left untouched when the target is invalid.
func (g *Game) AttackRegion(attackerID, regionID string) (BattleResult, error) {
	out, err := g.resolveAttack(attackerID, regionID)
	if err != nil {
		return Defeat, err
	}
	return out.Result, nil
}

func (g *Game) resolveAttack(attackerID, regionID string) (AttackOutcome, error) {
	if _, err := g.Store.Faction(attackerID); err != nil {
		return AttackOutcome{}, err
	}
	region, err := g.Store.Region(regionID)
	if err != nil {
		return AttackOutcome{}, err
	}
	defenderID := region.FactionID
	if defenderID == attackerID {
		return AttackOutcome{}, &InvalidTargetRegionError{AttackerID: attackerID, RegionID: regionID, Reason: "region already owned"}
	}
	if !g.Store.FactionsAdjacent(attackerID, defenderID) {
		return AttackOutcome{}, &InvalidTargetRegionError{AttackerID: attackerID, RegionID: regionID, Reason: "owner does not border attacker"}
	}

	out := AttackOutcome{
		AttackerID:    attackerID,
		DefenderID:    defenderID,
		RegionID:      regionID,
		Result:        Defeat,
		AttackerPower: g.Store.FactionPower(attackerID),
		DefenderPower: g.Store.FactionPower(defenderID),
	}
	if out.AttackerPower > out.DefenderPower {
		out.Result = Victory
	}

	out.AttackerLosses, err = g.applyLosses(attackerID, out.DefenderPower, out.AttackerPower+out.DefenderPower)
	if err != nil {
		return out, err
	}
	out.DefenderLosses, err = g.applyLosses(defenderID, out.AttackerPower, out.AttackerPower+out.DefenderPower)
	if err != nil {
		return out, err
	}

	if out.Result == Victory {
		if err := g.Store.TransferRegion(regionID, attackerID); err != nil {
			return out, err
		}
	}
	if err := g.Store.ChangeRelation(attackerID, defenderID, -RelationPenaltyPerAttack); err != nil {
		return out, err
	}

	slog.Debug("attack resolved",
		"turn", g.Turn,
		"attacker", attackerID,
		"defender", defenderID,
		"region", regionID,
		"result", out.Result,
		"attacker_power", out.AttackerPower,
		"defender_power", out.DefenderPower,
	)
	g.record("attack", fmt.Sprintf("%s attacked %s held by %s: %s", attackerID, regionID, defenderID, out.Result))
	return out, nil
}

// applyLosses removes size*opponentPower/(2*total) troops from each of the
// faction's army entries and returns the total removed.
func (g *Game) applyLosses(factionID string, opponentPower, total int) (int, error) {
	if total <= 0 {
		return 0, nil
	}
	lost := 0
	for _, a := range g.Store.FactionArmies(factionID) {
		loss := casualties(a, opponentPower, total)
		if loss == 0 {
			continue
		}
		if _, err := g.Store.AddTroops(factionID, a.UnitID, -loss); err != nil {
			return lost, err
		}
		lost += loss
	}
	return lost, nil
}

func casualties(a military.Army, opponentPower, total int) int {
	return min(a.Size, a.Size*opponentPower/(2*total))
}
