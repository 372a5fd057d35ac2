package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/narivia/internal/economy"
	"github.com/talgya/narivia/internal/social"
)

// PlayerRegionAttacked is raised when an AI faction attacks a region the
// player occupies.
type PlayerRegionAttacked struct {
	RegionID   string       `json:"region_id"`
	AttackerID string       `json:"attacker_faction_id"`
	Result     BattleResult `json:"result"`
	Turn       int          `json:"turn"`
}

// TurnReport summarises one call to NextTurn.
type TurnReport struct {
	Turn          int                    `json:"turn"` // Turn number after the advance
	Eliminated    []string               `json:"eliminated,omitempty"`
	Attacks       []AttackOutcome        `json:"attacks,omitempty"`
	Notifications []PlayerRegionAttacked `json:"notifications,omitempty"`
}

// NextTurn processes every living faction in catalog order, then advances
// the turn counter. For each faction:
//
//  1. a faction without regions is eliminated and skipped for good;
//  2. wealth grows by income and shrinks by army upkeep;
//  3. recruitment is added to the recruit unit's army;
//  4. an AI faction with enough troops attacks its chosen target.
//
// Factions are processed one after another so each sees the effects of the
// ones before it.
func (g *Game) NextTurn() (TurnReport, error) {
	var report TurnReport
	for _, f := range g.Store.Factions() {
		if !f.Alive {
			continue
		}
		if err := g.processFaction(f, &report); err != nil {
			return report, fmt.Errorf("turn %d: faction %q: %w", g.Turn, f.ID, err)
		}
	}

	g.Turn++
	report.Turn = g.Turn

	slog.Info("turn complete",
		"session", g.SessionID,
		"turn", g.Turn,
		"alive", len(g.AliveFactions()),
		"attacks", len(report.Attacks),
		"eliminated", len(report.Eliminated),
	)
	return report, nil
}

func (g *Game) processFaction(f *social.Faction, report *TurnReport) error {
	st := g.Store

	if st.RegionCount(f.ID) == 0 {
		if err := st.MarkEliminated(f.ID); err != nil {
			return err
		}
		if err := g.transition(f.ID, eventEliminate); err != nil {
			return err
		}
		report.Eliminated = append(report.Eliminated, f.ID)
		g.record("elimination", fmt.Sprintf("%s has been eliminated", f.Name))
		return nil
	}

	if err := st.AddWealth(f.ID, economy.Income(st, f.ID)-economy.Outcome(st, f.ID)); err != nil {
		return err
	}
	if _, err := st.AddTroops(f.ID, g.recruitUnitID, economy.Recruitment(st, f.ID)); err != nil {
		return err
	}

	if f.ID == g.PlayerFactionID || st.FactionTroops(f.ID) < st.Meta().MinTroopsPerAttack {
		return nil
	}

	target, err := g.ChooseRegionToAttack(f.ID)
	if errors.Is(err, ErrNoTarget) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := g.transition(f.ID, eventMuster); err != nil {
		return err
	}
	out, err := g.resolveAttack(f.ID, target)
	if err != nil {
		return err
	}
	if err := g.transition(f.ID, eventStandDown); err != nil {
		return err
	}

	report.Attacks = append(report.Attacks, out)
	if out.DefenderID == g.PlayerFactionID {
		n := PlayerRegionAttacked{
			RegionID:   out.RegionID,
			AttackerID: out.AttackerID,
			Result:     out.Result,
			Turn:       g.Turn,
		}
		report.Notifications = append(report.Notifications, n)
		g.pending = append(g.pending, n)
	}
	return nil
}

// DrainNotifications returns and clears the queued player notifications.
func (g *Game) DrainNotifications() []PlayerRegionAttacked {
	out := g.pending
	g.pending = nil
	return out
}

// PendingNotifications returns the queued notifications without clearing them.
func (g *Game) PendingNotifications() []PlayerRegionAttacked {
	return append([]PlayerRegionAttacked(nil), g.pending...)
}
