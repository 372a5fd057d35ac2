package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
)

// State is the mutable part of a session. Together with the world
// definition it fully describes a game.
type State struct {
	SessionID       string                 `json:"session_id"`
	WorldID         string                 `json:"world_id"`
	PlayerFactionID string                 `json:"player_faction_id"`
	Turn            int                    `json:"turn"`
	Factions        []FactionState         `json:"factions"`
	Regions         []RegionState          `json:"regions"`
	Holdings        []HoldingState         `json:"holdings"`
	Armies          []military.Army        `json:"armies"`
	Relations       []social.Relation      `json:"relations"`
	Notifications   []PlayerRegionAttacked `json:"notifications,omitempty"`
	Events          []Event                `json:"events,omitempty"`
}

// FactionState is a faction's treasury and standing.
type FactionState struct {
	ID     string `json:"id"`
	Wealth int    `json:"wealth"`
	Alive  bool   `json:"alive"`
	Phase  string `json:"phase"`
}

// RegionState is a region's current occupier.
type RegionState struct {
	ID        string `json:"id"`
	FactionID string `json:"faction_id"`
}

// HoldingState is what is built in a holding slot.
type HoldingState struct {
	ID   string             `json:"id"`
	Type social.HoldingType `json:"type"`
}

// State captures the session's mutable state.
func (g *Game) State() State {
	st := g.Store
	s := State{
		SessionID:       g.SessionID,
		WorldID:         g.WorldID,
		PlayerFactionID: g.PlayerFactionID,
		Turn:            g.Turn,
		Armies:          st.Armies(),
		Relations:       st.Relations(),
		Notifications:   g.PendingNotifications(),
	}
	for _, f := range st.Factions() {
		s.Factions = append(s.Factions, FactionState{ID: f.ID, Wealth: f.Wealth, Alive: f.Alive, Phase: g.FactionPhase(f.ID)})
	}
	for _, r := range st.Regions() {
		s.Regions = append(s.Regions, RegionState{ID: r.ID, FactionID: r.FactionID})
	}
	for _, h := range st.Holdings() {
		s.Holdings = append(s.Holdings, HoldingState{ID: h.ID, Type: h.Type})
	}
	if len(g.events) > 0 {
		s.Events = g.RecentEvents(0)
	}
	return s
}

// Restore reloads a session's world and overlays its saved state.
func Restore(ctx context.Context, src WorldSource, s State, cfg Config) (*Game, error) {
	w, err := src.Load(ctx, s.WorldID)
	if err != nil {
		return nil, err
	}
	g, err := newGame(w, s.WorldID, s.PlayerFactionID, cfg)
	if err != nil {
		return nil, err
	}
	g.SessionID = s.SessionID
	g.Turn = s.Turn
	st := g.Store

	for _, f := range s.Factions {
		if err := st.SetWealth(f.ID, f.Wealth); err != nil {
			return nil, fmt.Errorf("restore faction: %w", err)
		}
		if !f.Alive {
			if err := st.MarkEliminated(f.ID); err != nil {
				return nil, fmt.Errorf("restore faction: %w", err)
			}
		}
		phase := f.Phase
		if !f.Alive {
			phase = PhaseEliminated
		} else if phase == "" {
			phase = PhaseIdle
		}
		if !validPhase(phase) {
			return nil, fmt.Errorf("restore faction %q: %w %q", f.ID, ErrUnknownPhase, phase)
		}
		g.phases[f.ID].SetState(phase)
	}
	for _, r := range s.Regions {
		if err := st.TransferRegion(r.ID, r.FactionID); err != nil {
			return nil, fmt.Errorf("restore region: %w", err)
		}
	}
	for _, h := range s.Holdings {
		if err := st.SetHoldingType(h.ID, h.Type); err != nil {
			return nil, fmt.Errorf("restore holding: %w", err)
		}
	}
	for _, a := range s.Armies {
		if err := st.SetArmy(a.FactionID, a.UnitID, a.Size); err != nil {
			return nil, fmt.Errorf("restore army: %w", err)
		}
	}
	for _, rel := range s.Relations {
		if err := st.SetRelation(rel.SourceID, rel.TargetID, rel.Value); err != nil {
			return nil, fmt.Errorf("restore relation: %w", err)
		}
	}
	g.pending = append(g.pending, s.Notifications...)
	g.events = append(g.events, s.Events...)
	if len(g.events) > maxEvents {
		g.events = g.events[len(g.events)-maxEvents:]
	}

	slog.Info("game restored", "session", g.SessionID, "world", g.WorldID, "turn", g.Turn)
	return g, nil
}
