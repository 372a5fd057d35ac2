// Package engine runs a game session: turn processing, AI attacks, combat
// resolution, and the commands a player can issue between turns.
//
// A Game is not safe for concurrent use.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/talgya/narivia/internal/loader"
	"github.com/talgya/narivia/internal/store"
	"github.com/talgya/narivia/internal/world"
)

// maxEvents bounds the in-memory event log.
const maxEvents = 1000

// Config holds per-session engine settings.
type Config struct {
	// RecruitUnitID overrides the world's recruit unit when set.
	RecruitUnitID string
}

// WorldSource loads assembled worlds by id.
type WorldSource interface {
	Load(ctx context.Context, worldID string) (*loader.World, error)
}

// Event is a notable occurrence in the session.
type Event struct {
	Turn        int    `json:"turn"`
	Description string `json:"description"`
	Category    string `json:"category"` // "attack", "elimination", "build", "recruit"
}

// Game is the single simulation context of one session.
type Game struct {
	SessionID       string
	WorldID         string
	PlayerFactionID string
	Turn            int

	Store *store.Store
	Grid  *world.Grid

	recruitUnitID string
	phases        map[string]*fsm.FSM
	pending       []PlayerRegionAttacked
	events        []Event
}

// NewGame loads a world and seeds a fresh session: every faction gets the
// starting wealth, an army of every unit at the starting size, and neutral
// relations with every other faction.
func NewGame(ctx context.Context, src WorldSource, worldID, playerFactionID string, cfg Config) (*Game, error) {
	w, err := src.Load(ctx, worldID)
	if err != nil {
		return nil, err
	}
	g, err := newGame(w, worldID, playerFactionID, cfg)
	if err != nil {
		return nil, err
	}
	g.SessionID = uuid.NewString()

	st := g.Store
	meta := st.Meta()
	factions := st.Factions()
	for i, f := range factions {
		if err := st.SetWealth(f.ID, meta.StartingWealth); err != nil {
			return nil, err
		}
		for _, u := range st.Units() {
			if err := st.SetArmy(f.ID, u.ID, meta.StartingTroops); err != nil {
				return nil, err
			}
		}
		for _, other := range factions[i+1:] {
			if err := st.SetRelation(f.ID, other.ID, 0); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("game started",
		"session", g.SessionID,
		"world", worldID,
		"player", playerFactionID,
		"factions", len(factions),
		"recruit_unit", g.recruitUnitID,
	)
	return g, nil
}

func newGame(w *loader.World, worldID, playerFactionID string, cfg Config) (*Game, error) {
	st := w.Store
	if _, err := st.Faction(playerFactionID); err != nil {
		return nil, fmt.Errorf("player faction: %w", err)
	}

	recruit := cfg.RecruitUnitID
	if recruit == "" {
		recruit = st.Meta().RecruitUnit()
	}
	if _, err := st.Unit(recruit); err != nil {
		return nil, fmt.Errorf("recruit unit: %w", err)
	}

	g := &Game{
		WorldID:         worldID,
		PlayerFactionID: playerFactionID,
		Store:           st,
		Grid:            w.Grid,
		recruitUnitID:   recruit,
		phases:          make(map[string]*fsm.FSM),
	}
	for _, f := range st.Factions() {
		initial := PhaseIdle
		if !f.Alive {
			initial = PhaseEliminated
		}
		g.phases[f.ID] = newFactionPhase(initial)
	}
	return g, nil
}

// RecruitUnitID returns the unit that receives per-turn recruitment.
func (g *Game) RecruitUnitID() string { return g.recruitUnitID }

// FactionAt returns the occupier of the region under tile (x, y).
func (g *Game) FactionAt(x, y int) (string, bool) {
	id := g.Grid.RegionAt(x, y)
	if id == "" {
		return "", false
	}
	r, err := g.Store.Region(id)
	if err != nil {
		return "", false
	}
	return r.FactionID, true
}

// AliveFactions returns the ids of factions still in play, in catalog order.
func (g *Game) AliveFactions() []string {
	var out []string
	for _, f := range g.Store.Factions() {
		if f.Alive {
			out = append(out, f.ID)
		}
	}
	return out
}

// RecentEvents returns up to n of the latest events, oldest first.
func (g *Game) RecentEvents(n int) []Event {
	if n <= 0 || n > len(g.events) {
		n = len(g.events)
	}
	out := make([]Event, n)
	copy(out, g.events[len(g.events)-n:])
	return out
}

func (g *Game) record(category, description string) {
	g.events = append(g.events, Event{Turn: g.Turn, Description: description, Category: category})
	if len(g.events) > maxEvents {
		g.events = g.events[len(g.events)-maxEvents:]
	}
}
