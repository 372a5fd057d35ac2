package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// Faction turn phases.
const (
	PhaseIdle       = "idle"
	PhaseAttacking  = "attacking"
	PhaseEliminated = "eliminated"
)

// ErrUnknownPhase is returned when restoring a phase that is not one of the
// faction phases.
var ErrUnknownPhase = errors.New("unknown faction phase")

func validPhase(p string) bool {
	switch p {
	case PhaseIdle, PhaseAttacking, PhaseEliminated:
		return true
	}
	return false
}

// Phase transitions.
const (
	eventMuster    = "muster"
	eventStandDown = "stand_down"
	eventEliminate = "eliminate"
)

// newFactionPhase creates the per-faction state machine. Eliminated is
// terminal: no event leaves it.
func newFactionPhase(initial string) *fsm.FSM {
	return fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: eventMuster, Src: []string{PhaseIdle}, Dst: PhaseAttacking},
			{Name: eventStandDown, Src: []string{PhaseAttacking}, Dst: PhaseIdle},
			{Name: eventEliminate, Src: []string{PhaseIdle, PhaseAttacking}, Dst: PhaseEliminated},
		},
		fsm.Callbacks{},
	)
}

// FactionPhase returns the faction's current phase.
func (g *Game) FactionPhase(factionID string) string {
	if p, ok := g.phases[factionID]; ok {
		return p.Current()
	}
	return ""
}

func (g *Game) transition(factionID, event string) error {
	p, ok := g.phases[factionID]
	if !ok {
		return fmt.Errorf("faction %q has no phase", factionID)
	}
	if err := p.Event(context.Background(), event); err != nil {
		return fmt.Errorf("faction %q %s: %w", factionID, event, err)
	}
	return nil
}
