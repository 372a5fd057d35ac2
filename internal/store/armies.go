package store

import "github.com/talgya/narivia/internal/military"

// Army returns one army entry by its composite key.
func (s *Store) Army(factionID, unitID string) (military.Army, bool) {
	a, ok := s.armies[military.ArmyKey{FactionID: factionID, UnitID: unitID}]
	if !ok {
		return military.Army{}, false
	}
	return *a, true
}

// Armies returns every army entry in creation order.
func (s *Store) Armies() []military.Army {
	out := make([]military.Army, 0, len(s.armyOrder))
	for _, k := range s.armyOrder {
		out = append(out, *s.armies[k])
	}
	return out
}

// FactionArmies returns a faction's army entries in creation order.
func (s *Store) FactionArmies(factionID string) []military.Army {
	var out []military.Army
	for _, k := range s.armyOrder {
		if k.FactionID == factionID {
			out = append(out, *s.armies[k])
		}
	}
	return out
}

// FactionTroops is the total number of troops a faction fields.
func (s *Store) FactionTroops(factionID string) int {
	n := 0
	for _, k := range s.armyOrder {
		if k.FactionID == factionID {
			n += s.armies[k].Size
		}
	}
	return n
}

// FactionPower is the faction's effective strength: the sum of size times
// unit power over its armies.
func (s *Store) FactionPower(factionID string) int {
	n := 0
	for _, k := range s.armyOrder {
		if k.FactionID != factionID {
			continue
		}
		if u, ok := s.units.byID[k.UnitID]; ok {
			n += s.armies[k].Power(*u)
		}
	}
	return n
}

// AddTroops adds n troops (n may be negative) to an army entry, creating it
// if needed. Size never drops below zero. It returns the new size.
func (s *Store) AddTroops(factionID, unitID string, n int) (int, error) {
	a, err := s.army(factionID, unitID)
	if err != nil {
		return 0, err
	}
	a.Size = max(0, a.Size+n)
	return a.Size, nil
}

// SetArmy sets an army entry's size, creating it if needed.
func (s *Store) SetArmy(factionID, unitID string, size int) error {
	a, err := s.army(factionID, unitID)
	if err != nil {
		return err
	}
	a.Size = max(0, size)
	return nil
}

func (s *Store) army(factionID, unitID string) (*military.Army, error) {
	if !s.factions.has(factionID) {
		return nil, &LookupError{Kind: "faction", ID: factionID}
	}
	if !s.units.has(unitID) {
		return nil, &LookupError{Kind: "unit", ID: unitID}
	}
	k := military.ArmyKey{FactionID: factionID, UnitID: unitID}
	a, ok := s.armies[k]
	if !ok {
		a = &military.Army{FactionID: factionID, UnitID: unitID}
		s.armies[k] = a
		s.armyOrder = append(s.armyOrder, k)
	}
	return a, nil
}
