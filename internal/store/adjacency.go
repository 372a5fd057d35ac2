package store

import "github.com/talgya/narivia/internal/world"

// factionPair is an unordered pair of distinct factions, smaller id first.
type factionPair struct {
	a, b string
}

func newFactionPair(f1, f2 string) factionPair {
	if f2 < f1 {
		f1, f2 = f2, f1
	}
	return factionPair{a: f1, b: f2}
}

// AttachBorders installs the region border graph and rebuilds the faction
// adjacency index from current ownership.
func (s *Store) AttachBorders(bg *world.BorderGraph) {
	s.borders = bg
	s.adjacency = make(map[factionPair]int)
	for _, k := range bg.Borders() {
		s.bump(s.occupier(k.A), s.occupier(k.B), 1)
	}
}

// Borders returns the region border graph.
func (s *Store) Borders() *world.BorderGraph {
	return s.borders
}

// RegionsAdjacent reports whether two regions share a border.
func (s *Store) RegionsAdjacent(r1, r2 string) bool {
	return s.borders.RegionsAdjacent(r1, r2)
}

// FactionsAdjacent reports whether any region of f1 borders any region of
// f2. A faction is never adjacent to itself.
func (s *Store) FactionsAdjacent(f1, f2 string) bool {
	if f1 == f2 {
		return false
	}
	return s.adjacency[newFactionPair(f1, f2)] > 0
}

// FactionAdjacentToRegion reports whether the faction occupies a region
// bordering regionID.
func (s *Store) FactionAdjacentToRegion(factionID, regionID string) bool {
	for _, n := range s.borders.Neighbours(regionID) {
		if s.occupier(n) == factionID {
			return true
		}
	}
	return false
}

// TransferRegion hands a region to a new occupier and updates the faction
// adjacency index for every border the region takes part in.
func (s *Store) TransferRegion(regionID, factionID string) error {
	r, err := s.regions.get(regionID)
	if err != nil {
		return err
	}
	if !s.factions.has(factionID) {
		return &LookupError{Kind: "faction", ID: factionID}
	}
	prev := r.FactionID
	if prev == factionID {
		return nil
	}
	for _, n := range s.borders.Neighbours(regionID) {
		other := s.occupier(n)
		s.bump(prev, other, -1)
		s.bump(factionID, other, 1)
	}
	r.FactionID = factionID
	return nil
}

func (s *Store) bump(f1, f2 string, delta int) {
	if f1 == f2 || f1 == "" || f2 == "" {
		return
	}
	k := newFactionPair(f1, f2)
	n := s.adjacency[k] + delta
	if n <= 0 {
		delete(s.adjacency, k)
		return
	}
	s.adjacency[k] = n
}
