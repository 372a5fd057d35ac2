package world

import (
	"slices"
	"strings"
)

// Border sampling parameters. The sampler looks at every BorderStride-th cell
// in both axes and scans a square window of BorderWindow cells around it.
// Adjacencies thinner than the stride can be missed; world balance is tuned
// against the resulting sparse graph, so do not replace this with exhaustive
// boundary tracing.
const (
	BorderStride = 5
	BorderWindow = 2
)

// BorderKey identifies an unordered region pair. A < B always holds.
type BorderKey struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewBorderKey canonicalises a region pair.
func NewBorderKey(r1, r2 string) BorderKey {
	if strings.Compare(r1, r2) > 0 {
		r1, r2 = r2, r1
	}
	return BorderKey{A: r1, B: r2}
}

// BorderGraph is the derived region adjacency graph. It is immutable once
// derivation finishes and does not depend on region ownership.
type BorderGraph struct {
	keys       map[BorderKey]struct{}
	neighbours map[string][]string
}

// NewBorderGraph creates an empty graph.
func NewBorderGraph() *BorderGraph {
	return &BorderGraph{
		keys:       make(map[BorderKey]struct{}),
		neighbours: make(map[string][]string),
	}
}

// DeriveBorders samples the grid and registers every region pair seen together
// inside a sample window.
func DeriveBorders(grid *Grid) *BorderGraph {
	bg := NewBorderGraph()
	for x := 0; x < grid.Width; x += BorderStride {
		for y := 0; y < grid.Height; y += BorderStride {
			own := grid.At(x, y).RegionID
			for dx := -BorderWindow; dx <= BorderWindow; dx++ {
				if x+dx < 0 || x+dx >= grid.Width {
					continue
				}
				for dy := -BorderWindow; dy <= BorderWindow; dy++ {
					if y+dy < 0 || y+dy >= grid.Height {
						continue
					}
					other := grid.At(x+dx, y+dy).RegionID
					if other != own {
						bg.Add(own, other)
					}
				}
			}
		}
	}
	return bg
}

// Add registers a border. It reports false for self-borders, empty ids, and
// pairs already present in either order.
func (g *BorderGraph) Add(r1, r2 string) bool {
	if r1 == r2 || r1 == "" || r2 == "" {
		return false
	}
	key := NewBorderKey(r1, r2)
	if _, ok := g.keys[key]; ok {
		return false
	}
	g.keys[key] = struct{}{}
	g.neighbours[key.A] = insertSorted(g.neighbours[key.A], key.B)
	g.neighbours[key.B] = insertSorted(g.neighbours[key.B], key.A)
	return true
}

// RegionsAdjacent reports whether two regions share a border.
func (g *BorderGraph) RegionsAdjacent(r1, r2 string) bool {
	if r1 == r2 {
		return false
	}
	_, ok := g.keys[NewBorderKey(r1, r2)]
	return ok
}

// Neighbours returns the sorted neighbours of a region. The slice is shared;
// callers must not modify it.
func (g *BorderGraph) Neighbours(regionID string) []string {
	return g.neighbours[regionID]
}

// Borders returns every border key sorted by (A, B).
func (g *BorderGraph) Borders() []BorderKey {
	out := make([]BorderKey, 0, len(g.keys))
	for k := range g.keys {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b BorderKey) int {
		if c := strings.Compare(a.A, b.A); c != 0 {
			return c
		}
		return strings.Compare(a.B, b.B)
	})
	return out
}

// Len returns the number of borders.
func (g *BorderGraph) Len() int {
	return len(g.keys)
}

func insertSorted(list []string, id string) []string {
	i, found := slices.BinarySearch(list, id)
	if found {
		return list
	}
	return slices.Insert(list, i, id)
}
