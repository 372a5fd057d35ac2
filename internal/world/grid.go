package world

import "fmt"

// Tile is one classified map cell.
type Tile struct {
	RegionID string `json:"region_id"`
	BiomeID  string `json:"biome_id"`
}

// Grid holds the dense tile map, stored row-major.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"-"`
}

// NewGrid creates an empty grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}
}

// InBounds returns true if (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the tile at (x, y). It panics when out of bounds, like a slice.
func (g *Grid) At(x, y int) Tile {
	return g.Tiles[y*g.Width+x]
}

// Get returns the tile at (x, y), or false if out of bounds.
func (g *Grid) Get(x, y int) (Tile, bool) {
	if !g.InBounds(x, y) {
		return Tile{}, false
	}
	return g.At(x, y), true
}

// Set places a tile at (x, y).
func (g *Grid) Set(x, y int, t Tile) {
	g.Tiles[y*g.Width+x] = t
}

// RegionAt returns the region id at (x, y), or "" when out of bounds.
func (g *Grid) RegionAt(x, y int) string {
	t, ok := g.Get(x, y)
	if !ok {
		return ""
	}
	return t.RegionID
}

// RegionAreas counts cells per region.
func (g *Grid) RegionAreas() map[string]int {
	areas := make(map[string]int)
	for _, t := range g.Tiles {
		areas[t.RegionID]++
	}
	return areas
}

// TileCount returns the total number of cells.
func (g *Grid) TileCount() int {
	return len(g.Tiles)
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, tiles=%d)", g.Width, g.Height, g.TileCount())
}
