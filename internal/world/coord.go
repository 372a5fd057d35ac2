// Package world provides the tile grid, colour palettes, region adjacency,
// and procedural map generation.
// Coordinates are raster pixels: x grows right, y grows down.
package world

// Point is a cell position on the tile grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceSq returns the squared euclidean distance between two points.
func DistanceSq(a, b Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
