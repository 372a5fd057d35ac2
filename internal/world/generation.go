// Procedural maps: jittered region seeds with noise-warped borders, and a
// biome layer derived from layered simplex noise.
package world

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds procedural map parameters.
type GenConfig struct {
	Width   int
	Height  int
	Seed    int64   // Random seed (0 = random)
	Spacing int     // Approximate region diameter in cells
	Warp    float64 // Border wobble amplitude in cells
}

// DefaultGenConfig returns a medium sized map.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:   320,
		Height:  240,
		Seed:    0,
		Spacing: 40,
		Warp:    9,
	}
}

// SmallTestConfig returns a tiny map for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:   60,
		Height:  40,
		Seed:    42,
		Spacing: 20,
		Warp:    3,
	}
}

// RegionSeed describes one generated region.
type RegionSeed struct {
	ID     string
	Centre Point
	Area   int
	Biome  string // Dominant biome id
}

// GeneratedMap is the output of Generate.
type GeneratedMap struct {
	Grid   *Grid
	Seeds  []RegionSeed
	Biomes []Biome
}

// Generated biome ids.
const (
	BiomePlains    = "plains"
	BiomeForest    = "forest"
	BiomeHills     = "hills"
	BiomeMountains = "mountains"
	BiomeMarsh     = "marsh"
)

// GeneratedBiomes returns the fixed biome palette used by Generate.
func GeneratedBiomes() []Biome {
	return []Biome{
		{ID: BiomePlains, Name: "Plains", Colour: RGB(0x9C, 0xC8, 0x5A)},
		{ID: BiomeForest, Name: "Forest", Colour: RGB(0x2E, 0x6B, 0x30)},
		{ID: BiomeHills, Name: "Hills", Colour: RGB(0xA8, 0x8A, 0x5C)},
		{ID: BiomeMountains, Name: "Mountains", Colour: RGB(0x80, 0x80, 0x80)},
		{ID: BiomeMarsh, Name: "Marsh", Colour: RGB(0x5E, 0x7A, 0x6E)},
	}
}

// RegionColour returns a distinct opaque colour for the i-th generated region.
// Multiplying by an odd constant is a bijection modulo 2^24.
func RegionColour(i int) Colour {
	return Colour(0xFF000000 | (uint32(i+1)*0x9E3779)&0xFFFFFF)
}

// Generate creates a region grid and biome layer.
func Generate(cfg GenConfig) *GeneratedMap {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.Spacing < 4 {
		cfg.Spacing = 4
	}
	rng := rand.New(rand.NewSource(seed))

	warpX := opensimplex.New(seed)
	warpY := opensimplex.New(seed + 1)
	elevNoise := opensimplex.NewNormalized(seed + 2)
	moistNoise := opensimplex.NewNormalized(seed + 3)

	// One jittered seed per lattice cell.
	cols := (cfg.Width + cfg.Spacing - 1) / cfg.Spacing
	rows := (cfg.Height + cfg.Spacing - 1) / cfg.Spacing
	lattice := make([]Point, cols*rows)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			lattice[cy*cols+cx] = Point{
				X: cx*cfg.Spacing + rng.Intn(cfg.Spacing),
				Y: cy*cfg.Spacing + rng.Intn(cfg.Spacing),
			}
		}
	}

	width := len(fmt.Sprint(len(lattice) - 1))
	ids := make([]string, len(lattice))
	for i := range lattice {
		ids[i] = fmt.Sprintf("r%0*d", width, i)
	}

	grid := NewGrid(cfg.Width, cfg.Height)
	biomeCounts := make([]map[string]int, len(lattice))
	area := make([]int, len(lattice))

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			// Domain warp so borders meander instead of forming straight cell walls.
			fx := float64(x) + cfg.Warp*warpX.Eval2(float64(x)*0.05, float64(y)*0.05)
			fy := float64(y) + cfg.Warp*warpY.Eval2(float64(x)*0.05, float64(y)*0.05)

			idx := nearestSeed(lattice, cols, rows, cfg.Spacing, fx, fy)

			elev := octaveNoise(elevNoise, float64(x), float64(y), 4, 0.02, 0.5)
			moist := octaveNoise(moistNoise, float64(x), float64(y), 3, 0.03, 0.5)
			biome := deriveBiome(elev, moist)

			grid.Set(x, y, Tile{RegionID: ids[idx], BiomeID: biome})
			area[idx]++
			if biomeCounts[idx] == nil {
				biomeCounts[idx] = make(map[string]int)
			}
			biomeCounts[idx][biome]++
		}
	}

	var seeds []RegionSeed
	for i, p := range lattice {
		if area[i] == 0 {
			continue // swallowed by warped neighbours
		}
		seeds = append(seeds, RegionSeed{
			ID:     ids[i],
			Centre: p,
			Area:   area[i],
			Biome:  dominant(biomeCounts[i]),
		})
	}

	return &GeneratedMap{Grid: grid, Seeds: seeds, Biomes: GeneratedBiomes()}
}

// nearestSeed searches the 3x3 lattice neighbourhood of the warped point.
func nearestSeed(lattice []Point, cols, rows, spacing int, fx, fy float64) int {
	cx := clamp(int(math.Floor(fx))/spacing, 0, cols-1)
	cy := clamp(int(math.Floor(fy))/spacing, 0, rows-1)

	best := -1
	bestDist := math.MaxFloat64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := cx+dx, cy+dy
			if nx < 0 || ny < 0 || nx >= cols || ny >= rows {
				continue
			}
			i := ny*cols + nx
			ddx := float64(lattice[i].X) - fx
			ddy := float64(lattice[i].Y) - fy
			d := ddx*ddx + ddy*ddy
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
	}
	return best
}

// deriveBiome determines biome from elevation and moisture.
func deriveBiome(elev, moist float64) string {
	if elev > 0.72 {
		return BiomeMountains
	}
	if elev > 0.58 {
		return BiomeHills
	}
	if moist > 0.62 && elev < 0.4 {
		return BiomeMarsh
	}
	if moist > 0.5 {
		return BiomeForest
	}
	return BiomePlains
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func dominant(counts map[string]int) string {
	best := ""
	bestN := -1
	for _, b := range GeneratedBiomes() {
		if n := counts[b.ID]; n > bestN {
			best, bestN = b.ID, n
		}
	}
	return best
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
