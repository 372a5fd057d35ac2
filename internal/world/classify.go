package world

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Layer pairs a raster with the palette that classifies its pixels.
type Layer struct {
	Image   image.Image
	Palette *Palette
}

// Classify builds a tile grid from the region and biome rasters.
// Both rasters must have the same size. Rows are classified concurrently;
// every cell is written exactly once, so no locking is needed.
func Classify(ctx context.Context, regions, biomes Layer) (*Grid, error) {
	rb := regions.Image.Bounds()
	bb := biomes.Image.Bounds()
	if rb.Dx() != bb.Dx() || rb.Dy() != bb.Dy() {
		return nil, fmt.Errorf("region map %dx%d, biome map %dx%d: %w",
			rb.Dx(), rb.Dy(), bb.Dx(), bb.Dy(), ErrDimensionMismatch)
	}

	grid := NewGrid(rb.Dx(), rb.Dy())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for y := 0; y < grid.Height; y++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for x := 0; x < grid.Width; x++ {
				regionID, err := classifyPixel(regions, rb.Min.X+x, rb.Min.Y+y)
				if err != nil {
					return err
				}
				biomeID, err := classifyPixel(biomes, bb.Min.X+x, bb.Min.Y+y)
				if err != nil {
					return err
				}
				grid.Set(x, y, Tile{RegionID: regionID, BiomeID: biomeID})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grid, nil
}

func classifyPixel(l Layer, x, y int) (string, error) {
	c := FromColor(l.Image.At(x, y))
	id, ok := l.Palette.Lookup(c)
	if !ok {
		return "", fmt.Errorf("%s map pixel (%d,%d) colour %s: %w", l.Palette.Category(), x, y, c, ErrUnregisteredColour)
	}
	return id, nil
}

// Paint renders a grid back into a raster using the given colour lookup.
// Cells whose id has no colour are left transparent.
func Paint(grid *Grid, colourOf func(Tile) (Colour, bool)) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if c, ok := colourOf(grid.At(x, y)); ok {
				img.SetNRGBA(x, y, c.NRGBA())
			}
		}
	}
	return img
}
