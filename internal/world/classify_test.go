package world_test

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/talgya/narivia/internal/world"
)

func solid(w, h int, c world.Colour) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c.NRGBA())
		}
	}
	return img
}

func palettes(t *testing.T) (*world.Palette, *world.Palette) {
	t.Helper()
	regions := world.NewPalette("region")
	biomes := world.NewPalette("biome")
	if err := regions.Register(world.RGB(255, 0, 0), "west"); err != nil {
		t.Fatal(err)
	}
	if err := regions.Register(world.RGB(0, 0, 255), "east"); err != nil {
		t.Fatal(err)
	}
	if err := biomes.Register(world.RGB(0, 255, 0), "plains"); err != nil {
		t.Fatal(err)
	}
	return regions, biomes
}

func TestClassify(t *testing.T) {
	t.Parallel()

	regions, biomes := palettes(t)
	regionImg := solid(8, 4, world.RGB(255, 0, 0))
	for y := 0; y < 4; y++ {
		for x := 4; x < 8; x++ {
			regionImg.SetNRGBA(x, y, world.RGB(0, 0, 255).NRGBA())
		}
	}

	grid, err := world.Classify(context.Background(),
		world.Layer{Image: regionImg, Palette: regions},
		world.Layer{Image: solid(8, 4, world.RGB(0, 255, 0)), Palette: biomes},
	)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if grid.Width != 8 || grid.Height != 4 {
		t.Fatalf("grid size %dx%d", grid.Width, grid.Height)
	}
	if got := grid.At(0, 0); got.RegionID != "west" || got.BiomeID != "plains" {
		t.Errorf("At(0,0) = %+v", got)
	}
	if got := grid.At(7, 3); got.RegionID != "east" {
		t.Errorf("At(7,3) = %+v", got)
	}
	areas := grid.RegionAreas()
	if areas["west"] != 16 || areas["east"] != 16 {
		t.Errorf("areas = %v", areas)
	}
}

func TestClassify_UnregisteredColour(t *testing.T) {
	t.Parallel()

	regions, biomes := palettes(t)
	regionImg := solid(4, 4, world.RGB(255, 0, 0))
	regionImg.SetNRGBA(2, 3, world.RGB(9, 9, 9).NRGBA())

	_, err := world.Classify(context.Background(),
		world.Layer{Image: regionImg, Palette: regions},
		world.Layer{Image: solid(4, 4, world.RGB(0, 255, 0)), Palette: biomes},
	)
	if !errors.Is(err, world.ErrUnregisteredColour) {
		t.Fatalf("expected ErrUnregisteredColour, got %v", err)
	}
}

func TestClassify_DimensionMismatch(t *testing.T) {
	t.Parallel()

	regions, biomes := palettes(t)
	_, err := world.Classify(context.Background(),
		world.Layer{Image: solid(4, 4, world.RGB(255, 0, 0)), Palette: regions},
		world.Layer{Image: solid(5, 4, world.RGB(0, 255, 0)), Palette: biomes},
	)
	if !errors.Is(err, world.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}
