package loader

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/talgya/narivia/internal/world"
)

// Definition is a complete world ready to be written to disk.
type Definition struct {
	Catalog
	Grid *world.Grid
}

// WriteDefinition writes def into dir in the layout Load reads.
func WriteDefinition(dir string, def Definition) error {
	if def.Grid == nil {
		return fmt.Errorf("write world %q: missing grid", def.Meta.ID)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write world %q: %w", def.Meta.ID, err)
	}

	docs := []struct {
		name string
		v    any
	}{
		{MetaFile, def.Meta},
		{BiomesFile, def.Biomes},
		{CulturesFile, def.Cultures},
		{FactionsFile, def.Factions},
		{HoldingsFile, def.Holdings},
		{RegionsFile, def.Regions},
		{ResourcesFile, def.Resources},
		{UnitsFile, def.Units},
	}
	for _, d := range docs {
		if err := writeYAML(filepath.Join(dir, d.name), d.v); err != nil {
			return fmt.Errorf("write world %q: %w", def.Meta.ID, err)
		}
	}

	regionColours := make(map[string]world.Colour, len(def.Regions))
	for _, r := range def.Regions {
		regionColours[r.ID] = r.Colour
	}
	biomeColours := make(map[string]world.Colour, len(def.Biomes))
	for _, b := range def.Biomes {
		biomeColours[b.ID] = b.Colour
	}

	regionImg := world.Paint(def.Grid, func(t world.Tile) (world.Colour, bool) {
		c, ok := regionColours[t.RegionID]
		return c, ok
	})
	biomeImg := world.Paint(def.Grid, func(t world.Tile) (world.Colour, bool) {
		c, ok := biomeColours[t.BiomeID]
		return c, ok
	})

	if err := writePNG(filepath.Join(dir, RegionMapFile), regionImg); err != nil {
		return fmt.Errorf("write world %q: %w", def.Meta.ID, err)
	}
	if err := writePNG(filepath.Join(dir, BiomeMapFile), biomeImg); err != nil {
		return fmt.Errorf("write world %q: %w", def.Meta.ID, err)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeYAML(path string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
