// Package loader reads world definitions from disk: YAML entity catalogs,
// a region colour raster, and a biome colour raster.
package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/narivia/internal/economy"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/world"
)

// File names inside a world directory.
const (
	MetaFile      = "world.yaml"
	BiomesFile    = "biomes.yaml"
	CulturesFile  = "cultures.yaml"
	FactionsFile  = "factions.yaml"
	HoldingsFile  = "holdings.yaml"
	RegionsFile   = "regions.yaml"
	ResourcesFile = "resources.yaml"
	UnitsFile     = "units.yaml"
	RegionMapFile = "map.png"
	BiomeMapFile  = "biomes_map.png"
)

// Loader reads worlds from a directory holding one subdirectory per world.
type Loader struct {
	dir string
}

// New creates a loader rooted at dir.
func New(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the worlds directory.
func (l *Loader) Dir() string { return l.dir }

// Load reads, classifies, and assembles one world.
func (l *Loader) Load(ctx context.Context, worldID string) (*World, error) {
	start := time.Now()
	fail := func(op string, err error) (*World, error) {
		return nil, &LoadError{WorldID: worldID, Op: op, Err: err}
	}

	dir, err := l.worldDir(worldID)
	if err != nil {
		return fail("meta", err)
	}
	meta, err := readMeta(dir)
	if err != nil {
		return fail("meta", err)
	}

	cat, err := readCatalog(ctx, dir, meta)
	if err != nil {
		return fail("catalog", err)
	}

	regionPalette, biomePalette, err := palettes(cat)
	if err != nil {
		return fail("palette", err)
	}

	regionImg, err := readPNG(filepath.Join(dir, RegionMapFile))
	if err != nil {
		return fail("raster", err)
	}
	biomeImg, err := readPNG(filepath.Join(dir, BiomeMapFile))
	if err != nil {
		return fail("raster", err)
	}
	if b := regionImg.Bounds(); b.Dx() != meta.Width || b.Dy() != meta.Height {
		return fail("raster", fmt.Errorf("%s is %dx%d, world is %dx%d: %w",
			RegionMapFile, b.Dx(), b.Dy(), meta.Width, meta.Height, world.ErrDimensionMismatch))
	}

	grid, err := world.Classify(ctx,
		world.Layer{Image: regionImg, Palette: regionPalette},
		world.Layer{Image: biomeImg, Palette: biomePalette},
	)
	if err != nil {
		return fail("classify", err)
	}

	w, err := Assemble(cat, grid)
	if err != nil {
		return fail("assemble", err)
	}

	slog.Info("world loaded",
		"world", worldID,
		"size", fmt.Sprintf("%dx%d", grid.Width, grid.Height),
		"regions", len(cat.Regions),
		"factions", len(cat.Factions),
		"borders", w.Store.Borders().Len(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return w, nil
}

// List returns the meta of every world under the loader's directory, sorted
// by id. Directories without a world.yaml are skipped.
func (l *Loader) List(ctx context.Context) ([]world.Meta, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.dir, e.Name(), MetaFile)); err != nil {
			continue
		}
		dirs = append(dirs, e.Name())
	}

	metas := make([]world.Meta, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := readMeta(filepath.Join(l.dir, name))
			if err != nil {
				return &LoadError{WorldID: name, Op: "meta", Err: err}
			}
			metas[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	return metas, nil
}

func (l *Loader) worldDir(worldID string) (string, error) {
	if worldID == "" || worldID != filepath.Base(worldID) || worldID == "." || worldID == ".." {
		return "", fmt.Errorf("invalid world id %q", worldID)
	}
	return filepath.Join(l.dir, worldID), nil
}

func readMeta(dir string) (world.Meta, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return world.Meta{}, err
	}
	meta, err := ParseMeta(data)
	if err != nil {
		return world.Meta{}, fmt.Errorf("%s: %w", MetaFile, err)
	}
	return meta, nil
}

// readCatalog fetches every category concurrently.
func readCatalog(ctx context.Context, dir string, meta world.Meta) (Catalog, error) {
	cat := Catalog{Meta: meta}
	g, gctx := errgroup.WithContext(ctx)

	fetch(gctx, g, YAMLRepository[world.Biome]{Path: filepath.Join(dir, BiomesFile)}, &cat.Biomes)
	fetch(gctx, g, YAMLRepository[social.Culture]{Path: filepath.Join(dir, CulturesFile)}, &cat.Cultures)
	fetch(gctx, g, YAMLRepository[social.Faction]{Path: filepath.Join(dir, FactionsFile)}, &cat.Factions)
	fetch(gctx, g, YAMLRepository[social.Holding]{Path: filepath.Join(dir, HoldingsFile)}, &cat.Holdings)
	fetch(gctx, g, YAMLRepository[world.Region]{Path: filepath.Join(dir, RegionsFile)}, &cat.Regions)
	fetch(gctx, g, YAMLRepository[economy.Resource]{Path: filepath.Join(dir, ResourcesFile)}, &cat.Resources)
	fetch(gctx, g, YAMLRepository[military.Unit]{Path: filepath.Join(dir, UnitsFile)}, &cat.Units)

	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func fetch[T any](ctx context.Context, g *errgroup.Group, repo Repository[T], dst *[]T) {
	g.Go(func() error {
		items, err := repo.GetAll(ctx)
		if err != nil {
			return err
		}
		*dst = items
		return nil
	})
}

// palettes builds the colour lookups for both rasters.
func palettes(cat Catalog) (regions, biomes *world.Palette, err error) {
	regions = world.NewPalette("region")
	biomes = world.NewPalette("biome")
	var errs []error
	for _, r := range cat.Regions {
		errs = append(errs, regions.Register(r.Colour, r.ID))
	}
	for _, b := range cat.Biomes {
		errs = append(errs, biomes.Register(b.Colour, b.ID))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return regions, biomes, nil
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
