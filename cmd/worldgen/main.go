// Command worldgen writes a procedurally generated world definition that
// the narivia server can load.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/narivia/internal/loader"
	"github.com/talgya/narivia/internal/world"
)

func main() {
	var (
		dir      = flag.String("dir", "data/worlds", "worlds directory")
		id       = flag.String("id", "generated", "world id (directory name)")
		name     = flag.String("name", "Generated Realm", "world display name")
		width    = flag.Int("width", 0, "map width in tiles (0 = default)")
		height   = flag.Int("height", 0, "map height in tiles (0 = default)")
		seed     = flag.Int64("seed", 0, "random seed (0 = random)")
		spacing  = flag.Int("spacing", 0, "approximate region diameter in tiles (0 = default)")
		factions = flag.Int("factions", 4, "number of factions")
		small    = flag.Bool("small", false, "use the small test preset")
		verify   = flag.Bool("verify", true, "load the written world back")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg := world.DefaultGenConfig()
	if *small {
		cfg = world.SmallTestConfig()
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *spacing > 0 {
		cfg.Spacing = *spacing
	}
	if *factions < 1 {
		slog.Error("at least one faction is required", "factions", *factions)
		os.Exit(1)
	}

	start := time.Now()
	m := world.Generate(cfg)
	def := loader.Generated(*id, *name, m, *factions)
	slog.Info("world generated",
		"id", *id,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"tiles", humanize.Comma(int64(cfg.Width*cfg.Height)),
		"regions", len(def.Regions),
		"factions", len(def.Factions),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	out := filepath.Join(*dir, *id)
	if err := loader.WriteDefinition(out, def); err != nil {
		slog.Error("write failed", "error", err)
		os.Exit(1)
	}
	slog.Info("world written", "dir", out)

	if *verify {
		w, err := loader.New(*dir).Load(context.Background(), *id)
		if err != nil {
			slog.Error("written world does not load", "error", err)
			os.Exit(1)
		}
		slog.Info("world verified", "borders", w.Store.Borders().Len())
	}
}
