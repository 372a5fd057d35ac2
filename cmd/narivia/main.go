// Command narivia serves a Narivia game session over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/narivia/internal/api"
	"github.com/talgya/narivia/internal/config"
	"github.com/talgya/narivia/internal/engine"
	"github.com/talgya/narivia/internal/loader"
	"github.com/talgya/narivia/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	slog.Info("Narivia — turn-based conquest server")

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Worlds ────────────────────────────────────────────────────────
	worlds := loader.New(cfg.WorldsDir)
	metas, err := worlds.List(context.Background())
	if err != nil {
		slog.Error("failed to list worlds", "dir", cfg.WorldsDir, "error", err)
		os.Exit(1)
	}
	for _, m := range metas {
		slog.Info("world available",
			"id", m.ID,
			"name", m.Name,
			"size", fmt.Sprintf("%dx%d", m.Width, m.Height),
			"tiles", humanize.Comma(int64(m.Width*m.Height)),
		)
	}
	if len(metas) == 0 {
		slog.Warn("no worlds found; generate one with worldgen", "dir", cfg.WorldsDir)
	}

	engineCfg := engine.Config{RecruitUnitID: cfg.RecruitUnit}

	// ── Resume Last Session ──────────────────────────────────────────
	game := resume(db, worlds, engineCfg)

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AuthToken == "" {
		slog.Warn("NARIVIA_AUTH_TOKEN not set — command endpoints are open")
	}
	limiter := api.NewRateLimiter(cfg.RatePerSec, cfg.RateBurst)
	limiter.TrustProxy = cfg.TrustProxy
	apiServer := &api.Server{
		Worlds:      worlds,
		DB:          db,
		SnapshotDir: cfg.SnapshotDir,
		Engine:      engineCfg,
		Port:        cfg.Port,
		AuthToken:   cfg.AuthToken,
		Limiter:     limiter,
		Hub:         api.NewHub(),
	}
	if game != nil {
		apiServer.SetGame(game)
	}
	srv := apiServer.Start()

	fmt.Printf("\nNarivia is ready: %d world(s) in %s.\n", len(metas), cfg.WorldsDir)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	if game != nil {
		fmt.Printf("Resumed session %s on %s at turn %d\n", game.SessionID, game.WorldID, game.Turn)
	}
	fmt.Println("Serving... (Ctrl+C to stop)")

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}

	// Final save on shutdown.
	if g := apiServer.Game(); g != nil {
		slog.Info("final save...")
		if err := db.SaveGame(g); err != nil {
			slog.Error("final save failed", "error", err)
		} else {
			fmt.Printf("Session %s saved at turn %d.\n", g.SessionID, g.Turn)
		}
	}
	fmt.Println("Server stopped.")
}

// resume restores the most recently saved session, if any.
func resume(db *persistence.DB, worlds *loader.Loader, cfg engine.Config) *engine.Game {
	id, err := db.GetMeta("last_session")
	if err != nil || id == "" {
		slog.Info("no saved session found, waiting for POST /api/v1/games")
		return nil
	}

	state, err := db.LoadState(id)
	if errors.Is(err, persistence.ErrSessionNotFound) {
		slog.Warn("last session missing from database", "session", id)
		return nil
	}
	if err != nil {
		slog.Error("failed to load last session", "session", id, "error", err)
		return nil
	}

	g, err := engine.Restore(context.Background(), worlds, state, cfg)
	if err != nil {
		slog.Error("failed to restore last session", "session", id, "world", state.WorldID, "error", err)
		return nil
	}

	player, err := g.Store.Faction(g.PlayerFactionID)
	if err == nil {
		slog.Info("session restored",
			"session", g.SessionID,
			"world", g.WorldID,
			"turn", g.Turn,
			"player", player.Name,
			"wealth", humanize.Comma(int64(player.Wealth)),
			"troops", humanize.Comma(int64(g.Store.FactionTroops(player.ID))),
			"regions", g.Store.RegionCount(player.ID),
		)
	}
	return g
}
