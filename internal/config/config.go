// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the server's process configuration.
type Config struct {
	WorldsDir   string  `env:"NARIVIA_WORLDS_DIR"   envDefault:"data/worlds"`
	DBPath      string  `env:"NARIVIA_DB_PATH"      envDefault:"data/narivia.db"`
	SnapshotDir string  `env:"NARIVIA_SNAPSHOT_DIR" envDefault:"data/snapshots"`
	Port        int     `env:"NARIVIA_PORT"         envDefault:"8080"`
	LogLevel    string  `env:"NARIVIA_LOG_LEVEL"    envDefault:"info"`
	AuthToken   string  `env:"NARIVIA_AUTH_TOKEN"`
	RecruitUnit string  `env:"NARIVIA_RECRUIT_UNIT"`
	RatePerSec  float64 `env:"NARIVIA_RATE_PER_SEC" envDefault:"5"`
	RateBurst   int     `env:"NARIVIA_RATE_BURST"   envDefault:"10"`
	TrustProxy  bool    `env:"NARIVIA_TRUST_PROXY"  envDefault:"false"`
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses the configuration from the given variables only.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level; unknown names mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
