package config_test

import (
	"log/slog"
	"testing"

	"github.com/talgya/narivia/internal/config"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	want := config.Config{
		WorldsDir:   "data/worlds",
		DBPath:      "data/narivia.db",
		SnapshotDir: "data/snapshots",
		Port:        8080,
		LogLevel:    "info",
		RatePerSec:  5,
		RateBurst:   10,
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(map[string]string{
		"NARIVIA_PORT":         "9000",
		"NARIVIA_AUTH_TOKEN":   "secret",
		"NARIVIA_RECRUIT_UNIT": "spearmen",
		"NARIVIA_RATE_PER_SEC": "0.5",
		"NARIVIA_TRUST_PROXY":  "true",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Port != 9000 || cfg.AuthToken != "secret" || cfg.RecruitUnit != "spearmen" || cfg.RatePerSec != 0.5 || !cfg.TrustProxy {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadFrom_BadValue(t *testing.T) {
	t.Parallel()

	if _, err := config.LoadFrom(map[string]string{"NARIVIA_PORT": "eighty"}); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (config.Config{LogLevel: tt.in}).Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
