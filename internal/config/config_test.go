package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Stattrackrr/stattrackr/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
props:
  - player: Jayson Tatum
    stats: [points, rebounds]
  - player: Jalen Brunson
    stats: [assists]
teams:
  - BOS
  - NYK
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Props) != 2 {
		t.Fatalf("expected 2 prop targets, got %d", len(cfg.Props))
	}
	if cfg.Props[0].Player != "Jayson Tatum" || len(cfg.Props[0].Stats) != 2 {
		t.Errorf("unexpected first target: %+v", cfg.Props[0])
	}
	if len(cfg.Teams) != 2 || cfg.Teams[1] != "NYK" {
		t.Errorf("unexpected teams: %v", cfg.Teams)
	}

	// 3 prop boards plus 2 team boards
	if cfg.TargetCount() != 5 {
		t.Errorf("expected 5 targets, got %d", cfg.TargetCount())
	}
}

func TestLoadRejectsMissingPlayer(t *testing.T) {
	path := writeConfig(t, `
props:
  - player: ""
    stats: [points]
`)

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for blank player")
	}
}

func TestLoadRejectsEmptyStats(t *testing.T) {
	path := writeConfig(t, `
props:
  - player: Jayson Tatum
    stats: []
`)

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for empty stats")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load("/nonexistent/watch.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
