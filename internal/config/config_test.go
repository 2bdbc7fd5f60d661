package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var fromYAML StarstrikeConfig
	if err := yaml.Unmarshal(defaultStarstrikeYAML, &fromYAML); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if fromYAML != DefaultStarstrikeConfig() {
		t.Errorf("embedded defaults drifted from DefaultStarstrikeConfig():\n yaml: %+v\n code: %+v",
			fromYAML, DefaultStarstrikeConfig())
	}
}

func TestDefaultsValidate(t *testing.T) {
	if err := DefaultStarstrikeConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StarstrikeConfig)
		want   string
	}{
		{"zero columns", func(c *StarstrikeConfig) { c.Formation.Columns = 0 }, "column"},
		{"zero rows", func(c *StarstrikeConfig) { c.Formation.Rows = 0 }, "column and row"},
		{"descent not divisible", func(c *StarstrikeConfig) { c.Formation.DescentDistance = 18 }, "descent_distance"},
		{"row pitch misaligned", func(c *StarstrikeConfig) { c.Formation.RowPitch = 30 }, "row_pitch"},
		{"no lives", func(c *StarstrikeConfig) { c.Player.Lives = 0 }, "life"},
		{"bad preset", func(c *StarstrikeConfig) { c.Difficulty.Preset = "insane" }, "unknown difficulty"},
		{"no shots", func(c *StarstrikeConfig) { c.Items.MaxShots = 0 }, "max_shots"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultStarstrikeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadCustomYAMLOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "formation:\n  columns: 4\n  rows: 2\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadStarstrike(path)
	if err != nil {
		t.Fatalf("LoadStarstrike: %v", err)
	}
	if cfg.Formation.Columns != 4 || cfg.Formation.Rows != 2 {
		t.Errorf("formation = %dx%d, expected 4x2", cfg.Formation.Columns, cfg.Formation.Rows)
	}
	if cfg.Field.Width != 800 {
		t.Errorf("unspecified keys should keep defaults, field width = %d", cfg.Field.Width)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	data := "[player]\nlives = 7\n\n[difficulty]\npreset = \"hard\"\ntier = 2\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadStarstrike(path)
	if err != nil {
		t.Fatalf("LoadStarstrike: %v", err)
	}
	if cfg.Player.Lives != 7 {
		t.Errorf("lives = %d, expected 7", cfg.Player.Lives)
	}
	if cfg.Difficulty.Preset != DifficultyHard || cfg.Difficulty.Tier != 2 {
		t.Errorf("difficulty = %+v", cfg.Difficulty)
	}
	if cfg.Formation.Columns != 10 {
		t.Errorf("unspecified keys should keep defaults, columns = %d", cfg.Formation.Columns)
	}
}

func TestLoadCustomInvalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadStarstrike(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("formation:\n  columns: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStarstrike(bad); err == nil {
		t.Error("invalid custom config should fail validation")
	}
}

func TestApplyStarstrikePreset(t *testing.T) {
	tests := []struct {
		preset     DifficultyPreset
		tier       int
		startLevel int
		lives      int
		interval   int
	}{
		{DifficultyEasy, 0, 1, 5, 1500},
		{DifficultyNormal, 1, 1, 3, 1200},
		{DifficultyHard, 2, 3, 2, 900},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultStarstrikeConfig()
			ApplyStarstrikePreset(&cfg, tc.preset)
			if cfg.Difficulty.Tier != tc.tier {
				t.Errorf("tier = %d, expected %d", cfg.Difficulty.Tier, tc.tier)
			}
			if cfg.StartLevel() != tc.startLevel {
				t.Errorf("start level = %d, expected %d", cfg.StartLevel(), tc.startLevel)
			}
			if cfg.Player.Lives != tc.lives {
				t.Errorf("lives = %d, expected %d", cfg.Player.Lives, tc.lives)
			}
			if cfg.Formation.ShootInterval != tc.interval {
				t.Errorf("shoot interval = %d, expected %d", cfg.Formation.ShootInterval, tc.interval)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset config should validate: %v", err)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("empty preset = %q, %v", p, err)
	}
	if p, err := ParsePreset(" HARD "); err != nil || p != DifficultyHard {
		t.Errorf("HARD preset = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestLevelScaling(t *testing.T) {
	cfg := DefaultStarstrikeConfig()
	if cfg.LevelSpeed(1) != 20 || cfg.LevelSpeed(3) != 28 || cfg.LevelSpeed(0) != 20 {
		t.Errorf("LevelSpeed = %d/%d/%d", cfg.LevelSpeed(1), cfg.LevelSpeed(3), cfg.LevelSpeed(0))
	}
	if cfg.DiveBonus() != 1 {
		t.Errorf("DiveBonus() = %d, expected 1", cfg.DiveBonus())
	}
}
