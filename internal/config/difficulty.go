package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a flag or config value to a preset.
// The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// TierForPreset returns the difficulty tier for a preset.
func TierForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 0
	case DifficultyHard:
		return 2
	default:
		return 1
	}
}

// ApplyStarstrikePreset modifies the config based on a difficulty preset.
func ApplyStarstrikePreset(cfg *StarstrikeConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
	cfg.Difficulty.Tier = TierForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Difficulty.StartLevel = 1
		cfg.Player.Lives = 5
		cfg.Formation.ShootInterval = cfg.Formation.ShootInterval * 5 / 4
	case DifficultyHard:
		cfg.Difficulty.StartLevel = 3
		cfg.Player.Lives = 2
		cfg.Formation.ShootInterval = cfg.Formation.ShootInterval * 3 / 4
		cfg.Divers.ReadyInterval = cfg.Divers.ReadyInterval * 3 / 4
	}
}

// LevelSpeed returns the formation base speed for a level, before the
// minimum offset is added.
func (c StarstrikeConfig) LevelSpeed(level int) int {
	if level < 1 {
		level = 1
	}
	return c.Formation.BaseSpeed + (level-1)*c.Formation.SpeedPerLevel
}

// DiveBonus returns the extra dive speed for the configured tier.
func (c StarstrikeConfig) DiveBonus() int {
	return c.Difficulty.Tier * c.Divers.DiveBonusPerTier
}

// StartLevel returns the first level to play, at least 1.
func (c StarstrikeConfig) StartLevel() int {
	if c.Difficulty.StartLevel < 1 {
		return 1
	}
	return c.Difficulty.StartLevel
}
