// Package config provides YAML/TOML game configuration loading and
// difficulty management for starstrike.
package config

import (
	"fmt"
	"time"
)

// StarstrikeConfig contains all configuration for the starstrike game.
// Distances are in field units, durations in milliseconds, speeds in
// field units per tick.
type StarstrikeConfig struct {
	Field      FieldConfig      `yaml:"field" toml:"field"`
	Formation  FormationConfig  `yaml:"formation" toml:"formation"`
	Divers     DiverConfig      `yaml:"divers" toml:"divers"`
	Combat     CombatConfig     `yaml:"combat" toml:"combat"`
	Items      ItemConfig       `yaml:"items" toml:"items"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	Special    SpecialConfig    `yaml:"special" toml:"special"`
	Obstacles  ObstacleConfig   `yaml:"obstacles" toml:"obstacles"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// FieldConfig defines the abstract play area.
type FieldConfig struct {
	Width        int `yaml:"width" toml:"width"`
	Height       int `yaml:"height" toml:"height"`
	SideMargin   int `yaml:"side_margin" toml:"side_margin"`
	BottomMargin int `yaml:"bottom_margin" toml:"bottom_margin"` // formation never descends below Height-BottomMargin
}

// FormationConfig defines the enemy grid and its movement.
type FormationConfig struct {
	Columns         int `yaml:"columns" toml:"columns"`
	Rows            int `yaml:"rows" toml:"rows"`
	UnitWidth       int `yaml:"unit_width" toml:"unit_width"`
	UnitHeight      int `yaml:"unit_height" toml:"unit_height"`
	ColumnPitch     int `yaml:"column_pitch" toml:"column_pitch"`
	RowPitch        int `yaml:"row_pitch" toml:"row_pitch"`
	StartX          int `yaml:"start_x" toml:"start_x"`
	StartY          int `yaml:"start_y" toml:"start_y"`
	LateralSpeed    int `yaml:"lateral_speed" toml:"lateral_speed"`
	DescentSpeed    int `yaml:"descent_speed" toml:"descent_speed"`
	DescentDistance int `yaml:"descent_distance" toml:"descent_distance"`
	StepThreshold   int `yaml:"step_threshold" toml:"step_threshold"`
	BaseSpeed       int `yaml:"base_speed" toml:"base_speed"`
	SpeedPerLevel   int `yaml:"speed_per_level" toml:"speed_per_level"`
	MinSpeedOffset  int `yaml:"min_speed_offset" toml:"min_speed_offset"`
	ShootInterval   int `yaml:"shoot_interval_ms" toml:"shoot_interval_ms"`
	ShootVariance   int `yaml:"shoot_variance_ms" toml:"shoot_variance_ms"`
	BulletSpeed     int `yaml:"bullet_speed" toml:"bullet_speed"`
	SpreadOffset    int `yaml:"spread_offset" toml:"spread_offset"`
}

// DiverConfig defines diver units.
type DiverConfig struct {
	MaxCount         int `yaml:"max_count" toml:"max_count"`
	Width            int `yaml:"width" toml:"width"`
	Height           int `yaml:"height" toml:"height"`
	PatrolSpeed      int `yaml:"patrol_speed" toml:"patrol_speed"`
	DiveSpeed        int `yaml:"dive_speed" toml:"dive_speed"`
	DiveBonusPerTier int `yaml:"dive_bonus_per_tier" toml:"dive_bonus_per_tier"`
	ReadyInterval    int `yaml:"ready_interval_ms" toml:"ready_interval_ms"`
	ReadyVariance    int `yaml:"ready_variance_ms" toml:"ready_variance_ms"`
	ReturnAltitude   int `yaml:"return_altitude" toml:"return_altitude"`
	MaxWindupTicks   int `yaml:"max_windup_ticks" toml:"max_windup_ticks"`
	AlignTolerance   int `yaml:"align_tolerance" toml:"align_tolerance"`
}

// CombatConfig defines bullets, combo and drops.
type CombatConfig struct {
	BulletWidth       int `yaml:"bullet_width" toml:"bullet_width"`
	BulletHeight      int `yaml:"bullet_height" toml:"bullet_height"`
	PlayerBulletSpeed int `yaml:"player_bullet_speed" toml:"player_bullet_speed"`
	ComboWindow       int `yaml:"combo_window_ms" toml:"combo_window_ms"`
	ComboBand         int `yaml:"combo_band" toml:"combo_band"`
	ItemDropChance    int `yaml:"item_drop_chance" toml:"item_drop_chance"` // out of 0..100 inclusive
}

// ItemConfig defines item boxes and effect parameters.
type ItemConfig struct {
	BoxSize             int `yaml:"box_size" toml:"box_size"`
	GhostDuration       int `yaml:"ghost_duration_ms" toml:"ghost_duration_ms"`
	TimeStopDuration    int `yaml:"time_stop_duration_ms" toml:"time_stop_duration_ms"`
	BarrierSpacing      int `yaml:"barrier_spacing" toml:"barrier_spacing"`
	BarrierBottomOffset int `yaml:"barrier_bottom_offset" toml:"barrier_bottom_offset"`
	BarrierWidth        int `yaml:"barrier_width" toml:"barrier_width"`
	BarrierHeight       int `yaml:"barrier_height" toml:"barrier_height"`
	MaxShots            int `yaml:"max_shots" toml:"max_shots"`
}

// PlayerConfig defines the player ship.
type PlayerConfig struct {
	Width        int `yaml:"width" toml:"width"`
	Height       int `yaml:"height" toml:"height"`
	Speed        int `yaml:"speed" toml:"speed"`
	BottomOffset int `yaml:"bottom_offset" toml:"bottom_offset"`
	Lives        int `yaml:"lives" toml:"lives"`
	RespawnGhost int `yaml:"respawn_ghost_ms" toml:"respawn_ghost_ms"`
	RespawnDelay int `yaml:"respawn_delay_ms" toml:"respawn_delay_ms"`
}

// SpecialConfig defines the bonus ship crossing the top of the field.
type SpecialConfig struct {
	Points      int `yaml:"points" toml:"points"`
	Width       int `yaml:"width" toml:"width"`
	Height      int `yaml:"height" toml:"height"`
	Speed       int `yaml:"speed" toml:"speed"`
	Y           int `yaml:"y" toml:"y"`
	SpawnChance int `yaml:"spawn_chance" toml:"spawn_chance"` // 1 in N per tick
}

// ObstacleConfig defines static blocks placed per level.
type ObstacleConfig struct {
	Width    int `yaml:"width" toml:"width"`
	Height   int `yaml:"height" toml:"height"`
	MaxCount int `yaml:"max_count" toml:"max_count"`
	Y        int `yaml:"y" toml:"y"`
}

// DifficultyConfig defines the difficulty tier and starting level.
type DifficultyConfig struct {
	Preset     DifficultyPreset `yaml:"preset" toml:"preset"`
	Tier       int              `yaml:"tier" toml:"tier"` // 0 easy, 1 normal, 2 hard
	StartLevel int              `yaml:"start_level" toml:"start_level"`
}

// Ms converts a millisecond setting to a duration.
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// Validate rejects settings the engine cannot run with.
func (c StarstrikeConfig) Validate() error {
	f := c.Formation
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("config: field must have positive size, got %dx%d", c.Field.Width, c.Field.Height)
	case f.Columns <= 0 || f.Rows <= 0:
		return fmt.Errorf("config: formation must have at least one column and row, got %dx%d", f.Columns, f.Rows)
	case f.UnitWidth <= 0 || f.UnitHeight <= 0:
		return fmt.Errorf("config: unit size must be positive, got %dx%d", f.UnitWidth, f.UnitHeight)
	case f.LateralSpeed <= 0 || f.DescentSpeed <= 0:
		return fmt.Errorf("config: formation speeds must be positive")
	case f.StepThreshold <= 0 || f.BaseSpeed+f.MinSpeedOffset <= 0:
		return fmt.Errorf("config: formation step threshold and speed must be positive")
	case f.DescentDistance <= 0 || f.DescentDistance%f.DescentSpeed != 0:
		return fmt.Errorf("config: descent_distance %d must be a positive multiple of descent_speed %d",
			f.DescentDistance, f.DescentSpeed)
	case f.StartY%f.DescentDistance != 0 || f.RowPitch%f.DescentDistance != 0:
		return fmt.Errorf("config: start_y and row_pitch must be multiples of descent_distance %d", f.DescentDistance)
	case f.BulletSpeed <= 0 || c.Combat.PlayerBulletSpeed <= 0:
		return fmt.Errorf("config: bullet speeds must be positive")
	case c.Combat.ComboBand <= 0:
		return fmt.Errorf("config: combo_band must be positive")
	case c.Items.MaxShots < 1:
		return fmt.Errorf("config: max_shots must be at least 1")
	case c.Player.Lives < 1:
		return fmt.Errorf("config: player needs at least one life")
	case c.Divers.DiveSpeed <= 0 || c.Divers.PatrolSpeed <= 0:
		return fmt.Errorf("config: diver speeds must be positive")
	}
	if _, err := ParsePreset(string(c.Difficulty.Preset)); err != nil {
		return err
	}
	return nil
}
