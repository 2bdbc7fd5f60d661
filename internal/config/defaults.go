package config

import (
	_ "embed"
)

//go:embed defaults/starstrike.yaml
var defaultStarstrikeYAML []byte

// DefaultStarstrikeConfig returns the built-in starstrike configuration.
// It mirrors defaults/starstrike.yaml.
func DefaultStarstrikeConfig() StarstrikeConfig {
	return StarstrikeConfig{
		Field: FieldConfig{
			Width:        800,
			Height:       600,
			SideMargin:   20,
			BottomMargin: 160,
		},
		Formation: FormationConfig{
			Columns:         10,
			Rows:            5,
			UnitWidth:       40,
			UnitHeight:      24,
			ColumnPitch:     56,
			RowPitch:        40,
			StartX:          60,
			StartY:          80,
			LateralSpeed:    10,
			DescentSpeed:    4,
			DescentDistance: 20,
			StepThreshold:   100,
			BaseSpeed:       20,
			SpeedPerLevel:   4,
			MinSpeedOffset:  10,
			ShootInterval:   1200,
			ShootVariance:   400,
			BulletSpeed:     4,
			SpreadOffset:    14,
		},
		Divers: DiverConfig{
			MaxCount:         8,
			Width:            40,
			Height:           24,
			PatrolSpeed:      2,
			DiveSpeed:        5,
			DiveBonusPerTier: 1,
			ReadyInterval:    4000,
			ReadyVariance:    1500,
			ReturnAltitude:   40,
			MaxWindupTicks:   45,
			AlignTolerance:   20,
		},
		Combat: CombatConfig{
			BulletWidth:       4,
			BulletHeight:      12,
			PlayerBulletSpeed: 8,
			ComboWindow:       3000,
			ComboBand:         5,
			ItemDropChance:    30,
		},
		Items: ItemConfig{
			BoxSize:             20,
			GhostDuration:       3000,
			TimeStopDuration:    4000,
			BarrierSpacing:      200,
			BarrierBottomOffset: 120,
			BarrierWidth:        60,
			BarrierHeight:       16,
			MaxShots:            3,
		},
		Player: PlayerConfig{
			Width:        40,
			Height:       24,
			Speed:        8,
			BottomOffset: 48,
			Lives:        3,
			RespawnGhost: 1500,
			RespawnDelay: 1000,
		},
		Special: SpecialConfig{
			Points:      150,
			Width:       48,
			Height:      20,
			Speed:       3,
			Y:           4,
			SpawnChance: 900,
		},
		Obstacles: ObstacleConfig{
			Width:    40,
			Height:   20,
			MaxCount: 4,
			Y:        400,
		},
		Difficulty: DifficultyConfig{
			Preset:     DifficultyNormal,
			Tier:       1,
			StartLevel: 1,
		},
	}
}
