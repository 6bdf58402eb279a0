package config

import (
	_ "embed"
)

//go:embed defaults/invaders.yaml
var defaultInvadersYAML []byte

// DefaultInvadersConfig returns the built-in configuration.
// It mirrors defaults/invaders.yaml and is used when the embedded file cannot be parsed.
func DefaultInvadersConfig() InvadersConfig {
	return InvadersConfig{
		World: WorldConfig{
			CellWidth:  8,
			CellHeight: 24,
			MinHeight:  480,
			MaxDelta:   0.1,
		},
		Formation: FormationConfig{
			SpriteWidth:        24,
			SpriteHeight:       16,
			HitboxWidth:        32,
			HitboxHeight:       32,
			PaddingX:           15,
			PaddingY:           16,
			TopY:               80,
			HorizontalStep:     10,
			VerticalStep:       20,
			EdgeMargin:         5,
			GroundOffset:       60,
			AnimationInterval:  0.2,
			FireCooldown:       1.0,
			AutoFire:           false,
			FireRollsPerSecond: 10,
			VolleyInterval:     10,
			VolleyChance:       0.3,
			VolleySize:         3,
			VolleyStagger:      0.2,
		},
		Defender: DefenderConfig{
			Width:              30,
			Height:             16,
			Lives:              3,
			BaseSpeed:          150,
			MaxSpeed:           200,
			Acceleration:       400,
			ShootInterval:      1.5,
			MinShootInterval:   0.5,
			PatrolInterval:     2,
			RetargetChance:     0.1,
			TargetTolerance:    5,
			EvadeDuration:      0.5,
			ThreatBand:         80,
			ThreatMargin:       20,
			ManualFireCooldown: 0.3,
			RespawnDelay:       1.0,
			Autopilot:          true,
		},
		Bullets: BulletConfig{
			Width:         4,
			Height:        10,
			DefenderSpeed: 300,
			AttackerSpeed: 200,
			FastSpeed:     350,
		},
		Barriers: BarrierConfig{
			Count:       4,
			MaxWidth:    60,
			Height:      40,
			TopOffset:   120,
			SegmentSize: 3,
			Health:      3,
			DoorRows:    6,
		},
		Bonus: BonusConfig{
			Width:         32,
			Height:        14,
			Y:             70,
			Speed:         100,
			Points:        100,
			SpawnInterval: 15,
			SpawnChance:   0.7,
		},
		Gameplay: GameplayConfig{
			StartLevel:         1,
			MaxLevel:           5,
			RestartDelay:       3,
			HitBounty:          150,
			KillBounty:         500,
			CelebrationBursts:  15,
			CelebrationStagger: 0.2,
		},
		Difficulty: DifficultyConfig{
			Enabled:             true,
			Scale:               1.0,
			BaseMoveInterval:    1.0,
			MinBaseInterval:     0.4,
			LevelIntervalStep:   0.1,
			MinMoveInterval:     0.2,
			BaseFire:            0.02,
			FirePerLevel:        0.005,
			FireRamp:            0.03,
			MaxFire:             0.05,
			BaseTargeting:       0.3,
			TargetingPerLevel:   0.15,
			FastBulletPerLevel:  0.1,
			MaxFastBullet:       0.5,
			DegradeAfterLevel:   2,
			DegradePerLevel:     0.1,
			MaxDegrade:          0.5,
			DefenderSpeedGain:   1.0,
			DefenderIntervalCut: 1.0,
		},
	}
}
