// Package config provides YAML-based game configuration loading and
// difficulty management for the invaders simulation.
package config

import (
	"errors"
	"fmt"
)

// InvadersConfig contains all tunable parameters of the simulation.
// World distances are in world units ("pixels"), durations in seconds.
type InvadersConfig struct {
	World      WorldConfig      `yaml:"world"`
	Formation  FormationConfig  `yaml:"formation"`
	Defender   DefenderConfig   `yaml:"defender"`
	Bullets    BulletConfig     `yaml:"bullets"`
	Barriers   BarrierConfig    `yaml:"barriers"`
	Bonus      BonusConfig      `yaml:"bonus"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig maps terminal cells to world units.
type WorldConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	MinHeight  float64 `yaml:"min_height"` // Shorter terminals are scaled down to fit
	MaxDelta   float64 `yaml:"max_delta"`  // Upper bound for a single update step
}

// FormationConfig defines the attacker grid layout and behavior.
type FormationConfig struct {
	SpriteWidth        float64 `yaml:"sprite_width"`
	SpriteHeight       float64 `yaml:"sprite_height"`
	HitboxWidth        float64 `yaml:"hitbox_width"`
	HitboxHeight       float64 `yaml:"hitbox_height"`
	PaddingX           float64 `yaml:"padding_x"`
	PaddingY           float64 `yaml:"padding_y"`
	TopY               float64 `yaml:"top_y"`
	HorizontalStep     float64 `yaml:"horizontal_step"`
	VerticalStep       float64 `yaml:"vertical_step"`
	EdgeMargin         float64 `yaml:"edge_margin"`
	GroundOffset       float64 `yaml:"ground_offset"` // Ground line sits this far above the bottom
	AnimationInterval  float64 `yaml:"animation_interval"`
	FireCooldown       float64 `yaml:"fire_cooldown"`
	AutoFire           bool    `yaml:"auto_fire"`
	FireRollsPerSecond float64 `yaml:"fire_rolls_per_second"`
	VolleyInterval     float64 `yaml:"volley_interval"`
	VolleyChance       float64 `yaml:"volley_chance"`
	VolleySize         int     `yaml:"volley_size"`
	VolleyStagger      float64 `yaml:"volley_stagger"`
}

// DefenderConfig defines the defender avatar.
type DefenderConfig struct {
	Width              float64 `yaml:"width"`
	Height             float64 `yaml:"height"`
	Lives              int     `yaml:"lives"`
	BaseSpeed          float64 `yaml:"base_speed"`
	MaxSpeed           float64 `yaml:"max_speed"`
	Acceleration       float64 `yaml:"acceleration"`
	ShootInterval      float64 `yaml:"shoot_interval"`
	MinShootInterval   float64 `yaml:"min_shoot_interval"`
	PatrolInterval     float64 `yaml:"patrol_interval"`
	RetargetChance     float64 `yaml:"retarget_chance"`
	TargetTolerance    float64 `yaml:"target_tolerance"`
	EvadeDuration      float64 `yaml:"evade_duration"`
	ThreatBand         float64 `yaml:"threat_band"`
	ThreatMargin       float64 `yaml:"threat_margin"`
	ManualFireCooldown float64 `yaml:"manual_fire_cooldown"`
	RespawnDelay       float64 `yaml:"respawn_delay"`
	Autopilot          bool    `yaml:"autopilot"` // Steers and fires on its own
}

// BulletConfig defines projectile sizes and speeds.
type BulletConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	DefenderSpeed float64 `yaml:"defender_speed"`
	AttackerSpeed float64 `yaml:"attacker_speed"`
	FastSpeed     float64 `yaml:"fast_speed"`
}

// BarrierConfig defines the destructible shields.
type BarrierConfig struct {
	Count       int     `yaml:"count"`
	MaxWidth    float64 `yaml:"max_width"`
	Height      float64 `yaml:"height"`
	TopOffset   float64 `yaml:"top_offset"` // Distance above the ground line
	SegmentSize float64 `yaml:"segment_size"`
	Health      int     `yaml:"health"`
	DoorRows    int     `yaml:"door_rows"`
}

// BonusConfig defines the mystery ship.
type BonusConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Y             float64 `yaml:"y"`
	Speed         float64 `yaml:"speed"`
	Points        int     `yaml:"points"`
	SpawnInterval float64 `yaml:"spawn_interval"`
	SpawnChance   float64 `yaml:"spawn_chance"`
}

// GameplayConfig defines level flow and scoring outside of kills.
type GameplayConfig struct {
	StartLevel         int     `yaml:"start_level"`
	MaxLevel           int     `yaml:"max_level"`
	RestartDelay       float64 `yaml:"restart_delay"`
	HitBounty          int     `yaml:"hit_bounty"`  // Attacker score per defender hit
	KillBounty         int     `yaml:"kill_bounty"` // Extra attacker score for the fatal hit
	CelebrationBursts  int     `yaml:"celebration_bursts"`
	CelebrationStagger float64 `yaml:"celebration_stagger"`
}

// DifficultyConfig defines how the formation scales with level and attrition.
type DifficultyConfig struct {
	Enabled             bool    `yaml:"enabled"` // When false every level plays like level 1
	Scale               float64 `yaml:"scale"`   // Global aggression multiplier
	BaseMoveInterval    float64 `yaml:"base_move_interval"`
	MinBaseInterval     float64 `yaml:"min_base_interval"`
	LevelIntervalStep   float64 `yaml:"level_interval_step"`
	MinMoveInterval     float64 `yaml:"min_move_interval"`
	BaseFire            float64 `yaml:"base_fire"`
	FirePerLevel        float64 `yaml:"fire_per_level"`
	FireRamp            float64 `yaml:"fire_ramp"`
	MaxFire             float64 `yaml:"max_fire"`
	BaseTargeting       float64 `yaml:"base_targeting"`
	TargetingPerLevel   float64 `yaml:"targeting_per_level"`
	FastBulletPerLevel  float64 `yaml:"fast_bullet_per_level"`
	MaxFastBullet       float64 `yaml:"max_fast_bullet"`
	DegradeAfterLevel   int     `yaml:"degrade_after_level"`
	DegradePerLevel     float64 `yaml:"degrade_per_level"`
	MaxDegrade          float64 `yaml:"max_degrade"`
	DefenderSpeedGain   float64 `yaml:"defender_speed_gain"`   // Fraction of base speed gained at full attrition
	DefenderIntervalCut float64 `yaml:"defender_interval_cut"` // Seconds removed from the shoot interval at full attrition
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ErrUnknownPreset is returned by ParsePreset for unrecognized names.
var ErrUnknownPreset = errors.New("config: unknown difficulty preset")

// ParsePreset converts a CLI value to a preset. The empty string is valid
// and means "use the config as loaded".
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// Validate reports configuration values the simulation cannot run with.
func (c InvadersConfig) Validate() error {
	var errs []error
	if c.World.CellWidth <= 0 || c.World.CellHeight <= 0 {
		errs = append(errs, errors.New("world cell size must be positive"))
	}
	if c.Gameplay.MaxLevel < 1 {
		errs = append(errs, errors.New("gameplay.max_level must be at least 1"))
	}
	if c.Defender.Lives < 1 {
		errs = append(errs, errors.New("defender.lives must be at least 1"))
	}
	if c.Barriers.SegmentSize <= 0 || c.Barriers.Health < 1 {
		errs = append(errs, errors.New("barrier segments need a positive size and health"))
	}
	if c.Bullets.Width <= 0 || c.Bullets.Height <= 0 {
		errs = append(errs, errors.New("bullet size must be positive"))
	}
	if c.Difficulty.MinMoveInterval <= 0 {
		errs = append(errs, errors.New("difficulty.min_move_interval must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid invaders config: %w", errors.Join(errs...))
	}
	return nil
}
