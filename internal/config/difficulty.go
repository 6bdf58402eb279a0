package config

import "math"

// DifficultyManager derives formation and defender tuning from the current
// level and from the fraction of attackers still alive.
//
// For a fixed level every curve is monotonic in the alive fraction: fewer
// attackers never lengthen the move interval and never lower the fire rate.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return &DifficultyManager{cfg: cfg}
}

// SetEnabled enables or disables level-based scaling.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether level-based scaling is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// effectiveLevel returns the level the curves are evaluated at.
func (d *DifficultyManager) effectiveLevel(level int) float64 {
	if !d.cfg.Enabled || level < 1 {
		return 1
	}
	return float64(level)
}

// MoveInterval returns the seconds between formation steps.
func (d *DifficultyManager) MoveInterval(level int, aliveFraction float64) float64 {
	lvl := d.effectiveLevel(level)
	base := math.Max(d.cfg.MinBaseInterval, d.cfg.BaseMoveInterval-d.cfg.LevelIntervalStep*(lvl-1))
	base /= d.cfg.Scale
	return math.Max(d.cfg.MinMoveInterval, base*clampF(aliveFraction, 0, 1))
}

// FireProbability returns the chance that one autonomous fire roll succeeds.
func (d *DifficultyManager) FireProbability(level int, aliveFraction float64) float64 {
	lvl := d.effectiveLevel(level)
	base := math.Min(d.cfg.MaxFire, d.cfg.BaseFire+d.cfg.FirePerLevel*(lvl-1))
	p := math.Min(d.cfg.MaxFire, base+(1-clampF(aliveFraction, 0, 1))*d.cfg.FireRamp)
	return clampF(p*d.cfg.Scale, 0, 1)
}

// TargetingChance returns the probability that a shooter is picked among the
// attackers nearest to the defender instead of the bottom row.
func (d *DifficultyManager) TargetingChance(level int) float64 {
	lvl := d.effectiveLevel(level)
	return clampF(d.cfg.BaseTargeting+d.cfg.TargetingPerLevel*(lvl-1), 0, 1)
}

// FastBulletChance returns the probability that an attacker bullet is fast.
func (d *DifficultyManager) FastBulletChance(level int) float64 {
	lvl := d.effectiveLevel(level)
	return clampF(math.Min(d.cfg.MaxFastBullet, d.cfg.FastBulletPerLevel*lvl), 0, 1)
}

// BarrierDegradeChance returns the per-segment chance of pre-damage when
// barriers are built for the given level. Zero for the first levels.
func (d *DifficultyManager) BarrierDegradeChance(level int) float64 {
	lvl := d.effectiveLevel(level)
	over := lvl - float64(d.cfg.DegradeAfterLevel)
	if over <= 0 {
		return 0
	}
	return clampF(math.Min(d.cfg.MaxDegrade, d.cfg.DegradePerLevel*over), 0, 1)
}

// DefenderSpeed returns the defender's cruise speed after the given fraction
// of the formation has been destroyed.
func (d *DifficultyManager) DefenderSpeed(baseSpeed, destroyedFraction float64) float64 {
	return baseSpeed * (1 + clampF(destroyedFraction, 0, 1)*d.cfg.DefenderSpeedGain)
}

// DefenderShootInterval returns the defender's auto-fire interval after the
// given fraction of the formation has been destroyed.
func (d *DifficultyManager) DefenderShootInterval(base, minInterval, destroyedFraction float64) float64 {
	return math.Max(minInterval, base-clampF(destroyedFraction, 0, 1)*d.cfg.DefenderIntervalCut)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
