package sim

import (
	"math"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Mode is the defender's current steering mode.
type Mode uint8

const (
	ModePatrol Mode = iota // Wanders and retargets on its own
	ModeEvade              // Dodging an incoming bullet
	ModeManual             // Steered by the player
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeEvade:
		return "evade"
	case ModeManual:
		return "manual"
	default:
		return "patrol"
	}
}

// Defender is the ship sitting on the ground line.
type Defender struct {
	core.Rect
	Lives         int
	Mode          Mode
	Direction     float64 // -1, 0 or +1
	Velocity      float64
	Speed         float64 // Evasion speed, grows with attrition
	ShootInterval float64 // Auto-fire period, shrinks with attrition

	cfg     config.DefenderConfig
	bullets config.BulletConfig
	width   float64

	shootTimer  float64
	patrolTimer float64
	evadeTimer  float64
	manualTimer float64 // Cooldown for FireNow
	targetX     float64
	hasTarget   bool
}

// NewDefender places a defender centered on the ground line.
func NewDefender(cfg config.InvadersConfig, width, groundY float64, lives int, rng *RNG) *Defender {
	dc := cfg.Defender
	d := &Defender{
		Rect:          core.NewRect((width-dc.Width)/2, groundY-dc.Height-2, dc.Width, dc.Height),
		Lives:         lives,
		Direction:     randomSide(rng),
		Speed:         dc.BaseSpeed,
		ShootInterval: dc.ShootInterval,
		cfg:           dc,
		bullets:       cfg.Bullets,
		width:         width,
	}
	if !dc.Autopilot {
		d.Mode = ModeManual
		d.Direction = 0
	}
	return d
}

func randomSide(rng *RNG) float64 {
	if rng.Chance(0.5) {
		return 1
	}
	return -1
}

// Update steers the defender and returns a bullet when it auto-fires.
// threats is the list of live bullets; only attacker bullets matter.
func (d *Defender) Update(dt float64, threats []*Bullet, rng *RNG) *Bullet {
	if d.manualTimer > 0 {
		d.manualTimer = math.Max(0, d.manualTimer-dt)
	}

	if d.Mode == ModeManual {
		d.accelerate(dt)
		d.clamp()
		return nil
	}

	d.patrolTimer += dt
	if d.Mode == ModeEvade {
		d.evadeTimer += dt
		if d.evadeTimer > d.cfg.EvadeDuration {
			d.Mode = ModePatrol
			d.evadeTimer = 0
		}
		d.X += d.Direction * d.Speed * dt
	} else if !d.watch(threats) {
		d.patrol(rng)
		d.accelerate(dt)
	}
	d.clamp()

	d.shootTimer += dt
	if d.shootTimer >= d.ShootInterval {
		d.shootTimer = 0
		return NewDefenderBullet(d.bullets, d.Rect)
	}
	return nil
}

// watch switches to evasion when an attacker bullet is inside the threat
// band above the defender.
func (d *Defender) watch(threats []*Bullet) bool {
	for _, b := range threats {
		if b.Owner != OwnerAttacker {
			continue
		}
		if b.Y <= d.Y-d.cfg.ThreatBand || b.Y >= d.Y {
			continue
		}
		if b.X <= d.X-d.cfg.ThreatMargin || b.X >= d.Right()+d.cfg.ThreatMargin {
			continue
		}
		d.Mode = ModeEvade
		d.evadeTimer = 0
		if cx, _ := d.Center(); b.X < cx {
			d.Direction = 1
		} else {
			d.Direction = -1
		}
		return true
	}
	return false
}

func (d *Defender) patrol(rng *RNG) {
	if d.hasTarget {
		cx, _ := d.Center()
		dx := d.targetX - cx
		if math.Abs(dx) < d.cfg.TargetTolerance {
			d.hasTarget = false
			d.Direction = randomSide(rng)
		} else if dx > 0 {
			d.Direction = 1
		} else {
			d.Direction = -1
		}
	}

	if d.patrolTimer >= d.cfg.PatrolInterval {
		d.patrolTimer = 0
		if rng.Chance(d.cfg.RetargetChance) {
			d.targetX = rng.Float64()*(d.width-d.W) + d.W/2
			d.hasTarget = true
		} else {
			d.Direction = randomSide(rng)
		}
	}
}

// accelerate applies the velocity model: accelerate toward Direction up to
// MaxSpeed, or brake to a stop when Direction is zero.
func (d *Defender) accelerate(dt float64) {
	step := d.cfg.Acceleration * dt
	if d.Direction != 0 {
		d.Velocity = core.ClampF(d.Velocity+d.Direction*step, -d.cfg.MaxSpeed, d.cfg.MaxSpeed)
	} else if math.Abs(d.Velocity) < step {
		d.Velocity = 0
	} else {
		d.Velocity -= math.Copysign(step, d.Velocity)
	}
	d.X += d.Velocity * dt
}

func (d *Defender) clamp() {
	limit := d.width - d.W
	if d.X < 0 {
		d.X = 0
		d.Velocity = 0
	} else if d.X > limit {
		d.X = limit
		d.Velocity = 0
	}
}

// SetDirection takes manual control and steers left (-1), right (+1) or
// stops (0).
func (d *Defender) SetDirection(dir int) {
	d.Mode = ModeManual
	d.hasTarget = false
	switch {
	case dir < 0:
		d.Direction = -1
	case dir > 0:
		d.Direction = 1
	default:
		d.Direction = 0
	}
}

// Release hands control back to the autopilot.
func (d *Defender) Release() {
	if d.Mode != ModeManual {
		return
	}
	d.Mode = ModePatrol
	d.patrolTimer = 0
	d.shootTimer = 0
	if d.Direction == 0 {
		d.Direction = 1
	}
}

// FireNow shoots immediately unless the manual cooldown is running.
func (d *Defender) FireNow() *Bullet {
	if d.manualTimer > 0 {
		return nil
	}
	d.manualTimer = d.cfg.ManualFireCooldown
	return NewDefenderBullet(d.bullets, d.Rect)
}

// TakeDamage removes a life and reports whether none are left.
func (d *Defender) TakeDamage() bool {
	if d.Lives > 0 {
		d.Lives--
	}
	return d.Lives <= 0
}

// Adjust scales speed and fire rate with the destroyed fraction of the
// formation and occasionally flips the patrol direction.
func (d *Defender) Adjust(dm *config.DifficultyManager, destroyed float64, rng *RNG) {
	d.Speed = dm.DefenderSpeed(d.cfg.BaseSpeed, destroyed)
	d.ShootInterval = dm.DefenderShootInterval(d.cfg.ShootInterval, d.cfg.MinShootInterval, destroyed)
	if d.Mode == ModePatrol && rng.Chance(0.3) {
		d.Direction = randomSide(rng)
	}
}
