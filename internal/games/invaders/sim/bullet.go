package sim

import (
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Owner identifies which side fired a bullet.
type Owner uint8

const (
	OwnerDefender Owner = iota // Travels up, hits attackers and the bonus ship
	OwnerAttacker              // Travels down, hits the defender
)

// String returns the name of the owner.
func (o Owner) String() string {
	if o == OwnerDefender {
		return "defender"
	}
	return "attacker"
}

// Tier distinguishes attacker bullet speeds.
type Tier uint8

const (
	TierNormal Tier = iota
	TierFast
)

// Bullet is a projectile. Position is the top-left corner of its box.
type Bullet struct {
	core.Rect
	Owner Owner
	Tier  Tier
	VY    float64 // World units per second, negative is up
}

// NewDefenderBullet spawns a bullet centered above the defender's nose.
func NewDefenderBullet(cfg config.BulletConfig, from core.Rect) *Bullet {
	cx, _ := from.Center()
	return &Bullet{
		Rect:  core.NewRect(cx-cfg.Width/2, from.Y-cfg.Height, cfg.Width, cfg.Height),
		Owner: OwnerDefender,
		VY:    -cfg.DefenderSpeed,
	}
}

// NewAttackerBullet spawns a bullet centered below an attacker's hitbox.
func NewAttackerBullet(cfg config.BulletConfig, from core.Rect, fast bool) *Bullet {
	cx, _ := from.Center()
	b := &Bullet{
		Rect:  core.NewRect(cx-cfg.Width/2, from.Bottom(), cfg.Width, cfg.Height),
		Owner: OwnerAttacker,
		VY:    cfg.AttackerSpeed,
	}
	if fast {
		b.Tier = TierFast
		b.VY = cfg.FastSpeed
	}
	return b
}

// Update advances the bullet vertically.
func (b *Bullet) Update(dt float64) {
	b.Y += b.VY * dt
}

// OffScreen reports whether the bullet has left a viewport of the given height.
func (b *Bullet) OffScreen(height float64) bool {
	return b.Bottom() < 0 || b.Y > height
}
