package sim

import (
	"math"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Segment is one destructible square of a barrier.
type Segment struct {
	core.Rect
	Health int
}

// Barrier is a shield made of small segments. Destroyed segments are removed,
// so every segment still present has positive health.
type Barrier struct {
	core.Rect
	Segments []Segment
}

// Splash describes radial damage applied around an impact point.
// Segments closer than Core take CoreDamage, the rest within Radius take
// ceil(Falloff * (1 - d/Radius)).
type Splash struct {
	Radius     float64
	Core       float64
	CoreDamage int
	Falloff    float64
}

var (
	// BulletSplash is applied when an attacker bullet strikes a barrier.
	BulletSplash = Splash{Radius: 15, Core: 5, CoreDamage: 10, Falloff: 5}
	// BodySplash is applied when an attacker crashes into a barrier.
	BodySplash = Splash{Radius: 30, Core: 10, CoreDamage: 10, Falloff: 6}
)

// DamageAt returns the damage dealt at distance d from the impact.
func (s Splash) DamageAt(d float64) int {
	switch {
	case d > s.Radius:
		return 0
	case d < s.Core:
		return s.CoreDamage
	default:
		return int(math.Ceil(s.Falloff * (1 - d/s.Radius)))
	}
}

// NewBarrier carves a barrier into segments with a door cut out of the
// bottom middle.
func NewBarrier(cfg config.BarrierConfig, x, y, w, h float64) *Barrier {
	b := &Barrier{Rect: core.NewRect(x, y, w, h)}
	size := cfg.SegmentSize
	rows := int(h / size)
	cols := int(w / size)
	half := float64(cols) / 2

	for row := range rows {
		for col := range cols {
			c := float64(col)
			if row >= rows-cfg.DoorRows && c >= half-3 && c <= half+2 {
				continue
			}
			b.Segments = append(b.Segments, Segment{
				Rect:   core.NewRect(x+c*size, y+float64(row)*size, size, size),
				Health: cfg.Health,
			})
		}
	}
	return b
}

// BuildBarriers lays out the row of barriers above the ground line, centered
// in a viewport of the given width.
func BuildBarriers(cfg config.BarrierConfig, width, groundY float64) []*Barrier {
	if cfg.Count <= 0 {
		return nil
	}
	w := math.Min(cfg.MaxWidth, math.Floor(cfg.MaxWidth*width/440))
	y := groundY - cfg.TopOffset

	// 20px margin per side, 90% of what remains
	usable := (width - 40) * 0.9
	total := w * float64(cfg.Count)
	spacing := 0.0
	if cfg.Count > 1 {
		spacing = math.Floor((usable - total) / float64(cfg.Count-1))
	}
	startX := (width - (total + spacing*float64(cfg.Count-1))) / 2

	barriers := make([]*Barrier, 0, cfg.Count)
	for i := range cfg.Count {
		x := startX + float64(i)*(w+spacing)
		barriers = append(barriers, NewBarrier(cfg, x, y, w, cfg.Height))
	}
	return barriers
}

// Intact reports whether any segment remains.
func (b *Barrier) Intact() bool {
	return len(b.Segments) > 0
}

// CheckCollision resolves a bullet against the barrier. On a hit the first
// overlapping segment is damaged according to the bullet's owner and the
// impact point is returned.
//   - defender bullets remove one health point from that segment
//   - attacker bullets splash around the segment's center
func (b *Barrier) CheckCollision(bullet *Bullet) (hit bool, x, y float64) {
	if !b.Intact() || !b.Rect.Intersects(bullet.Rect) {
		return false, 0, 0
	}
	for i := range b.Segments {
		seg := &b.Segments[i]
		if !seg.Intersects(bullet.Rect) {
			continue
		}
		x, y = seg.Center()
		if bullet.Owner == OwnerAttacker {
			b.Splash(x, y, BulletSplash)
		} else {
			seg.Health--
			b.prune()
		}
		return true, x, y
	}
	return false, 0, 0
}

// CheckBody reports whether an attacker's hitbox overlaps any segment and,
// if so, blasts the barrier around the attacker's center.
func (b *Barrier) CheckBody(body core.Rect) bool {
	if !b.Intact() || !b.Rect.Intersects(body) {
		return false
	}
	for i := range b.Segments {
		if b.Segments[i].Intersects(body) {
			cx, cy := body.Center()
			b.Splash(cx, cy, BodySplash)
			return true
		}
	}
	return false
}

// Splash applies radial damage around (cx, cy) and returns how many segments
// were destroyed.
func (b *Barrier) Splash(cx, cy float64, s Splash) int {
	for i := range b.Segments {
		sx, sy := b.Segments[i].Center()
		b.Segments[i].Health -= s.DamageAt(core.Distance(cx, cy, sx, sy))
	}
	return b.prune()
}

// Degrade pre-damages segments for harder levels. Each segment loses one
// health point with the given chance.
func (b *Barrier) Degrade(chance float64, rng *RNG) int {
	if chance <= 0 {
		return 0
	}
	for i := range b.Segments {
		if rng.Chance(chance) {
			b.Segments[i].Health--
		}
	}
	return b.prune()
}

// prune drops segments without health, keeping order.
func (b *Barrier) prune() int {
	kept := b.Segments[:0]
	for _, seg := range b.Segments {
		if seg.Health > 0 {
			kept = append(kept, seg)
		}
	}
	removed := len(b.Segments) - len(kept)
	b.Segments = kept
	return removed
}
