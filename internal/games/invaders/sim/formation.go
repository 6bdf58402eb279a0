package sim

import (
	"math"
	"sort"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// AnimationFrames is the number of sprite frames attackers cycle through.
const AnimationFrames = 4

// GridSize returns the formation dimensions for a viewport width.
func GridSize(width float64) (rows, cols int) {
	switch {
	case width < 350:
		return 4, 6
	case width < 500:
		return 5, 8
	default:
		return 5, 11
	}
}

// Crash records an attacker that flew into a barrier.
type Crash struct {
	X, Y float64
	Kind Kind
}

// StepReport summarizes what a formation update did.
type StepReport struct {
	Stepped  bool    // The formation moved this update
	Reversed bool    // The step hit an edge, so it descended instead
	Crashed  []Crash // Attackers destroyed by barrier contact
}

// Formation owns the attacker arena and its collective movement.
// Attackers are addressed by index; dead ones stay in place.
type Formation struct {
	Attackers []Attacker
	Rows      int
	Cols      int

	Direction       float64 // +1 moving right, -1 moving left
	MoveInterval    float64 // Seconds between steps
	FireProbability float64 // Chance of one autonomous fire roll succeeding
	MoveCount       int     // Steps taken, drives the march sound
	GroundY         float64

	cfg        config.FormationConfig
	bullets    config.BulletConfig
	difficulty *config.DifficultyManager
	level      int
	width      float64
	alive      int
	frame      int

	moveTimer   float64
	animTimer   float64
	volleyTimer float64
}

// NewFormation lays out a full formation for the given level.
func NewFormation(cfg config.InvadersConfig, dm *config.DifficultyManager, level int, width, height float64) *Formation {
	f := &Formation{
		Direction:  1,
		GroundY:    height - cfg.Formation.GroundOffset,
		cfg:        cfg.Formation,
		bullets:    cfg.Bullets,
		difficulty: dm,
		level:      level,
		width:      width,
	}
	f.Rows, f.Cols = GridSize(width)

	fc := cfg.Formation
	gridW := float64(f.Cols)*fc.SpriteWidth + float64(f.Cols-1)*fc.PaddingX
	startX := (width - gridW) / 2
	offX := (fc.HitboxWidth - fc.SpriteWidth) / 2
	offY := (fc.HitboxHeight - fc.SpriteHeight) / 2

	f.Attackers = make([]Attacker, 0, f.Rows*f.Cols)
	for row := range f.Rows {
		for col := range f.Cols {
			x := startX + float64(col)*(fc.SpriteWidth+fc.PaddingX)
			y := fc.TopY + float64(row)*(fc.SpriteHeight+fc.PaddingY)
			f.Attackers = append(f.Attackers, Attacker{
				Rect:  core.NewRect(x-offX, y-offY, fc.HitboxWidth, fc.HitboxHeight),
				Kind:  kindForRow(row),
				Row:   row,
				Col:   col,
				Alive: true,
			})
		}
	}
	f.alive = len(f.Attackers)
	f.retune()
	return f
}

// Level returns the level this formation was built for.
func (f *Formation) Level() int {
	return f.level
}

// AliveCount returns the number of living attackers.
func (f *Formation) AliveCount() int {
	return f.alive
}

// Total returns the size of the formation at the start of the level.
func (f *Formation) Total() int {
	return len(f.Attackers)
}

// AliveFraction returns living attackers over the starting count.
func (f *Formation) AliveFraction() float64 {
	if len(f.Attackers) == 0 {
		return 0
	}
	return float64(f.alive) / float64(len(f.Attackers))
}

// DestroyedFraction returns 1 - AliveFraction.
func (f *Formation) DestroyedFraction() float64 {
	return 1 - f.AliveFraction()
}

// Kill marks an attacker dead and retunes speed and fire rate.
// Returns false if it was already dead.
func (f *Formation) Kill(a *Attacker) bool {
	if !a.Alive {
		return false
	}
	a.Alive = false
	f.alive--
	f.retune()
	return true
}

// retune recomputes the curves that depend on attrition.
func (f *Formation) retune() {
	frac := f.AliveFraction()
	f.MoveInterval = f.difficulty.MoveInterval(f.level, frac)
	f.FireProbability = f.difficulty.FireProbability(f.level, frac)
}

// Update ticks cooldowns and animation, steps the formation when its move
// timer expires, and resolves attacker bodies against barriers.
func (f *Formation) Update(dt float64, barriers []*Barrier) StepReport {
	var rep StepReport

	for i := range f.Attackers {
		if a := &f.Attackers[i]; a.Cooldown > 0 {
			a.Cooldown = math.Max(0, a.Cooldown-dt)
		}
	}
	if f.alive == 0 {
		return rep
	}

	f.animTimer += dt
	if f.animTimer >= f.cfg.AnimationInterval {
		f.animTimer = 0
		f.frame = (f.frame + 1) % AnimationFrames
		for i := range f.Attackers {
			f.Attackers[i].Frame = f.frame
		}
	}

	f.moveTimer += dt
	if f.moveTimer >= f.MoveInterval {
		f.moveTimer = 0
		rep.Stepped = true
		rep.Reversed = f.step()
	}

	rep.Crashed = f.crashInto(barriers)
	return rep
}

// step moves the formation sideways, or down and reversed if the next
// sideways move would cross the edge margin.
func (f *Formation) step() bool {
	minX, maxX, _, ok := f.Extents()
	if !ok {
		return false
	}
	f.MoveCount++

	dx := f.Direction * f.cfg.HorizontalStep
	blocked := (f.Direction > 0 && maxX+dx > f.width-f.cfg.EdgeMargin) ||
		(f.Direction < 0 && minX+dx < f.cfg.EdgeMargin)

	if blocked {
		f.Direction = -f.Direction
		for i := range f.Attackers {
			f.Attackers[i].Y += f.cfg.VerticalStep
		}
		return true
	}
	for i := range f.Attackers {
		f.Attackers[i].X += dx
	}
	return false
}

// crashInto destroys attackers whose bodies touch a barrier.
func (f *Formation) crashInto(barriers []*Barrier) []Crash {
	var crashed []Crash
	for i := range f.Attackers {
		a := &f.Attackers[i]
		if !a.Alive {
			continue
		}
		for _, b := range barriers {
			if b.CheckBody(a.Rect) {
				cx, cy := a.Center()
				crashed = append(crashed, Crash{X: cx, Y: cy, Kind: a.Kind})
				f.Kill(a)
				break
			}
		}
	}
	return crashed
}

// Extents returns the horizontal bounds and lowest edge of the living
// attackers. ok is false when none are alive.
func (f *Formation) Extents() (minX, maxX, maxY float64, ok bool) {
	minX, maxX, maxY = math.Inf(1), math.Inf(-1), math.Inf(-1)
	for i := range f.Attackers {
		a := &f.Attackers[i]
		if !a.Alive {
			continue
		}
		ok = true
		minX = math.Min(minX, a.X)
		maxX = math.Max(maxX, a.Right())
		maxY = math.Max(maxY, a.Bottom())
	}
	return minX, maxX, maxY, ok
}

// ReachedGround reports whether any living attacker's lower edge is below
// the ground line.
func (f *Formation) ReachedGround() bool {
	_, _, maxY, ok := f.Extents()
	return ok && maxY > f.GroundY
}

// Touching returns the first living attacker overlapping r, or nil.
func (f *Formation) Touching(r core.Rect) *Attacker {
	for i := range f.Attackers {
		if a := &f.Attackers[i]; a.Alive && a.Intersects(r) {
			return a
		}
	}
	return nil
}

// AttackerAt returns the living attacker whose hitbox contains the point.
func (f *Formation) AttackerAt(x, y float64) *Attacker {
	for i := range f.Attackers {
		if a := &f.Attackers[i]; a.Alive && a.Contains(x, y) {
			return a
		}
	}
	return nil
}

// PickShooter chooses an attacker that may fire now, or nil.
//
// With the level's targeting chance, and when a target is known, it picks
// among the closest fifth of ready attackers to targetX. Otherwise it picks
// the bottom-most living attacker of a random column, skipping columns whose
// bottom attacker is still cooling down.
func (f *Formation) PickShooter(targetX float64, hasTarget bool, rng *RNG) *Attacker {
	if f.alive == 0 {
		return nil
	}

	if hasTarget && rng.Chance(f.difficulty.TargetingChance(f.level)) {
		var ready []*Attacker
		for i := range f.Attackers {
			if a := &f.Attackers[i]; a.CanFire() {
				ready = append(ready, a)
			}
		}
		if len(ready) > 0 {
			sort.SliceStable(ready, func(i, j int) bool {
				ci, _ := ready[i].Center()
				cj, _ := ready[j].Center()
				return math.Abs(ci-targetX) < math.Abs(cj-targetX)
			})
			n := max(1, len(ready)/5)
			return ready[rng.Intn(n)]
		}
	}

	bottoms := make([]*Attacker, 0, f.Cols)
	for col := range f.Cols {
		if a := f.bottomOf(col); a != nil && a.CanFire() {
			bottoms = append(bottoms, a)
		}
	}
	if len(bottoms) == 0 {
		return nil
	}
	return bottoms[rng.Intn(len(bottoms))]
}

// bottomOf returns the lowest living attacker in a column.
func (f *Formation) bottomOf(col int) *Attacker {
	for row := f.Rows - 1; row >= 0; row-- {
		if a := &f.Attackers[row*f.Cols+col]; a.Alive {
			return a
		}
	}
	return nil
}

// Fire makes an attacker shoot and starts its cooldown.
func (f *Formation) Fire(a *Attacker, rng *RNG) *Bullet {
	a.Cooldown = f.cfg.FireCooldown
	fast := rng.Chance(f.difficulty.FastBulletChance(f.level))
	return NewAttackerBullet(f.bullets, a.Rect, fast)
}

// RollFire performs the autonomous fire rolls for dt seconds and reports
// whether one of them succeeded.
func (f *Formation) RollFire(dt float64, rng *RNG) bool {
	if f.alive == 0 || f.FireProbability <= 0 {
		return false
	}
	p := 1 - math.Pow(1-f.FireProbability, f.cfg.FireRollsPerSecond*dt)
	return rng.Chance(p)
}

// VolleyDue advances the special-attack timer and returns how many staggered
// shots to queue, zero most of the time.
func (f *Formation) VolleyDue(dt float64, rng *RNG) int {
	if f.alive == 0 || f.cfg.VolleyInterval <= 0 {
		return 0
	}
	f.volleyTimer += dt
	if f.volleyTimer < f.cfg.VolleyInterval {
		return 0
	}
	f.volleyTimer = 0
	if !rng.Chance(f.cfg.VolleyChance) {
		return 0
	}
	return f.cfg.VolleySize
}
