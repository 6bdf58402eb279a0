// Package sim is the invaders simulation core: the attacker formation, the
// defender, barriers, bullets, the bonus ship and the state machine that
// drives them. It has no rendering or platform dependencies; collaborators
// for sound, screen effects and high scores are injected through Deps.
package sim

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// State is the top-level game state.
type State uint8

const (
	StatePlaying State = iota
	StateWon           // The defender cleared the final level
	StateLost          // The defender was destroyed or overrun
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "playing"
	}
}

// Game orchestrates one invaders session.
//
// Update runs a fixed pipeline each tick:
//
//	deferred events -> defender and formation -> bullet motion ->
//	barrier hits -> attacker hits -> bonus hits -> defender hits ->
//	transients -> bonus ship -> victory check
//
// Once the game is over only transients (at half speed) and celebration
// events keep running until Restart.
type Game struct {
	cfg        config.InvadersConfig
	difficulty *config.DifficultyManager
	deps       Deps
	log        *log.Logger
	rng        *RNG

	width   float64
	height  float64
	groundY float64

	formation *Formation
	defender  *Defender // nil while waiting to respawn
	lives     int
	bullets   []*Bullet
	barriers  []*Barrier
	bonus     *BonusShip
	bonusWait float64

	explosions []*Explosion
	popups     []*ScorePopup
	pulses     []*Pulse
	scheduler  Scheduler

	level         int
	score         int // Defender side
	attackerScore int
	highScore     int
	state         State
	overFor       float64 // Seconds since the game ended
	tick          uint64
}

// New creates a game for a viewport of width x height world units and
// starts it at the configured level.
func New(cfg config.InvadersConfig, width, height float64, seed int64, deps Deps) *Game {
	deps = deps.withDefaults()
	g := &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		deps:       deps,
		log:        deps.Logger,
		rng:        NewRNG(seed),
		width:      width,
		height:     height,
		groundY:    height - cfg.Formation.GroundOffset,
	}
	g.Reset()
	return g
}

// Reset starts a fresh game at the configured start level with zero scores.
func (g *Game) Reset() {
	g.score = 0
	g.attackerScore = 0
	g.lives = g.cfg.Defender.Lives
	g.highScore = g.deps.Scores.HighScore()
	g.begin(core.Clamp(g.cfg.Gameplay.StartLevel, 1, g.cfg.Gameplay.MaxLevel))
}

// begin clears the board and builds a level. Scores and lives are kept.
func (g *Game) begin(level int) {
	g.scheduler.Cancel()
	g.level = level
	g.state = StatePlaying
	g.overFor = 0
	g.bullets = nil
	g.explosions = nil
	g.popups = nil
	g.pulses = nil
	if g.bonus != nil {
		g.deps.Audio.Notify(SoundBonusDespawn)
	}
	g.bonus = nil
	g.bonusWait = 0
	g.buildLevel()
	g.defender = NewDefender(g.cfg, g.width, g.groundY, g.lives, g.rng)
	g.log.Debug("level started", "level", g.level, "attackers", g.formation.Total())
}

// buildLevel creates the formation and barriers for the current level.
func (g *Game) buildLevel() {
	g.formation = NewFormation(g.cfg, g.difficulty, g.level, g.width, g.height)
	g.barriers = BuildBarriers(g.cfg.Barriers, g.width, g.groundY)
	if chance := g.difficulty.BarrierDegradeChance(g.level); chance > 0 {
		for _, b := range g.barriers {
			b.Degrade(chance, g.rng)
		}
	}
}

// Update advances the simulation by dt seconds. Non-positive dt is ignored
// and large steps are clamped.
func (g *Game) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > g.cfg.World.MaxDelta {
		dt = g.cfg.World.MaxDelta
	}
	g.tick++

	for _, ev := range g.scheduler.Advance(dt) {
		g.apply(ev)
	}

	if g.state != StatePlaying {
		g.overFor += dt
		g.updateTransients(dt * 0.5)
		return
	}

	g.updateDefender(dt)
	g.updateFormation(dt)
	if g.state != StatePlaying {
		g.updateTransients(dt)
		return
	}

	g.moveBullets(dt)
	g.resolveBarrierHits()
	g.resolveAttackerHits()
	g.resolveBonusHits()
	g.resolveDefenderHits()
	g.updateTransients(dt)
	if g.state != StatePlaying {
		return
	}

	g.updateBonus(dt)
	g.checkVictory()
}

func (g *Game) apply(ev Event) {
	switch ev.Kind {
	case EventVolleyShot:
		if g.state == StatePlaying {
			g.fire(g.pickShooter())
		}
	case EventRespawn:
		if g.state == StatePlaying && g.defender == nil {
			g.defender = NewDefender(g.cfg, g.width, g.groundY, g.lives, g.rng)
			g.defender.Adjust(g.difficulty, g.formation.DestroyedFraction(), g.rng)
		}
	case EventCelebration:
		kinds := []ExplosionKind{ExplosionBonus, ExplosionAttacker, ExplosionNormal}
		g.explode(ev.X, ev.Y, g.rng.Range(30, 60), kinds[g.rng.Intn(len(kinds))])
		g.deps.Audio.Notify(SoundExplosion)
		g.deps.Effects.Shake(3, 0.2)
		flashes := []core.Color{core.ColorYellow, core.ColorGreen, core.ColorCyan, core.ColorMagenta}
		g.deps.Effects.Flash(flashes[g.rng.Intn(len(flashes))], 0.3, 0.2)
	}
}

func (g *Game) updateDefender(dt float64) {
	if g.defender == nil {
		return
	}
	if b := g.defender.Update(dt, g.bullets, g.rng); b != nil {
		g.bullets = append(g.bullets, b)
		g.deps.Audio.Notify(SoundShoot)
	}
}

func (g *Game) updateFormation(dt float64) {
	rep := g.formation.Update(dt, g.barriers)
	if rep.Stepped {
		g.deps.Audio.Notify(SoundFormationStep)
	}
	if rep.Reversed {
		g.deps.Effects.Shake(2, 0.1)
	}
	for _, c := range rep.Crashed {
		g.explode(c.X, c.Y, 40, ExplosionBarrier)
		g.deps.Audio.Notify(SoundExplosion)
	}
	if len(rep.Crashed) > 0 {
		g.adjustDefender()
	}

	if g.cfg.Formation.AutoFire && g.formation.RollFire(dt, g.rng) {
		g.fire(g.pickShooter())
	}
	if n := g.formation.VolleyDue(dt, g.rng); n > 0 {
		g.deps.Effects.Flash(core.ColorRed, 0.2, 0.3)
		for i := range n {
			g.scheduler.After(float64(i)*g.cfg.Formation.VolleyStagger, Event{Kind: EventVolleyShot})
		}
	}

	if g.formation.ReachedGround() {
		g.log.Debug("formation reached the ground")
		g.end(false)
		return
	}
	if g.defender != nil && g.formation.Touching(g.defender.Rect) != nil {
		g.log.Debug("defender overrun")
		g.end(false)
	}
}

func (g *Game) moveBullets(dt float64) {
	kept := g.bullets[:0]
	for _, b := range g.bullets {
		b.Update(dt)
		if !b.OffScreen(g.height) {
			kept = append(kept, b)
		}
	}
	clear(g.bullets[len(kept):])
	g.bullets = kept
}

// removeBullets drops bullets for which gone returns true.
func (g *Game) removeBullets(gone func(*Bullet) bool) {
	kept := g.bullets[:0]
	for _, b := range g.bullets {
		if !gone(b) {
			kept = append(kept, b)
		}
	}
	clear(g.bullets[len(kept):])
	g.bullets = kept
}

func (g *Game) resolveBarrierHits() {
	g.removeBullets(func(b *Bullet) bool {
		for _, bar := range g.barriers {
			hit, x, y := bar.CheckCollision(b)
			if !hit {
				continue
			}
			size := 10.0
			if b.Owner == OwnerAttacker {
				size = 20
			}
			g.explode(x, y, size, ExplosionBarrier)
			g.deps.Audio.Notify(SoundHit)
			return true
		}
		return false
	})
}

func (g *Game) resolveAttackerHits() {
	g.removeBullets(func(b *Bullet) bool {
		if b.Owner != OwnerDefender {
			return false
		}
		a := g.formation.Touching(b.Rect)
		if a == nil {
			return false
		}
		g.formation.Kill(a)
		points := a.Kind.Points()
		g.score += points
		cx, cy := a.Center()
		g.explode(cx, cy, 30, ExplosionAttacker)
		g.popups = append(g.popups, NewScorePopup(cx, cy, points, core.ColorBrightWhite))
		g.deps.Audio.Notify(SoundExplosion)
		g.adjustDefender()
		return true
	})
}

func (g *Game) resolveBonusHits() {
	if g.bonus == nil {
		return
	}
	g.removeBullets(func(b *Bullet) bool {
		if g.bonus == nil || b.Owner != OwnerDefender || !b.Intersects(g.bonus.Rect) {
			return false
		}
		ship := g.bonus
		g.bonus = nil
		g.score += ship.Points
		cx, cy := ship.Center()
		g.explode(cx, cy, ship.W*1.5, ExplosionBonus)
		g.popups = append(g.popups, NewScorePopup(cx, cy, ship.Points, core.ColorBrightMagenta))
		g.deps.Effects.Shake(8, 0.4)
		g.deps.Audio.Notify(SoundExplosion)
		g.deps.Audio.Notify(SoundBonusDespawn)
		return true
	})
}

func (g *Game) resolveDefenderHits() {
	g.removeBullets(func(b *Bullet) bool {
		if g.defender == nil || g.state != StatePlaying || b.Owner != OwnerAttacker {
			return false
		}
		if !b.Intersects(g.defender.Rect) {
			return false
		}
		g.hitDefender()
		return true
	})
}

// hitDefender applies one attacker hit. A non-fatal hit removes the defender
// and queues its respawn.
func (g *Game) hitDefender() {
	d := g.defender
	cx, cy := d.Center()
	g.explode(cx, cy, 40, ExplosionNormal)
	g.deps.Audio.Notify(SoundHit)
	g.deps.Audio.Notify(SoundExplosion)
	g.deps.Effects.Shake(10, 0.5)
	g.deps.Effects.Flash(core.ColorRed, 0.5, 0.5)

	bounty := g.cfg.Gameplay.HitBounty
	fatal := d.TakeDamage()
	g.lives = d.Lives
	if fatal {
		bounty += g.cfg.Gameplay.KillBounty
	}
	g.attackerScore += bounty
	g.popups = append(g.popups, NewScorePopup(cx, d.Y, bounty, core.ColorMagenta))

	if fatal {
		g.log.Debug("defender destroyed")
		g.end(false)
		return
	}
	g.defender = nil
	g.scheduler.After(g.cfg.Defender.RespawnDelay, Event{Kind: EventRespawn})
}

func (g *Game) updateTransients(dt float64) {
	explosions := g.explosions[:0]
	for _, e := range g.explosions {
		if e.Update(dt) {
			explosions = append(explosions, e)
		}
	}
	clear(g.explosions[len(explosions):])
	g.explosions = explosions

	popups := g.popups[:0]
	for _, p := range g.popups {
		if p.Update(dt) {
			popups = append(popups, p)
		}
	}
	clear(g.popups[len(popups):])
	g.popups = popups

	pulses := g.pulses[:0]
	for _, p := range g.pulses {
		if p.Update(dt) {
			pulses = append(pulses, p)
		}
	}
	clear(g.pulses[len(pulses):])
	g.pulses = pulses
}

func (g *Game) updateBonus(dt float64) {
	if g.bonus != nil {
		if !g.bonus.Update(dt) {
			g.bonus = nil
			g.deps.Audio.Notify(SoundBonusDespawn)
		}
		return
	}
	g.bonusWait += dt
	if g.bonusWait < g.cfg.Bonus.SpawnInterval {
		return
	}
	g.bonusWait = 0
	if g.rng.Chance(g.cfg.Bonus.SpawnChance) {
		g.bonus = NewBonusShip(g.cfg.Bonus, g.width)
		g.deps.Audio.Notify(SoundBonusSpawn)
	}
}

func (g *Game) checkVictory() {
	if g.formation.AliveCount() > 0 {
		return
	}
	if g.level < g.cfg.Gameplay.MaxLevel {
		g.advance()
		return
	}
	g.end(true)
}

// advance moves to the next level keeping scores, lives and the defender.
func (g *Game) advance() {
	g.level++
	g.bullets = nil
	g.bonus = nil
	g.bonusWait = 0
	g.buildLevel()
	g.adjustDefender()
	g.deps.Audio.Notify(SoundVictory)
	g.deps.Effects.Flash(core.ColorGreen, 0.3, 0.5)
	g.log.Info("level cleared", "next", g.level, "score", g.score)
}

// end freezes the game and records the winning side's score.
func (g *Game) end(defenderWon bool) {
	if g.state != StatePlaying {
		return
	}
	g.overFor = 0
	winning := g.attackerScore
	if defenderWon {
		g.state = StateWon
		winning = g.score
	} else {
		g.state = StateLost
	}
	if winning > g.highScore {
		g.highScore = winning
		g.deps.Scores.SetHighScore(winning)
	}
	g.log.Info("game over", "result", g.state, "level", g.level, "score", g.score, "attackers", g.attackerScore)

	if defenderWon {
		g.deps.Audio.Notify(SoundVictory)
		g.deps.Effects.Flash(core.ColorBrightWhite, 0.7, 0.3)
		g.celebrate()
	}
}

// celebrate queues staggered bursts around the edges of the play area.
func (g *Game) celebrate() {
	for i := range g.cfg.Gameplay.CelebrationBursts {
		var x, y float64
		switch i % 4 {
		case 0:
			x, y = g.width*0.1, g.height*g.rng.Range(0.2, 0.8)
		case 1:
			x, y = g.width*0.9, g.height*g.rng.Range(0.2, 0.8)
		case 2:
			x, y = g.width*g.rng.Range(0.2, 0.8), g.height*0.15
		default:
			x, y = g.width*g.rng.Range(0.2, 0.8), g.groundY-30
		}
		delay := float64(i) * g.cfg.Gameplay.CelebrationStagger
		g.scheduler.After(delay, Event{Kind: EventCelebration, X: x, Y: y})
	}
}

func (g *Game) adjustDefender() {
	if g.defender != nil {
		g.defender.Adjust(g.difficulty, g.formation.DestroyedFraction(), g.rng)
	}
}

func (g *Game) explode(x, y, size float64, kind ExplosionKind) {
	g.explosions = append(g.explosions, NewExplosion(x, y, size, kind, g.rng))
}

func (g *Game) pickShooter() *Attacker {
	if g.defender == nil {
		return g.formation.PickShooter(0, false, g.rng)
	}
	cx, _ := g.defender.Center()
	return g.formation.PickShooter(cx, true, g.rng)
}

// fire makes an attacker shoot. Returns false for nil or cooling attackers.
func (g *Game) fire(a *Attacker) bool {
	if a == nil || !a.CanFire() {
		return false
	}
	g.bullets = append(g.bullets, g.formation.Fire(a, g.rng))
	g.deps.Audio.Notify(SoundShoot)
	return true
}

// TapAt handles a tap at a world position. During play, tapping a ready
// attacker makes it fire. After the game has been over for the restart
// delay, any tap restarts. Returns true if the tap did something.
func (g *Game) TapAt(x, y float64) bool {
	if g.state != StatePlaying {
		return g.Restart()
	}
	a := g.formation.AttackerAt(x, y)
	if a == nil {
		g.pulses = append(g.pulses, NewTapPulse(x, y))
		return false
	}
	if !g.fire(a) {
		return false
	}
	cx, cy := a.Center()
	g.pulses = append(g.pulses, NewFirePulse(cx, cy))
	g.deps.Effects.Shake(2, 0.1)
	return true
}

// FireRandomAttacker makes the formation's AI pick a shooter and fire.
func (g *Game) FireRandomAttacker() bool {
	if g.state != StatePlaying {
		return false
	}
	return g.fire(g.pickShooter())
}

// SetDefenderDirection takes manual control of the defender.
func (g *Game) SetDefenderDirection(dir int) {
	if g.defender != nil && g.state == StatePlaying {
		g.defender.SetDirection(dir)
	}
}

// ReleaseDefender hands the defender back to its autopilot.
func (g *Game) ReleaseDefender() {
	if g.defender != nil {
		g.defender.Release()
	}
}

// FireDefenderNow fires a defender bullet unless on cooldown.
func (g *Game) FireDefenderNow() bool {
	if g.defender == nil || g.state != StatePlaying {
		return false
	}
	b := g.defender.FireNow()
	if b == nil {
		return false
	}
	g.bullets = append(g.bullets, b)
	g.deps.Audio.Notify(SoundShoot)
	g.deps.Effects.Shake(2, 0.1)
	g.deps.Effects.Flash(core.ColorBrightWhite, 0.2, 0.1)
	return true
}

// CanRestart reports whether the restart delay has passed since game over.
func (g *Game) CanRestart() bool {
	return g.state != StatePlaying && g.overFor >= g.cfg.Gameplay.RestartDelay
}

// Restart begins a new game if CanRestart. A win starts over from the
// configured start level with fresh scores; a loss moves on to the next
// level (capped) with fresh lives.
func (g *Game) Restart() bool {
	if !g.CanRestart() {
		return false
	}
	if g.state == StateWon {
		g.Reset()
		return true
	}
	next := min(g.level+1, g.cfg.Gameplay.MaxLevel)
	g.score = 0
	g.attackerScore = 0
	g.lives = g.cfg.Defender.Lives
	g.begin(next)
	return true
}

// State returns the current top-level state.
func (g *Game) State() State { return g.state }

// GameOver reports whether the game has ended.
func (g *Game) GameOver() bool { return g.state != StatePlaying }

// Level returns the current level.
func (g *Game) Level() int { return g.level }

// Score returns the defender's score.
func (g *Game) Score() int { return g.score }

// AttackerScore returns the formation's score.
func (g *Game) AttackerScore() int { return g.attackerScore }

// HighScore returns the best score seen.
func (g *Game) HighScore() int { return g.highScore }

// Lives returns the defender's remaining lives.
func (g *Game) Lives() int { return g.lives }

// Formation returns the attacker formation.
func (g *Game) Formation() *Formation { return g.formation }

// Defender returns the defender, or nil while it waits to respawn.
func (g *Game) Defender() *Defender { return g.defender }

// Bullets returns the live bullets.
func (g *Game) Bullets() []*Bullet { return g.bullets }

// Barriers returns the barriers.
func (g *Game) Barriers() []*Barrier { return g.barriers }

// Bonus returns the bonus ship, or nil.
func (g *Game) Bonus() *BonusShip { return g.bonus }

// Tick returns the number of updates processed.
func (g *Game) Tick() uint64 { return g.tick }

// Size returns the viewport size in world units.
func (g *Game) Size() (width, height float64) { return g.width, g.height }

// GroundY returns the ground line.
func (g *Game) GroundY() float64 { return g.groundY }
