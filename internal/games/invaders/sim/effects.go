package sim

import (
	"math"
	"strconv"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// ExplosionKind selects an explosion palette.
type ExplosionKind uint8

const (
	ExplosionNormal ExplosionKind = iota
	ExplosionAttacker
	ExplosionBarrier
	ExplosionBonus
)

var explosionPalettes = map[ExplosionKind][]core.Color{
	ExplosionNormal:   {core.ColorBrightWhite, core.ColorBrightYellow, core.ColorOrange, core.ColorRed},
	ExplosionAttacker: {core.ColorRed, core.ColorOrange, core.ColorYellow, core.ColorBrightWhite},
	ExplosionBarrier:  {core.ColorGreen, core.ColorBrightGreen, core.ColorBrightWhite},
	ExplosionBonus:    {core.ColorMagenta, core.ColorBrightMagenta, core.ColorBrightWhite},
}

const (
	explosionDuration = 0.8
	flashDuration     = 0.15
	maxParticles      = 40
	particleMinSpeed  = 30
	particleMaxSpeed  = 100
	particleShrink    = 0.97 // per 1/60 s
)

// Particle is one fragment of an explosion.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Life    float64 // Seconds until fully faded
	Gravity float64
	Color   core.Color
}

// Explosion is a short-lived burst of particles.
type Explosion struct {
	X, Y      float64
	Size      float64
	Kind      ExplosionKind
	Particles []Particle
	Elapsed   float64
	Flash     float64 // Remaining flash alpha, 0 when done
}

// NewExplosion spawns a burst centered on (x, y).
func NewExplosion(x, y, size float64, kind ExplosionKind, rng *RNG) *Explosion {
	e := &Explosion{X: x, Y: y, Size: size, Kind: kind, Flash: 1}
	palette := explosionPalettes[kind]
	count := min(maxParticles, int(math.Floor(size*0.8)))
	e.Particles = make([]Particle, 0, count)
	for range count {
		angle := rng.Angle()
		speed := rng.Range(particleMinSpeed, particleMaxSpeed)
		e.Particles = append(e.Particles, Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Size:    rng.Float64()*math.Max(2, size*0.1) + math.Max(1, size*0.05),
			Life:    rng.Range(0.3, 0.8),
			Gravity: rng.Range(20, 70),
			Color:   palette[rng.Intn(len(palette))],
		})
	}
	return e
}

// Update advances the explosion and reports whether it is still active.
// It ends after its duration or once every particle has faded.
func (e *Explosion) Update(dt float64) bool {
	e.Elapsed += dt
	if e.Elapsed >= explosionDuration {
		return false
	}
	if e.Flash > 0 {
		e.Flash = math.Max(0, e.Flash-dt/flashDuration)
	}
	shrink := math.Pow(particleShrink, dt*60)
	visible := false
	for i := range e.Particles {
		p := &e.Particles[i]
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VY += p.Gravity * dt
		p.Size *= shrink
		if e.Elapsed < p.Life {
			visible = true
		}
	}
	return visible || len(e.Particles) == 0
}

// Alpha returns a particle's opacity at the explosion's current age.
func (e *Explosion) Alpha(p Particle) float64 {
	if p.Life <= 0 {
		return 0
	}
	return math.Max(0, 1-e.Elapsed/p.Life)
}

// Progress returns elapsed time as a fraction of the lifetime.
func (e *Explosion) Progress() float64 {
	return math.Min(1, e.Elapsed/explosionDuration)
}

// ScorePopup is floating "+N" text.
type ScorePopup struct {
	X, Y  float64
	Text  string
	Color core.Color
	Age   float64
}

const (
	popupLife  = 1.0
	popupSpeed = 60
)

// NewScorePopup creates a popup showing "+points".
func NewScorePopup(x, y float64, points int, color core.Color) *ScorePopup {
	return &ScorePopup{X: x, Y: y, Text: "+" + strconv.Itoa(points), Color: color}
}

// Update drifts the popup upward and reports whether it is still visible.
func (p *ScorePopup) Update(dt float64) bool {
	p.Age += dt
	p.Y -= popupSpeed * dt
	return p.Age < popupLife
}

// Alpha returns the popup's opacity.
func (p *ScorePopup) Alpha() float64 {
	return math.Max(0, 1-p.Age/popupLife)
}

// PulseKind distinguishes feedback rings.
type PulseKind uint8

const (
	PulseTap  PulseKind = iota // Tap that hit nothing useful
	PulseFire                  // Tap that made an attacker fire
)

// Pulse is an expanding, fading ring of input feedback.
type Pulse struct {
	X, Y      float64
	Kind      PulseKind
	Radius    float64
	MaxRadius float64
	Growth    float64 // Radius per second
	Alpha     float64
	Fade      float64 // Alpha per second
}

// NewTapPulse creates feedback for a tap on empty space.
func NewTapPulse(x, y float64) *Pulse {
	return &Pulse{X: x, Y: y, Kind: PulseTap, Radius: 10, MaxRadius: 20, Growth: 30, Alpha: 1, Fade: 2}
}

// NewFirePulse creates feedback for an attacker ordered to fire.
func NewFirePulse(x, y float64) *Pulse {
	return &Pulse{X: x, Y: y, Kind: PulseFire, MaxRadius: 20, Growth: 40, Alpha: 1, Fade: 2}
}

// Update grows and fades the ring and reports whether it is still visible.
func (p *Pulse) Update(dt float64) bool {
	p.Radius = math.Min(p.MaxRadius, p.Radius+p.Growth*dt)
	p.Alpha -= p.Fade * dt
	return p.Alpha > 0
}
