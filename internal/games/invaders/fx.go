package invaders

import (
	"math"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
)

// Effects tracks screen shake and flash requested by the simulation.
// It draws from its own RNG so effects never disturb gameplay randomness.
type Effects struct {
	rng *sim.RNG

	shakeIntensity float64
	shakeDuration  float64
	shakeElapsed   float64
	offsetX        float64
	offsetY        float64

	flashColor    core.Color
	flashAlpha    float64
	flashDuration float64
	flashLeft     float64
}

// NewEffects creates an effects tracker.
func NewEffects(seed int64) *Effects {
	return &Effects{rng: sim.NewRNG(seed ^ 0x5eed)}
}

// Shake starts or extends a screen shake. Overlapping shakes keep the
// stronger intensity and the longer duration.
func (e *Effects) Shake(intensity, duration float64) {
	e.shakeIntensity = math.Max(e.shakeIntensity, intensity)
	e.shakeDuration = math.Max(e.shakeDuration, duration)
	e.shakeElapsed = 0
}

// Flash tints the screen for a moment.
func (e *Effects) Flash(color core.Color, alpha, duration float64) {
	e.flashColor = color
	e.flashAlpha = alpha
	e.flashDuration = duration
	e.flashLeft = duration
}

// Update advances both effects.
func (e *Effects) Update(dt float64) {
	if e.shakeDuration > 0 {
		e.shakeElapsed += dt
		if e.shakeElapsed < e.shakeDuration {
			current := e.shakeIntensity * (1 - e.shakeElapsed/e.shakeDuration)
			e.offsetX = e.rng.Range(-1, 1) * current
			e.offsetY = e.rng.Range(-1, 1) * current
		} else {
			e.shakeIntensity, e.shakeDuration, e.shakeElapsed = 0, 0, 0
			e.offsetX, e.offsetY = 0, 0
		}
	}
	if e.flashLeft > 0 {
		e.flashLeft = math.Max(0, e.flashLeft-dt)
	}
}

// Offset returns the current shake displacement in world units.
func (e *Effects) Offset() (dx, dy float64) {
	return e.offsetX, e.offsetY
}

// Flashing returns the flash color and its remaining strength.
func (e *Effects) Flashing() (core.Color, float64, bool) {
	if e.flashLeft <= 0 || e.flashDuration <= 0 {
		return core.ColorDefault, 0, false
	}
	return e.flashColor, e.flashAlpha * e.flashLeft / e.flashDuration, true
}

// Shaking reports whether a shake is in progress.
func (e *Effects) Shaking() bool {
	return e.shakeDuration > 0
}

// fanout forwards effect requests to several listeners.
type fanout []sim.EffectsNotifier

func (f fanout) Shake(intensity, duration float64) {
	for _, n := range f {
		n.Shake(intensity, duration)
	}
}

func (f fanout) Flash(color core.Color, alpha, duration float64) {
	for _, n := range f {
		n.Flash(color, alpha, duration)
	}
}
