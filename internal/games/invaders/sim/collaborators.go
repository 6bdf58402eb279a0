package sim

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Sound names a gameplay audio cue.
type Sound string

const (
	SoundShoot         Sound = "shoot"
	SoundExplosion     Sound = "explosion"
	SoundHit           Sound = "hit"
	SoundFormationStep Sound = "formation-step"
	SoundBonusSpawn    Sound = "bonus-spawn"
	SoundBonusDespawn  Sound = "bonus-despawn"
	SoundVictory       Sound = "victory"
)

// AudioNotifier receives sound cues. Implementations must not block.
type AudioNotifier interface {
	Notify(sound Sound)
}

// EffectsNotifier receives screen-wide effect requests.
type EffectsNotifier interface {
	Shake(intensity, duration float64)
	Flash(color core.Color, alpha, duration float64)
}

// HighScoreStore persists the best score across games.
type HighScoreStore interface {
	HighScore() int
	SetHighScore(score int)
}

// Deps are the collaborators injected into a Game. Nil fields fall back to
// no-op implementations.
type Deps struct {
	Audio   AudioNotifier
	Effects EffectsNotifier
	Scores  HighScoreStore
	Logger  *log.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Audio == nil {
		d.Audio = nopAudio{}
	}
	if d.Effects == nil {
		d.Effects = nopEffects{}
	}
	if d.Scores == nil {
		d.Scores = &MemoryScores{}
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	return d
}

type nopAudio struct{}

func (nopAudio) Notify(Sound) {}

type nopEffects struct{}

func (nopEffects) Shake(float64, float64)             {}
func (nopEffects) Flash(core.Color, float64, float64) {}

// MemoryScores is a HighScoreStore that lives only as long as the process.
type MemoryScores struct {
	best int
}

// HighScore returns the stored best.
func (m *MemoryScores) HighScore() int { return m.best }

// SetHighScore stores a new best.
func (m *MemoryScores) SetHighScore(score int) { m.best = score }
