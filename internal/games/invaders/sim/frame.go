package sim

import "github.com/vovakirdan/tui-invaders/internal/core"

// Box is a rectangle in a frame.
type Box struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
	W float64 `msgpack:"w" json:"w"`
	H float64 `msgpack:"h" json:"h"`
}

func boxOf(r core.Rect) Box {
	return Box{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// Rect converts the box back to a core.Rect.
func (b Box) Rect() core.Rect {
	return core.NewRect(b.X, b.Y, b.W, b.H)
}

// AttackerView is a living attacker.
type AttackerView struct {
	Box   `msgpack:",inline"`
	Kind  Kind `msgpack:"kind"`
	Frame int  `msgpack:"frame"`
	Ready bool `msgpack:"ready"`
}

// DefenderView is the defender, absent while respawning.
type DefenderView struct {
	Box     `msgpack:",inline"`
	Present bool `msgpack:"present"`
	Mode    Mode `msgpack:"mode"`
}

// BulletView is a bullet in flight.
type BulletView struct {
	Box   `msgpack:",inline"`
	Owner Owner `msgpack:"owner"`
	Tier  Tier  `msgpack:"tier"`
}

// SegmentView is a barrier segment.
type SegmentView struct {
	Box    `msgpack:",inline"`
	Health int `msgpack:"hp"`
}

// ParticleView is an explosion fragment.
type ParticleView struct {
	X     float64    `msgpack:"x"`
	Y     float64    `msgpack:"y"`
	Size  float64    `msgpack:"s"`
	Alpha float64    `msgpack:"a"`
	Color core.Color `msgpack:"c"`
}

// ExplosionView is an active explosion.
type ExplosionView struct {
	X         float64        `msgpack:"x"`
	Y         float64        `msgpack:"y"`
	Size      float64        `msgpack:"size"`
	Kind      ExplosionKind  `msgpack:"kind"`
	Flash     float64        `msgpack:"flash"`
	Particles []ParticleView `msgpack:"p"`
}

// PopupView is floating score text.
type PopupView struct {
	X     float64    `msgpack:"x"`
	Y     float64    `msgpack:"y"`
	Text  string     `msgpack:"text"`
	Alpha float64    `msgpack:"a"`
	Color core.Color `msgpack:"c"`
}

// PulseView is a feedback ring.
type PulseView struct {
	X      float64   `msgpack:"x"`
	Y      float64   `msgpack:"y"`
	Radius float64   `msgpack:"r"`
	Alpha  float64   `msgpack:"a"`
	Kind   PulseKind `msgpack:"kind"`
}

// Frame is a read-only view of everything a renderer needs.
type Frame struct {
	Width   float64 `msgpack:"w"`
	Height  float64 `msgpack:"h"`
	GroundY float64 `msgpack:"ground"`
	Tick    uint64  `msgpack:"tick"`

	State         State `msgpack:"state"`
	CanRestart    bool  `msgpack:"can_restart"`
	Level         int   `msgpack:"level"`
	MaxLevel      int   `msgpack:"max_level"`
	Score         int   `msgpack:"score"`
	AttackerScore int   `msgpack:"attacker_score"`
	HighScore     int   `msgpack:"high_score"`
	Lives         int   `msgpack:"lives"`

	Attackers  []AttackerView  `msgpack:"attackers"`
	Defender   DefenderView    `msgpack:"defender"`
	Bullets    []BulletView    `msgpack:"bullets"`
	Segments   []SegmentView   `msgpack:"segments"`
	Bonus      *Box            `msgpack:"bonus,omitempty"`
	Explosions []ExplosionView `msgpack:"explosions"`
	Popups     []PopupView     `msgpack:"popups"`
	Pulses     []PulseView     `msgpack:"pulses"`
}

// Frame captures the current state for rendering.
func (g *Game) Frame() Frame {
	f := Frame{
		Width:         g.width,
		Height:        g.height,
		GroundY:       g.groundY,
		Tick:          g.tick,
		State:         g.state,
		CanRestart:    g.CanRestart(),
		Level:         g.level,
		MaxLevel:      g.cfg.Gameplay.MaxLevel,
		Score:         g.score,
		AttackerScore: g.attackerScore,
		HighScore:     g.highScore,
		Lives:         g.lives,
	}

	f.Attackers = make([]AttackerView, 0, g.formation.AliveCount())
	for i := range g.formation.Attackers {
		a := &g.formation.Attackers[i]
		if a.Alive {
			f.Attackers = append(f.Attackers, AttackerView{Box: boxOf(a.Rect), Kind: a.Kind, Frame: a.Frame, Ready: a.CanFire()})
		}
	}

	if d := g.defender; d != nil {
		f.Defender = DefenderView{Box: boxOf(d.Rect), Present: true, Mode: d.Mode}
	}

	f.Bullets = make([]BulletView, 0, len(g.bullets))
	for _, b := range g.bullets {
		f.Bullets = append(f.Bullets, BulletView{Box: boxOf(b.Rect), Owner: b.Owner, Tier: b.Tier})
	}

	for _, bar := range g.barriers {
		for _, s := range bar.Segments {
			f.Segments = append(f.Segments, SegmentView{Box: boxOf(s.Rect), Health: s.Health})
		}
	}

	if g.bonus != nil {
		box := boxOf(g.bonus.Rect)
		f.Bonus = &box
	}

	for _, e := range g.explosions {
		ev := ExplosionView{X: e.X, Y: e.Y, Size: e.Size, Kind: e.Kind, Flash: e.Flash}
		for _, p := range e.Particles {
			if alpha := e.Alpha(p); alpha > 0 {
				ev.Particles = append(ev.Particles, ParticleView{X: p.X, Y: p.Y, Size: p.Size, Alpha: alpha, Color: p.Color})
			}
		}
		f.Explosions = append(f.Explosions, ev)
	}
	for _, p := range g.popups {
		f.Popups = append(f.Popups, PopupView{X: p.X, Y: p.Y, Text: p.Text, Alpha: p.Alpha(), Color: p.Color})
	}
	for _, p := range g.pulses {
		f.Pulses = append(f.Pulses, PulseView{X: p.X, Y: p.Y, Radius: p.Radius, Alpha: p.Alpha, Kind: p.Kind})
	}
	return f
}
