package sim

import "math"

// Snapshot is a compact summary of gameplay state for determinism checks.
// Transients are left out; they never feed back into gameplay.
type Snapshot struct {
	Tick          uint64
	State         State
	Level         int
	Score         int
	AttackerScore int
	Lives         int
	Pending       int

	Attackers []float64 // x, y, alive, cooldown per arena slot
	Defender  []float64 // x, velocity, mode; empty while respawning
	Bullets   []float64 // x, y, owner, tier per bullet
	Segments  []int     // health per segment, barriers in order
	Bonus     []float64 // x while a bonus ship is up

	RNGState uint64
}

// Snapshot captures the current gameplay state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:          g.tick,
		State:         g.state,
		Level:         g.level,
		Score:         g.score,
		AttackerScore: g.attackerScore,
		Lives:         g.lives,
		Pending:       g.scheduler.Pending(),
		RNGState:      g.rng.State(),
	}

	snap.Attackers = make([]float64, 0, len(g.formation.Attackers)*4)
	for _, a := range g.formation.Attackers {
		alive := 0.0
		if a.Alive {
			alive = 1
		}
		snap.Attackers = append(snap.Attackers, a.X, a.Y, alive, a.Cooldown)
	}

	if d := g.defender; d != nil {
		snap.Defender = []float64{d.X, d.Velocity, float64(d.Mode)}
	}

	snap.Bullets = make([]float64, 0, len(g.bullets)*4)
	for _, b := range g.bullets {
		snap.Bullets = append(snap.Bullets, b.X, b.Y, float64(b.Owner), float64(b.Tier))
	}

	for _, bar := range g.barriers {
		for _, s := range bar.Segments {
			snap.Segments = append(snap.Segments, s.Health)
		}
	}

	if g.bonus != nil {
		snap.Bonus = []float64{g.bonus.X}
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	mix := func(v uint64) {
		h = h*31 + v
	}
	mix(uint64(snap.State))
	mix(uint64(snap.Level))         //#nosec G115 -- hash computation
	mix(uint64(snap.Score))         //#nosec G115 -- hash computation
	mix(uint64(snap.AttackerScore)) //#nosec G115 -- hash computation
	mix(uint64(snap.Lives))         //#nosec G115 -- hash computation
	mix(uint64(snap.Pending))       //#nosec G115 -- hash computation
	for _, group := range [][]float64{snap.Attackers, snap.Defender, snap.Bullets, snap.Bonus} {
		mix(uint64(len(group)))
		for _, v := range group {
			mix(math.Float64bits(v))
		}
	}
	mix(uint64(len(snap.Segments)))
	for _, v := range snap.Segments {
		mix(uint64(v)) //#nosec G115 -- hash computation
	}
	mix(snap.RNGState)
	return h
}
