package sim

import "github.com/vovakirdan/tui-invaders/internal/core"

// Kind is the attacker variety, determined by its row in the formation.
type Kind uint8

const (
	KindBottom Kind = iota // Lowest rows, 10 points
	KindMiddle             // Middle rows, 20 points
	KindTop                // Top row, 30 points
)

// Points returns the score awarded for destroying an attacker of this kind.
func (k Kind) Points() int {
	switch k {
	case KindTop:
		return 30
	case KindMiddle:
		return 20
	default:
		return 10
	}
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTop:
		return "top"
	case KindMiddle:
		return "middle"
	default:
		return "bottom"
	}
}

// kindForRow assigns the classic layout: row 0 is top, rows 1-2 are middle
// and everything below is bottom, whatever the grid height.
func kindForRow(row int) Kind {
	switch {
	case row == 0:
		return KindTop
	case row <= 2:
		return KindMiddle
	default:
		return KindBottom
	}
}

// Attacker is one member of the formation. Attackers live in the formation's
// arena and are never removed while the level lasts, only marked dead.
type Attacker struct {
	core.Rect // Hitbox, centered on the sprite
	Kind      Kind
	Row, Col  int
	Alive     bool
	Cooldown  float64 // Seconds until it may fire again
	Frame     int     // Animation frame
}

// CanFire reports whether the attacker is alive and off cooldown.
func (a *Attacker) CanFire() bool {
	return a.Alive && a.Cooldown <= 0
}
