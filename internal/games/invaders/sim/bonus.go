package sim

import (
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// BonusShip crosses the top of the screen right to left.
type BonusShip struct {
	core.Rect
	VX     float64
	Points int
}

// NewBonusShip spawns the ship just past the right edge.
func NewBonusShip(cfg config.BonusConfig, width float64) *BonusShip {
	return &BonusShip{
		Rect:   core.NewRect(width, cfg.Y, cfg.Width, cfg.Height),
		VX:     -cfg.Speed,
		Points: cfg.Points,
	}
}

// Update moves the ship and reports whether it is still on screen.
func (b *BonusShip) Update(dt float64) bool {
	b.X += b.VX * dt
	return b.Right() >= 0
}
