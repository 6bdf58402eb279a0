package invaders

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
)

// Visual characters for rendering
const (
	GroundChar        = '─'
	DefenderBullet    = '|'
	AttackerBullet    = '!'
	FastBullet        = '¦'
	ParticleBright    = '*'
	ParticleDim       = '·'
	TapPulseChar      = 'o'
	FirePulseChar     = 'O'
	BonusSprite       = "<=*=>"
	DefenderSprite    = "/^^\\"
	DefenderHitSprite = "\\xx/"
)

// Attacker sprites per kind, two animation frames each.
var attackerSprites = map[sim.Kind][2]string{
	sim.KindTop:    {"/oo\\", "\\oo/"},
	sim.KindMiddle: {"{##}", "}##{"},
	sim.KindBottom: {"<@@>", ">@@<"},
}

var attackerColors = map[sim.Kind]core.Color{
	sim.KindTop:    core.ColorBrightMagenta,
	sim.KindMiddle: core.ColorBrightCyan,
	sim.KindBottom: core.ColorBrightGreen,
}

// Barrier glyphs from densest to sparsest.
var barrierGlyphs = []rune{'█', '▓', '▒', '░'}

// Render draws the current frame.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall || g.sim == nil {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	f := g.sim.Frame()
	p := g.projector()

	g.renderHUD(dst, f)

	// Shaken sprites must not smear over the HUD or footer rows.
	dst.Clip(core.NewCellRect(0, 1, dst.Width(), dst.Height()-hudRows))
	g.renderGround(dst, f, p)
	g.renderBarriers(dst, f, p)
	g.renderAttackers(dst, f, p)
	g.renderDefender(dst, f, p)
	g.renderBonus(dst, f, p)
	g.renderBullets(dst, f, p)
	g.renderTransients(dst, f, p)
	dst.Unclip()

	g.renderFooter(dst)
	g.renderOverlay(dst, f)
}

// projector maps world coordinates to screen cells, including the HUD
// offset and the current shake.
type projector struct {
	view   core.Viewport
	dx, dy float64
}

func (g *Game) projector() projector {
	dx, dy := g.fx.Offset()
	return projector{view: g.view, dx: dx, dy: dy}
}

func (p projector) point(x, y float64) (int, int) {
	cx, cy := p.view.ToCell(x+p.dx, y+p.dy)
	return cx, cy + 1
}

func (p projector) rect(b sim.Box) core.CellRect {
	r := p.view.Project(b.Rect().Translate(p.dx, p.dy))
	r.Y++
	return r
}

func put(dst *core.Screen, x, y int, r rune, c core.Color) {
	dst.SetCell(x, y, core.Cell{Rune: r, Color: c})
}

// putSprite writes text centered on the cell rectangle's middle row.
func putSprite(dst *core.Screen, r core.CellRect, sprite string, c core.Color) {
	runes := []rune(sprite)
	x := r.X + (r.W-len(runes))/2
	y := r.Y + (r.H-1)/2
	for i, ch := range runes {
		put(dst, x+i, y, ch, c)
	}
}

func (g *Game) renderHUD(dst *core.Screen, f sim.Frame) {
	st := g.State()
	var left string
	if g.mode == ModeCommand {
		left = fmt.Sprintf("FLEET %05d  DEFENDER %05d", st.Score, st.RivalScore)
	} else {
		left = fmt.Sprintf("SCORE %05d  FLEET %05d", st.Score, st.RivalScore)
	}
	dst.SetPen(core.ColorBrightWhite)
	dst.DrawText(1, 0, left)

	hi := fmt.Sprintf("HI %05d", f.HighScore)
	dst.SetPen(core.ColorYellow)
	dst.DrawTextCentered(0, hi)

	right := fmt.Sprintf("LVL %d/%d  %s", f.Level, f.MaxLevel, strings.Repeat("♥", f.Lives))
	dst.SetPen(core.ColorBrightRed)
	dst.DrawTextRight(0, 1, right)
	dst.SetPen(core.ColorDefault)
}

func (g *Game) renderGround(dst *core.Screen, f sim.Frame, p projector) {
	_, y := p.point(0, f.GroundY)
	color := core.ColorGreen
	if c, strength, ok := g.fx.Flashing(); ok && strength > 0.05 {
		color = c
	}
	for x := range dst.Width() {
		put(dst, x, y, GroundChar, color)
	}
}

// renderBarriers shades each cell by how much barrier is left in it.
func (g *Game) renderBarriers(dst *core.Screen, f sim.Frame, p projector) {
	type cell struct{ x, y int }
	health := make(map[cell]int)
	for _, s := range f.Segments {
		cx, cy := s.Box.Rect().Center()
		x, y := p.point(cx, cy)
		health[cell{x, y}] += s.Health
	}

	// A full cell holds about this much segment health
	capacity := g.cfg.World.CellWidth * g.view.WorldH / float64(g.view.Rows) /
		(g.cfg.Barriers.SegmentSize * g.cfg.Barriers.SegmentSize) * float64(g.cfg.Barriers.Health)
	for c, hp := range health {
		fill := float64(hp) / math.Max(1, capacity)
		idx := core.Clamp(int((1-fill)*float64(len(barrierGlyphs))), 0, len(barrierGlyphs)-1)
		put(dst, c.x, c.y, barrierGlyphs[idx], core.ColorGreen)
	}
}

func (g *Game) renderAttackers(dst *core.Screen, f sim.Frame, p projector) {
	for _, a := range f.Attackers {
		sprite := attackerSprites[a.Kind][a.Frame%2]
		color := attackerColors[a.Kind]
		if g.mode == ModeCommand && !a.Ready {
			color = core.ColorGray
		}
		putSprite(dst, p.rect(a.Box), sprite, color)
	}
}

func (g *Game) renderDefender(dst *core.Screen, f sim.Frame, p projector) {
	if !f.Defender.Present {
		return
	}
	sprite := DefenderSprite
	color := core.ColorBrightWhite
	if f.State == sim.StateLost {
		sprite = DefenderHitSprite
		color = core.ColorRed
	} else if f.Defender.Mode == sim.ModeManual {
		color = core.ColorBrightCyan
	}
	putSprite(dst, p.rect(f.Defender.Box), sprite, color)
}

func (g *Game) renderBonus(dst *core.Screen, f sim.Frame, p projector) {
	if f.Bonus != nil {
		putSprite(dst, p.rect(*f.Bonus), BonusSprite, core.ColorBrightMagenta)
	}
}

func (g *Game) renderBullets(dst *core.Screen, f sim.Frame, p projector) {
	for _, b := range f.Bullets {
		cx, cy := b.Box.Rect().Center()
		x, y := p.point(cx, cy)
		switch {
		case b.Owner == sim.OwnerDefender:
			put(dst, x, y, DefenderBullet, core.ColorBrightWhite)
		case b.Tier == sim.TierFast:
			put(dst, x, y, FastBullet, core.ColorBrightRed)
		default:
			put(dst, x, y, AttackerBullet, core.ColorOrange)
		}
	}
}

func (g *Game) renderTransients(dst *core.Screen, f sim.Frame, p projector) {
	for _, e := range f.Explosions {
		if e.Flash > 0.5 {
			x, y := p.point(e.X, e.Y)
			put(dst, x, y, '✶', core.ColorBrightWhite)
		}
		for _, pt := range e.Particles {
			x, y := p.point(pt.X, pt.Y)
			glyph := ParticleDim
			if pt.Alpha > 0.5 {
				glyph = ParticleBright
			}
			put(dst, x, y, glyph, pt.Color)
		}
	}

	for _, pulse := range f.Pulses {
		glyph := TapPulseChar
		if pulse.Kind == sim.PulseFire || pulse.Radius > 15 {
			glyph = FirePulseChar
		}
		x, y := p.point(pulse.X, pulse.Y)
		put(dst, x, y, glyph, core.ColorBrightYellow)
	}

	for _, popup := range f.Popups {
		x, y := p.point(popup.X, popup.Y)
		for i, ch := range popup.Text {
			put(dst, x+i, y, ch, popup.Color)
		}
	}
}

func (g *Game) renderFooter(dst *core.Screen) {
	hint := "click attackers to fire  SPACE random shot  P pause  Q quit"
	if g.mode == ModeDefend {
		hint = "←/→ steer  ↓ stop  SPACE fire  X autopilot  P pause  Q quit"
	}
	dst.SetPen(core.ColorGray)
	dst.DrawTextCentered(dst.Height()-1, hint)
	dst.SetPen(core.ColorDefault)
}

// renderOverlay draws game state messages.
func (g *Game) renderOverlay(dst *core.Screen, f sim.Frame) {
	if g.paused {
		drawCenteredBox(dst, "PAUSED", "Press P to resume")
		return
	}
	if f.State == sim.StatePlaying {
		return
	}

	title := "THE FLEET WINS"
	if f.State == sim.StateWon {
		title = "THE DEFENDER WINS"
	}
	if st := g.State(); st.Won {
		title += "  YOU WIN!"
	} else {
		title += "  GAME OVER"
	}

	subtitle := "..."
	if f.CanRestart {
		subtitle = "Tap or press R to play again"
	}
	drawCenteredBox(dst, title, subtitle)
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	box := core.NewCellRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.SetPen(core.ColorBrightWhite)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawText(box.X+(boxW-len([]rune(title)))/2, box.Y+1, title)
	dst.DrawText(box.X+(boxW-len([]rune(subtitle)))/2, box.Y+3, subtitle)
	dst.SetPen(core.ColorDefault)
}
