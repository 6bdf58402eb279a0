package invaders

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

type recordingAudio struct {
	sounds []sim.Sound
}

func (r *recordingAudio) Notify(s sim.Sound) { r.sounds = append(r.sounds, s) }

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 99}
}

func countBullets(g *Game, owner sim.Owner) int {
	n := 0
	for _, b := range g.Sim().Bullets() {
		if b.Owner == owner {
			n++
		}
	}
	return n
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDCommand, IDDefend} {
		if !registry.Exists(id) {
			t.Errorf("%s not registered", id)
		}
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %s, expected %s", g.ID(), id)
		}
	}
}

func TestResetSizesWorld(t *testing.T) {
	g := New()
	g.Reset(testRuntime())

	if g.Sim() == nil {
		t.Fatal("sim not created")
	}
	w, h := g.Sim().Size()
	if w != 640 || h != 528 {
		t.Errorf("world = %vx%v, expected 640x528", w, h)
	}
	st := g.State()
	if st.Level != 1 || st.Lives != 3 || st.GameOver {
		t.Errorf("initial state = %+v", st)
	}
	if g.Sim().Defender().Mode != sim.ModePatrol {
		t.Error("command mode should run the defender on autopilot")
	}
}

func TestTooSmall(t *testing.T) {
	g := New()
	rt := testRuntime()
	rt.ScreenW = 20
	g.Reset(rt)

	screen := core.NewScreen(20, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected the too-small message")
	}
	if res := g.Step(core.NewInputFrame()); res.State.GameOver {
		t.Error("too-small game should idle")
	}
}

func TestTapFiresAttacker(t *testing.T) {
	g := New()
	audio := &recordingAudio{}
	g.Attach(sim.Deps{Audio: audio})
	g.Reset(testRuntime())

	a := g.Sim().Frame().Attackers[30]
	cx, cy := a.Box.Rect().Center()
	col, row := g.view.ToCell(cx, cy)

	in := core.NewInputFrame()
	in.AddTap(col, row+1)
	g.Step(in)

	if n := countBullets(g, sim.OwnerAttacker); n != 1 {
		t.Fatalf("attacker bullets = %d, expected 1", n)
	}
	found := false
	for _, s := range audio.sounds {
		if s == sim.SoundShoot {
			found = true
		}
	}
	if !found {
		t.Error("attached audio did not hear the shot")
	}
}

func TestTapOnHUDIgnored(t *testing.T) {
	g := New()
	g.Reset(testRuntime())
	in := core.NewInputFrame()
	in.AddTap(40, 0)
	in.AddTap(40, 23)
	g.Step(in)
	if n := countBullets(g, sim.OwnerAttacker); n != 0 {
		t.Errorf("HUD taps fired %d bullets", n)
	}
}

func TestLaunchFiresRandomAttacker(t *testing.T) {
	g := New()
	g.Reset(testRuntime())
	in := core.NewInputFrame()
	in.Set(core.ActionLaunch)
	g.Step(in)
	if n := countBullets(g, sim.OwnerAttacker); n != 1 {
		t.Errorf("attacker bullets = %d, expected 1", n)
	}
}

func TestDefendModeSteersAndFires(t *testing.T) {
	g := NewDefender()
	g.Reset(testRuntime())
	d := g.Sim().Defender()
	if d.Mode != sim.ModeManual {
		t.Fatalf("defend mode should start in manual, got %v", d.Mode)
	}
	x := d.X

	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	g.Step(left)
	for range 20 {
		g.Step(core.NewInputFrame())
	}
	if g.Sim().Defender().X >= x {
		t.Errorf("defender did not move left: %v -> %v", x, g.Sim().Defender().X)
	}

	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)
	g.Step(fire)
	if n := countBullets(g, sim.OwnerDefender); n != 1 {
		t.Errorf("defender bullets = %d, expected 1", n)
	}

	auto := core.NewInputFrame()
	auto.Set(core.ActionAutopilot)
	g.Step(auto)
	if g.Sim().Defender().Mode == sim.ModeManual {
		t.Error("autopilot action should release the defender")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := New()
	g.Reset(testRuntime())

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	res := g.Step(pause)
	if !res.State.Paused {
		t.Fatal("pause not applied")
	}
	tick := g.Sim().Tick()
	g.Step(core.NewInputFrame())
	if g.Sim().Tick() != tick {
		t.Error("paused game advanced")
	}
	g.Step(pause)
	g.Step(core.NewInputFrame())
	if g.Sim().Tick() == tick {
		t.Error("unpaused game did not advance")
	}
}

func TestStateSides(t *testing.T) {
	cmd := New()
	cmd.Reset(testRuntime())
	def := NewDefender()
	def.Reset(testRuntime())

	for range 3 {
		in := core.NewInputFrame()
		in.Set(core.ActionFire)
		cmd.Step(in)
		def.Step(in)
	}
	if got := cmd.State().Score; got != cmd.Sim().AttackerScore() {
		t.Errorf("command score = %d, expected the fleet's %d", got, cmd.Sim().AttackerScore())
	}
	if got := def.State().Score; got != def.Sim().Score() {
		t.Errorf("defend score = %d, expected the defender's %d", got, def.Sim().Score())
	}
}

func TestRenderDrawsBoard(t *testing.T) {
	g := New()
	g.Reset(testRuntime())
	g.Step(core.NewInputFrame())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"FLEET", "HI ", "LVL 1/5", "<@@>", "/^^\\", string(GroundChar), "█"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if cell := screen.GetCell(1, 0); cell.Color != core.ColorBrightWhite {
		t.Errorf("HUD color = %v", cell.Color)
	}
}

func TestEffectsShakeAndFlash(t *testing.T) {
	fx := NewEffects(1)
	fx.Shake(8, 0.4)
	fx.Update(0.1)
	dx, dy := fx.Offset()
	if dx == 0 && dy == 0 {
		t.Error("shake produced no offset")
	}
	if dx < -8 || dx > 8 || dy < -8 || dy > 8 {
		t.Errorf("offset (%v, %v) exceeds intensity", dx, dy)
	}
	fx.Update(0.5)
	if fx.Shaking() {
		t.Error("shake should be over")
	}
	if dx, dy := fx.Offset(); dx != 0 || dy != 0 {
		t.Error("offset should reset after the shake")
	}

	fx.Flash(core.ColorRed, 0.5, 0.5)
	if c, strength, ok := fx.Flashing(); !ok || c != core.ColorRed || strength != 0.5 {
		t.Errorf("flash = %v %v %v", c, strength, ok)
	}
	fx.Update(0.6)
	if _, _, ok := fx.Flashing(); ok {
		t.Error("flash should have faded")
	}
}

func TestSetDifficultyPerGame(t *testing.T) {
	g := New()
	if err := SetDifficulty(g, "hard"); err != nil {
		t.Fatalf("SetDifficulty: %v", err)
	}
	g.Reset(testRuntime())
	st := g.State()
	if st.Level != 3 || st.Lives != 2 {
		t.Errorf("hard preset state = %+v, expected level 3 with 2 lives", st)
	}

	other := New()
	other.Reset(testRuntime())
	if other.State().Level != 1 {
		t.Error("a per-game preset leaked into another game")
	}

	if err := SetDifficulty(g, "brutal"); err == nil {
		t.Error("unknown preset should be rejected")
	}
}
