package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// scriptedGame ends after a fixed number of steps and restarts on request.
type scriptedGame struct {
	steps     int
	endAfter  int
	over      bool
	paused    bool
	resets    int
	lastInput core.InputFrame
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }
func (g *scriptedGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps, g.over = 0, false
}

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.lastInput = in.Clone()
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionRestart) && g.over {
		g.steps, g.over = 0, false
	}
	g.steps++
	if g.steps >= g.endAfter {
		g.over = true
	}
	return core.StepResult{State: g.State()}
}

func (g *scriptedGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "scripted") }

func (g *scriptedGame) State() core.GameState {
	return core.GameState{Score: 120, Level: 2, GameOver: g.over, Won: true, Paused: g.paused}
}

func newTestModel(t *testing.T, g *scriptedGame, embedded bool) (Model, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
	m := NewModel(g, store, cfg, Options{Embedded: embedded})
	m.Init()
	return m, store
}

func tick(m Model) Model {
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModelSavesResultOncePerGame(t *testing.T) {
	g := &scriptedGame{endAfter: 3}
	m, store := newTestModel(t, g, false)

	for i := 0; i < 10; i++ {
		m = tick(m)
	}
	scores, err := store.TopScores("scripted", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Fatalf("saved %d results, expected 1", len(scores))
	}
	if scores[0].Score != 120 || scores[0].Level != 2 || !scores[0].Won {
		t.Errorf("saved %+v", scores[0])
	}

	m, _ = send(m, keyMsg("r"))
	for i := 0; i < 10; i++ {
		m = tick(m)
	}
	scores, _ = store.TopScores("scripted", 10)
	if len(scores) != 2 {
		t.Errorf("after a restart saved %d results, expected 2", len(scores))
	}
}

func TestModelForwardsInput(t *testing.T) {
	g := &scriptedGame{endAfter: 1000}
	m, _ := newTestModel(t, g, false)

	m, _ = send(m, keyMsg(" "))
	m, _ = send(m, tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = tick(m)

	if !g.lastInput.Has(core.ActionLaunch) {
		t.Error("space did not reach the game as Launch")
	}
	if len(g.lastInput.Taps) != 1 || g.lastInput.Taps[0] != (core.Tap{X: 3, Y: 4}) {
		t.Errorf("taps = %v", g.lastInput.Taps)
	}

	m = tick(m)
	if g.lastInput.Has(core.ActionLaunch) || len(g.lastInput.Taps) != 0 {
		t.Error("input was not cleared after the tick")
	}
}

func TestModelBackPausesThenLeaves(t *testing.T) {
	g := &scriptedGame{endAfter: 1000}
	m, _ := newTestModel(t, g, true)
	m = tick(m)

	m, _ = send(m, keyMsg("esc"))
	m = tick(m)
	if !g.paused || m.BackToMenu() {
		t.Fatalf("first esc should pause, paused=%v back=%v", g.paused, m.BackToMenu())
	}

	m, cmd := send(m, keyMsg("esc"))
	if !m.BackToMenu() {
		t.Error("esc while paused should return to the menu")
	}
	if cmd != nil {
		t.Error("an embedded model must not quit the program")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, &scriptedGame{endAfter: 1000}, false)
	m, cmd := send(m, keyMsg("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("a quitting model renders nothing")
	}
}

func TestModelRunsInvaders(t *testing.T) {
	game := invaders.New()
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 3}, Options{})
	m.Init()
	for i := 0; i < 5; i++ {
		m = tick(m)
	}
	if st := m.State(); st.Level != 1 || st.GameOver {
		t.Errorf("state after 5 ticks = %+v", st)
	}
	if !strings.Contains(m.View(), "FLEET") {
		t.Error("HUD missing from the view")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.SetPen(core.ColorRed)
	s.DrawText(0, 0, "ab")
	s.SetPen(core.ColorDefault)
	s.DrawText(3, 1, "cd")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || lines[1] != "   cd     " {
		t.Errorf("rendered %q", out)
	}
}

func TestWriteScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := core.NewScreen(6, 2)
	s.DrawText(0, 1, "ship")
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	path, err := writeScreenshot(dir, "invaders", core.GameState{Score: 120, Level: 2}, s, at)
	if err != nil {
		t.Fatalf("writeScreenshot: %v", err)
	}
	if filepath.Base(path) != "invaders_20240506_070809.txt" {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if !strings.HasPrefix(lines[0], "# invaders  score 120  level 2") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "ship  " {
		t.Errorf("row = %q", lines[2])
	}
}
