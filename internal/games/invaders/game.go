// Package invaders adapts the invaders simulation to the arcade platform:
// it maps terminal input to simulation commands, converts between cells and
// world units, and renders frames into a core.Screen.
package invaders

import (
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

// Mode selects which side the player controls.
type Mode int

const (
	ModeCommand Mode = iota // Player commands the formation, the defender is autonomous
	ModeDefend              // Player pilots the defender, the formation fires on its own
)

// Registered game IDs.
const (
	IDCommand = "invaders"
	IDDefend  = "invaders-defender"
)

// Minimum terminal size
const (
	MinScreenW = 40
	MinScreenH = 16
)

// hudRows is the number of rows reserved above and below the playfield.
const hudRows = 2

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names reset it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// LoadConfig loads the invaders config with the CLI overrides applied.
// On error the returned config is still usable.
func LoadConfig() (config.InvadersConfig, error) {
	return loadConfig(difficultyPreset)
}

func loadConfig(preset config.DifficultyPreset) (config.InvadersConfig, error) {
	cfg, err := config.LoadInvaders(configPath)
	if preset != "" {
		config.ApplyInvadersPreset(&cfg, preset)
	}
	if envErr := config.ApplyEnvOverrides(&cfg); envErr != nil && err == nil {
		err = envErr
	}
	return cfg, err
}

// ModeFor returns the mode registered under a game ID.
func ModeFor(id string) (Mode, bool) {
	switch id {
	case IDCommand:
		return ModeCommand, true
	case IDDefend:
		return ModeDefend, true
	}
	return ModeCommand, false
}

// ApplyMode hands the player's side to the input and the other side to
// its autonomous behavior.
func ApplyMode(cfg *config.InvadersConfig, mode Mode) {
	switch mode {
	case ModeCommand:
		cfg.Defender.Autopilot = true
		cfg.Formation.AutoFire = false
	case ModeDefend:
		cfg.Defender.Autopilot = false
		cfg.Formation.AutoFire = true
	}
}

// Game is the arcade-facing invaders game.
type Game struct {
	mode    Mode
	deps    sim.Deps
	runtime core.RuntimeConfig
	cfg     config.InvadersConfig
	view    core.Viewport

	preset config.DifficultyPreset

	sim    *sim.Game
	fx     *Effects
	paused bool

	tooSmall bool
	loadErr  error
}

// New creates a game where the player commands the formation.
func New() *Game {
	return &Game{mode: ModeCommand}
}

// NewDefender creates a game where the player pilots the defender.
func NewDefender() *Game {
	return &Game{mode: ModeDefend}
}

// Attach injects collaborators. Must be called before Reset to take effect.
// Effects requests are always mirrored into the game's own shake and flash.
func (g *Game) Attach(deps sim.Deps) {
	g.deps = deps
}

// Attach injects collaborators into g if it is an invaders game.
func Attach(g registry.Game, deps sim.Deps) bool {
	ig, ok := g.(*Game)
	if ok {
		ig.Attach(deps)
	}
	return ok
}

// SetDifficulty overrides the package-wide preset for this game only.
// Takes effect on the next Reset.
func (g *Game) SetDifficulty(preset config.DifficultyPreset) {
	g.preset = preset
}

// SetDifficulty applies a named preset to g if it is an invaders game.
func SetDifficulty(g registry.Game, preset string) error {
	p, err := config.ParsePreset(preset)
	if err != nil {
		return err
	}
	if ig, ok := g.(*Game); ok {
		ig.SetDifficulty(p)
	}
	return nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeDefend {
		return IDDefend
	}
	return IDCommand
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeDefend {
		return "Invaders: Hold the Line"
	}
	return "Invaders: Command the Fleet"
}

// Mode returns which side the player controls.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset builds a new session sized to the terminal.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.paused = false

	preset := g.preset
	if preset == "" {
		preset = difficultyPreset
	}
	cfg, err := loadConfig(preset)
	g.loadErr = err
	if g.deps.Logger != nil && err != nil {
		g.deps.Logger.Warn("using fallback config values", "err", err)
	}

	ApplyMode(&cfg, g.mode)
	g.cfg = cfg

	g.tooSmall = runtime.ScreenW < MinScreenW || runtime.ScreenH < MinScreenH
	if g.tooSmall {
		g.sim = nil
		return
	}

	rows := runtime.ScreenH - hudRows
	width := float64(runtime.ScreenW) * cfg.World.CellWidth
	height := max(float64(rows)*cfg.World.CellHeight, cfg.World.MinHeight)
	g.view = core.Viewport{WorldW: width, WorldH: height, Cols: runtime.ScreenW, Rows: rows}

	g.fx = NewEffects(runtime.Seed)
	deps := g.deps
	if deps.Effects != nil {
		deps.Effects = fanout{g.fx, deps.Effects}
	} else {
		deps.Effects = g.fx
	}
	g.sim = sim.New(cfg, width, height, runtime.Seed, deps)
}

// ConfigError returns the error from the last config load, if any.
func (g *Game) ConfigError() error {
	return g.loadErr
}

// Step advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.tooSmall || g.sim == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.sim.GameOver() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.sim.Restart()
	}

	switch g.mode {
	case ModeCommand:
		g.commandInput(in)
	case ModeDefend:
		g.defendInput(in)
	}

	dt := g.runtime.TickSeconds()
	g.sim.Update(dt)
	g.fx.Update(dt)

	return core.StepResult{State: g.State()}
}

func (g *Game) commandInput(in core.InputFrame) {
	for _, tap := range in.Taps {
		if x, y, ok := g.toWorld(tap); ok {
			g.sim.TapAt(x, y)
		}
	}
	if in.Has(core.ActionLaunch) || in.Has(core.ActionFire) {
		g.sim.FireRandomAttacker()
	}
}

func (g *Game) defendInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionLeft):
		g.sim.SetDefenderDirection(-1)
	case in.Has(core.ActionRight):
		g.sim.SetDefenderDirection(1)
	case in.Has(core.ActionStop):
		g.sim.SetDefenderDirection(0)
	}
	if in.Has(core.ActionAutopilot) {
		g.sim.ReleaseDefender()
	}
	if in.Has(core.ActionFire) || in.Has(core.ActionLaunch) {
		g.sim.FireDefenderNow()
	}
	if len(in.Taps) > 0 {
		if g.sim.GameOver() {
			g.sim.Restart()
		} else {
			g.sim.FireDefenderNow()
		}
	}
}

// toWorld converts a screen tap into world coordinates. Taps on the HUD
// rows are ignored.
func (g *Game) toWorld(tap core.Tap) (float64, float64, bool) {
	row := tap.Y - 1
	if row < 0 || row >= g.view.Rows {
		return 0, 0, false
	}
	x, y := g.view.ToWorld(tap.X, row)
	return x, y, true
}

// State returns the current game state from the player's side.
func (g *Game) State() core.GameState {
	if g.sim == nil {
		return core.GameState{}
	}
	st := core.GameState{
		HighScore: g.sim.HighScore(),
		Level:     g.sim.Level(),
		Lives:     g.sim.Lives(),
		GameOver:  g.sim.GameOver(),
		Paused:    g.paused,
	}
	if g.mode == ModeCommand {
		st.Score = g.sim.AttackerScore()
		st.RivalScore = g.sim.Score()
		st.Won = g.sim.State() == sim.StateLost
	} else {
		st.Score = g.sim.Score()
		st.RivalScore = g.sim.AttackerScore()
		st.Won = g.sim.State() == sim.StateWon
	}
	return st
}

// Sim returns the underlying simulation, nil if the screen is too small.
func (g *Game) Sim() *sim.Game {
	return g.sim
}

// Effects returns the shake and flash tracker.
func (g *Game) Effects() *Effects {
	return g.fx
}

// Register the games with the registry
func init() {
	registry.Register(IDCommand, func() registry.Game {
		return New()
	})
	registry.Register(IDDefend, func() registry.Game {
		return NewDefender()
	})
}
