package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the given mode, "invaders" when omitted.

Controls (invaders):
  Mouse click  - Fire the clicked attacker
  Space/F      - A ready attacker fires

Controls (invaders-defender):
  Left/Right   - Steer
  Down         - Stop
  Up/F         - Fire
  X            - Hand the ship to the autopilot

Both:
  P/Esc        - Pause
  R/Enter      - Restart (after game over)
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Gentler level curve, five lives
  normal - The defaults, three lives
  hard   - Start at level 3 on a steeper curve, two lives
  fixed  - No level scaling, the config's values stay as written

Examples:
  invaders play
  invaders play invaders-defender
  invaders play --difficulty hard --seed 42
  invaders play --config ./my-invaders.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := invaders.IDCommand
	if len(args) > 0 {
		gameID = args[0]
	}

	game, err := registry.Create(gameID)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownGame) {
			fmt.Fprintln(os.Stderr, "Run 'invaders list' to see available modes.")
		}
		return err
	}

	logger, closeLog := gameLogger()
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	player := openAudio(logger)
	defer player.Close()

	cfg := terminalConfig()
	logger.Info("starting game", "game", gameID, "difficulty", flagDifficulty, "seed", cfg.Seed)

	if err := tui.Run(game, store, cfg, tui.Options{Audio: player, Logger: logger}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
