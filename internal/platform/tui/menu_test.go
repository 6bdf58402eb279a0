package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

func sendMenu(t *testing.T, m MenuModel, msg tea.Msg) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestMenuShowsSidesAndBest(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()
	if _, err := store.SaveResult(storage.Result{GameID: invaders.IDDefend, Score: 1234, Level: 2}); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	m := NewMenuModel(store, core.RuntimeConfig{ScreenW: 100, ScreenH: 30})
	view := m.View()
	for _, want := range []string{"Command the Fleet", "Hold the Line", "best 1234", "no scores yet", "Difficulty: < normal >"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.Choice() != MenuPending {
		t.Errorf("choice = %v before any key", m.Choice())
	}
}

func TestMenuPicksSideAndDifficulty(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 60, ScreenH: 30})

	m, _ = sendMenu(t, m, keyMsg("down"))
	m, _ = sendMenu(t, m, keyMsg("down"))
	if m.GameID() != invaders.IDDefend {
		t.Errorf("cursor on %q, want %q", m.GameID(), invaders.IDDefend)
	}
	m, _ = sendMenu(t, m, keyMsg("left"))
	if m.Difficulty() != config.DifficultyEasy {
		t.Errorf("difficulty = %q, want easy after wrapping left", m.Difficulty())
	}

	m, cmd := sendMenu(t, m, keyMsg("enter"))
	if m.Choice() != MenuPlay || cmd == nil {
		t.Fatalf("choice = %v, cmd = %v", m.Choice(), cmd)
	}
	if m.View() != "" {
		t.Error("menu should stop drawing once decided")
	}
}

func TestMenuScoresAndQuit(t *testing.T) {
	tests := map[string]MenuChoice{
		"tab": MenuScores,
		"esc": MenuQuit,
		"q":   MenuQuit,
	}
	for key, want := range tests {
		t.Run(key, func(t *testing.T) {
			m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
			m, _ = sendMenu(t, m, keyMsg(key))
			if m.Choice() != want {
				t.Errorf("choice = %v, want %v", m.Choice(), want)
			}
		})
	}
}

func TestMenuResize(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	m, _ = sendMenu(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if cfg := m.Config(); cfg.ScreenW != 120 || cfg.ScreenH != 40 {
		t.Errorf("config = %+v", cfg)
	}
}
