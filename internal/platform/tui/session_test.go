package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
)

func sendSession(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	s, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return s
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	m := NewSessionModel(nil, cfg, "s1", nil)
	if m.SessionID() != "s1" {
		t.Errorf("session id = %q", m.SessionID())
	}

	m = sendSession(t, m, keyMsg("enter"))
	if m.screen != screenGame || m.game == nil {
		t.Fatalf("screen = %v after selecting a mode", m.screen)
	}
	if m.game.game.ID() != invaders.IDCommand {
		t.Errorf("started %q, want %q", m.game.game.ID(), invaders.IDCommand)
	}

	// First esc pauses, the second leaves once the pause took effect.
	m = sendSession(t, m, keyMsg("esc"))
	m = sendSession(t, m, TickMsg{})
	m = sendSession(t, m, keyMsg("esc"))
	if m.screen != screenMenu || m.game != nil {
		t.Fatalf("screen = %v, want menu", m.screen)
	}
	if m.quitting {
		t.Error("backing out of a game ended the session")
	}
}

func TestSessionScoreboardAndQuit(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60}
	m := NewSessionModel(nil, cfg, "s2", nil)

	m = sendSession(t, m, keyMsg("tab"))
	if m.screen != screenScores {
		t.Fatalf("screen = %v, want scores", m.screen)
	}
	m = sendSession(t, m, keyMsg("esc"))
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}

	next, cmd := m.Update(keyMsg("ctrl+c"))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("ctrl+c should end the session")
	}
}
