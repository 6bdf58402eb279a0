package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterCreateList(t *testing.T) {
	Register("zz-stub-b", func() Game { return &stubGame{id: "zz-stub-b"} })
	Register("zz-stub-a", func() Game { return &stubGame{id: "zz-stub-a"} })

	if !Exists("zz-stub-a") {
		t.Fatal("registered game does not exist")
	}

	info, ok := Lookup("zz-stub-b")
	if !ok || info.Title != "Stub zz-stub-b" {
		t.Errorf("Lookup = %+v, %v", info, ok)
	}

	g, err := Create("zz-stub-a")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "zz-stub-a" {
		t.Errorf("created %q", g.ID())
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("List() not sorted: %v", list)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no-such-game")
	if !errors.Is(err, ErrUnknownGame) {
		t.Errorf("error = %v, expected ErrUnknownGame", err)
	}
	if _, ok := Lookup("no-such-game"); ok {
		t.Error("Lookup found an unregistered game")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-stub-dup", func() Game { return &stubGame{id: "zz-stub-dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("zz-stub-dup", func() Game { return &stubGame{id: "zz-stub-dup"} })
}
