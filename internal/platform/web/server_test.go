package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(Config{TickRate: 60, FrameRate: 60})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) FrameMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	var msg FrameMessage
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func TestHealthz(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "ok") {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestRejectsBadQuery(t *testing.T) {
	_, ts := testServer(t)

	for _, q := range []string{"?mode=pong", "?seed=abc"} {
		resp, err := http.Get(ts.URL + "/ws" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestStreamsFrames(t *testing.T) {
	srv, ts := testServer(t)
	conn := dial(t, ts, "?seed=7")

	msg := readFrame(t, conn)
	if msg.Type != "frame" || msg.Session == "" {
		t.Errorf("envelope = %q session %q", msg.Type, msg.Session)
	}
	if msg.Mode != invaders.IDCommand {
		t.Errorf("mode = %q, want %q", msg.Mode, invaders.IDCommand)
	}
	if msg.Width != 640 || msg.Height != 480 {
		t.Errorf("world = %vx%v", msg.Width, msg.Height)
	}
	if len(msg.Attackers) == 0 || msg.State != sim.StatePlaying {
		t.Errorf("fresh frame has %d attackers in state %v", len(msg.Attackers), msg.State)
	}
	if srv.Active() != 1 {
		t.Errorf("active = %d, want 1", srv.Active())
	}

	next := readFrame(t, conn)
	if next.Tick <= msg.Tick {
		t.Errorf("tick did not advance: %d then %d", msg.Tick, next.Tick)
	}
}

func TestFireInputReachesSimulation(t *testing.T) {
	_, ts := testServer(t)
	conn := dial(t, ts, "?seed=3")
	readFrame(t, conn)

	if err := conn.WriteJSON(Input{Type: InputFire}); err != nil {
		t.Fatal(err)
	}
	for range 120 {
		for _, b := range readFrame(t, conn).Bullets {
			if b.Owner == sim.OwnerAttacker {
				return
			}
		}
	}
	t.Fatal("no attacker bullet after fire input")
}

func TestDefendModeQuery(t *testing.T) {
	_, ts := testServer(t)
	conn := dial(t, ts, "?mode="+invaders.IDDefend+"&seed=1")

	msg := readFrame(t, conn)
	if msg.Mode != invaders.IDDefend {
		t.Errorf("mode = %q", msg.Mode)
	}
	if !msg.Defender.Present || msg.Defender.Mode != sim.ModeManual {
		t.Errorf("defender = %+v, want present under manual control", msg.Defender)
	}
}

func newTestSession(mode invaders.Mode) *session {
	cfg := DefaultConfig().withDefaults()
	cfg.Logger = log.New(io.Discard)
	return newSession("test", nil, mode, 1, cfg, cfg.Logger)
}

func TestApplyCommandInputs(t *testing.T) {
	s := newTestSession(invaders.ModeCommand)

	s.apply(Input{Type: InputFire})
	if len(s.game.Bullets()) != 1 {
		t.Fatalf("bullets = %d, want 1", len(s.game.Bullets()))
	}

	// Defender controls mean nothing to the fleet.
	s.apply(Input{Type: InputDirection, Dir: 1})
	if s.game.Defender().Mode == sim.ModeManual {
		t.Error("direction input took over the defender in command mode")
	}
}

func TestApplyPauseBlocksInput(t *testing.T) {
	s := newTestSession(invaders.ModeCommand)

	s.apply(Input{Type: InputPause})
	s.apply(Input{Type: InputFire})
	if len(s.game.Bullets()) != 0 {
		t.Error("fired while paused")
	}

	tick := s.game.Tick()
	s.step(1.0 / 60)
	if s.game.Tick() != tick {
		t.Error("paused session advanced")
	}

	s.apply(Input{Type: InputPause})
	s.apply(Input{Type: InputFire})
	if len(s.game.Bullets()) != 1 {
		t.Error("fire ignored after unpause")
	}
}

func TestApplyDefendInputs(t *testing.T) {
	s := newTestSession(invaders.ModeDefend)

	s.apply(Input{Type: InputDirection, Dir: 5})
	if s.game.Defender().Mode != sim.ModeManual {
		t.Fatalf("defender mode = %v, want manual", s.game.Defender().Mode)
	}
	s.apply(Input{Type: InputFire})
	bullets := s.game.Bullets()
	if len(bullets) != 1 || bullets[0].Owner != sim.OwnerDefender {
		t.Fatalf("bullets = %+v, want one defender bullet", bullets)
	}
}

func TestInputDecoding(t *testing.T) {
	var in Input
	if err := json.Unmarshal([]byte(`{"type":"tap","x":12.5,"y":40}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Type != InputTap || in.X != 12.5 || in.Y != 40 {
		t.Errorf("decoded %+v", in)
	}
}
