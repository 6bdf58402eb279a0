package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1024
	inputQueue     = 64
)

// Input is a client event.
type Input struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Dir  int     `json:"dir,omitempty"`
}

// Input types.
const (
	InputTap       = "tap"
	InputDirection = "direction"
	InputRelease   = "release"
	InputFire      = "fire"
	InputLaunch    = "launch"
	InputRestart   = "restart"
	InputPause     = "pause"
)

// FrameMessage is what the server sends on every frame.
type FrameMessage struct {
	Type    string `msgpack:"type"`
	Session string `msgpack:"session"`
	Mode    string `msgpack:"mode"`
	Paused  bool   `msgpack:"paused"`

	ShakeX     float64    `msgpack:"shake_x"`
	ShakeY     float64    `msgpack:"shake_y"`
	FlashColor core.Color `msgpack:"flash_color"`
	FlashAlpha float64    `msgpack:"flash_alpha"`

	sim.Frame `msgpack:",inline"`
}

type session struct {
	id     string
	conn   *websocket.Conn
	mode   invaders.Mode
	game   *sim.Game
	fx     *invaders.Effects
	store  *storage.Store
	log    *log.Logger
	inputs chan Input

	tickRate  int
	frameEach int
	paused    bool
	saved     bool
}

func newSession(id string, conn *websocket.Conn, mode invaders.Mode, seed int64, cfg Config, logger *log.Logger) *session {
	gameCfg, err := invaders.LoadConfig()
	if err != nil {
		logger.Warn("using fallback config values", "err", err)
	}
	invaders.ApplyMode(&gameCfg, mode)

	s := &session{
		id:        id,
		conn:      conn,
		mode:      mode,
		fx:        invaders.NewEffects(seed),
		store:     cfg.Store,
		log:       logger,
		inputs:    make(chan Input, inputQueue),
		tickRate:  cfg.TickRate,
		frameEach: max(1, cfg.TickRate/cfg.FrameRate),
	}
	s.game = sim.New(gameCfg, cfg.Width, cfg.Height, seed, sim.Deps{
		Effects: s.fx,
		Scores:  storage.NewHighScoreKeeper(cfg.Store, s.gameID(), logger),
		Logger:  logger,
	})
	return s
}

func (s *session) gameID() string {
	if s.mode == invaders.ModeDefend {
		return invaders.IDDefend
	}
	return invaders.IDCommand
}

// run ticks the simulation and writes frames until the client goes away
// or ctx is cancelled. It is the only writer on the connection.
func (s *session) run(ctx context.Context) {
	done := make(chan struct{})
	go s.readPump(done)

	ticker := time.NewTicker(time.Second / time.Duration(s.tickRate))
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
		s.conn.Close()
	}()

	if err := s.writeFrame(); err != nil {
		return
	}

	dt := 1 / float64(s.tickRate)
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			//nolint:errcheck // Best-effort close frame
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-done:
			return
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			s.drain()
			s.step(dt)
			if n%s.frameEach == 0 {
				if err := s.writeFrame(); err != nil {
					s.log.Debug("write failed", "err", err)
					return
				}
			}
		}
	}
}

// readPump decodes client events into the input queue. It closes done
// when the connection fails.
func (s *session) readPump(done chan<- struct{}) {
	defer close(done)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("read failed", "err", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var in Input
		if err := json.Unmarshal(data, &in); err != nil {
			s.log.Debug("bad input", "err", err)
			continue
		}
		select {
		case s.inputs <- in:
		default:
			// Client is flooding; drop.
		}
	}
}

func (s *session) drain() {
	for {
		select {
		case in := <-s.inputs:
			s.apply(in)
		default:
			return
		}
	}
}

// apply maps a client event onto the player's side.
func (s *session) apply(in Input) {
	switch in.Type {
	case InputPause:
		if !s.game.GameOver() {
			s.paused = !s.paused
		}
		return
	case InputRestart:
		s.game.Restart()
		return
	}
	if s.paused {
		return
	}

	switch s.mode {
	case invaders.ModeCommand:
		switch in.Type {
		case InputTap:
			s.game.TapAt(in.X, in.Y)
		case InputFire, InputLaunch:
			s.game.FireRandomAttacker()
		default:
			s.log.Debug("ignored input", "type", in.Type)
		}
	case invaders.ModeDefend:
		switch in.Type {
		case InputDirection:
			s.game.SetDefenderDirection(max(-1, min(1, in.Dir)))
		case InputRelease:
			s.game.ReleaseDefender()
		case InputFire, InputLaunch:
			s.game.FireDefenderNow()
		case InputTap:
			if s.game.GameOver() {
				s.game.Restart()
			} else {
				s.game.FireDefenderNow()
			}
		default:
			s.log.Debug("ignored input", "type", in.Type)
		}
	}
}

func (s *session) step(dt float64) {
	if s.paused {
		return
	}
	s.game.Update(dt)
	s.fx.Update(dt)

	switch {
	case s.game.GameOver() && !s.saved:
		s.saveResult()
		s.saved = true
	case !s.game.GameOver():
		s.saved = false
	}
}

// result returns the finished game from the player's side.
func (s *session) result() storage.Result {
	r := storage.Result{GameID: s.gameID(), Level: s.game.Level()}
	if s.mode == invaders.ModeCommand {
		r.Score = s.game.AttackerScore()
		r.Won = s.game.State() == sim.StateLost
	} else {
		r.Score = s.game.Score()
		r.Won = s.game.State() == sim.StateWon
	}
	return r
}

func (s *session) saveResult() {
	r := s.result()
	s.log.Info("game over", "score", r.Score, "level", r.Level, "won", r.Won)
	if s.store == nil || r.Score <= 0 {
		return
	}
	if _, err := s.store.SaveResult(r); err != nil {
		s.log.Warn("cannot save result", "err", err)
	}
}

func (s *session) message() FrameMessage {
	msg := FrameMessage{
		Type:    "frame",
		Session: s.id,
		Mode:    s.gameID(),
		Paused:  s.paused,
		Frame:   s.game.Frame(),
	}
	msg.ShakeX, msg.ShakeY = s.fx.Offset()
	if c, a, ok := s.fx.Flashing(); ok {
		msg.FlashColor, msg.FlashAlpha = c, a
	}
	return msg
}

func (s *session) writeFrame() error {
	msg := s.message()
	data, err := msgpack.Marshal(&msg)
	if err != nil {
		return err
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}
