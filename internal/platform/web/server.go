// Package web streams simulation frames to browsers over WebSocket.
//
// Each connection gets a private simulation. The server pushes msgpack
// encoded frames as binary messages and accepts JSON input events:
//
//	{"type": "tap", "x": 120, "y": 96}
//	{"type": "direction", "dir": -1}
//	{"type": "fire"} {"type": "launch"} {"type": "release"} {"type": "restart"}
//
// Coordinates are world units; every frame carries the world size.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// Config holds configuration for the web feed.
type Config struct {
	// Addr is the host:port to listen on (e.g., ":8080").
	Addr string

	// TickRate is the simulation rate of every session.
	TickRate int

	// FrameRate is how many frames per second are sent to each client.
	FrameRate int

	// Width and Height are the world size in pixels.
	Width  float64
	Height float64

	// Store persists finished games. Optional.
	Store *storage.Store

	// Logger receives server and session logs. Optional.
	Logger *log.Logger
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:      ":8080",
		TickRate:  60,
		FrameRate: 30,
		Width:     640,
		Height:    480,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.FrameRate <= 0 || c.FrameRate > c.TickRate {
		c.FrameRate = min(d.FrameRate, c.TickRate)
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

// Server serves the WebSocket feed.
type Server struct {
	cfg      Config
	log      *log.Logger
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	active atomic.Int64
}

// NewServer creates a feed server. Sessions live until their client leaves
// or Close is called.
func NewServer(cfg Config) *Server {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg: cfg,
		log: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler returns the HTTP routes: /ws for the feed and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "ok %d\n", s.Active())
	})
	return mux
}

// Active returns the number of connected sessions.
func (s *Server) Active() int {
	return int(s.active.Load())
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting web feed", "address", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close ends every session and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// handleWS upgrades the connection and runs a session until it ends.
// Query parameters: mode (game ID) and seed.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode := invaders.ModeCommand
	if id := q.Get("mode"); id != "" {
		m, ok := invaders.ModeFor(id)
		if !ok {
			http.Error(w, fmt.Sprintf("unknown mode %q", id), http.StatusBadRequest)
			return
		}
		mode = m
	}

	seed := time.Now().UnixNano()
	if raw := q.Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
		seed = v
	}

	if s.ctx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	id := uuid.NewString()
	logger := s.log.With("session", id)
	sess := newSession(id, conn, mode, seed, s.cfg, logger)

	s.wg.Add(1)
	s.active.Add(1)
	defer func() {
		s.active.Add(-1)
		s.wg.Done()
	}()

	logger.Info("session started", "remote", r.RemoteAddr, "mode", sess.gameID())
	sess.run(s.ctx)
	logger.Info("session ended", "ticks", sess.game.Tick())
}
