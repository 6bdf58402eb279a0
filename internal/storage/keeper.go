package storage

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// HighScoreKeeper serves one game's best score to the simulation.
// It reads the record from high_scores once and writes every raise straight
// back, so a later keeper for the same game starts from the same value.
type HighScoreKeeper struct {
	mu     sync.Mutex
	store  *Store
	log    *log.Logger
	gameID string
	best   int
}

// NewHighScoreKeeper loads the stored record for gameID. A nil store keeps
// the best in memory only; a failed query starts from zero and is logged.
func NewHighScoreKeeper(store *Store, gameID string, logger *log.Logger) *HighScoreKeeper {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	k := &HighScoreKeeper{store: store, log: logger, gameID: gameID}
	if store == nil {
		return k
	}
	best, err := store.Record(gameID)
	if err != nil {
		logger.Warn("cannot load high score", "game", gameID, "err", err)
		return k
	}
	k.best = best
	return k
}

// GameID returns the game the keeper tracks.
func (k *HighScoreKeeper) GameID() string { return k.gameID }

// HighScore returns the best known score.
func (k *HighScoreKeeper) HighScore() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.best
}

// SetHighScore raises the best and persists it. Lower values are ignored.
// A failed write is logged; the in-memory best still moves.
func (k *HighScoreKeeper) SetHighScore(score int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if score <= k.best {
		return
	}
	k.best = score
	if k.store == nil {
		return
	}
	if err := k.store.SetRecord(k.gameID, score); err != nil {
		k.log.Warn("cannot save high score", "game", k.gameID, "score", score, "err", err)
	}
}
