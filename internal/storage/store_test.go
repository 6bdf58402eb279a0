package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
	if store.Dialect() != DialectSQLite {
		t.Errorf("dialect = %v, expected sqlite", store.Dialect())
	}
}

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		dsn     string
		want    Dialect
		wantErr bool
	}{
		{"~/.invaders/scores.db", DialectSQLite, false},
		{"/tmp/scores.db", DialectSQLite, false},
		{"file:///tmp/scores.db", DialectSQLite, false},
		{"postgres://u:p@localhost/invaders?sslmode=disable", DialectPostgres, false},
		{"postgresql://localhost/invaders", DialectPostgres, false},
		{"mysql://localhost/invaders", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.dsn, func(t *testing.T) {
			got, err := DetectDialect(tc.dsn)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedDSN) {
					t.Fatalf("error = %v, expected ErrUnsupportedDSN", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("dialect = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestOpenUnsupportedDSN(t *testing.T) {
	if _, err := Open("redis://localhost"); !errors.Is(err, ErrUnsupportedDSN) {
		t.Errorf("Open() error = %v, expected ErrUnsupportedDSN", err)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"WHERE a = ? AND b = ?", "WHERE a = $1 AND b = $2"},
		{"VALUES (?, '?', ?)", "VALUES ($1, '?', $2)"},
	}
	for _, tc := range tests {
		if got := Rebind(tc.in); got != tc.want {
			t.Errorf("Rebind(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}

	sqlite := &Store{dialect: DialectSQLite}
	if got := sqlite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite queries should keep ? placeholders, got %q", got)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	results := []Result{
		{GameID: "invaders", Score: 100, Level: 1},
		{GameID: "invaders", Score: 50, Level: 2},
		{GameID: "invaders", Score: 990, Level: 5, Won: true},
		{GameID: "invaders-defender", Score: 500, Level: 1},
	}
	for _, r := range results {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	scores, err := store.TopScores("invaders", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 990 || !scores[0].Won || scores[0].Level != 5 {
		t.Errorf("top entry = %+v, expected the winning 990 at level 5", scores[0])
	}
	if scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[2].Won {
		t.Error("a lost game was read back as won")
	}

	other, err := store.TopScores("invaders-defender", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 defender score, got %d", len(other))
	}
}

func TestStoreSaveScoreDefaults(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveScore("invaders", 40)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("inserted id = %d", id)
	}
	if _, err := store.SaveResult(Result{GameID: "invaders", Score: 10, Level: -3}); err != nil {
		t.Fatal(err)
	}

	scores, _ := store.AllScores("invaders")
	for _, s := range scores {
		if s.Level != 1 {
			t.Errorf("level = %d, expected 1", s.Level)
		}
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100) //nolint:errcheck // Test setup
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("invaders")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("invaders", 100) //nolint:errcheck // Test setup
	store.SaveScore("invaders", 300) //nolint:errcheck // Test setup
	store.SaveScore("invaders", 200) //nolint:errcheck // Test setup

	high, err = store.HighScore("invaders")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("invaders", 100)          //nolint:errcheck // Test setup
	store.SaveScore("invaders", 200)          //nolint:errcheck // Test setup
	store.SaveScore("invaders-defender", 300) //nolint:errcheck // Test setup

	if err := store.ClearScores("invaders"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("invaders", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("invaders-defender", 10); len(scores) != 1 {
		t.Errorf("Other modes should not be affected by clearing")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(Result{GameID: "invaders", Score: 300, Level: 2})            //nolint:errcheck // Test setup
	store.SaveResult(Result{GameID: "invaders", Score: 900, Level: 5, Won: true}) //nolint:errcheck // Test setup

	stats, err := store.GetGameStats("invaders")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.Wins != 1 || stats.HighScore != 900 || stats.BestLevel != 5 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 600 {
		t.Errorf("avg = %v, expected 600", stats.AvgScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("last played not parsed")
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil {
		t.Fatalf("GetGameStats() on empty game failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestStoreRecord(t *testing.T) {
	store := openTestStore(t)

	if best, err := store.Record("invaders"); err != nil || best != 0 {
		t.Fatalf("Record() on empty store = %d, %v", best, err)
	}
	for _, score := range []int{400, 250, 900} {
		if err := store.SetRecord("invaders", score); err != nil {
			t.Fatalf("SetRecord(%d) failed: %v", score, err)
		}
	}
	if best, _ := store.Record("invaders"); best != 900 {
		t.Errorf("record = %d, expected 900", best)
	}
	if best, _ := store.Record("invaders-defender"); best != 0 {
		t.Errorf("other mode record = %d, expected 0", best)
	}

	if err := store.ClearScores("invaders"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if best, _ := store.Record("invaders"); best != 0 {
		t.Errorf("record after clear = %d, expected 0", best)
	}
}

func TestHighScoreKeeper(t *testing.T) {
	store := openTestStore(t)
	store.SetRecord("invaders", 700) //nolint:errcheck // Test setup

	k := NewHighScoreKeeper(store, "invaders", nil)
	if k.HighScore() != 700 {
		t.Fatalf("loaded best = %d, expected 700", k.HighScore())
	}
	k.SetHighScore(500)
	if k.HighScore() != 700 {
		t.Error("a lower score replaced the best")
	}
	k.SetHighScore(800)
	if k.HighScore() != 800 {
		t.Errorf("best = %d, expected 800", k.HighScore())
	}

	if NewHighScoreKeeper(nil, "invaders", nil).HighScore() != 0 {
		t.Error("keeper without a store should start at zero")
	}
}

func TestHighScoreKeeperPersists(t *testing.T) {
	store := openTestStore(t)
	// Results are per-player history and do not feed the record.
	store.SaveResult(Result{GameID: "invaders", Score: 40}) //nolint:errcheck // Test setup

	NewHighScoreKeeper(store, "invaders", nil).SetHighScore(10)

	if got := NewHighScoreKeeper(store, "invaders", nil).HighScore(); got != 10 {
		t.Errorf("fresh keeper read %d, expected the 10 that was set", got)
	}
	if got, _ := store.Record("invaders"); got != 10 {
		t.Errorf("stored record = %d, expected 10", got)
	}
}
