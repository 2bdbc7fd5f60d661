package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/starstrike/internal/multiplayer"
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
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	v, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if v != 3 {
		t.Errorf("schema version = %d, expected 3", v)
	}
	store.SaveScore(ScoreEntry{GameID: "starstrike", Score: 10})
	store.Close()

	// Reopening must not reapply migrations or lose data.
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	if hs, _ := store.HighScore("starstrike"); hs != 10 {
		t.Errorf("HighScore after reopen = %d, expected 10", hs)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	entries := []ScoreEntry{
		{GameID: "starstrike", Player: "ann", Score: 100, Level: 2, Kills: 10, MaxCombo: 4},
		{GameID: "starstrike", Player: "bob", Score: 50},
		{GameID: "starstrike", Player: "cy", Score: 200, Level: 5, Kills: 40, MaxCombo: 12},
		{GameID: "starstrike_hard", Player: "ann", Score: 500},
	}
	for _, e := range entries {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("starstrike", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []int{200, 100, 50}
	for i, s := range scores {
		if s.Score != want[i] {
			t.Errorf("Score[%d] = %d, expected %d", i, s.Score, want[i])
		}
	}
	if top := scores[0]; top.Player != "cy" || top.Level != 5 || top.Kills != 40 || top.MaxCombo != 12 {
		t.Errorf("top entry = %+v", top)
	}
	if scores[2].Level != 1 {
		t.Errorf("missing level should default to 1, got %d", scores[2].Level)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 20 {
		store.SaveScore(ScoreEntry{GameID: "starstrike", Score: i * 10})
	}

	tests := []struct {
		limit, want int
	}{
		{5, 5},
		{0, 10},
		{50, 20},
	}
	for _, tc := range tests {
		scores, err := store.TopScores("starstrike", tc.limit)
		if err != nil {
			t.Fatalf("TopScores(%d) failed: %v", tc.limit, err)
		}
		if len(scores) != tc.want {
			t.Errorf("TopScores(%d) returned %d scores, expected %d", tc.limit, len(scores), tc.want)
		}
	}

	all, err := store.AllScores("starstrike")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 20 || all[0].Score != 190 {
		t.Errorf("AllScores() = %d entries, first %d", len(all), all[0].Score)
	}
}

func TestStoreTopScoresTieOrder(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore(ScoreEntry{GameID: "starstrike", Player: "first", Score: 70})
	store.SaveScore(ScoreEntry{GameID: "starstrike", Player: "second", Score: 70})

	scores, _ := store.TopScores("starstrike", 2)
	if len(scores) != 2 || scores[0].Player != "first" {
		t.Errorf("equal scores should list the earlier run first, got %+v", scores)
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	hs, err := store.HighScore("starstrike")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if hs != 0 {
		t.Errorf("Expected high score 0 for empty table, got %d", hs)
	}

	store.SaveScore(ScoreEntry{GameID: "starstrike", Score: 100})
	store.SaveScore(ScoreEntry{GameID: "starstrike", Score: 300})
	store.SaveScore(ScoreEntry{GameID: "starstrike_hard", Score: 900})

	if hs, _ = store.HighScore("starstrike"); hs != 300 {
		t.Errorf("Expected high score 300, got %d", hs)
	}

	if err := store.ClearScores("starstrike"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores("starstrike", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if hs, _ = store.HighScore("starstrike_hard"); hs != 900 {
		t.Error("clearing one game should not touch another")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore(ScoreEntry{GameID: "starstrike", Score: 100, Level: 2, Kills: 12, MaxCombo: 3})
	store.SaveScore(ScoreEntry{GameID: "starstrike", Score: 300, Level: 4, Kills: 30, MaxCombo: 9})
	store.SaveScore(ScoreEntry{GameID: "starstrike_hard", Score: 50, Level: 3})

	st, err := store.GetGameStats("starstrike")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if st.GamesCount != 2 || st.HighScore != 300 || st.TotalScore != 400 || st.AvgScore != 200 {
		t.Errorf("stats = %+v", st)
	}
	if st.BestLevel != 4 || st.BestCombo != 9 || st.TotalKills != 42 {
		t.Errorf("best level/combo/kills = %d/%d/%d", st.BestLevel, st.BestCombo, st.TotalKills)
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil {
		t.Fatalf("GetGameStats() on empty game failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["starstrike_hard"].HighScore != 50 {
		t.Errorf("all stats = %v", all)
	}
}

func TestWalletDepositAndSpend(t *testing.T) {
	store := openTestStore(t)

	if b, _ := store.Balance("ann"); b != 0 {
		t.Errorf("unknown player balance = %d", b)
	}

	b, err := store.Deposit("ann", 12)
	if err != nil || b != 12 {
		t.Fatalf("Deposit() = %d, %v", b, err)
	}
	if b, _ = store.Deposit("ann", 8); b != 20 {
		t.Errorf("second deposit balance = %d, expected 20", b)
	}

	if b, err = store.Spend("ann", 15); err != nil || b != 5 {
		t.Errorf("Spend() = %d, %v", b, err)
	}
	if _, err = store.Spend("ann", 6); !errors.Is(err, ErrInsufficientCoins) {
		t.Errorf("overspend error = %v, expected ErrInsufficientCoins", err)
	}
	if b, _ = store.Balance("ann"); b != 5 {
		t.Errorf("failed spend should not change the balance, got %d", b)
	}

	if _, err = store.Deposit("ann", -1); err == nil {
		t.Error("negative deposit should fail")
	}
}

func TestWalletsOrdered(t *testing.T) {
	store := openTestStore(t)
	store.Deposit("bob", 3)
	store.Deposit("ann", 9)
	store.Deposit("cy", 3)

	wallets, err := store.Wallets()
	if err != nil {
		t.Fatalf("Wallets() failed: %v", err)
	}
	want := []string{"ann", "bob", "cy"}
	if len(wallets) != len(want) {
		t.Fatalf("got %d wallets", len(wallets))
	}
	for i, w := range wallets {
		if w.Player != want[i] {
			t.Errorf("wallet[%d] = %s, expected %s", i, w.Player, want[i])
		}
	}
}

func TestSaveMatchResult(t *testing.T) {
	store := openTestStore(t)

	data := multiplayer.MatchResultData{
		MatchID:      "m-1",
		GameID:       "starstrike",
		Player1:      "ann",
		Player2:      "bob",
		Score1:       120,
		Score2:       80,
		Winner:       1,
		EndReason:    "Match completed",
		DurationSecs: 95,
	}
	if err := store.SaveMatchResult(data); err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}
	if err := store.SaveMatchResult(data); !errors.Is(err, ErrDuplicateMatch) {
		t.Errorf("duplicate save error = %v, expected ErrDuplicateMatch", err)
	}

	d, err := store.DuelByID("m-1")
	if err != nil || d == nil {
		t.Fatalf("DuelByID() = %v, %v", d, err)
	}
	if d.Player1 != "ann" || d.Score1 != 120 || d.Winner != 1 || d.Duration != 95 {
		t.Errorf("duel = %+v", *d)
	}

	if missing, _ := store.DuelByID("nope"); missing != nil {
		t.Error("unknown match should return nil")
	}
}

func TestRecentAndPlayerDuels(t *testing.T) {
	store := openTestStore(t)
	for i, pair := range [][2]string{{"ann", "bob"}, {"bob", "cy"}, {"cy", "dee"}} {
		store.SaveDuel(DuelRecord{
			MatchID:   string(rune('a' + i)),
			GameID:    "starstrike",
			Player1:   pair[0],
			Player2:   pair[1],
			EndReason: "Time up",
		})
	}

	recent, err := store.RecentDuels(2)
	if err != nil {
		t.Fatalf("RecentDuels() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].MatchID != "c" {
		t.Errorf("recent duels = %+v", recent)
	}

	bobs, err := store.PlayerDuels("bob", 0)
	if err != nil {
		t.Fatalf("PlayerDuels() failed: %v", err)
	}
	if len(bobs) != 2 {
		t.Errorf("bob played %d duels, expected 2", len(bobs))
	}
}
